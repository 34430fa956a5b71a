// Sample program that walks a dump and reports throughput, optionally
// looking for geo data along the way.
package main

import (
	"encoding/gob"
	"flag"
	"log"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/corpustools/wikidump"
	"github.com/dustin/go-humanize"
)

var numWorkers int
var parseCoords bool
var profileName string

var wg, errwg sync.WaitGroup

func activeProfile() *wikidump.Profile {
	p, ok := wikidump.LookupProfile(profileName)
	if !ok {
		log.Fatalf("Unknown syntax profile: %v", profileName)
	}
	return p
}

func parsePageCoords(p *wikidump.Page, cherr chan<- *wikidump.Page) {
	if len(p.Revisions) == 0 {
		return
	}
	_, err := wikidump.ParseCoords(p.Revisions[0].Raw)
	if err != nil && err != wikidump.NoCoordFound {
		cherr <- p
		log.Printf("Error parsing geo from %q: %v", p.Title, err)
	}
}

func pageHandler(ch <-chan *wikidump.Page, cherr chan<- *wikidump.Page) {
	for p := range ch {
		if parseCoords {
			parsePageCoords(p, cherr)
		}
		wg.Done()
	}
}

func errorHandler(ch <-chan *wikidump.Page) {
	defer errwg.Done()
	f, err := os.Create("errors.gob")
	if err != nil {
		log.Fatalf("Error creating error file: %v", err)
	}
	defer f.Close()
	g := gob.NewEncoder(f)

	for p := range ch {
		if err := g.Encode(p); err != nil {
			log.Fatalf("Error gobbing page: %v\n%#v", err, p)
		}
	}
}

func process(p wikidump.PageSource) {
	log.Printf("Got site info:  %+v", p.SiteInfo())

	ch := make(chan *wikidump.Page, 1000)
	cherr := make(chan *wikidump.Page, 10)

	for i := 0; i < numWorkers; i++ {
		go pageHandler(ch, cherr)
	}

	errwg.Add(1)
	go errorHandler(cherr)

	pages := int64(0)
	start := time.Now()
	prev := start
	reportfreq := int64(1000)
	var err error
	for err == nil {
		var page *wikidump.Page
		page, err = p.Next()
		if err == nil {
			wg.Add(1)
			ch <- page
		}

		pages++
		if pages%reportfreq == 0 {
			now := time.Now()
			d := now.Sub(prev)
			log.Printf("Processed %s pages total (%.2f/s)",
				humanize.Comma(pages), float64(reportfreq)/d.Seconds())
			prev = now
		}
	}
	wg.Wait()
	close(ch)
	close(cherr)
	errwg.Wait()
	d := time.Since(start)
	log.Printf("Ended with err after %v:  %v after %s pages (%.2f p/s)",
		d, err, humanize.Comma(pages), float64(pages)/d.Seconds())
}

func processSequential(filename string) {
	f, err := os.Open(filename)
	if err != nil {
		log.Fatalf("Error opening file: %v", err)
	}
	defer f.Close()

	p, err := wikidump.NewParser(f, wikidump.WithProfile(activeProfile()))
	if err != nil {
		log.Fatalf("Error setting up new page parser:  %v", err)
	}

	process(p)
}

func processIndexed(idx, data string) {
	p, err := wikidump.NewIndexedParser(idx, data, runtime.GOMAXPROCS(0),
		wikidump.WithProfile(activeProfile()))
	if err != nil {
		log.Fatalf("Error initializing indexed parser: %v", err)
	}
	process(p)
}

func main() {
	var cpus int
	flag.IntVar(&numWorkers, "workers", 8, "Number of page workers")
	flag.IntVar(&cpus, "cpus", runtime.GOMAXPROCS(0), "Number of CPUS to utilize")
	flag.BoolVar(&parseCoords, "parseCoords", false,
		"Try to parse geo data while traversing")
	flag.StringVar(&profileName, "profile", "enwiki", "Syntax profile to use")
	flag.Parse()

	runtime.GOMAXPROCS(cpus)

	switch flag.NArg() {
	case 1:
		processSequential(flag.Arg(0))
	case 2:
		processIndexed(flag.Arg(0), flag.Arg(1))
	default:
		log.Fatalf("Need either a dump file, or an index and a multistream dump")
	}
}
