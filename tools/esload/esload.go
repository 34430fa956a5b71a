// Load a wikipedia dump into ElasticSearch
package main

import (
	"log"
	"os"
	"sync"
	"time"

	"github.com/corpustools/wikidump"
	"github.com/dustin/go-elasticsearch"
	"github.com/dustin/go-humanize"
)

var wg = sync.WaitGroup{}

func pageHandler(u string, ch chan *wikidump.Page) {
	counter := 0
	es := elasticsearch.ElasticSearch{URL: u}
	bulkLoader := es.Bulk()

	for p := range ch {
		if len(p.Revisions) == 0 {
			wg.Done()
			continue
		}
		counter++
		if counter > 1000 {
			bulkLoader.SendBatch()
			counter = 0
		}
		ui := elasticsearch.UpdateInstruction{
			Id:    p.Title,
			Index: "wikipediax",
			Type:  "article",
			Body: map[string]interface{}{
				"author":    p.Revisions[0].Contributor.Username,
				"text":      p.Revisions[0].Text,
				"raw":       p.Revisions[0].Raw,
				"timestamp": p.Revisions[0].Timestamp,
			},
		}
		bulkLoader.Update(&ui)
		wg.Done()
	}
	bulkLoader.Quit()
}

func main() {
	filename, esurl := os.Args[1], os.Args[2]

	f, err := os.Open(filename)
	if err != nil {
		log.Fatalf("Error opening file: %v", err)
	}
	defer f.Close()

	p, err := wikidump.NewParser(f, wikidump.OnlyArticles())
	if err != nil {
		log.Fatalf("Error setting up new page parser:  %v", err)
	}

	log.Printf("Got site info:  %+v", p.SiteInfo())

	ch := make(chan *wikidump.Page, 1000)

	for i := 0; i < 4; i++ {
		go pageHandler(esurl, ch)
	}

	pages := int64(0)
	start := time.Now()
	prev := start
	reportfreq := int64(1000)
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
	log.Printf("Ended with err after %v:  %v after %s pages",
		time.Since(start), err, humanize.Comma(pages))
}
