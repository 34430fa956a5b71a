// Load a wikipedia dump into MongoDB.
package main

import (
	"flag"
	"log"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/corpustools/wikidump"
	"github.com/dustin/go-humanize"
	"gopkg.in/mgo.v2"
)

var proc = flag.Int("proc", 8, "How many processes to run.")
var file = flag.String("file", "", "The bz2 dump file.")
var cpus = flag.Int("cpus", runtime.NumCPU(), "Number of CPUs to use.")
var dburl = flag.String("dburl", "localhost", "The dburl(s). I.e. localhost.")
var verbose = flag.Bool("v", false, "Verbose logging?")
var collection = flag.String("collection", "articles", "The collection to store dumped articles in.")
var dbname = flag.String("dbname", "wp", "The database name to use.")
var profileName = flag.String("profile", "enwiki", "Syntax profile to use.")

var wg sync.WaitGroup

// We want unique titles and they should be since the title is the URL path
// in wikimedia My Title => My_Title
var titleIndex = mgo.Index{
	Key:        []string{"title"},
	Unique:     true,
	DropDups:   true,
	Background: true,
	Sparse:     true,
}

type article struct {
	ID      string `bson:"_id,omitempty"`
	Title   string `bson:",omitempty"`
	Rev     string `bson:",omitempty"`
	RevInfo struct {
		ID            uint64 `bson:",omitempty"`
		Timestamp     string `bson:",omitempty"`
		Contributor   string `bson:",omitempty"`
		ContributorID uint64 `bson:",omitempty"`
		Comment       string `bson:",omitempty"`
	}
	Text  string   `bson:",omitempty"`
	Raw   string   `bson:",omitempty"`
	Files []string `bson:",omitempty"`
	Links []string `bson:",omitempty"`
}

func pageHandler(db *mgo.Database, ch <-chan *wikidump.Page) {
	for p := range ch {
		makeArticle(db, p)
	}
}

func makeArticle(db *mgo.Database, p *wikidump.Page) {
	defer wg.Done()
	if len(p.Revisions) == 0 {
		return
	}
	rev := p.Revisions[0]

	a := article{}
	a.RevInfo.ID = rev.ID
	a.RevInfo.Timestamp = rev.Timestamp
	a.RevInfo.Contributor = rev.Contributor.Username
	a.RevInfo.ContributorID = rev.Contributor.ID
	a.RevInfo.Comment = rev.Comment

	a.Title = p.Title
	a.Text = rev.Text
	a.Raw = rev.Raw
	a.Links = wikidump.FindLinks(rev.Raw)
	a.Files = wikidump.FindFiles(rev.Raw)
	err := db.C(*collection).Insert(&a)
	if err != nil {
		if mgo.IsDup(err) {
			if *verbose == true {
				log.Printf("Duplicate Key Error inserting %s", a.Title)
			}
		} else {
			log.Printf("Error inserting %s: %s", a.Title, err)
		}
	}
}

func processDump(p wikidump.PageSource, db *mgo.Database) {
	ch := make(chan *wikidump.Page, 1000)
	for i := 0; i < *proc; i++ {
		go pageHandler(db, ch)
	}

	pages := int64(0)
	start := time.Now()
	prev := start
	reportfreq := int64(10000)
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
			log.Printf("Processed %s pages total (%.2f/s)\n",
				humanize.Comma(pages), float64(reportfreq)/d.Seconds())
			prev = now
		}
	}
	wg.Wait()
	close(ch)

	d := time.Since(start)
	log.Printf("Ended with err after %v:  %v after %s pages (%.2f p/s)",
		d, err, humanize.Comma(pages), float64(pages)/d.Seconds())
}

func main() {
	flag.Parse()
	if *file == "" {
		log.Fatal("You must supply a bz2 dump file.")
	}
	profile, ok := wikidump.LookupProfile(*profileName)
	if !ok {
		log.Fatalf("Unknown syntax profile: %v", *profileName)
	}
	session, err := mgo.Dial(*dburl)
	if err != nil {
		panic(err)
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("Error opening file: %v", err)
	}
	defer f.Close()

	p, err := wikidump.NewParser(f, wikidump.WithProfile(profile))
	if err != nil {
		log.Fatalf("Error setting up new page parser:  %v", err)
	}

	err = session.DB(*dbname).C(*collection).EnsureIndex(titleIndex)
	if err != nil {
		log.Fatal("Error creating title index", err)
	}
	processDump(p, session.DB(*dbname))
}
