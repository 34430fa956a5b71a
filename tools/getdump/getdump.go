// Fetch a dump file from a mirror, with progress reporting.
package main

import (
	"flag"
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/httputil"
)

var mirror = flag.String("mirror", "https://dumps.wikimedia.org",
	"Base URL of the dump mirror")

func report(fn string, written, total int64, start time.Time) {
	pct := float64(0)
	if total > 0 {
		pct = 100 * float64(written) / float64(total)
	}
	log.Printf("%v: %s of %s (%.1f%%), %s/s", fn,
		humanize.Bytes(uint64(written)), humanize.Bytes(uint64(total)),
		pct, humanize.Bytes(uint64(float64(written)/time.Since(start).Seconds())))
}

func fetch(u string) error {
	fn := path.Base(u)

	res, err := http.Get(u)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != 200 {
		return httputil.HTTPError(res)
	}

	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer f.Close()

	start := time.Now()
	written := int64(0)
	buf := make([]byte, 1024*1024)
	prev := start
	for {
		n, rerr := res.Body.Read(buf)
		if n > 0 {
			if _, werr := f.Write(buf[:n]); werr != nil {
				return werr
			}
			written += int64(n)
		}
		if now := time.Now(); now.Sub(prev) > 5*time.Second {
			report(fn, written, res.ContentLength, start)
			prev = now
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return rerr
		}
	}
	report(fn, written, res.ContentLength, start)
	return nil
}

func main() {
	flag.Parse()
	if flag.NArg() < 1 {
		log.Fatalf("Usage: %v [-mirror url] path/to/dump.xml.bz2 ...", os.Args[0])
	}

	for _, p := range flag.Args() {
		u := *mirror + "/" + p
		log.Printf("Fetching %v", u)
		if err := fetch(u); err != nil {
			log.Fatalf("Error fetching %v: %v", u, err)
		}
	}
}
