// Dump a multistream index file with the stream offsets rewritten as
// proper 64-bit values.
package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/corpustools/wikidump"
)

func main() {
	r, err := os.Open(os.Args[1])
	if err != nil {
		log.Fatalf("Error opening %v: %v", os.Args[1], err)
	}
	defer r.Close()

	br := bufio.NewReader(r)
	var src io.Reader = br
	if hdr, err := br.Peek(3); err == nil && string(hdr) == "BZh" {
		src = wikidump.NewMultiStreamReader(br)
	}

	ir := wikidump.NewIndexReader(src)
	for {
		e, err := ir.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatalf("Error reading stream:  %v", err)
		}

		fmt.Println(e.String())
	}
}
