// Decompress a multistream dump to stdout, or recompress it as a
// single bzip2 stream.
package main

import (
	"io"
	"log"
	"os"

	"github.com/corpustools/wikidump"
	"github.com/dsnet/compress/bzip2"
)

func main() {
	recompress := false
	args := os.Args[1:]
	if len(args) > 0 && args[0] == "-z" {
		recompress = true
		args = args[1:]
	}
	if len(args) != 1 {
		log.Fatalf("Usage: %v [-z] dump.xml.bz2", os.Args[0])
	}

	f, err := os.Open(args[0])
	if err != nil {
		log.Fatalf("Error opening %v: %v", args[0], err)
	}
	defer f.Close()

	var out io.Writer = os.Stdout
	if recompress {
		w, err := bzip2.NewWriter(os.Stdout,
			&bzip2.WriterConfig{Level: bzip2.BestCompression})
		if err != nil {
			log.Fatalf("Error initializing compressor: %v", err)
		}
		defer w.Close()
		out = w
	}

	n, err := io.Copy(out, wikidump.NewMultiStreamReader(f))
	if err != nil {
		log.Fatalf("Error after %v bytes: %v", n, err)
	}
}
