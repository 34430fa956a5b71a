package wikidump

import (
	"bufio"
	"compress/bzip2"
	"io"
)

// bzip2 stream header: "BZ", 'h' for Huffman coding, then the block
// size as an ASCII digit.
const bzMagic = "BZh"

// A MultiStreamReader presents one or more back-to-back bzip2
// streams as a single logical byte stream. Wikipedia multistream
// dumps are exactly that: many independently compressed streams
// concatenated with no framing between them, so the decoder has to
// find each boundary itself. A single-stream file is simply the
// degenerate case.
//
// Everything downstream of this reader is ignorant of compression;
// the XML parser always sees one flat byte stream.
type MultiStreamReader struct {
	src *countingReader
	bz  io.Reader
	err error
}

// NewMultiStreamReader returns a reader yielding the concatenated
// decompressed contents of the bzip2 streams read from r.
func NewMultiStreamReader(r io.Reader) *MultiStreamReader {
	return &MultiStreamReader{
		src: &countingReader{r: bufio.NewReader(r)},
	}
}

func (ms *MultiStreamReader) Read(p []byte) (int, error) {
	if ms.err != nil {
		return 0, ms.err
	}
	if ms.bz == nil {
		if err := ms.checkHeader(); err != nil {
			ms.err = err
			return 0, err
		}
		ms.bz = bzip2.NewReader(ms.src)
	}
	n, err := ms.bz.Read(p)
	switch {
	case err == nil || err == io.EOF:
	case err == io.ErrUnexpectedEOF:
		err = &CompressionError{Offset: ms.src.n, Detail: "truncated stream"}
	default:
		// The decompressor finds each subsequent stream boundary on
		// its own; anything it trips over there or mid-stream is a
		// container problem. Errors from the underlying reader are
		// not ours to reclassify and pass through untouched.
		if _, ok := err.(bzip2.StructuralError); ok {
			err = &CompressionError{Offset: ms.src.n, Detail: err.Error()}
		}
	}
	if err != nil {
		ms.err = err
	}
	return n, err
}

// InputOffset returns the number of compressed bytes consumed so
// far.
func (ms *MultiStreamReader) InputOffset() int64 {
	return ms.src.n
}

// checkHeader validates the four byte stream header at the current
// position without consuming it.
func (ms *MultiStreamReader) checkHeader() error {
	hdr, err := ms.src.r.Peek(4)
	if len(hdr) == 0 {
		if err == nil || err == io.EOF {
			return io.EOF
		}
		return err
	}
	if len(hdr) < 4 {
		return &CompressionError{Offset: ms.src.n, Detail: "truncated stream header"}
	}
	if string(hdr[:3]) != bzMagic {
		return &CompressionError{Offset: ms.src.n, Detail: "bad magic value"}
	}
	if hdr[3] < '1' || hdr[3] > '9' {
		return &CompressionError{Offset: ms.src.n, Detail: "invalid block size"}
	}
	return nil
}

// isBzip2 reports whether br starts with a bzip2 stream header. It
// peeks, so br is left positioned where it was.
func isBzip2(br *bufio.Reader) bool {
	hdr, err := br.Peek(len(bzMagic))
	return err == nil && string(hdr) == bzMagic
}

// countingReader tracks how many compressed bytes have been
// consumed, for error offsets. It implements io.ByteReader so the
// decompressor reads exactly as much as it needs and no more.
type countingReader struct {
	r *bufio.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func (c *countingReader) ReadByte() (byte, error) {
	b, err := c.r.ReadByte()
	if err == nil {
		c.n++
	}
	return b, err
}
