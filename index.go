package wikidump

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// An IndexEntry is an individual article from a multistream index.
type IndexEntry struct {
	StreamOffset int64
	PageID       int
	ArticleName  string
}

func (i IndexEntry) String() string {
	return fmt.Sprintf("%v:%v:%v", i.StreamOffset, i.PageID, i.ArticleName)
}

// An IndexReader reads a wikipedia multistream index, one
// offset:id:title record per line.
type IndexReader struct {
	s *bufio.Scanner

	// Offsets in older indexes were written as 32-bit values and
	// wrap; base accumulates the wraparounds under the assumption
	// that offsets were meant to be nondecreasing.
	base       int64
	prevOffset int64
}

// NewIndexReader gets a wikipedia index reader.
func NewIndexReader(r io.Reader) *IndexReader {
	return &IndexReader{s: bufio.NewScanner(r)}
}

// Next gets the next entry from the index stream.
func (ir *IndexReader) Next() (IndexEntry, error) {
	if !ir.s.Scan() {
		err := ir.s.Err()
		if err == nil {
			err = io.EOF
		}
		return IndexEntry{}, err
	}
	parts := strings.SplitN(ir.s.Text(), ":", 3)
	if len(parts) != 3 {
		return IndexEntry{}, fmt.Errorf("bad index record: %q", ir.s.Text())
	}

	offset, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return IndexEntry{}, err
	}
	if offset < ir.prevOffset {
		ir.base += 1 << 32
	}
	ir.prevOffset = offset

	id, err := strconv.Atoi(parts[1])
	if err != nil {
		return IndexEntry{}, err
	}

	return IndexEntry{
		StreamOffset: offset + ir.base,
		PageID:       id,
		ArticleName:  parts[2],
	}, nil
}

// An IndexSummaryReader reduces an index to its stream boundaries:
// each distinct offset and the number of pages stored at it. Useful
// when you don't care about individual articles, just how many there
// are and where.
type IndexSummaryReader struct {
	index      *IndexReader
	prevOffset int64
	count      int
}

// NewIndexSummaryReader gets a new IndexSummaryReader from the given
// stream of index lines.
func NewIndexSummaryReader(r io.Reader) (*IndexSummaryReader, error) {
	rv := &IndexSummaryReader{index: NewIndexReader(r)}
	first, err := rv.index.Next()
	if err != nil {
		return nil, err
	}
	rv.prevOffset = first.StreamOffset
	rv.count = 1
	return rv, nil
}

// Next gets the next stream offset and page count from the index
// summary reader.
//
// Note that the last valid offset and count arrive together with
// io.EOF.
func (isr *IndexSummaryReader) Next() (offset int64, count int, err error) {
	for {
		e, err := isr.index.Next()
		if err != nil {
			offset, count = isr.prevOffset, isr.count
			isr.prevOffset, isr.count = 0, 0
			return offset, count, err
		}

		if e.StreamOffset != isr.prevOffset {
			offset, count = isr.prevOffset, isr.count
			isr.prevOffset, isr.count = e.StreamOffset, 1
			return offset, count, nil
		}
		isr.count++
	}
}
