package wikidump

import (
	"bufio"
	"io"
	"os"
	"sync"
)

type indexChunk struct {
	offset int64
	count  int
}

// An indexedParser decodes a seekable multistream dump in parallel,
// driven by the dump's companion index file. Every compressed stream
// in the dump is independent, so workers can seek straight to a
// stream boundary and decode whole pages from there. Page order
// across streams is not preserved; within a stream it is.
type indexedParser struct {
	siteInfo SiteInfo
	opts     []Option

	workerch chan indexChunk
	entries  chan *Page
	errs     chan error

	err error
}

// NewIndexedParser gets a parallel dump parser reading the
// multistream dump at datafn, using the index at indexfn to find
// stream boundaries. The index may itself be bzip2 compressed. The
// sequential Parser remains the right tool when no index exists.
//
// The parser must be drained: keep calling Next until it returns
// io.EOF or an error. Walking away from it early leaves the worker
// goroutines blocked on their output channel.
func NewIndexedParser(indexfn, datafn string, numWorkers int, opts ...Option) (PageSource, error) {
	f, err := os.Open(datafn)
	if err != nil {
		return nil, err
	}
	p0, err := NewParser(f, opts...)
	f.Close()
	if err != nil {
		return nil, err
	}

	rv := &indexedParser{
		siteInfo: p0.SiteInfo(),
		opts:     opts,
		workerch: make(chan indexChunk, 1000),
		entries:  make(chan *Page, 1000),
		errs:     make(chan error, numWorkers+1),
	}

	wg := sync.WaitGroup{}
	wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go rv.worker(datafn, &wg)
	}
	go rv.readIndex(indexfn)
	go func() {
		wg.Wait()
		close(rv.entries)
	}()

	return rv, nil
}

func (p *indexedParser) SiteInfo() SiteInfo { return p.siteInfo }

// Next returns a decoded page, or io.EOF once every stream has been
// drained. The first error from any worker ends the parse.
func (p *indexedParser) Next() (*Page, error) {
	if p.err != nil {
		return nil, p.err
	}
	rv, ok := <-p.entries
	if !ok {
		select {
		case err := <-p.errs:
			p.err = err
		default:
			p.err = io.EOF
		}
		return nil, p.err
	}
	return rv, nil
}

// fail records the first error; later ones are dropped.
func (p *indexedParser) fail(err error) {
	select {
	case p.errs <- err:
	default:
	}
}

func (p *indexedParser) readIndex(indexfn string) {
	defer close(p.workerch)

	r, err := os.Open(indexfn)
	if err != nil {
		p.fail(err)
		return
	}
	defer r.Close()

	br := bufio.NewReader(r)
	var src io.Reader = br
	if isBzip2(br) {
		src = NewMultiStreamReader(br)
	}

	isr, err := NewIndexSummaryReader(src)
	if err != nil {
		p.fail(err)
		return
	}
	for {
		offset, count, err := isr.Next()
		if count > 0 {
			p.workerch <- indexChunk{offset, count}
		}
		if err == io.EOF {
			return
		}
		if err != nil {
			p.fail(err)
			return
		}
	}
}

func (p *indexedParser) worker(datafn string, wg *sync.WaitGroup) {
	defer wg.Done()

	r, err := os.Open(datafn)
	if err != nil {
		p.fail(err)
		return
	}
	defer r.Close()

	for chunk := range p.workerch {
		if _, err := r.Seek(chunk.offset, io.SeekStart); err != nil {
			p.fail(err)
			return
		}
		d := newDecoder(NewMultiStreamReader(r), p.opts)
		for i := 0; i < chunk.count; i++ {
			page, err := d.scanPage()
			if err == io.EOF {
				break
			}
			if err != nil {
				p.fail(err)
				return
			}
			if page != nil {
				p.entries <- page
			}
		}
	}
}
