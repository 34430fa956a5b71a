package wikidump

import (
	"bufio"
	"encoding/xml"
	"io"
	"strconv"
	"strings"
)

// An Option adjusts how a parser treats the dump.
type Option func(*decoder)

// WithProfile selects the syntax profile used to normalize revision
// text. The default is the English Wikipedia profile.
func WithProfile(p *Profile) Option {
	return func(d *decoder) { d.profile = p }
}

// WithoutNormalization disables wikitext processing. Text becomes a
// verbatim copy of Raw.
func WithoutNormalization() Option {
	return func(d *decoder) { d.rawOnly = true }
}

// OnlyArticles skips pages outside the main namespace (Talk, User,
// File and friends).
func OnlyArticles() Option {
	return func(d *decoder) { d.articlesOnly = true }
}

// A Parser reads a dump incrementally: the siteinfo section is
// consumed up front, then pages are pulled one at a time with Next.
// Nothing beyond the page currently being assembled is buffered, so
// dumps far larger than memory are fine.
type Parser struct {
	decoder
	siteInfo SiteInfo
	err      error
}

// decoder is the token state machine shared by the sequential parser
// and the indexed parallel parser.
type decoder struct {
	d            *xml.Decoder
	profile      *Profile
	rawOnly      bool
	articlesOnly bool
}

func newDecoder(r io.Reader, opts []Option) *decoder {
	d := &decoder{
		d:       xml.NewDecoder(r),
		profile: EnglishWikipedia(),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// NewParser gets a dump parser reading from r. Compressed input is
// detected by sniffing the stream magic and decompressed
// transparently, whether it is one bzip2 stream or many concatenated
// ones. The siteinfo section is read eagerly; a dump without a site
// name or base URL is rejected here.
func NewParser(r io.Reader, opts ...Option) (*Parser, error) {
	br := bufio.NewReader(r)
	var src io.Reader = br
	if isBzip2(br) {
		src = NewMultiStreamReader(br)
	}

	p := &Parser{decoder: *newDecoder(src, opts)}
	if err := p.readSiteInfo(); err != nil {
		return nil, err
	}
	return p, nil
}

// SiteInfo returns the dump's site metadata.
func (p *Parser) SiteInfo() SiteInfo { return p.siteInfo }

// Site returns the site described by the dump, with no pages
// attached. ParseDump fills Pages; lazy consumers get them from Next
// instead.
func (p *Parser) Site() *Site {
	return &Site{Name: p.siteInfo.SiteName, URL: p.siteInfo.Base}
}

// Next returns the next page in document order, or io.EOF once the
// dump is exhausted. After an error Next keeps returning that same
// error; pages already returned remain valid and complete.
func (p *Parser) Next() (*Page, error) {
	if p.err != nil {
		return nil, p.err
	}
	page, err := p.nextPage()
	if err != nil {
		p.err = err
	}
	return page, err
}

// ParseDump reads an entire dump from r into a fully materialized
// Site. See NewParser for how compressed input is handled.
func ParseDump(r io.Reader, opts ...Option) (*Site, error) {
	p, err := NewParser(r, opts...)
	if err != nil {
		return nil, err
	}
	site := p.Site()
	for {
		page, err := p.Next()
		if err == io.EOF {
			return site, nil
		}
		if err != nil {
			return nil, err
		}
		site.Pages = append(site.Pages, page)
	}
}

// readSiteInfo scans to the siteinfo element and decodes it. The
// schema puts siteinfo before any page, so hitting a page (or
// running out of document) first is a structural error, as is a
// siteinfo without a sitename or base URL.
func (p *Parser) readSiteInfo() error {
	for {
		t, err := p.d.Token()
		if err != nil {
			if err == io.EOF {
				return &StructuralError{Offset: p.d.InputOffset(),
					Element: "siteinfo", Msg: "not found in dump"}
			}
			return p.wrapErr(err)
		}
		se, ok := t.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "siteinfo":
			if err := p.d.DecodeElement(&p.siteInfo, &se); err != nil {
				return p.wrapErr(err)
			}
			if p.siteInfo.SiteName == "" {
				return &StructuralError{Offset: p.d.InputOffset(),
					Element: "sitename", Msg: "missing from siteinfo"}
			}
			if p.siteInfo.Base == "" {
				return &StructuralError{Offset: p.d.InputOffset(),
					Element: "base", Msg: "missing from siteinfo"}
			}
			return nil
		case "page", "revision", "text":
			return &StructuralError{Offset: p.d.InputOffset(),
				Element: se.Name.Local, Msg: "before siteinfo"}
		}
	}
}

// nextPage scans forward to the next page the caller should see.
// Pages dropped by the namespace filter are consumed and the scan
// continues.
func (d *decoder) nextPage() (*Page, error) {
	for {
		page, err := d.scanPage()
		if err != nil {
			return nil, err
		}
		if page == nil {
			continue
		}
		return page, nil
	}
}

// scanPage consumes the next page element and returns it, or
// nil, nil if the namespace filter dropped it.
func (d *decoder) scanPage() (*Page, error) {
	for {
		t, err := d.d.Token()
		if err != nil {
			if err == io.EOF {
				return nil, io.EOF
			}
			return nil, d.wrapErr(err)
		}
		se, ok := t.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "page":
			return d.parsePage()
		case "revision", "title", "text", "contributor":
			return nil, &StructuralError{Offset: d.d.InputOffset(),
				Element: se.Name.Local, Msg: "outside of page scope"}
		}
	}
}

// parsePage consumes a page element whose start tag has just been
// read. It returns nil, nil for a page dropped by the namespace
// filter.
func (d *decoder) parsePage() (*Page, error) {
	page := &Page{}
	keep := true
	for {
		t, err := d.d.Token()
		if err != nil {
			return nil, d.wrapErr(err)
		}
		switch tok := t.(type) {
		case xml.StartElement:
			switch tok.Name.Local {
			case "title":
				page.Title, err = d.text(&tok)
			case "ns":
				var s string
				s, err = d.text(&tok)
				if err == nil {
					page.Ns, _ = strconv.Atoi(strings.TrimSpace(s))
					if d.articlesOnly && page.Ns != 0 {
						keep = false
					}
				}
			case "id":
				var s string
				s, err = d.text(&tok)
				if err == nil {
					page.ID, _ = strconv.ParseUint(strings.TrimSpace(s), 10, 64)
				}
			case "redirect":
				for _, attr := range tok.Attr {
					if attr.Name.Local == "title" {
						page.Redirect = &Redirect{Title: attr.Value}
					}
				}
				err = d.d.Skip()
			case "revision":
				var rev Revision
				rev, err = d.parseRevision()
				if err == nil {
					page.Revisions = append(page.Revisions, rev)
				}
			default:
				err = d.d.Skip()
			}
			if err != nil {
				return nil, d.wrapErr(err)
			}
		case xml.EndElement:
			if tok.Name.Local == "page" {
				if page.Title == "" {
					return nil, &StructuralError{Offset: d.d.InputOffset(),
						Element: "title", Msg: "missing from page"}
				}
				if !keep {
					return nil, nil
				}
				return page, nil
			}
		}
	}
}

// parseRevision consumes a revision element whose start tag has just
// been read, including its nested text and metadata.
func (d *decoder) parseRevision() (Revision, error) {
	var rev Revision
	for {
		t, err := d.d.Token()
		if err != nil {
			return rev, d.wrapErr(err)
		}
		switch tok := t.(type) {
		case xml.StartElement:
			switch tok.Name.Local {
			case "id":
				var s string
				s, err = d.text(&tok)
				if err == nil {
					rev.ID, _ = strconv.ParseUint(strings.TrimSpace(s), 10, 64)
				}
			case "timestamp":
				rev.Timestamp, err = d.text(&tok)
			case "comment":
				rev.Comment, err = d.text(&tok)
			case "contributor":
				rev.Contributor, err = d.parseContributor()
			case "text":
				rev.Raw, err = d.text(&tok)
				if err == nil {
					if d.rawOnly {
						rev.Text = rev.Raw
					} else {
						rev.Text = d.profile.Normalize(rev.Raw)
					}
				}
			default:
				err = d.d.Skip()
			}
			if err != nil {
				return rev, d.wrapErr(err)
			}
		case xml.EndElement:
			if tok.Name.Local == "revision" {
				return rev, nil
			}
		}
	}
}

func (d *decoder) parseContributor() (Contributor, error) {
	var c Contributor
	for {
		t, err := d.d.Token()
		if err != nil {
			return c, d.wrapErr(err)
		}
		switch tok := t.(type) {
		case xml.StartElement:
			switch tok.Name.Local {
			case "username", "ip":
				c.Username, err = d.text(&tok)
			case "id":
				var s string
				s, err = d.text(&tok)
				if err == nil {
					c.ID, _ = strconv.ParseUint(strings.TrimSpace(s), 10, 64)
				}
			default:
				err = d.d.Skip()
			}
			if err != nil {
				return c, d.wrapErr(err)
			}
		case xml.EndElement:
			if tok.Name.Local == "contributor" {
				return c, nil
			}
		}
	}
}

// text consumes the element started by se and returns its character
// data with entity references decoded. Text-bearing dump elements
// have no child elements, so finding one is a structural error.
func (d *decoder) text(se *xml.StartElement) (string, error) {
	var sb strings.Builder
	for {
		t, err := d.d.Token()
		if err != nil {
			return "", d.wrapErr(err)
		}
		switch tok := t.(type) {
		case xml.CharData:
			sb.Write(tok)
		case xml.StartElement:
			return "", &StructuralError{Offset: d.d.InputOffset(),
				Element: tok.Name.Local,
				Msg:     "unexpected inside <" + se.Name.Local + ">"}
		case xml.EndElement:
			return sb.String(), nil
		}
	}
}

// wrapErr converts decoder failures into the typed error taxonomy.
// encoding/xml reports malformed markup and bad entity references
// through the same SyntaxError type, so entity and character
// encoding failures are picked out by message.
func (d *decoder) wrapErr(err error) error {
	switch e := err.(type) {
	case *xml.SyntaxError:
		off := d.d.InputOffset()
		if strings.Contains(e.Msg, "entity") ||
			strings.Contains(e.Msg, "character") ||
			strings.Contains(e.Msg, "UTF-8") {
			return &EncodingError{Offset: off, Msg: e.Msg}
		}
		return &SyntaxError{Offset: off, Line: e.Line, Msg: e.Msg}
	}
	return err
}
