package wikidump

// The toplevel site info describing basic dump properties.
type SiteInfo struct {
	SiteName   string `xml:"sitename"`
	Base       string `xml:"base"`
	Generator  string `xml:"generator"`
	Case       string `xml:"case"`
	Namespaces []struct {
		Key   string `xml:"key,attr"`
		Case  string `xml:"case,attr"`
		Value string `xml:",chardata"`
	} `xml:"namespaces>namespace"`
}

// A Site is a fully materialized dump: the site metadata from the
// siteinfo section and the pages in document order.
type Site struct {
	Name  string
	URL   string
	Pages []*Page
}

// A Contributor is a user who contributed a revision.
type Contributor struct {
	ID       uint64
	Username string
}

// A Revision is one revision of a page.
//
// Raw is the revision text exactly as it appeared in the dump, after
// XML entity decoding and nothing else. Text is Raw normalized to
// plain text under the syntax profile active for the parse. The two
// are independent: normalization never touches Raw.
type Revision struct {
	ID          uint64
	Timestamp   string
	Contributor Contributor
	Comment     string
	Raw         string
	Text        string
}

// A Redirect is the target of a redirect page.
type Redirect struct {
	Title string
}

// A Page is a wiki page with its revisions in document order.
type Page struct {
	Title     string
	ID        uint64
	Ns        int
	Redirect  *Redirect
	Revisions []Revision
}

// A PageSource emits wiki pages.
type PageSource interface {
	// Next returns the next page in document order, or io.EOF once
	// the dump is exhausted.
	Next() (*Page, error)
	// SiteInfo returns the dump's site metadata.
	SiteInfo() SiteInfo
}
