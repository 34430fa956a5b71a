package wikidump

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"regexp"
	"strings"
)

var (
	nowikiRE  = regexp.MustCompile(`(?ms)<nowiki>.*</nowiki>`)
	commentRE = regexp.MustCompile(`(?ms)<!--.*-->`)
	linkRE    = regexp.MustCompile(`\[\[([^\|\]]+)`)
	fileRE    = regexp.MustCompile(`\[File:([^\|\]]+)`)
)

// stripHidden drops comments and nowiki blocks, which frequently
// contain markup that should not be treated as content.
func stripHidden(text string) string {
	return nowikiRE.ReplaceAllString(commentRE.ReplaceAllString(text, ""), "")
}

// FindLinks finds all the internal links in an article body.
func FindLinks(text string) []string {
	matches := linkRE.FindAllStringSubmatch(stripHidden(text), -1)

	rv := make([]string, 0, len(matches))
	for _, x := range matches {
		rv = append(rv, x[1])
	}

	return rv
}

// FindFiles finds all the File references in an article body.
//
// Commented-out references are included, as many of the ones found
// in the wild are commented out.
func FindFiles(text string) []string {
	cleaned := nowikiRE.ReplaceAllString(text, "")
	matches := fileRE.FindAllStringSubmatch(cleaned, -1)

	rv := make([]string, 0, len(matches))
	for _, x := range matches {
		rv = append(rv, x[1])
	}

	return rv
}

// URLForFile gets the wikimedia URL for the given named file.
func URLForFile(name string) string {
	name = strings.Replace(name, " ", "_", -1)
	m := md5.New()
	m.Write([]byte(name))
	h := hex.EncodeToString(m.Sum(nil))

	return "http://upload.wikimedia.org/wikipedia/commons/" +
		h[0:1] + "/" + h[0:2] + "/" + url.QueryEscape(name)
}
