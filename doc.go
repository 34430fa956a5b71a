// Package wikidump reads MediaWiki XML dump files and turns them
// into structured corpus data: a site, its pages and their revisions,
// with each revision's text normalized to plain text under a per-site
// syntax profile while the raw wikitext is kept verbatim alongside.
//
// The dumps are available from the wikimedia group here:
//
//	http://dumps.wikimedia.org/
//
// Input may be plain XML or one or more concatenated bzip2 streams;
// compression is detected and decoded transparently.
//
// See the programs under tools for an idea of how these things fit
// together.
package wikidump
