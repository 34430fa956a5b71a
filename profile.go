package wikidump

// A RuleKind discriminates normalization rules.
type RuleKind int

const (
	// RuleHeading isolates marker-delimited heading lines: the
	// marker characters are stripped, the inner text is trimmed, and
	// a newline is guaranteed on both sides of it.
	RuleHeading RuleKind = iota

	// RuleParagraph preserves blank-line paragraph boundaries
	// exactly as they appear in the source. It is deliberately a
	// no-op pass; its presence in a profile records that no other
	// rule may collapse, insert or remove blank lines.
	RuleParagraph
)

// A Rule describes one normalization pass over wikitext. Rules are
// plain data; a profile's behavior is entirely the ordered list of
// rules it carries, so adding a site means adding data, not code.
type Rule struct {
	Kind RuleKind

	// Marker is the heading marker character, and MaxLevel the
	// deepest heading level recognized. Both are meaningful for
	// RuleHeading only.
	Marker   byte
	MaxLevel int
}

// A Profile is a named, ordered rule table describing how wikitext
// is normalized for one site's conventions. Profiles are immutable
// and safe to share across concurrent parses.
type Profile struct {
	Name  string
	Rules []Rule
}

// The built-in profile registry. Populated once at init and never
// written again.
var profiles = map[string]*Profile{}

func register(p *Profile) *Profile {
	profiles[p.Name] = p
	return p
}

var (
	enwiki = register(&Profile{
		Name: "enwiki",
		Rules: []Rule{
			{Kind: RuleHeading, Marker: '=', MaxLevel: 6},
			{Kind: RuleParagraph},
		},
	})

	simplewiki = register(&Profile{
		Name: "simplewiki",
		Rules: []Rule{
			{Kind: RuleHeading, Marker: '=', MaxLevel: 6},
			{Kind: RuleParagraph},
		},
	})
)

// EnglishWikipedia returns the profile for the English Wikipedia.
func EnglishWikipedia() *Profile { return enwiki }

// SimpleEnglishWikipedia returns the profile for the Simple English
// Wikipedia. It currently matches the English Wikipedia profile.
func SimpleEnglishWikipedia() *Profile { return simplewiki }

// LookupProfile finds a built-in profile by name. The second result
// is false if no such profile is registered.
func LookupProfile(name string) (*Profile, bool) {
	p, ok := profiles[name]
	return p, ok
}
