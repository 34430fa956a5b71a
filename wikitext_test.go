package wikidump

import "testing"

func TestHeadingNormalization(t *testing.T) {
	tests := []struct {
		name, in, out string
	}{
		{"leading heading", "=Heading=\nBody text", "\nHeading\nBody text"},
		{"deeper heading", "==Sub heading==\nBody", "\nSub heading\nBody"},
		{"lone heading", "=Heading=", "\nHeading\n"},
		{"trailing heading", "Body\n=Heading=", "Body\nHeading\n"},
		{"mid heading", "Intro\n=Heading=\nMore", "Intro\nHeading\nMore"},
		{"inner whitespace trimmed", "==  Spaced out  ==\nBody", "\nSpaced out\nBody"},
		{"unbalanced markers", "==Heading=\nBody", "==Heading=\nBody"},
		{"markers only", "====\nBody", "====\nBody"},
		{"empty heading", "= =\nBody", "= =\nBody"},
		{"too deep", "=======Nope=======\nBody", "=======Nope=======\nBody"},
		{"not at line start", " =Heading=\nBody", " =Heading=\nBody"},
	}

	p := EnglishWikipedia()
	for _, test := range tests {
		if got := p.Normalize(test.in); got != test.out {
			t.Errorf("%v: Normalize(%q) = %q, want %q",
				test.name, test.in, got, test.out)
		}
	}
}

func TestParagraphPreservation(t *testing.T) {
	tests := []string{
		"Para one.\n\nPara two.",
		"One.\n\n\nThree blank-ish lines.\n\nEnd.",
		"No paragraphs at all",
		"",
	}

	p := EnglishWikipedia()
	for _, test := range tests {
		if got := p.Normalize(test); got != test {
			t.Errorf("Normalize(%q) = %q; blank lines must survive untouched",
				test, got)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	tests := []string{
		"=Heading=\nBody text",
		"=Heading=",
		"Body\n=One=\nMiddle\n==Two==\nEnd",
		"Para one.\n\n=Heading=\n\nPara two.",
		"plain text, no markup",
	}

	p := EnglishWikipedia()
	for _, test := range tests {
		once := p.Normalize(test)
		twice := p.Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q:\n once: %q\ntwice: %q",
				test, once, twice)
		}
	}
}

func TestNormalizePassThrough(t *testing.T) {
	in := "{{Infobox|x=1}}\n[[Some link|text]]\n{| class=\"wikitable\"\n|}\n'''bold''' and ''italic''"
	p := EnglishWikipedia()
	if got := p.Normalize(in); got != in {
		t.Errorf("Unlisted markup must pass through verbatim, got %q", got)
	}
}

func TestNormalizeDeterministic(t *testing.T) {
	in := "=A=\ntext\n==B==\n\nmore"
	p := EnglishWikipedia()
	first := p.Normalize(in)
	for i := 0; i < 10; i++ {
		if got := p.Normalize(in); got != first {
			t.Fatalf("Normalize output changed between calls: %q vs %q", first, got)
		}
	}
}

func TestProfileRegistry(t *testing.T) {
	p, ok := LookupProfile("enwiki")
	if !ok || p != EnglishWikipedia() {
		t.Errorf("Expected enwiki lookup to find the English profile, got %v", p)
	}
	if _, ok := LookupProfile("klingon"); ok {
		t.Error("Found a profile that shouldn't exist")
	}
	if sp := SimpleEnglishWikipedia(); sp.Name != "simplewiki" {
		t.Errorf("Unexpected simple profile %+v", sp)
	}

	if len(EnglishWikipedia().Rules) == 0 ||
		EnglishWikipedia().Rules[0].Kind != RuleHeading {
		t.Errorf("Expected the heading rule to run first: %+v",
			EnglishWikipedia().Rules)
	}
}
