package wikidump

import "strings"

// Normalize applies the profile's rules, in their declared order, to
// raw wikitext and returns plain text. It is a pure function of its
// inputs: the same raw text under the same profile always yields the
// same output.
//
// Only the documented rule kinds transform anything. Markup with no
// matching rule (templates, links, tables, emphasis) passes through
// verbatim rather than being guessed at.
func (p *Profile) Normalize(raw string) string {
	lines := strings.Split(raw, "\n")
	out := make([]string, 0, len(lines)+2)
	for i, line := range lines {
		emitted := false
		for _, r := range p.Rules {
			if emitted {
				break
			}
			switch r.Kind {
			case RuleHeading:
				inner, ok := headingText(line, r)
				if !ok {
					continue
				}
				// A heading always ends up isolated with a newline
				// on both sides. Line breaks already present count;
				// only the missing ones are inserted, so normalized
				// output is a fixed point of Normalize.
				if i == 0 {
					out = append(out, "")
				}
				out = append(out, inner)
				if i == len(lines)-1 {
					out = append(out, "")
				}
				emitted = true
			case RuleParagraph:
				// Blank-line paragraph boundaries survive untouched;
				// the split/join round trip reproduces them exactly.
			}
		}
		if !emitted {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// headingText matches a line delimited by equal-count runs of the
// rule's marker character and returns the trimmed inner text. The
// markers themselves are discarded.
func headingText(line string, r Rule) (string, bool) {
	if r.Marker == 0 {
		return "", false
	}
	n := 0
	for n < len(line) && line[n] == r.Marker {
		n++
	}
	if n == 0 || (r.MaxLevel > 0 && n > r.MaxLevel) {
		return "", false
	}
	m := 0
	for m < len(line)-n && line[len(line)-1-m] == r.Marker {
		m++
	}
	if m != n {
		return "", false
	}
	inner := strings.TrimSpace(line[n : len(line)-n])
	if inner == "" {
		return "", false
	}
	return inner, true
}
