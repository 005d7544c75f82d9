package githubkb

import (
	"regexp"
	"strconv"
	"strings"
)

// #123 or owner/repo#123, including "Fixes #123" closing keywords.
var refRe = regexp.MustCompile(`(?:([A-Za-z0-9][A-Za-z0-9_.-]*/[A-Za-z0-9_.-]+))?#(\d+)\b`)

var headingRe = regexp.MustCompile(`^(#{1,2})\s+(.+)$`)

// ExtractReferences returns the cross-references found in text, in order of
// first appearance with duplicates removed. References inside code fences are
// extracted like any other text.
func ExtractReferences(text string) []Reference {
	var (
		out  []Reference
		seen = map[Reference]bool{}
	)
	for _, m := range refRe.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		ref := Reference{Repo: m[1], Number: n}
		if seen[ref] {
			continue
		}
		seen[ref] = true
		out = append(out, ref)
	}
	return out
}

// Section is one chunk of a README split by "##" headings.
type Section struct {
	Heading string
	Body    string
}

// SplitSections chunks markdown by level-two headings. Text before the first
// "##" becomes a section whose heading is the document title when the text
// starts with a "#" title, and empty otherwise.
func SplitSections(markdown string) []Section {
	var (
		out     []Section
		current Section
		body    []string
		started bool
	)

	flush := func() {
		current.Body = strings.TrimSpace(strings.Join(body, "\n"))
		if current.Heading != "" || current.Body != "" {
			out = append(out, current)
		}
		body = nil
	}

	for _, line := range strings.Split(markdown, "\n") {
		if m := headingRe.FindStringSubmatch(line); m != nil {
			if m[1] == "#" && !started {
				current.Heading = strings.TrimSpace(m[2])
				started = true
				continue
			}
			if m[1] == "##" {
				flush()
				current = Section{Heading: strings.TrimSpace(m[2])}
				started = true
				continue
			}
		}
		body = append(body, line)
	}

	flush()
	return out
}
