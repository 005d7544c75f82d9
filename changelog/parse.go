package changelog

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// ## [1.2.0] - 2024-01-15  or  ## 1.2.0 (2024-01-15)  or  ## [Unreleased]
	releaseRe = regexp.MustCompile(`^##\s+\[?([^\]\s(]+)\]?(?:\s*[-(]\s*(\d{4}-\d{2}-\d{2})\)?)?\s*$`)

	// ### Added
	sectionRe = regexp.MustCompile(`^###\s+(\w+)\s*$`)

	// - change text  or  * change text
	bulletRe = regexp.MustCompile(`^[-*]\s+(.+)$`)

	breakingRe = regexp.MustCompile(`(?i)^(?:\*\*breaking[:!]?\*\*|breaking[:!])\s*`)
)

// ParseMarkdown extracts releases from a Keep-a-Changelog style document.
// Bullets outside any "###" section are kept with the Changed category.
// Releases appear in document order.
func ParseMarkdown(text string) ([]Release, error) {
	var (
		releases []Release
		current  *Release
		category = CategoryChanged
	)

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t\r")

		if m := releaseRe.FindStringSubmatch(line); m != nil {
			if current != nil {
				releases = append(releases, *current)
			}
			current = &Release{Version: m[1]}
			category = CategoryChanged
			if m[2] != "" {
				// Parse errors leave the date zero; the release is kept.
				if d, err := time.Parse("2006-01-02", m[2]); err == nil {
					current.Date = d
				}
			}
			continue
		}
		if current == nil {
			continue
		}

		if m := sectionRe.FindStringSubmatch(line); m != nil {
			category = normalizeCategory(m[1])
			continue
		}

		if m := bulletRe.FindStringSubmatch(line); m != nil {
			text := strings.TrimSpace(m[1])
			breaking := false
			if loc := breakingRe.FindString(text); loc != "" {
				breaking = true
				text = strings.TrimSpace(strings.TrimPrefix(text, loc))
			}
			if text == "" {
				continue
			}
			current.Changes = append(current.Changes, Change{
				Version:  current.Version,
				Date:     current.Date,
				Category: category,
				Text:     text,
				Breaking: breaking,
			})
		}
	}

	if current != nil {
		releases = append(releases, *current)
	}
	return releases, nil
}

func normalizeCategory(raw string) Category {
	switch strings.ToLower(raw) {
	case "added":
		return CategoryAdded
	case "changed":
		return CategoryChanged
	case "deprecated":
		return CategoryDeprecated
	case "removed":
		return CategoryRemoved
	case "fixed":
		return CategoryFixed
	case "security":
		return CategorySecurity
	default:
		return CategoryChanged
	}
}

// compareVersions orders version strings newest-first semantics: returns a
// negative number when a is newer than b. Unreleased sorts newest; numeric
// dot components compare numerically; anything else falls back to string
// comparison.
func compareVersions(a, b string) int {
	if a == b {
		return 0
	}
	if a == UnreleasedVersion {
		return -1
	}
	if b == UnreleasedVersion {
		return 1
	}

	as := strings.Split(strings.TrimPrefix(a, "v"), ".")
	bs := strings.Split(strings.TrimPrefix(b, "v"), ".")
	for i := 0; i < len(as) || i < len(bs); i++ {
		av, aok := versionPart(as, i)
		bv, bok := versionPart(bs, i)
		if !aok || !bok {
			break
		}
		if av != bv {
			if av > bv {
				return -1
			}
			return 1
		}
	}
	if a > b {
		return -1
	}
	return 1
}

func versionPart(parts []string, i int) (int, bool) {
	if i >= len(parts) {
		return 0, true
	}
	// Strip prerelease suffixes like "0-beta".
	p := parts[i]
	if idx := strings.IndexByte(p, '-'); idx >= 0 {
		p = p[:idx]
	}
	n, err := strconv.Atoi(p)
	if err != nil {
		return 0, false
	}
	return n, true
}
