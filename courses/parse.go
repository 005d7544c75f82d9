package courses

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// CS 101: Introduction to Programming (4 credits)
	courseRe = regexp.MustCompile(`^([A-Z]{2,5})\s+(\d{3}[A-Z]?):\s*(.+?)(?:\s*\((\d+)\s*credits?\))?\s*$`)

	// Prerequisites: MATH 101, CS 101  or  Prerequisites: None
	prereqRe = regexp.MustCompile(`(?i)^Prerequisites?:\s*(.+)$`)
)

// ParseCatalog extracts courses from catalog text. Each entry starts with a
// course heading line; following lines up to the next heading are the
// description, except a "Prerequisites:" line. A prerequisite value of "None"
// yields an empty list.
func ParseCatalog(text string) []Course {
	var (
		out     []Course
		current *Course
		desc    []string
	)

	flush := func() {
		if current == nil {
			return
		}
		current.Description = strings.TrimSpace(strings.Join(desc, " "))
		out = append(out, *current)
		current = nil
		desc = nil
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)

		if m := courseRe.FindStringSubmatch(line); m != nil {
			flush()
			c := Course{
				Code:       m[1] + " " + m[2],
				Title:      strings.TrimSpace(m[3]),
				Department: m[1],
				Level:      levelOf(m[2]),
			}
			if m[4] != "" {
				c.Credits, _ = strconv.Atoi(m[4])
			}
			current = &c
			continue
		}
		if current == nil {
			continue
		}

		if m := prereqRe.FindStringSubmatch(line); m != nil {
			current.Prerequisites = parsePrereqs(m[1])
			continue
		}

		if line != "" {
			desc = append(desc, line)
		}
	}

	flush()
	return out
}

func parsePrereqs(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "none") {
		return nil
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func levelOf(number string) int {
	n, err := strconv.Atoi(strings.TrimRight(number, "ABCDEFGHIJKLMNOPQRSTUVWXYZ"))
	if err != nil {
		return 0
	}
	return (n / 100) * 100
}
