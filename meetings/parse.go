package meetings

import (
	"regexp"
	"strings"
	"time"
)

var (
	titleRe     = regexp.MustCompile(`^#+\s+(.+)$`)
	dateRe      = regexp.MustCompile(`(?i)^Date:\s*(\d{4}-\d{2}-\d{2})\s*$`)
	inlineDate  = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
	attendeesRe = regexp.MustCompile(`(?i)^Attendees:\s*(.+)$`)
	taskRe      = regexp.MustCompile(`^[-*]\s+\[([ xX])\]\s+(.+)$`)
	assigneeRe  = regexp.MustCompile(`@([\w.-]+)`)
	dueRe       = regexp.MustCompile(`(?i)\(?\bdue[: ]\s*(\d{4}-\d{2}-\d{2})\)?`)
	decisionRe  = regexp.MustCompile(`(?i)^(?:[-*]\s+)?Decision:\s*(.+)$`)
)

// ParseNotes extracts a meeting from free-form notes.
//
// The first markdown heading becomes the title; a date inside the heading or
// on a "Date:" line becomes the meeting date. "- [ ]" and "- [x]" bullets
// become action items, with @name read as the assignee and "due:YYYY-MM-DD"
// or "(due YYYY-MM-DD)" as the due date. "Decision:" lines become decisions.
func ParseNotes(text string) (Meeting, error) {
	if strings.TrimSpace(text) == "" {
		return Meeting{}, ErrEmptyNotes
	}

	var m Meeting
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t\r")

		if m.Title == "" {
			if h := titleRe.FindStringSubmatch(line); h != nil {
				m.Title = strings.TrimSpace(h[1])
				if d := inlineDate.FindStringSubmatch(m.Title); d != nil {
					if parsed, err := time.Parse("2006-01-02", d[1]); err == nil {
						m.Date = parsed
						m.Title = cleanTitle(m.Title, d[0])
					}
				}
				continue
			}
		}

		if d := dateRe.FindStringSubmatch(line); d != nil {
			if parsed, err := time.Parse("2006-01-02", d[1]); err == nil {
				m.Date = parsed
			}
			continue
		}

		if a := attendeesRe.FindStringSubmatch(line); a != nil {
			for _, name := range strings.Split(a[1], ",") {
				if name = strings.TrimSpace(name); name != "" {
					m.Attendees = append(m.Attendees, name)
				}
			}
			continue
		}

		if d := decisionRe.FindStringSubmatch(line); d != nil {
			m.Decisions = append(m.Decisions, strings.TrimSpace(d[1]))
			continue
		}

		if tm := taskRe.FindStringSubmatch(line); tm != nil {
			item := parseItem(tm[2])
			if tm[1] != " " {
				item.Status = StatusDone
			}
			m.Items = append(m.Items, item)
		}
	}

	if m.Title == "" {
		m.Title = firstLine(text)
	}
	return m, nil
}

func parseItem(text string) ActionItem {
	item := ActionItem{Status: StatusOpen}

	if d := dueRe.FindStringSubmatch(text); d != nil {
		// A marker with an invalid date is stripped and the item kept.
		if parsed, err := time.Parse("2006-01-02", d[1]); err == nil {
			item.Due = parsed
		}
		text = strings.Replace(text, d[0], "", 1)
	}

	if a := assigneeRe.FindStringSubmatch(text); a != nil {
		item.Assignee = a[1]
		text = strings.Replace(text, a[0], "", 1)
	}

	item.Task = strings.Join(strings.Fields(text), " ")
	return item
}

func cleanTitle(title, datePart string) string {
	title = strings.Replace(title, datePart, "", 1)
	title = strings.Trim(title, " -–(),")
	return title
}

func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
