package meetings

import (
	"errors"
	"time"
)

// Record kinds written by this package.
const (
	KindMeeting  = "meeting"
	KindAction   = "action_item"
	KindDecision = "decision"
)

// Action item statuses.
const (
	StatusOpen = "open"
	StatusDone = "done"
)

// ActionItem is a task captured during a meeting.
type ActionItem struct {
	// ID is the dataset record ID, set once the item is stored.
	ID string

	Task     string
	Assignee string

	// Due is zero when the item has no due date.
	Due    time.Time
	Status string

	// Meeting is the record ID of the meeting the item came from.
	Meeting string
}

// Overdue reports whether the item is open and past due at the given time.
func (a ActionItem) Overdue(now time.Time) bool {
	return a.Status == StatusOpen && !a.Due.IsZero() && a.Due.Before(now)
}

// Decision is a decision recorded during a meeting.
type Decision struct {
	ID      string
	Text    string
	Meeting string
	Date    time.Time
}

// Meeting is a parsed set of notes.
type Meeting struct {
	// ID is the dataset record ID, set once the meeting is stored.
	ID string

	Title     string
	Date      time.Time
	Attendees []string
	Decisions []string
	Items     []ActionItem
}

// Sentinel errors.
var (
	ErrItemNotFound = errors.New("action item not found")
	ErrEmptyNotes   = errors.New("meeting notes are empty")
)
