// Package meetings organizes meeting notes in a dataset.
//
// Free-form notes are parsed with line heuristics: an "Attendees:" line, task
// bullets in "- [ ]" / "- [x]" form with @assignee and due-date markers, and
// "Decision:" lines. Meetings, action items, and decisions are stored as
// separate records so they can be filtered and searched across meetings.
//
//	org, err := meetings.New(meetings.Options{Dataset: ds})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	meetingID, err := org.Import(ctx, notes)
//	open, err := org.Open(ctx)
//	overdue, err := org.Overdue(ctx, time.Now())
//	err = org.Complete(ctx, open[0].ID)
package meetings
