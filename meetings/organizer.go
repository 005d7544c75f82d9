package meetings

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/corpora-kb/corpora/dataset"
	"github.com/corpora-kb/corpora/search"
)

// Options configures an Organizer.
type Options struct {
	// Dataset is the record store. Required.
	Dataset *dataset.Dataset

	// Searcher overrides the search implementation. When nil a BM25
	// searcher over the dataset is created.
	Searcher *search.Searcher
}

// Filter narrows action item queries. Zero fields match everything.
type Filter struct {
	Assignee string
	Status   string
}

// Organizer stores and queries meetings, action items, and decisions.
type Organizer struct {
	ds       *dataset.Dataset
	searcher *search.Searcher
}

// New creates an Organizer with the given options.
func New(opts Options) (*Organizer, error) {
	if opts.Dataset == nil {
		return nil, search.ErrNilDataset
	}
	searcher := opts.Searcher
	if searcher == nil {
		var err error
		searcher, err = search.New(search.Options{Dataset: opts.Dataset})
		if err != nil {
			return nil, err
		}
	}
	return &Organizer{ds: opts.Dataset, searcher: searcher}, nil
}

// Import parses notes and stores the meeting with its action items and
// decisions. The returned meeting carries the assigned record IDs.
func (o *Organizer) Import(ctx context.Context, notes string) (Meeting, error) {
	m, err := ParseNotes(notes)
	if err != nil {
		return Meeting{}, err
	}

	meetingID, err := o.ds.Add(ctx, dataset.Record{
		Kind:    KindMeeting,
		Content: notes,
		Metadata: dataset.Metadata{
			"title":     m.Title,
			"date":      formatDate(m.Date),
			"attendees": m.Attendees,
		},
	})
	if err != nil {
		return Meeting{}, fmt.Errorf("meetings: store meeting: %w", err)
	}
	m.ID = meetingID

	for i, item := range m.Items {
		id, err := o.ds.Add(ctx, dataset.Record{
			Kind:    KindAction,
			Content: item.Task,
			Metadata: dataset.Metadata{
				"assignee": item.Assignee,
				"due":      formatDate(item.Due),
				"status":   item.Status,
				"meeting":  meetingID,
			},
		})
		if err != nil {
			return Meeting{}, fmt.Errorf("meetings: store action item: %w", err)
		}
		m.Items[i].ID = id
		m.Items[i].Meeting = meetingID
	}

	for _, text := range m.Decisions {
		_, err := o.ds.Add(ctx, dataset.Record{
			Kind:    KindDecision,
			Content: text,
			Metadata: dataset.Metadata{
				"meeting": meetingID,
				"date":    formatDate(m.Date),
			},
		})
		if err != nil {
			return Meeting{}, fmt.Errorf("meetings: store decision: %w", err)
		}
	}
	return m, nil
}

// ActionItems returns stored action items matching the filter, earliest due
// date first with undated items last.
func (o *Organizer) ActionItems(ctx context.Context, f Filter) ([]ActionItem, error) {
	where := dataset.Metadata{}
	if f.Assignee != "" {
		where["assignee"] = f.Assignee
	}
	if f.Status != "" {
		where["status"] = f.Status
	}

	recs, err := o.ds.Filter(ctx, dataset.Filter{Kind: KindAction, Where: where})
	if err != nil {
		return nil, err
	}

	items := make([]ActionItem, 0, len(recs))
	for _, rec := range recs {
		items = append(items, itemFromRecord(rec))
	}
	sort.SliceStable(items, func(i, j int) bool {
		di, dj := items[i].Due, items[j].Due
		switch {
		case di.IsZero():
			return false
		case dj.IsZero():
			return true
		default:
			return di.Before(dj)
		}
	})
	return items, nil
}

// Open returns all open action items.
func (o *Organizer) Open(ctx context.Context) ([]ActionItem, error) {
	return o.ActionItems(ctx, Filter{Status: StatusOpen})
}

// Overdue returns open action items whose due date has passed.
func (o *Organizer) Overdue(ctx context.Context, now time.Time) ([]ActionItem, error) {
	items, err := o.Open(ctx)
	if err != nil {
		return nil, err
	}
	var out []ActionItem
	for _, item := range items {
		if item.Overdue(now) {
			out = append(out, item)
		}
	}
	return out, nil
}

// Complete marks an action item done.
func (o *Organizer) Complete(ctx context.Context, id string) error {
	rec, err := o.ds.Get(ctx, id)
	if err != nil || rec.Kind != KindAction {
		return fmt.Errorf("meetings: %w: %s", ErrItemNotFound, id)
	}
	if err := o.ds.Update(ctx, id, "", dataset.Metadata{"status": StatusDone}); err != nil {
		return fmt.Errorf("meetings: complete %s: %w", id, err)
	}
	return nil
}

// Decisions returns every stored decision.
func (o *Organizer) Decisions(ctx context.Context) ([]Decision, error) {
	recs, err := o.ds.Filter(ctx, dataset.Filter{Kind: KindDecision})
	if err != nil {
		return nil, err
	}
	out := make([]Decision, 0, len(recs))
	for _, rec := range recs {
		out = append(out, Decision{
			ID:      rec.ID,
			Text:    rec.Content,
			Meeting: rec.MetaString("meeting"),
			Date:    parseDate(rec.MetaString("date")),
		})
	}
	return out, nil
}

// Search runs a relevance query over action items and decisions.
func (o *Organizer) Search(ctx context.Context, query string, limit int) (search.Results, error) {
	var merged search.Results
	for _, kind := range []string{KindAction, KindDecision} {
		results, err := o.searcher.SearchFilter(ctx, dataset.Filter{Kind: kind}, query, limit)
		if err != nil {
			return nil, err
		}
		merged = append(merged, results...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Score != merged[j].Score {
			return merged[i].Score > merged[j].Score
		}
		return merged[i].Record.ID < merged[j].Record.ID
	})
	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, nil
}

func itemFromRecord(rec dataset.Record) ActionItem {
	return ActionItem{
		ID:       rec.ID,
		Task:     rec.Content,
		Assignee: rec.MetaString("assignee"),
		Due:      parseDate(rec.MetaString("due")),
		Status:   rec.MetaString("status"),
		Meeting:  rec.MetaString("meeting"),
	}
}

func formatDate(d time.Time) string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return d
}
