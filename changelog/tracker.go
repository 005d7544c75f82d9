package changelog

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/corpora-kb/corpora/dataset"
	"github.com/corpora-kb/corpora/search"
)

// Options configures a Tracker.
type Options struct {
	// Dataset is the record store. Required.
	Dataset *dataset.Dataset

	// Searcher overrides the search implementation. When nil a BM25
	// searcher over the dataset is created.
	Searcher *search.Searcher
}

// Tracker stores and queries release history.
type Tracker struct {
	ds       *dataset.Dataset
	searcher *search.Searcher
}

// New creates a Tracker with the given options.
func New(opts Options) (*Tracker, error) {
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
	return &Tracker{ds: opts.Dataset, searcher: searcher}, nil
}

// ImportMarkdown parses a changelog document and stores every release found.
// Returns the number of releases stored. Existing versions are replaced.
func (t *Tracker) ImportMarkdown(ctx context.Context, text string) (int, error) {
	releases, err := ParseMarkdown(text)
	if err != nil {
		return 0, err
	}
	for _, rel := range releases {
		if err := t.AddRelease(ctx, rel); err != nil {
			return 0, fmt.Errorf("changelog: import %s: %w", rel.Version, err)
		}
	}
	return len(releases), nil
}

// AddRelease stores a release and its changes, replacing any previously
// stored records for the same version.
func (t *Tracker) AddRelease(ctx context.Context, rel Release) error {
	if rel.Version == "" {
		return ErrEmptyVersion
	}

	if err := t.removeVersion(ctx, rel.Version); err != nil {
		return err
	}

	err := t.ds.Upsert(ctx, dataset.Record{
		ID:      releaseID(rel.Version),
		Kind:    KindRelease,
		Content: releaseSummary(rel),
		Metadata: dataset.Metadata{
			"version": rel.Version,
			"date":    formatDate(rel.Date),
			"changes": len(rel.Changes),
		},
	})
	if err != nil {
		return err
	}

	for i, c := range rel.Changes {
		err := t.ds.Upsert(ctx, dataset.Record{
			ID:      changeID(rel.Version, i),
			Kind:    KindChange,
			Content: c.Text,
			Metadata: dataset.Metadata{
				"version":  rel.Version,
				"date":     formatDate(rel.Date),
				"category": string(c.Category),
				"breaking": c.Breaking,
				"seq":      i,
			},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Releases returns all stored releases, newest version first.
func (t *Tracker) Releases(ctx context.Context) ([]Release, error) {
	recs, err := t.ds.Filter(ctx, dataset.Filter{Kind: KindRelease})
	if err != nil {
		return nil, err
	}

	releases := make([]Release, 0, len(recs))
	for _, rec := range recs {
		rel, err := t.loadRelease(ctx, rec)
		if err != nil {
			return nil, err
		}
		releases = append(releases, rel)
	}

	sort.SliceStable(releases, func(i, j int) bool {
		return compareVersions(releases[i].Version, releases[j].Version) < 0
	})
	return releases, nil
}

// Release returns a single stored release by version.
func (t *Tracker) Release(ctx context.Context, version string) (Release, error) {
	rec, err := t.ds.Get(ctx, releaseID(version))
	if err != nil {
		return Release{}, fmt.Errorf("changelog: %w: %s", ErrReleaseNotFound, version)
	}
	return t.loadRelease(ctx, rec)
}

// ChangesSince returns releases strictly newer than the given version,
// newest first. The version itself does not need to exist in the dataset.
func (t *Tracker) ChangesSince(ctx context.Context, version string) ([]Release, error) {
	releases, err := t.Releases(ctx)
	if err != nil {
		return nil, err
	}
	var out []Release
	for _, rel := range releases {
		if compareVersions(rel.Version, version) < 0 {
			out = append(out, rel)
		}
	}
	return out, nil
}

// ByCategory returns every stored change with the given category, newest
// version first.
func (t *Tracker) ByCategory(ctx context.Context, cat Category) ([]Change, error) {
	recs, err := t.ds.Filter(ctx, dataset.Filter{
		Kind:  KindChange,
		Where: dataset.Metadata{"category": string(cat)},
	})
	if err != nil {
		return nil, err
	}
	return sortedChanges(recs), nil
}

// Breaking returns every stored breaking change, newest version first.
func (t *Tracker) Breaking(ctx context.Context) ([]Change, error) {
	recs, err := t.ds.Filter(ctx, dataset.Filter{
		Kind:  KindChange,
		Where: dataset.Metadata{"breaking": true},
	})
	if err != nil {
		return nil, err
	}
	return sortedChanges(recs), nil
}

// Search runs a relevance query over change entries.
func (t *Tracker) Search(ctx context.Context, query string, limit int) (search.Results, error) {
	return t.searcher.SearchFilter(ctx, dataset.Filter{Kind: KindChange}, query, limit)
}

func (t *Tracker) loadRelease(ctx context.Context, rec dataset.Record) (Release, error) {
	version := rec.MetaString("version")
	rel := Release{Version: version, Date: parseDate(rec.MetaString("date"))}

	changes, err := t.ds.Filter(ctx, dataset.Filter{
		Kind:  KindChange,
		Where: dataset.Metadata{"version": version},
	})
	if err != nil {
		return Release{}, err
	}

	sort.SliceStable(changes, func(i, j int) bool {
		si, _ := changes[i].MetaFloat("seq")
		sj, _ := changes[j].MetaFloat("seq")
		return si < sj
	})

	for _, c := range changes {
		rel.Changes = append(rel.Changes, changeFromRecord(c))
	}
	return rel, nil
}

func (t *Tracker) removeVersion(ctx context.Context, version string) error {
	recs, err := t.ds.Filter(ctx, dataset.Filter{
		Kind:  KindChange,
		Where: dataset.Metadata{"version": version},
	})
	if err != nil {
		return err
	}
	for _, rec := range recs {
		if err := t.ds.Delete(ctx, rec.ID); err != nil {
			return err
		}
	}
	return nil
}

func sortedChanges(recs []dataset.Record) []Change {
	changes := make([]Change, 0, len(recs))
	for _, rec := range recs {
		changes = append(changes, changeFromRecord(rec))
	}
	sort.SliceStable(changes, func(i, j int) bool {
		return compareVersions(changes[i].Version, changes[j].Version) < 0
	})
	return changes
}

func changeFromRecord(rec dataset.Record) Change {
	return Change{
		Version:  rec.MetaString("version"),
		Date:     parseDate(rec.MetaString("date")),
		Category: Category(rec.MetaString("category")),
		Text:     rec.Content,
		Breaking: rec.MetaBool("breaking"),
	}
}

func releaseID(version string) string { return "release:" + version }

func changeID(version string, seq int) string {
	return fmt.Sprintf("change:%s:%03d", version, seq)
}

func releaseSummary(rel Release) string {
	date := formatDate(rel.Date)
	if date == "" {
		return fmt.Sprintf("Release %s with %d changes", rel.Version, len(rel.Changes))
	}
	return fmt.Sprintf("Release %s (%s) with %d changes", rel.Version, date, len(rel.Changes))
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
