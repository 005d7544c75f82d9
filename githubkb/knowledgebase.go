package githubkb

import (
	"context"
	"fmt"

	"github.com/corpora-kb/corpora/dataset"
	"github.com/corpora-kb/corpora/search"
)

// Options configures a KnowledgeBase.
type Options struct {
	// Dataset is the record store. Required.
	Dataset *dataset.Dataset

	// Searcher overrides the search implementation. When nil a BM25
	// searcher over the dataset is created.
	Searcher *search.Searcher
}

// KnowledgeBase stores and queries GitHub artifacts.
type KnowledgeBase struct {
	ds       *dataset.Dataset
	searcher *search.Searcher
}

// New creates a KnowledgeBase with the given options.
func New(opts Options) (*KnowledgeBase, error) {
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
	return &KnowledgeBase{ds: opts.Dataset, searcher: searcher}, nil
}

// AddIssue stores an issue, replacing any existing entry with the same
// repo and number.
func (kb *KnowledgeBase) AddIssue(ctx context.Context, e Entry) (string, error) {
	e.Kind = KindIssue
	return kb.add(ctx, e)
}

// AddPullRequest stores a pull request.
func (kb *KnowledgeBase) AddPullRequest(ctx context.Context, e Entry) (string, error) {
	e.Kind = KindPull
	return kb.add(ctx, e)
}

// AddRelease stores a release. The title is the release tag.
func (kb *KnowledgeBase) AddRelease(ctx context.Context, e Entry) (string, error) {
	e.Kind = KindRelease
	return kb.add(ctx, e)
}

func (kb *KnowledgeBase) add(ctx context.Context, e Entry) (string, error) {
	if e.Repo == "" {
		return "", ErrEmptyRepo
	}
	id := entryID(e)
	err := kb.ds.Upsert(ctx, dataset.Record{
		ID:      id,
		Kind:    e.Kind,
		Content: e.Title + "\n\n" + e.Body,
		Metadata: dataset.Metadata{
			"repo":   e.Repo,
			"number": e.Number,
			"title":  e.Title,
			"state":  e.State,
			"labels": e.Labels,
			"author": e.Author,
			"body":   e.Body,
		},
	})
	if err != nil {
		return "", fmt.Errorf("githubkb: store %s: %w", id, err)
	}
	return id, nil
}

// ImportReadme splits a README into sections and stores each as a record,
// replacing any sections previously imported for the repo. Returns the
// number of sections stored.
func (kb *KnowledgeBase) ImportReadme(ctx context.Context, repo, markdown string) (int, error) {
	if repo == "" {
		return 0, ErrEmptyRepo
	}

	stale, err := kb.ds.Filter(ctx, dataset.Filter{
		Kind:  KindReadme,
		Where: dataset.Metadata{"repo": repo},
	})
	if err != nil {
		return 0, err
	}
	for _, rec := range stale {
		if err := kb.ds.Delete(ctx, rec.ID); err != nil {
			return 0, err
		}
	}

	sections := SplitSections(markdown)
	for i, sec := range sections {
		err := kb.ds.Upsert(ctx, dataset.Record{
			ID:      fmt.Sprintf("%s:%s:%03d", KindReadme, repo, i),
			Kind:    KindReadme,
			Content: sec.Heading + "\n\n" + sec.Body,
			Metadata: dataset.Metadata{
				"repo":    repo,
				"heading": sec.Heading,
				"section": i,
				"body":    sec.Body,
			},
		})
		if err != nil {
			return 0, fmt.Errorf("githubkb: store readme section: %w", err)
		}
	}
	return len(sections), nil
}

// Get returns a stored entry by record ID.
func (kb *KnowledgeBase) Get(ctx context.Context, id string) (Entry, error) {
	rec, err := kb.ds.Get(ctx, id)
	if err != nil {
		return Entry{}, fmt.Errorf("githubkb: %w: %s", ErrEntryNotFound, id)
	}
	return entryFromRecord(rec), nil
}

// ByLabel returns issues and pull requests carrying the given label.
func (kb *KnowledgeBase) ByLabel(ctx context.Context, label string) ([]Entry, error) {
	var out []Entry
	for _, kind := range []string{KindIssue, KindPull} {
		recs, err := kb.ds.Filter(ctx, dataset.Filter{Kind: kind})
		if err != nil {
			return nil, err
		}
		for _, rec := range recs {
			for _, l := range rec.MetaStrings("labels") {
				if l == label {
					out = append(out, entryFromRecord(rec))
					break
				}
			}
		}
	}
	return out, nil
}

// ByState returns issues and pull requests in the given state.
func (kb *KnowledgeBase) ByState(ctx context.Context, state string) ([]Entry, error) {
	var out []Entry
	for _, kind := range []string{KindIssue, KindPull} {
		recs, err := kb.ds.Filter(ctx, dataset.Filter{
			Kind:  kind,
			Where: dataset.Metadata{"state": state},
		})
		if err != nil {
			return nil, err
		}
		for _, rec := range recs {
			out = append(out, entryFromRecord(rec))
		}
	}
	return out, nil
}

// References returns the cross-references found in an entry's body, with
// references to the entry itself dropped.
func (kb *KnowledgeBase) References(ctx context.Context, id string) ([]Reference, error) {
	e, err := kb.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	var out []Reference
	for _, ref := range ExtractReferences(e.Body) {
		if ref.Number == e.Number && (ref.Repo == "" || ref.Repo == e.Repo) {
			continue
		}
		out = append(out, ref)
	}
	return out, nil
}

// Search runs a relevance query over the knowledge base. A non-empty repo
// scopes the query to that repository.
func (kb *KnowledgeBase) Search(ctx context.Context, query, repo string, limit int) (search.Results, error) {
	if repo == "" {
		return kb.searcher.Search(ctx, query, limit)
	}
	return kb.searcher.SearchFilter(ctx, dataset.Filter{
		Where: dataset.Metadata{"repo": repo},
	}, query, limit)
}

func entryID(e Entry) string {
	if e.Number > 0 {
		return fmt.Sprintf("%s:%s#%d", e.Kind, e.Repo, e.Number)
	}
	return fmt.Sprintf("%s:%s:%s", e.Kind, e.Repo, e.Title)
}

func entryFromRecord(rec dataset.Record) Entry {
	number, _ := rec.MetaFloat("number")
	return Entry{
		Kind:   rec.Kind,
		Repo:   rec.MetaString("repo"),
		Number: int(number),
		Title:  rec.MetaString("title"),
		State:  rec.MetaString("state"),
		Labels: rec.MetaStrings("labels"),
		Author: rec.MetaString("author"),
		Body:   rec.MetaString("body"),
	}
}
