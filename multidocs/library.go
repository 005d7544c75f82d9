package multidocs

import (
	"context"
	"fmt"
	"sort"

	"github.com/corpora-kb/corpora/dataset"
	"github.com/corpora-kb/corpora/search"
)

// Options configures a Library.
type Options struct {
	// Dataset is the record store. Required.
	Dataset *dataset.Dataset

	// Translator produces new translations. When nil, Translate only
	// serves cache hits and source-language requests.
	Translator Translator

	// Searcher overrides the search implementation. When nil a BM25
	// searcher over the dataset is created.
	Searcher *search.Searcher
}

// Library stores multi-language documents and translates between languages.
type Library struct {
	ds       *dataset.Dataset
	tr       Translator
	memory   *Memory
	searcher *search.Searcher
}

// New creates a Library with the given options.
func New(opts Options) (*Library, error) {
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
	return &Library{
		ds:       opts.Dataset,
		tr:       opts.Translator,
		memory:   NewMemory(opts.Dataset),
		searcher: searcher,
	}, nil
}

// AddDocument stores a document as the source version of its page. Re-adding
// the same ID replaces the source, and translations made from the old body
// are refreshed on the next Translate call.
func (l *Library) AddDocument(ctx context.Context, doc Document) error {
	if doc.ID == "" {
		return ErrEmptyID
	}
	doc.SourceHash = HashText(doc.Body)
	return l.store(ctx, doc, true)
}

// Translate returns the document in the target language, translating the
// source body only when no version for the current source hash exists.
// Translating to the source language returns the source unchanged.
func (l *Library) Translate(ctx context.Context, id, targetLang string) (Document, error) {
	source, err := l.source(ctx, id)
	if err != nil {
		return Document{}, err
	}
	if targetLang == source.Lang {
		return source, nil
	}

	// A stored version made from the current source body wins.
	if cached, err := l.DocumentIn(ctx, id, targetLang); err == nil && cached.SourceHash == source.SourceHash {
		return cached, nil
	}

	out := Document{
		ID:         id,
		Lang:       targetLang,
		Title:      source.Title,
		SourceHash: source.SourceHash,
	}

	if remembered, err := l.memory.Lookup(ctx, source.SourceHash, targetLang); err == nil {
		out.Body = remembered
		return out, l.store(ctx, out, false)
	}

	if l.tr == nil {
		return Document{}, ErrNilTranslator
	}
	translated, err := l.tr.Translate(ctx, source.Body, source.Lang, targetLang)
	if err != nil {
		return Document{}, fmt.Errorf("multidocs: translate %s to %s: %w", id, targetLang, err)
	}
	out.Body = translated

	if err := l.memory.Store(ctx, source.SourceHash, targetLang, translated); err != nil {
		return Document{}, err
	}
	return out, l.store(ctx, out, false)
}

// DocumentIn returns the stored version of a page in one language. A missing
// version is ErrNotTranslated.
func (l *Library) DocumentIn(ctx context.Context, id, lang string) (Document, error) {
	rec, err := l.ds.Get(ctx, documentID(id, lang))
	if err != nil {
		return Document{}, fmt.Errorf("multidocs: %s in %s: %w", id, lang, ErrNotTranslated)
	}
	return documentFromRecord(rec), nil
}

// Languages returns the languages a page is stored in, sorted.
func (l *Library) Languages(ctx context.Context, id string) ([]string, error) {
	recs, err := l.ds.Filter(ctx, dataset.Filter{
		Kind:  KindDocument,
		Where: dataset.Metadata{"doc": id},
	})
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("multidocs: %w: %s", ErrDocumentNotFound, id)
	}
	langs := make([]string, 0, len(recs))
	for _, rec := range recs {
		langs = append(langs, rec.MetaString("lang"))
	}
	sort.Strings(langs)
	return langs, nil
}

// Search runs a relevance query over documents. A non-empty lang scopes the
// query to that language.
func (l *Library) Search(ctx context.Context, query, lang string, limit int) (search.Results, error) {
	f := dataset.Filter{Kind: KindDocument}
	if lang != "" {
		f.Where = dataset.Metadata{"lang": lang}
	}
	return l.searcher.SearchFilter(ctx, f, query, limit)
}

func (l *Library) source(ctx context.Context, id string) (Document, error) {
	recs, err := l.ds.Filter(ctx, dataset.Filter{
		Kind:  KindDocument,
		Where: dataset.Metadata{"doc": id, "source": true},
	})
	if err != nil {
		return Document{}, err
	}
	if len(recs) == 0 {
		return Document{}, fmt.Errorf("multidocs: %w: %s", ErrDocumentNotFound, id)
	}
	return documentFromRecord(recs[0]), nil
}

func (l *Library) store(ctx context.Context, doc Document, source bool) error {
	err := l.ds.Upsert(ctx, dataset.Record{
		ID:      documentID(doc.ID, doc.Lang),
		Kind:    KindDocument,
		Content: doc.Body,
		Metadata: dataset.Metadata{
			"doc":    doc.ID,
			"lang":   doc.Lang,
			"title":  doc.Title,
			"hash":   doc.SourceHash,
			"source": source,
		},
	})
	if err != nil {
		return fmt.Errorf("multidocs: store %s/%s: %w", doc.ID, doc.Lang, err)
	}
	return nil
}

func documentID(id, lang string) string { return "doc:" + id + ":" + lang }

func documentFromRecord(rec dataset.Record) Document {
	return Document{
		ID:         rec.MetaString("doc"),
		Lang:       rec.MetaString("lang"),
		Title:      rec.MetaString("title"),
		Body:       rec.Content,
		SourceHash: rec.MetaString("hash"),
	}
}
