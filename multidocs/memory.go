package multidocs

import (
	"context"
	"fmt"

	"github.com/corpora-kb/corpora/dataset"
)

// Memory is a translation memory: translated text keyed by source content
// hash and target language, persisted as dataset records.
type Memory struct {
	ds *dataset.Dataset
}

// NewMemory creates a Memory over the dataset.
func NewMemory(ds *dataset.Dataset) *Memory {
	return &Memory{ds: ds}
}

// Lookup returns the remembered translation for a source hash and language.
// A miss is ErrNotTranslated.
func (m *Memory) Lookup(ctx context.Context, hash, lang string) (string, error) {
	rec, err := m.ds.Get(ctx, memoryID(hash, lang))
	if err != nil {
		return "", fmt.Errorf("multidocs: memory %s/%s: %w", shortHash(hash), lang, ErrNotTranslated)
	}
	return rec.Content, nil
}

// Store remembers a translation for a source hash and language.
func (m *Memory) Store(ctx context.Context, hash, lang, translated string) error {
	err := m.ds.Upsert(ctx, dataset.Record{
		ID:      memoryID(hash, lang),
		Kind:    KindTranslation,
		Content: translated,
		Metadata: dataset.Metadata{
			"hash": hash,
			"lang": lang,
		},
	})
	if err != nil {
		return fmt.Errorf("multidocs: store memory %s/%s: %w", shortHash(hash), lang, err)
	}
	return nil
}

func memoryID(hash, lang string) string { return "tm:" + hash + ":" + lang }

func shortHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
