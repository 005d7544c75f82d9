package multidocs

import (
	"context"
	"fmt"
)

// Translator produces a translation of text between two languages.
type Translator interface {
	Translate(ctx context.Context, text, from, to string) (string, error)
}

// StaticTranslator is a dictionary-backed Translator for tests and offline
// use. It only knows the exact texts added to it.
type StaticTranslator struct {
	entries map[string]string
}

// NewStaticTranslator creates an empty StaticTranslator.
func NewStaticTranslator() *StaticTranslator {
	return &StaticTranslator{entries: map[string]string{}}
}

// Add registers a translation of text from one language to another.
func (s *StaticTranslator) Add(from, to, text, translated string) {
	s.entries[staticKey(from, to, text)] = translated
}

// Translate returns the registered translation, or ErrNoTranslation when the
// text was never added.
func (s *StaticTranslator) Translate(_ context.Context, text, from, to string) (string, error) {
	if out, ok := s.entries[staticKey(from, to, text)]; ok {
		return out, nil
	}
	return "", fmt.Errorf("multidocs: %s to %s: %w", from, to, ErrNoTranslation)
}

func staticKey(from, to, text string) string {
	return from + "\x00" + to + "\x00" + text
}

var _ Translator = (*StaticTranslator)(nil)
