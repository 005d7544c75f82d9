package multidocs

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// Record kinds written by this package.
const (
	KindDocument    = "document"
	KindTranslation = "translation"
)

// Document is one language version of a documentation page.
type Document struct {
	// ID names the page and is shared by all language versions.
	ID string

	// Lang is a language code like "en" or "es".
	Lang  string
	Title string
	Body  string

	// SourceHash is the content hash of the source-language body this
	// version was produced from. Set on store.
	SourceHash string
}

// HashText returns the content hash used by the translation memory.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Sentinel errors.
var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrNotTranslated    = errors.New("no translation in that language")
	ErrNoTranslation    = errors.New("translator has no translation")
	ErrNilTranslator    = errors.New("translator is nil")
	ErrEmptyID          = errors.New("document ID is empty")
)
