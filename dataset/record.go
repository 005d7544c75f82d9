package dataset

import (
	"reflect"
	"time"
)

// Metadata represents the flexible key-value pairs associated with a record.
// Values must survive a JSON round-trip; decoded numbers come back as float64.
type Metadata map[string]any

// Record is the unit of storage. Applications map their domain entities
// (a release, an action item, a translation unit) onto records, using Kind
// to namespace them within a shared dataset.
type Record struct {
	// ID is the unique identifier. When empty on Add, one is generated.
	ID string

	// Kind groups records by application type, e.g. "release", "action_item".
	Kind string

	// Content holds the main text of the record. This is what text search
	// strategies score against.
	Content string

	// Metadata carries structured attributes extracted from the source.
	Metadata Metadata

	// Embedding is the optional vector representation of Content.
	Embedding []float32

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MetaString returns the metadata value for key as a string, or "" when the
// key is absent or not a string.
func (r Record) MetaString(key string) string {
	s, _ := r.Metadata[key].(string)
	return s
}

// MetaFloat returns the metadata value for key as a float64. JSON decoding
// stores all numbers as float64, so this covers numeric metadata generally.
func (r Record) MetaFloat(key string) (float64, bool) {
	f, ok := r.Metadata[key].(float64)
	return f, ok
}

// MetaBool returns the metadata value for key as a bool.
func (r Record) MetaBool(key string) bool {
	b, _ := r.Metadata[key].(bool)
	return b
}

// MetaStrings returns the metadata value for key as a string slice. It
// accepts both []string and the []any form produced by JSON decoding.
func (r Record) MetaStrings(key string) []string {
	switch t := r.Metadata[key].(type) {
	case []string:
		out := make([]string, len(t))
		copy(out, t)
		return out
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// Filter selects records by kind and metadata equality.
type Filter struct {
	// Kind restricts results to records of this kind. Empty matches all kinds.
	Kind string

	// Where holds metadata key/value pairs that must all match exactly.
	// Numeric values are compared as float64.
	Where Metadata

	// Limit caps the number of results. Zero means no limit.
	Limit int
}

// matches reports whether rec satisfies the filter's Where clause.
// Kind is filtered in SQL before this is consulted.
func (f Filter) matches(rec Record) bool {
	for key, want := range f.Where {
		got, ok := rec.Metadata[key]
		if !ok {
			return false
		}
		if !metaEqual(got, want) {
			return false
		}
	}
	return true
}

func metaEqual(got, want any) bool {
	// Normalize ints supplied by callers against float64 from JSON.
	if wi, ok := want.(int); ok {
		want = float64(wi)
	}
	if gi, ok := got.(int); ok {
		got = float64(gi)
	}
	// Slice and map values are not comparable with ==.
	return reflect.DeepEqual(got, want)
}
