package changelog

import (
	"errors"
	"time"
)

// Record kinds written by this package.
const (
	KindRelease = "release"
	KindChange  = "release_change"
)

// Category classifies a change entry, following Keep a Changelog.
type Category string

const (
	CategoryAdded      Category = "Added"
	CategoryChanged    Category = "Changed"
	CategoryDeprecated Category = "Deprecated"
	CategoryRemoved    Category = "Removed"
	CategoryFixed      Category = "Fixed"
	CategorySecurity   Category = "Security"
)

// UnreleasedVersion is the version label for changes not yet released.
const UnreleasedVersion = "Unreleased"

// Change is a single entry in a release.
type Change struct {
	// Version of the release this change belongs to.
	Version string

	// Date of the release; zero for unreleased or undated releases.
	Date time.Time

	Category Category
	Text     string
	Breaking bool
}

// Release is a dated version with its change entries in document order.
type Release struct {
	Version string
	Date    time.Time
	Changes []Change
}

// Breaking returns the release's breaking changes.
func (r Release) Breaking() []Change {
	var out []Change
	for _, c := range r.Changes {
		if c.Breaking {
			out = append(out, c)
		}
	}
	return out
}

// Sentinel errors.
var (
	ErrReleaseNotFound = errors.New("release not found")
	ErrEmptyVersion    = errors.New("release version is empty")
)
