package githubkb

import "errors"

// Entry kinds stored by this package. Each is also the dataset record kind,
// prefixed so a shared dataset keeps them apart from other packages' records.
const (
	KindIssue   = "gh_issue"
	KindPull    = "gh_pull"
	KindRelease = "gh_release"
	KindReadme  = "gh_readme"
)

// Entry is a GitHub artifact to store.
type Entry struct {
	// Kind is set by the AddX methods.
	Kind string

	// Repo is "owner/name".
	Repo string

	// Number is the issue or pull request number; 0 for releases and
	// README sections.
	Number int

	Title  string
	State  string
	Labels []string
	Author string
	Body   string
}

// Reference is a cross-reference found in an entry body.
type Reference struct {
	// Repo is empty for same-repo references like #123.
	Repo   string
	Number int
}

// Sentinel errors.
var (
	ErrEntryNotFound = errors.New("entry not found")
	ErrEmptyRepo     = errors.New("repo is empty")
)
