// Package githubkb builds a searchable knowledge base from GitHub artifacts.
//
// Issues, pull requests, releases, and README sections are stored as dataset
// records. Cross-references like #123, owner/repo#123, and "Fixes #123" are
// extracted from bodies so related entries can be followed.
//
//	kb, err := githubkb.New(githubkb.Options{Dataset: ds})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	id, err := kb.AddIssue(ctx, githubkb.Entry{Repo: "acme/widget", Number: 42, Title: "Crash on start"})
//	bugs, err := kb.ByLabel(ctx, "bug")
//	refs, err := kb.References(ctx, id)
//	results, err := kb.Search(ctx, "panic in parser", "acme/widget", 5)
package githubkb
