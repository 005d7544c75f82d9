// Package changelog tracks software release history in a dataset.
//
// It parses Keep-a-Changelog style markdown into releases with categorized
// change entries, stores each release and change as dataset records, and
// answers queries about versions, categories, and breaking changes.
//
//	tracker, err := changelog.New(changelog.Options{Dataset: ds})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	n, err := tracker.ImportMarkdown(ctx, markdown)
//	releases, err := tracker.Releases(ctx)
//	breaking, err := tracker.Breaking(ctx)
//	results, err := tracker.Search(ctx, "dark mode", 5)
//
// Importing a version that already exists replaces its stored changes, so a
// changelog file can be re-imported as it evolves.
package changelog
