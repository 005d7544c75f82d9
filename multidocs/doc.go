// Package multidocs maintains documentation in several languages with a
// translation memory.
//
// Documents are stored per language as dataset records. Translations go
// through a Translator and are remembered by source content hash, so an
// unchanged document is never retranslated and editing the source invalidates
// only that document's cached translations.
//
//	lib, err := multidocs.New(multidocs.Options{Dataset: ds, Translator: tr})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = lib.AddDocument(ctx, multidocs.Document{ID: "install", Lang: "en", Title: "Install", Body: "Run make."})
//	es, err := lib.Translate(ctx, "install", "es")
//	langs, err := lib.Languages(ctx, "install")
//	results, err := lib.Search(ctx, "make", "en", 5)
package multidocs
