// Package courses manages a course catalog in a dataset.
//
// Catalog text is parsed with regex heuristics: entries like
// "CS 101: Introduction to Programming (4 credits)" followed by description
// lines and an optional "Prerequisites:" line. The department comes from the
// code prefix and the level from the hundreds digit of the course number.
//
//	cat, err := courses.New(courses.Options{Dataset: ds})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	n, err := cat.ImportCatalog(ctx, text)
//	cs, err := cat.ByDepartment(ctx, "CS")
//	intro, err := cat.ByLevel(ctx, 100)
//	results, err := cat.Search(ctx, "machine learning", 5)
//
// Importing a course code that already exists replaces the stored course.
package courses
