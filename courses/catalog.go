package courses

import (
	"context"
	"fmt"
	"sort"

	"github.com/corpora-kb/corpora/dataset"
	"github.com/corpora-kb/corpora/search"
)

// Options configures a Catalog.
type Options struct {
	// Dataset is the record store. Required.
	Dataset *dataset.Dataset

	// Searcher overrides the search implementation. When nil a BM25
	// searcher over the dataset is created.
	Searcher *search.Searcher
}

// Catalog stores and queries courses.
type Catalog struct {
	ds       *dataset.Dataset
	searcher *search.Searcher
}

// New creates a Catalog with the given options.
func New(opts Options) (*Catalog, error) {
	if opts.Dataset == nil {
		return nil, search.ErrNilDataset
	}
	searcher := opts.Searcher
	if searcher == nil {
		var err error
		searcher, err = search.New(search.Options{Dataset: opts.Dataset})
		if err != nil {
			return nil, err
		}
	}
	return &Catalog{ds: opts.Dataset, searcher: searcher}, nil
}

// Add stores a course, replacing any existing course with the same code.
func (c *Catalog) Add(ctx context.Context, course Course) error {
	if course.Code == "" {
		return ErrEmptyCode
	}
	err := c.ds.Upsert(ctx, dataset.Record{
		ID:      courseID(course.Code),
		Kind:    KindCourse,
		Content: course.Title + ". " + course.Description,
		Metadata: dataset.Metadata{
			"code":          course.Code,
			"title":         course.Title,
			"department":    course.Department,
			"level":         course.Level,
			"credits":       course.Credits,
			"prerequisites": course.Prerequisites,
			"description":   course.Description,
		},
	})
	if err != nil {
		return fmt.Errorf("courses: store %s: %w", course.Code, err)
	}
	return nil
}

// ImportCatalog parses catalog text and stores every course found. Returns
// the number of courses stored.
func (c *Catalog) ImportCatalog(ctx context.Context, text string) (int, error) {
	parsed := ParseCatalog(text)
	for _, course := range parsed {
		if err := c.Add(ctx, course); err != nil {
			return 0, err
		}
	}
	return len(parsed), nil
}

// Get returns a stored course by code.
func (c *Catalog) Get(ctx context.Context, code string) (Course, error) {
	rec, err := c.ds.Get(ctx, courseID(code))
	if err != nil {
		return Course{}, fmt.Errorf("courses: %w: %s", ErrCourseNotFound, code)
	}
	return courseFromRecord(rec), nil
}

// ByDepartment returns all courses with the given department prefix, ordered
// by code.
func (c *Catalog) ByDepartment(ctx context.Context, dept string) ([]Course, error) {
	return c.list(ctx, dataset.Metadata{"department": dept})
}

// ByLevel returns all courses at the given level (100, 200, ...), ordered by
// code.
func (c *Catalog) ByLevel(ctx context.Context, level int) ([]Course, error) {
	return c.list(ctx, dataset.Metadata{"level": level})
}

// RequiringPrerequisite returns courses that list the given code as a
// prerequisite.
func (c *Catalog) RequiringPrerequisite(ctx context.Context, code string) ([]Course, error) {
	all, err := c.list(ctx, nil)
	if err != nil {
		return nil, err
	}
	var out []Course
	for _, course := range all {
		for _, p := range course.Prerequisites {
			if p == code {
				out = append(out, course)
				break
			}
		}
	}
	return out, nil
}

// Search runs a relevance query over courses.
func (c *Catalog) Search(ctx context.Context, query string, limit int) (search.Results, error) {
	return c.searcher.SearchFilter(ctx, dataset.Filter{Kind: KindCourse}, query, limit)
}

func (c *Catalog) list(ctx context.Context, where dataset.Metadata) ([]Course, error) {
	recs, err := c.ds.Filter(ctx, dataset.Filter{Kind: KindCourse, Where: where})
	if err != nil {
		return nil, err
	}
	out := make([]Course, 0, len(recs))
	for _, rec := range recs {
		out = append(out, courseFromRecord(rec))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func courseFromRecord(rec dataset.Record) Course {
	level, _ := rec.MetaFloat("level")
	credits, _ := rec.MetaFloat("credits")
	return Course{
		Code:          rec.MetaString("code"),
		Title:         rec.MetaString("title"),
		Department:    rec.MetaString("department"),
		Level:         int(level),
		Credits:       int(credits),
		Prerequisites: rec.MetaStrings("prerequisites"),
		Description:   rec.MetaString("description"),
	}
}

func courseID(code string) string { return "course:" + code }
