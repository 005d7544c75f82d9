package courses

import "errors"

// KindCourse is the record kind written by this package.
const KindCourse = "course"

// Course is a single catalog entry.
type Course struct {
	// Code is the full course code, like "CS 101".
	Code string

	Title string

	// Department is the code prefix, like "CS".
	Department string

	// Level is the hundreds band of the course number: 101 is level 100,
	// 342 is level 300.
	Level int

	// Credits is 0 when the entry does not state a credit count.
	Credits int

	Prerequisites []string
	Description   string
}

// Sentinel errors.
var (
	ErrCourseNotFound = errors.New("course not found")
	ErrEmptyCode      = errors.New("course code is empty")
)
