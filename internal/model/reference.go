package model

import "strings"

// AcademicYear is one school-year option (e.g. "2024/2025").
type AcademicYear struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GradeLevel is one grade option (e.g. "Form 1").
type GradeLevel struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// SchoolClass is one class option, tied to its grade and academic year.
type SchoolClass struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	GradeID int    `json:"gradeId"`
	YearID  int    `json:"yearId"`
}

// ReferenceData is the validation snapshot fetched from the school API
// when an import session starts. It is read-only for the lifetime of the
// session; a stale snapshot is accepted (no live refresh mid-session).
// JSON tags follow the school API's camelCase wire format.
type ReferenceData struct {
	AcademicYears []AcademicYear `json:"academicYears"`
	Grades        []GradeLevel   `json:"grades"`
	Classes       []SchoolClass  `json:"classes"`
}

// HasAcademicYear reports whether name matches a known academic year.
// Matching is case-insensitive and exact.
func (r *ReferenceData) HasAcademicYear(name string) bool {
	for _, y := range r.AcademicYears {
		if strings.EqualFold(y.Name, name) {
			return true
		}
	}
	return false
}

// HasClass reports whether name matches a known class name.
// Matching is case-insensitive and exact.
func (r *ReferenceData) HasClass(name string) bool {
	for _, c := range r.Classes {
		if strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}
