package importer

import (
	"fmt"
	"regexp"
	"time"

	"github.com/sekolahku/pelajar-gateway/internal/model"
)

// emailPattern is the standard single-@ address shape: non-empty local
// part, domain containing a dot.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// A check inspects one row and returns an error message, or "" when the
// row passes. Checks that cross-reference the snapshot receive nil while
// reference data has not loaded and must skip, never fail, in that case.
type check func(row *model.ImportRow, ref *model.ReferenceData) string

// checks run in this exact order; message order in Errors equals check
// order. Add, remove or reorder checks here and update the corresponding
// tests, never inline new conditions elsewhere.
var checks = []check{
	checkStudentCode,
	checkFullName,
	checkDateOfBirth,
	checkGender,
	checkAcademicYear,
	checkClassName,
	checkEmail,
	checkParentEmail,
}

// Validate runs every check against every row and fills Errors and
// IsValid. This is the only place IsValid is ever written.
func Validate(rows []model.ImportRow, ref *model.ReferenceData) {
	for i := range rows {
		var errs []string
		for _, c := range checks {
			if msg := c(&rows[i], ref); msg != "" {
				errs = append(errs, msg)
			}
		}
		rows[i].Errors = errs
		rows[i].IsValid = len(errs) == 0
	}
}

func checkStudentCode(row *model.ImportRow, _ *model.ReferenceData) string {
	if row.StudentCode == "" {
		return "studentCode required"
	}
	return ""
}

func checkFullName(row *model.ImportRow, _ *model.ReferenceData) string {
	if row.FullName == "" {
		return "fullName required"
	}
	return ""
}

// checkDateOfBirth treats birth date as optional: absence passes, a
// present value must be a real calendar date in ISO form.
func checkDateOfBirth(row *model.ImportRow, _ *model.ReferenceData) string {
	if row.DateOfBirth == "" {
		return ""
	}
	if _, err := time.Parse(time.DateOnly, row.DateOfBirth); err != nil {
		return "invalid date format"
	}
	return ""
}

func checkGender(row *model.ImportRow, _ *model.ReferenceData) string {
	if row.Gender == "" {
		return "gender required"
	}
	if row.Gender != string(model.GenderMale) && row.Gender != string(model.GenderFemale) {
		return "invalid gender"
	}
	return ""
}

func checkAcademicYear(row *model.ImportRow, ref *model.ReferenceData) string {
	if row.AcademicYear == "" {
		return "academicYear required"
	}
	if ref != nil && !ref.HasAcademicYear(row.AcademicYear) {
		return fmt.Sprintf("invalid academicYear %q", row.AcademicYear)
	}
	return ""
}

func checkClassName(row *model.ImportRow, ref *model.ReferenceData) string {
	if row.ClassName == "" {
		return "class required"
	}
	if ref != nil && !ref.HasClass(row.ClassName) {
		return "invalid class"
	}
	return ""
}

func checkEmail(row *model.ImportRow, _ *model.ReferenceData) string {
	if row.Email != nil && !emailPattern.MatchString(*row.Email) {
		return "invalid email"
	}
	return ""
}

func checkParentEmail(row *model.ImportRow, _ *model.ReferenceData) string {
	if row.ParentEmail != nil && !emailPattern.MatchString(*row.ParentEmail) {
		return "invalid parentEmail"
	}
	return ""
}
