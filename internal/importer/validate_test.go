package importer

import (
	"testing"

	"github.com/sekolahku/pelajar-gateway/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReference() *model.ReferenceData {
	return &model.ReferenceData{
		AcademicYears: []model.AcademicYear{
			{ID: 1, Name: "2024/2025"},
			{ID: 2, Name: "2025/2026"},
		},
		Grades: []model.GradeLevel{
			{ID: 1, Name: "Form 1"},
		},
		Classes: []model.SchoolClass{
			{ID: 1, Name: "1A", GradeID: 1, YearID: 1},
			{ID: 2, Name: "1B", GradeID: 1, YearID: 1},
		},
	}
}

func TestValidateScenarioCleanRow(t *testing.T) {
	data := csvHeader + "\n" +
		"STU001,2024/2025,1A,Ahmad,,2010-05-15,Male,,,,,,"

	rows, err := ParseFile("students.csv", []byte(data))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	Validate(rows, testReference())

	assert.True(t, rows[0].IsValid)
	assert.Empty(t, rows[0].Errors)
}

func TestValidateScenarioUnrecognizedGenderAndClass(t *testing.T) {
	data := csvHeader + "\n" +
		"STU001,2024/2025,9Z,Ahmad,,2010-05-15,X,,,,,,"

	rows, err := ParseFile("students.csv", []byte(data))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	Validate(rows, testReference())

	assert.False(t, rows[0].IsValid)
	assert.Equal(t, []string{"invalid gender", "invalid class"}, rows[0].Errors)
}

func TestValidateRequiredFieldOrder(t *testing.T) {
	rows := []model.ImportRow{{RowNumber: 2}}

	Validate(rows, testReference())

	assert.Equal(t, []string{
		"studentCode required",
		"fullName required",
		"gender required",
		"academicYear required",
		"class required",
	}, rows[0].Errors)
	assert.False(t, rows[0].IsValid)
}

func TestValidateDateOfBirthOptional(t *testing.T) {
	cases := []struct {
		date string
		want []string
	}{
		{"", nil},
		{"2010-05-15", nil},
		{"2010-02-30", []string{"invalid date format"}},
		{"not a date", []string{"invalid date format"}},
	}
	for _, tc := range cases {
		rows := []model.ImportRow{{
			RowNumber:    2,
			StudentCode:  "STU001",
			FullName:     "Ahmad",
			DateOfBirth:  tc.date,
			Gender:       "Male",
			AcademicYear: "2024/2025",
			ClassName:    "1A",
		}}
		Validate(rows, testReference())
		assert.Equal(t, tc.want, rows[0].Errors, "date %q", tc.date)
	}
}

func TestValidateAcademicYearMessageIncludesValue(t *testing.T) {
	rows := []model.ImportRow{{
		RowNumber:    2,
		StudentCode:  "STU001",
		FullName:     "Ahmad",
		Gender:       "Male",
		AcademicYear: "2030/2031",
		ClassName:    "1A",
	}}

	Validate(rows, testReference())

	assert.Equal(t, []string{`invalid academicYear "2030/2031"`}, rows[0].Errors)
}

func TestValidateReferenceMatchIsCaseInsensitive(t *testing.T) {
	rows := []model.ImportRow{{
		RowNumber:    2,
		StudentCode:  "STU001",
		FullName:     "Ahmad",
		Gender:       "Male",
		AcademicYear: "2024/2025",
		ClassName:    "1a",
	}}

	Validate(rows, testReference())

	assert.True(t, rows[0].IsValid)
}

func TestValidateSkipsReferenceChecksWhenUnloaded(t *testing.T) {
	rows := []model.ImportRow{{
		RowNumber:    2,
		StudentCode:  "STU001",
		FullName:     "Ahmad",
		Gender:       "Male",
		AcademicYear: "anything",
		ClassName:    "anywhere",
	}}

	Validate(rows, nil)

	assert.True(t, rows[0].IsValid)
	assert.Empty(t, rows[0].Errors)
}

func TestValidateEmailShapes(t *testing.T) {
	bad := "not-an-email"
	noDot := "x@y"
	good := "a@b.com"

	rows := []model.ImportRow{{
		RowNumber:    2,
		StudentCode:  "STU001",
		FullName:     "Ahmad",
		Gender:       "Male",
		AcademicYear: "2024/2025",
		ClassName:    "1A",
		Email:        &bad,
		ParentEmail:  &noDot,
	}}

	Validate(rows, testReference())
	assert.Equal(t, []string{"invalid email", "invalid parentEmail"}, rows[0].Errors)

	rows[0].Email = &good
	rows[0].ParentEmail = &good
	Validate(rows, testReference())
	assert.True(t, rows[0].IsValid)
}

func TestValidateIsValidMatchesErrors(t *testing.T) {
	// The invariant holds for any input: IsValid is exactly the
	// emptiness of Errors.
	data := csvHeader + "\n" +
		"STU001,2024/2025,1A,Ahmad,,2010-05-15,Male,,,,,,\n" +
		",2024/2025,1A,,,garbage,X,bad-email,,,,also-bad,\n" +
		"STU003,2030/2031,9Z,Siti,,,Female,,,,,,\n" +
		"STU004,2024/2025,1B,Lim Wei,,40313,lelaki,a@b.com,,,,c@d.org,"

	rows, err := ParseFile("students.csv", []byte(data))
	require.NoError(t, err)
	require.Len(t, rows, 4)

	Validate(rows, testReference())

	for _, row := range rows {
		assert.Equal(t, len(row.Errors) == 0, row.IsValid, "row %d", row.RowNumber)
	}
	assert.True(t, rows[0].IsValid)
	assert.False(t, rows[1].IsValid)
	assert.False(t, rows[2].IsValid)
	assert.True(t, rows[3].IsValid)
}
