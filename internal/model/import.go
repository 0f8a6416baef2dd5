package model

// Gender is the canonical post-normalization gender value.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// ImportRow is one candidate line parsed from an uploaded sheet.
//
// RowNumber is the position in the source sheet counting the header as
// row 1, so the first data row is 2. It is stable for the lifetime of
// the import session and is what every user-facing error refers to.
//
// Optional fields are nil when absent, never the empty string. Required
// fields keep their trimmed value, possibly empty, so the validator can
// flag them. Gender is a plain string because unrecognized input passes
// through normalization unchanged for the validator to reject.
type ImportRow struct {
	RowNumber     int      `json:"row_number"`
	StudentCode   string   `json:"student_code"`
	FullName      string   `json:"full_name"`
	OtherName     *string  `json:"other_name"`
	DateOfBirth   string   `json:"date_of_birth"` // ISO YYYY-MM-DD, "" when absent
	Gender        string   `json:"gender"`
	AcademicYear  string   `json:"academic_year"`
	ClassName     string   `json:"class_name"`
	Email         *string  `json:"email"`
	PhoneNumber   *string  `json:"phone_number"`
	ParentName    *string  `json:"parent_name"`
	ParentContact *string  `json:"parent_contact"`
	ParentEmail   *string  `json:"parent_email"`
	Address       *string  `json:"address"`
	IsValid       bool     `json:"is_valid"`
	Errors        []string `json:"errors"`
}

// StudentPayload is one student in the school API bulk-import request.
// Optional fields are pointers serialized without omitempty so absent
// values reach the API as explicit nulls.
type StudentPayload struct {
	StudentCode   string  `json:"studentCode"`
	FullName      string  `json:"fullName"`
	OtherName     *string `json:"otherName"`
	DateOfBirth   *string `json:"dateOfBirth"`
	Gender        Gender  `json:"gender"`
	AcademicYear  string  `json:"academicYear"`
	ClassName     string  `json:"className"`
	Email         *string `json:"email"`
	PhoneNumber   *string `json:"phoneNumber"`
	ParentName    *string `json:"parentName"`
	ParentContact *string `json:"parentContact"`
	ParentEmail   *string `json:"parentEmail"`
	Address       *string `json:"address"`
}

// RowError ties one school API failure message to its source row.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResult is the school API summary for one submission. Immutable
// once received; relayed to the caller in the upstream wire shape.
type ImportResult struct {
	Success      bool       `json:"success"`
	TotalRows    int        `json:"totalRows"`
	SuccessCount int        `json:"successCount"`
	FailedCount  int        `json:"failedCount"`
	SkippedCount int        `json:"skippedCount"`
	Errors       []RowError `json:"errors"`
}

// RemoveRowsRequest is the payload for bulk row removal from a session.
// Data rows start at sheet row 2, so every row number must be above 1.
type RemoveRowsRequest struct {
	RowNumbers []int `json:"row_numbers" binding:"required,min=1,dive,gt=1"`
}
