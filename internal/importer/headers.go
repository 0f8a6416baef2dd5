package importer

import "strings"

// Canonical field keys for recognized spreadsheet columns. Headers that
// resolve to any other key become extra fields that are silently ignored
// downstream.
const (
	FieldStudentCode   = "studentCode"
	FieldFullName      = "fullName"
	FieldOtherName     = "otherName"
	FieldDateOfBirth   = "dateOfBirth"
	FieldGender        = "gender"
	FieldAcademicYear  = "academicYear"
	FieldClassName     = "className"
	FieldEmail         = "email"
	FieldPhoneNumber   = "phoneNumber"
	FieldParentName    = "parentName"
	FieldParentContact = "parentContact"
	FieldParentEmail   = "parentEmail"
	FieldAddress       = "address"
)

// HeaderTableVersion identifies the synonym table revision. Bump it when
// spellings are added so a parsed file can be traced to the table state
// that mapped it.
const HeaderTableVersion = 3

// headerSynonyms maps known header spellings to canonical field keys.
// English, Malay and Chinese spellings are listed per field. Lookup is
// case-sensitive; unknown spellings fall back to a derived key in
// NormalizeHeader. Add spellings here, never in the parser.
var headerSynonyms = map[string]string{
	// studentCode
	"Student Code": FieldStudentCode,
	"StudentCode":  FieldStudentCode,
	"student_code": FieldStudentCode,
	"Student ID":   FieldStudentCode,
	"Kod Pelajar":  FieldStudentCode,
	"No Pelajar":   FieldStudentCode,
	"学号":           FieldStudentCode,

	// fullName
	"Full Name":    FieldFullName,
	"FullName":     FieldFullName,
	"full_name":    FieldFullName,
	"Name":         FieldFullName,
	"Student Name": FieldFullName,
	"Nama":         FieldFullName,
	"Nama Penuh":   FieldFullName,
	"姓名":           FieldFullName,

	// otherName
	"Other Name":   FieldOtherName,
	"OtherName":    FieldOtherName,
	"other_name":   FieldOtherName,
	"Chinese Name": FieldOtherName,
	"Nama Lain":    FieldOtherName,
	"其他姓名":         FieldOtherName,

	// dateOfBirth
	"Date of Birth": FieldDateOfBirth,
	"DateOfBirth":   FieldDateOfBirth,
	"date_of_birth": FieldDateOfBirth,
	"DOB":           FieldDateOfBirth,
	"Birth Date":    FieldDateOfBirth,
	"Tarikh Lahir":  FieldDateOfBirth,
	"出生日期":          FieldDateOfBirth,

	// gender
	"Gender":  FieldGender,
	"Sex":     FieldGender,
	"Jantina": FieldGender,
	"性别":      FieldGender,

	// academicYear
	"Academic Year":  FieldAcademicYear,
	"AcademicYear":   FieldAcademicYear,
	"academic_year":  FieldAcademicYear,
	"Year":           FieldAcademicYear,
	"Tahun Akademik": FieldAcademicYear,
	"Sesi":           FieldAcademicYear,
	"学年":             FieldAcademicYear,

	// className
	"Class":      FieldClassName,
	"Class Name": FieldClassName,
	"ClassName":  FieldClassName,
	"class_name": FieldClassName,
	"Kelas":      FieldClassName,
	"班级":         FieldClassName,

	// email
	"Email":         FieldEmail,
	"E-mail":        FieldEmail,
	"Email Address": FieldEmail,
	"E-mel":         FieldEmail,
	"Emel":          FieldEmail,
	"电子邮件":          FieldEmail,

	// phoneNumber
	"Phone Number": FieldPhoneNumber,
	"PhoneNumber":  FieldPhoneNumber,
	"phone_number": FieldPhoneNumber,
	"Phone":        FieldPhoneNumber,
	"Mobile":       FieldPhoneNumber,
	"No Telefon":   FieldPhoneNumber,
	"电话":           FieldPhoneNumber,

	// parentName
	"Parent Name":   FieldParentName,
	"ParentName":    FieldParentName,
	"parent_name":   FieldParentName,
	"Guardian Name": FieldParentName,
	"Nama Ibu Bapa": FieldParentName,
	"Nama Penjaga":  FieldParentName,
	"家长姓名":          FieldParentName,

	// parentContact
	"Parent Contact":      FieldParentContact,
	"ParentContact":       FieldParentContact,
	"parent_contact":      FieldParentContact,
	"Guardian Contact":    FieldParentContact,
	"No Telefon Ibu Bapa": FieldParentContact,
	"家长电话":                FieldParentContact,

	// parentEmail
	"Parent Email":   FieldParentEmail,
	"ParentEmail":    FieldParentEmail,
	"parent_email":   FieldParentEmail,
	"Guardian Email": FieldParentEmail,
	"E-mel Ibu Bapa": FieldParentEmail,
	"家长邮箱":           FieldParentEmail,

	// address
	"Address":      FieldAddress,
	"Home Address": FieldAddress,
	"Alamat":       FieldAddress,
	"地址":           FieldAddress,
}

// NormalizeHeader maps a raw header cell to its canonical field key. A
// spelling present in the synonym table returns the mapped key; anything
// else falls back to the lower-cased header with all whitespace removed.
// The fallback is deterministic, so one header always lands on the same
// key for every row of a file. Unknown headers are never an error.
func NormalizeHeader(raw string) string {
	if key, ok := headerSynonyms[raw]; ok {
		return key
	}
	return strings.ToLower(strings.Join(strings.Fields(raw), ""))
}
