package importer

import (
	"github.com/xuri/excelize/v2"
)

// TemplateFilename is the download name for the authoring template.
const TemplateFilename = "student_import_template.xlsx"

// templateColumns define the template header row, left to right, with the
// fixed width each column is rendered at.
var templateColumns = []struct {
	Header string
	Width  float64
}{
	{"Student Code", 14},
	{"Academic Year", 14},
	{"Class", 10},
	{"Full Name", 24},
	{"Other Name", 18},
	{"Date of Birth", 14},
	{"Gender", 10},
	{"Email", 24},
	{"Phone Number", 16},
	{"Parent Name", 24},
	{"Parent Contact", 16},
	{"Parent Email", 24},
	{"Address", 32},
}

// templateSamples are the two example rows shipped in the template. They
// round-trip through ParseFile and Validate with zero errors when the
// reference snapshot contains their academic year and class.
var templateSamples = [][]string{
	{
		"STU001", "2024/2025", "1A", "Ahmad bin Abdullah", "",
		"2010-05-15", "Male", "ahmad@example.com", "0123456789",
		"Abdullah bin Hassan", "0198765432", "abdullah@example.com",
		"12 Jalan Merdeka, Kuala Lumpur",
	},
	{
		"STU002", "2024/2025", "1A", "Tan Mei Ling", "陈美玲",
		"2010-08-20", "Female", "", "",
		"Tan Ah Kow", "0171234567", "",
		"",
	},
}

// BuildTemplate produces the authoring-aid workbook: the header row, the
// sample rows, and fixed column widths. The workbook is a user-facing
// aid only; the pipeline never consumes it.
func BuildTemplate() (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := make([]interface{}, len(templateColumns))
	for i, col := range templateColumns {
		headers[i] = col.Header
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return nil, err
	}

	for i, sample := range templateSamples {
		cells := make([]interface{}, len(sample))
		for j, value := range sample {
			cells[j] = value
		}
		start, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, start, &cells); err != nil {
			return nil, err
		}
	}

	for i, col := range templateColumns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheet, name, name, col.Width); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// TemplateBytes renders the template workbook as xlsx bytes.
func TemplateBytes() ([]byte, error) {
	f, err := BuildTemplate()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
