package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sekolahku/pelajar-gateway/internal/model"
	"github.com/xuri/excelize/v2"
)

// Sentinel parse errors. All three are terminal for the upload: the file
// must be fixed and re-uploaded, no rows are produced.
var (
	ErrEmptyFile           = errors.New("file has no data rows")
	ErrUnreadableFile      = errors.New("file could not be read")
	ErrUnsupportedFileType = errors.New("unsupported file type")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseFile decodes uploaded bytes into candidate rows. The extension of
// filename selects the decoder (.xlsx or .csv). Sheet row 1 is the header
// row; rows whose every cell is blank are skipped entirely, neither
// emitted nor counted. Identical bytes always produce the identical
// ordered row slice.
//
// Rows come back normalized but not validated; run Validate to fill
// Errors and IsValid.
func ParseFile(filename string, data []byte) ([]model.ImportRow, error) {
	grid, err := decode(filename, data)
	if err != nil {
		return nil, err
	}
	if len(grid) < 2 {
		return nil, ErrEmptyFile
	}

	keys := make([]string, len(grid[0]))
	for i, header := range grid[0] {
		keys[i] = NormalizeHeader(strings.TrimSpace(header))
	}

	rows := make([]model.ImportRow, 0, len(grid)-1)
	for i, record := range grid[1:] {
		if blankRow(record) {
			continue
		}
		// The header is sheet row 1, so the first data row is 2.
		rows = append(rows, buildRow(i+2, keys, record))
	}
	return rows, nil
}

func decode(filename string, data []byte) ([][]string, error) {
	name := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(name, ".xlsx"):
		return decodeXLSX(data)
	case strings.HasSuffix(name, ".csv"):
		return decodeCSV(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFileType, filepath.Ext(filename))
	}
}

func decodeXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	return rows, nil
}

func decodeCSV(data []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	reader.FieldsPerRecord = -1 // Allow variable fields

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
		}
		rows = append(rows, record)
	}
	return rows, nil
}

// blankRow reports whether every cell is empty after trimming.
func blankRow(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// buildRow assigns each cell to the field its column header mapped to.
// Missing trailing cells read as empty; keys outside the canonical set
// are ignored.
func buildRow(rowNumber int, keys []string, record []string) model.ImportRow {
	row := model.ImportRow{RowNumber: rowNumber}
	for i, key := range keys {
		value := ""
		if i < len(record) {
			value = strings.TrimSpace(record[i])
		}
		switch key {
		case FieldStudentCode:
			row.StudentCode = value
		case FieldFullName:
			row.FullName = value
		case FieldOtherName:
			row.OtherName = optional(value)
		case FieldDateOfBirth:
			row.DateOfBirth = NormalizeDate(convertDateSerial(value))
		case FieldGender:
			row.Gender = NormalizeGender(value)
		case FieldAcademicYear:
			row.AcademicYear = value
		case FieldClassName:
			row.ClassName = value
		case FieldEmail:
			row.Email = optional(value)
		case FieldPhoneNumber:
			row.PhoneNumber = optional(value)
		case FieldParentName:
			row.ParentName = optional(value)
		case FieldParentContact:
			row.ParentContact = optional(value)
		case FieldParentEmail:
			row.ParentEmail = optional(value)
		case FieldAddress:
			row.Address = optional(value)
		}
	}
	return row
}

// convertDateSerial turns a numeric spreadsheet date serial into an ISO
// date string. Serials are meaningless outside the originating
// application, so they are converted as soon as the cell is read.
// Non-numeric values pass through for the layout-based normalization.
func convertDateSerial(value string) string {
	serial, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return value
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return value
	}
	return t.Format(time.DateOnly)
}
