package xlsxfile

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"ro2ct/internal/table"
)

// Report is the result of validating a workbook's structure before a full
// Read attempt, surfacing problems a spreadsheet editor could introduce
// (missing rows, blank headers, unrecognized type names) without failing
// the whole conversion outright.
type Report struct {
	Valid    bool
	Errors   []string
	Warnings []string
	Columns  int
	DataRows int
}

// Validate inspects the workbook at path the way a careful human reviewer
// would before trusting it to Read: present, well-formed type/name rows,
// and a known type in every type-row cell. It never modifies the file.
func Validate(path string) (Report, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("xlsxfile: open %s: %w", path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return Report{Valid: false, Errors: []string{"workbook has no active sheet"}}, nil
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return Report{}, fmt.Errorf("xlsxfile: read rows: %w", err)
	}

	var r Report
	r.Valid = true

	if len(rows) == 0 {
		r.Valid = false
		r.Errors = append(r.Errors, "sheet is empty")
		return r, nil
	}
	if len(rows) < 2 {
		r.Valid = false
		r.Errors = append(r.Errors, "sheet must contain at least a type row and a header row")
		return r, nil
	}

	typeRow, nameRow := rows[0], rows[1]
	if len(typeRow) != len(nameRow) {
		r.Warnings = append(r.Warnings, fmt.Sprintf("type row has %d cells, header row has %d", len(typeRow), len(nameRow)))
	}

	var emptyAt []int
	for i, name := range nameRow {
		if strings.TrimSpace(name) == "" {
			emptyAt = append(emptyAt, i)
		}
	}
	if len(emptyAt) > 0 {
		r.Warnings = append(r.Warnings, fmt.Sprintf("empty column names at positions %v", emptyAt))
	}

	var unknown []string
	for _, name := range typeRow {
		if _, err := table.ParseTypeName(name); err != nil {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		r.Warnings = append(r.Warnings, fmt.Sprintf("unrecognized type names: %v", unknown))
	}

	r.Columns = len(nameRow)
	r.DataRows = len(rows) - 2
	return r, nil
}
