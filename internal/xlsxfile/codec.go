// Package xlsxfile reads and writes the XLSX side of a Table: a single
// sheet following the fixed three-row convention (type row,
// name row, data rows), via github.com/xuri/excelize/v2.
package xlsxfile

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"

	"ro2ct/internal/table"
)

const sheetName = "Sheet1"

// Read loads an XLSX file at path and decodes it into a Table.
func Read(path string) (*table.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("xlsxfile: open %s: %w", path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("xlsxfile: %w", ErrNoActiveSheet)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("xlsxfile: read rows: %w", err)
	}
	if len(rows) < 2 {
		// A zero-column table has no type/name row cells to write, so
		// Sheet1 comes back with no rows at all; that is indistinguishable
		// from a malformed workbook unless the shape was recorded at write
		// time. Fall back to it before giving up.
		if numCols, numRows, ok := getShape(f); ok && numCols == 0 {
			return emptyColumnsTable(getTimestamp(f), numRows)
		}
		return nil, fmt.Errorf("xlsxfile: %w", ErrMissingRows)
	}

	typeRow, nameRow, dataRows := rows[0], rows[1], rows[2:]
	if len(typeRow) != len(nameRow) {
		return nil, fmt.Errorf("xlsxfile: type row has %d cells, name row has %d: %w", len(typeRow), len(nameRow), ErrRowWidth)
	}
	numCols := len(typeRow)

	columns := make([]table.Column, numCols)
	for i := 0; i < numCols; i++ {
		t, err := table.ParseTypeName(typeRow[i])
		if err != nil {
			return nil, fmt.Errorf("xlsxfile: column %d: %w", i, err)
		}
		columns[i] = table.Column{Name: nameRow[i], Type: t}
	}

	out := make([][]table.Cell, len(dataRows))
	for r, raw := range dataRows {
		row := make([]table.Cell, numCols)
		for c := 0; c < numCols; c++ {
			var text string
			if c < len(raw) {
				text = raw[c]
			}
			cell, err := parseCell(columns[c].Type, text)
			if err != nil {
				return nil, fmt.Errorf("xlsxfile: row %d, column %d (%s): %w", r, c, columns[c].Name, err)
			}
			row[c] = cell
		}
		out[r] = row
	}

	timestamp := getTimestamp(f)
	tb, err := table.New(timestamp, columns, out)
	if err != nil {
		return nil, fmt.Errorf("xlsxfile: %w", err)
	}
	return tb, nil
}

// emptyColumnsTable rebuilds a zero-column Table from the recorded row
// count alone: every row has zero cells, so there is nothing else to read.
func emptyColumnsTable(timestamp string, numRows int) (*table.Table, error) {
	rows := make([][]table.Cell, numRows)
	for r := range rows {
		rows[r] = []table.Cell{}
	}
	tb, err := table.New(timestamp, nil, rows)
	if err != nil {
		return nil, fmt.Errorf("xlsxfile: %w", err)
	}
	return tb, nil
}

// Write encodes t into an XLSX workbook at path, overwriting any existing
// file.
func Write(path string, t *table.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("xlsxfile: rename sheet: %w", err)
	}

	for i, col := range t.Columns {
		axis, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("xlsxfile: type cell coordinates: %w", err)
		}
		if err := f.SetCellStr(sheetName, axis, col.Type.Name()); err != nil {
			return fmt.Errorf("xlsxfile: write type cell: %w", err)
		}

		axis, err = excelize.CoordinatesToCellName(i+1, 2)
		if err != nil {
			return fmt.Errorf("xlsxfile: name cell coordinates: %w", err)
		}
		if err := f.SetCellStr(sheetName, axis, col.Name); err != nil {
			return fmt.Errorf("xlsxfile: write name cell: %w", err)
		}
	}

	for r, row := range t.Rows {
		for c, cell := range row {
			axis, err := excelize.CoordinatesToCellName(c+1, r+3)
			if err != nil {
				return fmt.Errorf("xlsxfile: data cell coordinates: %w", err)
			}
			if err := writeCell(f, axis, cell); err != nil {
				return fmt.Errorf("xlsxfile: row %d, column %d: %w", r, c, err)
			}
		}
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{Freeze: true, Split: false, XSplit: 0, YSplit: 2, TopLeftCell: "A3", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("xlsxfile: freeze panes: %w", err)
	}

	autoSizeColumns(f, t)

	if err := addDataTable(f, path, t); err != nil {
		return fmt.Errorf("xlsxfile: add table: %w", err)
	}

	if err := setMeta(f, t.Timestamp, t.NumColumns(), t.NumRows()); err != nil {
		return fmt.Errorf("xlsxfile: write metadata: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("xlsxfile: save %s: %w", path, err)
	}
	return nil
}

func writeCell(f *excelize.File, axis string, cell table.Cell) error {
	switch cell.Type {
	case table.DwordHex:
		return f.SetCellStr(sheetName, axis, fmt.Sprintf("0x%08X", uint32(cell.Uint)))
	case table.Byte, table.Word, table.Dword:
		return f.SetCellInt(sheetName, axis, int(cell.Uint))
	case table.Int64:
		// Written as text rather than a numeric cell: XLSX numeric storage
		// is IEEE-754 double, which cannot hold the full uint64 domain
		// exactly above 2^53.
		return f.SetCellStr(sheetName, axis, strconv.FormatUint(cell.Uint, 10))
	case table.Short, table.Int:
		return f.SetCellInt(sheetName, axis, int(cell.Int))
	case table.Float:
		return f.SetCellFloat(sheetName, axis, float64(cell.Float), -1, 32)
	case table.String:
		return f.SetCellStr(sheetName, axis, cell.Str)
	case table.Bool:
		return f.SetCellBool(sheetName, axis, cell.Bool())
	default:
		return fmt.Errorf("%w: code %d", ErrUnknownType, cell.Type)
	}
}

func parseCell(t table.TypeCode, text string) (table.Cell, error) {
	switch t {
	case table.Byte:
		return parseUint(t, text, 0xFF)
	case table.Word:
		return parseUint(t, text, 0xFFFF)
	case table.Dword:
		return parseUint(t, text, 0xFFFFFFFF)
	case table.Int64:
		return parseUint(t, text, ^uint64(0))
	case table.DwordHex:
		return parseHex(text)
	case table.Short:
		return parseInt(t, text, -32768, 32767)
	case table.Int:
		return parseInt(t, text, -2147483648, 2147483647)
	case table.Float:
		v, err := strconv.ParseFloat(strings.TrimSpace(text), 32)
		if err != nil {
			return table.Cell{}, fmt.Errorf("%q: %w", text, err)
		}
		return table.NewFloat(float32(v)), nil
	case table.String:
		return table.NewString(text), nil
	case table.Bool:
		return parseBool(text)
	default:
		return table.Cell{}, fmt.Errorf("%w: code %d", ErrUnknownType, t)
	}
}

func parseUint(t table.TypeCode, text string, max uint64) (table.Cell, error) {
	text = strings.TrimSpace(text)
	// Accept "1.0"-style float spellings the way numeric spreadsheet cells
	// sometimes round-trip through GetRows, mirroring the original's
	// int(float(value)) conversion.
	v, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		if f, ferr := strconv.ParseFloat(text, 64); ferr == nil && f >= 0 {
			v = uint64(f)
		} else {
			return table.Cell{}, fmt.Errorf("%q: %w", text, err)
		}
	}
	if v > max {
		return table.Cell{}, fmt.Errorf("%d: %w", v, ErrValueOutOfRange)
	}
	return table.NewUint(t, v), nil
}

func parseInt(t table.TypeCode, text string, min, max int64) (table.Cell, error) {
	text = strings.TrimSpace(text)
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		if f, ferr := strconv.ParseFloat(text, 64); ferr == nil {
			v = int64(f)
		} else {
			return table.Cell{}, fmt.Errorf("%q: %w", text, err)
		}
	}
	if v < min || v > max {
		return table.Cell{}, fmt.Errorf("%d: %w", v, ErrValueOutOfRange)
	}
	return table.NewInt(t, v), nil
}

func parseHex(text string) (table.Cell, error) {
	text = strings.TrimSpace(text)
	trimmed := strings.TrimPrefix(strings.TrimPrefix(text, "0x"), "0X")
	v, err := strconv.ParseUint(trimmed, 16, 64)
	if err != nil {
		return table.Cell{}, fmt.Errorf("%q: %w", text, ErrInvalidHex)
	}
	if v > 0xFFFFFFFF {
		return table.Cell{}, fmt.Errorf("%d: %w", v, ErrValueOutOfRange)
	}
	return table.NewUint(table.DwordHex, v), nil
}

func parseBool(text string) (table.Cell, error) {
	switch strings.ToUpper(strings.TrimSpace(text)) {
	case "TRUE", "1":
		return table.NewBool(true), nil
	case "FALSE", "0", "":
		return table.NewBool(false), nil
	default:
		return table.Cell{}, fmt.Errorf("xlsxfile: %q is not a recognized boolean", text)
	}
}

// addDataTable lays an Excel Table over the name row and data rows (row 2
// through the last data row), leaving the type row outside it so the table
// starts on what looks like an ordinary header. Mirrors the original's
// table range, which also starts at row 2 for the same reason.
func addDataTable(f *excelize.File, path string, t *table.Table) error {
	if len(t.Columns) == 0 {
		return nil
	}
	lastCol, err := excelize.ColumnNumberToName(len(t.Columns))
	if err != nil {
		return fmt.Errorf("table column letter: %w", err)
	}
	showStripes := true
	return f.AddTable(sheetName, &excelize.Table{
		Range:          fmt.Sprintf("A2:%s%d", lastCol, 2+len(t.Rows)),
		Name:           tableDisplayName(path),
		StyleName:      "TableStyleMedium2",
		ShowRowStripes: &showStripes,
	})
}

// tableDisplayName derives an Excel table name from the output file's stem:
// ASCII letters, digits and underscores only, starting with a letter,
// capped at Excel's 255-character limit.
func tableDisplayName(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	var b strings.Builder
	for _, r := range stem {
		if r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	name := b.String()
	if name == "" || !unicode.IsLetter(rune(name[0])) {
		name = "Table_" + name
	}
	if len(name) > 255 {
		name = name[:255]
	}
	return name
}

func autoSizeColumns(f *excelize.File, t *table.Table) {
	for i, col := range t.Columns {
		maxLen := len(col.Name)
		if n := len(col.Type.Name()); n > maxLen {
			maxLen = n
		}
		for _, row := range t.Rows {
			if n := len(row[i].String()); n > maxLen {
				maxLen = n
			}
		}
		width := float64(maxLen + 2)
		if width < 10 {
			width = 10
		}
		if width > 50 {
			width = 50
		}
		if i < 26 {
			letter := string(rune('A' + i)) // only exact for i < 26; wider sheets keep excelize's default width
			_ = f.SetColWidth(sheetName, letter, letter, width)
		}
	}
}
