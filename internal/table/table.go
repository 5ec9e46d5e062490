package table

import (
	"fmt"
	"strings"
)

// Table is the codec-independent intermediate representation: a typed
// schema plus a row-major body of tagged cells. It has no shared ownership:
// a reader produces one, a writer consumes it, and it is discarded. Once New
// returns successfully, a Table's invariants hold until it is garbage
// collected; nothing in this package mutates one afterward.
type Table struct {
	Timestamp string
	Columns   []Column
	Rows      [][]Cell
}

// New validates data and, on success, returns a *Table. Every invariant
// is checked: row width, cell-tag/column-type agreement, integer
// domain, string length, non-empty column names, and a NUL-free timestamp.
func New(timestamp string, columns []Column, rows [][]Cell) (*Table, error) {
	if strings.ContainsRune(timestamp, 0) {
		return nil, fmt.Errorf("table: %w", ErrTimestampNUL)
	}

	for i, col := range columns {
		if col.Name == "" {
			return nil, fmt.Errorf("table: column %d: %w", i, ErrEmptyColumnName)
		}
		if !col.Type.Valid() {
			return nil, fmt.Errorf("table: column %q: %w: code %d", col.Name, ErrUnknownType, col.Type)
		}
	}

	for r, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("table: row %d has %d cells, want %d: %w", r, len(row), len(columns), ErrRowWidth)
		}
		for c, cell := range row {
			if err := validateCell(columns[c], cell); err != nil {
				return nil, fmt.Errorf("table: row %d, column %q: %w", r, columns[c].Name, err)
			}
		}
	}

	return &Table{Timestamp: timestamp, Columns: columns, Rows: rows}, nil
}

func validateCell(col Column, cell Cell) error {
	if cell.Type != col.Type {
		return fmt.Errorf("cell type %s, column type %s: %w", cell.Type.Name(), col.Type.Name(), ErrCellTypeMismatch)
	}
	if cell.Type == String {
		if err := CheckStringLength(CodeUnits(cell.Str)); err != nil {
			return err
		}
		return nil
	}
	return CheckRange(cell)
}

// NumColumns returns len(t.Columns) for readability at call sites.
func (t *Table) NumColumns() int { return len(t.Columns) }

// NumRows returns len(t.Rows) for readability at call sites.
func (t *Table) NumRows() int { return len(t.Rows) }
