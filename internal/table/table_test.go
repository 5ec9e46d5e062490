package table

import (
	"errors"
	"testing"
)

func TestNew_ValidTable(t *testing.T) {
	cols := []Column{
		{Name: "Id", Type: Dword},
		{Name: "Name", Type: String},
	}
	rows := [][]Cell{
		{NewUint(Dword, 1), NewString("Alice")},
		{NewUint(Dword, 2), NewString("Bob")},
	}

	tb, err := New("2024-01-01 00:00:00", cols, rows)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if tb.NumColumns() != 2 || tb.NumRows() != 2 {
		t.Fatalf("unexpected shape: %d cols, %d rows", tb.NumColumns(), tb.NumRows())
	}
}

func TestNew_EmptyTableIsLegal(t *testing.T) {
	tb, err := New("", nil, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if tb.NumColumns() != 0 || tb.NumRows() != 0 {
		t.Fatalf("expected empty table")
	}
}

func TestNew_RowWidthMismatch(t *testing.T) {
	cols := []Column{{Name: "Id", Type: Dword}}
	rows := [][]Cell{{NewUint(Dword, 1), NewUint(Dword, 2)}}

	_, err := New("", cols, rows)
	if !errors.Is(err, ErrRowWidth) {
		t.Fatalf("expected ErrRowWidth, got %v", err)
	}
}

func TestNew_CellTypeMismatch(t *testing.T) {
	cols := []Column{{Name: "Id", Type: Dword}}
	rows := [][]Cell{{NewString("oops")}}

	_, err := New("", cols, rows)
	if !errors.Is(err, ErrCellTypeMismatch) {
		t.Fatalf("expected ErrCellTypeMismatch, got %v", err)
	}
}

func TestNew_EmptyColumnName(t *testing.T) {
	cols := []Column{{Name: "", Type: Dword}}
	_, err := New("", cols, nil)
	if !errors.Is(err, ErrEmptyColumnName) {
		t.Fatalf("expected ErrEmptyColumnName, got %v", err)
	}
}

func TestNew_TimestampWithNUL(t *testing.T) {
	_, err := New("2024\x0001\x0001", nil, nil)
	if !errors.Is(err, ErrTimestampNUL) {
		t.Fatalf("expected ErrTimestampNUL, got %v", err)
	}
}

func TestCheckRange_ExactBoundaries(t *testing.T) {
	if err := CheckRange(NewUint(Byte, 255)); err != nil {
		t.Fatalf("BYTE=255 should be valid: %v", err)
	}
	if err := CheckRange(NewUint(Byte, 256)); !errors.Is(err, ErrValueOutOfRange) {
		t.Fatalf("BYTE=256 should overflow, got %v", err)
	}
	if err := CheckRange(NewUint(Word, 0)); err != nil {
		t.Fatalf("WORD=0 should be valid: %v", err)
	}
	if err := CheckRange(NewUint(Dword, 0xFFFFFFFF)); err != nil {
		t.Fatalf("DWORD max should be valid: %v", err)
	}
	if err := CheckRange(NewUint(Dword, 0x100000000)); !errors.Is(err, ErrValueOutOfRange) {
		t.Fatalf("DWORD overflow should fail, got %v", err)
	}
	if err := CheckRange(NewInt(Short, -32768)); err != nil {
		t.Fatalf("SHORT min should be valid: %v", err)
	}
	if err := CheckRange(NewInt(Short, 32768)); !errors.Is(err, ErrValueOutOfRange) {
		t.Fatalf("SHORT overflow should fail, got %v", err)
	}
}
