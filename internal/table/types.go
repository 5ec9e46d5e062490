// Package table defines the in-memory representation shared by the CT and
// XLSX codecs: an ordered schema of typed columns and a row-major body of
// tagged cells.
package table

import (
	"fmt"
	"strings"
)

// TypeCode identifies the binary shape of a column's cells. Values match the
// on-wire CT type codes exactly; do not renumber them.
type TypeCode uint32

const (
	Byte     TypeCode = 2
	Short    TypeCode = 3
	Word     TypeCode = 4
	Int      TypeCode = 5
	Dword    TypeCode = 6
	DwordHex TypeCode = 7
	String   TypeCode = 8
	Float    TypeCode = 9
	Int64    TypeCode = 11
	Bool     TypeCode = 12
)

// typeNames is the authoritative code<->name table; every other lookup in
// this package and in ctfile/xlsxfile is derived from it.
var typeNames = map[TypeCode]string{
	Byte:     "BYTE",
	Short:    "SHORT",
	Word:     "WORD",
	Int:      "INT",
	Dword:    "DWORD",
	DwordHex: "DWORD_HEX",
	String:   "STRING",
	Float:    "FLOAT",
	Int64:    "INT64",
	Bool:     "BOOL",
}

var namesToType = func() map[string]TypeCode {
	m := make(map[string]TypeCode, len(typeNames))
	for code, name := range typeNames {
		m[name] = code
	}
	return m
}()

// Name returns the uppercase type name used in the CT schema area and in the
// XLSX type row. The zero value and any unrecognized code return "".
func (t TypeCode) Name() string {
	return typeNames[t]
}

// Valid reports whether t is one of the declared type codes.
func (t TypeCode) Valid() bool {
	_, ok := typeNames[t]
	return ok
}

// ParseTypeName maps an uppercase type name (as it appears in an XLSX type
// row) back to its code. Matching is case-insensitive to tolerate hand-edited
// workbooks.
func ParseTypeName(name string) (TypeCode, error) {
	code, ok := namesToType[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("table: %w: %q", ErrUnknownType, name)
	}
	return code, nil
}

// Column describes one position in the row schema.
type Column struct {
	Name string
	Type TypeCode
}

// Cell is a tagged value. Only the field matching Type is meaningful; the
// others stay at their zero value. Kept as a flat struct rather than an
// interface so a row is one contiguous slice, matching how it is read and
// written byte-for-byte.
//
// Signed types (SHORT, INT) live in Int; unsigned types (BYTE, WORD, DWORD,
// DWORD_HEX, INT64, BOOL) live in Uint. INT64 is treated as 64-bit unsigned
// on the wire, which does not fit an int64 field for the top half of its
// range.
type Cell struct {
	Type TypeCode

	Int   int64
	Uint  uint64
	Float float32
	Str   string
}

// NewInt builds a SHORT or INT cell.
func NewInt(t TypeCode, v int64) Cell { return Cell{Type: t, Int: v} }

// NewUint builds a BYTE, WORD, DWORD, DWORD_HEX or INT64 cell.
func NewUint(t TypeCode, v uint64) Cell { return Cell{Type: t, Uint: v} }

// NewFloat builds a FLOAT cell.
func NewFloat(v float32) Cell { return Cell{Type: Float, Float: v} }

// NewString builds a STRING cell.
func NewString(v string) Cell { return Cell{Type: String, Str: v} }

// NewBool builds a BOOL cell; any nonzero input normalizes to 1.
func NewBool(v bool) Cell {
	c := Cell{Type: Bool}
	if v {
		c.Uint = 1
	}
	return c
}

func (c Cell) String() string {
	switch c.Type {
	case String:
		return c.Str
	case Float:
		return fmt.Sprintf("%g", c.Float)
	case DwordHex:
		return fmt.Sprintf("0x%08X", uint32(c.Uint))
	case Bool:
		if c.Uint != 0 {
			return "TRUE"
		}
		return "FALSE"
	case Short, Int:
		return fmt.Sprintf("%d", c.Int)
	default:
		return fmt.Sprintf("%d", c.Uint)
	}
}

// Bool reports the BOOL payload; any nonzero stored byte normalizes to true.
func (c Cell) Bool() bool { return c.Uint != 0 }
