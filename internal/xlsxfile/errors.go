package xlsxfile

import "errors"

var (
	ErrNoActiveSheet   = errors.New("workbook has no active sheet")
	ErrMissingRows     = errors.New("workbook must contain at least a type row and a header row")
	ErrRowWidth        = errors.New("header row and type row have different widths")
	ErrUnknownType     = errors.New("unrecognized type name")
	ErrValueOutOfRange = errors.New("value out of range for declared type")
	ErrInvalidHex      = errors.New("not a valid 0x-prefixed hexadecimal value")
)
