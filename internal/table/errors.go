package table

import "errors"

// Sentinel errors surfaced by this package and wrapped by ctfile/xlsxfile
// with their own context prefix, following the filestore convention of
// fmt.Errorf("<pkg>: <context>: %w", Err...).
var (
	ErrUnknownType      = errors.New("unknown type code")
	ErrRowWidth         = errors.New("row does not match column count")
	ErrCellTypeMismatch = errors.New("cell type does not match column type")
	ErrValueOutOfRange  = errors.New("value out of range for declared type")
	ErrStringTooLong    = errors.New("string exceeds maximum UTF-16 code-unit length")
	ErrEmptyColumnName  = errors.New("column name is empty")
	ErrTimestampNUL     = errors.New("timestamp contains an embedded NUL")
)
