package ctfile

import "errors"

// Error taxonomy for this package. Each is wrapped with fmt.Errorf("ctfile: ...:
// %w", Err...) at the point of detection so errors.Is keeps working through
// the wrap, matching the filestore package's convention.
var (
	ErrBadMagic         = errors.New("bad magic")
	ErrHeaderOverflow   = errors.New("header overflow")
	ErrTimestampTooLong = errors.New("timestamp too long")
	ErrSchemaMismatch   = errors.New("schema mismatch")
	ErrUnknownType      = errors.New("unknown type code")
	ErrBadChecksum      = errors.New("bad checksum")
	ErrTrailingBytes    = errors.New("trailing bytes")
	ErrValueOutOfRange  = errors.New("value out of range")
	ErrStringTooLong    = errors.New("string too long")
	ErrDeclaredCount    = errors.New("declared count exceeds remaining input")
)
