package table

import "fmt"

// CheckRange verifies that cell c's payload fits the domain of its declared
// type. It does not check that c.Type equals the owning
// column's type; callers validate that separately so the error can name
// both tags.
func CheckRange(c Cell) error {
	switch c.Type {
	case Byte:
		return checkUint(c.Uint, 0xFF, "BYTE")
	case Word:
		return checkUint(c.Uint, 0xFFFF, "WORD")
	case Dword, DwordHex:
		return checkUint(c.Uint, 0xFFFFFFFF, "DWORD")
	case Int64:
		return nil // full uint64 domain, nothing to check
	case Short:
		return checkInt(c.Int, -32768, 32767, "SHORT")
	case Int:
		return checkInt(c.Int, -2147483648, 2147483647, "INT")
	case Float, String, Bool:
		return nil
	default:
		return fmt.Errorf("table: %w: code %d", ErrUnknownType, c.Type)
	}
}

func checkUint(v uint64, max uint64, name string) error {
	if v > max {
		return fmt.Errorf("table: %s value %d: %w", name, v, ErrValueOutOfRange)
	}
	return nil
}

func checkInt(v int64, min, max int64, name string) error {
	if v < min || v > max {
		return fmt.Errorf("table: %s value %d: %w", name, v, ErrValueOutOfRange)
	}
	return nil
}

// MaxStringCodeUnits is 2^32 - 1, the largest UTF-16 code-unit count a body
// string's 4-byte length prefix can express.
const MaxStringCodeUnits = 0xFFFFFFFF

// CheckStringLength verifies a STRING cell's UTF-16 code-unit count fits the
// 4-byte length prefix.
func CheckStringLength(units int) error {
	if units < 0 || uint64(units) > MaxStringCodeUnits {
		return fmt.Errorf("table: %d code units: %w", units, ErrStringTooLong)
	}
	return nil
}
