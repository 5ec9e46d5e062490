package table

import "unicode/utf16"

// CodeUnits returns the number of UTF-16 code units s would occupy once
// encoded; surrogate pairs count as two, matching the CT body-string length
// prefix.
func CodeUnits(s string) int {
	return len(utf16.Encode([]rune(s)))
}
