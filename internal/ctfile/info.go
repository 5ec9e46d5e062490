package ctfile

import "ro2ct/internal/table"

// Info summarizes a Table the way ct_processor's get_file_info does for the
// original tool's CLI --info output: enough to eyeball a file without
// opening it in a spreadsheet.
type Info struct {
	Timestamp  string
	NumColumns int
	NumRows    int
	TypeCounts map[string]int
}

// Describe builds an Info summary for t.
func Describe(t *table.Table) Info {
	counts := make(map[string]int, len(t.Columns))
	for _, col := range t.Columns {
		counts[col.Type.Name()]++
	}
	return Info{
		Timestamp:  t.Timestamp,
		NumColumns: t.NumColumns(),
		NumRows:    t.NumRows(),
		TypeCounts: counts,
	}
}
