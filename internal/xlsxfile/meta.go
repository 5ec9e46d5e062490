package xlsxfile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// metaSheet is a hidden worksheet that carries data with no natural home in
// the three-row table convention: the CT header timestamp, and the
// authoritative column/row shape. excelize has no public API for arbitrary
// custom document properties, so this implements the same contract (opaque
// values that must round-trip exactly) as workbook-scoped defined names
// pointing at hidden cells, built on excelize's stable DefinedName API
// instead of a guessed-at custom-properties surface.
//
// The shape cell exists because a zero-column table has nothing to write
// into the type/name rows: Sheet1 ends up with no cells at all, so GetRows
// returns no rows, and the type/name rows Read normally expects cannot be
// told apart from a genuinely malformed workbook. CT_Shape records the
// column and row counts that were true at write time, so Read can recognize
// and reconstruct that degenerate case instead of rejecting it.
const (
	metaSheetName = "_CT_META"
	metaCell      = "A1"
	shapeCell     = "A2"
	timestampName = "CT_Timestamp"
	shapeName     = "CT_Shape"
)

func setMeta(f *excelize.File, timestamp string, numCols, numRows int) error {
	if _, err := f.NewSheet(metaSheetName); err != nil {
		return err
	}
	if err := f.SetCellStr(metaSheetName, metaCell, timestamp); err != nil {
		return err
	}
	if err := f.SetCellStr(metaSheetName, shapeCell, fmt.Sprintf("%d,%d", numCols, numRows)); err != nil {
		return err
	}
	if err := f.SetSheetVisible(metaSheetName, false); err != nil {
		return err
	}
	if err := f.SetDefinedName(&excelize.DefinedName{
		Name:     timestampName,
		RefersTo: metaSheetName + "!$A$1",
	}); err != nil {
		return err
	}
	if err := f.SetDefinedName(&excelize.DefinedName{
		Name:     shapeName,
		RefersTo: metaSheetName + "!$A$2",
	}); err != nil {
		return err
	}
	// Keep the first visible sheet active; the metadata sheet exists only to
	// be pointed at, never to be shown.
	f.SetActiveSheet(0)
	return nil
}

func getTimestamp(f *excelize.File) string {
	for _, dn := range f.GetDefinedName() {
		if dn.Name == timestampName {
			v, err := f.GetCellValue(metaSheetName, metaCell)
			if err == nil {
				return v
			}
		}
	}
	// Fall back to looking at the sheet directly in case the defined name
	// was stripped by some other tool that round-tripped the workbook.
	if v, err := f.GetCellValue(metaSheetName, metaCell); err == nil {
		return v
	}
	return ""
}

// getShape reports the column and row counts recorded by setMeta, and
// whether a shape record was found at all. A workbook written by something
// other than this package simply has no _CT_META sheet or shape cell.
func getShape(f *excelize.File) (numCols, numRows int, ok bool) {
	v, err := f.GetCellValue(metaSheetName, shapeCell)
	if err != nil || v == "" {
		return 0, 0, false
	}
	parts := strings.SplitN(v, ",", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	cols, err1 := strconv.Atoi(parts[0])
	rows, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return cols, rows, true
}
