// Package ctfile implements the CT binary codec: the header/schema/row-body
// layout, the UTF-16LE string and padding conventions, and the CRC-16/XMODEM
// integrity scheme.
package ctfile

import (
	"bytes"
	"fmt"
	"io"

	"ro2ct/internal/table"
)

const (
	magicText  = "RO2SEC!"
	headerSize = 0x40
)

// Read parses a complete CT file from r and returns the Table it encodes.
// It follows the format exactly: magic, timestamp, header padding, schema,
// row body, then checksum verification over the row-data region only.
func Read(r io.Reader) (*table.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("ctfile: read input: %w", err)
	}
	br := bytes.NewReader(data)
	offset := func() int64 { return br.Size() - int64(br.Len()) }

	timestamp, err := readHeader(br)
	if err != nil {
		return nil, err
	}
	if offset() > headerSize {
		return nil, fmt.Errorf("ctfile: header ran past 0x%X: %w", headerSize, ErrHeaderOverflow)
	}
	if _, err := br.Seek(headerSize, io.SeekStart); err != nil {
		return nil, fmt.Errorf("ctfile: seek to schema: %w", err)
	}

	columns, err := readSchema(br)
	if err != nil {
		return nil, err
	}

	numRows, err := readUint32(br)
	if err != nil {
		return nil, fmt.Errorf("ctfile: row count: %w", err)
	}
	rowStart := offset()
	rows, err := readRows(br, columns, numRows)
	if err != nil {
		return nil, err
	}
	rowEnd := offset()

	storedCRC, err := readUint16(br)
	if err != nil {
		return nil, fmt.Errorf("ctfile: read checksum: %w", err)
	}
	computed := checksum(data[rowStart:rowEnd])
	if storedCRC != computed {
		return nil, fmt.Errorf("ctfile: stored 0x%04X, computed 0x%04X: %w", storedCRC, computed, ErrBadChecksum)
	}
	if br.Len() != 0 {
		return nil, fmt.Errorf("ctfile: %d bytes remain after checksum: %w", br.Len(), ErrTrailingBytes)
	}

	tb, err := table.New(timestamp, columns, rows)
	if err != nil {
		return nil, fmt.Errorf("ctfile: %w", err)
	}
	return tb, nil
}

// readHeader validates the magic and returns the timestamp text. It leaves
// br positioned right after the timestamp's NUL terminator; the caller is
// responsible for seeking past the remaining padding.
func readHeader(br *bytes.Reader) (string, error) {
	magic, consumed, err := readHeaderString(br)
	if err != nil {
		return "", fmt.Errorf("ctfile: magic: %w", err)
	}
	if magic != magicText || consumed != 16 {
		return "", fmt.Errorf("ctfile: got %q: %w", magic, ErrBadMagic)
	}
	timestamp, _, err := readHeaderString(br)
	if err != nil {
		return "", fmt.Errorf("ctfile: timestamp: %w", err)
	}
	return timestamp, nil
}

func readSchema(br *bytes.Reader) ([]table.Column, error) {
	numCols, err := readUint32(br)
	if err != nil {
		return nil, fmt.Errorf("ctfile: column count: %w", err)
	}
	// Every column contributes at least a 4-byte empty-string length prefix
	// to the name area, so that bounds how large numCols could genuinely be.
	if err := guardCount(int64(br.Len()), uint64(numCols), 4, "column"); err != nil {
		return nil, err
	}

	names := make([]string, numCols)
	for i := range names {
		names[i], err = readBodyString(br)
		if err != nil {
			return nil, fmt.Errorf("ctfile: column %d name: %w", i, err)
		}
	}

	numTypes, err := readUint32(br)
	if err != nil {
		return nil, fmt.Errorf("ctfile: type count: %w", err)
	}
	if numTypes != numCols {
		return nil, fmt.Errorf("ctfile: type_count=%d, column_count=%d: %w", numTypes, numCols, ErrSchemaMismatch)
	}

	columns := make([]table.Column, numCols)
	for i := range columns {
		code, err := readUint32(br)
		if err != nil {
			return nil, fmt.Errorf("ctfile: column %d type: %w", i, err)
		}
		t := table.TypeCode(code)
		if !t.Valid() {
			return nil, fmt.Errorf("ctfile: column %d code %d: %w", i, code, ErrUnknownType)
		}
		columns[i] = table.Column{Name: names[i], Type: t}
	}
	return columns, nil
}

// maxZeroWidthRows bounds a declared row count for a zero-column schema,
// where every row costs zero bytes on the wire and guardCount's
// bytes-remaining check has nothing to check against.
const maxZeroWidthRows = 1 << 20

func readRows(br *bytes.Reader, columns []table.Column, numRows uint32) ([][]table.Cell, error) {
	minRow := minRowSize(columns)
	if minRow == 0 {
		if numRows > maxZeroWidthRows {
			return nil, fmt.Errorf("ctfile: row count %d exceeds %d for a zero-column schema: %w", numRows, maxZeroWidthRows, ErrDeclaredCount)
		}
	} else if err := guardCount(int64(br.Len()), uint64(numRows), minRow, "row"); err != nil {
		return nil, err
	}

	// Grown incrementally rather than pre-sized to numRows: guardCount
	// already bounds numRows against the input actually present, but
	// capping the initial capacity keeps a single bad length prefix from
	// forcing one giant allocation before the first byte of row data reads.
	capHint := int(numRows)
	if capHint > 4096 {
		capHint = 4096
	}
	rows := make([][]table.Cell, 0, capHint)
	for r := uint32(0); r < numRows; r++ {
		row := make([]table.Cell, len(columns))
		for c, col := range columns {
			cell, err := readCell(br, col.Type)
			if err != nil {
				return nil, fmt.Errorf("ctfile: row %d, column %d: %w", r, c, err)
			}
			row[c] = cell
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// minRowSize returns the smallest number of bytes one row could possibly
// occupy on the wire, used to sanity-check a declared row count against the
// bytes actually remaining in the input.
func minRowSize(columns []table.Column) int {
	total := 0
	for _, col := range columns {
		switch col.Type {
		case table.Byte, table.Bool:
			total++
		case table.Short, table.Word:
			total += 2
		case table.Int, table.Dword, table.DwordHex, table.Float:
			total += 4
		case table.Int64:
			total += 8
		case table.String:
			total += 4 // empty-string length prefix is the minimum
		}
	}
	return total
}

func readCell(br *bytes.Reader, t table.TypeCode) (table.Cell, error) {
	switch t {
	case table.Byte:
		v, err := readUint8(br)
		return table.NewUint(t, uint64(v)), err
	case table.Short:
		v, err := readInt16(br)
		return table.NewInt(t, int64(v)), err
	case table.Word:
		v, err := readUint16(br)
		return table.NewUint(t, uint64(v)), err
	case table.Int:
		v, err := readInt32(br)
		return table.NewInt(t, int64(v)), err
	case table.Dword, table.DwordHex:
		v, err := readUint32(br)
		return table.NewUint(t, uint64(v)), err
	case table.String:
		v, err := readBodyString(br)
		return table.NewString(v), err
	case table.Float:
		v, err := readFloat32(br)
		return table.NewFloat(v), err
	case table.Int64:
		v, err := readUint64(br)
		return table.NewUint(t, v), err
	case table.Bool:
		v, err := readUint8(br)
		return table.NewBool(v != 0), err
	default:
		return table.Cell{}, fmt.Errorf("ctfile: code %d: %w", t, ErrUnknownType)
	}
}

// Write emits t as a complete CT file to w. The write is buffered in memory
// so the row-region CRC can be computed over the exact bytes just written
// before the checksum footer is appended.
func Write(w io.Writer, t *table.Table) error {
	var buf bytes.Buffer

	if err := writeHeaderSection(&buf, t.Timestamp); err != nil {
		return err
	}
	if err := writeSchema(&buf, t.Columns); err != nil {
		return err
	}

	if err := writeUint32(&buf, uint32(len(t.Rows))); err != nil {
		return fmt.Errorf("ctfile: row count: %w", err)
	}
	rowStart := buf.Len()
	if err := writeRows(&buf, t.Columns, t.Rows); err != nil {
		return err
	}
	rowRegion := append([]byte(nil), buf.Bytes()[rowStart:]...)

	if err := writeUint16(&buf, checksum(rowRegion)); err != nil {
		return err
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("ctfile: flush output: %w", err)
	}
	return nil
}

func writeHeaderSection(buf *bytes.Buffer, timestamp string) error {
	magicN, err := writeHeaderString(buf, magicText)
	if err != nil {
		return fmt.Errorf("ctfile: write magic: %w", err)
	}
	if magicN != 16 {
		return fmt.Errorf("ctfile: magic literal %q encodes to %d bytes, not 16", magicText, magicN)
	}

	tsN, err := writeHeaderString(buf, timestamp)
	if err != nil {
		return fmt.Errorf("ctfile: write timestamp: %w", err)
	}

	written := magicN + tsN
	if written >= headerSize {
		return fmt.Errorf("ctfile: timestamp %q: %w", timestamp, ErrTimestampTooLong)
	}
	if _, err := buf.Write(make([]byte, headerSize-written)); err != nil {
		return fmt.Errorf("ctfile: write header padding: %w", err)
	}
	return nil
}

func writeSchema(buf *bytes.Buffer, columns []table.Column) error {
	if err := writeUint32(buf, uint32(len(columns))); err != nil {
		return fmt.Errorf("ctfile: column count: %w", err)
	}
	for i, col := range columns {
		if err := writeBodyString(buf, col.Name); err != nil {
			return fmt.Errorf("ctfile: column %d name: %w", i, err)
		}
	}
	if err := writeUint32(buf, uint32(len(columns))); err != nil {
		return fmt.Errorf("ctfile: type count: %w", err)
	}
	for i, col := range columns {
		if err := writeUint32(buf, uint32(col.Type)); err != nil {
			return fmt.Errorf("ctfile: column %d type: %w", i, err)
		}
	}
	return nil
}

func writeRows(buf *bytes.Buffer, columns []table.Column, rows [][]table.Cell) error {
	for r, row := range rows {
		for c, cell := range row {
			if err := writeCell(buf, columns[c].Type, cell); err != nil {
				return fmt.Errorf("ctfile: row %d, column %d: %w", r, c, err)
			}
		}
	}
	return nil
}

func writeCell(buf *bytes.Buffer, t table.TypeCode, cell table.Cell) error {
	if cell.Type != t {
		return fmt.Errorf("cell type %s does not match column type %s", cell.Type.Name(), t.Name())
	}
	if t != table.String {
		if err := table.CheckRange(cell); err != nil {
			return translateRangeErr(err)
		}
	}

	switch t {
	case table.Byte:
		return writeUint8(buf, uint8(cell.Uint))
	case table.Short:
		return writeInt16(buf, int16(cell.Int))
	case table.Word:
		return writeUint16(buf, uint16(cell.Uint))
	case table.Int:
		return writeInt32(buf, int32(cell.Int))
	case table.Dword, table.DwordHex:
		return writeUint32(buf, uint32(cell.Uint))
	case table.String:
		if err := table.CheckStringLength(table.CodeUnits(cell.Str)); err != nil {
			return fmt.Errorf("%w", ErrStringTooLong)
		}
		return writeBodyString(buf, cell.Str)
	case table.Float:
		return writeFloat32(buf, cell.Float)
	case table.Int64:
		return writeUint64(buf, cell.Uint)
	case table.Bool:
		if cell.Uint != 0 {
			return writeUint8(buf, 1)
		}
		return writeUint8(buf, 0)
	default:
		return fmt.Errorf("%w: code %d", ErrUnknownType, t)
	}
}

// translateRangeErr maps a table.ErrValueOutOfRange into this package's own
// sentinel so callers only need to know about ctfile's error taxonomy.
func translateRangeErr(err error) error {
	return fmt.Errorf("%s: %w", err.Error(), ErrValueOutOfRange)
}
