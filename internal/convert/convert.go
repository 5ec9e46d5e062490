// Package convert drives CT<->XLSX conversions: extension-based dispatch,
// atomic output writes, and concurrent batch processing over a directory.
package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ro2ct/internal/ctfile"
	"ro2ct/internal/table"
	"ro2ct/internal/xlsxfile"
)

const (
	extCT   = ".ct"
	extXLSX = ".xlsx"
)

// Result reports the outcome of converting a single file.
type Result struct {
	InputPath  string
	OutputPath string
	Info       ctfile.Info
	Err        error
}

// ConvertFile converts the file at path to the other format (.ct -> .xlsx,
// .xlsx -> .ct), writing the result as a temporary sibling file that is
// renamed into place only once the write has fully succeeded.
func ConvertFile(ctx context.Context, path string, opts Options) (Result, error) {
	res := Result{InputPath: path}

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res, err
	}

	fi, err := os.Stat(path)
	if err != nil {
		err = fmt.Errorf("convert: stat %s: %w", path, err)
		res.Err = err
		return res, err
	}
	if !fi.Mode().IsRegular() {
		err = fmt.Errorf("convert: %s: %w", path, ErrNotRegularFile)
		res.Err = err
		return res, err
	}

	ext := strings.ToLower(filepath.Ext(path))
	var tb *table.Table
	var targetExt string

	switch ext {
	case extCT:
		tb, err = readCT(path)
		targetExt = extXLSX
	case extXLSX:
		tb, err = xlsxfile.Read(path)
		targetExt = extCT
	default:
		err = fmt.Errorf("convert: %s: %w", path, ErrUnsupportedExtension)
	}
	if err != nil {
		res.Err = err
		return res, err
	}

	out := outputPath(path, targetExt)
	if !opts.Overwrite {
		if _, statErr := os.Stat(out); statErr == nil {
			err = fmt.Errorf("convert: output %s already exists", out)
			res.Err = err
			return res, err
		}
	}

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res, err
	}

	switch targetExt {
	case extXLSX:
		err = writeAtomic(out, func(tmp string) error { return xlsxfile.Write(tmp, tb) })
	case extCT:
		err = writeAtomic(out, func(tmp string) error { return writeCTFile(tmp, tb) })
		if err == nil {
			propagateTimestamp(opts.logger(), out, tb.Timestamp)
		}
	}
	if err != nil {
		res.Err = err
		return res, err
	}

	res.OutputPath = out
	res.Info = ctfile.Describe(tb)
	opts.logger().Printf("%s -> %s (%d columns, %d rows)", path, out, res.Info.NumColumns, res.Info.NumRows)
	return res, nil
}

func readCT(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("convert: open %s: %w", path, err)
	}
	defer f.Close()
	return ctfile.Read(f)
}

func writeCTFile(path string, tb *table.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("convert: create %s: %w", path, err)
	}
	defer f.Close()
	if err := ctfile.Write(f, tb); err != nil {
		return err
	}
	return f.Close()
}

// writeAtomic writes to a temp file beside dest and renames it into place,
// so a crash or cancellation mid-write never leaves a half-written output
// at the final path.
func writeAtomic(dest string, write func(tmp string) error) error {
	tmp := dest + ".tmp-" + filepath.Base(dest)
	if err := write(tmp); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("convert: rename into place: %w", err)
	}
	return nil
}

// propagateTimestamp sets the output file's mtime/atime to the table's
// parsed header timestamp, matching ct_processor.py's read() behavior of
// stamping the OS file time from the CT header. A parse failure here is
// logged, not fatal: the converted file is still valid.
func propagateTimestamp(logger interface{ Printf(string, ...any) }, path, timestamp string) {
	const layout = "2006-01-02 15:04:05"
	t, err := time.Parse(layout, timestamp)
	if err != nil {
		logger.Printf("convert: %s: could not parse timestamp %q, leaving file time as-is", path, timestamp)
		return
	}
	if err := os.Chtimes(path, t, t); err != nil {
		logger.Printf("convert: %s: chtimes failed: %v", path, err)
	}
}
