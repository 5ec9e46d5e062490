package convert

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"ro2ct/internal/ctfile"
	"ro2ct/internal/table"
)

func writeSampleCT(t *testing.T, path string) *table.Table {
	t.Helper()
	tb, err := table.New("2024-01-01 00:00:00",
		[]table.Column{{Name: "Id", Type: table.Dword}, {Name: "Name", Type: table.String}},
		[][]table.Cell{
			{table.NewUint(table.Dword, 1), table.NewString("Sword")},
			{table.NewUint(table.Dword, 2), table.NewString("Shield")},
		},
	)
	if err != nil {
		t.Fatalf("table.New failed: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	defer f.Close()
	if err := ctfile.Write(f, tb); err != nil {
		t.Fatalf("ctfile.Write failed: %v", err)
	}
	return tb
}

func TestConvertFile_CTToXLSX(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "Items.ct")
	writeSampleCT(t, src)

	res, err := ConvertFile(context.Background(), src, Options{})
	if err != nil {
		t.Fatalf("ConvertFile failed: %v", err)
	}
	if res.OutputPath != filepath.Join(dir, "Items.xlsx") {
		t.Fatalf("unexpected output path: %s", res.OutputPath)
	}
	if _, err := os.Stat(res.OutputPath); err != nil {
		t.Fatalf("expected output file to exist: %v", err)
	}
	if res.Info.NumRows != 2 || res.Info.NumColumns != 2 {
		t.Fatalf("unexpected info: %+v", res.Info)
	}
}

func TestConvertFile_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "Items.ct")
	writeSampleCT(t, src)

	res1, err := ConvertFile(context.Background(), src, Options{})
	if err != nil {
		t.Fatalf("ct->xlsx failed: %v", err)
	}

	res2, err := ConvertFile(context.Background(), res1.OutputPath, Options{})
	if err != nil {
		t.Fatalf("xlsx->ct failed: %v", err)
	}
	if res2.OutputPath != src {
		t.Fatalf("expected smart naming to produce %s, got %s", src, res2.OutputPath)
	}
}

func TestConvertFile_RefusesOverwriteByDefault(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "Items.ct")
	writeSampleCT(t, src)

	if _, err := ConvertFile(context.Background(), src, Options{}); err != nil {
		t.Fatalf("first conversion failed: %v", err)
	}
	if _, err := ConvertFile(context.Background(), src, Options{}); err == nil {
		t.Fatalf("expected second conversion to fail without Overwrite")
	}
	if _, err := ConvertFile(context.Background(), src, Options{Overwrite: true}); err != nil {
		t.Fatalf("expected Overwrite conversion to succeed, got %v", err)
	}
}

func TestConvertFile_UnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(src, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	_, err := ConvertFile(context.Background(), src, Options{})
	if !errors.Is(err, ErrUnsupportedExtension) {
		t.Fatalf("expected ErrUnsupportedExtension, got %v", err)
	}
}

func TestConvertDir_BatchNeverAbortsOnOneFailure(t *testing.T) {
	dir := t.TempDir()
	writeSampleCT(t, filepath.Join(dir, "A.ct"))
	writeSampleCT(t, filepath.Join(dir, "B.ct"))
	if err := os.WriteFile(filepath.Join(dir, "C.ct"), []byte("not a real ct file"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	results := ConvertDir(context.Background(), dir, Options{Workers: 2})
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	var failed, ok int
	for _, r := range results {
		if r.Err != nil {
			failed++
		} else {
			ok++
		}
	}
	if failed != 1 || ok != 2 {
		t.Fatalf("expected 1 failure and 2 successes, got failed=%d ok=%d", failed, ok)
	}
}

func TestConvertDir_NonRecursiveIgnoresSubdirs(t *testing.T) {
	dir := t.TempDir()
	writeSampleCT(t, filepath.Join(dir, "Top.ct"))

	sub := filepath.Join(dir, "nested")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	writeSampleCT(t, filepath.Join(sub, "Nested.ct"))

	results := ConvertDir(context.Background(), dir, Options{})
	if len(results) != 1 {
		t.Fatalf("expected 1 result without Recurse, got %d", len(results))
	}
	// The non-recursive pass already produced Top.xlsx beside Top.ct, so a
	// recursive pass over the same tree now has 3 convertible files.
	resultsRecursive := ConvertDir(context.Background(), dir, Options{Recurse: true, Overwrite: true})
	if len(resultsRecursive) != 3 {
		t.Fatalf("expected 3 results with Recurse, got %d", len(resultsRecursive))
	}
}

func TestConvertFile_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "Items.ct")
	writeSampleCT(t, src)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ConvertFile(ctx, src, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
