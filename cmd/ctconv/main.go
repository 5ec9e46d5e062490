// Command ctconv converts between the CT binary table format and XLSX
// spreadsheets, dispatching by file extension.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"ro2ct/internal/convert"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("ctconv", flag.ContinueOnError)
	workers := fs.Int("workers", 1, "number of files to convert concurrently when path is a directory")
	recurse := fs.Bool("recurse", false, "recurse into subdirectories when path is a directory")
	overwrite := fs.Bool("overwrite", false, "overwrite an existing output file")
	verbose := fs.Bool("v", false, "print a line per converted file")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: ctconv [-workers N] [-recurse] [-overwrite] [-v] <path>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	path := fs.Arg(0)

	var logger *log.Logger
	if *verbose {
		logger = log.New(os.Stderr, "ctconv: ", 0)
	}
	opts := convert.Options{Workers: *workers, Recurse: *recurse, Overwrite: *overwrite, Logger: logger}

	fi, err := os.Stat(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ctconv:", err)
		return 2
	}

	ctx := context.Background()

	if fi.IsDir() {
		results := convert.ConvertDir(ctx, path, opts)
		return reportResults(results)
	}

	res, err := convert.ConvertFile(ctx, path, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ctconv:", err)
		return 1
	}
	fmt.Printf("%s -> %s (%d columns, %d rows)\n", res.InputPath, res.OutputPath, res.Info.NumColumns, res.Info.NumRows)
	return 0
}

func reportResults(results []convert.Result) int {
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "ctconv: %s: %v\n", r.InputPath, r.Err)
			continue
		}
		fmt.Printf("%s -> %s (%d columns, %d rows)\n", r.InputPath, r.OutputPath, r.Info.NumColumns, r.Info.NumRows)
	}
	if failed > 0 {
		return 1
	}
	return 0
}
