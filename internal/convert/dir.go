package convert

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

type indexedPath struct {
	index int
	path  string
}

// ConvertDir converts every .ct/.xlsx file under dir, walking immediate
// entries only unless opts.Recurse is set. Files run concurrently up to
// opts.Workers; a single file's failure never aborts the batch, and its
// error is carried in that file's Result instead.
func ConvertDir(ctx context.Context, dir string, opts Options) []Result {
	paths, err := collectPaths(dir, opts.Recurse)
	if err != nil {
		return []Result{{InputPath: dir, Err: err}}
	}
	if len(paths) == 0 {
		return nil
	}

	workers := opts.workers()
	if workers > len(paths) {
		workers = len(paths)
	}

	jobs := make(chan indexedPath)
	results := make([]Result, len(paths))

	go func() {
		defer close(jobs)
		for i, p := range paths {
			select {
			case jobs <- indexedPath{i, p}:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for job := range jobs {
				res, err := ConvertFile(ctx, job.path, opts)
				if err != nil && res.Err == nil {
					res.Err = err
				}
				results[job.index] = res
			}
		}()
	}
	wg.Wait()

	return results
}

// collectPaths lists convertible files under dir. With recurse=false only
// dir's immediate entries are considered.
func collectPaths(dir string, recurse bool) ([]string, error) {
	var paths []string
	if recurse {
		err := filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if isConvertible(p) {
				paths = append(paths, p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return paths, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		p := filepath.Join(dir, e.Name())
		if isConvertible(p) {
			paths = append(paths, p)
		}
	}
	return paths, nil
}

func isConvertible(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == extCT || ext == extXLSX
}
