// Package fileproc provides concurrent file processing utilities.
package fileproc

import (
	"context"
	"runtime"

	"github.com/sourcegraph/conc/pool"

	"github.com/panbanda/docaudit/pkg/extract"
	"github.com/panbanda/docaudit/pkg/models"
)

// DefaultWorkerMultiplier is the multiplier applied to NumCPU for worker count.
const DefaultWorkerMultiplier = 2

// Result is the outcome of processing one file.
type Result[T any] struct {
	Path  string
	Value T
	Err   error
}

// MapFiles runs fn for every file on a bounded worker pool. Each call gets a
// dedicated extractor since tree-sitter parsers are not safe for concurrent
// use. Results are returned in the order of files. Files not started before
// ctx is canceled carry ctx.Err(). If maxWorkers is <= 0, defaults to 2x NumCPU.
func MapFiles[T any](ctx context.Context, files []string, maxWorkers int, fn func(*extract.Extractor, string) (T, error)) []Result[T] {
	if len(files) == 0 {
		return nil
	}
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU() * DefaultWorkerMultiplier
	}

	results := make([]Result[T], len(files))
	p := pool.New().WithMaxGoroutines(maxWorkers)
	for i, path := range files {
		p.Go(func() {
			results[i].Path = path
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return
			}

			e := extract.New()
			defer e.Close()
			results[i].Value, results[i].Err = fn(e, path)
		})
	}
	p.Wait()

	return results
}

// ExtractFiles extracts the blocks of every file, filtered by nameFilter.
func ExtractFiles(ctx context.Context, files []string, nameFilter string) []Result[[]models.CodeBlock] {
	return MapFiles(ctx, files, 0, func(e *extract.Extractor, path string) ([]models.CodeBlock, error) {
		return e.ExtractFile(path, nameFilter)
	})
}
