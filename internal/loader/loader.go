// Package loader loads source files, one at a time or as a concurrent batch.
package loader

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/psantos10/elixir/internal/codepath"
	"github.com/psantos10/elixir/internal/ctxlog"
)

// LoadFunc loads one source file. Implementations are free to do the real
// language-level work; the default reads the file to completion so missing
// or unreadable files surface here.
type LoadFunc func(ctx context.Context, path string) error

// Loader coordinates file loading against a shared code path.
type Loader struct {
	// Workers bounds the concurrency of batch loads. Zero means a single
	// worker.
	Workers int

	// CodePath is consulted by language-level load functions. Held here so
	// collaborators receive it at call time instead of reading globals.
	CodePath *codepath.Path

	// Load does the per-file work. Defaults to reading the file.
	Load LoadFunc
}

// Require loads a single file.
func (l *Loader) Require(ctx context.Context, path string) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Requiring file.", "path", path)
	return l.load(ctx, path)
}

// BatchRequire loads every path concurrently and blocks until the whole
// batch finished. The first failure cancels the remaining work and is
// returned; no partial results are surfaced mid-flight.
func (l *Loader) BatchRequire(ctx context.Context, paths []string) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Parallel require starting.", "files", len(paths))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workers := l.Workers
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan string)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for id := 0; id < workers; id++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for path := range jobs {
				if ctx.Err() != nil {
					continue
				}
				if err := l.load(ctx, path); err != nil {
					logger.Error("File load failed.", "workerID", workerID, "path", path, "error", err)
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					cancel()
				}
			}
		}(id)
	}

	for _, path := range paths {
		jobs <- path
	}
	close(jobs)
	wg.Wait()

	logger.Debug("Parallel require finished.", "files", len(paths))
	return firstErr
}

func (l *Loader) load(ctx context.Context, path string) error {
	if l.Load != nil {
		return l.Load(ctx, path)
	}
	if _, err := os.ReadFile(path); err != nil {
		return fmt.Errorf("could not load %s: %w", path, err)
	}
	return nil
}
