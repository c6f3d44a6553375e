// Package compiler compiles batches of source files into an output
// directory with a bounded worker pool.
package compiler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/psantos10/elixir/internal/ctxlog"
)

// Options are the per-run compiler toggles.
type Options struct {
	Docs                 bool
	DebugInfo            bool
	IgnoreModuleConflict bool
}

// CompileFunc compiles one file into outDir.
type CompileFunc func(ctx context.Context, path, outDir string, opts Options) error

// Compiler compiles many files concurrently and reports each success
// through a caller-provided callback.
type Compiler struct {
	// Workers bounds the concurrency. Zero means a single worker.
	Workers int

	// CompileFile does the per-file work. The default placement writes the
	// artifact for path as <outDir>/<basename>.beam.
	CompileFile CompileFunc
}

// Compile compiles every file into outDir, invoking onCompiled for each file
// that succeeded. It blocks until the whole batch finished and returns the
// first failure, cancelling the remaining work.
func (c *Compiler) Compile(ctx context.Context, files []string, outDir string, opts Options, onCompiled func(path string)) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Compilation starting.", "files", len(files), "output", outDir)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workers := c.Workers
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
				if err := c.compile(ctx, path, outDir, opts); err != nil {
					logger.Error("Compilation failed.", "workerID", workerID, "path", path, "error", err)
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					cancel()
					continue
				}
				if onCompiled != nil {
					mu.Lock()
					onCompiled(path)
					mu.Unlock()
				}
			}
		}(id)
	}

	for _, path := range files {
		jobs <- path
	}
	close(jobs)
	wg.Wait()

	logger.Debug("Compilation finished.", "files", len(files))
	return firstErr
}

func (c *Compiler) compile(ctx context.Context, path, outDir string, opts Options) error {
	if c.CompileFile != nil {
		return c.CompileFile(ctx, path, outDir, opts)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not compile %s: %w", path, err)
	}
	artifact := filepath.Join(outDir, artifactName(path))
	return os.WriteFile(artifact, src, 0o644)
}

// artifactName maps lib/foo.ex to foo.beam.
func artifactName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".beam"
}
