// Package dispatch executes the commands accumulated during argument
// parsing against the evaluator, loader, application and compiler
// collaborators, collecting recoverable errors along the way.
package dispatch

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/psantos10/elixir/internal/cli"
	"github.com/psantos10/elixir/internal/compiler"
	"github.com/psantos10/elixir/internal/ctxlog"
	"github.com/psantos10/elixir/internal/enum"
	"github.com/psantos10/elixir/internal/fsutil"
)

// Evaluator evaluates code snippets. Failures inside the evaluated code are
// process-level faults, not dispatcher errors, so Eval reports nothing back.
type Evaluator interface {
	Eval(ctx context.Context, expr string)
}

// Loader loads source files one at a time or as a concurrent batch.
// BatchRequire blocks until the whole batch completed.
type Loader interface {
	Require(ctx context.Context, path string) error
	BatchRequire(ctx context.Context, paths []string) error
}

// AppStarter starts a named application.
type AppStarter interface {
	StartApp(ctx context.Context, name string) error
}

// Compiler compiles a batch of files into outDir, reporting each success
// through onCompiled, and blocks until done.
type Compiler interface {
	Compile(ctx context.Context, files []string, outDir string, opts compiler.Options, onCompiled func(path string)) error
}

// Dispatcher runs queued commands in encounter order. Recoverable failures
// never stop the remaining commands.
type Dispatcher struct {
	// A nil collaborator turns the matching commands into no-ops; the
	// file-existence checks still run.
	Evaluator Evaluator
	Loader    Loader
	Apps      AppStarter
	Compiler  Compiler

	// Wildcard, IsRegular and MkdirAll default to the fsutil/os
	// implementations; tests swap them out.
	Wildcard  func(pattern string) []string
	IsRegular func(path string) bool
	MkdirAll  func(dir string) error

	// Stdout receives the per-file compilation confirmations. Defaults to
	// os.Stdout.
	Stdout io.Writer
}

// Run executes every command in cfg and returns the full error list: the
// parse errors already recorded, followed by the dispatch errors in command
// order.
func (d *Dispatcher) Run(ctx context.Context, cfg *cli.Config) []string {
	logger := ctxlog.FromContext(ctx)
	errs := append([]string(nil), cfg.Errors...)

	for _, command := range cfg.Commands {
		logger.Debug("Dispatching command.", "command", fmt.Sprintf("%T", command))
		if msg := d.run(ctx, command, cfg); msg != "" {
			errs = append(errs, msg)
		}
	}
	return errs
}

// run executes one command and returns its error message, if any.
func (d *Dispatcher) run(ctx context.Context, command cli.Command, cfg *cli.Config) string {
	switch cmd := command.(type) {
	case cli.Eval:
		if d.Evaluator != nil {
			d.Evaluator.Eval(ctx, cmd.Expr)
		}
		return ""

	case cli.App:
		if d.Apps == nil {
			return ""
		}
		if err := d.Apps.StartApp(ctx, cmd.Name); err != nil {
			return fmt.Sprintf("Could not start application %s: %v", cmd.Name, err)
		}
		return ""

	case cli.Require:
		if !d.isRegular(cmd.Path) {
			return "No file named " + cmd.Path
		}
		if d.Loader == nil {
			return ""
		}
		if err := d.Loader.Require(ctx, cmd.Path); err != nil {
			return err.Error()
		}
		return ""

	case cli.ParallelRequire:
		files := d.existingFiles(d.wildcard(cmd.Pattern))
		if len(files) == 0 {
			return "No files matched pattern " + cmd.Pattern
		}
		if d.Loader == nil {
			return ""
		}
		if err := d.Loader.BatchRequire(ctx, files); err != nil {
			return err.Error()
		}
		return ""

	case cli.Compile:
		return d.runCompile(ctx, cmd, cfg)

	default:
		return fmt.Sprintf("Unknown command %T", command)
	}
}

func (d *Dispatcher) runCompile(ctx context.Context, cmd cli.Compile, cfg *cli.Config) string {
	if err := d.mkdirAll(cfg.Output); err != nil {
		return fmt.Sprintf("Could not create output directory %s: %v", cfg.Output, err)
	}

	// Expand every pattern, then drop duplicates and non-files.
	expanded := enum.Foldl(enum.Strings(cmd.Patterns), []string(nil), func(e, acc any) any {
		return append(acc.([]string), d.wildcard(e.(string))...)
	})
	files := d.existingFiles(expanded.([]string))
	if len(files) == 0 {
		return "No files matched patterns " + enum.Join(enum.Strings(cmd.Patterns), ", ")
	}

	if d.Compiler == nil {
		return ""
	}
	opts := compiler.Options{
		Docs:                 cfg.CompilerOptions.Docs,
		DebugInfo:            cfg.CompilerOptions.DebugInfo,
		IgnoreModuleConflict: cfg.CompilerOptions.IgnoreModuleConflict,
	}
	out := d.stdout()
	err := d.Compiler.Compile(ctx, files, cfg.Output, opts, func(path string) {
		fmt.Fprintf(out, "Compiled %s\n", path)
	})
	if err != nil {
		return err.Error()
	}
	return ""
}

// existingFiles keeps the regular files, dropping duplicates while
// preserving first-occurrence order.
func (d *Dispatcher) existingFiles(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	kept := enum.Foldl(enum.Strings(paths), []string(nil), func(e, acc any) any {
		path := e.(string)
		if seen[path] || !d.isRegular(path) {
			return acc
		}
		seen[path] = true
		return append(acc.([]string), path)
	})
	return kept.([]string)
}

func (d *Dispatcher) wildcard(pattern string) []string {
	if d.Wildcard != nil {
		return d.Wildcard(pattern)
	}
	return fsutil.Wildcard(pattern)
}

func (d *Dispatcher) isRegular(path string) bool {
	if d.IsRegular != nil {
		return d.IsRegular(path)
	}
	return fsutil.IsRegular(path)
}

func (d *Dispatcher) mkdirAll(dir string) error {
	if d.MkdirAll != nil {
		return d.MkdirAll(dir)
	}
	return os.MkdirAll(dir, 0o755)
}

func (d *Dispatcher) stdout() io.Writer {
	if d.Stdout != nil {
		return d.Stdout
	}
	return os.Stdout
}
