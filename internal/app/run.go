package app

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/psantos10/elixir/internal/cli"
	"github.com/psantos10/elixir/internal/ctxlog"
	"github.com/psantos10/elixir/internal/dispatch"
	"github.com/psantos10/elixir/internal/project"
)

// Run parses args, executes the queued commands and returns the exit status
// together with whether the process should actually terminate (halt is false
// when --no-halt was given).
//
// Faults raised by collaborators are recovered here: exit hooks still run
// with a failure status, the fault and its stack are printed, and the status
// becomes 1.
func (a *App) Run(ctx context.Context, args []string) (status int, halt bool) {
	parser := &cli.Parser{LoadPath: a.loadPath, Stdout: a.stdout}
	cfg, trailing := parser.Parse(args)
	a.argv = trailing

	if cfg.Help {
		cli.Usage(a.stdout)
		return 0, true
	}
	if cfg.PrintedVersion && len(cfg.Commands) == 0 && len(cfg.Errors) == 0 {
		return 0, true
	}

	logger := newLogger(cfg.LogLevel, cfg.LogFormat, a.stderr)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Arguments parsed.", "commands", len(cfg.Commands), "errors", len(cfg.Errors))

	if cfg.Project != "" {
		if manifest, err := project.Load(cfg.Project); err != nil {
			cfg.Errors = append(cfg.Errors, err.Error())
		} else {
			manifest.Apply(cfg, a.loadPath)
			logger.Debug("Project manifest applied.", "path", cfg.Project)
		}
	}

	defer func() {
		if rec := recover(); rec != nil {
			a.hooks.Flush(ctx, 1)
			fmt.Fprintf(a.stderr, "** (fault) %v\n%s", rec, debug.Stack())
			status = 1
			halt = true
		}
	}()

	dispatcher := &dispatch.Dispatcher{
		Evaluator: a.evaluator,
		Loader:    a.loader,
		Apps:      a.apps,
		Compiler:  a.compiler,
		Stdout:    a.stdout,
	}
	errs := dispatcher.Run(ctx, cfg)

	if len(errs) > 0 {
		for _, msg := range errs {
			fmt.Fprintln(a.stderr, msg)
		}
		a.hooks.Flush(ctx, 1)
		return 1, true
	}

	if !cfg.Halt {
		logger.Debug("Halt disabled, leaving the VM running.")
		return 0, false
	}

	a.hooks.Flush(ctx, 0)
	return 0, true
}
