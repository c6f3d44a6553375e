package app

import (
	"context"
	"io"
	"os"

	"github.com/psantos10/elixir/internal/codepath"
	"github.com/psantos10/elixir/internal/compiler"
	"github.com/psantos10/elixir/internal/ctxlog"
	"github.com/psantos10/elixir/internal/dispatch"
	"github.com/psantos10/elixir/internal/exithooks"
	"github.com/psantos10/elixir/internal/loader"
)

// Options are the injection points for an App. Zero values select the
// production collaborators.
type Options struct {
	Stdout io.Writer
	Stderr io.Writer

	// Evaluator and Apps are the language-level collaborators. The defaults
	// only log, since the CLI core does not embed an interpreter.
	Evaluator dispatch.Evaluator
	Apps      dispatch.AppStarter

	// Workers bounds the parallel-require and compile pools.
	Workers int
}

// App owns the collaborators for one CLI invocation.
type App struct {
	stdout io.Writer
	stderr io.Writer

	loadPath *codepath.Path
	hooks    *exithooks.Registry

	evaluator dispatch.Evaluator
	apps      dispatch.AppStarter
	loader    *loader.Loader
	compiler  *compiler.Compiler

	// argv holds the trailing arguments for the user's program.
	argv []string
}

// New assembles an App from the given options.
func New(opts Options) *App {
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 4
	}

	loadPath := codepath.New(".")

	evaluator := opts.Evaluator
	if evaluator == nil {
		evaluator = logEvaluator{}
	}
	apps := opts.Apps
	if apps == nil {
		apps = logAppStarter{}
	}

	return &App{
		stdout:    stdout,
		stderr:    stderr,
		loadPath:  loadPath,
		hooks:     &exithooks.Registry{},
		evaluator: evaluator,
		apps:      apps,
		loader:    &loader.Loader{Workers: workers, CodePath: loadPath},
		compiler:  &compiler.Compiler{Workers: workers},
	}
}

// AtExit queues fn to run right before the process terminates.
func (a *App) AtExit(fn exithooks.Hook) {
	a.hooks.Register(fn)
}

// Argv returns the trailing arguments that belong to the user's program.
func (a *App) Argv() []string {
	return append([]string(nil), a.argv...)
}

// LoadPath returns the code path mutated by -pa/-pz.
func (a *App) LoadPath() *codepath.Path {
	return a.loadPath
}

// logEvaluator is the default evaluator: the embedding runtime provides the
// real one, so the core only records what it was asked to evaluate.
type logEvaluator struct{}

func (logEvaluator) Eval(ctx context.Context, expr string) {
	ctxlog.FromContext(ctx).Debug("Evaluating expression.", "expr", expr)
}

// logAppStarter is the default application starter.
type logAppStarter struct{}

func (logAppStarter) StartApp(ctx context.Context, name string) error {
	ctxlog.FromContext(ctx).Debug("Starting application.", "app", name)
	return nil
}
