package dispatch

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/psantos10/elixir/internal/cli"
	"github.com/psantos10/elixir/internal/compiler"
)

type fakeRuntime struct {
	evaled   []string
	required []string
	batches  [][]string
	apps     []string
	compiled [][]string
	outDirs  []string
	opts     []compiler.Options

	requireErr error
	batchErr   error
	appErr     error
	compileErr error
}

func (f *fakeRuntime) Eval(ctx context.Context, expr string) {
	f.evaled = append(f.evaled, expr)
}

func (f *fakeRuntime) Require(ctx context.Context, path string) error {
	f.required = append(f.required, path)
	return f.requireErr
}

func (f *fakeRuntime) BatchRequire(ctx context.Context, paths []string) error {
	f.batches = append(f.batches, paths)
	return f.batchErr
}

func (f *fakeRuntime) StartApp(ctx context.Context, name string) error {
	f.apps = append(f.apps, name)
	return f.appErr
}

func (f *fakeRuntime) Compile(ctx context.Context, files []string, outDir string, opts compiler.Options, onCompiled func(string)) error {
	f.compiled = append(f.compiled, files)
	f.outDirs = append(f.outDirs, outDir)
	f.opts = append(f.opts, opts)
	if f.compileErr != nil {
		return f.compileErr
	}
	for _, file := range files {
		onCompiled(file)
	}
	return nil
}

// newDispatcher wires a dispatcher around the fake runtime with a canned
// file system: globs resolves patterns and regular lists the paths that
// count as files.
func newDispatcher(f *fakeRuntime, globs map[string][]string, regular ...string) *Dispatcher {
	regSet := map[string]bool{}
	for _, r := range regular {
		regSet[r] = true
	}
	return &Dispatcher{
		Evaluator: f,
		Loader:    f,
		Apps:      f,
		Compiler:  f,
		Wildcard:  func(pattern string) []string { return globs[pattern] },
		IsRegular: func(path string) bool { return regSet[path] },
		MkdirAll:  func(dir string) error { return nil },
		Stdout:    &bytes.Buffer{},
	}
}

func config(commands ...cli.Command) *cli.Config {
	cfg := cli.NewConfig()
	cfg.Commands = commands
	return cfg
}

func TestRun_ExecutesCommandsInOrder(t *testing.T) {
	t.Parallel()

	f := &fakeRuntime{}
	d := newDispatcher(f, nil, "a.ex")

	errs := d.Run(context.Background(), config(
		cli.Eval{Expr: "1"},
		cli.Require{Path: "a.ex"},
		cli.App{Name: "mine"},
		cli.Eval{Expr: "2"},
	))

	require.Empty(t, errs)
	require.Equal(t, []string{"1", "2"}, f.evaled)
	require.Equal(t, []string{"a.ex"}, f.required)
	require.Equal(t, []string{"mine"}, f.apps)
}

func TestRun_MissingFile(t *testing.T) {
	t.Parallel()

	f := &fakeRuntime{}
	d := newDispatcher(f, nil)

	errs := d.Run(context.Background(), config(cli.Require{Path: "ghost.ex"}))

	require.Equal(t, []string{"No file named ghost.ex"}, errs)
	require.Empty(t, f.required, "the loader must not see a missing file")
}

func TestRun_AppStartFailure(t *testing.T) {
	t.Parallel()

	f := &fakeRuntime{appErr: errors.New("already started")}
	d := newDispatcher(f, nil)

	errs := d.Run(context.Background(), config(cli.App{Name: "mine"}))

	require.Equal(t, []string{"Could not start application mine: already started"}, errs)
}

func TestRun_ParallelRequireExpandsDedupsAndFilters(t *testing.T) {
	t.Parallel()

	f := &fakeRuntime{}
	globs := map[string][]string{
		"lib/**/*.ex": {"lib/a.ex", "lib/b.ex", "lib/a.ex", "lib/dir"},
	}
	d := newDispatcher(f, globs, "lib/a.ex", "lib/b.ex")

	errs := d.Run(context.Background(), config(cli.ParallelRequire{Pattern: "lib/**/*.ex"}))

	require.Empty(t, errs)
	require.Equal(t, [][]string{{"lib/a.ex", "lib/b.ex"}}, f.batches)
}

func TestRun_ParallelRequireNoMatches(t *testing.T) {
	t.Parallel()

	f := &fakeRuntime{}
	d := newDispatcher(f, nil)

	errs := d.Run(context.Background(), config(cli.ParallelRequire{Pattern: "none_*.ex"}))

	require.Equal(t, []string{"No files matched pattern none_*.ex"}, errs)
	require.Empty(t, f.batches)
}

func TestRun_CompilePrintsConfirmations(t *testing.T) {
	t.Parallel()

	f := &fakeRuntime{}
	globs := map[string][]string{"lib/*.ex": {"lib/a.ex", "lib/b.ex"}}
	d := newDispatcher(f, globs, "lib/a.ex", "lib/b.ex")
	out := &bytes.Buffer{}
	d.Stdout = out

	cfg := config(cli.Compile{Patterns: []string{"lib/*.ex"}})
	cfg.Output = "ebin"
	cfg.CompilerOptions.Docs = false

	errs := d.Run(context.Background(), cfg)

	require.Empty(t, errs)
	require.Equal(t, [][]string{{"lib/a.ex", "lib/b.ex"}}, f.compiled)
	require.Equal(t, []string{"ebin"}, f.outDirs)
	require.Equal(t, []compiler.Options{{Docs: false, DebugInfo: true}}, f.opts)
	require.Equal(t, "Compiled lib/a.ex\nCompiled lib/b.ex\n", out.String())
}

func TestRun_CompileNoMatches(t *testing.T) {
	t.Parallel()

	f := &fakeRuntime{}
	d := newDispatcher(f, nil)

	errs := d.Run(context.Background(), config(cli.Compile{Patterns: []string{"x/*.ex", "y/*.ex"}}))

	require.Equal(t, []string{"No files matched patterns x/*.ex, y/*.ex"}, errs)
	require.Empty(t, f.compiled)
}

func TestRun_CompileCreatesOutputDirectory(t *testing.T) {
	t.Parallel()

	f := &fakeRuntime{}
	globs := map[string][]string{"*.ex": {"a.ex"}}
	d := newDispatcher(f, globs, "a.ex")
	var made []string
	d.MkdirAll = func(dir string) error {
		made = append(made, dir)
		return nil
	}

	cfg := config(cli.Compile{Patterns: []string{"*.ex"}})
	cfg.Output = "ebin/deep"

	require.Empty(t, d.Run(context.Background(), cfg))
	require.Equal(t, []string{"ebin/deep"}, made)
}

func TestRun_ErrorsDoNotStopSiblingCommands(t *testing.T) {
	t.Parallel()

	f := &fakeRuntime{}
	d := newDispatcher(f, nil, "real.ex")

	errs := d.Run(context.Background(), config(
		cli.Require{Path: "ghost.ex"},
		cli.Require{Path: "real.ex"},
	))

	require.Equal(t, []string{"No file named ghost.ex"}, errs)
	require.Equal(t, []string{"real.ex"}, f.required)
}

func TestRun_NilCollaboratorsAreNoOps(t *testing.T) {
	t.Parallel()

	d := &Dispatcher{
		Wildcard:  func(pattern string) []string { return []string{"lib/a.ex"} },
		IsRegular: func(path string) bool { return path == "lib/a.ex" },
		MkdirAll:  func(dir string) error { return nil },
		Stdout:    &bytes.Buffer{},
	}

	// File-existence checks still apply, but no collaborator is called.
	errs := d.Run(context.Background(), config(
		cli.Eval{Expr: "1"},
		cli.Require{Path: "lib/a.ex"},
		cli.Require{Path: "ghost.ex"},
		cli.ParallelRequire{Pattern: "lib/**/*.ex"},
		cli.App{Name: "mine"},
		cli.Compile{Patterns: []string{"lib/*.ex"}},
	))

	require.Equal(t, []string{"No file named ghost.ex"}, errs)
}

func TestRun_ParseErrorsComeFirst(t *testing.T) {
	t.Parallel()

	f := &fakeRuntime{}
	d := newDispatcher(f, nil)

	cfg := config(cli.Require{Path: "ghost.ex"})
	cfg.Errors = []string{"Unknown option --nope"}

	errs := d.Run(context.Background(), cfg)

	require.Equal(t, []string{"Unknown option --nope", "No file named ghost.ex"}, errs)
}
