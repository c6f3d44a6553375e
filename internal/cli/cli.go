package cli

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/psantos10/elixir/internal/codepath"
	"github.com/psantos10/elixir/internal/enum"
	"github.com/psantos10/elixir/internal/fsutil"
)

// Parser walks the raw argument list and produces a Config plus the trailing
// arguments that belong to the user's program. All collaborator touchpoints
// are injectable so parsing tests need no real file system or PATH.
type Parser struct {
	// LoadPath receives -pa/-pz mutations. May be nil.
	LoadPath *codepath.Path

	// Wildcard expands a glob pattern to matching paths. Defaults to
	// fsutil.Wildcard.
	Wildcard func(pattern string) []string

	// LookPath resolves an executable name on the search path. Defaults to
	// exec.LookPath.
	LookPath func(name string) (string, error)

	// IsDir reports whether a compile argument names a directory. Defaults
	// to fsutil.IsDir.
	IsDir func(path string) bool

	// Stdout receives the --version banner. Defaults to os.Stdout.
	Stdout io.Writer
}

// Parse processes args and returns the resulting configuration together with
// the trailing arguments left for the program itself. Parse never fails:
// unrecognized input is recorded in Config.Errors and parsing continues.
func (p *Parser) Parse(args []string) (*Config, []string) {
	cfg := NewConfig()
	trailing := p.parseTop(args, cfg)
	return cfg, trailing
}

// parseTop is the top-level phase. It consumes arguments until the list is
// exhausted, a terminator is hit, or a script file takes over.
func (p *Parser) parseTop(args []string, cfg *Config) []string {
	for len(args) > 0 {
		head := args[0]
		switch {
		case head == "--":
			return args[1:]
		case head == "-h" || head == "--help":
			cfg.Help = true
			return args[1:]
		case head == "--compile":
			return p.parseCompiler(args[1:], cfg)
		case head == "-S":
			name, rest, ok := optionValue(args, cfg)
			if !ok {
				return rest
			}
			if found, err := p.lookPath(name); err == nil {
				cfg.appendCommand(Require{Path: found})
			} else {
				cfg.appendError("Could not find executable " + name)
			}
			// Arguments after the script belong to the script.
			return rest
		case strings.HasPrefix(head, "-"):
			rest, matched := p.shared(args, cfg)
			if !matched {
				cfg.appendError("Unknown option " + head)
				args = args[1:]
				continue
			}
			args = rest
		default:
			cfg.appendCommand(Require{Path: head})
			// The rest of the line is the script's own argv.
			return args[1:]
		}
	}
	return nil
}

// parseCompiler is the compiler-option phase, entered via --compile. On
// exit it synthesizes the single compile command from the accumulated
// patterns, even when none were given.
func (p *Parser) parseCompiler(args []string, cfg *Config) []string {
	for len(args) > 0 {
		head := args[0]
		switch {
		case head == "--":
			cfg.appendCommand(Compile{Patterns: cfg.Compile})
			return args[1:]
		case head == "-o":
			val, rest, ok := optionValue(args, cfg)
			if ok {
				cfg.Output = val
				cfg.OutputSet = true
			}
			args = rest
		case head == "--no-docs":
			cfg.CompilerOptions.Docs = false
			args = args[1:]
		case head == "--no-debug-info":
			cfg.CompilerOptions.DebugInfo = false
			args = args[1:]
		case head == "--ignore-module-conflict":
			cfg.CompilerOptions.IgnoreModuleConflict = true
			args = args[1:]
		case strings.HasPrefix(head, "-"):
			rest, matched := p.shared(args, cfg)
			if !matched {
				cfg.appendError("Unknown option " + head)
				args = args[1:]
				continue
			}
			args = rest
		default:
			pattern := head
			if p.isDir(head) {
				pattern = head + "/**/*.ex"
			}
			cfg.Compile = append(cfg.Compile, pattern)
			args = args[1:]
		}
	}
	cfg.appendCommand(Compile{Patterns: cfg.Compile})
	return nil
}

// shared recognizes the options valid in every phase. It returns the
// remaining arguments and whether the head was recognized; the caller treats
// an unrecognized head as an unknown option.
func (p *Parser) shared(args []string, cfg *Config) ([]string, bool) {
	switch args[0] {
	case "-v", "--version":
		fmt.Fprintf(p.stdout(), "Elixir %s\n", Version)
		cfg.PrintedVersion = true
		return args[1:], true
	case "--app":
		name, rest, ok := optionValue(args, cfg)
		if ok {
			cfg.appendCommand(App{Name: name})
		}
		return rest, true
	case "--no-halt":
		cfg.Halt = false
		return args[1:], true
	case "-e":
		expr, rest, ok := optionValue(args, cfg)
		if ok {
			cfg.appendCommand(Eval{Expr: expr})
		}
		return rest, true
	case "-pa":
		val, rest, ok := optionValue(args, cfg)
		if ok && p.LoadPath != nil {
			p.LoadPath.Prepend(p.wildcard(val)...)
		}
		return rest, true
	case "-pz":
		val, rest, ok := optionValue(args, cfg)
		if ok && p.LoadPath != nil {
			p.LoadPath.Append(p.wildcard(val)...)
		}
		return rest, true
	case "-r":
		pattern, rest, ok := optionValue(args, cfg)
		if !ok {
			return rest, true
		}
		files := p.wildcard(pattern)
		if len(files) == 0 {
			cfg.appendError("No files matched pattern " + pattern)
			return rest, true
		}
		enum.Each(enum.Strings(files), func(f any) {
			cfg.appendCommand(Require{Path: f.(string)})
		})
		return rest, true
	case "-pr":
		pattern, rest, ok := optionValue(args, cfg)
		if ok {
			cfg.appendCommand(ParallelRequire{Pattern: pattern})
		}
		return rest, true
	case "--project":
		val, rest, ok := optionValue(args, cfg)
		if ok {
			cfg.Project = val
		}
		return rest, true
	case "--log-level":
		val, rest, ok := optionValue(args, cfg)
		if ok {
			cfg.LogLevel = val
		}
		return rest, true
	case "--log-format":
		val, rest, ok := optionValue(args, cfg)
		if ok {
			cfg.LogFormat = val
		}
		return rest, true
	case "--erl", "--sname", "--name", "--cookie", "--logger-otp-reports", "--logger-sasl-reports":
		// VM tuning flags: recognized with their value, otherwise ignored.
		_, rest, _ := optionValue(args, cfg)
		return rest, true
	default:
		return args, false
	}
}

// optionValue consumes the value argument that must follow args[0]. When the
// list ends early it records an error and reports the value as missing so
// parsing can finish cleanly.
func optionValue(args []string, cfg *Config) (string, []string, bool) {
	if len(args) < 2 {
		cfg.appendError("Missing argument for option " + args[0])
		return "", nil, false
	}
	return args[1], args[2:], true
}

func (p *Parser) wildcard(pattern string) []string {
	if p.Wildcard != nil {
		return p.Wildcard(pattern)
	}
	return fsutil.Wildcard(pattern)
}

func (p *Parser) lookPath(name string) (string, error) {
	if p.LookPath != nil {
		return p.LookPath(name)
	}
	return exec.LookPath(name)
}

func (p *Parser) isDir(path string) bool {
	if p.IsDir != nil {
		return p.IsDir(path)
	}
	return fsutil.IsDir(path)
}

func (p *Parser) stdout() io.Writer {
	if p.Stdout != nil {
		return p.Stdout
	}
	return os.Stdout
}

// Usage writes the command-line help text.
func Usage(w io.Writer) {
	fmt.Fprint(w, `Elixir - a dynamic, functional language

Usage:
  elixir [options] [.ex file] [data]

Options:
  -v, --version             Prints version and continues
  -e EXPR                   Evaluates the given code
  -r PATTERN                Requires the files matching the given pattern
  -pr PATTERN               Requires the files matching the pattern in parallel
  -pa PATH                  Prepends the given path to the code path
  -pz PATH                  Appends the given path to the code path
  -S SCRIPT                 Finds and executes the given script on the search path
  --app NAME                Starts the given application
  --no-halt                 Does not halt the VM after execution
  --compile                 Switches to compiler options (see below)
  --project FILE            Loads settings from the given project manifest
  --log-level LEVEL         Sets the log level: debug, info, warn or error
  --log-format FORMAT       Sets the log format: text or json
  --logger-otp-reports BOOL   Enables or disables OTP reports
  --logger-sasl-reports BOOL  Enables or disables SASL reports
  --                        Stops option parsing; the rest is program data

Compiler options (after --compile):
  -o DIR                    Writes compiled artifacts to the given directory
  --no-docs                 Does not attach documentation to compiled modules
  --no-debug-info           Does not attach debug info to compiled modules
  --ignore-module-conflict  Does not warn on module redefinition
`)
}
