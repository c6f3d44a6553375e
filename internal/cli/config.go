package cli

// Version is the release reported by --version.
const Version = "0.9.3"

// Command is one deferred action queued during parsing and executed later by
// the dispatcher.
type Command interface {
	isCommand()
}

// Require loads a single source file.
type Require struct {
	Path string
}

// ParallelRequire loads every file matching Pattern concurrently. The
// pattern is kept unexpanded until dispatch.
type ParallelRequire struct {
	Pattern string
}

// Eval evaluates a code snippet.
type Eval struct {
	Expr string
}

// App starts the named application.
type App struct {
	Name string
}

// Compile compiles every file matching the accumulated patterns. It is
// synthesized once, when the compiler-option phase ends.
type Compile struct {
	Patterns []string
}

func (Require) isCommand()         {}
func (ParallelRequire) isCommand() {}
func (Eval) isCommand()            {}
func (App) isCommand()             {}
func (Compile) isCommand()         {}

// CompilerOptions are the toggles forwarded to the compiler.
type CompilerOptions struct {
	Docs                 bool
	DebugInfo            bool
	IgnoreModuleConflict bool
}

// DefaultCompilerOptions returns the options in effect before any flag or
// project manifest touches them.
func DefaultCompilerOptions() CompilerOptions {
	return CompilerOptions{Docs: true, DebugInfo: true}
}

// Config is the result of parsing the command line. Commands and Errors are
// kept in encounter order throughout.
type Config struct {
	// Commands queued for the dispatcher, in encounter order.
	Commands []Command

	// Output is the target directory for compiled artifacts. OutputSet
	// records whether a flag chose it, so manifest values do not override
	// explicit flags.
	Output    string
	OutputSet bool

	// Compile collects not-yet-expanded glob patterns during the
	// compiler-option phase.
	Compile []string

	// Halt controls whether the process terminates once all commands ran.
	Halt bool

	CompilerOptions CompilerOptions

	// Errors holds human-readable parse errors, in encounter order. Parsing
	// never stops on them.
	Errors []string

	// Ambient surface: optional project manifest path and logger settings.
	Project   string
	LogLevel  string
	LogFormat string

	// Help is set when usage was requested; PrintedVersion when --version
	// already wrote the banner.
	Help           bool
	PrintedVersion bool
}

// NewConfig returns a Config with all defaults applied.
func NewConfig() *Config {
	return &Config{
		Output:          ".",
		Halt:            true,
		CompilerOptions: DefaultCompilerOptions(),
		LogLevel:        "warn",
		LogFormat:       "text",
	}
}

func (c *Config) appendCommand(cmd Command) {
	c.Commands = append(c.Commands, cmd)
}

func (c *Config) appendError(msg string) {
	c.Errors = append(c.Errors, msg)
}
