package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/psantos10/elixir/internal/app"
)

// main is the entrypoint for the elixir command.
func main() {
	// Use a minimal logger until the configured one takes over.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	status, halt := run(os.Stdout, os.Stderr, os.Args[1:])
	if !halt {
		// --no-halt: commands ran, the VM stays up.
		select {}
	}
	os.Exit(status)
}

// run encapsulates the application logic for easier testing: it returns the
// exit status and whether the process should terminate at all.
func run(stdout, stderr io.Writer, args []string) (int, bool) {
	a := app.New(app.Options{Stdout: stdout, Stderr: stderr})
	return a.Run(context.Background(), args)
}
