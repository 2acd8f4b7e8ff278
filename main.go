package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, openCollaborator)
	stop()
	os.Exit(code)
}

// run executes one invocation and returns the process exit code. Results and
// usage go to stdout, diagnostics and logs to stderr.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, open openFunc) int {
	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))

	a := &app{open: open, level: level}
	root := a.newRootCommand()
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(normalizeArgs(args))

	cmd, err := root.ExecuteContextC(ctx)
	if err == nil {
		return exitOK
	}

	var usage *UsageError
	switch {
	case errors.As(err, &usage):
		fmt.Fprintln(stdout, usage.Msg)
		fmt.Fprint(stdout, cmd.UsageString())
	case errors.Is(err, ErrNoDevices):
		fmt.Fprintln(stderr, err)
	default:
		fmt.Fprintf(stderr, "error: %v\n", err)
	}
	return exitCode(err)
}
