package appshell

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// Main wires signals and os.Args into run and exits with its code.
// With no arguments the help text is shown.
func Main(run func(context.Context, []string, io.Writer, io.Writer) int) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	// Writes to a closed stdout return EPIPE, which the writers tolerate,
	// instead of killing the process.
	signal.Ignore(syscall.SIGPIPE)

	code := run(ctx, Args(os.Args[1:]), os.Stdout, os.Stderr)
	code = ExitCode(ctx.Err(), code)

	stop()
	os.Exit(code)
}

// Args substitutes --help for an empty command line.
func Args(argv []string) []string {
	if len(argv) == 0 {
		return []string{"--help"}
	}
	return argv
}

// ExitCode maps a clean exit after an interrupt to 130.
func ExitCode(ctxErr error, code int) int {
	if ctxErr != nil && code == 0 {
		return 130
	}
	return code
}
