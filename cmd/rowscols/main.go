package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/ajitpratap0/rowscols/pkg/errors"
)

var version = "0.1.0"

// Exit codes by error type.
const (
	exitOK         = 0
	exitOther      = 1
	exitConfig     = 2
	exitFileSystem = 3
	exitProcessing = 4
	exitMetadata   = 5
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCode(err)
	}
	return exitOK
}

func exitCode(err error) int {
	switch errors.TypeOf(err) {
	case errors.ErrorTypeConfig:
		return exitConfig
	case errors.ErrorTypeFileSystem:
		return exitFileSystem
	case errors.ErrorTypeProcessing:
		return exitProcessing
	case errors.ErrorTypeMetadata:
		return exitMetadata
	default:
		return exitOther
	}
}
