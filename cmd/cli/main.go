package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/vk/gridgate/internal/app"
	"github.com/vk/gridgate/internal/cli"
	"github.com/vk/gridgate/internal/hclgrid"
)

// main is the entrypoint for the gridgate application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Stdout, os.Args[1:])
	stop()

	if err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitFailure)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW io.Writer, args []string) (err error) {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// Duplicate runner registrations panic; report them like any startup error.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked: %v", r)
		}
	}()

	gridgate, err := app.NewApp(outW, appConfig, hclgrid.NewLoader())
	if err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}

	report, err := gridgate.Run(ctx)
	if err != nil {
		return err
	}
	if paused := report.Paused(); len(paused) > 0 {
		return &cli.ExitError{
			Code:    cli.ExitPaused,
			Message: fmt.Sprintf("run paused, waiting for resume: %s", strings.Join(paused, ", ")),
		}
	}
	return nil
}
