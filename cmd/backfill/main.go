// Package main backfills historical model releases from the command line.
// Usage: backfill --month YYYY MM | --range START END | --last-month
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"model-tracker/internal/app"
	"model-tracker/internal/usecase/ingest"
)

const usage = `Usage: backfill --month YYYY MM | --range START END | --last-month

Examples:
  backfill --month 2024 12
  backfill --range 2024-12-01 2024-12-31
  backfill --last-month
`

var errUsage = errors.New("usage")

func main() {
	req, err := parseArgs(os.Args[1:], time.Now())
	if err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		}
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	logger := initLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	components, err := app.New(ctx, logger, app.Options{Migrate: true})
	if err != nil {
		logger.Error("failed to initialise components", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := components.Close(context.Background()); err != nil {
			logger.Error("failed to release resources", slog.Any("error", err))
		}
	}()

	result, err := components.Ingest.RunBackfill(ctx, req)
	if err != nil {
		logger.Error("backfill failed", slog.Any("error", err))
		if result != nil {
			printSummary(os.Stdout, result.Summary)
		}
		_ = components.Close(context.Background())
		os.Exit(1)
	}
	printSummary(os.Stdout, result.Summary)
}

// initLogger writes human-readable progress to stderr.
func initLogger() *slog.Logger {
	logLevel := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	return logger
}

// parseArgs turns the command line into a backfill request. now anchors
// --last-month.
func parseArgs(args []string, now time.Time) (ingest.BackfillRequest, error) {
	if len(args) == 0 {
		return ingest.BackfillRequest{}, errUsage
	}

	switch args[0] {
	case "--month":
		if len(args) != 3 {
			return ingest.BackfillRequest{}, errors.New("--month takes a year and a month")
		}
		year, err := strconv.Atoi(args[1])
		if err != nil {
			return ingest.BackfillRequest{}, fmt.Errorf("invalid year %q", args[1])
		}
		month, err := strconv.Atoi(args[2])
		if err != nil {
			return ingest.BackfillRequest{}, fmt.Errorf("invalid month %q", args[2])
		}
		return ingest.BackfillRequest{Year: year, Month: month}, nil

	case "--range":
		if len(args) != 3 {
			return ingest.BackfillRequest{}, errors.New("--range takes a start and an end date")
		}
		return ingest.BackfillRequest{StartDate: args[1], EndDate: args[2]}, nil

	case "--last-month":
		if len(args) != 1 {
			return ingest.BackfillRequest{}, errors.New("--last-month takes no arguments")
		}
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
		return ingest.BackfillRequest{Year: first.Year(), Month: int(first.Month())}, nil

	case "-h", "--help":
		return ingest.BackfillRequest{}, errUsage
	}
	return ingest.BackfillRequest{}, fmt.Errorf("unknown option %q", args[0])
}

func printSummary(w io.Writer, s ingest.Summary) {
	fmt.Fprintln(w, "Backfill complete")
	fmt.Fprintf(w, "  Inserted: %d\n", s.Inserted)
	fmt.Fprintf(w, "  Skipped:  %d\n", s.Skipped)
	fmt.Fprintf(w, "  Total:    %d\n", s.Discovered)
}
