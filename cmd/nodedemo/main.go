package main

import (
	"context"
	"errors"
	"fmt"
	"github.com/saylorsolutions/eventnode/cli"
	"github.com/saylorsolutions/eventnode/env"
	"github.com/saylorsolutions/eventnode/signalx"
	"github.com/saylorsolutions/eventnode/slogx"
	flag "github.com/spf13/pflag"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"golang.org/x/term"
	"io"
	"log/slog"
	"os"
	"syscall"
)

const EnvDebug = "EVENTNODE_DEBUG"

type globalFlags struct {
	logJSON bool
	logFile string
	debug   bool
	metrics bool
}

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		if !errors.Is(err, &cli.UsageError{}) {
			_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	var global globalFlags
	fs := flag.NewFlagSet("nodedemo", flag.ContinueOnError)
	fs.SetInterspersed(false)
	fs.SetOutput(out)
	fs.BoolVar(&global.logJSON, "log-json", false, "Log JSON to STDERR even when it's a terminal")
	fs.StringVar(&global.logFile, "log-file", "", "Also append JSON logs to this file")
	fs.BoolVar(&global.debug, "debug", env.Bool(EnvDebug, false), "Log at debug level, defaults to $"+EnvDebug)
	fs.BoolVar(&global.metrics, "metrics", false, "Print atomic queue metrics when the command is done")
	if err := fs.Parse(args); err != nil {
		return err
	}

	log, closeLog, err := setupLogging(global, out)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signalx.SignalCtx(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	printer := cli.NewPrinter(out)
	var (
		reader   *sdkmetric.ManualReader
		provider *sdkmetric.MeterProvider
	)
	if global.metrics {
		reader = sdkmetric.NewManualReader()
		provider = sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
		defer func() {
			_ = provider.Shutdown(context.Background())
		}()
	}
	demo := &demo{log: log, provider: provider}
	if err := commands(demo, printer).Exec(ctx, fs.Args()); err != nil {
		return err
	}
	if reader != nil {
		return printMetrics(ctx, reader, printer)
	}
	return nil
}

// setupLogging logs text to a terminal, JSON otherwise, and also JSON to the log file if one is given.
func setupLogging(global globalFlags, out io.Writer) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if global.debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var console slog.Handler
	if f, ok := out.(*os.File); ok && !global.logJSON && term.IsTerminal(int(f.Fd())) {
		console = slog.NewTextHandler(out, opts)
	} else {
		console = slog.NewJSONHandler(out, opts)
	}
	if len(global.logFile) == 0 {
		return slog.New(console), func() {}, nil
	}
	file, err := os.OpenFile(global.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	handler := slogx.MergeHandlers(console, slog.NewJSONHandler(file, opts))
	return slog.New(handler), func() {
		_ = file.Close()
	}, nil
}
