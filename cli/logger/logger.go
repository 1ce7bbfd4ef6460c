// Package logger configures the process [slog.Logger] from CLI options.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

type Options struct {
	Level  string `doc:"log from debug, info, warn or error"`
	File   string `doc:"append logs to file"`
	Format string `doc:"format logs as text or json"         default:"text"`
	Source bool   `doc:"add source file and line to logs"`
}

// New builds a logger from options. Invalid options are reset to their
// default and the returned logger warns about each of them.
func New(options *Options) *slog.Logger {
	return newLogger(options, os.Stdout)
}

func newLogger(options *Options, stdout io.Writer) *slog.Logger {
	if options.File == os.DevNull {
		return slog.New(slog.DiscardHandler)
	}

	var warnings []warning
	warn := func(msg string, attrs ...slog.Attr) { warnings = append(warnings, warning{msg, attrs}) }

	minLevel, ok := parseLevel(options.Level)
	if !ok {
		options.Level = ""
		warn("could not parse logger level")
	}

	output, err := openOutput(options.File, stdout)
	if err != nil {
		options.File = ""
		output = stdout
		warn("could not open logger file", slog.Any("err", err))
	}

	handler := newHandler(options.Format, output, &slog.HandlerOptions{Level: minLevel, AddSource: options.Source})
	if handler == nil {
		options.Format = "text"
		handler = newHandler(options.Format, output, &slog.HandlerOptions{Level: minLevel, AddSource: options.Source})
		warn("could not parse logger format")
	}

	logger := slog.New(handler)
	for _, w := range warnings {
		logger.LogAttrs(context.Background(), slog.LevelWarn, w.msg, w.attrs...)
	}
	return logger
}

type warning struct {
	msg   string
	attrs []slog.Attr
}

// parseLevel reports false for an unknown level name. The empty name selects
// the handler default.
func parseLevel(name string) (slog.Leveler, bool) {
	switch strings.ToLower(name) {
	case "":
		return nil, true
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return nil, false
}

// openOutput returns stdout for an empty file name or "-".
func openOutput(file string, stdout io.Writer) (io.Writer, error) {
	if file == "" || file == "-" {
		return stdout, nil
	}
	return os.OpenFile(file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
}

// newHandler returns nil for an unknown format.
func newHandler(format string, output io.Writer, opts *slog.HandlerOptions) slog.Handler {
	switch strings.ToLower(format) {
	case "json":
		return slog.NewJSONHandler(output, opts)
	case "text":
		return slog.NewTextHandler(output, opts)
	}
	return nil
}
