// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 BTCPay Server contributors

// Package logger provides a thin wrapper around zerolog.Logger used across
// the wallet sync daemon.
//
// The Logger type embeds zerolog.Logger so the full zerolog API is available
// directly on *Logger. Components receive a *Logger by pointer at
// construction time and derive request- or task-scoped loggers via
// FromContext.
package logger

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is a thin wrapper around zerolog.Logger. Embedding the upstream type
// exposes its whole API while leaving room for application helpers.
type Logger struct {
	zerolog.Logger
}

// New constructs a JSON logger writing to stdout for the given role label
// (e.g. "sync-engine", "connection-manager"). Every entry carries the role, a
// timestamp, and the fully-qualified calling function name under "func".
func New(role string) *Logger {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return runtime.FuncForPC(pc).Name()
	}
	zerolog.CallerFieldName = "func"

	logger := zerolog.New(os.Stdout).With().
		Str("role", role).
		Timestamp().
		Caller().
		Logger()

	return &Logger{logger}
}

// NewDaemonLogger is the variant used by the long-running client daemon: it
// appends to a "logs" file next to the executable so crashes on a device
// remain diagnosable, falling back to stdout when the file cannot be opened.
func NewDaemonLogger(role string) *Logger {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return runtime.FuncForPC(pc).Name()
	}
	zerolog.CallerFieldName = "func"

	logger := zerolog.New(daemonLogWriter()).With().
		Str("role", role).
		Timestamp().
		Caller().
		Logger()

	return &Logger{logger}
}

// daemonLogWriter appends to a "logs" file next to the executable. When the
// executable path is unknown or the file cannot be opened, output goes to
// stdout instead of a "logs" file in whatever the working directory happens
// to be.
func daemonLogWriter() io.Writer {
	execPath, err := os.Executable()
	if err != nil {
		return os.Stdout
	}
	return logFileWriter(filepath.Dir(execPath))
}

func logFileWriter(dir string) io.Writer {
	logFile, err := os.OpenFile(filepath.Join(dir, "logs"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return os.Stdout
	}
	return logFile
}

// Nop returns a *Logger that discards all output. Intended for tests.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// GetChildLogger returns a new *Logger inheriting all fields of the receiver.
func (l *Logger) GetChildLogger() *Logger {
	return &Logger{l.With().Logger()}
}

// WithContext attaches the logger to ctx so that FromContext can recover it
// further down the call chain.
func (l *Logger) WithContext(ctx context.Context) context.Context {
	return l.Logger.WithContext(ctx)
}

// FromRequest extracts the request-scoped logger attached by HTTP middleware.
func FromRequest(r *http.Request) *Logger {
	return &Logger{*log.Ctx(r.Context())}
}

// FromContext extracts the zerolog.Logger stored in ctx. If none was
// attached, zerolog's global logger is returned, so the result is never nil.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*log.Ctx(ctx)}
}
