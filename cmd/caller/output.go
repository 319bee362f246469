package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"

	"github.com/livekit-examples/outbound-caller-go/internal/config"
)

// EnvCallerDebug enables debug logging to stderr when set to any value.
const EnvCallerDebug = "CALLER_DEBUG"

var (
	colorSuccess = color.New(color.FgGreen)
	colorWarn    = color.New(color.FgYellow, color.Bold)
	colorError   = color.New(color.FgRed, color.Bold)
	colorDim     = color.New(color.Faint)
)

// stepOK prints a completed step
func stepOK(format string, args ...interface{}) {
	colorSuccess.Printf("✓ "+format+"\n", args...)
}

// stepFail prints a failed readiness check
func stepFail(format string, args ...interface{}) {
	colorError.Printf("✗ "+format+"\n", args...)
}

// stepWarn prints a non-fatal problem
func stepWarn(format string, args ...interface{}) {
	colorWarn.Printf("⚠  "+format+"\n", args...)
}

// detail prints dimmed supporting output under a step
func detail(format string, args ...interface{}) {
	colorDim.Printf("  "+format+"\n", args...)
}

// newLogger returns the command logger. Debug detail goes to stderr only
// when CALLER_DEBUG is set; otherwise everything is discarded because the
// commands communicate through their printed steps.
func newLogger() *slog.Logger {
	if os.Getenv(EnvCallerDebug) != "" {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// slogConfigLogger adapts slog to the config package's Logger interface.
type slogConfigLogger struct {
	logger *slog.Logger
}

var _ config.Logger = slogConfigLogger{}

func (l slogConfigLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l slogConfigLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, keysAndValues...)
}

func (l slogConfigLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, keysAndValues...)
}

func (l slogConfigLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, keysAndValues...)
}
