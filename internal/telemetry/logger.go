// Package telemetry configures process-wide logging.
package telemetry

import (
	"log/slog"
	"os"
)

// InitLogger configures the default slog logger. Verbose enables debug
// level. Log output goes to stderr so report output on stdout stays
// machine-readable.
func InitLogger(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
