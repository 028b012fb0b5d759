// Package logging configures the process-wide slog default from the
// CLI's verbosity count and optional log file.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Setup installs the default logger. Verbosity maps 0→WARN, 1→INFO,
// 2+→DEBUG, matching the counted -v flag. When logFile is non-empty the
// output is duplicated there.
//
// The returned closer flushes and closes the file sink (a no-op when
// logging only to stderr).
func Setup(verbosity int, logFile string) (func(), error) {
	level := slog.LevelWarn
	switch {
	case verbosity == 1:
		level = slog.LevelInfo
	case verbosity >= 2:
		level = slog.LevelDebug
	}

	var w io.Writer = os.Stderr
	closer := func() {}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("logging: open %s: %w", logFile, err)
		}
		w = io.MultiWriter(os.Stderr, f)
		closer = func() { f.Close() }
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	return closer, nil
}
