// Package logging wires up the CLI's structured logger: a text handler
// to stderr always, fanned out through samber/slog-multi to an
// optional JSON handler for trace-archival pipelines when the caller
// names a file. Grounded on SPEC_FULL.md §4.9's translation of the
// original tracing_subscriber setup to log/slog.
package logging

import (
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// New builds a logger at level, writing text to stderr and, if
// jsonPath is non-empty, also writing JSON records to that file. The
// returned close func flushes and closes the JSON sink; callers should
// defer it. close is a no-op if jsonPath is empty.
func New(level slog.Level, jsonPath string) (logger *slog.Logger, closeFn func() error, err error) {
	opts := &slog.HandlerOptions{Level: level}
	handlers := []slog.Handler{slog.NewTextHandler(os.Stderr, opts)}

	closeFn = func() error { return nil }
	if jsonPath != "" {
		f, openErr := os.OpenFile(jsonPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if openErr != nil {
			return nil, nil, openErr
		}
		handlers = append(handlers, slog.NewJSONHandler(f, opts))
		closeFn = f.Close
	}

	return slog.New(slogmulti.Fanout(handlers...)), closeFn, nil
}
