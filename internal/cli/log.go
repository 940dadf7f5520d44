// Package cli implements the rebarplan command-line interface.
//
// The commands design the beams of a floor file, re-solve single beams,
// try filling strategies by hand, list the registered checks and serve the
// same operations over HTTP. The CLI is built using cobra and logs through
// charmbracelet/log.
//
// # Commands
//
//   - design: Solve every beam of a floor and print ranked proposals
//   - recalc: Re-solve one beam in the context of the beams before it
//   - show: Print a floor result saved with design --out
//   - fill: Run one filling strategy on a single section
//   - constraints: List the rules and constraints in evaluation order
//   - serve: Start the HTTP API
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which shows
// the candidate counts of every pipeline stage. Loggers are passed through
// context.Context.
//
// # Example
//
//	import "github.com/matzehuels/rebarplan/internal/cli"
//
//	func main() {
//	    if err := cli.Execute(ctx); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs the elapsed time of an operation when it completes.
// It is meant for sequential use by a single goroutine.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Solved 6 beams (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() when
// none is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
