// Package progress defines the callback contract the core's pipeline reports
// through, plus a CLI implementation built on a progress bar.
package progress

import "github.com/tagmetry/tagmetry/internal/model"

// Sink receives progress updates from run_analysis. Implementations must be
// safe to call from a single goroutine at a time; the core never calls a
// sink concurrently.
type Sink interface {
	Report(update model.ProgressUpdate)
}

// SinkFunc adapts a plain function to the Sink interface.
type SinkFunc func(model.ProgressUpdate)

func (f SinkFunc) Report(update model.ProgressUpdate) { f(update) }

// Noop discards every update. Useful for tests and library callers that
// don't care about progress.
var Noop Sink = SinkFunc(func(model.ProgressUpdate) {})
