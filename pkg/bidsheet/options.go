// Package bidsheet imports an estimating workbook into translated
// formula definitions, lookup tables, and a dependency graph.
package bidsheet

import "github.com/rs/zerolog"

// Options configures import behavior.
type Options struct {
	// Logger receives per-sheet warnings and import progress. If nil,
	// logging is disabled.
	Logger *zerolog.Logger
}

// DefaultOptions returns default import options.
func DefaultOptions() Options {
	return Options{}
}

func (o Options) logger() zerolog.Logger {
	if o.Logger != nil {
		return *o.Logger
	}
	return zerolog.Nop()
}
