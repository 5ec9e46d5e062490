package convert

import (
	"io"
	"log"
)

// Options configures a conversion run. The zero value is usable: Workers
// defaults to 1 (sequential), Recurse and Overwrite default to false.
type Options struct {
	Workers   int
	Recurse   bool
	Overwrite bool

	// Logger receives one line per converted file, plus a line when a CT
	// output's file time cannot be set from its header timestamp.
	// A nil Logger discards output, so callers that don't care about
	// progress never need to construct one.
	Logger *log.Logger
}

func (o Options) workers() int {
	if o.Workers < 1 {
		return 1
	}
	return o.Workers
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.New(io.Discard, "", 0)
}
