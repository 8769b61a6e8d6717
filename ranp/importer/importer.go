// Package importer converts emulator movie files into RANP command streams.
//
// Each importer emits a frame-ordered sequence of RESET and INPUT commands
// through a recorder.Recorder, one INPUT per source frame. Malformed records
// are logged and skipped. Header problems are logged and ignored unless
// Options.Strict is set.
package importer

import (
	"errors"
	"log"

	"github.com/reallyoldfogie/ranp-go/ranp/recorder"
)

// ErrBadHeader reports a source file whose header fails validation in
// strict mode, or is too short to read at all.
var ErrBadHeader = errors.New("importer: bad header")

// Options controls importer policy.
type Options struct {
	// Strict turns header validation warnings into errors.
	Strict bool
	// Trailer appends ranp.TrailerFrames empty inputs after the last frame.
	Trailer bool
	// Logf receives warnings. nil means log.Printf.
	Logf func(format string, v ...interface{})
}

// Result summarizes one import.
type Result struct {
	Frames  int
	Resets  int
	Skipped int // records that could not be parsed
}

func (o Options) logf(format string, v ...interface{}) {
	if o.Logf != nil {
		o.Logf(format, v...)
		return
	}
	log.Printf(format, v...)
}

// finish writes the trailer when requested and fills res from rec.
func finish(rec *recorder.Recorder, opts Options, res *Result) error {
	if opts.Trailer {
		if err := rec.Trailer(); err != nil {
			return err
		}
	}
	res.Resets, res.Frames = rec.Counts()
	return nil
}
