// Package recorder feeds per-frame controller state into a RANP writer.
// It owns the frame clock, so importers only report what happened on each
// source frame: a reset, or the buttons held.
package recorder

import (
	"github.com/reallyoldfogie/ranp-go/ranp"
)

// Recorder streams commands to an underlying ranp.Writer, stamping each with
// the current frame.
type Recorder struct {
	w      *ranp.Writer
	frame  uint32
	resets int
	inputs int
	closed bool
}

// New creates a Recorder writing to w, starting at frame 0.
func New(w *ranp.Writer) *Recorder {
	return &Recorder{w: w}
}

// NewFile creates and owns a RANP file at path.
// Use Close() when finished.
func NewFile(path string) (*Recorder, error) {
	w, err := ranp.Create(path)
	if err != nil {
		return nil, err
	}
	return New(w), nil
}

// Reset records a RESET at the current frame. The clock does not advance.
func (r *Recorder) Reset() error {
	if r.closed {
		return nil
	}
	r.resets++
	return r.w.WriteCommand(ranp.NewReset(r.frame))
}

// Input records one frame of player 0 input and advances the clock.
func (r *Recorder) Input(b ranp.Buttons) error {
	if r.closed {
		return nil
	}
	if err := r.w.WriteInput(r.frame, b); err != nil {
		return err
	}
	r.inputs++
	r.frame++
	return nil
}

// Frame is the frame the next Input will be stamped with.
func (r *Recorder) Frame() uint32 {
	return r.frame
}

// Counts returns the number of RESET and INPUT commands recorded.
func (r *Recorder) Counts() (resets, inputs int) {
	return r.resets, r.inputs
}

// Trailer records ranp.TrailerFrames empty inputs from the current frame.
// The clock does not advance.
func (r *Recorder) Trailer() error {
	if r.closed {
		return nil
	}
	return r.w.WriteTrailer(r.frame)
}

// Close finalizes the stream, closing the writer (and its file, when it
// owns one).
func (r *Recorder) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.w.Close()
}
