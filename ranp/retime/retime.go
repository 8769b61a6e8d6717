// Package retime rewrites a RANP command stream onto a new timeline.
//
// The rewrite is a left-to-right fold: every command is adjusted by the
// running delay, optionally held back until the first RESET, and each
// emitted RESET may grow the delay, padding the gap it opens with empty
// inputs. Commands are never reordered.
package retime

import (
	"fmt"
	"io"
	"math"

	"github.com/reallyoldfogie/ranp-go/ranp"
)

// ErrFrameOverflow reports an adjusted frame that no longer fits in a
// payload word.
var ErrFrameOverflow = ranp.ErrFrameOverflow

// Config selects the timeline rewrite.
type Config struct {
	// DelayPerReset is added to the delay after every emitted RESET.
	// It may be negative.
	DelayPerReset int
	// WaitForReset drops everything before the first RESET.
	WaitForReset bool
	// Trailer appends ranp.TrailerFrames empty inputs after the last frame.
	Trailer bool
}

// Identity reports whether cfg leaves every command stream unchanged.
func (cfg Config) Identity() bool {
	return cfg.DelayPerReset == 0 && !cfg.WaitForReset && !cfg.Trailer
}

// State is the fold state carried from one command to the next.
type State struct {
	Delay int64 // offset added to every frame-bearing command
	Floor int64 // adjusted frames below this are dropped
	// LastFrame is the most recent adjusted frame that passed the floor
	// check. It seeds the trailer.
	LastFrame int64
	GateOpen  bool
}

// Step applies cfg to one command and returns the next state together with
// the commands to emit, in order. cmd is not modified.
func Step(cfg Config, st State, cmd ranp.Command) (State, []ranp.Command, error) {
	if frame, ok := cmd.Frame(); ok {
		adjusted := int64(frame) + st.Delay
		if adjusted < st.Floor {
			return st, nil, nil
		}
		if adjusted > math.MaxUint32 {
			return st, nil, fmt.Errorf("%w: %s frame %d + delay %d", ErrFrameOverflow, cmd.Op, frame, st.Delay)
		}
		cmd = cmd.Clone()
		cmd.Payload[0] = uint32(adjusted)
		st.LastFrame = adjusted
	}

	if cfg.WaitForReset && !st.GateOpen {
		if cmd.Op != ranp.Reset {
			return st, nil, nil
		}
		st.GateOpen = true
	}

	out := []ranp.Command{cmd}

	if cmd.Op == ranp.Reset && cfg.DelayPerReset != 0 {
		at, ok := cmd.Frame()
		if !ok {
			return st, out, nil
		}
		for i := 0; i < cfg.DelayPerReset; i++ {
			f := int64(at) + int64(i)
			if f > math.MaxUint32 {
				return st, out, fmt.Errorf("%w: padding frame %d after RESET at %d", ErrFrameOverflow, f, at)
			}
			out = append(out, ranp.NewInput(uint32(f), 0))
		}
		st.Delay += int64(cfg.DelayPerReset)
		st.Floor = int64(at)
	}
	return st, out, nil
}

// Finish returns the commands to emit at end of stream. The trailer starts
// after st.LastFrame and must end at or below math.MaxUint32.
func Finish(cfg Config, st State) ([]ranp.Command, error) {
	if !cfg.Trailer {
		return nil, nil
	}
	if st.LastFrame+ranp.TrailerFrames > math.MaxUint32 {
		return nil, fmt.Errorf("%w: trailer after frame %d", ErrFrameOverflow, st.LastFrame)
	}
	return ranp.Trailer(uint32(st.LastFrame + 1))
}

// Transform holds the fold state for one run.
type Transform struct {
	cfg Config
	st  State
}

// New returns a Transform in its initial state.
func New(cfg Config) *Transform {
	return &Transform{cfg: cfg}
}

// Step feeds one command through the transform.
func (t *Transform) Step(cmd ranp.Command) ([]ranp.Command, error) {
	st, out, err := Step(t.cfg, t.st, cmd)
	t.st = st
	return out, err
}

// Finish returns the end-of-stream commands.
func (t *Transform) Finish() ([]ranp.Command, error) {
	return Finish(t.cfg, t.st)
}

// State returns the current fold state.
func (t *Transform) State() State {
	return t.st
}

// Apply runs cfg over cmds and returns the rewritten stream.
func Apply(cfg Config, cmds []ranp.Command) ([]ranp.Command, error) {
	t := New(cfg)
	var out []ranp.Command
	for _, c := range cmds {
		emit, err := t.Step(c)
		out = append(out, emit...)
		if err != nil {
			return out, err
		}
	}
	trailer, err := t.Finish()
	if err != nil {
		return out, err
	}
	return append(out, trailer...), nil
}

// Stats counts what a Run read and wrote.
type Stats struct {
	Read    int
	Written int
	Dropped int
	Padded  int
	Final   State
}

// Run streams every command from r through cfg into w. It does not close w.
func Run(r *ranp.Reader, w *ranp.Writer, cfg Config) (Stats, error) {
	var stats Stats
	t := New(cfg)
	for {
		cmd, err := r.ReadCommand()
		if err == io.EOF {
			break
		}
		if err != nil {
			stats.Final = t.State()
			return stats, err
		}
		stats.Read++

		emit, err := t.Step(cmd)
		if werr := w.WriteCommands(emit); werr != nil {
			return stats, werr
		}
		stats.Written += len(emit)
		switch {
		case len(emit) == 0:
			stats.Dropped++
		case len(emit) > 1:
			stats.Padded += len(emit) - 1
		}
		if err != nil {
			stats.Final = t.State()
			return stats, err
		}
	}

	stats.Final = t.State()
	trailer, err := t.Finish()
	if err != nil {
		return stats, err
	}
	if err := w.WriteCommands(trailer); err != nil {
		return stats, err
	}
	stats.Written += len(trailer)
	return stats, nil
}
