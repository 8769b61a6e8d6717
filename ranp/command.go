package ranp

import (
	"fmt"
	"math"
)

// TrailerFrames is the number of empty INPUT frames appended to the end of
// a movie so that a replayer does not run dry and disconnect early.
const TrailerFrames = 60

// Command is one decoded netplay frame.
//
// Extra holds the 0-3 bytes that follow the word-aligned payload when the
// declared size is not a multiple of four.
type Command struct {
	Op      Opcode
	Payload []uint32
	Extra   []byte
}

// Size is the payload byte length declared in the frame header.
func (c Command) Size() int {
	return 4*len(c.Payload) + len(c.Extra)
}

// Frame returns the frame number of a frame-bearing command.
// ok is false for other commands or when the payload is empty.
func (c Command) Frame() (frame uint32, ok bool) {
	if !c.Op.FrameBearing() || len(c.Payload) == 0 {
		return 0, false
	}
	return c.Payload[0], true
}

// Clone returns a deep copy of c.
func (c Command) Clone() Command {
	out := Command{Op: c.Op}
	if c.Payload != nil {
		out.Payload = append([]uint32(nil), c.Payload...)
	}
	if c.Extra != nil {
		out.Extra = append([]byte(nil), c.Extra...)
	}
	return out
}

// InputCmd is the structured view of an INPUT payload:
// [frame, player, buttons, analog1, analog2].
type InputCmd struct {
	Frame   uint32
	Player  uint32
	Buttons Buttons
	Analog  [2]uint32
}

// NewInput returns player 0's INPUT for frame with the given buttons.
func NewInput(frame uint32, b Buttons) Command {
	return InputCmd{Frame: frame, Buttons: b}.Command()
}

// NewReset returns a RESET at frame.
func NewReset(frame uint32) Command {
	return Command{Op: Reset, Payload: []uint32{frame}}
}

// Command converts the view back into a five-word INPUT command.
func (in InputCmd) Command() Command {
	return Command{
		Op:      Input,
		Payload: []uint32{in.Frame, in.Player, uint32(in.Buttons), in.Analog[0], in.Analog[1]},
	}
}

// Input returns the structured view of an INPUT command. Missing trailing
// words read as zero. ok is false for any other opcode.
func (c Command) Input() (in InputCmd, ok bool) {
	if c.Op != Input {
		return InputCmd{}, false
	}
	word := func(i int) uint32 {
		if i < len(c.Payload) {
			return c.Payload[i]
		}
		return 0
	}
	return InputCmd{
		Frame:   word(0),
		Player:  word(1),
		Buttons: Buttons(word(2)),
		Analog:  [2]uint32{word(3), word(4)},
	}, true
}

// Trailer returns TrailerFrames zero-button INPUTs at frames from, from+1, ...
// It fails with ErrFrameOverflow when the last frame would pass math.MaxUint32.
func Trailer(from uint32) ([]Command, error) {
	if from > math.MaxUint32-(TrailerFrames-1) {
		return nil, fmt.Errorf("%w: trailer from frame %d", ErrFrameOverflow, from)
	}
	out := make([]Command, 0, TrailerFrames)
	for i := uint32(0); i < TrailerFrames; i++ {
		out = append(out, NewInput(from+i, 0))
	}
	return out, nil
}
