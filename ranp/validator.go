package ranp

import (
	"fmt"
	"io"
	"os"
)

// Summary describes a decoded stream.
type Summary struct {
	Commands        int
	Inputs          int
	Resets          int
	Unknown         int    // commands with an opcode outside the known set
	FirstFrame      uint32 // frame of the first frame-bearing command
	LastFrame       uint32 // highest frame seen
	Backward        int    // frame-bearing commands whose frame is below an earlier one
	StartsWithReset bool
}

// Validate decodes every command from r and summarizes the stream.
// Decode errors abort validation; the summary covers what was read.
// Payloads above MaxPayloadSize fail with ErrPayloadTooLarge, since the
// replayer cannot receive them.
func Validate(r io.Reader) (Summary, error) {
	var s Summary
	rd := NewReaderLimit(r, MaxPayloadSize)
	seenFrame := false
	for {
		cmd, err := rd.ReadCommand()
		if err == io.EOF {
			return s, nil
		}
		if err != nil {
			return s, err
		}
		if s.Commands == 0 {
			s.StartsWithReset = cmd.Op == Reset
		}
		s.Commands++
		switch cmd.Op {
		case Input:
			s.Inputs++
		case Reset:
			s.Resets++
		}
		if !cmd.Op.Known() {
			s.Unknown++
		}
		frame, ok := cmd.Frame()
		if !ok {
			continue
		}
		if !seenFrame {
			s.FirstFrame = frame
			seenFrame = true
		}
		if frame < s.LastFrame {
			s.Backward++
		} else {
			s.LastFrame = frame
		}
	}
}

// ValidateFile checks that the file at path is a complete RANP stream and
// logs warnings for streams a replayer would handle poorly.
func ValidateFile(path string) (Summary, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Summary{}, fmt.Errorf("ranp file not found: %w", err)
	}
	if info.Size() == 0 {
		return Summary{}, fmt.Errorf("ranp file is empty (0 bytes)")
	}

	f, err := os.Open(path)
	if err != nil {
		return Summary{}, err
	}
	defer f.Close()

	s, err := Validate(f)
	if err != nil {
		return s, fmt.Errorf("decode failed after %d commands: %w", s.Commands, err)
	}

	if !s.StartsWithReset {
		Logf("[ranp] WARNING: %s does not start with RESET", path)
	}
	if s.Backward > 0 {
		Logf("[ranp] WARNING: %d commands move the frame backward", s.Backward)
	}
	if s.Unknown > 0 {
		Logf("[ranp] WARNING: %d commands with unknown opcodes", s.Unknown)
	}
	if s.Inputs == 0 {
		Logf("[ranp] WARNING: no INPUT commands")
	}

	Logf("[ranp] Validated %s: %d commands, %d inputs, %d resets, frames %d..%d, %d bytes",
		path, s.Commands, s.Inputs, s.Resets, s.FirstFrame, s.LastFrame, info.Size())
	return s, nil
}

// ValidateFileQuiet runs ValidateFile with Logf silenced, so warnings about
// the stream are dropped and only the returned error remains.
func ValidateFileQuiet(path string) (Summary, error) {
	old := Logf
	SetLogger(nil)
	defer func() { Logf = old }()
	return ValidateFile(path)
}
