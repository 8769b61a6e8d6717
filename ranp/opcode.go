package ranp

import (
	"fmt"
	"strconv"
	"strings"
)

// Opcode identifies a netplay command. Values outside the known set are
// valid and round-trip through the codec.
type Opcode uint32

const (
	Input         Opcode = 0x03
	NoInput       Opcode = 0x04
	Info          Opcode = 0x22
	Mode          Opcode = 0x26
	CRC           Opcode = 0x40
	LoadSavestate Opcode = 0x42
	Reset         Opcode = 0x46
	FlipPlayers   Opcode = 0x60
)

var opcodeNames = map[Opcode]string{
	Input:         "INPUT",
	NoInput:       "NOINPUT",
	Info:          "INFO",
	Mode:          "MODE",
	CRC:           "CRC",
	LoadSavestate: "LOAD_SAVESTATE",
	Reset:         "RESET",
	FlipPlayers:   "FLIP_PLAYERS",
}

// Known reports whether op is one of the named netplay commands.
func (op Opcode) Known() bool {
	_, ok := opcodeNames[op]
	return ok
}

// FrameBearing reports whether the first payload word of op is a frame number.
func (op Opcode) FrameBearing() bool {
	switch op {
	case Input, NoInput, Mode, CRC, LoadSavestate, Reset, FlipPlayers:
		return true
	}
	return false
}

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("0x%02X", uint32(op))
}

// ParseOpcode accepts a command name (case-insensitive, e.g. "RESET") or a
// decimal or 0x-prefixed hex number.
func ParseOpcode(s string) (Opcode, error) {
	s = strings.TrimSpace(s)
	upper := strings.ToUpper(s)
	for op, name := range opcodeNames {
		if name == upper {
			return op, nil
		}
	}
	var (
		v   uint64
		err error
	)
	if strings.HasPrefix(upper, "0X") {
		v, err = strconv.ParseUint(s[2:], 16, 32)
	} else {
		v, err = strconv.ParseUint(s, 10, 32)
	}
	if err != nil {
		return 0, fmt.Errorf("ranp: unknown opcode %q", s)
	}
	return Opcode(v), nil
}
