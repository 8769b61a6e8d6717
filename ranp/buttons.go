package ranp

import "strings"

// Buttons is the RetroArch joypad bitmask carried in word 2 of an INPUT.
type Buttons uint32

const (
	ButtonB Buttons = 1 << iota
	ButtonY
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
	ButtonA
	ButtonX
	ButtonL
	ButtonR
)

// ButtonChars is the one-character-per-button alphabet, in bit order.
// It matches the LSMV controller notation.
const ButtonChars = "BYsSudlrAXLR"

// ParseButtons converts a string of button characters into a mask.
// Characters outside ButtonChars are ignored.
func ParseButtons(s string) Buttons {
	var b Buttons
	for _, c := range s {
		if i := strings.IndexRune(ButtonChars, c); i >= 0 {
			b |= 1 << uint(i)
		}
	}
	return b
}

// String renders the mask in ButtonChars notation with '.' for released buttons.
// Bits above R are not shown.
func (b Buttons) String() string {
	out := []byte(strings.Repeat(".", len(ButtonChars)))
	for i := range out {
		if b&(1<<uint(i)) != 0 {
			out[i] = ButtonChars[i]
		}
	}
	return string(out)
}

// Pressed returns the button characters for the bits set in b.
func (b Buttons) Pressed() string {
	var sb strings.Builder
	for i := 0; i < len(ButtonChars); i++ {
		if b&(1<<uint(i)) != 0 {
			sb.WriteByte(ButtonChars[i])
		}
	}
	return sb.String()
}
