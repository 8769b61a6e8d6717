package ranp

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RANPJ is the JSON form of a command:
//
//	{"cmd": "RESET", "payload": [0]}
//	{"cmd": 3, "payload": [12, 0, 1, 0, 0]}
//	{"cmd": "INPUT", "frame": 12, "player": 1, "input": "BA"}
//
// cmd is a name or a number. payload is an array, a single number, or
// absent. payloadB lists extra bytes. INPUT may use the expanded
// frame/player/input form, where input is a mask or a ButtonChars string.
type jsonCommand struct {
	Cmd      json.RawMessage `json:"cmd"`
	Payload  json.RawMessage `json:"payload,omitempty"`
	PayloadB []int           `json:"payloadB,omitempty"`
	Frame    *uint32         `json:"frame,omitempty"`
	Player   *uint32         `json:"player,omitempty"`
	Input    json.RawMessage `json:"input,omitempty"`
}

// MarshalJSON emits the expanded INPUT form for five-word inputs without
// analog data, and the generic form otherwise.
func (c Command) MarshalJSON() ([]byte, error) {
	var op json.RawMessage
	if c.Op.Known() {
		op, _ = json.Marshal(c.Op.String())
	} else {
		op, _ = json.Marshal(uint32(c.Op))
	}
	out := jsonCommand{Cmd: op}

	if in, ok := c.Input(); ok && len(c.Payload) == 5 && len(c.Extra) == 0 &&
		in.Analog == [2]uint32{} {
		out.Frame = &in.Frame
		if in.Player != 0 {
			out.Player = &in.Player
		}
		out.Input, _ = json.Marshal(uint32(in.Buttons))
		return json.Marshal(out)
	}

	if len(c.Payload) > 0 {
		p, err := json.Marshal(c.Payload)
		if err != nil {
			return nil, err
		}
		out.Payload = p
	}
	for _, b := range c.Extra {
		out.PayloadB = append(out.PayloadB, int(b))
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts every RANPJ form.
func (c *Command) UnmarshalJSON(data []byte) error {
	var in jsonCommand
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if len(in.Cmd) == 0 {
		return fmt.Errorf("ranpj: missing cmd")
	}
	op, err := parseJSONOpcode(in.Cmd)
	if err != nil {
		return err
	}
	out := Command{Op: op}

	if len(in.Payload) > 0 && !bytes.Equal(in.Payload, []byte("null")) {
		var words []uint32
		if err := json.Unmarshal(in.Payload, &words); err != nil {
			var single uint32
			if err2 := json.Unmarshal(in.Payload, &single); err2 != nil {
				return fmt.Errorf("ranpj: %s payload: %w", op, err)
			}
			words = []uint32{single}
		}
		out.Payload = words
	}
	for _, b := range in.PayloadB {
		if b < 0 || b > 0xFF {
			return fmt.Errorf("ranpj: %s payloadB value %d out of byte range", op, b)
		}
		out.Extra = append(out.Extra, byte(b))
	}

	if op == Input && in.Frame != nil && len(in.Input) > 0 {
		buttons, err := parseJSONButtons(in.Input)
		if err != nil {
			return err
		}
		view := InputCmd{Frame: *in.Frame, Buttons: buttons}
		if in.Player != nil {
			view.Player = *in.Player
		}
		out.Payload = view.Command().Payload
	}

	*c = out
	return nil
}

func parseJSONOpcode(raw json.RawMessage) (Opcode, error) {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		op, err := ParseOpcode(name)
		if err != nil {
			return 0, fmt.Errorf("ranpj: %w", err)
		}
		return op, nil
	}
	var num uint32
	if err := json.Unmarshal(raw, &num); err != nil {
		return 0, fmt.Errorf("ranpj: cmd must be a name or a uint32: %s", raw)
	}
	return Opcode(num), nil
}

func parseJSONButtons(raw json.RawMessage) (Buttons, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return ParseButtons(s), nil
	}
	var num uint32
	if err := json.Unmarshal(raw, &num); err != nil {
		return 0, fmt.Errorf("ranpj: input must be a mask or a button string: %s", raw)
	}
	return Buttons(num), nil
}
