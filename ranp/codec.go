package ranp

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// HeaderSize is the fixed opcode+size prefix of every frame.
const HeaderSize = 8

var (
	// ErrTruncated reports a frame whose header or declared payload runs past
	// the end of the input.
	ErrTruncated = errors.New("ranp: truncated frame")
	// ErrPayloadTooLarge reports a declared size above a Reader's MaxPayload.
	ErrPayloadTooLarge = errors.New("ranp: payload too large")
	// ErrFrameOverflow reports a frame number that does not fit in a
	// payload word.
	ErrFrameOverflow = errors.New("ranp: frame out of range")
)

// Encode returns the frame for cmd. The size field covers the payload words
// only; Extra bytes are not written. Use EncodeExact to keep them.
func Encode(cmd Command) []byte {
	return AppendEncode(make([]byte, 0, HeaderSize+4*len(cmd.Payload)), cmd)
}

// AppendEncode appends the Encode framing of cmd to dst.
func AppendEncode(dst []byte, cmd Command) []byte {
	dst = binary.BigEndian.AppendUint32(dst, uint32(cmd.Op))
	dst = binary.BigEndian.AppendUint32(dst, uint32(4*len(cmd.Payload)))
	for _, w := range cmd.Payload {
		dst = binary.BigEndian.AppendUint32(dst, w)
	}
	return dst
}

// EncodeExact is like Encode but also writes Extra and declares Size().
// Output of Decode re-encodes byte for byte.
func EncodeExact(cmd Command) []byte {
	dst := make([]byte, 0, HeaderSize+cmd.Size())
	dst = binary.BigEndian.AppendUint32(dst, uint32(cmd.Op))
	dst = binary.BigEndian.AppendUint32(dst, uint32(cmd.Size()))
	for _, w := range cmd.Payload {
		dst = binary.BigEndian.AppendUint32(dst, w)
	}
	return append(dst, cmd.Extra...)
}

// Decode parses the frame starting at buf[off:] and returns it with the
// offset of the following frame. It returns io.EOF when off is at or past
// the end of buf.
func Decode(buf []byte, off int) (Command, int, error) {
	if off >= len(buf) {
		return Command{}, off, io.EOF
	}
	if len(buf)-off < HeaderSize {
		return Command{}, off, fmt.Errorf("%w: header at offset %d needs %d bytes, %d left",
			ErrTruncated, off, HeaderSize, len(buf)-off)
	}
	op := Opcode(binary.BigEndian.Uint32(buf[off:]))
	size := binary.BigEndian.Uint32(buf[off+4:])
	body := buf[off+HeaderSize:]
	if uint64(size) > uint64(len(body)) {
		return Command{}, off, fmt.Errorf("%w: %s at offset %d declares %d bytes, %d left",
			ErrTruncated, op, off, size, len(body))
	}
	return decodeBody(op, body[:size]), off + HeaderSize + int(size), nil
}

// decodeBody splits a payload section into words and trailing bytes.
func decodeBody(op Opcode, body []byte) Command {
	cmd := Command{Op: op}
	if len(body) >= 4 {
		cmd.Payload = make([]uint32, len(body)/4)
	}
	for i := range cmd.Payload {
		cmd.Payload[i] = binary.BigEndian.Uint32(body[4*i:])
	}
	if rest := len(body) % 4; rest != 0 {
		cmd.Extra = append([]byte(nil), body[len(body)-rest:]...)
	}
	return cmd
}

// DecodeAll decodes every frame in buf.
func DecodeAll(buf []byte) ([]Command, error) {
	var out []Command
	off := 0
	for {
		cmd, next, err := Decode(buf, off)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, cmd)
		off = next
	}
}
