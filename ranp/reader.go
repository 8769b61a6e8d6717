package ranp

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// MaxPayloadSize is the replayer's 1024-word receive buffer. Streams meant
// for playback should not declare more; see NewReaderLimit.
const MaxPayloadSize = 1024 * 4

// Reader decodes commands from a stream.
type Reader struct {
	// MaxPayload rejects frames declaring more bytes with ErrPayloadTooLarge.
	// Zero means no limit.
	MaxPayload uint32

	br  *bufio.Reader
	off int64
}

// NewReader returns a Reader decoding from r. Any declared size is accepted.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReader(r)}
}

// NewReaderLimit returns a Reader that rejects payloads above limit bytes.
func NewReaderLimit(r io.Reader, limit uint32) *Reader {
	rd := NewReader(r)
	rd.MaxPayload = limit
	return rd
}

// Offset is the byte offset of the next frame.
func (r *Reader) Offset() int64 {
	return r.off
}

// ReadCommand decodes the next frame. It returns io.EOF only when the stream
// ends exactly at a frame boundary; a partial frame yields ErrTruncated.
func (r *Reader) ReadCommand() (Command, error) {
	var hdr [HeaderSize]byte
	n, err := io.ReadFull(r.br, hdr[:])
	if err == io.EOF {
		return Command{}, io.EOF
	}
	if err != nil {
		return Command{}, r.truncated(err, "header: got %d of %d bytes", n, HeaderSize)
	}
	op := Opcode(binary.BigEndian.Uint32(hdr[0:4]))
	size := binary.BigEndian.Uint32(hdr[4:8])
	if r.MaxPayload != 0 && size > r.MaxPayload {
		return Command{}, fmt.Errorf("%w: %s at offset %d declares %d bytes (max %d)",
			ErrPayloadTooLarge, op, r.off, size, r.MaxPayload)
	}
	body, err := r.readBody(size)
	if err != nil {
		return Command{}, r.truncated(err, "%s declares %d bytes, got %d", op, size, len(body))
	}
	r.off += HeaderSize + int64(size)
	return decodeBody(op, body), nil
}

// readBody reads size bytes. Bodies above MaxPayloadSize grow with the data
// actually read, so a bogus size on a short stream does not allocate it.
func (r *Reader) readBody(size uint32) ([]byte, error) {
	if size <= MaxPayloadSize {
		body := make([]byte, size)
		n, err := io.ReadFull(r.br, body)
		return body[:n], err
	}
	var buf bytes.Buffer
	n, err := io.CopyN(&buf, r.br, int64(size))
	if err == nil && n < int64(size) {
		err = io.ErrUnexpectedEOF
	}
	return buf.Bytes(), err
}

func (r *Reader) truncated(err error, format string, args ...interface{}) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w at offset %d: %s", ErrTruncated, r.off, fmt.Sprintf(format, args...))
	}
	return fmt.Errorf("ranp: read at offset %d: %w", r.off, err)
}

// ReadAll decodes commands until end of stream.
func (r *Reader) ReadAll() ([]Command, error) {
	var out []Command
	for {
		cmd, err := r.ReadCommand()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, cmd)
	}
}
