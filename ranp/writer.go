package ranp

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Writer streams commands into a RANP file.
//
// Usage:
//
//	w, _ := ranp.Create("out.ranp")
//	defer w.Close()
//	_ = w.WriteCommand(ranp.NewReset(0))
//
// Commands are encoded as they arrive; the writer does not retain them.
type Writer struct {
	bw     *bufio.Writer
	file   *os.File // optional, when using Create()
	count  int
	closed bool

	// PreserveExtra makes the writer emit Command.Extra bytes (EncodeExact).
	// By default they are dropped, as the reference encoder does.
	PreserveExtra bool
}

// NewWriter returns a Writer encoding onto out. Close flushes but does not
// close out.
func NewWriter(out io.Writer) *Writer {
	return &Writer{bw: bufio.NewWriter(out)}
}

// Create creates the file at path and returns a Writer that owns it.
// Close() will also close the underlying file.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := NewWriter(f)
	w.file = f
	return w, nil
}

// WriteCommand encodes a single command.
func (w *Writer) WriteCommand(cmd Command) error {
	if w.closed {
		return fmt.Errorf("ranp: writer closed")
	}
	var frame []byte
	if w.PreserveExtra {
		frame = EncodeExact(cmd)
	} else {
		frame = Encode(cmd)
	}
	if _, err := w.bw.Write(frame); err != nil {
		return fmt.Errorf("ranp: write %s: %w", cmd.Op, err)
	}
	w.count++
	return nil
}

// WriteCommands encodes cmds in order, stopping at the first error.
func (w *Writer) WriteCommands(cmds []Command) error {
	for _, c := range cmds {
		if err := w.WriteCommand(c); err != nil {
			return err
		}
	}
	return nil
}

// WriteInput writes a player 0 INPUT for frame.
func (w *Writer) WriteInput(frame uint32, b Buttons) error {
	return w.WriteCommand(NewInput(frame, b))
}

// WriteTrailer writes TrailerFrames empty inputs starting at frame from.
func (w *Writer) WriteTrailer(from uint32) error {
	tr, err := Trailer(from)
	if err != nil {
		return err
	}
	return w.WriteCommands(tr)
}

// Count is the number of commands written so far.
func (w *Writer) Count() int {
	return w.count
}

// Flush writes any buffered frames to the underlying writer.
func (w *Writer) Flush() error {
	if w.closed {
		return nil
	}
	return w.bw.Flush()
}

// Close flushes buffered frames and closes the file when the writer owns one.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	err := w.bw.Flush()
	w.closed = true
	if w.file != nil {
		if cerr := w.file.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
