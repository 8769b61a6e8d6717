package importer

import (
	"encoding/binary"
	"fmt"
	"math/bits"

	"github.com/reallyoldfogie/ranp-go/ranp"
	"github.com/reallyoldfogie/ranp-go/ranp/recorder"
)

// Snes9x movie header fields.
// See http://tasvideos.org/EmulatorResources/Snes9x/SMV.html
const (
	smvMagic          = 0x534D561A // "SMV\x1A"
	smvOffVersion     = 0x04
	smvOffFrameCount  = 0x10
	smvOffControllers = 0x14
	smvOffOptions     = 0x15
	smvOffInput       = 0x1C
	smvHeaderSize     = 0x20
)

// smvButtons maps bits 4..15 of a controller word to RANP buttons.
var smvButtons = [16]ranp.Buttons{
	4:  ranp.ButtonR,
	5:  ranp.ButtonL,
	6:  ranp.ButtonX,
	7:  ranp.ButtonA,
	8:  ranp.ButtonRight,
	9:  ranp.ButtonLeft,
	10: ranp.ButtonDown,
	11: ranp.ButtonUp,
	12: ranp.ButtonStart,
	13: ranp.ButtonSelect,
	14: ranp.ButtonY,
	15: ranp.ButtonB,
}

// SMV imports a Snes9x movie. Only the first controller is read. SMV movies
// carry no reset records, so a RESET at frame 0 is written first.
func SMV(data []byte, rec *recorder.Recorder, opts Options) (Result, error) {
	var res Result
	if len(data) < smvHeaderSize {
		return res, fmt.Errorf("%w: smv header needs %d bytes, file has %d", ErrBadHeader, smvHeaderSize, len(data))
	}
	if err := smvCheckHeader(data, opts); err != nil {
		return res, err
	}
	if err := rec.Reset(); err != nil {
		return res, err
	}

	controllers := bits.OnesCount8(data[smvOffControllers] & 0x1F)
	frames := binary.LittleEndian.Uint32(data[smvOffFrameCount:])
	base := uint64(binary.LittleEndian.Uint32(data[smvOffInput:]))
	stride := uint64(2 * controllers)

	for fi := uint64(0); fi < uint64(frames); fi++ {
		off := base + stride*fi
		if off+2 > uint64(len(data)) {
			return res, fmt.Errorf("smv: frame %d of %d at offset %d is past end of file (%d bytes)",
				fi, frames, off, len(data))
		}
		word := binary.LittleEndian.Uint16(data[off:])
		if err := rec.Input(smvControls(word)); err != nil {
			return res, err
		}
	}
	err := finish(rec, opts, &res)
	return res, err
}

// smvCheckHeader validates magic, version and options. Problems are
// warnings unless opts.Strict.
func smvCheckHeader(data []byte, opts Options) error {
	report := func(format string, v ...interface{}) error {
		if opts.Strict {
			return fmt.Errorf("%w: %s", ErrBadHeader, fmt.Sprintf(format, v...))
		}
		opts.logf("[smv] ERROR: "+format, v...)
		return nil
	}
	version := binary.LittleEndian.Uint32(data[smvOffVersion:])
	if binary.BigEndian.Uint32(data) != smvMagic || (version != 1 && version != 4) {
		if err := report("this doesn't seem to be an SMV file (version %d)", version); err != nil {
			return err
		}
	}
	if data[smvOffOptions] != 1 {
		if err := report("SMV file uses unsupported options (%d)", data[smvOffOptions]); err != nil {
			return err
		}
	}
	return nil
}

func smvControls(word uint16) ranp.Buttons {
	var b ranp.Buttons
	for bit := 4; bit < len(smvButtons); bit++ {
		if word&(1<<uint(bit)) != 0 {
			b |= smvButtons[bit]
		}
	}
	return b
}
