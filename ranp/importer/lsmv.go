package importer

import (
	"archive/zip"
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/reallyoldfogie/ranp-go/ranp"
	"github.com/reallyoldfogie/ranp-go/ranp/recorder"
)

// lsnes input record for a single gamepad: F[.][ 0][ 0]|BYsSudlrAXLR
// See http://tasvideos.org/Lsnes/Movieformat.html
var lsmvLine = regexp.MustCompile(`^F\.?( 0)?( 0)?\|(............)$`)

// lsmvInputEntry is the member of an .lsmv archive that holds the input log.
const lsmvInputEntry = "input"

// LSMV imports an lsnes input log. lsnes movies have no reset records, so a
// RESET at frame 0 is written first. The controller columns are already in
// RANP bit order.
func LSMV(r io.Reader, rec *recorder.Recorder, opts Options) (Result, error) {
	var res Result
	if err := rec.Reset(); err != nil {
		return res, err
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		parts := lsmvLine.FindStringSubmatch(line)
		if parts == nil {
			opts.logf("[lsmv] WARNING: unrecognized line: %s", line)
			res.Skipped++
			continue
		}
		if err := rec.Input(lsmvControls(parts[3])); err != nil {
			return res, err
		}
	}
	if err := sc.Err(); err != nil {
		return res, fmt.Errorf("lsmv: read: %w", err)
	}
	err := finish(rec, opts, &res)
	return res, err
}

func lsmvControls(s string) ranp.Buttons {
	var b ranp.Buttons
	for i := 0; i < len(ranp.ButtonChars) && i < len(s); i++ {
		if s[i] != '.' {
			b |= 1 << uint(i)
		}
	}
	return b
}

// OpenLSMV returns the input log at path. path may be an .lsmv archive, in
// which case its "input" member is read, or an already extracted input file.
func OpenLSMV(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(data, []byte("PK\x03\x04")) {
		return data, nil
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("lsmv: not a valid zip file: %w", err)
	}
	for _, f := range zr.File {
		if f.Name != lsmvInputEntry {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("lsmv: open %s: %w", f.Name, err)
		}
		defer rc.Close()
		b, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("lsmv: read %s: %w", f.Name, err)
		}
		return b, nil
	}
	return nil, fmt.Errorf("lsmv: missing required file: %s", lsmvInputEntry)
}
