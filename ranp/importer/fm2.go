package importer

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/reallyoldfogie/ranp-go/ranp"
	"github.com/reallyoldfogie/ranp-go/ranp/recorder"
)

// FCEUX input log record: |commands|RLDUTSBA|...
// See http://www.fceux.com/web/FM2.html
var fm2Line = regexp.MustCompile(`^\|([0-9]*)\|(........)\|.*$`)

// fm2Buttons maps the FM2 controller columns, in order, to RANP buttons.
var fm2Buttons = [8]ranp.Buttons{
	ranp.ButtonRight,
	ranp.ButtonLeft,
	ranp.ButtonDown,
	ranp.ButtonUp,
	ranp.ButtonStart,
	ranp.ButtonSelect,
	ranp.ButtonB,
	ranp.ButtonA,
}

const fm2SoftReset = 1

// FM2 imports an FCEUX movie. Header lines and anything else that does not
// start with '|' are ignored. Bit 0 of a record's command field emits a
// RESET before that frame's input.
func FM2(r io.Reader, rec *recorder.Recorder, opts Options) (Result, error) {
	var res Result
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] != '|' {
			continue
		}
		parts := fm2Line.FindStringSubmatch(line)
		if parts == nil {
			opts.logf("[fm2] WARNING: unrecognized line: %s", line)
			res.Skipped++
			continue
		}

		commands := 0
		if parts[1] != "" {
			n, err := strconv.Atoi(parts[1])
			if err != nil {
				opts.logf("[fm2] WARNING: bad command field %q", parts[1])
				res.Skipped++
				continue
			}
			commands = n
		}
		if commands&fm2SoftReset != 0 {
			if err := rec.Reset(); err != nil {
				return res, err
			}
		}
		if commands&^fm2SoftReset != 0 {
			opts.logf("[fm2] WARNING: unrecognized command %d at frame %d", commands, rec.Frame())
		}

		if err := rec.Input(fm2Controls(parts[2])); err != nil {
			return res, err
		}
	}
	if err := sc.Err(); err != nil {
		return res, fmt.Errorf("fm2: read: %w", err)
	}
	err := finish(rec, opts, &res)
	return res, err
}

// fm2Controls decodes one controller column. '.' and ' ' are released;
// any other character is pressed.
func fm2Controls(s string) ranp.Buttons {
	var b ranp.Buttons
	for i := 0; i < len(fm2Buttons) && i < len(s); i++ {
		if s[i] != '.' && s[i] != ' ' {
			b |= fm2Buttons[i]
		}
	}
	return b
}
