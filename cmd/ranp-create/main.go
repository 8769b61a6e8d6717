// Command ranp-create writes a RANP stream from command-line specs or a
// RANPJ file.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/reallyoldfogie/ranp-go/ranp"
)

type commandFlags []ranp.Command

func (c *commandFlags) String() string { return fmt.Sprintf("%d commands", len(*c)) }

// Format: op[:word...]  e.g., RESET:0, INPUT:12:0:0x101:0:0, 0x99
func (c *commandFlags) Set(v string) error {
	cmd, err := parseCommand(v)
	if err != nil {
		return err
	}
	*c = append(*c, cmd)
	return nil
}

func parseCommand(v string) (ranp.Command, error) {
	parts := strings.Split(v, ":")
	op, err := ranp.ParseOpcode(parts[0])
	if err != nil {
		return ranp.Command{}, fmt.Errorf("invalid --cmd %q: %w", v, err)
	}
	cmd := ranp.Command{Op: op}
	for i, p := range parts[1:] {
		w, err := parseUint(p)
		if err != nil {
			return ranp.Command{}, fmt.Errorf("invalid --cmd %q word %d: %w", v, i, err)
		}
		cmd.Payload = append(cmd.Payload, uint32(w))
	}
	return cmd, nil
}

func parseUint(s string) (uint64, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return strconv.ParseUint(s[2:], 16, 32)
	}
	return strconv.ParseUint(s, 10, 32)
}

func loadJSON(path string) ([]ranp.Command, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cmds []ranp.Command
	if err := json.Unmarshal(data, &cmds); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cmds, nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	logger := log.New(stderr, "", log.LstdFlags)

	fs := flag.NewFlagSet("ranp-create", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var out string
	var jsonPath string
	var trailer bool
	var cmds commandFlags

	fs.StringVar(&out, "out", "example.ranp", "Output .ranp path")
	fs.StringVar(&jsonPath, "json", "", "RANPJ file: JSON array of commands, written before any --cmd")
	fs.BoolVar(&trailer, "trailer", false, "Append 60 empty frames after the last frame")
	fs.Var(&cmds, "cmd", "Command spec op[:word...] (repeatable)")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	var all []ranp.Command
	if jsonPath != "" {
		fromJSON, err := loadJSON(jsonPath)
		if err != nil {
			logger.Printf("load json: %v", err)
			return 1
		}
		all = append(all, fromJSON...)
	}
	all = append(all, cmds...)
	if trailer {
		tr, err := trailerAfter(all)
		if err != nil {
			logger.Printf("trailer: %v", err)
			return 1
		}
		all = append(all, tr...)
	}

	w, err := ranp.Create(out)
	if err != nil {
		logger.Printf("create writer: %v", err)
		return 1
	}
	if err := w.WriteCommands(all); err != nil {
		w.Close()
		logger.Printf("write command: %v", err)
		return 1
	}
	n := w.Count()
	if err := w.Close(); err != nil {
		logger.Printf("close: %v", err)
		return 1
	}

	fmt.Fprintf(stdout, "wrote %s (%d commands)\n", out, n)
	return 0
}

// trailerAfter returns the trailer that follows the highest frame in cmds.
func trailerAfter(cmds []ranp.Command) ([]ranp.Command, error) {
	var last uint32
	for _, c := range cmds {
		if f, ok := c.Frame(); ok && f > last {
			last = f
		}
	}
	if last == math.MaxUint32 {
		return nil, fmt.Errorf("%w: trailer after frame %d", ranp.ErrFrameOverflow, last)
	}
	return ranp.Trailer(last + 1)
}
