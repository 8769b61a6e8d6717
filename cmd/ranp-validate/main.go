// Command ranp-validate checks that RANP streams decode cleanly and fit the
// replayer's receive buffer.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/reallyoldfogie/ranp-go/ranp"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ranp-validate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: ranp-validate [options] <movie.ranp> [movie2.ranp ...]\n\n")
		fmt.Fprintf(stderr, "Decodes each stream and reports its command and frame counts.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
	}

	verbose := fs.Bool("v", false, "Print each file name before checking it")
	quiet := fs.Bool("q", false, "Only report failures")
	dump := fs.Bool("dump", false, "Print every command as a RANPJ line")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return 1
	}

	failed := 0
	for _, file := range fs.Args() {
		name := filepath.Base(file)
		if _, err := os.Stat(file); err != nil {
			fmt.Fprintf(stderr, "FAIL %s: %v\n", name, err)
			failed++
			continue
		}

		if *verbose {
			fmt.Fprintf(stdout, "checking %s\n", file)
		}

		var s ranp.Summary
		var err error
		if *quiet {
			s, err = ranp.ValidateFileQuiet(file)
		} else {
			s, err = ranp.ValidateFile(file)
		}
		if err == nil && *dump {
			err = dumpFile(file, stdout)
		}
		if err != nil {
			fmt.Fprintf(stderr, "FAIL %s: %v\n", name, err)
			failed++
			continue
		}

		if !*quiet {
			fmt.Fprintf(stdout, "ok   %s: %d commands, %d resets, frames %d..%d\n",
				name, s.Commands, s.Resets, s.FirstFrame, s.LastFrame)
		}
	}

	if failed > 0 {
		if !*quiet && fs.NArg() > 1 {
			fmt.Fprintf(stderr, "%d of %d streams failed\n", failed, fs.NArg())
		}
		return 1
	}
	return 0
}

// dumpFile writes one RANPJ object per line.
func dumpFile(path string, out io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	bw := bufio.NewWriter(out)
	enc := json.NewEncoder(bw)
	r := ranp.NewReader(f)
	for {
		cmd, err := r.ReadCommand()
		if err == io.EOF {
			break
		}
		if err != nil {
			bw.Flush()
			return err
		}
		if err := enc.Encode(cmd); err != nil {
			return err
		}
	}
	return bw.Flush()
}
