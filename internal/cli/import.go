package cli

import (
	"flag"
	"fmt"
	"io"
	"log"

	"github.com/reallyoldfogie/ranp-go/ranp/importer"
	"github.com/reallyoldfogie/ranp-go/ranp/recorder"
)

// ImportFunc converts the movie at path into rec.
type ImportFunc func(path string, rec *recorder.Recorder, opts importer.Options) (importer.Result, error)

// RunImport implements the shared "<tool> [options] <in> <out>" importer
// command line and returns the process exit code.
func RunImport(name string, args []string, stdout, stderr io.Writer, fn ImportFunc) int {
	logger := log.New(stderr, "", log.LstdFlags)

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Use: %s [options] <input file> <output.ranp>\n\nOptions:\n", name)
		fs.PrintDefaults()
	}
	strict := fs.Bool("strict", false, "Fail on header validation problems instead of warning")
	trailer := fs.Bool("trailer", true, "Append 60 empty frames after the last frame")
	configPath := fs.String("c", "", "YAML config file")

	files, err := Parse(fs, args)
	if err == flag.ErrHelp {
		return 0
	}
	if err != nil {
		return 1
	}
	if len(files) != 2 {
		fmt.Fprintln(stderr, "Missing required arguments.")
		fs.Usage()
		return 1
	}

	conf, err := LoadConfig(*configPath)
	if err != nil {
		logger.Printf("config: %v", err)
		return 1
	}
	opts := conf.ImportOptions()
	if IsSet(fs, "strict") {
		opts.Strict = *strict
	}
	if IsSet(fs, "trailer") {
		opts.Trailer = *trailer
	}
	opts.Logf = logger.Printf

	rec, err := recorder.NewFile(files[1])
	if err != nil {
		logger.Printf("%s: %v", name, err)
		return 1
	}
	res, err := fn(files[0], rec, opts)
	if cerr := rec.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		logger.Printf("%s: %v", name, err)
		return 1
	}
	fmt.Fprintf(stdout, "wrote %s (%d frames, %d resets, %d skipped lines)\n",
		files[1], res.Frames, res.Resets, res.Skipped)
	return 0
}
