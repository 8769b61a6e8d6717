// Command ranp2ranp rewrites a RANP stream onto a new timeline.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/reallyoldfogie/ranp-go/internal/cli"
	"github.com/reallyoldfogie/ranp-go/ranp"
	"github.com/reallyoldfogie/ranp-go/ranp/retime"
)

const usage = `Use: ranp2ranp [options] <from file> <to file>
Options:
    -d, --delay <reset delay>
            : Delay input after every reset. Delay may be negative.
    -r, --reset-wait
            : Ignore input up to the first reset.
    -t, --trailer
            : Append 60 empty frames after the last frame.
    -x, --preserve-extra
            : Keep payload bytes past the last full word.
    -c, --config <file.yaml>
            : Read defaults from a config file.
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	logger := log.New(stderr, "", log.LstdFlags)

	fs := flag.NewFlagSet("ranp2ranp", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }

	var (
		delay         int
		resetWait     bool
		trailer       bool
		preserveExtra bool
		help          bool
		configPath    string
	)
	fs.IntVar(&delay, "d", 0, "")
	fs.IntVar(&delay, "delay", 0, "")
	fs.BoolVar(&resetWait, "r", false, "")
	fs.BoolVar(&resetWait, "reset-wait", false, "")
	fs.BoolVar(&trailer, "t", false, "")
	fs.BoolVar(&trailer, "trailer", false, "")
	fs.BoolVar(&preserveExtra, "x", false, "")
	fs.BoolVar(&preserveExtra, "preserve-extra", false, "")
	fs.StringVar(&configPath, "c", "", "")
	fs.StringVar(&configPath, "config", "", "")
	fs.BoolVar(&help, "h", false, "")
	fs.BoolVar(&help, "help", false, "")

	files, err := cli.Parse(fs, args)
	if err != nil {
		return 1
	}
	if help {
		fmt.Fprint(stdout, usage)
		return 0
	}
	if len(files) > 2 {
		fmt.Fprintf(stderr, "Unrecognized argument %s\n", files[2])
		return 1
	}
	if len(files) < 2 {
		fmt.Fprintln(stderr, "Missing required arguments.")
		return 1
	}

	conf, err := cli.LoadConfig(configPath)
	if err != nil {
		logger.Printf("config: %v", err)
		return 1
	}
	if cli.IsSet(fs, "d", "delay") {
		conf.Retime.DelayPerReset = delay
	}
	if cli.IsSet(fs, "r", "reset-wait") {
		conf.Retime.ResetWait = resetWait
	}
	if cli.IsSet(fs, "t", "trailer") {
		conf.Retime.Trailer = trailer
	}
	if err := conf.Validate(); err != nil {
		fmt.Fprintf(stderr, "Invalid options: %v\n", err)
		return 1
	}
	cfg := conf.RetimeOptions()

	stats, err := convert(files[0], files[1], cfg, preserveExtra)
	if err != nil {
		logger.Printf("ranp2ranp: %v", err)
		return 1
	}
	logger.Printf("[ranp2ranp] %s -> %s: read %d, wrote %d, dropped %d, padded %d, final delay %d",
		files[0], files[1], stats.Read, stats.Written, stats.Dropped, stats.Padded, stats.Final.Delay)
	return 0
}

func convert(from, to string, cfg retime.Config, preserveExtra bool) (retime.Stats, error) {
	in, err := os.Open(from)
	if err != nil {
		return retime.Stats{}, err
	}
	defer in.Close()

	w, err := ranp.Create(to)
	if err != nil {
		return retime.Stats{}, err
	}
	w.PreserveExtra = preserveExtra

	stats, err := retime.Run(ranp.NewReader(in), w, cfg)
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	return stats, err
}
