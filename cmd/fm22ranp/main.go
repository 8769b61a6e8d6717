// Command fm22ranp converts an FCEUX .fm2 movie into a RANP stream.
package main

import (
	"os"

	"github.com/reallyoldfogie/ranp-go/internal/cli"
	"github.com/reallyoldfogie/ranp-go/ranp/importer"
	"github.com/reallyoldfogie/ranp-go/ranp/recorder"
)

func main() {
	os.Exit(cli.RunImport("fm22ranp", os.Args[1:], os.Stdout, os.Stderr, importFM2))
}

func importFM2(path string, rec *recorder.Recorder, opts importer.Options) (importer.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return importer.Result{}, err
	}
	defer f.Close()
	return importer.FM2(f, rec, opts)
}
