// Command smv2ranp converts a Snes9x .smv movie into a RANP stream.
package main

import (
	"os"

	"github.com/reallyoldfogie/ranp-go/internal/cli"
	"github.com/reallyoldfogie/ranp-go/ranp/importer"
	"github.com/reallyoldfogie/ranp-go/ranp/recorder"
)

func main() {
	os.Exit(cli.RunImport("smv2ranp", os.Args[1:], os.Stdout, os.Stderr, importSMV))
}

func importSMV(path string, rec *recorder.Recorder, opts importer.Options) (importer.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return importer.Result{}, err
	}
	return importer.SMV(data, rec, opts)
}
