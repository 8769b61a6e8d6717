// Command lsmv2ranp converts an lsnes movie into a RANP stream. The input
// may be the .lsmv archive itself or its extracted "input" member.
package main

import (
	"bytes"
	"os"

	"github.com/reallyoldfogie/ranp-go/internal/cli"
	"github.com/reallyoldfogie/ranp-go/ranp/importer"
	"github.com/reallyoldfogie/ranp-go/ranp/recorder"
)

func main() {
	os.Exit(cli.RunImport("lsmv2ranp", os.Args[1:], os.Stdout, os.Stderr, importLSMV))
}

func importLSMV(path string, rec *recorder.Recorder, opts importer.Options) (importer.Result, error) {
	data, err := importer.OpenLSMV(path)
	if err != nil {
		return importer.Result{}, err
	}
	return importer.LSMV(bytes.NewReader(data), rec, opts)
}
