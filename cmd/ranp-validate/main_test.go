package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reallyoldfogie/ranp-go/ranp"
)

func writeStream(t *testing.T, path string, cmds ...ranp.Command) {
	t.Helper()
	w, err := ranp.Create(path)
	require.NoError(t, err)
	require.NoError(t, w.WriteCommands(cmds))
	require.NoError(t, w.Close())
}

func TestDumpFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movie.ranp")
	writeStream(t, path,
		ranp.NewReset(0),
		ranp.NewInput(0, ranp.ButtonA),
		ranp.Command{Op: ranp.Opcode(0x99), Payload: []uint32{1}},
	)

	var out bytes.Buffer
	require.NoError(t, dumpFile(path, &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.JSONEq(t, `{"cmd":"RESET","payload":[0]}`, lines[0])
	assert.JSONEq(t, `{"cmd":"INPUT","frame":0,"input":256}`, lines[1])
	assert.JSONEq(t, `{"cmd":153,"payload":[1]}`, lines[2])
}

func TestDumpFileTruncated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.ranp")
	data := append(ranp.Encode(ranp.NewReset(0)), ranp.Encode(ranp.NewInput(1, 0))[:12]...)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	var out bytes.Buffer
	err := dumpFile(path, &out)
	assert.ErrorIs(t, err, ranp.ErrTruncated)
	assert.JSONEq(t, `{"cmd":"RESET","payload":[0]}`, strings.TrimSpace(out.String()))

	assert.Error(t, dumpFile(filepath.Join(t.TempDir(), "missing.ranp"), &out))
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.ranp")
	writeStream(t, good, ranp.NewReset(0), ranp.NewInput(0, 0), ranp.NewInput(7, 0))

	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, run([]string{"-q", good}, &stdout, &stderr), stderr.String())
	assert.Empty(t, stdout.String())

	stdout.Reset()
	require.Equal(t, 0, run([]string{good}, &stdout, &stderr), stderr.String())
	assert.Contains(t, stdout.String(), "ok   good.ranp: 3 commands, 1 resets, frames 0..7")

	stdout.Reset()
	require.Equal(t, 0, run([]string{"-q", "-dump", good}, &stdout, &stderr), stderr.String())
	assert.Equal(t, 3, strings.Count(stdout.String(), "\n"))
}

func TestRunFailures(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.ranp")
	writeStream(t, good, ranp.NewReset(0))
	big := filepath.Join(dir, "big.ranp")
	writeStream(t, big, ranp.NewReset(0), ranp.Command{Op: ranp.Opcode(0x99), Payload: make([]uint32, 1100)})

	var stdout, stderr bytes.Buffer
	code := run([]string{"-q", good, big, filepath.Join(dir, "missing.ranp")}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "FAIL big.ranp")
	assert.Contains(t, stderr.String(), "payload too large")
	assert.Contains(t, stderr.String(), "FAIL missing.ranp")
	assert.NotContains(t, stderr.String(), "good.ranp")

	stderr.Reset()
	assert.Equal(t, 1, run(nil, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "Usage: ranp-validate")
}
