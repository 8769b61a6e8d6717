package retime

import (
	"bytes"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reallyoldfogie/ranp-go/ranp"
)

func in(frame uint32, b ranp.Buttons) ranp.Command { return ranp.NewInput(frame, b) }
func reset(frame uint32) ranp.Command              { return ranp.NewReset(frame) }

func frames(t *testing.T, cmds []ranp.Command) []uint32 {
	t.Helper()
	var out []uint32
	for _, c := range cmds {
		if f, ok := c.Frame(); ok {
			out = append(out, f)
		}
	}
	return out
}

func TestIdentity(t *testing.T) {
	stream := []ranp.Command{
		{Op: ranp.Info, Payload: []uint32{1, 2}},
		reset(0),
		in(0, ranp.ButtonA),
		{Op: ranp.Opcode(0x99), Payload: []uint32{5}},
		in(1, 0),
		{Op: ranp.Mode, Payload: []uint32{2, 0x40000000}},
		reset(2),
		in(2, ranp.ButtonB),
	}
	got, err := Apply(Config{}, stream)
	require.NoError(t, err)
	if diff := cmp.Diff(stream, got); diff != "" {
		t.Errorf("identity config changed the stream (-want +got):\n%s", diff)
	}
}

func TestDelayPerReset(t *testing.T) {
	stream := []ranp.Command{
		reset(0),
		in(0, ranp.ButtonB),
		in(1, 0),
		reset(2),
		in(2, ranp.ButtonA),
	}
	got, err := Apply(Config{DelayPerReset: 3}, stream)
	require.NoError(t, err)

	want := []ranp.Command{
		reset(0),
		in(0, 0), in(1, 0), in(2, 0), // padding after first reset
		in(3, ranp.ButtonB),
		in(4, 0),
		reset(5),
		in(5, 0), in(6, 0), in(7, 0), // padding after second reset
		in(8, ranp.ButtonA),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestResetWithoutLeadingReset(t *testing.T) {
	stream := []ranp.Command{
		in(0, ranp.ButtonB),
		in(1, 0),
		reset(2),
		in(2, ranp.ButtonA),
		in(3, 0),
	}
	got, err := Apply(Config{DelayPerReset: 3}, stream)
	require.NoError(t, err)

	want := []ranp.Command{
		in(0, ranp.ButtonB),
		in(1, 0),
		reset(2),
		in(2, 0), in(3, 0), in(4, 0),
		in(5, ranp.ButtonA),
		in(6, 0),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestNegativeDelayDropsBelowFloor(t *testing.T) {
	stream := []ranp.Command{
		reset(0), // no padding for a negative delay; delay -2, floor 0
		in(0, 0), // -2: dropped
		in(1, 0), // -1: dropped
		in(2, 0), // 0: exactly on the floor, kept
		reset(3), // 1; delay -4, floor 1
		in(3, 0), // -1: dropped
		in(4, 0), // 0: dropped
		in(5, 0), // 1: on the floor, kept
		in(6, ranp.ButtonA),
	}
	got, err := Apply(Config{DelayPerReset: -2}, stream)
	require.NoError(t, err)

	want := []ranp.Command{
		reset(0),
		in(0, 0),
		reset(1),
		in(1, 0),
		in(2, ranp.ButtonA),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestFloorEnforcement(t *testing.T) {
	stream := []ranp.Command{
		reset(0), in(0, 0), in(1, 0), in(2, 0), in(3, 0),
		reset(4), in(1, 0), in(2, 0), in(3, 0), in(4, 0), in(9, 0),
	}
	cfg := Config{DelayPerReset: 2}
	st := State{}
	for _, c := range stream {
		var out []ranp.Command
		var err error
		floor := st.Floor
		st, out, err = Step(cfg, st, c)
		require.NoError(t, err)
		for _, f := range frames(t, out) {
			assert.GreaterOrEqual(t, int64(f), floor)
		}
	}
	assert.Equal(t, int64(4), st.Delay)
	assert.Equal(t, int64(6), st.Floor)
}

func TestWaitForReset(t *testing.T) {
	stream := []ranp.Command{
		{Op: ranp.Info, Payload: []uint32{1}},
		in(0, ranp.ButtonA),
		in(1, ranp.ButtonA),
		{Op: ranp.Opcode(0x99)},
		reset(2),
		in(2, ranp.ButtonB),
		{Op: ranp.Opcode(0x99)},
		reset(3),
	}
	got, err := Apply(Config{WaitForReset: true}, stream)
	require.NoError(t, err)
	if diff := cmp.Diff(stream[4:], got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	got, err = Apply(Config{WaitForReset: true}, stream[:4])
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGateStateCarriesLastFrame(t *testing.T) {
	// Frames seen before the gate opens still move LastFrame.
	st, out, err := Step(Config{WaitForReset: true}, State{}, in(7, 0))
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.False(t, st.GateOpen)
	assert.Equal(t, int64(7), st.LastFrame)

	st, out, err = Step(Config{WaitForReset: true}, st, reset(8))
	require.NoError(t, err)
	assert.Len(t, out, 1)
	assert.True(t, st.GateOpen)
}

func TestTrailer(t *testing.T) {
	stream := []ranp.Command{reset(0), in(0, 0), in(1, ranp.ButtonB), {Op: ranp.Info}}
	got, err := Apply(Config{Trailer: true}, stream)
	require.NoError(t, err)
	require.Len(t, got, len(stream)+ranp.TrailerFrames)

	tail := got[len(stream):]
	for i, c := range tail {
		view, ok := c.Input()
		require.True(t, ok)
		assert.Equal(t, uint32(2+i), view.Frame)
		assert.Zero(t, view.Buttons)
	}

	got, err = Apply(Config{Trailer: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), frames(t, got)[0])
}

func TestStepDoesNotMutateInput(t *testing.T) {
	c := in(5, 0)
	_, out, err := Step(Config{}, State{Delay: 10}, c)
	require.NoError(t, err)
	assert.Equal(t, uint32(5), c.Payload[0])
	assert.Equal(t, uint32(15), out[0].Payload[0])
}

func TestEmptyPayloadPassesThrough(t *testing.T) {
	c := ranp.Command{Op: ranp.Reset}
	st, out, err := Step(Config{DelayPerReset: 4}, State{Delay: 3}, c)
	require.NoError(t, err)
	assert.Equal(t, []ranp.Command{c}, out)
	assert.Equal(t, int64(3), st.Delay)
}

func TestFrameOverflow(t *testing.T) {
	_, _, err := Step(Config{}, State{Delay: 1}, in(math.MaxUint32, 0))
	assert.ErrorIs(t, err, ErrFrameOverflow)
}

func TestTrailerOverflow(t *testing.T) {
	cfg := Config{Trailer: true}

	tr, err := Finish(cfg, State{LastFrame: math.MaxUint32 - ranp.TrailerFrames})
	require.NoError(t, err)
	require.Len(t, tr, ranp.TrailerFrames)
	last, _ := tr[len(tr)-1].Frame()
	assert.Equal(t, uint32(math.MaxUint32), last)

	_, err = Finish(cfg, State{LastFrame: math.MaxUint32 - ranp.TrailerFrames + 1})
	assert.ErrorIs(t, err, ErrFrameOverflow)

	_, err = Finish(Config{}, State{LastFrame: math.MaxUint32})
	assert.NoError(t, err)

	got, err := Apply(cfg, []ranp.Command{in(math.MaxUint32-10, 0)})
	assert.ErrorIs(t, err, ErrFrameOverflow)
	assert.Len(t, got, 1)
}

func TestRun(t *testing.T) {
	var src bytes.Buffer
	w := ranp.NewWriter(&src)
	require.NoError(t, w.WriteCommands([]ranp.Command{
		in(0, 0), reset(1), in(1, ranp.ButtonA), in(2, 0),
	}))
	require.NoError(t, w.Close())

	var dst bytes.Buffer
	out := ranp.NewWriter(&dst)
	stats, err := Run(ranp.NewReader(&src), out, Config{DelayPerReset: 1, WaitForReset: true, Trailer: true})
	require.NoError(t, err)
	require.NoError(t, out.Close())

	assert.Equal(t, 4, stats.Read)
	assert.Equal(t, 1, stats.Dropped)
	assert.Equal(t, 1, stats.Padded)
	assert.Equal(t, 4+ranp.TrailerFrames, stats.Written)
	assert.Equal(t, State{Delay: 1, Floor: 1, LastFrame: 3, GateOpen: true}, stats.Final)

	got, err := ranp.DecodeAll(dst.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 1, 2, 3}, frames(t, got[:4]))
	assert.Equal(t, ranp.Reset, got[0].Op)
	assert.Equal(t, uint32(4), frames(t, got[4:])[0])
}

func TestRunTruncatedInput(t *testing.T) {
	buf := ranp.Encode(reset(0))
	buf = append(buf, ranp.Encode(in(0, 0))[:10]...)

	var dst bytes.Buffer
	out := ranp.NewWriter(&dst)
	stats, err := Run(ranp.NewReader(bytes.NewReader(buf)), out, Config{})
	assert.ErrorIs(t, err, ranp.ErrTruncated)
	assert.Equal(t, 1, stats.Read)
}

func TestRunTrailerOverflow(t *testing.T) {
	buf := ranp.Encode(in(math.MaxUint32, 0))

	var dst bytes.Buffer
	out := ranp.NewWriter(&dst)
	stats, err := Run(ranp.NewReader(bytes.NewReader(buf)), out, Config{Trailer: true})
	assert.ErrorIs(t, err, ErrFrameOverflow)
	assert.Equal(t, 1, stats.Written)
	assert.Equal(t, int64(math.MaxUint32), stats.Final.LastFrame)
}

func TestRunLargeUnknownPayload(t *testing.T) {
	big := ranp.Command{Op: ranp.Opcode(0x99), Payload: make([]uint32, 1100)}
	big.Payload[0] = 7
	src := append(ranp.Encode(reset(0)), ranp.Encode(big)...)

	var dst bytes.Buffer
	out := ranp.NewWriter(&dst)
	stats, err := Run(ranp.NewReader(bytes.NewReader(src)), out, Config{})
	require.NoError(t, err)
	require.NoError(t, out.Close())
	assert.Equal(t, 2, stats.Written)
	assert.Equal(t, src, dst.Bytes())
}
