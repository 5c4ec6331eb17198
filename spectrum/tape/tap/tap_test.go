package tap

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

const bigStep = 10_000_000

func driveToStop(t *testing.T, e interface {
	ProcessClocks(int) error
	CurrentBit() bool
	CanFastLoad() bool
}, maxSteps int) (edges int) {
	t.Helper()
	last := e.CurrentBit()
	for i := 0; i < maxSteps; i++ {
		require.NoError(t, e.ProcessClocks(bigStep))
		if bit := e.CurrentBit(); bit != last {
			edges++
			last = bit
		}
		if e.CanFastLoad() {
			return edges
		}
	}
	t.Fatalf("tape did not stop within %d steps", maxSteps)
	return 0
}

func TestTapBlockPlaysLikeStandardSpeedData(t *testing.T) {
	var raw bytes.Buffer
	var length [2]byte
	binary.LittleEndian.PutUint16(length[:], 2)
	raw.Write(length[:])
	raw.Write([]byte{0x00, 0xFF})

	engine, err := New(bytes.NewReader(raw.Bytes()), true)
	require.NoError(t, err)

	// Same shape as a TZX StandardSpeedData block with flag 0x00 and a
	// single 0xFF data byte: 8063 pilot + 1 sync + 32 bit toggles + 1
	// pause toggle.
	edges := driveToStop(t, engine, 8200)
	require.Equal(t, 8063+1+32+1, edges)
}

func TestTapTruncatedTrailingBlockIsTolerated(t *testing.T) {
	var raw bytes.Buffer
	var length [2]byte
	binary.LittleEndian.PutUint16(length[:], 10)
	raw.Write(length[:])
	raw.Write([]byte{0x00, 0x01, 0x02}) // declares 10 bytes, only 3 follow

	engine, err := New(bytes.NewReader(raw.Bytes()), true)
	require.NoError(t, err)
	require.NoError(t, engine.ProcessClocks(1))
	require.True(t, engine.CanFastLoad())
}
