package cdt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewNeverRunsStopIf48k(t *testing.T) {
	header := []byte{'Z', 'X', 'T', 'a', 'p', 'e', '!', 0x1a, 0x01, 0x14}
	block := []byte{0x2A, 0x00, 0x00, 0x00, 0x00}

	engine, err := New(bytes.NewReader(append(header, block...)))
	require.NoError(t, err)

	require.NoError(t, engine.ProcessClocks(1))
	// StopIf48k only stops playback on a 48K host; a CDT engine is never
	// configured as one, so the tape reaches ordinary end of stream
	// instead (also a stop, but by a different path).
	require.True(t, engine.CanFastLoad())
	require.True(t, engine.TapeEnded())
}
