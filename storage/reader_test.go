package storage

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReaderReadShortAndLong(t *testing.T) {
	data := []byte{0x34, 0x12, 0x78, 0x56, 0x34, 0x12}
	r := NewReader(bytes.NewReader(data))

	short, err := r.ReadShort()
	require.NoError(t, err)
	require.Equal(t, uint16(0x1234), short)

	long, err := r.ReadLong()
	require.NoError(t, err)
	require.Equal(t, uint32(0x12345678), long)
}

func TestReaderPeekDoesNotAdvance(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0xAA, 0xBB, 0xCC}))

	peeked, err := r.Peek(2)
	require.NoError(t, err)
	require.Equal(t, []byte{0xAA, 0xBB}, peeked)

	b, err := r.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(0xAA), b)
}

func TestReaderSeekAccountsForBufferedBytes(t *testing.T) {
	data := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	r := NewReader(bytes.NewReader(data))

	// Fill the buffer well past the first byte.
	_, err := r.Peek(5)
	require.NoError(t, err)

	b, err := r.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(0), b)

	// Seeking relative to the current logical position (1) must land on
	// byte 3, not byte 3 + however many bytes are sitting in the buffer.
	pos, err := r.Seek(2, io.SeekCurrent)
	require.NoError(t, err)
	require.Equal(t, int64(3), pos)

	next, err := r.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(3), next)
}

func TestReaderSeekStart(t *testing.T) {
	data := []byte{0xAA, 0xBB, 0xCC, 0xDD}
	r := NewReader(bytes.NewReader(data))

	_, err := r.ReadExact(3)
	require.NoError(t, err)

	pos, err := r.Seek(0, io.SeekStart)
	require.NoError(t, err)
	require.Equal(t, int64(0), pos)

	b, err := r.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(0xAA), b)
}

func TestReaderReadExactShortSourceErrors(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0x01}))
	_, err := r.ReadExact(4)
	require.Error(t, err)
}
