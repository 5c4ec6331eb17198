// Package storage adapts an ordinary file, in-memory buffer, or embedded
// asset into a buffered, seekable byte source; the CLI hands one to the
// TZX and CDT readers.
package storage

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// Reader wraps an io.ReadSeeker with buffered peeking and the small
// fixed-width reads the tape formats need. It has no business
// logic of its own.
type Reader struct {
	src io.ReadSeeker
	buf *bufio.Reader
}

// NewReader wraps src for use by the format-specific readers.
func NewReader(src io.ReadSeeker) *Reader {
	return &Reader{
		src: src,
		buf: bufio.NewReader(src),
	}
}

// Read implements io.Reader, so a *Reader can be passed directly to
// binary.Read and io.ReadFull.
func (r *Reader) Read(p []byte) (int, error) {
	return r.buf.Read(p)
}

// ReadByte reads and returns a single byte.
func (r *Reader) ReadByte() (byte, error) {
	return r.buf.ReadByte()
}

// Peek returns the next n bytes without advancing the reader.
func (r *Reader) Peek(n int) ([]byte, error) {
	return r.buf.Peek(n)
}

// ReadShort reads a little-endian uint16.
func (r *Reader) ReadShort() (uint16, error) {
	var b [2]byte
	if _, err := io.ReadFull(r.buf, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b[:]), nil
}

// ReadLong reads a little-endian uint32.
func (r *Reader) ReadLong() (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r.buf, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

// ReadExact reads exactly n bytes, or returns an error (including
// io.ErrUnexpectedEOF / io.EOF for a short source).
func (r *Reader) ReadExact(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(r.buf, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Seek repositions the reader. whence is one of io.SeekStart,
// io.SeekCurrent or io.SeekEnd. Buffered-but-unread bytes are discarded,
// since the underlying source's position only reflects what has been
// physically read.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	if whence == io.SeekCurrent {
		// Account for bytes already buffered but not yet consumed by the
		// caller: the buffer sits ahead of the logical read position.
		offset -= int64(r.buf.Buffered())
	}
	pos, err := r.src.Seek(offset, whence)
	if err != nil {
		return 0, errors.Wrap(err, "seek failed")
	}
	r.buf.Reset(r.src)
	return pos, nil
}
