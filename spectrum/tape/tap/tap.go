// Package tap bridges the plain .TAP cassette format into the TZX
// engine. TAP carries no file header and no block IDs: it is simply a
// sequence of length-prefixed data blocks, byte-for-byte identical to
// the payload of a TZX StandardSpeedData (0x10) block. This is the
// "delegate to them by identity" relationship spec.md §1 calls out for
// non-TZX formats, made concrete: we synthesize the missing TZX framing
// once, in memory, and hand the result to the ordinary tape.Engine.
package tap

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"tzxtape/spectrum/tape"
)

// defaultPauseMillis is the silence TAP convention places between
// blocks; TAP itself carries no per-block pause field.
const defaultPauseMillis = 1000

// New reads a complete .TAP stream and returns an Engine primed to play
// it as a synthetic TZX tape.
func New(r io.Reader, is48k bool) (*tape.Engine, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading tap source")
	}

	synthetic, err := synthesizeTZX(raw)
	if err != nil {
		return nil, err
	}

	return tape.FromAsset(bytes.NewReader(synthetic), tape.Config{Is48K: is48k})
}

func synthesizeTZX(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("ZXTape!")
	buf.WriteByte(0x1a)
	buf.WriteByte(1)  // major version
	buf.WriteByte(20) // minor version

	pos := 0
	for pos+2 <= len(raw) {
		size := int(binary.LittleEndian.Uint16(raw[pos : pos+2]))
		pos += 2
		if pos+size > len(raw) {
			// Truncated trailing block: treat like end of tape, the
			// same tolerant policy the TZX block reader applies to a
			// short read.
			break
		}

		buf.WriteByte(0x10)
		var header [4]byte
		binary.LittleEndian.PutUint16(header[0:2], uint16(defaultPauseMillis))
		binary.LittleEndian.PutUint16(header[2:4], uint16(size))
		buf.Write(header[:])
		buf.Write(raw[pos : pos+size])
		pos += size
	}

	return buf.Bytes(), nil
}
