// Package headers decodes the 19-byte ROM loading header that opens a
// Standard/Turbo Speed Data block's payload when its flag byte is 0x00.
// This is purely a display concern for the CLI's `info` listing; the
// pulse state machine itself only ever inspects the flag byte (see
// spectrum/tape's Block Dispatcher) to choose a pilot pulse count.
package headers

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"
)

// Size is the fixed length of a ROM loading header.
const Size = 19

// Header mirrors the Spectrum ROM's own header layout.
type Header struct {
	Flag       uint8
	DataType   uint8
	Filename   [10]byte
	DataLength uint16
	Param1     uint16
	Param2     uint16
	Checksum   uint8
}

// Decode parses a ROM loading header from the start of payload.
func Decode(payload []byte) (Header, error) {
	if len(payload) < Size {
		return Header{}, errors.Errorf("header block too short: got %d bytes, want %d", len(payload), Size)
	}
	var h Header
	if err := binary.Read(bytes.NewReader(payload[:Size]), binary.LittleEndian, &h); err != nil {
		return Header{}, errors.Wrap(err, "decoding rom header")
	}
	return h, nil
}

// TypeName returns the human-readable name of the header's data type.
func (h Header) TypeName() string {
	switch h.DataType {
	case 0:
		return "Program"
	case 1:
		return "Number array"
	case 2:
		return "Character array"
	case 3:
		return "Bytes"
	default:
		return "Unknown"
	}
}

// String formats the header for CLI listing output.
func (h Header) String() string {
	name := bytes.TrimRight(h.Filename[:], " ")
	return fmt.Sprintf("%-16s %q (%d bytes)", h.TypeName(), name, h.DataLength)
}
