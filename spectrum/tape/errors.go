package tape

import "github.com/pkg/errors"

// Sentinel errors matching the taxonomy of spec §7. IoError is not a
// sentinel: it is whatever the underlying ByteSource returned, wrapped
// with call-site context.
var (
	// ErrInvalidTapFile is returned when the 10-byte TZX header cannot be
	// read at Init. This is the only byte-source failure that surfaces
	// structurally rather than being absorbed into tapeEnded.
	ErrInvalidTapFile = errors.New("invalid tap file: could not read TZX header")

	// ErrInvalidTzxFile is returned when the block dispatcher expected a
	// payload byte but next_block_byte reported the block was already
	// exhausted.
	ErrInvalidTzxFile = errors.New("invalid tzx file: expected block data, found none")

	// ErrBadSignature is returned only when Config.StrictSignature is set
	// and the header's first 8 bytes are not "ZXTape!\x1a". See
	// DESIGN.md, Open Question 1.
	ErrBadSignature = errors.New("tzx signature mismatch")
)
