// Package tape implements the TZX tape emulation core: a block-driven
// pulse generation state machine that turns a TZX byte stream into the
// sequence of ear-input edge levels a Z80-based host CPU emulator samples
// T-state by T-state.
//
// The package also understands the sibling .TAP format (via the tap
// sub-package) and the Amstrad .CDT alias of TZX, both of which drive
// this same Engine.
package tape

import (
	"io"

	"github.com/pkg/errors"
)

// ByteSource is the minimal contract the engine needs from whatever is
// backing a loaded tape: a file, an in-memory buffer, or an embedded
// asset. No business logic lives here.
type ByteSource interface {
	io.Reader
	io.Seeker
}

// Config selects host-model behavior that changes tape semantics.
type Config struct {
	// Is48K selects 48K Spectrum semantics; StopIf48k blocks only stop
	// the tape when this is true.
	Is48K bool

	// StrictSignature, when true, requires the TZX header's first 8
	// bytes to equal "ZXTape!\x1a" and surfaces ErrBadSignature
	// otherwise. The reference engine this core is modeled on never
	// validated the signature; default false preserves that behavior.
	// See DESIGN.md, Open Question 1.
	StrictSignature bool
}

// Engine owns one loaded tape: its byte source, current timing
// parameters, the sliding payload buffer, decoded block bookkeeping, the
// pulse state, and the single externally visible output bit.
type Engine struct {
	src ByteSource
	cfg Config

	state     pulseState
	prevState pulseState

	buffer       [bufferSize]byte
	bufferOffset int
	blockBytesRead int

	currentBlockID   blockID
	blockActive      bool // current_block_size == Some(_)
	currentBlockSize int

	tapeEnded bool

	currBit bool
	currByte byte
	delay   int

	timings            Timings
	usedBitsInLastByte int
	bitsLeftInByte     int

	// Loop bookkeeping for 0x24/0x25 (LoopStart/LoopEnd).
	loopStartPos int64
	loopReps     int

	lastBlock BlockInfo
}

// FromAsset constructs an Engine bound to source, starting in Init state.
// The TZX header isn't actually read until the first ProcessClocks call
// (matching spec §4.5's Init transition); FromAsset itself never fails.
func FromAsset(source ByteSource, cfg Config) (*Engine, error) {
	e := &Engine{
		src:       source,
		cfg:       cfg,
		state:     pulseState{kind: stateInit},
		prevState: pulseState{kind: stateStop},
		timings:   DefaultTimings(),
	}
	e.usedBitsInLastByte = stdUsedBitsLastByte
	return e, nil
}

// CurrentBit returns the single externally visible output: the current
// ear-input level. Pure read, safe to call any number of times between
// ProcessClocks calls.
func (e *Engine) CurrentBit() bool {
	return e.currBit
}

// CanFastLoad reports whether the tape is presently stopped, the signal
// an emulator's ROM-trap fast-load path watches for before it may
// short-circuit a StandardSpeedData block. Fast-load itself is out of
// scope for this core.
func (e *Engine) CanFastLoad() bool {
	return e.state.kind == stateStop
}

// Play resumes a stopped tape. If the tape was stopped before any state
// was ever recorded (prevState is also Stop), it resumes from Play
// rather than getting stuck.
func (e *Engine) Play() {
	if e.state.kind != stateStop {
		return
	}
	if e.prevState.kind == stateStop {
		e.state = pulseState{kind: statePlay}
	} else {
		e.state = e.prevState
	}
}

// Stop halts the tape, remembering the current state so Play can resume
// it later.
func (e *Engine) Stop() {
	e.prevState = e.state
	e.state = pulseState{kind: stateStop}
}

// Rewind resets the engine to the start of the tape: byte source
// position, sliding buffer bookkeeping, and the output bit all return to
// their initial values. The pulse state returns to Init (even if the tape
// was stopped), so the next ProcessClocks call rereads the header and
// plays from the first block.
func (e *Engine) Rewind() error {
	e.currBit = false
	e.currByte = 0
	e.blockBytesRead = 0
	e.bufferOffset = 0
	e.blockActive = false
	e.currentBlockSize = 0
	e.delay = 0
	if _, err := e.src.Seek(0, io.SeekStart); err != nil {
		return errors.Wrap(err, "rewind: seek to start failed")
	}
	e.tapeEnded = false
	e.state = pulseState{kind: stateInit}
	e.prevState = pulseState{kind: stateStop}
	return nil
}

// LastBlock returns metadata for the most recently decoded block, for
// CLI inspection and tests.
func (e *Engine) LastBlock() BlockInfo {
	return e.lastBlock
}

// ReadHeader consumes the 10-byte TZX header and readies the engine for
// NextBlock/NextBlockByte, without starting pulse generation. Callers
// that only want to walk the block list (the CLI's `info` command,
// block-level tests) use this instead of driving ProcessClocks, which
// would also begin decoding the first block itself.
func (e *Engine) ReadHeader() error {
	return e.doInit()
}

// TapeEnded reports whether the byte source has been exhausted: true
// once any read from it has failed (a block ID, a block header or
// payload), as opposed to merely decoding a block that happens to signal
// a stop (PauseOrSilence value 0, StopIf48k).
func (e *Engine) TapeEnded() bool {
	return e.tapeEnded
}
