package tape

import (
	"io"

	"github.com/pkg/errors"
)

// doInit performs the Init transition: seek to the start of the asset
// and read the 10-byte TZX header. A read failure here is the one
// byte-source failure that surfaces structurally (ErrInvalidTapFile)
// rather than being absorbed into tapeEnded, because without a header
// there is nothing sensible left to play.
func (e *Engine) doInit() error {
	if _, err := e.src.Seek(0, io.SeekStart); err != nil {
		return errors.Wrap(ErrInvalidTapFile, err.Error())
	}
	header := make([]byte, 10)
	if _, err := io.ReadFull(e.src, header); err != nil {
		return errors.Wrap(ErrInvalidTapFile, err.Error())
	}
	// The signature is never validated by default. An implementer may
	// opt into strict checking via Config.StrictSignature; see
	// DESIGN.md, Open Question 1.
	if e.cfg.StrictSignature && string(header[0:8]) != "ZXTape!\x1a" {
		return ErrBadSignature
	}
	e.state = pulseState{kind: statePlay}
	return nil
}

// ProcessClocks is the Pulse State Machine's single entry point: the
// host CPU emulator calls it with the number of T-states elapsed since
// the previous call. It is run-to-completion; the only operations it
// performs are byte-source reads (expected to be fast/local) and pure
// in-memory state transitions.
func (e *Engine) ProcessClocks(clocks int) error {
	if e.state.kind == stateStop {
		return nil
	}

	if e.delay > 0 {
		if clocks > e.delay {
			e.delay = 0
		} else {
			e.delay -= clocks
		}
		if e.delay > 0 {
			return nil
		}
	}

	// Chase through states until one schedules a future edge (delay > 0)
	// or the tape stops. No cycle of zero-delay transitions is
	// reachable: every cycle here passes through either a payload byte
	// read or a pulse-edge delay.
	for {
		switch e.state.kind {
		case stateInit:
			if err := e.doInit(); err != nil {
				return err
			}

		case stateStop:
			return nil

		case statePlay:
			keepGoing, err := e.NextBlock()
			if err != nil {
				return err
			}
			if !keepGoing {
				e.state = pulseState{kind: stateStop}
			} else {
				e.state = pulseState{kind: stateProcess}
			}

		case stateProcess:
			if err := e.processCurrentBlock(); err != nil {
				return err
			}

		case statePilot:
			e.currBit = !e.currBit
			left := e.state.pulsesLeft - 1
			if left == 0 {
				e.delay += e.timings.Sync1Length
				e.state = pulseState{kind: stateSync}
			} else {
				e.delay += e.timings.PilotLength
				e.state = pulseState{kind: statePilot, pulsesLeft: left}
			}

		case statePureTone:
			e.currBit = !e.currBit
			left := e.state.pulsesLeft - 1
			if left == 0 {
				// Preserved exactly: no delay is scheduled for the
				// final pilot edge, so it runs together with the next
				// block's first edge. See DESIGN.md, Open Question 2.
				e.state = pulseState{kind: statePlay}
			} else {
				e.delay += e.timings.PilotLength
				e.state = pulseState{kind: statePureTone, pulsesLeft: left}
			}

		case statePulseSequence:
			e.currBit = !e.currBit
			left := e.state.pulsesLeft - 1
			if left == 0 {
				e.state = pulseState{kind: statePlay}
			} else {
				lo, ok1, err := e.NextBlockByte()
				if err != nil {
					return err
				}
				hi, ok2, err := e.NextBlockByte()
				if err != nil {
					return err
				}
				if !ok1 || !ok2 {
					return ErrInvalidTzxFile
				}
				e.delay += int(lo) | int(hi)<<8
				e.state = pulseState{kind: statePulseSequence, pulsesLeft: left}
			}

		case stateSync:
			e.currBit = !e.currBit
			e.delay += e.timings.Sync2Length
			e.state = pulseState{kind: stateNextBit, mask: 0x80}

		case stateNextByte:
			b, ok, err := e.NextBlockByte()
			if err != nil {
				return err
			}
			if ok {
				e.currByte = b
				e.setBitsForByte()
				if e.state.direct {
					e.state = pulseState{kind: stateNextDirectBit, mask: 0x80}
				} else {
					e.state = pulseState{kind: stateNextBit, mask: 0x80}
				}
			} else {
				e.state = pulseState{kind: statePause}
			}

		case stateNextBit:
			mask := e.state.mask
			e.currBit = !e.currBit
			if (e.currByte & mask) == 0 {
				e.delay += e.timings.BitZeroLength
				e.state = pulseState{kind: stateBitHalf, halfDelay: e.timings.BitZeroLength, mask: mask}
			} else {
				e.delay += e.timings.BitOneLength
				e.state = pulseState{kind: stateBitHalf, halfDelay: e.timings.BitOneLength, mask: mask}
			}

		case stateNextDirectBit:
			mask := e.state.mask
			target := (e.currByte & mask) == 0
			e.delay += e.timings.BitZeroLength
			if target != e.currBit {
				e.currBit = !e.currBit
			}
			mask >>= 1
			e.bitsLeftInByte--
			if mask == 0 || e.bitsLeftInByte == 0 {
				e.state = pulseState{kind: stateNextByte, direct: true}
			} else {
				e.state = pulseState{kind: stateNextDirectBit, mask: mask}
			}

		case stateBitHalf:
			e.currBit = !e.currBit
			e.delay += e.state.halfDelay
			mask := e.state.mask >> 1
			e.bitsLeftInByte--
			if mask == 0 || e.bitsLeftInByte == 0 {
				e.state = pulseState{kind: stateNextByte, direct: false}
			} else {
				e.state = pulseState{kind: stateNextBit, mask: mask}
			}

		case statePause:
			// Toggled unconditionally, even for a zero-length pause.
			// Preserved exactly; see DESIGN.md, Open Question 4.
			e.currBit = !e.currBit
			e.delay += e.timings.PauseLength * msToTStates
			e.state = pulseState{kind: statePlay}

		case stateSilence:
			e.currBit = !e.currBit
			e.delay += e.state.silenceMillis * msToTStates
			e.state = pulseState{kind: statePlay}
		}

		if e.delay > 0 {
			return nil
		}
		if e.state.kind == stateStop {
			return nil
		}
	}
}
