package tape

// processCurrentBlock is the Block Dispatcher (spec §4.4): invoked from
// pulse state Process, it bridges the just-decoded block to the pulse
// state machine's initial state and primes the byte/timing registers
// that state will need.
func (e *Engine) processCurrentBlock() error {
	switch e.currentBlockID {
	case blockStandardSpeedData, blockTurboSpeedData:
		first, ok, err := e.NextBlockByte()
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidTzxFile
		}
		e.currByte = first
		e.setBitsForByte()

		var pulsesLeft int
		if e.currentBlockID == blockStandardSpeedData {
			if first == 0x00 {
				pulsesLeft = e.timings.PilotPulsesHeader
			} else {
				pulsesLeft = e.timings.PilotPulsesData
			}
		} else {
			pulsesLeft = e.timings.PilotToneLength
		}

		e.delay += e.timings.PilotLength
		e.state = pulseState{kind: statePilot, pulsesLeft: pulsesLeft}
		return nil

	case blockPureTone:
		e.delay += e.timings.PilotLength
		e.state = pulseState{kind: statePureTone, pulsesLeft: e.timings.PilotToneLength}
		return nil

	case blockPulseSequence:
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
		pulse := int(lo) | int(hi)<<8
		e.delay += pulse
		e.state = pulseState{kind: statePulseSequence, pulsesLeft: e.timings.PilotToneLength}
		return nil

	case blockPureDataBlock:
		first, ok, err := e.NextBlockByte()
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidTzxFile
		}
		e.currByte = first
		e.setBitsForByte()
		e.currBit = !e.currBit
		e.state = pulseState{kind: stateNextBit, mask: 0x80}
		return nil

	case blockDirectRecording:
		first, ok, err := e.NextBlockByte()
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidTzxFile
		}
		e.currByte = first
		e.setBitsForByte()
		e.currBit = !e.currBit
		e.state = pulseState{kind: stateNextDirectBit, mask: 0x80}
		return nil

	case blockPauseOrSilence:
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
		lengthMs := int(lo) | int(hi)<<8
		e.delay += msToTStates
		e.state = pulseState{kind: stateSilence, silenceMillis: lengthMs}
		return nil

	case blockLoopEnd, blockGroupStart, blockGroupEnd, blockStopIf48k:
		e.delay = 0
		e.state = pulseState{kind: statePlay}
		return nil

	default:
		// Anything else that loaded a payload but has no pulse
		// behavior of its own: drain it and move on.
		for {
			_, ok, err := e.NextBlockByte()
			if err != nil {
				return err
			}
			if !ok {
				break
			}
		}
		e.delay = 0
		e.state = pulseState{kind: statePlay}
		return nil
	}
}

// setBitsForByte records how many of the just-read byte's MSB bits carry
// data: the full 8 for any byte but the block's last, or
// usedBitsInLastByte when the byte just consumed ended the block. Must
// run immediately after the NextBlockByte call that produced curr_byte,
// since blockActive flips false exactly when the final byte is read.
func (e *Engine) setBitsForByte() {
	if !e.blockActive {
		e.bitsLeftInByte = e.usedBitsInLastByte
	} else {
		e.bitsLeftInByte = 8
	}
}
