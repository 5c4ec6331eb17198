package tape

import (
	"encoding/binary"
	"io"
)

// readExact reads n bytes from the byte source. On any failure it marks
// the tape ended and reports ok=false — per §4.1, byte-source failure is
// indistinguishable from (and tolerated as) end-of-tape everywhere except
// the Init header read.
func (e *Engine) readExact(n int) (data []byte, ok bool) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(e.src, buf); err != nil {
		e.tapeEnded = true
		return nil, false
	}
	return buf, true
}

// loadPayload reads up to bufferSize bytes of a size-byte payload into
// the sliding buffer and marks a block active for next_block_byte to
// stream.
func (e *Engine) loadPayload(size int) bool {
	n := size
	if n > bufferSize {
		n = bufferSize
	}
	if n > 0 {
		if _, err := io.ReadFull(e.src, e.buffer[:n]); err != nil {
			e.tapeEnded = true
			return false
		}
	}
	e.blockActive = true
	e.currentBlockSize = size
	return true
}

func le16(b []byte) int { return int(binary.LittleEndian.Uint16(b)) }

func le24(b []byte) int { return int(b[0]) | int(b[1])<<8 | int(b[2])<<16 }

// NextBlock reads the next TZX block header at the current stream
// position, loads its payload into the sliding buffer, and updates the
// timing parameters per spec §4.2. It reports false when the tape should
// stop: a 0x20 Pause/Silence block with value 0, a 0x2A StopIf48k block
// while Is48K is set, or end of stream.
func (e *Engine) NextBlock() (bool, error) {
	if e.tapeEnded {
		return false, nil
	}

	idBuf, ok := e.readExact(1)
	if !ok {
		return false, nil
	}
	id := blockID(idBuf[0])

	e.bufferOffset = 0
	e.blockBytesRead = 0
	e.blockActive = false
	e.currentBlockID = id

	info := BlockInfo{ID: uint8(id), Name: blockName(id)}
	defer func() { e.lastBlock = info }()

	switch id {
	case blockStandardSpeedData:
		h, ok := e.readExact(4)
		if !ok {
			return false, nil
		}
		pause := le16(h[0:2])
		size := le16(h[2:4])

		e.timings = DefaultTimings()
		e.timings.PauseLength = pause
		e.usedBitsInLastByte = stdUsedBitsLastByte
		info.PauseMillis = pause
		info.PayloadSize = size

		if !e.loadPayload(size) {
			return false, nil
		}
		return true, nil

	case blockTurboSpeedData:
		h, ok := e.readExact(18)
		if !ok {
			return false, nil
		}
		e.timings.PilotLength = le16(h[0:2])
		e.timings.Sync1Length = le16(h[2:4])
		e.timings.Sync2Length = le16(h[4:6])
		e.timings.BitZeroLength = le16(h[6:8])
		e.timings.BitOneLength = le16(h[8:10])
		e.timings.PilotToneLength = le16(h[10:12])
		e.usedBitsInLastByte = int(h[12])
		pause := le16(h[13:15])
		e.timings.PauseLength = pause
		size := le24(h[15:18])
		info.PauseMillis = pause
		info.PayloadSize = size

		if !e.loadPayload(size) {
			return false, nil
		}
		return true, nil

	case blockPureTone:
		h, ok := e.readExact(4)
		if !ok {
			return false, nil
		}
		e.timings.PilotLength = le16(h[0:2])
		e.timings.PilotToneLength = le16(h[2:4])
		return true, nil

	case blockPulseSequence:
		h, ok := e.readExact(1)
		if !ok {
			return false, nil
		}
		count := int(h[0])
		e.timings.PilotToneLength = count
		if !e.loadPayload(count * 2) {
			return false, nil
		}
		return true, nil

	case blockPureDataBlock:
		h, ok := e.readExact(10)
		if !ok {
			return false, nil
		}
		e.timings.BitZeroLength = le16(h[0:2])
		e.timings.BitOneLength = le16(h[2:4])
		e.usedBitsInLastByte = int(h[4])
		pause := le16(h[5:7])
		e.timings.PauseLength = pause
		e.timings.PilotToneLength = 0
		size := le24(h[7:10])
		info.PauseMillis = pause
		info.PayloadSize = size

		if !e.loadPayload(size) {
			return false, nil
		}
		return true, nil

	case blockDirectRecording:
		h, ok := e.readExact(8)
		if !ok {
			return false, nil
		}
		e.timings.BitZeroLength = le16(h[0:2])
		pause := le16(h[2:4])
		e.timings.PauseLength = pause
		e.usedBitsInLastByte = int(h[4])
		size := le24(h[5:8])
		info.PauseMillis = pause
		info.PayloadSize = size

		if !e.loadPayload(size) {
			return false, nil
		}
		return true, nil

	case blockC64RomType, blockC64Turbo, blockCSWRecording, blockGeneralizedData, blockSetSignalLevel:
		h, ok := e.readExact(4)
		if !ok {
			return false, nil
		}
		size := int(binary.LittleEndian.Uint32(h))
		info.PayloadSize = size
		if _, err := e.src.Seek(int64(size), io.SeekCurrent); err != nil {
			e.tapeEnded = true
			return false, nil
		}
		return true, nil

	case blockPauseOrSilence:
		if !e.loadPayload(2) {
			return false, nil
		}
		value := le16(e.buffer[0:2])
		info.PauseMillis = value
		if value == 0 {
			e.blockActive = false
			return false, nil
		}
		return true, nil

	case blockGroupStart:
		h, ok := e.readExact(1)
		if !ok {
			return false, nil
		}
		n := int(h[0])
		if n > 0 {
			text, ok := e.readExact(n)
			if !ok {
				return false, nil
			}
			info.Name = "Group Start: " + string(text)
		}
		return true, nil

	case blockGroupEnd:
		return true, nil

	case blockLoopStart:
		h, ok := e.readExact(2)
		if !ok {
			return false, nil
		}
		e.loopReps = le16(h)
		pos, err := e.src.Seek(0, io.SeekCurrent)
		if err != nil {
			e.tapeEnded = true
			return false, nil
		}
		e.loopStartPos = pos
		return true, nil

	case blockLoopEnd:
		if e.loopReps > 0 {
			e.loopReps--
			if _, err := e.src.Seek(e.loopStartPos, io.SeekStart); err != nil {
				e.tapeEnded = true
				return false, nil
			}
		} else {
			e.loopReps = 0
		}
		return true, nil

	case blockSelectBlock:
		h, ok := e.readExact(2)
		if !ok {
			return false, nil
		}
		size := le16(h)
		if _, err := e.src.Seek(int64(size), io.SeekCurrent); err != nil {
			e.tapeEnded = true
			return false, nil
		}
		return true, nil

	case blockStopIf48k:
		if _, ok := e.readExact(4); !ok {
			return false, nil
		}
		if e.cfg.Is48K {
			return false, nil
		}
		return true, nil

	case blockTextDesc:
		h, ok := e.readExact(1)
		if !ok {
			return false, nil
		}
		n := int(h[0])
		if n > 0 {
			text, ok := e.readExact(n)
			if !ok {
				return false, nil
			}
			info.Name = string(text)
		}
		return true, nil

	case blockArchiveInfo:
		h, ok := e.readExact(2)
		if !ok {
			return false, nil
		}
		size := le16(h)
		if _, err := e.src.Seek(int64(size), io.SeekCurrent); err != nil {
			e.tapeEnded = true
			return false, nil
		}
		return true, nil

	case blockEmulationInfo, blockCustomInfo, blockSnapshot:
		// Deprecated block families: ignored silently, per spec §4.2.
		return true, nil

	default:
		return true, nil
	}
}

// NextBlockByte streams the next payload byte of the currently decoded
// block from the sliding buffer, refilling it from the byte source as
// the read position crosses the current window. It reports ok=false once
// block_bytes_read reaches the block's declared size.
func (e *Engine) NextBlockByte() (b byte, ok bool, err error) {
	if e.tapeEnded {
		return 0, false, nil
	}
	if !e.blockActive {
		return 0, false, nil
	}
	if e.blockBytesRead >= e.currentBlockSize {
		return 0, false, nil
	}

	readPos := e.blockBytesRead - e.bufferOffset
	if readPos >= bufferSize {
		remaining := e.currentBlockSize - e.bufferOffset - bufferSize
		toRead := remaining
		if toRead > bufferSize {
			toRead = bufferSize
		}
		if toRead > 0 {
			if _, ioErr := io.ReadFull(e.src, e.buffer[:toRead]); ioErr != nil {
				e.tapeEnded = true
				return 0, false, nil
			}
		}
		e.bufferOffset += bufferSize
		readPos = 0
	}

	result := e.buffer[readPos]
	e.blockBytesRead++

	if e.blockBytesRead >= e.currentBlockSize {
		e.blockActive = false
	}

	return result, true, nil
}
