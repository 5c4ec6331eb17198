package tape

// blockID identifies a TZX block as read from the wire. Only the values
// this engine gives distinct handling to are named; everything else
// falls through the "ignore" case in next_block.
type blockID uint8

const (
	blockStandardSpeedData blockID = 0x10
	blockTurboSpeedData    blockID = 0x11
	blockPureTone          blockID = 0x12
	blockPulseSequence     blockID = 0x13
	blockPureDataBlock     blockID = 0x14
	blockDirectRecording   blockID = 0x15

	// 0x16-0x19 and 0x2B carry a plain 4-byte length and are skipped
	// wholesale; they're grouped here only for next_block's switch.
	blockC64RomType      blockID = 0x16
	blockC64Turbo        blockID = 0x17
	blockCSWRecording    blockID = 0x18
	blockGeneralizedData blockID = 0x19
	blockSetSignalLevel  blockID = 0x2B

	blockPauseOrSilence blockID = 0x20
	blockGroupStart     blockID = 0x21
	blockGroupEnd       blockID = 0x22
	blockLoopStart      blockID = 0x24
	blockLoopEnd        blockID = 0x25
	blockSelectBlock    blockID = 0x28
	blockStopIf48k      blockID = 0x2A
	blockTextDesc       blockID = 0x30
	blockArchiveInfo    blockID = 0x32

	// Deprecated, always ignored silently per spec §4.2.
	blockEmulationInfo blockID = 0x34
	blockCustomInfo    blockID = 0x35
	blockSnapshot      blockID = 0x40
)

// BlockInfo is a listing record describing one decoded block, used by the
// CLI's `info` command and by tests that assert a tape's block sequence.
type BlockInfo struct {
	ID          uint8
	Name        string
	PayloadSize int
	PauseMillis int
}

func blockName(id blockID) string {
	switch id {
	case blockStandardSpeedData:
		return "Standard Speed Data"
	case blockTurboSpeedData:
		return "Turbo Speed Data"
	case blockPureTone:
		return "Pure Tone"
	case blockPulseSequence:
		return "Pulse Sequence"
	case blockPureDataBlock:
		return "Pure Data Block"
	case blockDirectRecording:
		return "Direct Recording"
	case blockC64RomType, blockC64Turbo, blockGeneralizedData:
		return "Unsupported"
	case blockCSWRecording:
		return "CSW Recording"
	case blockSetSignalLevel:
		return "Set Signal Level"
	case blockPauseOrSilence:
		return "Pause (silence) or 'Stop the Tape'"
	case blockGroupStart:
		return "Group Start"
	case blockGroupEnd:
		return "Group End"
	case blockLoopStart:
		return "Loop Start"
	case blockLoopEnd:
		return "Loop End"
	case blockSelectBlock:
		return "Select Block"
	case blockStopIf48k:
		return "Stop the Tape if in 48K Mode"
	case blockTextDesc:
		return "Text Description"
	case blockArchiveInfo:
		return "Archive Info"
	case blockEmulationInfo, blockCustomInfo, blockSnapshot:
		return "Deprecated"
	default:
		return "Unknown"
	}
}
