package tape

// Standard ROM loader timings, in T-states, as used by the 48K Spectrum
// "LD-BYTES" routine. These are the defaults a StandardSpeedData block
// resets to; a TurboSpeedData block overrides all of them per-block.
const (
	stdPilotLength      = 2168
	stdPilotPulsesHead  = 8063
	stdPilotPulsesData  = 3223
	stdSync1Length      = 667
	stdSync2Length      = 735
	stdBitZeroLength    = 855
	stdBitOneLength     = 1710
	stdUsedBitsLastByte = 8

	// msToTStates converts milliseconds of pause to T-states on a 48K
	// Spectrum (≈3.5MHz clock). Implementations targeting other models
	// should parameterize this; we don't need to here.
	msToTStates = 3500

	// bufferSize is the sliding payload window size. Never grows.
	bufferSize = 128
)

// Timings holds the pulse widths and pulse counts that drive the pilot,
// sync and bit encoding of the block currently being played. It is reset
// to the standard values by StandardSpeedData and overridden in whole or
// in part by the turbo/pure-tone/pure-data/direct-recording blocks.
type Timings struct {
	PilotLength       int
	Sync1Length       int
	Sync2Length       int
	BitZeroLength     int
	BitOneLength      int
	PilotPulsesHeader int
	PilotPulsesData   int

	// PauseLength is the silence, in milliseconds, following the current
	// block. A value of 0 schedules no silence: Pause moves straight on
	// to the next block. (Stopping the tape on 0 is done only by the 0x20
	// block, see NextBlock.)
	PauseLength int

	// PilotToneLength is the explicit pulse count carried by turbo/pure
	// tone/pulse-sequence blocks, used as given (zero is not special).
	// StandardSpeedData never consults it: it picks PilotPulsesHeader or
	// PilotPulsesData from the first payload byte (see processCurrentBlock).
	PilotToneLength int
}

// DefaultTimings returns the standard 48K ROM loader timings.
func DefaultTimings() Timings {
	return Timings{
		PilotLength:       stdPilotLength,
		Sync1Length:       stdSync1Length,
		Sync2Length:       stdSync2Length,
		BitZeroLength:     stdBitZeroLength,
		BitOneLength:      stdBitOneLength,
		PilotPulsesHeader: stdPilotPulsesHead,
		PilotPulsesData:   stdPilotPulsesData,
	}
}
