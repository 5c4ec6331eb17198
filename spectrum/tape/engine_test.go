package tape

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

// header builds a minimal valid 10-byte TZX header.
func header() []byte {
	return []byte{'Z', 'X', 'T', 'a', 'p', 'e', '!', 0x1a, 0x01, 0x14}
}

func newEngine(t *testing.T, payload []byte, cfg Config) *Engine {
	t.Helper()
	e, err := FromAsset(bytes.NewReader(payload), cfg)
	require.NoError(t, err)
	return e
}

// bigStep exceeds every single delay the tapes in these tests schedule
// (the largest is a 1-second pause: 3,500,000 T-states), so every call
// lets exactly one pending delay run out.
const bigStep = 10_000_000

// driveToStop repeatedly calls ProcessClocks(bigStep) until the tape
// stops, counting CurrentBit transitions. It fails the test if the tape
// never stops within maxSteps calls.
func driveToStop(t *testing.T, e *Engine, maxSteps int) (edges int) {
	t.Helper()
	last := e.CurrentBit()
	for i := 0; i < maxSteps; i++ {
		require.NoError(t, e.ProcessClocks(bigStep))
		if bit := e.CurrentBit(); bit != last {
			edges++
			last = bit
		}
		if e.CanFastLoad() {
			return edges
		}
	}
	t.Fatalf("tape did not stop within %d steps", maxSteps)
	return 0
}

// Scenario 1: minimal header only, no blocks.
func TestMinimalHeaderOnly(t *testing.T) {
	e := newEngine(t, header(), Config{Is48K: true})
	require.NoError(t, e.ProcessClocks(1))
	require.False(t, e.CurrentBit())
	require.True(t, e.CanFastLoad())
}

// Scenario 2: single StandardSpeedData block, flag byte 0x00, payload 0xFF.
func TestStandardSpeedDataEdgeCount(t *testing.T) {
	block := []byte{0x10, 0xE8, 0x03, 0x02, 0x00, 0x00, 0xFF}
	e := newEngine(t, append(header(), block...), Config{Is48K: true})

	// 8063 pilot toggles + 1 sync toggle + 32 bit toggles (2 bytes * 8
	// bits * 2 half-pulses) + 1 pause toggle (stray edge preserved per
	// Open Question 4).
	edges := driveToStop(t, e, 8200)
	require.Equal(t, 8063+1+32+1, edges)
}

// Scenario 3: PauseOrSilence with value 0 stops the tape immediately.
func TestPauseOrSilenceZeroStops(t *testing.T) {
	block := []byte{0x20, 0x00, 0x00}
	e := newEngine(t, append(header(), block...), Config{Is48K: true})

	require.NoError(t, e.ProcessClocks(1))
	require.True(t, e.CanFastLoad())
}

// Scenario 4: LoopStart reps=3 / LoopEnd around a 2-pulse PureTone block
// repeats the tone 4 times total (initial + 3 repetitions).
func TestLoopAroundPureTone(t *testing.T) {
	loopStart := []byte{0x24, 0x03, 0x00}
	pureTone := []byte{0x12, 0x08, 0x08, 0x02, 0x00} // pilot=2056, count=2
	loopEnd := []byte{0x25}

	var data []byte
	data = append(data, header()...)
	data = append(data, loopStart...)
	data = append(data, pureTone...)
	data = append(data, loopEnd...)

	e := newEngine(t, data, Config{Is48K: true})
	edges := driveToStop(t, e, 50)
	require.Equal(t, 2*4, edges)
}

// Scenario 5: StopIf48k stops the tape when Is48K is set.
func TestStopIf48kStopsIn48KMode(t *testing.T) {
	block := []byte{0x2A, 0x00, 0x00, 0x00, 0x00}
	e := newEngine(t, append(header(), block...), Config{Is48K: true})

	require.NoError(t, e.ProcessClocks(1))
	require.True(t, e.CanFastLoad())
}

// StopIf48k is ignored outside 48K mode, so the tape should reach normal
// end of stream instead (also a stop, but only after trying to read the
// next block).
func TestStopIf48kIgnoredOutside48KMode(t *testing.T) {
	block := []byte{0x2A, 0x00, 0x00, 0x00, 0x00}
	e := newEngine(t, append(header(), block...), Config{Is48K: false})

	require.NoError(t, e.ProcessClocks(1))
	require.True(t, e.CanFastLoad())
	require.True(t, e.TapeEnded())
}

// Scenario 6: TurboSpeedData honors custom timings end to end, including
// used_bits_in_last_byte.
func TestTurboSpeedDataCustomTimings(t *testing.T) {
	var h [18]byte
	binary.LittleEndian.PutUint16(h[0:2], 100)  // pilot
	binary.LittleEndian.PutUint16(h[2:4], 50)   // sync1
	binary.LittleEndian.PutUint16(h[4:6], 60)   // sync2
	binary.LittleEndian.PutUint16(h[6:8], 10)   // bit0
	binary.LittleEndian.PutUint16(h[8:10], 20)  // bit1
	binary.LittleEndian.PutUint16(h[10:12], 5)  // pilot tone pulses
	h[12] = 3                                   // used bits in last byte
	binary.LittleEndian.PutUint16(h[13:15], 0)  // pause
	h[15], h[16], h[17] = 2, 0, 0                // size = 2

	block := append([]byte{0x11}, h[:]...)
	block = append(block, 0x00, 0xFF)

	e := newEngine(t, append(header(), block...), Config{Is48K: true})

	// pilot tone pulses (5) + sync (1) + byte1 full 8 bits (16) +
	// byte2's used bits only (3 bits -> 6 toggles) + 1 pause toggle: the
	// block's pause is 0, but Pause always toggles once regardless
	// (Open Question 4).
	edges := driveToStop(t, e, 200)
	require.Equal(t, 5+1+16+6+1, edges)
}

// Invariant: once stopped, ProcessClocks is a no-op and CurrentBit is
// stable.
func TestStopIsNoOp(t *testing.T) {
	e := newEngine(t, header(), Config{Is48K: true})
	require.NoError(t, e.ProcessClocks(1))
	require.True(t, e.CanFastLoad())

	bit := e.CurrentBit()
	for i := 0; i < 10; i++ {
		require.NoError(t, e.ProcessClocks(1234))
		require.Equal(t, bit, e.CurrentBit())
	}
}

// Rewind is idempotent and replays identically.
func TestRewindReplaysIdentically(t *testing.T) {
	block := []byte{0x10, 0xE8, 0x03, 0x02, 0x00, 0x00, 0xFF}
	e := newEngine(t, append(header(), block...), Config{Is48K: true})

	edgesFirst := driveToStop(t, e, 8200)

	require.NoError(t, e.Rewind())
	require.NoError(t, e.Rewind()) // idempotent
	require.False(t, e.CurrentBit())

	edgesSecond := driveToStop(t, e, 8200)
	require.Equal(t, edgesFirst, edgesSecond)
}

// stop()/play() with no intervening clocks resumes without disturbing
// the schedule.
func TestStopPlayResumes(t *testing.T) {
	block := []byte{0x10, 0xE8, 0x03, 0x02, 0x00, 0x00, 0xFF}

	e1 := newEngine(t, append(header(), block...), Config{Is48K: true})
	e2 := newEngine(t, append(header(), block...), Config{Is48K: true})

	require.NoError(t, e1.ProcessClocks(1)) // reach Pilot, delay pending
	require.NoError(t, e2.ProcessClocks(1))

	e1.Stop()
	e1.Play()

	edges1 := driveToStop(t, e1, 8200)
	edges2 := driveToStop(t, e2, 8200)
	require.Equal(t, edges2, edges1)
}

func TestInvalidTapFileSurfacesOnShortHeader(t *testing.T) {
	e := newEngine(t, []byte{'Z', 'X'}, Config{Is48K: true})
	err := e.ProcessClocks(1)
	require.Error(t, err)
}

func TestStrictSignatureRejectsBadHeader(t *testing.T) {
	bad := []byte{'N', 'O', 'T', 'T', 'A', 'P', 'E', 0x1a, 0x01, 0x14}
	e := newEngine(t, bad, Config{Is48K: true, StrictSignature: true})
	err := e.ProcessClocks(1)
	require.ErrorIs(t, err, ErrBadSignature)
}

func TestStrictSignatureOffAcceptsBadHeader(t *testing.T) {
	bad := []byte{'N', 'O', 'T', 'T', 'A', 'P', 'E', 0x1a, 0x01, 0x14}
	e := newEngine(t, bad, Config{Is48K: true, StrictSignature: false})
	require.NoError(t, e.ProcessClocks(1))
}

func TestPureDataBlockTogglesOnLastByteMaskExactly(t *testing.T) {
	// bit0=10, bit1=20, used_bits=4, pause=0, size=1, payload byte 0xF0
	// (top 4 bits set, exactly the 4 used bits).
	h := []byte{10, 0, 20, 0, 4, 0, 0, 1, 0, 0}
	block := append([]byte{0x14}, h...)
	block = append(block, 0xF0)

	e := newEngine(t, append(header(), block...), Config{Is48K: true})

	// PureDataBlock toggles curr_bit once in the dispatcher itself, then
	// NextBit/BitHalf toggle twice per used bit (4 bits -> 8), then a
	// pause toggle.
	edges := driveToStop(t, e, 100)
	require.Equal(t, 1+8+1, edges)
}
