package roll_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"go-pianoroll/roll"
)

func TestNoteRectScenario(t *testing.T) {
	g := roll.DefaultGrid()
	n := roll.Note{Pitch: 60, Start: 0, Duration: 0.5, Velocity: 0.8}

	r := g.NoteRect(n)
	require.Equal(t, 0.0, r.X)
	require.Equal(t, 40.0, r.X+r.W)
	require.Equal(t, float64((108-60)*14), r.Y)
	require.Equal(t, 672.0, r.Y)
}

func TestTimeRoundTrip(t *testing.T) {
	g := roll.DefaultGrid()
	rapid.Check(t, func(t *rapid.T) {
		x := rapid.Float64Range(0, roll.MaxTotalSeconds*roll.PixelsPerSecond).Draw(t, "x")
		got := g.TimeToX(g.XToTime(x))
		if math.Abs(got-x) > 1 {
			t.Fatalf("TimeToX(XToTime(%v)) = %v", x, got)
		}
	})
}

func TestPitchRoundTrip(t *testing.T) {
	g := roll.DefaultGrid()
	rapid.Check(t, func(t *rapid.T) {
		p := rapid.IntRange(roll.MinPitch, roll.MaxPitch).Draw(t, "pitch")
		if got := g.YToPitch(g.PitchToY(p)); got != p {
			t.Fatalf("YToPitch(PitchToY(%d)) = %d", p, got)
		}
	})
}

func TestRowAtStaysInBand(t *testing.T) {
	g := roll.DefaultGrid()
	rapid.Check(t, func(t *rapid.T) {
		p := rapid.IntRange(roll.MinPitch, roll.MaxPitch).Draw(t, "pitch")
		dy := rapid.Float64Range(0, roll.RowHeight-0.01).Draw(t, "dy")
		if got := g.RowAt(g.PitchToY(p) + dy); got != p {
			t.Fatalf("RowAt(PitchToY(%d)+%v) = %d", p, dy, got)
		}
	})
}

func TestGeometryClamps(t *testing.T) {
	g := roll.DefaultGrid()

	require.Equal(t, 0.0, g.PitchToY(127))
	require.Equal(t, g.PitchToY(roll.MinPitch), g.PitchToY(0))
	require.Equal(t, roll.MaxPitch, g.YToPitch(-500))
	require.Equal(t, roll.MinPitch, g.YToPitch(1e6))
	require.Equal(t, 0.0, g.XToTime(-50))
}

func TestClampStart(t *testing.T) {
	g := roll.DefaultGrid()

	start, clamped := g.ClampStart(-3, 1)
	require.Equal(t, 0.0, start)
	require.False(t, clamped)

	start, clamped = g.ClampStart(299.9, 0.5)
	require.Equal(t, 299.5, start)
	require.True(t, clamped)

	start, clamped = g.ClampStart(12, 0.5)
	require.Equal(t, 12.0, start)
	require.False(t, clamped)
}

func TestContentWidth(t *testing.T) {
	g := roll.DefaultGrid()

	t.Run("empty sequence gets the minimum width", func(t *testing.T) {
		require.Equal(t, roll.MinCanvasWidth, g.ContentWidth(nil))
	})

	t.Run("leaves trailing room after the last note", func(t *testing.T) {
		seq := roll.Sequence{{Pitch: 60, Start: 9, Duration: 1, Velocity: 0.8}}
		require.Equal(t, (10+roll.TrailingSeconds)*roll.PixelsPerSecond, g.ContentWidth(seq))
		require.Equal(t, 12.0, g.ContentEnd(seq))
	})

	t.Run("never grows past the ceiling", func(t *testing.T) {
		seq := roll.Sequence{{Pitch: 60, Start: 299, Duration: 1, Velocity: 0.8}}
		require.Equal(t, roll.MaxTotalSeconds*roll.PixelsPerSecond, g.ContentWidth(seq))
	})

	t.Run("height covers the keyboard", func(t *testing.T) {
		require.Equal(t, 88*roll.RowHeight, g.ContentHeight())
	})
}

func TestShortNotesKeepMinimumWidth(t *testing.T) {
	g := roll.DefaultGrid()
	r := g.NoteRect(roll.Note{Pitch: 60, Start: 1, Duration: 0.01, Velocity: 1})
	require.Equal(t, roll.MinNoteWidth, r.W)
	require.True(t, r.Contains(r.X+r.W, r.Y+r.H))
	require.False(t, r.Contains(r.X-0.5, r.Y))
}

func TestSequenceHelpers(t *testing.T) {
	seq := roll.Sequence{
		{Pitch: 60, Start: 0, Duration: 1, Velocity: 0.8},
		{Pitch: 62, Start: 2, Duration: 0.5, Velocity: 0.8},
		{Pitch: 64, Start: 1, Duration: 0.25, Velocity: 0.8},
	}
	require.Equal(t, 2.5, seq.End())

	c := seq.Clone()
	c[0].Pitch = 10
	require.Equal(t, 60, seq[0].Pitch)

	r := seq.Remove(1)
	require.Len(t, r, 2)
	require.Equal(t, 64, r[1].Pitch)
	require.Len(t, seq, 3)

	require.Equal(t, seq, seq.Remove(7))
}
