package roll_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"go-pianoroll/roll"
)

func rects(f roll.Frame) []roll.Command {
	var out []roll.Command
	for _, c := range f.Commands {
		if c.Op == roll.OpRect {
			out = append(out, c)
		}
	}
	return out
}

func cursorLines(f roll.Frame) []roll.Command {
	var out []roll.Command
	for _, c := range f.Commands {
		if c.Op == roll.OpLine && c.Stroke == roll.RoleCursor {
			out = append(out, c)
		}
	}
	return out
}

func texts(f roll.Frame) []string {
	var out []string
	for _, c := range f.Commands {
		if c.Op == roll.OpText {
			out = append(out, c.Text)
		}
	}
	return out
}

func genSequence(t *rapid.T) roll.Sequence {
	n := rapid.IntRange(0, 12).Draw(t, "count")
	seq := make(roll.Sequence, n)
	for i := range seq {
		dur := rapid.Float64Range(0.01, 4).Draw(t, "duration")
		seq[i] = roll.Note{
			Pitch:    rapid.IntRange(roll.MinPitch, roll.MaxPitch).Draw(t, "pitch"),
			Start:    rapid.Float64Range(0, 60).Draw(t, "start"),
			Duration: dur,
			Velocity: rapid.Float64Range(0, 1).Draw(t, "velocity"),
		}
	}
	return seq
}

func TestRenderIsDeterministic(t *testing.T) {
	g := roll.DefaultGrid()
	rapid.Check(t, func(t *rapid.T) {
		seq := genSequence(t)
		sel := rapid.IntRange(roll.NoSelection, len(seq)).Draw(t, "selected")
		cur := roll.SeekAt(rapid.Float64Range(0, 60).Draw(t, "seek"))

		a := roll.Render(g, seq, sel, cur)
		b := roll.Render(g, seq.Clone(), sel, cur)
		if len(a.Commands) != len(b.Commands) || a.Width != b.Width {
			t.Fatalf("frames differ in shape")
		}
		for i := range a.Commands {
			if a.Commands[i] != b.Commands[i] {
				t.Fatalf("command %d differs: %+v vs %+v", i, a.Commands[i], b.Commands[i])
			}
		}
	})
}

func TestRenderFrameStartsWithClear(t *testing.T) {
	g := roll.DefaultGrid()
	f := roll.Render(g, nil, roll.NoSelection, roll.Cursor{})

	require.NotEmpty(t, f.Commands)
	first := f.Commands[0]
	require.Equal(t, roll.OpClear, first.Op)
	require.Equal(t, roll.RoleBackground, first.Fill)
	require.Equal(t, roll.MinCanvasWidth, f.Width)
	require.Equal(t, g.ContentHeight(), f.Height)
}

func TestRenderNotesInSequenceOrder(t *testing.T) {
	g := roll.DefaultGrid()
	seq := roll.Sequence{
		{Pitch: 60, Start: 0, Duration: 1, Velocity: 0.8},
		{Pitch: 60, Start: 0.5, Duration: 1, Velocity: 0.8},
		{Pitch: 72, Start: 2, Duration: 0.5, Velocity: 0.8},
	}
	f := roll.Render(g, seq, 1, roll.Cursor{})

	rs := rects(f)
	require.Len(t, rs, 3)
	for i, r := range rs {
		require.Equal(t, i, r.Note)
		want := g.NoteRect(seq[i])
		require.Equal(t, want.X, r.X)
		require.Equal(t, want.Y, r.Y)
		require.Equal(t, want.W, r.W)
		require.Equal(t, want.H, r.H)
	}

	require.Equal(t, roll.RoleNote, rs[0].Fill)
	require.Equal(t, 1.0, rs[0].LineWidth)
	require.Equal(t, roll.RoleSelected, rs[1].Fill)
	require.Equal(t, roll.RoleSelectedStroke, rs[1].Stroke)
	require.Equal(t, 2.0, rs[1].LineWidth)
	require.Equal(t, roll.RoleNote, rs[2].Fill)
}

func TestRenderDrawsNotesOverGrid(t *testing.T) {
	g := roll.DefaultGrid()
	seq := roll.Sequence{{Pitch: 60, Start: 0, Duration: 1, Velocity: 0.8}}
	f := roll.Render(g, seq, roll.NoSelection, roll.PlaybackAt(0.5))

	var firstRect, lastLine, cursorAt int
	firstRect = -1
	for i, c := range f.Commands {
		switch {
		case c.Op == roll.OpRect && firstRect < 0:
			firstRect = i
		case c.Op == roll.OpLine && c.Stroke == roll.RoleCursor:
			cursorAt = i
		case c.Op == roll.OpLine:
			lastLine = i
		}
	}
	require.Greater(t, firstRect, lastLine)
	require.Equal(t, len(f.Commands)-1, cursorAt)
}

func TestRenderCursor(t *testing.T) {
	g := roll.DefaultGrid()

	t.Run("none", func(t *testing.T) {
		f := roll.Render(g, nil, roll.NoSelection, roll.Cursor{})
		require.Empty(t, cursorLines(f))
	})

	t.Run("seek only", func(t *testing.T) {
		f := roll.Render(g, nil, roll.NoSelection, roll.SeekAt(2))
		lines := cursorLines(f)
		require.Len(t, lines, 1)
		require.Equal(t, 160.0, lines[0].X)
		require.Equal(t, 3.0, lines[0].LineWidth)
		require.Equal(t, f.Height, lines[0].Y2)
	})

	t.Run("playback wins over seek", func(t *testing.T) {
		c := roll.Cursor{Playback: 1, HasPlayback: true, Seek: 3, HasSeek: true}
		lines := cursorLines(roll.Render(g, nil, roll.NoSelection, c))
		require.Len(t, lines, 1)
		require.Equal(t, 80.0, lines[0].X)
	})

	t.Run("playback at zero still draws", func(t *testing.T) {
		lines := cursorLines(roll.Render(g, nil, roll.NoSelection, roll.PlaybackAt(0)))
		require.Len(t, lines, 1)
		require.Equal(t, 0.0, lines[0].X)
	})
}

func TestRenderLabels(t *testing.T) {
	g := roll.DefaultGrid()
	f := roll.Render(g, nil, roll.NoSelection, roll.Cursor{})
	labels := texts(f)

	// 400px canvas: 0s..5s along the ruler
	for _, want := range []string{"0s", "1s", "2s", "3s", "4s", "5s"} {
		require.Contains(t, labels, want)
	}
	require.NotContains(t, labels, "6s")

	// C rows from C2 (24) up to C9 (108)
	for _, want := range []string{"C2", "C3", "C4", "C5", "C6", "C7", "C8", "C9"} {
		require.Contains(t, labels, want)
	}
	require.NotContains(t, labels, "A1")
}

func TestRenderGridDensity(t *testing.T) {
	g := roll.DefaultGrid()

	count := func(f roll.Frame) int {
		n := 0
		for _, c := range f.Commands {
			if c.Op == roll.OpLine && c.X == c.X2 && c.Stroke != roll.RoleCursor {
				n++
			}
		}
		return n
	}

	// 400px, quarter seconds: 0..5s inclusive
	require.Equal(t, 21, count(roll.Render(g, nil, roll.NoSelection, roll.Cursor{})))

	// 10s of notes + 2s trailing = 960px, half seconds: 0..12s inclusive
	seq := roll.Sequence{{Pitch: 60, Start: 9, Duration: 1, Velocity: 0.8}}
	require.Equal(t, 25, count(roll.Render(g, seq, roll.NoSelection, roll.Cursor{})))
}

func TestGridStep(t *testing.T) {
	require.Equal(t, 0.25, roll.GridStep(400))
	require.Equal(t, 0.25, roll.GridStep(800))
	require.Equal(t, 0.5, roll.GridStep(801))
}

func TestNoteName(t *testing.T) {
	require.Equal(t, "C5", roll.NoteName(60))
	require.Equal(t, "A1", roll.NoteName(21))
	require.Equal(t, "C#5", roll.NoteName(61))
	require.Equal(t, "C9", roll.NoteName(108))

	// off-keyboard pitches from hand-edited saves
	require.Equal(t, "A1", roll.NoteName(-5))
	require.Equal(t, "A1", roll.NoteName(0))
	require.Equal(t, "C9", roll.NoteName(200))
}
