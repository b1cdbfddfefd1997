package roll

import (
	"fmt"
	"math"
)

// Role names what a draw command depicts. Adapters map roles to colors.
type Role int

const (
	RoleBackground Role = iota
	RoleGridMinor
	RoleGridMajor
	RoleNote
	RoleNoteStroke
	RoleSelected
	RoleSelectedStroke
	RoleCursor
	RoleLabel
)

// Op is the kind of a draw command
type Op int

const (
	OpClear Op = iota // fill the whole canvas with Fill
	OpLine            // stroke (X, Y) to (X2, Y2)
	OpRect            // fill then stroke the box (X, Y, W, H)
	OpText            // draw Text with its baseline at (X, Y)
)

// Command is a single drawing instruction in canvas pixels
type Command struct {
	Op        Op
	X, Y      float64
	X2, Y2    float64
	W, H      float64
	Fill      Role
	Stroke    Role
	LineWidth float64
	Text      string
	Pinned    bool // OpText that stays at the left edge of the viewport
	Note      int  // note index for OpRect, NoSelection otherwise
}

// Frame is everything needed to paint one picture of the roll
type Frame struct {
	Width    float64
	Height   float64
	Commands []Command
}

// Grid step thresholds
const (
	fineGridWidth = 800.0 // canvases at most this wide get quarter-second lines
	labelOffset   = 4.0
)

var noteNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteName formats a pitch as "C4" style, octave = pitch/12. Pitches off
// the keyboard are pulled onto it first.
func NoteName(pitch int) string {
	pitch = max(MinPitch, min(pitch, MaxPitch))
	return fmt.Sprintf("%s%d", noteNames[pitch%12], pitch/12)
}

// GridStep returns the spacing in seconds between vertical grid lines
func GridStep(width float64) float64 {
	if width <= fineGridWidth {
		return 0.25
	}
	return 0.5
}

// Render draws the roll into a list of commands. It reads nothing but its
// arguments, so identical inputs always produce identical frames.
func Render(g Grid, seq Sequence, selected int, cursor Cursor) Frame {
	width := g.ContentWidth(seq)
	height := g.ContentHeight()

	f := Frame{Width: width, Height: height}
	f.Commands = append(f.Commands, Command{Op: OpClear, W: width, H: height, Fill: RoleBackground, Note: NoSelection})

	f.Commands = appendPitchRows(f.Commands, g, width)
	f.Commands = appendTimeLines(f.Commands, g, width, height)

	for i, n := range seq {
		r := g.NoteRect(n)
		cmd := Command{
			Op: OpRect, X: r.X, Y: r.Y, W: r.W, H: r.H,
			Fill: RoleNote, Stroke: RoleNoteStroke, LineWidth: 1,
			Note: i,
		}
		if i == selected {
			cmd.Fill = RoleSelected
			cmd.Stroke = RoleSelectedStroke
			cmd.LineWidth = 2
		}
		f.Commands = append(f.Commands, cmd)
	}

	if t, ok := cursor.Time(); ok {
		x := g.TimeToX(t)
		f.Commands = append(f.Commands, Command{
			Op: OpLine, X: x, Y: 0, X2: x, Y2: height,
			Stroke: RoleCursor, LineWidth: 3, Note: NoSelection,
		})
	}

	return f
}

func appendPitchRows(cmds []Command, g Grid, width float64) []Command {
	for row := 0; row <= g.Rows(); row++ {
		y := float64(row) * g.RowHeight
		pitch := g.MaxPitch - row
		cmd := Command{Op: OpLine, X: 0, Y: y, X2: width, Y2: y, Stroke: RoleGridMinor, LineWidth: 1, Note: NoSelection}
		isC := pitch%12 == 0
		if isC {
			cmd.Stroke = RoleGridMajor
			cmd.LineWidth = 1.5
		}
		cmds = append(cmds, cmd)
		if isC && pitch >= g.MinPitch {
			// baseline sits inside the C row, which starts at y
			cmds = append(cmds, Command{
				Op: OpText, X: labelOffset, Y: y + g.RowHeight - 3,
				Fill: RoleLabel, Text: NoteName(pitch), Pinned: true, Note: NoSelection,
			})
		}
	}
	return cmds
}

func appendTimeLines(cmds []Command, g Grid, width, height float64) []Command {
	step := GridStep(width)
	seconds := width / g.PixelsPerSecond
	lines := int(math.Floor(seconds/step + 1e-9))
	for i := 0; i <= lines; i++ {
		t := float64(i) * step
		x := g.TimeToX(t)
		cmd := Command{Op: OpLine, X: x, Y: 0, X2: x, Y2: height, Stroke: RoleGridMinor, LineWidth: 1, Note: NoSelection}
		if math.Mod(t, 1) == 0 {
			cmd.Stroke = RoleGridMajor
			cmd.LineWidth = 1.5
			cmds = append(cmds, cmd, Command{
				Op: OpText, X: x + labelOffset, Y: 12,
				Fill: RoleLabel, Text: fmt.Sprintf("%ds", int(t)), Note: NoSelection,
			})
			continue
		}
		cmds = append(cmds, cmd)
	}
	return cmds
}
