package theme

import (
	"github.com/charmbracelet/lipgloss"

	"go-pianoroll/roll"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	// Key help widget
	Solid rune // ■ bound
	Empty rune // □ unavailable in this mode

	// Terminal canvas
	Beat     rune // │ whole-second line
	SubBeat  rune // ┊ grid step line
	Cursor   rune // ┃ playback/seek cursor
	Blank    rune // empty cell
	NoteEdge rune // ▎ first cell of a note
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			Solid: '■',
			Empty: '□',

			Beat:     '│',
			SubBeat:  '┊',
			Cursor:   '┃',
			Blank:    ' ',
			NoteEdge: '▎',
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG      = 0.0 // deep purple
	RoleSurface = 0.1 // dark purple
	RoleMuted   = 0.2 // purple-magenta
	RoleFG      = 0.4 // pink-purple (readable)
	RoleAccent  = 0.5 // vivid magenta
	RoleCursor  = 0.6 // rose pink
	RoleActive  = 0.7 // soft red
	RoleWarning = 0.8 // orange
	RoleSuccess = 1.0 // bright yellow
)

// stop places a draw role on the palette, optionally darkened
type stop struct {
	pos float64
	dim float64
}

var drawRoles = map[roll.Role]stop{
	roll.RoleBackground:     {RoleBG, 0.25},
	roll.RoleGridMinor:      {RoleSurface, 0.55},
	roll.RoleGridMajor:      {RoleMuted, 0.8},
	roll.RoleNote:           {RoleAccent, 1},
	roll.RoleNoteStroke:     {RoleAccent, 0.6},
	roll.RoleSelected:       {RoleWarning, 1},
	roll.RoleSelectedStroke: {RoleSuccess, 1},
	roll.RoleCursor:         {RoleActive, 1},
	roll.RoleLabel:          {RoleWarning, 0.9},
}

// Draw returns the color for a render role. Unknown roles get the foreground.
func (t *Theme) Draw(role roll.Role) RGB {
	s, ok := drawRoles[role]
	if !ok {
		return t.Palette.Lookup(RoleFG)
	}
	return Dim(t.Palette.Lookup(s.pos), s.dim)
}

// DrawColor is Draw as a lipgloss color
func (t *Theme) DrawColor(role roll.Role) lipgloss.Color {
	return rgbToLipgloss(t.Draw(role))
}

// Style helpers

func (t *Theme) BG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleBG))
}

func (t *Theme) FG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleFG))
}

func (t *Theme) Accent() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleAccent))
}

func (t *Theme) Muted() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleMuted))
}

func (t *Theme) Active() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleActive))
}

func (t *Theme) Cursor() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleCursor))
}

func (t *Theme) Warning() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleWarning))
}

func (t *Theme) Success() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleSuccess))
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(c.Hex())
}
