package roll

import "math"

// Layout constants
const (
	RowHeight       = 14.0  // px per pitch row
	PixelsPerSecond = 80.0  // px per second
	MinPitch        = 21    // A0, lowest piano key
	MaxPitch        = 108   // C8, highest piano key
	MaxTotalSeconds = 300.0 // hard ceiling for any note end
	MinCanvasWidth  = 400.0 // px
	TrailingSeconds = 2.0   // room after the last note for adding more
	MinNoteWidth    = 6.0   // px, so very short notes stay clickable
	NoteMargin      = 2.0   // px trimmed from the row height when drawing notes
)

// Grid maps between musical coordinates (seconds, MIDI pitch) and canvas
// pixels. The zero value is not usable; start from DefaultGrid.
type Grid struct {
	PixelsPerSecond float64
	RowHeight       float64
	MinPitch        int
	MaxPitch        int
	MaxSeconds      float64
	MinWidth        float64
	TrailingSeconds float64
}

// DefaultGrid returns the standard piano keyboard layout
func DefaultGrid() Grid {
	return Grid{
		PixelsPerSecond: PixelsPerSecond,
		RowHeight:       RowHeight,
		MinPitch:        MinPitch,
		MaxPitch:        MaxPitch,
		MaxSeconds:      MaxTotalSeconds,
		MinWidth:        MinCanvasWidth,
		TrailingSeconds: TrailingSeconds,
	}
}

// Rows returns the number of pitch rows on the keyboard span
func (g Grid) Rows() int {
	return g.MaxPitch - g.MinPitch + 1
}

// ClampPitch pulls a pitch into the keyboard span
func (g Grid) ClampPitch(pitch int) int {
	if pitch < g.MinPitch {
		return g.MinPitch
	}
	if pitch > g.MaxPitch {
		return g.MaxPitch
	}
	return pitch
}

// PitchToY returns the top edge of the pitch's row. Highest pitch is at y=0.
func (g Grid) PitchToY(pitch int) float64 {
	return float64(g.MaxPitch-g.ClampPitch(pitch)) * g.RowHeight
}

// YToPitch is the inverse of PitchToY, rounding to the nearest row edge
func (g Grid) YToPitch(y float64) int {
	row := int(math.Round(y / g.RowHeight))
	return g.ClampPitch(g.MaxPitch - row)
}

// RowAt returns the pitch whose row band contains y
func (g Grid) RowAt(y float64) int {
	return g.YToPitch(y - g.RowHeight/2)
}

func (g Grid) TimeToX(t float64) float64 {
	return t * g.PixelsPerSecond
}

// XToTime is the inverse of TimeToX, never negative
func (g Grid) XToTime(x float64) float64 {
	return math.Max(0, x/g.PixelsPerSecond)
}

// ClampStart keeps start+duration under the ceiling and start at or above 0.
// The second return reports whether the ceiling moved the start.
func (g Grid) ClampStart(start, duration float64) (float64, bool) {
	clamped := false
	if limit := g.MaxSeconds - duration; start > limit {
		start = limit
		clamped = true
	}
	if start < 0 {
		start = 0
	}
	return start, clamped
}

// ContentWidth is the canvas width for a sequence. It leaves trailing room
// after the last note so notes can be added past the end, and never exceeds
// the ceiling.
func (g Grid) ContentWidth(seq Sequence) float64 {
	w := math.Max(g.MinWidth, (seq.End()+g.TrailingSeconds)*g.PixelsPerSecond)
	return math.Min(w, g.MaxSeconds*g.PixelsPerSecond)
}

// ContentHeight covers every pitch row
func (g Grid) ContentHeight() float64 {
	return float64(g.Rows()) * g.RowHeight
}

// ContentEnd is the content width expressed in seconds
func (g Grid) ContentEnd(seq Sequence) float64 {
	return g.ContentWidth(seq) / g.PixelsPerSecond
}

// Rect is an axis-aligned box in canvas pixels
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether (x, y) is inside r, edges included
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// NoteRect returns the drawn (and hit-tested) rectangle of a note
func (g Grid) NoteRect(n Note) Rect {
	return Rect{
		X: g.TimeToX(n.Start),
		Y: g.PitchToY(n.Pitch),
		W: math.Max(MinNoteWidth, g.TimeToX(n.Duration)),
		H: g.RowHeight - NoteMargin,
	}
}
