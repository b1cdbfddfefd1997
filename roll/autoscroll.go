package roll

import "math"

// EdgePadding is how close (px) the cursor may get to a viewport edge
const EdgePadding = 80.0

// Viewport is the visible horizontal window onto the canvas
type Viewport struct {
	ScrollOffset float64
	VisibleWidth float64
}

// Follow returns the viewport adjusted so cursorX sits at least EdgePadding
// inside it. A cursor already well inside the view leaves it untouched.
func Follow(vp Viewport, cursorX, contentWidth float64) Viewport {
	pad := math.Min(EdgePadding, vp.VisibleWidth/2)
	left := vp.ScrollOffset + pad
	right := vp.ScrollOffset + vp.VisibleWidth - pad

	switch {
	case cursorX < left:
		vp.ScrollOffset = cursorX - pad
	case cursorX > right:
		vp.ScrollOffset = cursorX - vp.VisibleWidth + pad
	default:
		return vp
	}

	maxOffset := math.Max(0, contentWidth-vp.VisibleWidth)
	vp.ScrollOffset = math.Max(0, math.Min(vp.ScrollOffset, maxOffset))
	return vp
}

// Autoscroller follows the authoritative cursor. It only acts when the
// cursor time changes, so a manual scroll stays put while the cursor is idle.
type Autoscroller struct {
	grid Grid
	last float64
	seen bool
}

func NewAutoscroller(g Grid) *Autoscroller {
	return &Autoscroller{grid: g}
}

// Update returns the viewport to use and whether it changed
func (a *Autoscroller) Update(vp Viewport, c Cursor, contentWidth float64) (Viewport, bool) {
	t, ok := c.Time()
	if !ok {
		a.seen = false
		return vp, false
	}
	if a.seen && t == a.last {
		return vp, false
	}
	a.last, a.seen = t, true

	next := Follow(vp, a.grid.TimeToX(t), contentWidth)
	return next, next != vp
}
