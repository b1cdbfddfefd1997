package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-pianoroll/roll"
	"go-pianoroll/theme"
)

// CellWidth is how many canvas pixels one terminal column covers (1/8 s).
// One terminal row is one pitch row.
const CellWidth = 10.0

// cell is one terminal character of the canvas
type cell struct {
	ch   rune
	fg   roll.Role
	bg   roll.Role
	note bool
}

// view is the window of the canvas shown in the terminal
type view struct {
	cols      int
	rows      int
	scroll    float64 // px, left edge of column 0
	rowOffset int     // pitch row shown in terminal row 0
}

// toCanvas maps the center of a terminal cell to canvas pixels. Cells outside
// the view map beyond the canvas edges, which the editor clamps.
func (v view) toCanvas(col, row int) (x, y float64) {
	x = v.scroll + float64(col)*CellWidth + CellWidth/2
	y = float64(v.rowOffset+row)*roll.RowHeight + roll.RowHeight/2
	return x, y
}

func (v view) col(x float64) int {
	return int(math.Floor((x - v.scroll) / CellWidth))
}

func (v view) row(y float64) int {
	return int(math.Floor(y/roll.RowHeight)) - v.rowOffset
}

func (v view) viewport() roll.Viewport {
	return roll.Viewport{ScrollOffset: v.scroll, VisibleWidth: float64(v.cols) * CellWidth}
}

// surface is a frame rasterized to terminal cells, plus the labels that go
// in the gutter and ruler
type surface struct {
	cells  [][]cell
	gutter map[int]string // terminal row -> pitch label
	ruler  map[int]string // terminal column -> seconds label
}

// rasterize executes the frame's commands on a grid of cells
func rasterize(f roll.Frame, v view, sym theme.Symbols) surface {
	s := surface{
		cells:  make([][]cell, v.rows),
		gutter: map[int]string{},
		ruler:  map[int]string{},
	}
	for r := range s.cells {
		s.cells[r] = make([]cell, v.cols)
	}

	for _, c := range f.Commands {
		switch c.Op {
		case roll.OpClear:
			s.fill(cell{ch: sym.Blank, fg: c.Fill, bg: c.Fill})
		case roll.OpLine:
			if c.Y == c.Y2 {
				s.hline(c, v)
			} else {
				s.vline(c, v, sym)
			}
		case roll.OpRect:
			s.rect(c, v, sym)
		case roll.OpText:
			s.text(c, v)
		}
	}
	return s
}

func (s *surface) fill(base cell) {
	for r := range s.cells {
		for c := range s.cells[r] {
			s.cells[r][c] = base
		}
	}
}

func (s *surface) inside(col, row int) bool {
	return row >= 0 && row < len(s.cells) && col >= 0 && col < len(s.cells[row])
}

// hline tints the row below a major line; minor lines would cover every row
func (s *surface) hline(c roll.Command, v view) {
	if c.Stroke != roll.RoleGridMajor {
		return
	}
	row := v.row(c.Y)
	if row < 0 || row >= len(s.cells) {
		return
	}
	for i := range s.cells[row] {
		if !s.cells[row][i].note {
			s.cells[row][i].bg = roll.RoleGridMinor
		}
	}
}

func (s *surface) vline(c roll.Command, v view, sym theme.Symbols) {
	col := v.col(c.X)
	top := max(0, v.row(math.Min(c.Y, c.Y2)))
	bottom := min(len(s.cells)-1, v.row(math.Max(c.Y, c.Y2)))

	for row := top; row <= bottom; row++ {
		if !s.inside(col, row) {
			continue
		}
		cl := &s.cells[row][col]
		switch c.Stroke {
		case roll.RoleCursor:
			cl.ch, cl.fg = sym.Cursor, c.Stroke
		case roll.RoleGridMajor:
			if !cl.note {
				cl.ch, cl.fg = sym.Beat, c.Stroke
			}
		default:
			if !cl.note {
				cl.ch, cl.fg = sym.SubBeat, c.Stroke
			}
		}
	}
}

func (s *surface) rect(c roll.Command, v view, sym theme.Symbols) {
	row := v.row(c.Y)
	first := v.col(c.X)
	last := int(math.Ceil((c.X+c.W-v.scroll)/CellWidth)) - 1
	if last < first {
		last = first
	}

	for col := first; col <= last; col++ {
		if !s.inside(col, row) {
			continue
		}
		ch := sym.Blank
		if col == first {
			ch = sym.NoteEdge
		}
		s.cells[row][col] = cell{ch: ch, fg: c.Stroke, bg: c.Fill, note: true}
	}
}

func (s *surface) text(c roll.Command, v view) {
	if c.Pinned {
		// baseline sits inside the labelled row
		if row := v.row(c.Y - 1); row >= 0 && row < len(s.cells) {
			s.gutter[row] = c.Text
		}
		return
	}
	if col := v.col(c.X - labelInset); col >= 0 && col < len(s.cells[0]) {
		s.ruler[col] = c.Text
	}
}

// labelInset is how far ruler labels sit right of their second line
const labelInset = 4

// painter turns surfaces into styled strings, caching one style per color pair
type painter struct {
	theme  *theme.Theme
	styles map[[2]roll.Role]lipgloss.Style
}

func newPainter(th *theme.Theme) *painter {
	return &painter{theme: th, styles: map[[2]roll.Role]lipgloss.Style{}}
}

func (p *painter) style(fg, bg roll.Role) lipgloss.Style {
	k := [2]roll.Role{fg, bg}
	st, ok := p.styles[k]
	if !ok {
		st = lipgloss.NewStyle().
			Foreground(p.theme.DrawColor(fg)).
			Background(p.theme.DrawColor(bg))
		p.styles[k] = st
	}
	return st
}

// row renders one terminal row, one style run at a time
func (p *painter) row(cells []cell) string {
	var out strings.Builder
	var run strings.Builder
	var cur [2]roll.Role

	flush := func() {
		if run.Len() > 0 {
			out.WriteString(p.style(cur[0], cur[1]).Render(run.String()))
			run.Reset()
		}
	}

	for i, c := range cells {
		k := [2]roll.Role{c.fg, c.bg}
		if i > 0 && k != cur {
			flush()
		}
		cur = k
		run.WriteRune(c.ch)
	}
	flush()
	return out.String()
}

// rulerLine lays the seconds labels over a blank line of the given width
func rulerLine(labels map[int]string, cols int) string {
	line := []rune(strings.Repeat(" ", cols))
	for col := 0; col < cols; col++ {
		label, ok := labels[col]
		if !ok {
			continue
		}
		for i, r := range label {
			if col+i < cols {
				line[col+i] = r
			}
		}
	}
	return string(line)
}
