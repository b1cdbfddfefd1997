// Package raster paints roll frames onto images with gg. It is the bitmap
// counterpart of the terminal canvas and backs PNG snapshots.
package raster

import (
	"fmt"
	"image"
	"io"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"go-pianoroll/roll"
	"go-pianoroll/theme"
)

// LabelSize is the font size of pitch and ruler labels
const LabelSize = 10

type Painter struct {
	theme *theme.Theme
	face  font.Face
}

// NewPainter parses the embedded Go font once for every frame it paints
func NewPainter(th *theme.Theme) (*Painter, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing label font: %w", err)
	}
	return &Painter{
		theme: th,
		face:  truetype.NewFace(f, &truetype.Options{Size: LabelSize}),
	}, nil
}

// Window returns the pixel window of the frame a viewport shows. A zero
// visible width means the whole frame.
func Window(f roll.Frame, vp roll.Viewport) (offset, width float64) {
	width = vp.VisibleWidth
	if width <= 0 || width > f.Width {
		width = f.Width
	}
	offset = math.Max(0, math.Min(vp.ScrollOffset, f.Width-width))
	return offset, width
}

// Context executes the frame's commands on a new gg context sized to the
// viewport. Commands outside the window are clipped by the context.
func (p *Painter) Context(f roll.Frame, vp roll.Viewport) *gg.Context {
	offset, width := Window(f, vp)
	dc := gg.NewContext(int(math.Ceil(width)), int(math.Ceil(f.Height)))
	dc.SetFontFace(p.face)
	dc.Translate(-offset, 0)

	for _, c := range f.Commands {
		if c.Op != roll.OpClear && outside(c, offset, width) {
			continue
		}
		p.exec(dc, c, offset, width)
	}
	return dc
}

// Paint returns the viewport of the frame as an image
func (p *Painter) Paint(f roll.Frame, vp roll.Viewport) image.Image {
	return p.Context(f, vp).Image()
}

// EncodePNG writes the viewport of the frame to w as PNG
func (p *Painter) EncodePNG(w io.Writer, f roll.Frame, vp roll.Viewport) error {
	if err := p.Context(f, vp).EncodePNG(w); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

// SavePNG writes the viewport of the frame to path
func (p *Painter) SavePNG(path string, f roll.Frame, vp roll.Viewport) error {
	if err := p.Context(f, vp).SavePNG(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

func (p *Painter) setColor(dc *gg.Context, role roll.Role) {
	dc.SetColor(p.theme.Draw(role).Color())
}

func (p *Painter) exec(dc *gg.Context, c roll.Command, offset, width float64) {
	switch c.Op {
	case roll.OpClear:
		p.setColor(dc, c.Fill)
		dc.DrawRectangle(offset, 0, width, float64(dc.Height()))
		dc.Fill()

	case roll.OpLine:
		p.setColor(dc, c.Stroke)
		dc.SetLineWidth(c.LineWidth)
		dc.DrawLine(c.X, c.Y, c.X2, c.Y2)
		dc.Stroke()

	case roll.OpRect:
		dc.DrawRectangle(c.X, c.Y, c.W, c.H)
		p.setColor(dc, c.Fill)
		dc.FillPreserve()
		p.setColor(dc, c.Stroke)
		dc.SetLineWidth(c.LineWidth)
		dc.Stroke()

	case roll.OpText:
		p.setColor(dc, c.Fill)
		x := c.X
		if c.Pinned {
			x += offset
		}
		dc.DrawString(c.Text, x, c.Y)
	}
}

// outside reports whether a command cannot touch the visible window
func outside(c roll.Command, offset, width float64) bool {
	lo, hi := c.X, c.X
	switch c.Op {
	case roll.OpLine:
		lo, hi = math.Min(c.X, c.X2), math.Max(c.X, c.X2)
		lo -= c.LineWidth
		hi += c.LineWidth
	case roll.OpRect:
		hi = c.X + c.W + c.LineWidth
		lo -= c.LineWidth
	case roll.OpText:
		if c.Pinned {
			return false
		}
		// room for a few characters of ruler text
		lo -= 2 * LabelSize
		hi += 4 * LabelSize
	}
	return hi < offset || lo > offset+width
}
