// Anti-aliased PNG rendering through gg's path rasterizer.

package render

import (
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ha1tch/nodeedit/pkg/geometry"
)

// Vector draws with gg, which strokes quadratic curves natively.
type Vector struct {
	dc    *gg.Context
	font  *truetype.Font
	faces map[float64]font.Face
}

// NewVector creates a gg-backed surface of width x height canvas units.
func NewVector(width, height int) *Vector {
	fnt, err := truetype.Parse(goregular.TTF)
	if err != nil {
		panic(err) // embedded font
	}
	return &Vector{
		dc:    gg.NewContext(width, height),
		font:  fnt,
		faces: make(map[float64]font.Face),
	}
}

func (v *Vector) Size() (float64, float64) {
	return float64(v.dc.Width()), float64(v.dc.Height())
}

func (v *Vector) Clear(c color.Color) {
	v.dc.SetColor(c)
	v.dc.Clear()
}

func (v *Vector) FillRect(r geometry.Rect, c color.Color) {
	v.dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	v.dc.SetColor(c)
	v.dc.Fill()
}

func (v *Vector) StrokeRect(r geometry.Rect, c color.Color, width float64) {
	v.dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	v.dc.SetColor(c)
	v.dc.SetLineWidth(width)
	v.dc.Stroke()
}

func (v *Vector) DrawText(text string, at geometry.Point, c color.Color, size float64) {
	face, ok := v.faces[size]
	if !ok {
		face = truetype.NewFace(v.font, &truetype.Options{Size: size})
		v.faces[size] = face
	}
	v.dc.SetFontFace(face)
	v.dc.SetColor(c)
	v.dc.DrawStringAnchored(text, at.X, at.Y, 0.5, 0.5)
}

func (v *Vector) StrokeCurve(p geometry.Path, c color.Color, width float64) {
	v.dc.MoveTo(p.From.X, p.From.Y)
	v.dc.QuadraticTo(p.Ctrl1.X, p.Ctrl1.Y, p.Mid.X, p.Mid.Y)
	v.dc.QuadraticTo(p.Ctrl2.X, p.Ctrl2.Y, p.To.X, p.To.Y)
	v.dc.SetColor(c)
	v.dc.SetLineWidth(width)
	v.dc.Stroke()
}

func (v *Vector) FillTriangle(a, b, c geometry.Point, col color.Color) {
	v.dc.MoveTo(a.X, a.Y)
	v.dc.LineTo(b.X, b.Y)
	v.dc.LineTo(c.X, c.Y)
	v.dc.ClosePath()
	v.dc.SetColor(col)
	v.dc.Fill()
}

// Image returns the rendered image.
func (v *Vector) Image() image.Image {
	return v.dc.Image()
}

// Encode writes the surface as PNG.
func (v *Vector) Encode(w io.Writer) error {
	return v.dc.EncodePNG(w)
}
