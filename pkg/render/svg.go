// SVG rendering for diagrams.

package render

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/ha1tch/nodeedit/pkg/geometry"
)

// SVG records drawing calls as SVG elements. Clear starts a new document, so
// the surface can be re-rendered any number of times.
type SVG struct {
	buf    bytes.Buffer
	canvas *svg.SVG
	w, h   int
}

// NewSVG creates an SVG surface of width x height canvas units.
func NewSVG(width, height int) *SVG {
	s := &SVG{w: width, h: height}
	s.canvas = svg.New(&s.buf)
	s.canvas.Start(width, height)
	return s
}

func (s *SVG) Size() (float64, float64) { return float64(s.w), float64(s.h) }

func (s *SVG) Clear(c color.Color) {
	s.buf.Reset()
	s.canvas.Start(s.w, s.h)
	s.canvas.Rect(0, 0, s.w, s.h, "fill:"+hexColor(c))
}

func rectPath(r geometry.Rect) string {
	return fmt.Sprintf("M%s %s H%s V%s H%s Z",
		num(r.Left()), num(r.Top()), num(r.Right()), num(r.Bottom()), num(r.Left()))
}

func (s *SVG) FillRect(r geometry.Rect, c color.Color) {
	s.canvas.Path(rectPath(r), "stroke:none;fill:"+hexColor(c))
}

func (s *SVG) StrokeRect(r geometry.Rect, c color.Color, width float64) {
	s.canvas.Path(rectPath(r),
		fmt.Sprintf("fill:none;stroke:%s;stroke-width:%s", hexColor(c), num(width)))
}

func (s *SVG) DrawText(text string, at geometry.Point, c color.Color, size float64) {
	s.canvas.Text(int(math.Round(at.X)), int(math.Round(at.Y)), text,
		fmt.Sprintf("text-anchor:middle;dominant-baseline:central;font-family:sans-serif;font-size:%spx;fill:%s",
			num(size), hexColor(c)))
}

func (s *SVG) StrokeCurve(p geometry.Path, c color.Color, width float64) {
	d := fmt.Sprintf("M%s %s Q%s %s %s %s Q%s %s %s %s",
		num(p.From.X), num(p.From.Y),
		num(p.Ctrl1.X), num(p.Ctrl1.Y), num(p.Mid.X), num(p.Mid.Y),
		num(p.Ctrl2.X), num(p.Ctrl2.Y), num(p.To.X), num(p.To.Y))
	s.canvas.Path(d, fmt.Sprintf("fill:none;stroke:%s;stroke-width:%s", hexColor(c), num(width)))
}

func (s *SVG) FillTriangle(a, b, c geometry.Point, col color.Color) {
	d := fmt.Sprintf("M%s %s L%s %s L%s %s Z",
		num(a.X), num(a.Y), num(b.X), num(b.Y), num(c.X), num(c.Y))
	s.canvas.Path(d, "stroke:none;fill:"+hexColor(col))
}

// Encode writes the document, closing the root element.
func (s *SVG) Encode(w io.Writer) error {
	if _, err := w.Write(s.buf.Bytes()); err != nil {
		return err
	}
	svg.New(w).End()
	return nil
}

// Bytes returns the complete document.
func (s *SVG) Bytes() []byte {
	var out bytes.Buffer
	_ = s.Encode(&out) // bytes.Buffer writes do not fail
	return out.Bytes()
}

func num(f float64) string {
	return fmt.Sprintf("%g", math.Round(f*100)/100)
}

// hexColor formats c as #rrggbb, or rgba() when translucent.
func hexColor(c color.Color) string {
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	if nc.A < 255 {
		return fmt.Sprintf("rgba(%d,%d,%d,%.2f)", nc.R, nc.G, nc.B, float64(nc.A)/255)
	}
	return fmt.Sprintf("#%02x%02x%02x", nc.R, nc.G, nc.B)
}
