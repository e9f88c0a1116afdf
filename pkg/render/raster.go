// Native PNG rendering for diagrams.
// Draws into a supersampled image.RGBA and downsamples on encode.

package render

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ha1tch/nodeedit/pkg/geometry"
)

// supersample is the render scale of a Raster before downsampling.
const supersample = 4

// Raster is a software surface. Lines and curves are stamped pixel by pixel
// at 4x resolution, then scaled down with Catmull-Rom for smooth edges.
type Raster struct {
	img   *image.RGBA
	scale float64
	w, h  float64

	font  *opentype.Font
	faces map[float64]font.Face
}

// NewRaster creates a raster surface of width x height canvas units.
func NewRaster(width, height int) *Raster {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		panic(err) // embedded font
	}

	return &Raster{
		img:   image.NewRGBA(image.Rect(0, 0, width*supersample, height*supersample)),
		scale: supersample,
		w:     float64(width),
		h:     float64(height),
		font:  fnt,
		faces: make(map[float64]font.Face),
	}
}

func (r *Raster) Size() (float64, float64) { return r.w, r.h }

func (r *Raster) Clear(c color.Color) {
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// device converts a canvas rectangle to pixel bounds at render scale.
func (r *Raster) device(rect geometry.Rect) image.Rectangle {
	return image.Rect(
		int(math.Round(rect.Left()*r.scale)),
		int(math.Round(rect.Top()*r.scale)),
		int(math.Round(rect.Right()*r.scale)),
		int(math.Round(rect.Bottom()*r.scale)),
	).Intersect(r.img.Bounds())
}

func (r *Raster) FillRect(rect geometry.Rect, c color.Color) {
	draw.Draw(r.img, r.device(rect), image.NewUniform(c), image.Point{}, draw.Over)
}

// StrokeRect draws the outline as four bands centred on the edges.
func (r *Raster) StrokeRect(rect geometry.Rect, c color.Color, width float64) {
	hw := width / 2
	src := image.NewUniform(c)
	bands := []geometry.Rect{
		{X: rect.Left() - hw, Y: rect.Top() - hw, Width: rect.Width + width, Height: width},
		{X: rect.Left() - hw, Y: rect.Bottom() - hw, Width: rect.Width + width, Height: width},
		{X: rect.Left() - hw, Y: rect.Top() - hw, Width: width, Height: rect.Height + width},
		{X: rect.Right() - hw, Y: rect.Top() - hw, Width: width, Height: rect.Height + width},
	}
	for _, b := range bands {
		draw.Draw(r.img, r.device(b), src, image.Point{}, draw.Over)
	}
}

func (r *Raster) face(size float64) font.Face {
	if f, ok := r.faces[size]; ok {
		return f
	}
	f, err := opentype.NewFace(r.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone, // supersampled instead
	})
	if err != nil {
		panic(err)
	}
	r.faces[size] = f
	return f
}

// DrawText draws text centred on at using Go Regular.
func (r *Raster) DrawText(text string, at geometry.Point, c color.Color, size float64) {
	face := r.face(size * r.scale)
	width := font.MeasureString(face, text).Ceil()

	// Centre the ascent-descent band on at.Y.
	metrics := face.Metrics()
	x := int(at.X*r.scale) - width/2
	baseline := int(at.Y*r.scale) + (metrics.Ascent.Ceil()-metrics.Descent.Ceil())/2

	d := &font.Drawer{
		Dst:  r.img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(baseline)},
	}
	d.DrawString(text)
}

// StrokeCurve flattens both quadratic segments and draws them as thick lines.
func (r *Raster) StrokeCurve(p geometry.Path, c color.Color, width float64) {
	r.strokeQuad(p.From, p.Ctrl1, p.Mid, c, width)
	r.strokeQuad(p.Mid, p.Ctrl2, p.To, c, width)
}

func (r *Raster) strokeQuad(p0, ctrl, p1 geometry.Point, c color.Color, width float64) {
	steps := geometry.StepsFor(p0, ctrl, p1, 1/r.scale)
	pts := geometry.FlattenQuad(p0, ctrl, p1, steps)
	for i := 1; i < len(pts); i++ {
		r.drawLine(pts[i-1].Scale(r.scale), pts[i].Scale(r.scale), width*r.scale, c)
	}
}

// drawLine draws a line between two device points with the given thickness.
func (r *Raster) drawLine(a, b geometry.Point, thickness float64, c color.Color) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	halfThick := thickness / 2

	dist := math.Sqrt(dx*dx + dy*dy)
	if dist < 1 {
		for ty := -halfThick; ty <= halfThick; ty++ {
			for tx := -halfThick; tx <= halfThick; tx++ {
				r.img.Set(int(a.X+tx), int(a.Y+ty), c)
			}
		}
		return
	}

	perpX := -dy / dist
	perpY := dx / dist
	steps := math.Max(math.Abs(dx), math.Abs(dy))

	for i := 0.0; i <= steps; i++ {
		t := i / steps
		cx := a.X + dx*t
		cy := a.Y + dy*t

		for offset := -halfThick; offset <= halfThick; offset += 0.5 {
			r.img.Set(int(cx+perpX*offset), int(cy+perpY*offset), c)
		}
	}
}

// FillTriangle fills every pixel whose centre lies inside the triangle.
func (r *Raster) FillTriangle(a, b, c geometry.Point, col color.Color) {
	a, b, c = a.Scale(r.scale), b.Scale(r.scale), c.Scale(r.scale)
	box := geometry.BoundsOf(a, b, c)
	bounds := r.img.Bounds()

	minX := max(int(math.Floor(box.Left())), bounds.Min.X)
	maxX := min(int(math.Ceil(box.Right())), bounds.Max.X-1)
	minY := max(int(math.Floor(box.Top())), bounds.Min.Y)
	maxY := min(int(math.Ceil(box.Bottom())), bounds.Max.Y-1)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if insideTriangle(geometry.Point{X: float64(x) + 0.5, Y: float64(y) + 0.5}, a, b, c) {
				r.img.Set(x, y, col)
			}
		}
	}
}

// insideTriangle uses edge-function signs; either winding order works.
func insideTriangle(p, a, b, c geometry.Point) bool {
	d1 := edge(p, a, b)
	d2 := edge(p, b, c)
	d3 := edge(p, c, a)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

func edge(p, a, b geometry.Point) float64 {
	return (p.X-b.X)*(a.Y-b.Y) - (a.X-b.X)*(p.Y-b.Y)
}

// Image returns the downsampled result.
func (r *Raster) Image() image.Image {
	out := image.NewRGBA(image.Rect(0, 0, int(r.w), int(r.h)))
	draw.CatmullRom.Scale(out, out.Bounds(), r.img, r.img.Bounds(), draw.Over, nil)
	return out
}

// Encode writes the surface as PNG.
func (r *Raster) Encode(w io.Writer) error {
	return png.Encode(w, r.Image())
}
