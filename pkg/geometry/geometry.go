// Geometric primitives for diagram rendering and hit-testing.
// Coordinates are canvas units with Y increasing downward.

// Package geometry provides the pure routing and curve functions used to draw
// connectors between rectangular nodes.
package geometry

import "math"

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Scale multiplies both components by k.
func (p Point) Scale(k float64) Point {
	return Point{p.X * k, p.Y * k}
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Rect represents an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y          float64 // Top-left
	Width, Height float64
}

// Boxed is anything that occupies a rectangle on the canvas: a diagram node,
// or the synthetic cursor rectangle used while a connector is being dragged.
type Boxed interface {
	Bounds() Rect
}

// Bounds lets a bare Rect act as a connector endpoint.
func (r Rect) Bounds() Rect { return r }

func (r Rect) Left() float64   { return r.X }
func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Top() float64    { return r.Y }
func (r Rect) Bottom() float64 { return r.Y + r.Height }
func (r Rect) MidX() float64   { return r.X + r.Width/2 }
func (r Rect) MidY() float64   { return r.Y + r.Height/2 }

// Center returns the centre point of the rectangle.
func (r Rect) Center() Point {
	return Point{r.MidX(), r.MidY()}
}

// Contains reports whether (x, y) lies inside r. Edges count as inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.Left() && x <= r.Right() && y >= r.Top() && y <= r.Bottom()
}

// Union returns the smallest rectangle containing both r and o.
// A zero-sized rectangle is treated as empty.
func (r Rect) Union(o Rect) Rect {
	if r.Width == 0 && r.Height == 0 {
		return o
	}
	if o.Width == 0 && o.Height == 0 {
		return r
	}
	minX := math.Min(r.Left(), o.Left())
	minY := math.Min(r.Top(), o.Top())
	maxX := math.Max(r.Right(), o.Right())
	maxY := math.Max(r.Bottom(), o.Bottom())
	return Rect{minX, minY, maxX - minX, maxY - minY}
}

// Inset grows (d > 0) or shrinks (d < 0) the rectangle on every side.
func (r Rect) Inset(d float64) Rect {
	return Rect{r.X - d, r.Y - d, r.Width + 2*d, r.Height + 2*d}
}

// CursorRect is the 1x1 stand-in for the pointer while a new connector is
// dragged over empty canvas.
func CursorRect(x, y float64) Rect {
	return Rect{X: x, Y: y, Width: 1, Height: 1}
}

// BoundsOf returns the bounding box of a set of points.
func BoundsOf(points ...Point) Rect {
	if len(points) == 0 {
		return Rect{}
	}

	minX, minY := points[0].X, points[0].Y
	maxX, maxY := points[0].X, points[0].Y

	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}

	return Rect{minX, minY, maxX - minX, maxY - minY}
}
