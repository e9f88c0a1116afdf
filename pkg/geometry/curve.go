// Quadratic Bézier evaluation for backends that rasterize curves themselves.

package geometry

import "math"

// QuadAt evaluates the quadratic Bézier p0, c, p1 at t ∈ [0,1].
func QuadAt(p0, c, p1 Point, t float64) Point {
	mt := 1 - t
	return Point{
		X: mt*mt*p0.X + 2*mt*t*c.X + t*t*p1.X,
		Y: mt*mt*p0.Y + 2*mt*t*c.Y + t*t*p1.Y,
	}
}

// QuadTangent returns the derivative of the quadratic Bézier at t.
func QuadTangent(p0, c, p1 Point, t float64) Point {
	mt := 1 - t
	return Point{
		X: 2*mt*(c.X-p0.X) + 2*t*(p1.X-c.X),
		Y: 2*mt*(c.Y-p0.Y) + 2*t*(p1.Y-c.Y),
	}
}

// FlattenQuad samples the curve into steps+1 points, endpoints included.
func FlattenQuad(p0, c, p1 Point, steps int) []Point {
	if steps < 1 {
		steps = 1
	}
	pts := make([]Point, 0, steps+1)
	for i := 0; i <= steps; i++ {
		pts = append(pts, QuadAt(p0, c, p1, float64(i)/float64(steps)))
	}
	return pts
}

// Points flattens both segments of a path into one polyline. The shared
// midpoint appears once.
func (p Path) Points(steps int) []Point {
	first := FlattenQuad(p.From, p.Ctrl1, p.Mid, steps)
	second := FlattenQuad(p.Mid, p.Ctrl2, p.To, steps)
	return append(first, second[1:]...)
}

// PolylineLength sums the segment lengths of a polyline.
func PolylineLength(pts []Point) float64 {
	length := 0.0
	for i := 1; i < len(pts); i++ {
		length += pts[i].Dist(pts[i-1])
	}
	return length
}

// Length approximates the arc length of the routed curve.
func (p Path) Length() float64 {
	if !p.Visible() {
		return 0
	}
	return PolylineLength(p.Points(50))
}

// StepsFor picks a sample count so consecutive samples are at most spacing
// apart, given the distance the curve spans.
func StepsFor(p0, c, p1 Point, spacing float64) int {
	if spacing <= 0 {
		spacing = 1
	}
	// The control polygon length bounds the curve length.
	span := p0.Dist(c) + c.Dist(p1)
	return int(math.Max(1, math.Ceil(span/spacing)))
}
