// Connector routing between two axis-aligned rectangles.
// Produces a two-segment quadratic curve leaving the source and entering the
// target orthogonally, plus a filled arrowhead at the target.

package geometry

// ArrowSize is the arrowhead length. The curve stops this far short of the
// target edge so the arrow tip touches it.
const ArrowSize = 6.0

// Placement describes where the source rectangle sits relative to the target.
type Placement int

const (
	LeftOf      Placement = iota // source right edge < target left edge
	RightOf                      // source left edge > target right edge
	Above                        // source bottom < target top
	Below                        // source top > target bottom
	Overlapping                  // boxes intersect on both axes
)

func (p Placement) String() string {
	switch p {
	case LeftOf:
		return "left-of"
	case RightOf:
		return "right-of"
	case Above:
		return "above"
	case Below:
		return "below"
	case Overlapping:
		return "overlapping"
	default:
		return "unknown"
	}
}

// Orientation is the axis a route leaves its source along.
type Orientation int

const (
	None Orientation = iota
	Horizontal
	Vertical
)

// Orientation returns the route axis for a placement.
func (p Placement) Orientation() Orientation {
	switch p {
	case LeftOf, RightOf:
		return Horizontal
	case Above, Below:
		return Vertical
	default:
		return None
	}
}

// Classify picks the routing case for from -> to. Horizontal separation is
// tested before vertical, and all comparisons are strict.
func Classify(from, to Rect) Placement {
	switch {
	case from.Right() < to.Left():
		return LeftOf
	case from.Left() > to.Right():
		return RightOf
	case from.Bottom() < to.Top():
		return Above
	case from.Top() > to.Bottom():
		return Below
	default:
		return Overlapping
	}
}

// Arrowhead is a filled triangle: Tip plus the two base corners.
type Arrowhead struct {
	Tip, Left, Right Point
}

// Path is the routed geometry of one connector.
type Path struct {
	Placement Placement
	From, To  Point // anchors; To is ArrowSize short of the target edge
	Mid       Point
	Ctrl1     Point // control point of From -> Mid
	Ctrl2     Point // control point of Mid -> To
	Arrow     Arrowhead
}

// Visible is false for overlapping boxes; such connectors are not drawn.
func (p Path) Visible() bool {
	return p.Placement != Overlapping
}

// Orientation returns the axis the path leaves its source along.
func (p Path) Orientation() Orientation {
	return p.Placement.Orientation()
}

// Route computes the connector path from one rectangle to another.
func Route(from, to Rect) Path {
	p := Path{Placement: Classify(from, to)}

	switch p.Placement {
	case LeftOf:
		p.From = Point{from.Right(), from.MidY()}
		p.To = Point{to.Left() - ArrowSize, to.MidY()}
	case RightOf:
		p.From = Point{from.Left(), from.MidY()}
		p.To = Point{to.Right() + ArrowSize, to.MidY()}
	case Above:
		p.From = Point{from.MidX(), from.Bottom()}
		p.To = Point{to.MidX(), to.Top() - ArrowSize}
	case Below:
		p.From = Point{from.MidX(), from.Top()}
		p.To = Point{to.MidX(), to.Bottom() + ArrowSize}
	default:
		p.From = from.Center()
		p.To = to.Center()
	}

	p.Mid = p.From.Add(p.To.Sub(p.From).Scale(0.5))

	switch p.Orientation() {
	case Horizontal:
		p.Ctrl1 = Point{p.Mid.X, p.From.Y}
		p.Ctrl2 = Point{p.Mid.X, p.To.Y}
		p.Arrow = horizontalArrow(p.From, p.To)
	case Vertical:
		p.Ctrl1 = Point{p.From.X, p.Mid.Y}
		p.Ctrl2 = Point{p.To.X, p.Mid.Y}
		p.Arrow = verticalArrow(p.From, p.To)
	default:
		p.Ctrl1 = p.Mid
		p.Ctrl2 = p.Mid
	}

	return p
}

// RouteBetween routes between two Boxed endpoints.
func RouteBetween(from, to Boxed) Path {
	return Route(from.Bounds(), to.Bounds())
}

// The arrow direction comes from comparing anchor coordinates, not from the
// curve tangent. For some layouts this points the arrow backwards.
func horizontalArrow(from, to Point) Arrowhead {
	half := ArrowSize / 2
	tip := Point{to.X - ArrowSize, to.Y}
	if to.X+ArrowSize > from.X {
		tip = Point{to.X + ArrowSize, to.Y}
	}
	return Arrowhead{
		Tip:   tip,
		Left:  Point{to.X, to.Y - half},
		Right: Point{to.X, to.Y + half},
	}
}

func verticalArrow(from, to Point) Arrowhead {
	half := ArrowSize / 2
	tip := Point{to.X, to.Y - ArrowSize}
	if to.Y+ArrowSize > from.Y {
		tip = Point{to.X, to.Y + ArrowSize}
	}
	return Arrowhead{
		Tip:   tip,
		Left:  Point{to.X - half, to.Y},
		Right: Point{to.X + half, to.Y},
	}
}

// PointsRight reports whether a horizontal arrowhead points in +X.
func (a Arrowhead) PointsRight() bool { return a.Tip.X > a.Left.X }

// PointsDown reports whether a vertical arrowhead points in +Y.
func (a Arrowhead) PointsDown() bool { return a.Tip.Y > a.Left.Y }

// Bounds returns the box enclosing anchors, control points and arrowhead.
func (p Path) Bounds() Rect {
	if !p.Visible() {
		return BoundsOf(p.From, p.To)
	}
	return BoundsOf(p.From, p.Ctrl1, p.Mid, p.Ctrl2, p.To,
		p.Arrow.Tip, p.Arrow.Left, p.Arrow.Right)
}
