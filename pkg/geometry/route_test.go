package geometry

import (
	"math"
	"testing"
)

func nodeRect(x, y float64) Rect {
	return Rect{X: x, Y: y, Width: 100, Height: 30}
}

func near(a, b Point) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		from, to Rect
		want     Placement
	}{
		{"left of", nodeRect(0, 0), nodeRect(200, 0), LeftOf},
		{"right of", nodeRect(200, 0), nodeRect(0, 0), RightOf},
		{"above", nodeRect(0, 0), nodeRect(0, 100), Above},
		{"below", nodeRect(0, 100), nodeRect(0, 0), Below},
		{"horizontal wins over vertical", nodeRect(0, 0), nodeRect(200, 300), LeftOf},
		{"touching edges overlap", nodeRect(0, 0), nodeRect(100, 0), Overlapping},
		{"stacked touching overlap", nodeRect(0, 0), nodeRect(0, 30), Overlapping},
		{"intersecting", nodeRect(0, 0), nodeRect(50, 10), Overlapping},
		{"identical", nodeRect(10, 10), nodeRect(10, 10), Overlapping},
		{"cursor right of node", nodeRect(0, 0), CursorRect(150, 15), LeftOf},
		{"cursor inside node", nodeRect(0, 0), CursorRect(50, 15), Overlapping},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.from, tt.to); got != tt.want {
				t.Errorf("Classify = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyExclusive(t *testing.T) {
	// Walk a grid of target positions and check each falls in exactly one case.
	from := nodeRect(200, 200)
	for x := 0.0; x <= 400; x += 25 {
		for y := 0.0; y <= 400; y += 10 {
			to := nodeRect(x, y)
			matches := 0
			if from.Right() < to.Left() {
				matches++
			} else if from.Left() > to.Right() {
				matches++
			} else if from.Bottom() < to.Top() {
				matches++
			} else if from.Top() > to.Bottom() {
				matches++
			}
			overlapping := Classify(from, to) == Overlapping
			if overlapping && matches != 0 {
				t.Errorf("(%v,%v): overlap reported for separated boxes", x, y)
			}
			if !overlapping && matches != 1 {
				t.Errorf("(%v,%v): expected exactly one directional case", x, y)
			}
			if overlapping != (overlapArea(from, to) > 0 || touching(from, to)) {
				t.Errorf("(%v,%v): overlap case disagrees with overlapArea", x, y)
			}
		}
	}
}

func touching(a, b Rect) bool {
	return a.Right() >= b.Left() && a.Left() <= b.Right() &&
		a.Bottom() >= b.Top() && a.Top() <= b.Bottom()
}

func TestRouteLeftOf(t *testing.T) {
	p := Route(nodeRect(0, 0), nodeRect(200, 0))

	if p.Placement != LeftOf || p.Orientation() != Horizontal {
		t.Fatalf("placement = %v, want left-of", p.Placement)
	}
	if !near(p.From, Point{100, 15}) {
		t.Errorf("From = %v, want (100,15)", p.From)
	}
	if !near(p.To, Point{194, 15}) {
		t.Errorf("To = %v, want (194,15)", p.To)
	}
	if !near(p.Mid, Point{147, 15}) {
		t.Errorf("Mid = %v, want (147,15)", p.Mid)
	}
	if !p.Arrow.PointsRight() {
		t.Errorf("arrow should point right, tip %v", p.Arrow.Tip)
	}
	if !near(p.Arrow.Tip, Point{200, 15}) {
		t.Errorf("arrow tip = %v, want target edge (200,15)", p.Arrow.Tip)
	}
	if !near(p.Arrow.Left, Point{194, 12}) || !near(p.Arrow.Right, Point{194, 18}) {
		t.Errorf("arrow base = %v %v", p.Arrow.Left, p.Arrow.Right)
	}
}

func TestRouteControlPoints(t *testing.T) {
	h := Route(nodeRect(0, 0), nodeRect(300, 100))
	if !near(h.Ctrl1, Point{h.Mid.X, h.From.Y}) || !near(h.Ctrl2, Point{h.Mid.X, h.To.Y}) {
		t.Errorf("horizontal controls = %v %v", h.Ctrl1, h.Ctrl2)
	}

	v := Route(nodeRect(0, 0), nodeRect(40, 200))
	if v.Orientation() != Vertical {
		t.Fatalf("expected vertical route, got %v", v.Placement)
	}
	if !near(v.From, Point{50, 30}) || !near(v.To, Point{90, 194}) {
		t.Errorf("vertical anchors = %v %v", v.From, v.To)
	}
	if !near(v.Ctrl1, Point{v.From.X, v.Mid.Y}) || !near(v.Ctrl2, Point{v.To.X, v.Mid.Y}) {
		t.Errorf("vertical controls = %v %v", v.Ctrl1, v.Ctrl2)
	}
	if !v.Arrow.PointsDown() {
		t.Errorf("arrow should point down")
	}
}

func TestRouteSymmetry(t *testing.T) {
	pairs := [][2]Rect{
		{nodeRect(0, 0), nodeRect(250, 40)},
		{nodeRect(0, 0), nodeRect(20, 120)},
	}

	for _, pair := range pairs {
		a, b := pair[0], pair[1]
		ab := Route(a, b)
		ba := Route(b, a)

		switch ab.Placement {
		case LeftOf:
			if ba.Placement != RightOf {
				t.Fatalf("reverse of left-of should be right-of, got %v", ba.Placement)
			}
			if ab.From.X != a.Right() || ba.To.X != a.Right()+ArrowSize {
				t.Errorf("A side anchors not mirrored: %v / %v", ab.From, ba.To)
			}
			if ab.To.X != b.Left()-ArrowSize || ba.From.X != b.Left() {
				t.Errorf("B side anchors not mirrored: %v / %v", ab.To, ba.From)
			}
			if ba.Arrow.PointsRight() {
				t.Errorf("reverse arrow should point left")
			}
		case Above:
			if ba.Placement != Below {
				t.Fatalf("reverse of above should be below, got %v", ba.Placement)
			}
			if ab.From.Y != a.Bottom() || ba.To.Y != a.Bottom()+ArrowSize {
				t.Errorf("A side anchors not mirrored: %v / %v", ab.From, ba.To)
			}
			if ab.To.Y != b.Top()-ArrowSize || ba.From.Y != b.Top() {
				t.Errorf("B side anchors not mirrored: %v / %v", ab.To, ba.From)
			}
			if ba.Arrow.PointsDown() {
				t.Errorf("reverse arrow should point up")
			}
		default:
			t.Fatalf("unexpected placement %v", ab.Placement)
		}
	}
}

func TestRouteOverlap(t *testing.T) {
	a, b := nodeRect(0, 0), nodeRect(50, 10)
	p := Route(a, b)

	if p.Visible() {
		t.Fatal("overlapping route should not be visible")
	}
	if !near(p.From, a.Center()) || !near(p.To, b.Center()) {
		t.Errorf("overlap anchors should be centres, got %v %v", p.From, p.To)
	}
	if p.Arrow != (Arrowhead{}) {
		t.Errorf("overlap route should have no arrowhead, got %+v", p.Arrow)
	}
	if p.Length() != 0 {
		t.Errorf("overlap route length = %v, want 0", p.Length())
	}
}

// The sign heuristic only looks at anchor coordinates. A RightOf route whose
// target anchor lies within ArrowSize of the source points the arrow right.
func TestArrowSignHeuristic(t *testing.T) {
	from := Point{100, 0}

	if a := horizontalArrow(from, Point{96, 0}); !a.PointsRight() {
		t.Errorf("96+6 > 100 should point right")
	}
	if a := horizontalArrow(from, Point{94, 0}); a.PointsRight() {
		t.Errorf("94+6 == 100 should point left")
	}
	if a := verticalArrow(Point{0, 100}, Point{0, 95}); !a.PointsDown() {
		t.Errorf("95+6 > 100 should point down")
	}
	if a := verticalArrow(Point{0, 100}, Point{0, 50}); a.PointsDown() {
		t.Errorf("50+6 < 100 should point up")
	}
}

func TestPathBounds(t *testing.T) {
	p := Route(nodeRect(0, 0), nodeRect(200, 100))
	b := p.Bounds().Inset(1e-6)

	for _, pt := range p.Points(20) {
		if !b.Contains(pt.X, pt.Y) {
			t.Errorf("curve point %v outside bounds %+v", pt, b)
		}
	}
	if !b.Contains(p.Arrow.Tip.X, p.Arrow.Tip.Y) {
		t.Errorf("arrow tip outside bounds")
	}
}
