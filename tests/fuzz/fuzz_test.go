// Package fuzz provides fuzz testing for routing and the pointer state machine.
// Run with: go test -fuzz=FuzzRoute -fuzztime=30s ./tests/fuzz/
package fuzz

import (
	"math"
	"testing"

	"github.com/ha1tch/nodeedit/pkg/diagram"
	"github.com/ha1tch/nodeedit/pkg/geometry"
)

// FuzzRoute checks that every pair of rectangles gets exactly one placement
// and a well-formed path.
func FuzzRoute(f *testing.F) {
	f.Add(0.0, 0.0, 100.0, 30.0, 200.0, 0.0, 100.0, 30.0)
	f.Add(200.0, 0.0, 100.0, 30.0, 0.0, 0.0, 100.0, 30.0)
	f.Add(0.0, 0.0, 100.0, 30.0, 0.0, 150.0, 100.0, 30.0)
	f.Add(0.0, 0.0, 100.0, 30.0, 50.0, 10.0, 100.0, 30.0)
	f.Add(0.0, 0.0, 100.0, 30.0, 100.0, 0.0, 100.0, 30.0) // touching edges
	f.Add(0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0)

	f.Fuzz(func(t *testing.T, x1, y1, w1, h1, x2, y2, w2, h2 float64) {
		for _, v := range []float64{x1, y1, w1, h1, x2, y2, w2, h2} {
			if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > 1e9 {
				return
			}
		}
		if w1 < 0 || h1 < 0 || w2 < 0 || h2 < 0 {
			return
		}
		from := geometry.Rect{X: x1, Y: y1, Width: w1, Height: h1}
		to := geometry.Rect{X: x2, Y: y2, Width: w2, Height: h2}

		p := geometry.Route(from, to)
		if p.Placement != geometry.Classify(from, to) {
			t.Fatalf("Route placement %v, Classify %v", p.Placement, geometry.Classify(from, to))
		}

		horizontal := from.Right() < to.Left() || from.Left() > to.Right()
		vertical := from.Bottom() < to.Top() || from.Top() > to.Bottom()
		if !horizontal && !vertical && p.Visible() {
			t.Fatalf("overlapping rects %v %v produced a visible path", from, to)
		}
		if (horizontal || vertical) && !p.Visible() {
			t.Fatalf("disjoint rects %v %v produced no path", from, to)
		}
		if !p.Visible() {
			return
		}

		// The arrowhead base straddles the end anchor.
		base := p.Arrow.Left.Add(p.Arrow.Right).Scale(0.5)
		if base.Dist(p.To) > 1e-6*math.Max(1, math.Abs(p.To.X)+math.Abs(p.To.Y)) {
			t.Fatalf("arrow base %v not at end anchor %v", base, p.To)
		}
		if tip := p.Arrow.Tip.Dist(p.To); math.Abs(tip-geometry.ArrowSize) > 1e-6*math.Max(1, math.Abs(p.To.X)+math.Abs(p.To.Y)) {
			t.Fatalf("arrow tip %v is %g from end anchor", p.Arrow.Tip, tip)
		}
	})
}

// FuzzPointer drives a seeded scene with an arbitrary event stream. Each
// byte triple is (event, x, y). The scene must never panic, must end every
// gesture in Idle after an up event, must never run a node drag and a
// connector drag at once, and must flag exactly the node Selected returns.
func FuzzPointer(f *testing.F) {
	f.Add([]byte{0, 10, 10, 1, 40, 40, 2, 40, 40})
	f.Add([]byte{3, 10, 10, 1, 80, 80, 2, 80, 80})
	f.Add([]byte{0, 10, 10, 2, 10, 10, 0, 10, 10, 2, 10, 10})
	f.Add([]byte{4, 0, 0, 1, 5, 5})
	f.Add([]byte{0, 30, 30, 3, 70, 210, 1, 160, 150}) // second press before release
	f.Add([]byte{3, 30, 30, 0, 70, 210, 2, 70, 210})

	f.Fuzz(func(t *testing.T, events []byte) {
		s := diagram.Seed()
		for i := 0; i+2 < len(events); i += 3 {
			x := float64(events[i+1])
			y := float64(events[i+2])
			switch events[i] % 5 {
			case 0:
				s.PointerDown(x, y, false)
			case 1:
				s.PointerMove(x, y)
			case 2:
				s.PointerUp(x, y)
				if s.Mode() != diagram.Idle {
					t.Fatalf("mode %v after pointer up", s.Mode())
				}
			case 3:
				s.PointerDown(x, y, true)
			case 4:
				s.RemoveSelected()
			}

			if s.Transient() != nil && s.Mode() == diagram.DraggingNode {
				t.Fatalf("event %d: connector preview alive while dragging a node", i/3)
			}

			var flagged []*diagram.Node
			for _, n := range s.Nodes() {
				if n.Selected() {
					flagged = append(flagged, n)
				}
			}
			if len(flagged) > 1 {
				t.Fatalf("%d nodes selected", len(flagged))
			}
			if sel := s.Selected(); (sel == nil) != (len(flagged) == 0) || (sel != nil && flagged[0] != sel) {
				t.Fatalf("Selected() = %v, flagged nodes %v", sel, flagged)
			}
			for _, c := range s.Connectors() {
				if c.From == c.To {
					t.Fatalf("self connector on %v", c.From)
				}
			}
		}
	})
}
