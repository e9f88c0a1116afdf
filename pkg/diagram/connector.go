package diagram

import (
	"image/color"

	"github.com/ha1tch/nodeedit/pkg/geometry"
)

// Connector is a directed link between two endpoints. Finalized connectors
// join two nodes; while one is being dragged out, To may be a cursor rect.
type Connector struct {
	From geometry.Boxed
	To   geometry.Boxed
}

// Path routes the connector between its endpoints' current bounds.
func (c *Connector) Path() geometry.Path {
	return geometry.RouteBetween(c.From, c.To)
}

// Touches reports whether either endpoint is n.
func (c *Connector) Touches(n *Node) bool {
	return c.From == n || c.To == n
}

// Render strokes the curve and fills the arrowhead. Overlapping endpoints
// draw nothing.
func (c *Connector) Render(s Surface, th Theme) {
	c.render(s, th, th.Connector)
}

func (c *Connector) render(s Surface, th Theme, col color.Color) {
	p := c.Path()
	if !p.Visible() {
		return
	}
	s.StrokeCurve(p, col, th.LineWidth)
	s.FillTriangle(p.Arrow.Tip, p.Arrow.Left, p.Arrow.Right, col)
}
