package diagram

import (
	"image/color"

	"github.com/google/uuid"

	"github.com/ha1tch/nodeedit/pkg/geometry"
)

// Node dimensions. Every node has the same size.
const (
	NodeWidth  = 100.0
	NodeHeight = 30.0
)

// Node is a named, movable rectangle on the canvas. Nodes are compared by
// pointer identity; ID exists so adapters can refer to a node by value.
type Node struct {
	ID     uuid.UUID
	Name   string
	X, Y   float64 // Top-left
	Width  float64
	Height float64

	highlighted bool
	selected    bool
}

// NewNode creates a node with the standard size at (x, y).
func NewNode(name string, x, y float64) *Node {
	return &Node{
		ID:     uuid.New(),
		Name:   name,
		X:      x,
		Y:      y,
		Width:  NodeWidth,
		Height: NodeHeight,
	}
}

// Bounds implements geometry.Boxed.
func (n *Node) Bounds() geometry.Rect {
	return geometry.Rect{X: n.X, Y: n.Y, Width: n.Width, Height: n.Height}
}

// IsInside reports whether (x, y) hits the node. The border counts.
func (n *Node) IsInside(x, y float64) bool {
	return n.Bounds().Contains(x, y)
}

// MoveBy translates the node.
func (n *Node) MoveBy(dx, dy float64) {
	n.X += dx
	n.Y += dy
}

func (n *Node) SetHighlight(v bool) { n.highlighted = v }
func (n *Node) SetSelected(v bool)  { n.selected = v }
func (n *Node) Highlighted() bool   { return n.highlighted }
func (n *Node) Selected() bool      { return n.selected }

// borderColor picks the outline colour; selection beats hover.
func (n *Node) borderColor(th Theme) color.Color {
	switch {
	case n.selected:
		return th.Selection
	case n.highlighted:
		return th.Highlight
	default:
		return th.Border
	}
}

// Render draws the node body, outline and centred label.
func (n *Node) Render(s Surface, th Theme) {
	r := n.Bounds()
	s.FillRect(r, th.Fill)
	s.StrokeRect(r, n.borderColor(th), th.BorderWidth)
	s.DrawText(n.Name, r.Center(), th.Text, th.FontSize)
}
