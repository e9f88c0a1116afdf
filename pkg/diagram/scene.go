// Package diagram holds the node/connector model and the pointer-driven
// interaction engine of the editor.
//
// A Scene is single-threaded: each pointer event runs to completion and
// re-renders before the next one is handled. Adapters that receive events
// concurrently must serialize them.
package diagram

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/ha1tch/nodeedit/pkg/geometry"
)

// Mode is the interaction state of a scene.
type Mode int

const (
	Idle Mode = iota
	DraggingNode
	CreatingConnector
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case DraggingNode:
		return "dragging"
	case CreatingConnector:
		return "linking"
	default:
		return "unknown"
	}
}

// Scene owns the nodes and connectors of a diagram.
//
// Node order is the z-order: index 0 is the front. Picking walks the slice
// from the front, rendering walks it from the back.
type Scene struct {
	nodes      []*Node
	connectors []*Connector

	theme   Theme
	surface Surface
	log     *slog.Logger

	nodeUnderCursor  *Node
	nodeDragged      *Node
	connectorDragged *Connector
	selected         *Node

	lastPointer geometry.Point
	isDragging  bool // pointer moved since the press
	clickToggle bool // pressed node was already selected
}

// Option configures a Scene.
type Option func(*Scene)

// WithTheme sets the colours and sizes used by Render.
func WithTheme(th Theme) Option {
	return func(s *Scene) { s.theme = th }
}

// WithSurface attaches a surface that is redrawn after every event.
func WithSurface(surface Surface) Option {
	return func(s *Scene) { s.surface = surface }
}

// WithLogger routes interaction tracing to l.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scene) { s.log = l }
}

// NewScene creates an empty scene.
func NewScene(opts ...Option) *Scene {
	s := &Scene{
		theme: DefaultTheme(),
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Attach replaces the surface redrawn after each event. nil detaches.
func (s *Scene) Attach(surface Surface) {
	s.surface = surface
}

// Theme returns the scene's theme.
func (s *Scene) Theme() Theme { return s.theme }

// Nodes returns the nodes front to back.
func (s *Scene) Nodes() []*Node { return slices.Clone(s.nodes) }

// Connectors returns the finalized connectors in creation order.
func (s *Scene) Connectors() []*Connector { return slices.Clone(s.connectors) }

// Selected returns the selected node, or nil.
func (s *Scene) Selected() *Node { return s.selected }

// NodeUnderCursor returns the hovered node, or nil.
func (s *Scene) NodeUnderCursor() *Node { return s.nodeUnderCursor }

// Transient returns the connector being dragged out, or nil.
func (s *Scene) Transient() *Connector { return s.connectorDragged }

// Mode reports the current interaction state.
func (s *Scene) Mode() Mode {
	switch {
	case s.nodeDragged != nil:
		return DraggingNode
	case s.connectorDragged != nil:
		return CreatingConnector
	default:
		return Idle
	}
}

// NodeByID finds a node by its ID.
func (s *Scene) NodeByID(id uuid.UUID) *Node {
	for _, n := range s.nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

func (s *Scene) indexOf(n *Node) int {
	return slices.Index(s.nodes, n)
}

// Pick returns the front-most node containing (x, y), or nil.
func (s *Scene) Pick(x, y float64) *Node {
	for _, n := range s.nodes {
		if n.IsInside(x, y) {
			return n
		}
	}
	return nil
}

// AddNode creates a node and appends it behind every existing node.
func (s *Scene) AddNode(name string, x, y float64) *Node {
	n := NewNode(name, x, y)
	s.Insert(n)
	return n
}

// Insert appends an existing node at the back of the z-order.
func (s *Scene) Insert(n *Node) {
	s.nodes = append(s.nodes, n)
	s.log.Debug("node added", "name", n.Name, "id", n.ID, "x", n.X, "y", n.Y)
	s.redraw()
}

// Rename changes a node's label.
func (s *Scene) Rename(n *Node, name string) error {
	if s.indexOf(n) < 0 {
		return fmt.Errorf("rename %q: %w", name, ErrNodeNotFound)
	}
	n.Name = name
	s.redraw()
	return nil
}

// RemoveNode deletes n and every connector that starts or ends on it.
func (s *Scene) RemoveNode(n *Node) error {
	i := s.indexOf(n)
	if i < 0 {
		return fmt.Errorf("remove node: %w", ErrNodeNotFound)
	}
	s.nodes = slices.Delete(s.nodes, i, i+1)

	if s.selected == n {
		s.selected = nil
	}
	if s.nodeUnderCursor == n {
		s.nodeUnderCursor = nil
	}
	if s.nodeDragged == n {
		s.resetGesture()
	}
	if s.connectorDragged != nil && s.connectorDragged.Touches(n) {
		s.resetGesture()
	}

	before := len(s.connectors)
	s.connectors = slices.DeleteFunc(s.connectors, func(c *Connector) bool {
		return c.Touches(n)
	})

	s.log.Debug("node removed", "name", n.Name, "id", n.ID,
		"connectors", before-len(s.connectors))
	s.redraw()
	return nil
}

// RemoveSelected deletes the selected node. It is a no-op when nothing is
// selected.
func (s *Scene) RemoveSelected() error {
	if s.selected == nil {
		return nil
	}
	return s.RemoveNode(s.selected)
}

// Connect appends a connector from one node to another. Both must be in the
// scene and distinct. Duplicate connectors are allowed.
func (s *Scene) Connect(from, to *Node) (*Connector, error) {
	if from == nil || s.indexOf(from) < 0 {
		return nil, fmt.Errorf("connect from: %w", ErrNodeNotFound)
	}
	if to == nil || s.indexOf(to) < 0 {
		return nil, fmt.Errorf("connect to: %w", ErrNodeNotFound)
	}
	if from == to {
		return nil, fmt.Errorf("connect %q: %w", from.Name, ErrSelfLink)
	}

	c := &Connector{From: from, To: to}
	s.connectors = append(s.connectors, c)
	s.log.Debug("connector added", "from", from.Name, "to", to.Name)
	s.redraw()
	return c, nil
}

// Bounds returns the area covered by nodes and visible connectors.
func (s *Scene) Bounds() geometry.Rect {
	var r geometry.Rect
	for _, n := range s.nodes {
		r = r.Union(n.Bounds())
	}
	for _, c := range s.connectors {
		if p := c.Path(); p.Visible() {
			r = r.Union(p.Bounds())
		}
	}
	return r
}

// Pointer events

// PointerDown starts a gesture. Over a node it either begins dragging the
// node (promoting it to the front and updating the selection) or, in link
// mode, begins dragging out a new connector. A press during an unfinished
// gesture abandons it first: a dragged node stays where it is and a
// connector being dragged out is discarded.
func (s *Scene) PointerDown(x, y float64, linkMode bool) {
	if m := s.Mode(); m != Idle {
		s.log.Debug("gesture abandoned", "mode", m)
		s.resetGesture()
	}
	s.lastPointer = geometry.Point{X: x, Y: y}
	s.isDragging = false

	n := s.Pick(x, y)
	if n == nil {
		s.redraw()
		return
	}

	if linkMode {
		s.connectorDragged = &Connector{From: n, To: geometry.CursorRect(x, y)}
		s.log.Debug("mode change", "mode", CreatingConnector, "from", n.Name)
		s.redraw()
		return
	}

	s.nodeDragged = n
	s.promote(n)

	s.clickToggle = s.selected == n
	if !s.clickToggle {
		if s.selected != nil {
			s.selected.SetSelected(false)
		}
		n.SetSelected(true)
		s.selected = n
	}

	s.log.Debug("mode change", "mode", DraggingNode, "node", n.Name)
	s.redraw()
}

// promote moves n to the front of the z-order.
func (s *Scene) promote(n *Node) {
	i := s.indexOf(n)
	if i <= 0 {
		return
	}
	s.nodes = slices.Delete(s.nodes, i, i+1)
	s.nodes = slices.Insert(s.nodes, 0, n)
}

// PointerMove drags the active node, retargets the connector preview, or
// updates the hover highlight, depending on the mode.
func (s *Scene) PointerMove(x, y float64) {
	switch s.Mode() {
	case DraggingNode:
		dx := x - s.lastPointer.X
		dy := y - s.lastPointer.Y
		if dx != 0 || dy != 0 {
			s.nodeDragged.MoveBy(dx, dy)
			s.isDragging = true
		}

	case CreatingConnector:
		if target := s.Pick(x, y); target != nil && target != s.connectorDragged.From {
			s.connectorDragged.To = target
		} else {
			s.connectorDragged.To = geometry.CursorRect(x, y)
		}

	default:
		n := s.Pick(x, y)
		if n != s.nodeUnderCursor {
			if s.nodeUnderCursor != nil {
				s.nodeUnderCursor.SetHighlight(false)
			}
			if n != nil {
				n.SetHighlight(true)
			}
			s.nodeUnderCursor = n
		}
	}

	s.redraw()
	s.lastPointer = geometry.Point{X: x, Y: y}
}

// PointerUp ends the gesture. A press and release without movement on the
// already-selected node deselects it. A connector released over another
// node is kept; anywhere else it is dropped.
func (s *Scene) PointerUp(x, y float64) {
	switch s.Mode() {
	case DraggingNode:
		if !s.isDragging && s.clickToggle && s.selected == s.nodeDragged {
			s.selected.SetSelected(false)
			s.selected = nil
		}

	case CreatingConnector:
		c := s.connectorDragged
		if target := s.Pick(x, y); target != nil && target != c.From {
			c.To = target
			s.connectors = append(s.connectors, c)
			s.log.Debug("connector added", "from", nameOf(c.From), "to", target.Name)
		} else {
			s.log.Debug("connector dropped", "from", nameOf(c.From))
		}
	}

	s.resetGesture()
	s.redraw()
}

func (s *Scene) resetGesture() {
	s.nodeDragged = nil
	s.connectorDragged = nil
	s.isDragging = false
	s.clickToggle = false
}

func nameOf(b geometry.Boxed) string {
	if n, ok := b.(*Node); ok {
		return n.Name
	}
	return ""
}

// Rendering

func (s *Scene) redraw() {
	if s.surface != nil {
		s.Render(s.surface)
	}
}

// Render paints the scene: background, connectors, the connector being
// dragged out, then nodes from back to front.
func (s *Scene) Render(surface Surface) {
	surface.Clear(s.theme.Background)

	for _, c := range s.connectors {
		c.Render(surface, s.theme)
	}
	if s.connectorDragged != nil {
		s.connectorDragged.render(surface, s.theme, s.theme.Preview)
	}
	for i := len(s.nodes) - 1; i >= 0; i-- {
		s.nodes[i].Render(surface, s.theme)
	}
}
