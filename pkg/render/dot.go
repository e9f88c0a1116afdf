package render

import (
	"fmt"
	"strings"

	"github.com/ha1tch/nodeedit/pkg/diagram"
)

// Points per inch, Graphviz's unit for node sizes.
const dotDPI = 72.0

// GenerateDOT converts a scene to Graphviz DOT. Nodes are pinned at their
// canvas positions (pos with '!'), so neato -n reproduces the layout; dot
// ignores pos and lays the graph out itself.
func GenerateDOT(s *diagram.Scene, title string) string {
	var sb strings.Builder

	sb.WriteString("digraph Diagram {\n")
	sb.WriteString("    node [shape=box, fontname=\"Helvetica\", fontsize=10];\n")
	sb.WriteString("\n")

	if title != "" {
		sb.WriteString("    labelloc=\"t\";\n")
		sb.WriteString(fmt.Sprintf("    label=\"%s\";\n", escapeDOT(title)))
		sb.WriteString("\n")
	}

	// Graphviz y grows upwards; flip around the scene's bottom edge.
	bottom := s.Bounds().Bottom()
	for _, n := range s.Nodes() {
		c := n.Bounds().Center()
		sb.WriteString(fmt.Sprintf("    \"%s\" [label=\"%s\", pos=\"%s,%s!\", width=%s, height=%s];\n",
			n.ID, escapeDOT(n.Name), num(c.X), num(bottom-c.Y),
			num(n.Width/dotDPI), num(n.Height/dotDPI)))
	}
	sb.WriteString("\n")

	for _, c := range s.Connectors() {
		from, ok1 := c.From.(*diagram.Node)
		to, ok2 := c.To.(*diagram.Node)
		if !ok1 || !ok2 {
			continue
		}
		sb.WriteString(fmt.Sprintf("    \"%s\" -> \"%s\";\n", from.ID, to.ID))
	}

	sb.WriteString("}\n")
	return sb.String()
}

func escapeDOT(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "<", "\\<")
	s = strings.ReplaceAll(s, ">", "\\>")
	return s
}
