package tree

import (
	"strconv"

	"github.com/emicklei/dot"
)

// Rendering parameters shared by the DOT and SVG output: filled boxes on
// a white background.
const (
	nodeFillColor = "#87CEEB"
	backgroundHex = "#ffffff"
	nodeFontColor = "black"
)

// RenderDOT serializes the graph as graphviz DOT text, suitable for
// `dot -Tpng` or any graphviz-compatible viewer.
func RenderDOT(g Graph) string {
	out := dot.NewGraph(dot.Directed)
	out.Attr("bgcolor", backgroundHex)

	nodes := make(map[int64]dot.Node, len(g.Nodes))
	for _, n := range g.Nodes {
		node := out.Node(strconv.FormatInt(n.ID, 10))
		node.Attr("label", n.Label)
		node.Attr("shape", "box")
		node.Attr("style", "filled")
		node.Attr("fillcolor", nodeFillColor)
		node.Attr("fontcolor", nodeFontColor)
		nodes[n.ID] = node
	}

	for _, e := range g.Edges {
		from, okFrom := nodes[e.From]
		to, okTo := nodes[e.To]
		if !okFrom || !okTo {
			continue
		}
		out.Edge(from, to)
	}

	return out.String()
}
