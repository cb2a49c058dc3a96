package tree

import (
	"bytes"

	svg "github.com/ajstarks/svgo"
)

const (
	boxWidth  = 140
	boxHeight = 40
	hGap      = 30
	vGap      = 80
	margin    = 20
	charWidth = 8 // rough average for the 13px font below
)

// RenderSVG draws the graph as a self-contained SVG document: one filled
// box per node, arranged in generation layers, with a line from each
// parent box to each child box. The result is embedded directly in the
// tree page.
func RenderSVG(g Graph) []byte {
	layers := layerize(g)

	// Position every node: x within its layer, y by layer index
	type point struct{ x, y int }
	pos := make(map[int64]point, len(g.Nodes))
	width := margin * 2
	for depth, ids := range layers {
		rowWidth := len(ids)*(boxWidth+hGap) - hGap + margin*2
		if rowWidth > width {
			width = rowWidth
		}
		for i, id := range ids {
			pos[id] = point{
				x: margin + i*(boxWidth+hGap),
				y: margin + depth*(boxHeight+vGap),
			}
		}
	}
	height := margin*2 + len(layers)*(boxHeight+vGap) - vGap
	if len(layers) == 0 {
		height = margin * 2
	}

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:"+backgroundHex)

	for _, e := range g.Edges {
		from, okFrom := pos[e.From]
		to, okTo := pos[e.To]
		if !okFrom || !okTo {
			continue
		}
		canvas.Line(
			from.x+boxWidth/2, from.y+boxHeight,
			to.x+boxWidth/2, to.y,
			"stroke:black;stroke-width:1.5",
		)
	}

	labels := make(map[int64]string, len(g.Nodes))
	for _, n := range g.Nodes {
		labels[n.ID] = n.Label
	}
	for _, n := range g.Nodes {
		p := pos[n.ID]
		canvas.Rect(p.x, p.y, boxWidth, boxHeight,
			"fill:"+nodeFillColor+";stroke:black;stroke-width:1")
		canvas.Text(p.x+boxWidth/2, p.y+boxHeight/2+5, clip(labels[n.ID]),
			"text-anchor:middle;font-family:sans-serif;font-size:13px;fill:"+nodeFontColor)
	}

	canvas.End()
	return buf.Bytes()
}

// clip shortens labels that will not fit in a box
func clip(label string) string {
	max := boxWidth / charWidth
	runes := []rune(label)
	if len(runes) <= max {
		return label
	}
	return string(runes[:max-1]) + "…"
}

// layerize assigns each node a generation: nodes with no in-graph parent
// sit in layer 0, a child one layer below its deepest parent. A node
// reached again while its own depth is still being computed counts as
// depth 0, so self- or circular references render instead of hanging.
func layerize(g Graph) [][]int64 {
	parents := make(map[int64][]int64)
	for _, e := range g.Edges {
		parents[e.To] = append(parents[e.To], e.From)
	}

	depths := make(map[int64]int, len(g.Nodes))
	visiting := make(map[int64]bool)

	var depthOf func(id int64) int
	depthOf = func(id int64) int {
		if d, ok := depths[id]; ok {
			return d
		}
		if visiting[id] {
			return 0
		}
		visiting[id] = true
		d := 0
		for _, p := range parents[id] {
			if pd := depthOf(p) + 1; pd > d {
				d = pd
			}
		}
		visiting[id] = false
		depths[id] = d
		return d
	}

	maxDepth := -1
	for _, n := range g.Nodes {
		if d := depthOf(n.ID); d > maxDepth {
			maxDepth = d
		}
	}

	layers := make([][]int64, maxDepth+1)
	for _, n := range g.Nodes { // g.Nodes is sorted, layers stay ordered
		d := depths[n.ID]
		layers[d] = append(layers[d], n.ID)
	}
	return layers
}
