// Package tree derives the renderable parent/child graph from a set of
// family member records: one node per member, one edge per parent link,
// optionally filtered to the direct children of a chosen root ancestor.
package tree

import (
	"sort"
	"strconv"

	"familytree/internal/models"
)

// Node is one box in the rendered diagram
type Node struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

// Edge is a directed parent → child arrow
type Edge struct {
	From int64 `json:"from"`
	To   int64 `json:"to"`
}

// Graph is the node/edge description handed to the DOT and SVG
// renderers (or returned as JSON to API clients).
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Build derives the graph for the given members.
//
// With root == nil every member becomes a node and every stored parent
// link an edge. A parent id with no surviving record still produces its
// edge, with an implicit "ID: <n>" node standing in for the deleted
// member, so dangling references stay visible instead of vanishing.
//
// With a root, the graph is restricted to the root's direct children:
// nodes are the root plus every member listing it as a parent, and
// edges run from the root to each of those children only. Grandchildren
// are not expanded.
//
// Output is sorted by id so rendering and tests are deterministic.
func Build(members []models.Member, root *int64) Graph {
	if root != nil {
		return buildSubtree(members, *root)
	}
	return buildFull(members)
}

func buildFull(members []models.Member) Graph {
	labels := make(map[int64]string, len(members))
	for i := range members {
		labels[members[i].ID] = members[i].Label()
	}

	var edges []Edge
	for i := range members {
		for _, parentID := range members[i].Parents {
			if _, ok := labels[parentID]; !ok {
				// Dangling reference: the parent row is gone
				labels[parentID] = "ID: " + strconv.FormatInt(parentID, 10)
			}
			edges = append(edges, Edge{From: parentID, To: members[i].ID})
		}
	}

	return sorted(labels, edges)
}

func buildSubtree(members []models.Member, root int64) Graph {
	labels := make(map[int64]string)
	var edges []Edge

	for i := range members {
		if !members[i].HasParent(root) {
			continue
		}
		labels[members[i].ID] = members[i].Label()
		edges = append(edges, Edge{From: root, To: members[i].ID})
	}

	if len(edges) > 0 {
		labels[root] = rootLabel(members, root)
	}

	return sorted(labels, edges)
}

// rootLabel looks the root up in the full record set so the filtered
// diagram shows its name; a root with no surviving record falls back to
// the implicit id label.
func rootLabel(members []models.Member, root int64) string {
	for i := range members {
		if members[i].ID == root {
			return members[i].Label()
		}
	}
	return "ID: " + strconv.FormatInt(root, 10)
}

func sorted(labels map[int64]string, edges []Edge) Graph {
	nodes := make([]Node, 0, len(labels))
	for id, label := range labels {
		nodes = append(nodes, Node{ID: id, Label: label})
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})
	return Graph{Nodes: nodes, Edges: edges}
}
