package ranker

import (
	"github.com/Ahmed-Sermani/go-pagerank/graph"
	"github.com/Ahmed-Sermani/go-pagerank/graph/traversal"
)

// AffectedVertices returns the keys of the vertices whose rank may change
// when the graph x receives the batch b. It marks every vertex of x reachable
// from the source of a deletion, or from either endpoint of an insertion.
// Starting at the insertion target covers the paths that use the new edge,
// which x does not contain yet. Endpoints that are not part of x are marked
// directly.
func AffectedVertices(x graph.View, b graph.Batch) map[int]bool {
	visited := make(map[int]bool)
	mark := func(u int) {
		if !x.HasVertex(u) {
			visited[u] = true
			return
		}
		traversal.DFS(x, u, visited, nil)
	}

	for _, e := range b.Deletions {
		mark(e.Src)
	}
	for _, e := range b.Insertions {
		mark(e.Src)
		mark(e.Dst)
	}
	return visited
}

// sameVertices reports whether x has exactly the vertices listed in keys.
func sameVertices(x graph.View, keys []int) bool {
	if x.Order() != len(keys) {
		return false
	}
	for _, k := range keys {
		if !x.HasVertex(k) {
			return false
		}
	}
	return true
}

// touchesDeadEnd reports whether any of the keys has no outgoing edges in
// either x or y.
func touchesDeadEnd(x, y graph.View, keys map[int]bool) bool {
	for k := range keys {
		if (x.HasVertex(k) && x.Degree(k) == 0) || (y.HasVertex(k) && y.Degree(k) == 0) {
			return true
		}
	}
	return false
}
