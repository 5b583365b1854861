// Package traversal provides graph traversals over a graph.View.
package traversal

import "github.com/Ahmed-Sermani/go-pagerank/graph"

// DFS visits every vertex reachable from start that is not yet marked in
// visited, in depth-first order. Each newly visited vertex is marked and
// passed to fn. Passing the same visited map to several calls yields the
// union of the reachable sets. Vertices absent from g are ignored.
func DFS(g graph.View, start int, visited map[int]bool, fn func(u int)) {
	if visited[start] || !g.HasVertex(start) {
		return
	}

	stack := []int{start}
	for len(stack) != 0 {
		u := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[u] {
			continue
		}
		visited[u] = true
		if fn != nil {
			fn(u)
		}

		g.ForEachEdgeKey(u, func(v int) {
			if !visited[v] {
				stack = append(stack, v)
			}
		})
	}
}
