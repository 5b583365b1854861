package memory

import (
	"sort"
	"sync"

	"github.com/Ahmed-Sermani/go-pagerank/graph"
	"golang.org/x/xerrors"
)

// Compile-time checks.
var (
	_ graph.View      = (*Graph)(nil)
	_ graph.Transpose = (*Transposed)(nil)
)

// edgeList holds the targets of a vertex in ascending order.
type edgeList []int

// Graph is an in-memory directed graph keyed by int vertex ids. It is safe
// for concurrent use.
type Graph struct {
	mu sync.RWMutex

	edges map[int]edgeList
	size  int
}

// NewGraph creates a new, empty in-memory graph.
func NewGraph() *Graph {
	return &Graph{edges: make(map[int]edgeList)}
}

// AddVertex inserts u into the graph. Adding an existing vertex is a no-op.
func (g *Graph) AddVertex(u int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.addVertex(u)
}

// AddEdge inserts the directed edge u->v. Both endpoints must already be part
// of the graph. Inserting an existing edge is a no-op.
func (g *Graph) AddEdge(u, v int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, srcExists := g.edges[u]
	_, dstExists := g.edges[v]
	if !srcExists || !dstExists {
		return xerrors.Errorf("add edge %d->%d: %w", u, v, graph.ErrUnknownVertex)
	}
	g.addEdge(u, v)
	return nil
}

// RemoveEdge removes the directed edge u->v if it exists.
func (g *Graph) RemoveEdge(u, v int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.removeEdge(u, v)
}

// ApplyBatch applies the deletions of b followed by its insertions. Vertices
// named by an insertion are created on demand; deleting a missing edge is a
// no-op.
func (g *Graph) ApplyBatch(b graph.Batch) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, e := range b.Deletions {
		g.removeEdge(e.Src, e.Dst)
	}
	for _, e := range b.Insertions {
		g.addVertex(e.Src)
		g.addVertex(e.Dst)
		g.addEdge(e.Src, e.Dst)
	}
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	g.mu.RLock()
	defer g.mu.RUnlock()

	c := &Graph{edges: make(map[int]edgeList, len(g.edges)), size: g.size}
	for u, list := range g.edges {
		c.edges[u] = append(edgeList(nil), list...)
	}
	return c
}

// Transpose returns a copy of the graph with every edge reversed.
func (g *Graph) Transpose() *Transposed {
	g.mu.RLock()
	defer g.mu.RUnlock()

	t := &Transposed{
		Graph:     &Graph{edges: make(map[int]edgeList, len(g.edges)), size: g.size},
		outDegree: make(map[int]int, len(g.edges)),
	}
	for u := range g.edges {
		t.edges[u] = nil
	}
	for _, u := range g.keys() {
		for _, v := range g.edges[u] {
			// Sources are visited in ascending order so each list stays sorted.
			t.edges[v] = append(t.edges[v], u)
		}
		t.outDegree[u] = len(g.edges[u])
	}
	return t
}

// Order returns the number of vertices in the graph.
func (g *Graph) Order() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.edges)
}

// Size returns the number of edges in the graph.
func (g *Graph) Size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.size
}

// VertexKeys returns the vertex keys in ascending order.
func (g *Graph) VertexKeys() []int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.keys()
}

// HasVertex reports whether u is a vertex of the graph.
func (g *Graph) HasVertex(u int) bool {
	g.mu.RLock()
	_, exists := g.edges[u]
	g.mu.RUnlock()
	return exists
}

// HasEdge reports whether the edge u->v is part of the graph.
func (g *Graph) HasEdge(u, v int) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	list := g.edges[u]
	i := sort.SearchInts(list, v)
	return i < len(list) && list[i] == v
}

// ForEachEdgeKey invokes fn for each target of u in ascending order. The
// target list is copied first so fn may call back into the graph.
func (g *Graph) ForEachEdgeKey(u int, fn func(v int)) {
	g.mu.RLock()
	list := append(edgeList(nil), g.edges[u]...)
	g.mu.RUnlock()

	for _, v := range list {
		fn(v)
	}
}

// Degree returns the out-degree of u.
func (g *Graph) Degree(u int) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.edges[u])
}

func (g *Graph) keys() []int {
	keys := make([]int, 0, len(g.edges))
	for u := range g.edges {
		keys = append(keys, u)
	}
	sort.Ints(keys)
	return keys
}

func (g *Graph) addVertex(u int) {
	if _, exists := g.edges[u]; !exists {
		g.edges[u] = nil
	}
}

func (g *Graph) addEdge(u, v int) {
	list := g.edges[u]
	i := sort.SearchInts(list, v)
	if i < len(list) && list[i] == v {
		return
	}
	list = append(list, 0)
	copy(list[i+1:], list[i:])
	list[i] = v
	g.edges[u] = list
	g.size++
}

func (g *Graph) removeEdge(u, v int) {
	list := g.edges[u]
	i := sort.SearchInts(list, v)
	if i == len(list) || list[i] != v {
		return
	}
	g.edges[u] = append(list[:i], list[i+1:]...)
	g.size--
}

// Transposed is a graph with reversed edges that remembers the out-degree of
// every vertex in the graph it was created from.
type Transposed struct {
	*Graph

	outDegree map[int]int
}

// OutDegree returns the out-degree u had in the original graph.
func (t *Transposed) OutDegree(u int) int {
	return t.outDegree[u]
}
