package graph

import "golang.org/x/xerrors"

var (
	// ErrUnknownVertex is returned when an operation refers to a vertex
	// that is not part of the graph.
	ErrUnknownVertex = xerrors.New("unknown vertex")
)

// View is a read-only view of a directed graph whose vertices are identified
// by integer keys. A View must not be mutated while a ranker run is using it.
type View interface {
	// Order returns the number of vertices in the graph.
	Order() int

	// VertexKeys returns the keys of all vertices in ascending order.
	VertexKeys() []int

	// HasVertex reports whether u is a vertex of the graph.
	HasVertex(u int) bool

	// ForEachEdgeKey invokes fn for every target of an edge leaving u, in
	// ascending key order.
	ForEachEdgeKey(u int, fn func(v int))

	// Degree returns the number of edges leaving u.
	Degree(u int) int
}

// Transpose is a view of a graph with all its edges reversed. It remembers the
// out-degree every vertex had before the reversal, which is what the rank
// propagation divides by.
type Transpose interface {
	View

	// OutDegree returns the out-degree of u in the original graph.
	OutDegree(u int) int
}

// Edge is a directed edge between two vertex keys.
type Edge struct {
	Src int
	Dst int
}

// Batch describes the edge changes that turn a graph x into a graph y.
// Deletions are applied before insertions.
type Batch struct {
	Deletions  []Edge
	Insertions []Edge
}

// Empty returns true if the batch carries no changes.
func (b Batch) Empty() bool {
	return len(b.Deletions) == 0 && len(b.Insertions) == 0
}

// Merge returns a batch with the changes of b followed by the changes of other.
// The result names every endpoint touched by either batch, but applying it is
// not equivalent to applying b and other in sequence.
func (b Batch) Merge(other Batch) Batch {
	return Batch{
		Deletions:  append(append([]Edge(nil), b.Deletions...), other.Deletions...),
		Insertions: append(append([]Edge(nil), b.Insertions...), other.Insertions...),
	}
}
