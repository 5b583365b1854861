package graph

// CSR is a compact, position-indexed snapshot of a transposed graph. Vertex
// keys are mapped once to dense positions 0..N-1 in VertexKeys order; the
// in-neighbours of position v are Targets[Offsets[v]:Offsets[v+1]].
type CSR struct {
	Keys    []int
	Index   map[int]int
	Offsets []int
	Targets []int
	Degree  []int
}

// Compact builds a CSR snapshot of xt. Degree holds the out-degree of each
// vertex in the graph xt is a transpose of.
func Compact(xt Transpose) *CSR {
	keys := xt.VertexKeys()
	n := len(keys)
	csr := &CSR{
		Keys:    keys,
		Index:   make(map[int]int, n),
		Offsets: make([]int, n+1),
		Degree:  make([]int, n),
	}
	for pos, k := range keys {
		csr.Index[k] = pos
	}

	for pos, u := range keys {
		csr.Degree[pos] = xt.OutDegree(u)
		xt.ForEachEdgeKey(u, func(v int) {
			csr.Targets = append(csr.Targets, csr.Index[v])
		})
		csr.Offsets[pos+1] = len(csr.Targets)
	}
	return csr
}

// Order returns the number of vertices in the snapshot.
func (c *CSR) Order() int { return len(c.Keys) }
