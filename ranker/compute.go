package ranker

import (
	"github.com/Ahmed-Sermani/go-pagerank/bsp/aggregators"
)

// calculateRanks computes the rank of every affected vertex v in [i, i+n):
//
//	a[v] = c0 + sum of c[u] over the in-neighbours u of v
//
// where xe[xv[v]:xv[v+1]] lists the in-neighbours of v. Unaffected vertices
// keep their rank. In asynchronous mode the new contribution of v is
// published at once and the change of v is folded into the worker's partial
// error, since a and the previous ranks are the same buffer.
func calculateRanks(a, c, f []float64, xv, xe []int, c0 float64, i, n int, w *Worker, fv func(*Worker, int), fa func(int) bool, async bool, norm Norm) {
	for v := i; v < i+n; v++ {
		if !fa(v) {
			continue
		}

		rv := c0
		for _, u := range xe[xv[v]:xv[v+1]] {
			rv += aggregators.LoadFloat64(&c[u])
		}
		if async {
			w.err = accumulateError(w.err, rv-a[v], norm)
			aggregators.StoreFloat64(&c[v], rv*f[v])
		}
		a[v] = rv
		w.processed++

		if fv != nil {
			fv(w, v)
		}
	}
}

// multiplyValues sets c[v] = a[v] * f[v] for v in [i, i+n).
func multiplyValues(c, a, f []float64, i, n int) {
	for v := i; v < i+n; v++ {
		c[v] = a[v] * f[v]
	}
}

// danglingMass returns the rank held by the vertices in [i, i+n) that have
// no outgoing edges.
func danglingMass(r []float64, vdeg []int, i, n int) float64 {
	var mass float64
	for u := i; u < i+n; u++ {
		if vdeg[u] == 0 {
			mass += r[u]
		}
	}
	return mass
}

// teleport returns the rank every vertex receives regardless of its
// in-neighbours: the teleport term (1-P)/N plus the damped dangling mass
// spread evenly over all N vertices.
func teleport(mass, P float64, N int) float64 {
	return (1-P)/float64(N) + P*mass/float64(N)
}
