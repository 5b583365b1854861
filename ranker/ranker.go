/*
   Implements the power-iteration PageRank algorithm https://en.wikipedia.org/wiki/PageRank
   over a static graph or, incrementally, over a graph that has just received a
   batch of edge changes.
*/
package ranker

import (
	"time"

	"github.com/Ahmed-Sermani/go-pagerank/bsp"
	"github.com/Ahmed-Sermani/go-pagerank/bsp/aggregators"
	"github.com/Ahmed-Sermani/go-pagerank/graph"
	"github.com/Ahmed-Sermani/go-pagerank/partition"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

/*
   Under the random surfer model a surfer either follows one of the outgoing
   links of the page they are on, with probability equal to the damping
   factor, or teleports to a random page of the graph. A rank is the
   probability that the surfer lands on a vertex; repeating the surfer step
   until the ranks stop changing converges to that probability.

   Each iteration computes, for every vertex v,

       rank(v) = (1-d)/N + sum of d*rank(u)/outdegree(u) over the in-neighbours u of v

   A vertex without outgoing links traps its rank. With dead-end handling
   enabled, the trapped rank is spread evenly across all vertices so that the
   ranks keep summing to 1.
*/

// Result is the outcome of a rank computation.
type Result struct {
	// Ranks maps each vertex key to its rank.
	Ranks map[int]float64

	// Iterations is the number of iterations performed. A value equal to
	// the configured MaxIterations means the run may not have converged.
	Iterations int

	// Elapsed is the time spent iterating.
	Elapsed time.Duration

	// Recomputed is the number of vertices recomputed by the last iteration.
	Recomputed int
}

// Ranker computes vertex ranks using the iterative PageRank algorithm.
type Ranker struct {
	cfg Config
}

// New returns a new Ranker instance using the provided config options.
func New(cfg Config) (*Ranker, error) {
	if err := cfg.validate(); err != nil {
		return nil, xerrors.Errorf("ranker config validation failed: %w", err)
	}
	return &Ranker{cfg: cfg}, nil
}

// Config returns the validated configuration of the ranker.
func (r *Ranker) Config() Config { return r.cfg }

// Static computes the rank of every vertex of the graph whose transpose is
// xt on a single worker. Ranks missing from init start at 1/N.
func (r *Ranker) Static(xt graph.Transpose, init map[int]float64) *Result {
	return r.static(xt, init, false)
}

// StaticParallel is like Static but splits every iteration across
// ComputeWorkers workers.
func (r *Ranker) StaticParallel(xt graph.Transpose, init map[int]float64) *Result {
	return r.static(xt, init, true)
}

// DynamicTraversal recomputes the ranks of graph y, reached from graph x by
// applying batch b, where yt is the transpose of y. Only vertices reachable
// from the changed edges are recomputed; the other vertices keep the rank
// they have in init, which is expected to hold converged ranks for x.
func (r *Ranker) DynamicTraversal(x, y graph.View, yt graph.Transpose, b graph.Batch, init map[int]float64) *Result {
	return r.dynamicTraversal(x, y, yt, b, init, false)
}

// DynamicTraversalParallel is like DynamicTraversal but splits every
// iteration across ComputeWorkers workers.
func (r *Ranker) DynamicTraversalParallel(x, y graph.View, yt graph.Transpose, b graph.Batch, init map[int]float64) *Result {
	return r.dynamicTraversal(x, y, yt, b, init, true)
}

func (r *Ranker) static(xt graph.Transpose, init map[int]float64, parallel bool) *Result {
	if xt.Order() == 0 {
		return &Result{Ranks: make(map[int]float64)}
	}

	csr := graph.Compact(xt)
	fa := func(int) bool { return true }
	return r.run(csr, init, fa, parallel)
}

func (r *Ranker) dynamicTraversal(x, y graph.View, yt graph.Transpose, b graph.Batch, init map[int]float64, parallel bool) *Result {
	if yt.Order() == 0 {
		return &Result{Ranks: make(map[int]float64)}
	}

	csr := graph.Compact(yt)
	vaff := r.affectedPositions(x, y, b, csr)
	fa := func(v int) bool { return vaff[v] }
	return r.run(csr, init, fa, parallel)
}

// affectedPositions maps the affected vertices of the batch to positions of
// csr. Every vertex is affected when the vertex set changes, since N appears
// in every teleport term, or when dead-end handling is enabled and the batch
// reaches a dead end, since the dangling mass feeds every vertex.
func (r *Ranker) affectedPositions(x, y graph.View, b graph.Batch, csr *graph.CSR) []bool {
	vaff := make([]bool, csr.Order())
	keys := AffectedVertices(x, b)
	if !sameVertices(x, csr.Keys) || (r.cfg.DeadEnds && touchesDeadEnd(x, y, keys)) {
		for v := range vaff {
			vaff[v] = true
		}
		return vaff
	}

	for k := range keys {
		if v, exists := csr.Index[k]; exists {
			vaff[v] = true
		}
	}
	return vaff
}

// run sets up the buffers and workers of a run over all the vertices of csr,
// iterates and maps the final ranks back to vertex keys.
func (r *Ranker) run(csr *graph.CSR, init map[int]float64, fa func(int) bool, parallel bool) *Result {
	var (
		N          = csr.Order()
		numWorkers = 1
		ex         executor
	)
	if parallel {
		numWorkers = r.cfg.ComputeWorkers
		pool, err := bsp.NewPool(numWorkers)
		if err != nil {
			// ComputeWorkers is validated to be positive.
			panic(err)
		}
		defer func() { _ = pool.Close() }()
		ex = pool
	} else {
		ex = inlineExecutor{}
	}

	lp := r.newLoop(csr, init, numWorkers)
	lp.fa = fa
	if r.cfg.OnVertex != nil {
		lp.fv = func(w *Worker, v int) { r.cfg.OnVertex(w, csr.Keys[v]) }
	}

	start := time.Now()
	l := lp.run(ex)
	res := &Result{
		Ranks:      make(map[int]float64, N),
		Iterations: l,
		Elapsed:    time.Since(start),
	}

	ranks := lp.buffers.previous()
	for v, k := range csr.Keys {
		res.Ranks[k] = ranks[v]
	}

	recomputed := new(aggregators.IntAggregator)
	for _, w := range lp.workers {
		recomputed.Aggregate(w.processed)
	}
	res.Recomputed = recomputed.Get().(int)

	r.logRun(lp, res)
	return res
}

func (r *Ranker) newLoop(csr *graph.CSR, init map[int]float64, numWorkers int) *loop {
	N := csr.Order()
	initial := make([]float64, N)
	for v, k := range csr.Keys {
		if q, exists := init[k]; exists {
			initial[v] = q
		} else {
			initial[v] = 1.0 / float64(N)
		}
	}

	// Dead ends keep a zero scale; their rank only flows through the
	// dangling mass.
	scale := make([]float64, N)
	for v, deg := range csr.Degree {
		if deg > 0 {
			scale[v] = r.cfg.DampingFactor / float64(deg)
		}
	}
	contrib := make([]float64, N)
	multiplyValues(contrib, initial, scale, 0, N)

	return &loop{
		buffers: newRankBuffers(initial, r.cfg.Mode == Asynchronous),
		contrib: contrib,
		scale:   scale,
		offsets: csr.Offsets,
		targets: csr.Targets,
		degree:  csr.Degree,
		N:       N,
		damping: r.cfg.DampingFactor,
		tol:     r.cfg.Tolerance,
		maxIter: r.cfg.MaxIterations,
		norm:    r.cfg.ErrorFunction,
		dead:    r.cfg.DeadEnds,
		async:   r.cfg.Mode == Asynchronous,
		parts:   partition.MustNewRange(0, N, numWorkers),
		workers: newWorkers(numWorkers),
	}
}

func (r *Ranker) logRun(lp *loop, res *Result) {
	logger := r.cfg.Logger.WithFields(logrus.Fields{
		"vertices":   lp.N,
		"recomputed": res.Recomputed,
		"iterations": res.Iterations,
		"error":      lp.lastErr,
		"elapsed":    res.Elapsed,
	})

	switch {
	case anyCrashed(lp.workers):
		logger.Warn("worker failure detected; returning partially converged ranks")
	case lp.lastErr >= lp.tol:
		logger.Warn("iteration cap reached before convergence")
	default:
		logger.Debug("ranks converged")
	}
}
