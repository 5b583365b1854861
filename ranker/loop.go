package ranker

import (
	"github.com/Ahmed-Sermani/go-pagerank/bsp"
	"github.com/Ahmed-Sermani/go-pagerank/bsp/aggregators"
	"github.com/Ahmed-Sermani/go-pagerank/partition"
)

// executor runs one task per partition and returns once all of them are done.
type executor interface {
	NumPartitions() int
	Step(task bsp.TaskFunc)
}

var _ executor = (*bsp.Pool)(nil)

// inlineExecutor is the single-worker strategy: its only partition runs on
// the calling goroutine.
type inlineExecutor struct{}

func (inlineExecutor) NumPartitions() int { return 1 }

func (inlineExecutor) Step(task bsp.TaskFunc) { task(0) }

// rankBuffers double-buffers the rank vector. live selects the buffer written
// by the current iteration; swapping toggles it instead of moving data. In
// asynchronous mode both entries share one backing array.
type rankBuffers struct {
	ranks [2][]float64
	live  int
}

func newRankBuffers(initial []float64, async bool) *rankBuffers {
	b := &rankBuffers{ranks: [2][]float64{initial, initial}}
	if !async {
		b.ranks[1] = append([]float64(nil), initial...)
	}
	return b
}

func (b *rankBuffers) current() []float64  { return b.ranks[b.live] }
func (b *rankBuffers) previous() []float64 { return b.ranks[1-b.live] }
func (b *rankBuffers) swap()               { b.live = 1 - b.live }

// loop drives the rank iterations of one run.
type loop struct {
	buffers *rankBuffers
	contrib []float64
	scale   []float64
	offsets []int
	targets []int
	degree  []int

	N       int
	damping float64
	tol     float64
	maxIter int
	norm    Norm
	dead    bool
	async   bool

	// parts splits [0, N) into one contiguous partition per worker.
	parts partition.Range

	workers []*Worker
	fv      func(*Worker, int)
	fa      func(int) bool

	// lastErr is the error of the last completed iteration.
	lastErr float64
}

// run iterates until the error drops below the tolerance, the iteration cap
// is reached or a worker has been flagged as crashed, and returns the number
// of iterations performed. The final ranks are in buffers.previous().
func (lp *loop) run(ex executor) int {
	var (
		l        int
		errAggr  = newErrorAggregator(lp.norm)
		massAggr = new(aggregators.Float64Aggregator)
	)

	for l < lp.maxIter {
		a, r := lp.buffers.current(), lp.buffers.previous()

		var mass float64
		if lp.dead {
			ex.Step(func(p int) {
				i, end := extents(lp.parts, p)
				lp.workers[p].mass = danglingMass(r, lp.degree, i, end-i)
			})
			massAggr.Set(0.0)
			for _, w := range lp.workers {
				massAggr.Aggregate(w.mass)
			}
			mass = massAggr.Get().(float64)
		}
		c0 := teleport(mass, lp.damping, lp.N)

		l++
		for _, w := range lp.workers {
			w.beginIteration(l)
		}

		// update ranks of vertices
		ex.Step(func(p int) {
			i, end := extents(lp.parts, p)
			calculateRanks(a, lp.contrib, lp.scale, lp.offsets, lp.targets, c0, i, end-i, lp.workers[p], lp.fv, lp.fa, lp.async, lp.norm)
		})

		// update contributions and compare previous and current ranks
		ex.Step(func(p int) {
			i, end := extents(lp.parts, p)
			multiplyValues(lp.contrib, a, lp.scale, i, end-i)
			if !lp.async {
				lp.workers[p].err = errorPartial(a, r, lp.norm, i, end-i)
			}
		})
		errAggr.Set(0.0)
		for _, w := range lp.workers {
			errAggr.Aggregate(w.err)
		}
		lp.lastErr = errorFinish(lp.norm, errAggr.Get().(float64))

		// final ranks in previous()
		if !lp.async {
			lp.buffers.swap()
		}
		if lp.lastErr < lp.tol {
			break
		}
		if anyCrashed(lp.workers) {
			break
		}
	}
	return l
}

func extents(r partition.Range, p int) (int, int) {
	i, end, err := r.PartitionExtents(p)
	if err != nil {
		panic(err)
	}
	return i, end
}
