package ranker

import "sync/atomic"

// Worker describes one worker of a run. Workers are created for each driver
// call and discarded when it returns.
type Worker struct {
	id        int
	crashed   int32
	iteration int

	// Partial values of the current iteration, combined after the barrier.
	processed int
	err       float64
	mass      float64
}

func newWorkers(n int) []*Worker {
	workers := make([]*Worker, n)
	for i := range workers {
		workers[i] = &Worker{id: i}
	}
	return workers
}

// ID returns the index of the worker within its run.
func (w *Worker) ID() int { return w.id }

// Iteration returns the 1-based number of the iteration being computed.
func (w *Worker) Iteration() int { return w.iteration }

// Processed returns the number of vertices recomputed by the worker in the
// current iteration.
func (w *Worker) Processed() int { return w.processed }

// Crash flags the worker as failed. The run stops at the next iteration
// boundary and returns the ranks computed so far. Crash may be called from
// any goroutine.
func (w *Worker) Crash() { atomic.StoreInt32(&w.crashed, 1) }

// Crashed reports whether Crash has been called.
func (w *Worker) Crashed() bool { return atomic.LoadInt32(&w.crashed) == 1 }

func (w *Worker) beginIteration(l int) {
	w.iteration = l
	w.processed = 0
	w.err = 0
}

func anyCrashed(workers []*Worker) bool {
	for _, w := range workers {
		if w.Crashed() {
			return true
		}
	}
	return false
}
