package bsp

import (
	"sync"
	"sync/atomic"

	"golang.org/x/xerrors"
)

// TaskFunc is executed once per partition when running a step.
type TaskFunc func(partition int)

// Pool runs steps over a fixed number of partitions using a fixed number of
// worker goroutines. Steps never overlap: Step returns only after every
// partition of the step has been processed. It is important for callers to
// invoke Close() when they are done using the pool.
type Pool struct {
	numPartitions int

	// wg used for step workers
	wg sync.WaitGroup

	// partitionCh is polled by the workers to obtain the next partition
	// to be processed.
	partitionCh chan int

	// stepCompletedCh allows workers to signal when the last partition of
	// the step has been processed.
	stepCompletedCh chan struct{}

	// pendingInStep is the number of partitions still to be processed in
	// the current step.
	pendingInStep int64

	// task is replaced before each step is dispatched; the send on
	// partitionCh publishes it to the workers.
	task TaskFunc
}

// NewPool creates a pool that splits every step into numPartitions tasks and
// executes them on numPartitions workers.
func NewPool(numPartitions int) (*Pool, error) {
	if numPartitions <= 0 {
		return nil, xerrors.Errorf("number of partitions must be at least equal to 1")
	}

	p := &Pool{numPartitions: numPartitions}
	p.startWorkers(numPartitions)
	return p, nil
}

// NumPartitions returns the number of tasks executed per step.
func (p *Pool) NumPartitions() int { return p.numPartitions }

// Step invokes task for every partition in [0, NumPartitions()) and blocks
// until all of them have returned.
func (p *Pool) Step(task TaskFunc) {
	// Nothing is in flight at the start of the step so these can be
	// assigned directly.
	p.task = task
	p.pendingInStep = int64(p.numPartitions)

	for partition := 0; partition < p.numPartitions; partition++ {
		p.partitionCh <- partition
	}

	// block until the workers have processed all partitions
	<-p.stepCompletedCh
}

// Close stops the workers and waits for them to exit.
func (p *Pool) Close() error {
	close(p.partitionCh)
	p.wg.Wait()
	return nil
}

// startWorkers allocates the required channels and spins up numWorkers to
// execute each step.
func (p *Pool) startWorkers(numWorkers int) {
	p.partitionCh = make(chan int)
	p.stepCompletedCh = make(chan struct{})

	p.wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go p.stepWorker()
	}
}

// stepWorker consumes partitionCh and executes the current task for each
// partition. The worker exits when partitionCh gets closed.
func (p *Pool) stepWorker() {
	defer p.wg.Done()
	for partition := range p.partitionCh {
		p.task(partition)
		if atomic.AddInt64(&p.pendingInStep, -1) == 0 {
			p.stepCompletedCh <- struct{}{}
		}
	}
}
