package ranker

import (
	"runtime"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

// Norm selects the function used to measure the difference between the rank
// vectors of two consecutive iterations.
type Norm int

const (
	// L1 is the sum of absolute differences.
	L1 Norm = iota
	// L2 is the square root of the sum of squared differences.
	L2
	// LInf is the largest absolute difference.
	LInf
)

func (n Norm) String() string {
	switch n {
	case L1:
		return "L1"
	case L2:
		return "L2"
	case LInf:
		return "LInf"
	default:
		return "unknown"
	}
}

// UpdateMode selects how an iteration observes the ranks of the previous one.
type UpdateMode int

const (
	// Synchronous iterations read a frozen snapshot of the previous ranks.
	Synchronous UpdateMode = iota

	// Asynchronous iterations update ranks in place, so a vertex may observe
	// contributions computed earlier in the same sweep.
	Asynchronous
)

func (m UpdateMode) String() string {
	switch m {
	case Synchronous:
		return "synchronous"
	case Asynchronous:
		return "asynchronous"
	default:
		return "unknown"
	}
}

// ZeroTolerance requests a tolerance of exactly zero, so that a run always
// performs MaxIterations iterations unless a worker fails. A zero Tolerance
// field selects the default instead. A validated Config holds 0 in place of
// ZeroTolerance.
const ZeroTolerance = -1.0

// VertexFunc is invoked once for every recomputed vertex in every iteration
// with the worker that processed it and the vertex key. It is called
// concurrently from several workers by the parallel drivers.
type VertexFunc func(w *Worker, key int)

// Config encapsulates the parameters of a rank computation.
type Config struct {
	// DampingFactor is the probability that a random surfer follows one of
	// the outgoing links of the vertex they are visiting instead of
	// teleporting to a random vertex.
	//
	// If not specified, a default value of 0.85 will be used instead.
	DampingFactor float64

	// The iteration loop stops once the difference between the ranks of
	// two consecutive iterations, measured with ErrorFunction, drops below
	// Tolerance.
	//
	// If not specified, a default value of 1e-10 will be used instead. Use
	// ZeroTolerance to disable the check.
	Tolerance float64

	// MaxIterations caps the number of iterations of a run. Callers detect
	// non-convergence by comparing Result.Iterations against it.
	//
	// If not specified, a default value of 500 will be used instead.
	MaxIterations int

	// ErrorFunction selects the norm used for the convergence check.
	ErrorFunction Norm

	// DeadEnds enables redistribution of the rank trapped at vertices with
	// no outgoing edges, which keeps the ranks summing to 1.
	DeadEnds bool

	// Mode selects synchronous or asynchronous updates.
	Mode UpdateMode

	// The number of workers used by the parallel drivers. If not specified,
	// the number of CPUs will be used instead.
	ComputeWorkers int

	// OnVertex, if defined, is invoked for each recomputed vertex.
	OnVertex VertexFunc

	// Logger receives a summary of every run. If not specified, the
	// logrus standard logger is used.
	Logger *logrus.Entry
}

// validate checks whether the configuration is valid and sets the default
// values where required.
func (c *Config) validate() error {
	var err error
	if !(c.DampingFactor >= 0 && c.DampingFactor < 1.0) {
		err = multierror.Append(err, xerrors.New("DampingFactor must be in the range (0, 1)"))
	} else if c.DampingFactor == 0 {
		c.DampingFactor = 0.85
	}

	switch {
	case c.Tolerance == ZeroTolerance:
		c.Tolerance = 0
	case !(c.Tolerance >= 0):
		err = multierror.Append(err, xerrors.New("Tolerance must not be negative"))
	case c.Tolerance == 0:
		c.Tolerance = 1e-10
	}

	if c.MaxIterations < 0 {
		err = multierror.Append(err, xerrors.New("MaxIterations must be at least equal to 1"))
	} else if c.MaxIterations == 0 {
		c.MaxIterations = 500
	}

	if c.ErrorFunction < L1 || c.ErrorFunction > LInf {
		err = multierror.Append(err, xerrors.Errorf("unsupported ErrorFunction %d", c.ErrorFunction))
	}

	if c.Mode != Synchronous && c.Mode != Asynchronous {
		err = multierror.Append(err, xerrors.Errorf("unsupported update Mode %d", c.Mode))
	}

	if c.ComputeWorkers < 0 {
		err = multierror.Append(err, xerrors.New("ComputeWorkers must not be negative"))
	} else if c.ComputeWorkers == 0 {
		c.ComputeWorkers = runtime.NumCPU()
	}

	if c.Logger == nil {
		c.Logger = logrus.NewEntry(logrus.StandardLogger())
	}

	return err
}
