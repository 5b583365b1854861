package ranker

import (
	"math"

	"github.com/Ahmed-Sermani/go-pagerank/bsp"
	"github.com/Ahmed-Sermani/go-pagerank/bsp/aggregators"
)

// Distance measures the difference between a and b over [i, i+n) using the
// given norm.
func Distance(a, b []float64, norm Norm, i, n int) float64 {
	return errorFinish(norm, errorPartial(a, b, norm, i, n))
}

// errorPartial returns the unfinished error of a partition: a sum of
// absolute values for L1, a sum of squares for L2 and a maximum for LInf.
func errorPartial(a, b []float64, norm Norm, i, n int) float64 {
	var e float64
	for v := i; v < i+n; v++ {
		e = accumulateError(e, a[v]-b[v], norm)
	}
	return e
}

func accumulateError(e, d float64, norm Norm) float64 {
	switch norm {
	case L2:
		return e + d*d
	case LInf:
		return math.Max(e, math.Abs(d))
	default:
		return e + math.Abs(d)
	}
}

// newErrorAggregator returns the combinator for the partial errors of norm.
func newErrorAggregator(norm Norm) bsp.Aggregator {
	if norm == LInf {
		return new(aggregators.Float64MaxAggregator)
	}
	return new(aggregators.Float64Aggregator)
}

func errorFinish(norm Norm, e float64) float64 {
	if norm == L2 {
		return math.Sqrt(e)
	}
	return e
}
