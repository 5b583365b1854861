package aggregators

import (
	"math"
	"sync/atomic"
	"unsafe"

	"github.com/Ahmed-Sermani/go-pagerank/bsp"
)

var (
	_ bsp.Aggregator = (*Float64Aggregator)(nil)
	_ bsp.Aggregator = (*Float64MaxAggregator)(nil)
)

// Float64Aggregator implements a concurrent-safe accumulator that sums
// float64 values.
type Float64Aggregator struct {
	curSum float64
}

func (a *Float64Aggregator) Type() string {
	return "Float64Aggregator"
}

func (a *Float64Aggregator) Get() any {
	return LoadFloat64(&a.curSum)
}

func (a *Float64Aggregator) Set(v any) {
	StoreFloat64(&a.curSum, v.(float64))
}

func (a *Float64Aggregator) Aggregate(v any) {
	for v64 := v.(float64); ; {
		oldCur := LoadFloat64(&a.curSum)
		newCur := oldCur + v64
		if atomic.CompareAndSwapUint64(
			(*uint64)(unsafe.Pointer(&a.curSum)),
			math.Float64bits(oldCur),
			math.Float64bits(newCur),
		) {
			return
		}
	}
}

// Float64MaxAggregator implements a concurrent-safe accumulator that keeps
// the largest float64 value it has seen.
type Float64MaxAggregator struct {
	curMax float64
}

func (a *Float64MaxAggregator) Type() string {
	return "Float64MaxAggregator"
}

func (a *Float64MaxAggregator) Get() any {
	return LoadFloat64(&a.curMax)
}

func (a *Float64MaxAggregator) Set(v any) {
	StoreFloat64(&a.curMax, v.(float64))
}

func (a *Float64MaxAggregator) Aggregate(v any) {
	for v64 := v.(float64); ; {
		oldMax := LoadFloat64(&a.curMax)
		if v64 <= oldMax {
			return
		}
		if atomic.CompareAndSwapUint64(
			(*uint64)(unsafe.Pointer(&a.curMax)),
			math.Float64bits(oldMax),
			math.Float64bits(v64),
		) {
			return
		}
	}
}

// LoadFloat64 atomically loads *fp.
// it works by casting float64 to uint64 then load the latter.
func LoadFloat64(fp *float64) float64 {
	return math.Float64frombits(
		atomic.LoadUint64((*uint64)(unsafe.Pointer(fp))),
	)
}

// StoreFloat64 atomically stores v into *fp.
func StoreFloat64(fp *float64, v float64) {
	atomic.StoreUint64((*uint64)(unsafe.Pointer(fp)), math.Float64bits(v))
}
