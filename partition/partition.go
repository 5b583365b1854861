package partition

import (
	"golang.org/x/xerrors"
)

// Range represents a contiguous index region [start, end) which is split into
// a number of contiguous, non-overlapping partitions.
type Range struct {
	start       int
	rangeSplits []int
}

// NewRange creates a new range [start, end) and splits it into the provided
// number of partitions. Partition sizes differ by at most one; when the range
// holds fewer indices than partitions, the trailing partitions are empty.
func NewRange(start, end, numPartitions int) (Range, error) {
	if start > end {
		return Range{}, xerrors.Errorf("range start must not be greater than the range end")
	} else if numPartitions <= 0 {
		return Range{}, xerrors.Errorf("number of partitions must be at least equal to 1")
	}

	var (
		size   = end - start
		ranges = make([]int, numPartitions)
	)
	for partition := 0; partition < numPartitions; partition++ {
		// The first size%numPartitions partitions get one extra index.
		ranges[partition] = start + (partition+1)*(size/numPartitions) + minInt(partition+1, size%numPartitions)
	}

	return Range{start: start, rangeSplits: ranges}, nil
}

// NumPartitions returns the number of partitions in the range.
func (r Range) NumPartitions() int { return len(r.rangeSplits) }

// PartitionExtents returns the [start, end) range for the requested partition.
func (r Range) PartitionExtents(partition int) (int, int, error) {
	if partition < 0 || partition >= len(r.rangeSplits) {
		return 0, 0, xerrors.Errorf("invalid partition index")
	}

	if partition == 0 {
		return r.start, r.rangeSplits[0], nil
	}
	return r.rangeSplits[partition-1], r.rangeSplits[partition], nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// MustNewRange is like NewRange but panics if the range cannot be created.
func MustNewRange(start, end, numPartitions int) Range {
	r, err := NewRange(start, end, numPartitions)
	if err != nil {
		panic(err)
	}
	return r
}
