package partition

import (
	"testing"

	gc "gopkg.in/check.v1"
)

var _ = gc.Suite(new(RangeTestSuite))

type RangeTestSuite struct{}

func (s *RangeTestSuite) TestNewRangeErrors(c *gc.C) {
	_, err := NewRange(40, 0, 1)
	c.Assert(err, gc.ErrorMatches, "range start must not be greater than the range end")

	_, err = NewRange(0, 40, 0)
	c.Assert(err, gc.ErrorMatches, "number of partitions must be at least equal to 1")
}

func (s *RangeTestSuite) TestEvenSplit(c *gc.C) {
	r, err := NewRange(0, 16, 4)
	c.Assert(err, gc.IsNil)
	c.Assert(r.NumPartitions(), gc.Equals, 4)

	expExtents := [][2]int{{0, 4}, {4, 8}, {8, 12}, {12, 16}}
	s.assertExtents(c, r, expExtents)
}

func (s *RangeTestSuite) TestOddSplit(c *gc.C) {
	r, err := NewRange(10, 21, 3)
	c.Assert(err, gc.IsNil)

	expExtents := [][2]int{{10, 14}, {14, 18}, {18, 21}}
	s.assertExtents(c, r, expExtents)
}

func (s *RangeTestSuite) TestMorePartitionsThanIndices(c *gc.C) {
	r, err := NewRange(0, 2, 4)
	c.Assert(err, gc.IsNil)

	expExtents := [][2]int{{0, 1}, {1, 2}, {2, 2}, {2, 2}}
	s.assertExtents(c, r, expExtents)
}

func (s *RangeTestSuite) TestEmptyRange(c *gc.C) {
	r, err := NewRange(5, 5, 2)
	c.Assert(err, gc.IsNil)

	expExtents := [][2]int{{5, 5}, {5, 5}}
	s.assertExtents(c, r, expExtents)
}

func (s *RangeTestSuite) TestPartitionExtentsError(c *gc.C) {
	r, err := NewRange(0, 10, 1)
	c.Assert(err, gc.IsNil)

	_, _, err = r.PartitionExtents(1)
	c.Assert(err, gc.ErrorMatches, "invalid partition index")
}

func (s *RangeTestSuite) assertExtents(c *gc.C, r Range, expExtents [][2]int) {
	for i, exp := range expExtents {
		c.Logf("extent: %d", i)
		gotFrom, gotTo, err := r.PartitionExtents(i)
		c.Assert(err, gc.IsNil)
		c.Assert(gotFrom, gc.Equals, exp[0])
		c.Assert(gotTo, gc.Equals, exp[1])
	}
}

func Test(t *testing.T) {
	gc.TestingT(t)
}
