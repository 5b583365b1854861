package ranker_test

import (
	"github.com/Ahmed-Sermani/go-pagerank/graph"
	"github.com/Ahmed-Sermani/go-pagerank/ranker"
	gc "gopkg.in/check.v1"
)

var _ = gc.Suite(new(AffectedTestSuite))

type AffectedTestSuite struct{}

func (s *AffectedTestSuite) TestDeletionMarksReachableFromSource(c *gc.C) {
	// 1 -> 2 -> 3, 4 -> 5
	x := buildGraph(c, 5, [][2]int{{1, 2}, {2, 3}, {4, 5}})
	got := ranker.AffectedVertices(x, graph.Batch{
		Deletions: []graph.Edge{{Src: 2, Dst: 3}},
	})
	c.Assert(got, gc.DeepEquals, map[int]bool{2: true, 3: true})
}

func (s *AffectedTestSuite) TestInsertionMarksBothEndpoints(c *gc.C) {
	x := buildGraph(c, 5, [][2]int{{1, 2}, {2, 3}, {4, 5}})
	got := ranker.AffectedVertices(x, graph.Batch{
		Insertions: []graph.Edge{{Src: 3, Dst: 4}},
	})
	// 4 and 5 are only reachable through the new edge.
	c.Assert(got, gc.DeepEquals, map[int]bool{3: true, 4: true, 5: true})
}

func (s *AffectedTestSuite) TestUnknownEndpointsAreMarked(c *gc.C) {
	x := buildGraph(c, 2, [][2]int{{1, 2}})
	got := ranker.AffectedVertices(x, graph.Batch{
		Insertions: []graph.Edge{{Src: 7, Dst: 1}},
	})
	c.Assert(got, gc.DeepEquals, map[int]bool{7: true, 1: true, 2: true})
}

func (s *AffectedTestSuite) TestEmptyBatch(c *gc.C) {
	x := buildGraph(c, 2, [][2]int{{1, 2}})
	c.Assert(ranker.AffectedVertices(x, graph.Batch{}), gc.HasLen, 0)
}
