package ranker

import (
	"context"
	"io"
	"math"
	"testing"
	"time"

	"github.com/Ahmed-Sermani/go-pagerank/graph"
	"github.com/Ahmed-Sermani/go-pagerank/graph/store/memory"
	pagerank "github.com/Ahmed-Sermani/go-pagerank/ranker"
	"github.com/Ahmed-Sermani/go-pagerank/service/ranker/mocks"
	"github.com/golang/mock/gomock"
	"github.com/juju/clock"
	"github.com/juju/clock/testclock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"golang.org/x/xerrors"
	gc "gopkg.in/check.v1"
)

var _ = gc.Suite(new(RankerServiceTestSuite))

func Test(t *testing.T) {
	gc.TestingT(t)
}

type RankerServiceTestSuite struct {
	g      *memory.Graph
	logger *logrus.Entry
}

func (s *RankerServiceTestSuite) SetUpTest(c *gc.C) {
	s.g = memory.NewGraph()
	for u := 1; u <= 6; u++ {
		s.g.AddVertex(u)
	}
	for _, e := range [][2]int{{1, 2}, {2, 3}, {3, 1}, {3, 4}, {4, 5}, {5, 6}, {6, 4}} {
		c.Assert(s.g.AddEdge(e[0], e[1]), gc.IsNil)
	}

	l, _ := logtest.NewNullLogger()
	s.logger = logrus.NewEntry(l)
}

func (s *RankerServiceTestSuite) TestConfigValidation(c *gc.C) {
	_, err := NewService(Config{UpdateInterval: -time.Second})
	c.Assert(err, gc.ErrorMatches, "(?s).*graph has not been provided.*score sink has not been provided.*invalid value for update interval.*")

	ctrl := gomock.NewController(c)
	defer ctrl.Finish()
	_, err = NewService(Config{
		Graph:  s.g,
		Scores: mocks.NewMockScoreSink(ctrl),
		Ranker: pagerank.Config{DampingFactor: 2},
	})
	c.Assert(err, gc.ErrorMatches, "(?s)ranker service: ranker config validation failed.*")
}

func (s *RankerServiceTestSuite) TestDefaultConfig(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	svc, err := NewService(Config{Graph: s.g, Scores: mocks.NewMockScoreSink(ctrl)})
	c.Assert(err, gc.IsNil)
	c.Assert(svc.cfg.Logger.Logger.Out, gc.Equals, io.Discard)
	c.Assert(svc.cfg.Ranker.Logger, gc.Equals, svc.cfg.Logger)
	c.Assert(svc.cfg.Clock, gc.Equals, clock.WallClock)
	c.Assert(svc.cfg.UpdateInterval, gc.Equals, time.Hour)
	c.Assert(svc.cfg.Registerer, gc.NotNil)
}

func (s *RankerServiceTestSuite) TestFirstPassRanksWholeGraph(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()
	sink := mocks.NewMockScoreSink(ctrl)
	sink.EXPECT().UpdateScore(gomock.Any(), gomock.Any()).Return(nil).Times(6)

	svc := s.newService(c, sink)
	c.Assert(svc.UpdateScores(context.TODO()), gc.IsNil)

	scores := svc.Scores()
	c.Assert(scores, gc.HasLen, 6)
	var total float64
	for _, q := range scores {
		total += q
	}
	c.Assert(math.Abs(total-1) < 1e-9, gc.Equals, true)

	c.Assert(testutil.ToFloat64(svc.metrics.runs.WithLabelValues(modeStatic)), gc.Equals, 1.0)
	c.Assert(testutil.ToFloat64(svc.metrics.recomputed), gc.Equals, 6.0)
}

func (s *RankerServiceTestSuite) TestPassWithoutChangesIsNoop(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()
	sink := mocks.NewMockScoreSink(ctrl)
	sink.EXPECT().UpdateScore(gomock.Any(), gomock.Any()).Return(nil).Times(6)

	svc := s.newService(c, sink)
	c.Assert(svc.UpdateScores(context.TODO()), gc.IsNil)
	c.Assert(svc.UpdateScores(context.TODO()), gc.IsNil)

	// An empty batch is not queued.
	svc.Submit(graph.Batch{})
	c.Assert(svc.UpdateScores(context.TODO()), gc.IsNil)

	c.Assert(testutil.ToFloat64(svc.metrics.runs.WithLabelValues(modeStatic)), gc.Equals, 1.0)
	c.Assert(testutil.ToFloat64(svc.metrics.runs.WithLabelValues(modeDynamic)), gc.Equals, 0.0)
}

func (s *RankerServiceTestSuite) TestIncrementalPassMatchesFullRecompute(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()
	sink := mocks.NewMockScoreSink(ctrl)
	sink.EXPECT().UpdateScore(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := s.newService(c, sink)
	c.Assert(svc.UpdateScores(context.TODO()), gc.IsNil)
	before := svc.Scores()

	svc.Submit(graph.Batch{Deletions: []graph.Edge{{Src: 5, Dst: 6}}})
	svc.Submit(graph.Batch{Insertions: []graph.Edge{{Src: 6, Dst: 5}}})
	c.Assert(s.g.HasEdge(5, 6), gc.Equals, false)
	c.Assert(s.g.HasEdge(6, 5), gc.Equals, true)
	c.Assert(svc.UpdateScores(context.TODO()), gc.IsNil)

	r, err := pagerank.New(svc.cfg.Ranker)
	c.Assert(err, gc.IsNil)
	exp := r.Static(s.g.Transpose(), nil)

	got := svc.Scores()
	for k, q := range exp.Ranks {
		c.Assert(math.Abs(got[k]-q) < 1e-8, gc.Equals, true, gc.Commentf("vertex %d: got %v, expected %v", k, got[k], q))
	}
	// 1, 2 and 3 cannot be reached from the changed edges.
	for _, k := range []int{1, 2, 3} {
		c.Assert(got[k], gc.Equals, before[k], gc.Commentf("vertex %d", k))
	}

	c.Assert(testutil.ToFloat64(svc.metrics.runs.WithLabelValues(modeDynamic)), gc.Equals, 1.0)
	c.Assert(testutil.ToFloat64(svc.metrics.recomputed), gc.Equals, 3.0)
}

func (s *RankerServiceTestSuite) TestSinkErrorsAreAggregated(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()
	sink := mocks.NewMockScoreSink(ctrl)
	sink.EXPECT().UpdateScore(gomock.Any(), gomock.Any()).Return(xerrors.New("store unavailable")).Times(6)

	svc := s.newService(c, sink)
	err := svc.UpdateScores(context.TODO())
	c.Assert(err, gc.ErrorMatches, "(?s)ranker service: 6 errors occurred.*update score for vertex \\d: store unavailable.*")
	c.Assert(testutil.ToFloat64(svc.metrics.sinkErrors), gc.Equals, 6.0)

	// Scores are kept even though publishing failed.
	c.Assert(svc.Scores(), gc.HasLen, 6)
}

func (s *RankerServiceTestSuite) TestRunUpdatesScoresOnEveryTick(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	published := make(chan struct{}, 6)
	sink := mocks.NewMockScoreSink(ctrl)
	sink.EXPECT().UpdateScore(gomock.Any(), gomock.Any()).Do(func(int, float64) {
		published <- struct{}{}
	}).Return(nil).Times(6)

	clk := testclock.NewClock(time.Now())
	svc, err := NewService(Config{
		Graph:          s.g,
		Scores:         sink,
		Clock:          clk,
		UpdateInterval: time.Minute,
		Ranker:         pagerank.Config{ComputeWorkers: 2},
		Logger:         s.logger,
	})
	c.Assert(err, gc.IsNil)

	ctx, cancel := context.WithCancel(context.TODO())
	defer cancel()
	runErr := make(chan error, 1)
	go func() { runErr <- svc.Run(ctx) }()

	c.Assert(clk.WaitAdvance(time.Minute, 10*time.Second, 1), gc.IsNil)
	for i := 0; i < 6; i++ {
		select {
		case <-published:
		case <-time.After(10 * time.Second):
			c.Fatal("timed out waiting for scores to be published")
		}
	}

	cancel()
	select {
	case err = <-runErr:
		c.Assert(err, gc.IsNil)
	case <-time.After(10 * time.Second):
		c.Fatal("timed out waiting for Run to return")
	}
}

func (s *RankerServiceTestSuite) newService(c *gc.C, sink ScoreSink) *Service {
	svc, err := NewService(Config{
		Graph:  s.g,
		Scores: sink,
		Ranker: pagerank.Config{
			Tolerance:      1e-12,
			MaxIterations:  1000,
			ComputeWorkers: 2,
		},
		Logger: s.logger,
	})
	c.Assert(err, gc.IsNil)
	return svc
}
