// Package ranker keeps the PageRank scores of a live graph up to date. The
// first pass ranks the whole graph; later passes only recompute the vertices
// reachable from the edge changes submitted since the previous pass.
package ranker

import (
	"context"
	"sync"

	"github.com/Ahmed-Sermani/go-pagerank/graph"
	"github.com/Ahmed-Sermani/go-pagerank/graph/store/memory"
	pagerank "github.com/Ahmed-Sermani/go-pagerank/ranker"
	"github.com/Ahmed-Sermani/go-pagerank/service"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/xerrors"
)

//go:generate mockgen -package mocks -destination mocks/mock.go github.com/Ahmed-Sermani/go-pagerank/service/ranker ScoreSink

var (
	_ service.Service = (*Service)(nil)

	tracer = otel.Tracer("pagerank.service")
)

// Service periodically ranks the vertices of a graph and publishes the
// scores to a ScoreSink.
type Service struct {
	cfg     Config
	ranker  *pagerank.Ranker
	metrics *metrics

	mu       sync.Mutex
	pending  []graph.Batch
	snapshot *memory.Graph
	scores   map[int]float64
}

// NewService creates a new ranking service instance with the specified config.
func NewService(cfg Config) (*Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, xerrors.Errorf("ranker service: config validation failed: %w", err)
	}
	r, err := pagerank.New(cfg.Ranker)
	if err != nil {
		return nil, xerrors.Errorf("ranker service: %w", err)
	}

	return &Service{
		cfg:     cfg,
		ranker:  r,
		metrics: newMetrics(cfg.Registerer),
	}, nil
}

// Name implements service.Service
func (svc *Service) Name() string { return "PageRank" }

// Submit applies b to the live graph and queues it for the next pass.
func (svc *Service) Submit(b graph.Batch) {
	if b.Empty() {
		return
	}
	svc.mu.Lock()
	svc.cfg.Graph.ApplyBatch(b)
	svc.pending = append(svc.pending, b)
	svc.mu.Unlock()
}

// Run implements service.Service
func (svc *Service) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-svc.cfg.Clock.After(svc.cfg.UpdateInterval):
			if err := svc.UpdateScores(ctx); err != nil {
				return err
			}
		}
	}
}

// Scores returns a copy of the scores computed by the last pass.
func (svc *Service) Scores() map[int]float64 {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	scores := make(map[int]float64, len(svc.scores))
	for k, q := range svc.scores {
		scores[k] = q
	}
	return scores
}

// UpdateScores runs a single ranking pass and publishes the results. It is a
// no-op when nothing was submitted since the previous pass.
func (svc *Service) UpdateScores(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "UpdateScores", trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	logger := svc.cfg.Logger.WithField("run_id", uuid.New().String())

	x, y, batch, prev, changed := svc.drain()
	if !changed {
		logger.Debug("no graph changes since the last pass")
		return nil
	}

	var (
		res  *pagerank.Result
		mode string
	)
	if x == nil {
		mode = modeStatic
		res = svc.ranker.StaticParallel(y.Transpose(), nil)
	} else {
		mode = modeDynamic
		res = svc.ranker.DynamicTraversalParallel(x, y, y.Transpose(), batch, prev)
	}
	svc.metrics.observe(mode, res.Iterations, res.Recomputed, res.Elapsed.Seconds())
	span.SetAttributes(
		attribute.String("mode", mode),
		attribute.Int("vertices", len(res.Ranks)),
		attribute.Int("iterations", res.Iterations),
		attribute.Int("recomputed", res.Recomputed),
	)

	svc.mu.Lock()
	svc.snapshot = y
	svc.scores = res.Ranks
	svc.mu.Unlock()

	logger.WithFields(logrus.Fields{
		"mode":       mode,
		"vertices":   len(res.Ranks),
		"recomputed": res.Recomputed,
		"iterations": res.Iterations,
		"elapsed":    res.Elapsed,
	}).Info("ranking pass completed")

	if err := svc.publish(ctx, res.Ranks); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "publishing scores failed")
		return xerrors.Errorf("ranker service: %w", err)
	}
	return nil
}

// drain snapshots the live graph and takes the pending batches. x is nil when
// no pass has run yet.
func (svc *Service) drain() (x, y *memory.Graph, batch graph.Batch, prev map[int]float64, changed bool) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if svc.snapshot != nil && len(svc.pending) == 0 {
		return nil, nil, batch, nil, false
	}
	for _, b := range svc.pending {
		batch = batch.Merge(b)
	}
	svc.pending = nil
	return svc.snapshot, svc.cfg.Graph.Clone(), batch, svc.scores, true
}

func (svc *Service) publish(ctx context.Context, ranks map[int]float64) error {
	var err error
	for k, q := range ranks {
		select {
		case <-ctx.Done():
			return multierror.Append(err, ctx.Err())
		default:
		}

		if sinkErr := svc.cfg.Scores.UpdateScore(k, q); sinkErr != nil {
			svc.metrics.sinkErrors.Inc()
			err = multierror.Append(err, xerrors.Errorf("update score for vertex %d: %w", k, sinkErr))
		}
	}
	return err
}
