package ranker

import (
	"io"
	"time"

	"github.com/Ahmed-Sermani/go-pagerank/graph/store/memory"
	pagerank "github.com/Ahmed-Sermani/go-pagerank/ranker"
	"github.com/hashicorp/go-multierror"
	"github.com/juju/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

// ScoreSink receives the rank of every vertex after each ranking pass.
type ScoreSink interface {
	UpdateScore(key int, score float64) error
}

// Config encapsulates the settings for configuring the ranking service.
type Config struct {
	// The live graph. Changes must be submitted through the service so
	// that the next pass knows which vertices they affect.
	Graph *memory.Graph

	// Receives the computed scores.
	Scores ScoreSink

	// A clock instance for generating time-related events. If not specified,
	// the default wall-clock will be used instead.
	Clock clock.Clock

	// The time between subsequent ranking passes.
	UpdateInterval time.Duration

	// Settings for the rank computation itself.
	Ranker pagerank.Config

	// Registerer for the service metrics. If not specified, the metrics are
	// registered with a private registry.
	Registerer prometheus.Registerer

	// The logger to use. If not defined an output-discarding logger will
	// be used instead.
	Logger *logrus.Entry
}

func (cfg *Config) validate() error {
	var err error
	if cfg.Graph == nil {
		err = multierror.Append(err, xerrors.Errorf("graph has not been provided"))
	}
	if cfg.Scores == nil {
		err = multierror.Append(err, xerrors.Errorf("score sink has not been provided"))
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.WallClock
	}
	if cfg.UpdateInterval == 0 {
		cfg.UpdateInterval = time.Hour
	} else if cfg.UpdateInterval < 0 {
		err = multierror.Append(err, xerrors.Errorf("invalid value for update interval"))
	}
	if cfg.Registerer == nil {
		cfg.Registerer = prometheus.NewRegistry()
	}
	if cfg.Logger == nil {
		l := logrus.New()
		l.Out = io.Discard
		cfg.Logger = logrus.NewEntry(l)
	}
	if cfg.Ranker.Logger == nil {
		cfg.Ranker.Logger = cfg.Logger
	}
	return err
}
