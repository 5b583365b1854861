package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Ahmed-Sermani/go-pagerank/graph/store/memory"
	"github.com/Ahmed-Sermani/go-pagerank/service"
	"github.com/Ahmed-Sermani/go-pagerank/service/ranker"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

var (
	appName = "PageRank"
	appSha  = ""
)

func main() {
	host, _ := os.Hostname()
	rootLogger := logrus.New()
	rootLogger.SetFormatter(new(logrus.JSONFormatter))
	logger := rootLogger.WithFields(logrus.Fields{
		"app":  appName,
		"sha":  appSha,
		"host": host,
	})

	if err := run(logger); err != nil {
		logger.WithField("err", err).Error("shutting down due to error")
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

func run(logger *logrus.Entry) error {
	svcGroup, err := setupServices(memory.NewGraph(), logger)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGHUP)
	defer cancel()

	return svcGroup.Run(ctx)
}

func setupServices(g *memory.Graph, logger *logrus.Entry) (service.Group, error) {
	var pageRankCfg ranker.Config
	pageRankCfg.Graph = g
	pageRankCfg.Scores = logSink{logger: logger.WithField("sink", "scores")}
	pageRankCfg.Logger = logger.WithField("service", "ranker")

	svc, err := ranker.NewService(pageRankCfg)
	if err != nil {
		return nil, xerrors.Errorf("setting up ranker service: %w", err)
	}
	return service.Group{svc}, nil
}

// logSink publishes scores to the log.
type logSink struct {
	logger *logrus.Entry
}

func (s logSink) UpdateScore(key int, score float64) error {
	s.logger.WithFields(logrus.Fields{
		"vertex": key,
		"score":  score,
	}).Debug("score updated")
	return nil
}
