package service

import (
	"context"
	"sync"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/xerrors"
)

// Service is a long-running component of the ranking system.
type Service interface {
	Name() string

	// Run executes the service and blocks until the context gets cancelled
	// or an error occurs.
	Run(context.Context) error
}

// Group runs a set of services side by side.
type Group []Service

// Run executes every service of the group with a shared context. It blocks
// until all services have returned, either because ctx was cancelled or
// because one of them failed, which cancels the others.
func (g Group) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errCh := make(chan error, len(g))
	wg.Add(len(g))
	for _, s := range g {
		go func(s Service) {
			defer wg.Done()
			if err := s.Run(runCtx); err != nil {
				errCh <- xerrors.Errorf("%s: %w", s.Name(), err)
				cancel()
			}
		}(s)
	}

	<-runCtx.Done()
	wg.Wait()

	var err error
	close(errCh)
	for svcErr := range errCh {
		err = multierror.Append(err, svcErr)
	}
	return err
}
