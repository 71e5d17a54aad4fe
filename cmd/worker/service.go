package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fireplay/fireplay-backend/pkg/logger"
	"golang.org/x/sync/errgroup"
)

const heartbeatInterval = 30 * time.Second

// Runner is a long-lived consumer loop.
type Runner interface {
	Run(ctx context.Context) error
}

type dependency struct {
	name string
	ping func(context.Context) error
}

type ServiceParams struct {
	Logger       *logger.Logger
	Consumer     Runner
	Dependencies map[string]func(context.Context) error
}

// Service checks the worker's dependencies and then runs the contact consumer until the
// context ends or the consumer fails.
type Service struct {
	logg     *logger.Logger
	consumer Runner
	deps     []dependency
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if params.Consumer == nil {
		return nil, errors.New("contact consumer is required")
	}
	deps := make([]dependency, 0, len(params.Dependencies))
	for name, ping := range params.Dependencies {
		if ping == nil {
			return nil, fmt.Errorf("%s ping is required", name)
		}
		deps = append(deps, dependency{name: name, ping: ping})
	}
	return &Service{logg: params.Logger, consumer: params.Consumer, deps: deps}, nil
}

func (s *Service) ensureReadiness(ctx context.Context) error {
	for _, dep := range s.deps {
		if err := dep.ping(ctx); err != nil {
			s.logg.Error(ctx, fmt.Sprintf("%s ping failed", dep.name), err)
			return fmt.Errorf("%s ping failed: %w", dep.name, err)
		}
	}
	s.logg.Info(ctx, "all worker dependencies are ready")
	return nil
}

func (s *Service) Run(ctx context.Context) error {
	if err := s.ensureReadiness(ctx); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := s.consumer.Run(gctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			s.logg.Error(gctx, "contact consumer stopped unexpectedly", err)
			return err
		}
		return context.Canceled
	})
	g.Go(func() error {
		ticker := time.NewTicker(heartbeatInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-ticker.C:
				s.logg.Debug(gctx, "worker.heartbeat")
			}
		}
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		s.logg.Info(ctx, "worker context canceled")
		return ctx.Err()
	}
	return err
}
