// Package health checks the reachability of the backing services.
package health

import (
	"context"
	"time"

	"github.com/dropDatabas3/autolink/internal/observability/logger"
)

// Pinger is implemented by the store and the cache clients.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Storage Pinger
	Cache   Pinger // optional
	Version string
	Timeout time.Duration
}

// Report is the result of one check.
type Report struct {
	StorageUp bool
	CacheUp   *bool
	Version   string
}

type HealthService interface {
	Check(ctx context.Context) Report
}

type healthService struct {
	deps Deps
}

func NewHealthService(d Deps) HealthService {
	if d.Timeout <= 0 {
		d.Timeout = 2 * time.Second
	}
	return &healthService{deps: d}
}

func (s *healthService) Check(ctx context.Context) Report {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("health"))
	rep := Report{Version: s.deps.Version}

	rep.StorageUp = s.ping(ctx, s.deps.Storage)
	if !rep.StorageUp {
		log.Warn("storage unreachable")
	}
	if s.deps.Cache != nil {
		up := s.ping(ctx, s.deps.Cache)
		rep.CacheUp = &up
		if !up {
			log.Warn("cache unreachable")
		}
	}
	return rep
}

func (s *healthService) ping(ctx context.Context, p Pinger) bool {
	if p == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, s.deps.Timeout)
	defer cancel()
	return p.Ping(ctx) == nil
}
