package network

import (
	"context"
	"time"

	"github.com/MKhiriev/go-call-sync/internal/logger"
)

//go:generate mockgen -source=prober.go -destination=../mock/health_mock.go -package=mock

// HealthChecker reports whether the remote service is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// DefaultProbeInterval is used when NewProber gets a non-positive interval.
const DefaultProbeInterval = 5 * time.Second

// Prober feeds an [Observer] from periodic health checks.
type Prober struct {
	checker  HealthChecker
	observer *Observer
	interval time.Duration
	logger   *logger.Logger
}

// NewProber returns a prober polling checker every interval.
func NewProber(checker HealthChecker, observer *Observer, interval time.Duration, log *logger.Logger) *Prober {
	if interval <= 0 {
		interval = DefaultProbeInterval
	}
	return &Prober{
		checker:  checker,
		observer: observer,
		interval: interval,
		logger:   log.WithComponent("prober"),
	}
}

// Interval returns the delay between two probes.
func (p *Prober) Interval() time.Duration {
	return p.interval
}

// Probe runs one health check bounded by the probe interval and reports the
// result to the observer.
func (p *Prober) Probe(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, p.interval)
	defer cancel()

	err := p.checker.Health(probeCtx)
	if ctx.Err() != nil {
		// shutting down: a canceled probe says nothing about the network
		return p.observer.IsOnline()
	}
	if err != nil {
		p.logger.Debug().Err(err).Str("func", "Prober.Probe").Msg("health check failed")
	}

	online := err == nil
	p.observer.Set(online)
	return online
}

// Run probes immediately and then on every tick until ctx is done.
func (p *Prober) Run(ctx context.Context) error {
	p.logger.Info().Dur("interval", p.interval).Msg("network prober started")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.Probe(ctx)
	for {
		select {
		case <-ctx.Done():
			p.logger.Info().Msg("network prober stopped")
			return nil
		case <-ticker.C:
			p.Probe(ctx)
		}
	}
}
