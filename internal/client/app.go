package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-call-sync/internal/adapter"
	"github.com/MKhiriev/go-call-sync/internal/bus"
	"github.com/MKhiriev/go-call-sync/internal/channel"
	"github.com/MKhiriev/go-call-sync/internal/config"
	"github.com/MKhiriev/go-call-sync/internal/logger"
	"github.com/MKhiriev/go-call-sync/internal/network"
	"github.com/MKhiriev/go-call-sync/internal/service"
	"github.com/MKhiriev/go-call-sync/internal/store"
	"github.com/MKhiriev/go-call-sync/internal/workers"
)

type App struct {
	cfg *config.ClientConfig

	storages    *store.ClientStorages
	relay       adapter.RelayAdapter
	channel     *channel.Manager
	observer    *network.Observer
	prober      *network.Prober
	bus         *bus.Bus
	coordinator *service.Coordinator
	syncJob     *service.SyncJob

	logger *logger.Logger
}

var _ Client = (*App)(nil)

// NewApp builds every component of the client. Nothing is dialed until Run.
func NewApp(ctx context.Context, cfg *config.ClientConfig, log *logger.Logger) (*App, error) {
	if cfg == nil {
		return nil, errors.New("nil client config")
	}

	storages, err := store.NewClientStorages(ctx, cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	relay, err := adapter.NewHTTPRelayAdapter(cfg.Adapter, log)
	if err != nil {
		_ = storages.Close()
		return nil, fmt.Errorf("create relay adapter: %w", err)
	}
	relay.SetToken(cfg.Identity)

	// offline until the first probe says otherwise
	observer := network.NewObserver(false, log)
	prober := network.NewProber(
		healthChecker(relay, cfg.Network, cfg.Adapter, cfg.Adapter.RequestTimeout),
		observer,
		cfg.Network.ProbeInterval,
		log,
	)

	events := bus.New(cfg.Sync.BusBuffer, log)
	ch := channel.NewManager(cfg.Channel, log)
	coordinator := service.NewCoordinator(ch, observer, events, storages, cfg.Sync, log)

	return &App{
		cfg:         cfg,
		storages:    storages,
		relay:       relay,
		channel:     ch,
		observer:    observer,
		prober:      prober,
		bus:         events,
		coordinator: coordinator,
		syncJob:     service.NewSyncJob(coordinator, relay, cfg.Sync, log),
		logger:      log.WithComponent("app"),
	}, nil
}

// Coordinator exposes the sync coordinator to embedding code.
func (a *App) Coordinator() *service.Coordinator {
	return a.coordinator
}

// Bus exposes the event bus to embedding code.
func (a *App) Bus() *bus.Bus {
	return a.bus
}

// Run connects the channel and runs the prober and the sync job until ctx is
// canceled. The first successful probe is an online transition, so envelopes
// left queued by a previous run are flushed once the channel authenticates.
func (a *App) Run(ctx context.Context) error {
	unsubscribe := a.bus.Subscribe(bus.AllTopics, func(ev bus.Event) {
		a.logger.Info().Str("topic", ev.Topic).Any("payload", ev.Payload).Msg("event")
	})
	defer unsubscribe()

	a.logger.Info().Str("identity", a.cfg.Identity).Msg("starting client")
	if _, err := a.coordinator.ConnectSocket(a.cfg.Identity); err != nil {
		return fmt.Errorf("connect socket: %w", err)
	}

	err := workers.New(a.prober, a.syncJob).Run(ctx)
	a.logger.Info().Err(err).Msg("client stopped")
	return err
}

// Close stops the coordinator, the channel and the bus and releases the
// store. It is safe to call after a failed Run.
func (a *App) Close() error {
	a.syncJob.Stop()
	a.coordinator.Close()

	var errs []error
	if err := a.channel.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close channel: %w", err))
	}
	a.bus.Close()
	if err := a.storages.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close storage: %w", err))
	}
	return errors.Join(errs...)
}
