package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-call-sync/internal/config"
	"github.com/MKhiriev/go-call-sync/internal/logger"
	"github.com/MKhiriev/go-call-sync/models"
)

// SyncJob refreshes one configured kind per tick: through the channel when
// it is eligible, otherwise over REST when a [Fetcher] is set.
type SyncJob struct {
	syncer   Syncer
	fetcher  Fetcher
	kinds    []string
	interval time.Duration
	logger   *logger.Logger
	now      func() time.Time

	mu     sync.Mutex
	next   int
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSyncJob creates an idle job. fetcher may be nil.
func NewSyncJob(syncer Syncer, fetcher Fetcher, cfg config.ClientSync, log *logger.Logger) *SyncJob {
	kinds := cfg.Kinds
	if len(kinds) == 0 {
		kinds = config.DefaultKinds
	}
	return &SyncJob{
		syncer:   syncer,
		fetcher:  fetcher,
		kinds:    append([]string(nil), kinds...),
		interval: cfg.Interval,
		logger:   log.WithComponent("sync_job"),
		now:      time.Now,
	}
}

// Start stops any previous run and launches a goroutine calling Tick every
// interval. A non-positive interval defaults to five minutes. The goroutine
// exits when ctx is canceled or Stop is called.
func (j *SyncJob) Start(ctx context.Context) {
	interval := j.interval
	if interval <= 0 {
		interval = config.DefaultSyncInterval
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				j.Tick(jobCtx)
			}
		}
	}()
}

// Stop cancels the running goroutine and waits for it. It is a no-op when
// the job is not running.
func (j *SyncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}

// Run is the worker entry point: it starts the job and blocks until ctx is
// done.
func (j *SyncJob) Run(ctx context.Context) error {
	j.logger.Info().Dur("interval", j.interval).Strs("kinds", j.kinds).Msg("sync job started")
	j.Start(ctx)
	<-ctx.Done()
	j.Stop()
	j.logger.Info().Msg("sync job stopped")
	return nil
}

// Tick refreshes the next kind in rotation and returns it.
func (j *SyncJob) Tick(ctx context.Context) string {
	j.mu.Lock()
	kind := j.kinds[j.next%len(j.kinds)]
	j.next++
	j.mu.Unlock()

	since := j.syncer.LastSyncFor(kind)
	log := j.logger.With().Str("func", "SyncJob.Tick").Str("kind", kind).Time("since", since).Logger()

	if j.syncer.IsEligible() {
		if !j.syncer.RequestSync(kind, j.syncer.Identity(), since) {
			log.Debug().Msg("sync skipped, another request is in flight")
		}
		return kind
	}

	if j.fetcher == nil {
		log.Debug().Msg("channel not eligible, sync skipped")
		return kind
	}

	started := j.now().UTC()
	records, err := j.fetcher.FetchSince(ctx, models.DataType(kind), since)
	if err != nil {
		log.Warn().Err(err).Msg("REST fetch failed")
		return kind
	}
	merged, err := j.syncer.ApplyFetched(kind, records, started)
	if err != nil {
		log.Err(err).Msg("error applying fetched records")
		return kind
	}
	log.Info().Int("merged", merged).Msg("cache refreshed over REST")
	return kind
}
