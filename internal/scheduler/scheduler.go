package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"content_ingest/internal/config"
	"content_ingest/internal/domain"
	"content_ingest/internal/metrics"
)

// Scheduler drives probes and fetches for all tracked sources. Each tick
// selects due sources and hands them to a bounded worker pool; a
// per-source token guarantees at most one in-flight operation per source,
// which is what keeps cursors monotonic and health transitions ordered.
type Scheduler struct {
	catalog  SourceCatalog
	prober   Prober
	fetcher  Fetcher
	content  ContentStore
	pipeline Pipeline
	tx       TransactionManager
	logger   *slog.Logger
	cfg      config.SchedulerConfig

	slots chan struct{}

	mu       sync.Mutex
	inflight map[string]struct{}
	wg       sync.WaitGroup
}

func New(
	catalog SourceCatalog,
	prober Prober,
	fetcher Fetcher,
	content ContentStore,
	pipeline Pipeline,
	tx TransactionManager,
	logger *slog.Logger,
	cfg config.SchedulerConfig,
) *Scheduler {
	return &Scheduler{
		catalog:  catalog,
		prober:   prober,
		fetcher:  fetcher,
		content:  content,
		pipeline: pipeline,
		tx:       tx,
		logger:   logger,
		cfg:      cfg,
		slots:    make(chan struct{}, cfg.Workers),
		inflight: make(map[string]struct{}),
	}
}

// Start runs the tick loop until the context is cancelled, then waits for
// in-flight operations to drain.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started",
		"tick_interval", s.cfg.TickInterval,
		"workers", s.cfg.Workers,
	)

	s.tick(ctx)

	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick selects due sources and dispatches them. It never waits for an
// operation to finish; when the pool is full the remainder stays due and
// is picked up on a later tick.
func (s *Scheduler) tick(ctx context.Context) {
	start := time.Now()

	due, err := s.catalog.SelectDue(ctx, start, s.cfg.BatchLimit)
	if err != nil {
		s.logger.Error("select due sources", "error", err)
		return
	}

	dispatched := 0
	for i := range due {
		src := due[i]
		if !src.Active {
			continue
		}
		if !s.tryAcquire(src.ID) {
			continue
		}

		select {
		case s.slots <- struct{}{}:
		default:
			s.release(src.ID)
			s.logger.Debug("worker pool full, deferring remaining sources",
				"deferred", len(due)-i,
			)
			return
		}

		dispatched++
		s.wg.Add(1)
		go func(src domain.Source) {
			defer s.wg.Done()
			defer func() { <-s.slots }()
			defer s.release(src.ID)
			s.runOperation(ctx, &src)
		}(src)
	}

	s.logger.Debug("tick dispatched",
		"due", len(due),
		"dispatched", dispatched,
		"duration", time.Since(start),
	)
}

// CheckNow runs a probe for a single source on the owner's request and
// persists the outcome exactly as a scheduled probe would. It is
// serialized against scheduled work: when the source already has an
// operation in flight, the check is rejected with ErrCheckInProgress.
func (s *Scheduler) CheckNow(ctx context.Context, sourceID, ownerID string) (domain.HealthResult, error) {
	src, err := s.catalog.Get(ctx, sourceID, ownerID)
	if err != nil {
		return domain.HealthResult{}, err
	}

	if !s.tryAcquire(src.ID) {
		return domain.HealthResult{}, domain.ErrCheckInProgress
	}
	defer s.release(src.ID)

	opCtx, cancel := context.WithTimeout(ctx, s.cfg.OperationTimeout)
	defer cancel()

	res := s.prober.Probe(opCtx, src)
	metrics.ProbesTotal.WithLabelValues(outcomeLabel(res.Reachable)).Inc()

	if err := s.applyOutcome(ctx, src, res.Reachable, false, errString(res.Err), nil); err != nil {
		return res, err
	}
	return res, nil
}

func (s *Scheduler) runOperation(ctx context.Context, src *domain.Source) {
	opCtx, cancel := context.WithTimeout(ctx, s.cfg.OperationTimeout)
	defer cancel()

	metrics.InflightOperations.Inc()
	defer metrics.InflightOperations.Dec()

	if src.Status == domain.StatusHealthy || src.Status == domain.StatusDegraded {
		s.runFetch(opCtx, src)
	} else {
		s.runProbe(opCtx, src)
	}
}

func (s *Scheduler) runProbe(ctx context.Context, src *domain.Source) {
	res := s.prober.Probe(ctx, src)
	metrics.ProbesTotal.WithLabelValues(outcomeLabel(res.Reachable)).Inc()

	err := s.applyOutcome(ctx, src, res.Reachable, false, errString(res.Err), nil)
	if errors.Is(err, domain.ErrNotFound) {
		s.logger.Info("source deleted during probe, result discarded", "source_id", src.ID)
		return
	}
	if err != nil {
		s.logger.Error("apply probe outcome", "source_id", src.ID, "error", err)
	}
}

func (s *Scheduler) runFetch(ctx context.Context, src *domain.Source) {
	res := s.fetcher.Fetch(ctx, src)
	metrics.FetchesTotal.WithLabelValues(string(res.Outcome)).Inc()

	switch res.Outcome {
	case domain.OutcomeFailure:
		err := s.applyOutcome(ctx, src, false, true, errString(res.Err), nil)
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Info("source deleted during fetch, result discarded", "source_id", src.ID)
			return
		}
		if err != nil {
			s.logger.Error("apply fetch outcome", "source_id", src.ID, "error", err)
		}
		s.logger.Warn("fetch failed",
			"source_id", src.ID,
			"error", res.Err,
		)

	case domain.OutcomeNoNewContent:
		err := s.applyOutcome(ctx, src, true, true, nil, nil)
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Info("source deleted during fetch, result discarded", "source_id", src.ID)
			return
		}
		if err != nil {
			s.logger.Error("apply fetch outcome", "source_id", src.ID, "error", err)
		}

	case domain.OutcomeSuccess:
		// Health writeback goes first inside the transaction: it is
		// where a concurrent delete is detected, before any content rows
		// reference the source. The enqueue happens before commit so a
		// failed publish rolls back the cursor advance and the next
		// fetch redelivers; the consumer dedupes by
		// (source_id, external_id), so a crash after publish but before
		// commit only produces duplicates, never a lost batch.
		err := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
			if err := s.applyOutcome(txCtx, src, true, true, nil, &res.Cursor); err != nil {
				return err
			}
			if _, err := s.content.SaveBatch(txCtx, res.Items); err != nil {
				return err
			}
			return s.pipeline.Ingest(txCtx, src.ID, src.OwnerID, res.Items)
		})
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Info("source deleted during fetch, result discarded", "source_id", src.ID)
			return
		}
		if err != nil {
			s.logger.Error("persist fetch result", "source_id", src.ID, "error", err)
			return
		}
		metrics.ItemsIngested.Add(float64(len(res.Items)))

		s.logger.Info("fetch completed",
			"source_id", src.ID,
			"items", len(res.Items),
		)
	}
}

// applyOutcome turns one probe/fetch result into a health transition,
// failure counter, backoff and next-due time, then writes it back.
func (s *Scheduler) applyOutcome(ctx context.Context, src *domain.Source, success, isFetch bool, errMsg, cursor *string) error {
	now := time.Now().UTC()

	failures := src.ConsecutiveFailures + 1
	if success {
		failures = 0
	}

	status := nextStatus(src.Status, success, failures, s.cfg.FailureThreshold)

	upd := domain.HealthUpdate{
		Status:              status,
		CheckedAt:           now,
		ConsecutiveFailures: failures,
		Error:               errMsg,
		NextDueAt:           now.Add(s.nextInterval(status, failures)),
	}
	if success {
		upd.SuccessAt = &now
	}
	if isFetch {
		upd.FetchedAt = &now
		upd.Cursor = cursor
	}

	return s.catalog.SetHealth(ctx, src.ID, upd)
}

// nextInterval picks the cadence of the source's next operation: the
// probe interval while the source is unknown or unreachable, the fetch
// interval otherwise, doubled per consecutive failure up to the cap.
func (s *Scheduler) nextInterval(status domain.HealthStatus, failures int) time.Duration {
	base := s.cfg.FetchInterval
	if status == domain.StatusUnknown || status == domain.StatusUnreachable {
		base = s.cfg.ProbeInterval
	}

	interval := base
	for i := 0; i < failures; i++ {
		interval *= 2
		if interval >= s.cfg.MaxBackoff {
			return s.cfg.MaxBackoff
		}
	}
	return interval
}

func (s *Scheduler) tryAcquire(sourceID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[sourceID]; busy {
		return false
	}
	s.inflight[sourceID] = struct{}{}
	return true
}

func (s *Scheduler) release(sourceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, sourceID)
}

func outcomeLabel(reachable bool) string {
	if reachable {
		return "success"
	}
	return "failure"
}

func errString(err error) *string {
	if err == nil {
		return nil
	}
	msg := err.Error()
	return &msg
}
