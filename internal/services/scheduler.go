package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/filmpulse/filmpulse-backend/internal/logger"
	"github.com/filmpulse/filmpulse-backend/internal/types"
)

const perFilmTimeout = 2 * time.Minute

// Scheduler drives the periodic collection job: every interval it walks the
// registry and runs the pipeline per film. Per-film failures are logged and
// isolated; they never abort the remaining films or future ticks.
type Scheduler struct {
	registry   *Registry
	collection CollectionService
	interval   time.Duration
	log        *logger.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool
}

func NewScheduler(registry *Registry, collection CollectionService, interval time.Duration, baseLog *logger.Logger) *Scheduler {
	if interval <= 0 {
		interval = 60 * time.Minute
	}
	return &Scheduler{
		registry:   registry,
		collection: collection,
		interval:   interval,
		log:        baseLog.With("service", "Scheduler"),
	}
}

// Start launches the background loop. Starting an already-running scheduler
// is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		s.log.Debug("Scheduler already running, ignoring start")
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.running = true

	go s.run(ctx)
	s.log.Info("Scheduler started", "interval", s.interval)
}

// Stop requests cessation of future ticks. It does not wait for an in-flight
// tick: each trend-day write is atomic, so a tick interrupted mid-way simply
// leaves the already-written rows valid. Safe to call repeatedly and during
// shutdown.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.cancel()
	s.running = false
	s.log.Info("Scheduler stopped")
}

// Running reports whether the loop is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	films := s.registry.List()
	if len(films) == 0 {
		s.log.Debug("No films registered, skipping tick")
		return
	}
	s.log.Info("Scheduled collection tick", "films", len(films))
	for _, film := range films {
		if ctx.Err() != nil {
			return
		}
		s.collectOne(ctx, film)
	}
}

// collectOne isolates one film's run: a timeout, an error or a panic in the
// pipeline must not take down the rest of the tick.
func (s *Scheduler) collectOne(ctx context.Context, film *types.TrackedFilm) {
	filmCtx, cancel := context.WithTimeout(ctx, perFilmTimeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Collection panicked", "film_id", film.FilmID, "panic", fmt.Sprint(r))
		}
	}()
	if _, err := s.collection.RunCollection(filmCtx, film, "hourly cron"); err != nil {
		s.log.Warn("Collection failed for film", "film_id", film.FilmID, "error", err)
	}
}
