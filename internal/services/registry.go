package services

import (
	"context"
	"sync"
	"time"

	"github.com/filmpulse/filmpulse-backend/internal/logger"
	"github.com/filmpulse/filmpulse-backend/internal/repos"
	"github.com/filmpulse/filmpulse-backend/internal/types"
)

// Registry is the mutable set of films under active tracking. Registration
// is idempotent by film id; entries are never removed and keep registration
// order. The in-memory set is authoritative for the scheduler loop and is
// written through to the relational store when one is available.
type Registry struct {
	mu    sync.Mutex
	films []*types.TrackedFilm
	index map[string]struct{}
	repo  repos.TrackedFilmRepo
	log   *logger.Logger
}

func NewRegistry(repo repos.TrackedFilmRepo, baseLog *logger.Logger) *Registry {
	return &Registry{
		index: map[string]struct{}{},
		repo:  repo,
		log:   baseLog.With("service", "Registry"),
	}
}

// Load warms the registry from the relational store at startup. A store
// failure leaves the registry memory-only.
func (r *Registry) Load(ctx context.Context) error {
	films, err := r.repo.ListAll(ctx)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, film := range films {
		if _, ok := r.index[film.FilmID]; ok {
			continue
		}
		r.films = append(r.films, film)
		r.index[film.FilmID] = struct{}{}
	}
	r.log.Info("Registry loaded", "films", len(r.films))
	return nil
}

// Register inserts a film if absent and reports whether it was added. A
// re-registration with a different title or trailer URL is a no-op: the
// first registration wins.
func (r *Registry) Register(ctx context.Context, filmID, title, trailerURL string) (*types.TrackedFilm, bool) {
	r.mu.Lock()
	if _, ok := r.index[filmID]; ok {
		for _, film := range r.films {
			if film.FilmID == filmID {
				r.mu.Unlock()
				return film, false
			}
		}
	}

	film := &types.TrackedFilm{
		FilmID:     filmID,
		Title:      title,
		TrailerURL: trailerURL,
		CreatedAt:  time.Now().UTC(),
	}
	r.films = append(r.films, film)
	r.index[filmID] = struct{}{}
	r.mu.Unlock()

	// Write-through happens outside the critical section: a slow relational
	// store must not stall List, the scheduler tick, or other registrations.
	// Only the first registration reaches this point, and the insert gets a
	// copy so the row the readers share stays untouched.
	row := *film
	if _, err := r.repo.Insert(ctx, &row); err != nil {
		r.log.Warn("Registry write-through failed, keeping entry in memory", "film_id", filmID, "error", err)
	}
	r.log.Info("Registered film for tracking", "film_id", filmID, "title", film.Title)
	return film, true
}

// Get returns the registered film, or nil.
func (r *Registry) Get(filmID string) *types.TrackedFilm {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, film := range r.films {
		if film.FilmID == filmID {
			return film
		}
	}
	return nil
}

// List returns a copy of the tracked set in registration order, safe to
// iterate while registrations continue.
func (r *Registry) List() []*types.TrackedFilm {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*types.TrackedFilm, len(r.films))
	copy(out, r.films)
	return out
}
