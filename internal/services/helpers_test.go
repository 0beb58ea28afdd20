package services

import (
	"context"
	"sync"
	"testing"

	"github.com/filmpulse/filmpulse-backend/internal/logger"
	"github.com/filmpulse/filmpulse-backend/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

// fakeSignalRepo is an in-memory RawSignalRepo. insertErr fails only the
// writes, err fails everything.
type fakeSignalRepo struct {
	mu        sync.Mutex
	signals   []*types.RawSignal
	err       error
	insertErr error
}

func (f *fakeSignalRepo) InsertBatch(_ context.Context, signals []*types.RawSignal) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	f.signals = append(f.signals, signals...)
	return len(signals), nil
}

func (f *fakeSignalRepo) GetByFilm(_ context.Context, filmID, platform, sentiment string, limit int64) ([]*types.RawSignal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []*types.RawSignal
	for _, sig := range f.signals {
		if sig.FilmID != filmID {
			continue
		}
		if platform != "" && sig.Platform != platform {
			continue
		}
		if sentiment != "" && sig.SentimentLabel != sentiment {
			continue
		}
		out = append(out, sig)
		if limit > 0 && int64(len(out)) >= limit {
			break
		}
	}
	return out, nil
}

func (f *fakeSignalRepo) CountsByLabel(_ context.Context, filmID string) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	counts := map[string]int{}
	for _, sig := range f.signals {
		if sig.FilmID == filmID {
			counts[sig.SentimentLabel]++
		}
	}
	return counts, nil
}

func (f *fakeSignalRepo) CountsByPlatform(_ context.Context, filmID string) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	counts := map[string]int{}
	for _, sig := range f.signals {
		if sig.FilmID == filmID {
			counts[sig.Platform]++
		}
	}
	return counts, nil
}

func (f *fakeSignalRepo) TextsByLabel(_ context.Context, filmID, label string, limit int64) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var texts []string
	for _, sig := range f.signals {
		if sig.FilmID != filmID || sig.SentimentLabel != label {
			continue
		}
		texts = append(texts, sig.Text)
		if limit > 0 && int64(len(texts)) >= limit {
			break
		}
	}
	return texts, nil
}

// fakeSnapshotRepo is an in-memory SnapshotRepo.
type fakeSnapshotRepo struct {
	mu        sync.Mutex
	snapshots []*types.SentimentSnapshot
	err       error
}

func (f *fakeSnapshotRepo) Insert(_ context.Context, snapshot *types.SentimentSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.snapshots = append(f.snapshots, snapshot)
	return nil
}

func (f *fakeSnapshotRepo) History(_ context.Context, filmID, period string, limit int64) ([]*types.SentimentSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.SentimentSnapshot
	for _, snap := range f.snapshots {
		if snap.FilmID != filmID {
			continue
		}
		if period != "" && snap.Period != period {
			continue
		}
		out = append(out, snap)
		if limit > 0 && int64(len(out)) >= limit {
			break
		}
	}
	return out, nil
}

func (f *fakeSnapshotRepo) Latest(_ context.Context, filmID string) (*types.SentimentSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.snapshots) - 1; i >= 0; i-- {
		if f.snapshots[i].FilmID == filmID {
			return f.snapshots[i], nil
		}
	}
	return nil, nil
}

// fakeTrendDayRepo keys rows by (film_id, date), like the unique index does.
type fakeTrendDayRepo struct {
	mu   sync.Mutex
	rows map[string]*types.TrendDay
}

func newFakeTrendDayRepo() *fakeTrendDayRepo {
	return &fakeTrendDayRepo{rows: map[string]*types.TrendDay{}}
}

func (f *fakeTrendDayRepo) Upsert(_ context.Context, day *types.TrendDay) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[day.FilmID+"|"+day.Date] = day
	return nil
}

func (f *fakeTrendDayRepo) GetByDate(_ context.Context, filmID, date string) (*types.TrendDay, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[filmID+"|"+date], nil
}

func (f *fakeTrendDayRepo) History(_ context.Context, filmID string, days int64) ([]*types.TrendDay, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.TrendDay
	for _, row := range f.rows {
		if row.FilmID == filmID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeTrendDayRepo) Summary(_ context.Context, filmID string) (*types.TrendSummary, error) {
	return nil, nil
}

// fakeTrackedFilmRepo is an in-memory TrackedFilmRepo with error injection.
type fakeTrackedFilmRepo struct {
	mu    sync.Mutex
	films map[string]*types.TrackedFilm
	order []string
	err   error
}

func newFakeTrackedFilmRepo() *fakeTrackedFilmRepo {
	return &fakeTrackedFilmRepo{films: map[string]*types.TrackedFilm{}}
}

func (f *fakeTrackedFilmRepo) Insert(_ context.Context, film *types.TrackedFilm) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	if _, ok := f.films[film.FilmID]; ok {
		return false, nil
	}
	f.films[film.FilmID] = film
	f.order = append(f.order, film.FilmID)
	return true, nil
}

func (f *fakeTrackedFilmRepo) ListAll(_ context.Context) ([]*types.TrackedFilm, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*types.TrackedFilm, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.films[id])
	}
	return out, nil
}
