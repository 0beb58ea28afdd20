package repos

import (
	"context"
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

// Every repo must keep the API serving when its backing store never came up:
// reads come back empty, writes are silently dropped, nothing errors.

func TestRawSignalRepoWithoutDatabase(t *testing.T) {
	repo := NewRawSignalRepo(nil, testLogger(t))
	ctx := context.Background()

	n, err := repo.InsertBatch(ctx, []*types.RawSignal{{FilmID: "f"}})
	if err != nil || n != 0 {
		t.Fatalf("InsertBatch=(%d,%v), want (0,nil)", n, err)
	}
	signals, err := repo.GetByFilm(ctx, "f", "", "", 10)
	if err != nil || len(signals) != 0 {
		t.Fatalf("GetByFilm=(%d,%v), want empty", len(signals), err)
	}
	counts, err := repo.CountsByLabel(ctx, "f")
	if err != nil || len(counts) != 0 {
		t.Fatalf("CountsByLabel=(%v,%v), want empty", counts, err)
	}
	platforms, err := repo.CountsByPlatform(ctx, "f")
	if err != nil || len(platforms) != 0 {
		t.Fatalf("CountsByPlatform=(%v,%v), want empty", platforms, err)
	}
	texts, err := repo.TextsByLabel(ctx, "f", types.LabelPositive, 10)
	if err != nil || len(texts) != 0 {
		t.Fatalf("TextsByLabel=(%d,%v), want empty", len(texts), err)
	}
}

func TestSnapshotRepoWithoutDatabase(t *testing.T) {
	repo := NewSnapshotRepo(nil, testLogger(t))
	ctx := context.Background()

	if err := repo.Insert(ctx, &types.SentimentSnapshot{FilmID: "f"}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	history, err := repo.History(ctx, "f", types.PeriodHourly, 10)
	if err != nil || len(history) != 0 {
		t.Fatalf("History=(%d,%v), want empty", len(history), err)
	}
	latest, err := repo.Latest(ctx, "f")
	if err != nil || latest != nil {
		t.Fatalf("Latest=(%v,%v), want (nil,nil)", latest, err)
	}
}

func TestTrendDayRepoWithoutDatabase(t *testing.T) {
	repo := NewTrendDayRepo(nil, testLogger(t))
	ctx := context.Background()

	if err := repo.Upsert(ctx, &types.TrendDay{FilmID: "f", Date: "2026-08-31"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	day, err := repo.GetByDate(ctx, "f", "2026-08-31")
	if err != nil || day != nil {
		t.Fatalf("GetByDate=(%v,%v), want (nil,nil)", day, err)
	}
	history, err := repo.History(ctx, "f", 30)
	if err != nil || len(history) != 0 {
		t.Fatalf("History=(%d,%v), want empty", len(history), err)
	}
	summary, err := repo.Summary(ctx, "f")
	if err != nil || summary != nil {
		t.Fatalf("Summary=(%v,%v), want (nil,nil)", summary, err)
	}
}

func TestTrailerAnalysisRepoWithoutDatabase(t *testing.T) {
	repo := NewTrailerAnalysisRepo(nil, testLogger(t))
	ctx := context.Background()

	if err := repo.Replace(ctx, &types.TrailerAnalysis{FilmID: "f"}); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	analysis, err := repo.GetLatest(ctx, "f")
	if err != nil || analysis != nil {
		t.Fatalf("GetLatest=(%v,%v), want (nil,nil)", analysis, err)
	}
}

func TestTrackedFilmRepoWithoutDatabase(t *testing.T) {
	repo := NewTrackedFilmRepo(nil, testLogger(t))
	ctx := context.Background()

	created, err := repo.Insert(ctx, &types.TrackedFilm{FilmID: "f", Title: "F"})
	if err != nil || created {
		t.Fatalf("Insert=(%v,%v), want (false,nil)", created, err)
	}
	films, err := repo.ListAll(ctx)
	if err != nil || len(films) != 0 {
		t.Fatalf("ListAll=(%d,%v), want empty", len(films), err)
	}
}
