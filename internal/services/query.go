package services

import (
	"context"
	"fmt"

	"github.com/filmpulse/filmpulse-backend/internal/logger"
	"github.com/filmpulse/filmpulse-backend/internal/repos"
	"github.com/filmpulse/filmpulse-backend/internal/types"
)

// TrendHistoryResult bundles the chronological day rows with their rollup.
type TrendHistoryResult struct {
	FilmID  string              `json:"film_id"`
	Days    []*types.TrendDay   `json:"days"`
	Summary *types.TrendSummary `json:"summary"`
}

// RawSignalsResult bundles filtered signals with a label-count rollup.
type RawSignalsResult struct {
	FilmID      string             `json:"film_id"`
	Signals     []*types.RawSignal `json:"signals"`
	LabelCounts map[string]int     `json:"label_counts"`
}

// TrendQueryService is the read side the API layer consumes. Every method
// distinguishes "never collected" (nil / empty result, no error) from a
// store failure.
type TrendQueryService interface {
	TrendHistory(ctx context.Context, filmID string, days int64) (*TrendHistoryResult, error)
	SentimentHistory(ctx context.Context, filmID, period string, limit int64) ([]*types.SentimentSnapshot, error)
	LatestSentiment(ctx context.Context, filmID string) (*types.SentimentSnapshot, error)
	RawSignals(ctx context.Context, filmID, platform, sentiment string, limit int64) (*RawSignalsResult, error)
	LatestAnalysis(ctx context.Context, filmID string) (*types.TrailerAnalysis, error)
	SaveAnalysis(ctx context.Context, analysis *types.TrailerAnalysis) error
}

type trendQueryService struct {
	log       *logger.Logger
	signals   repos.RawSignalRepo
	snapshots repos.SnapshotRepo
	trendDays repos.TrendDayRepo
	analyses  repos.TrailerAnalysisRepo
}

func NewTrendQueryService(
	baseLog *logger.Logger,
	signals repos.RawSignalRepo,
	snapshots repos.SnapshotRepo,
	trendDays repos.TrendDayRepo,
	analyses repos.TrailerAnalysisRepo,
) TrendQueryService {
	return &trendQueryService{
		log:       baseLog.With("service", "TrendQueryService"),
		signals:   signals,
		snapshots: snapshots,
		trendDays: trendDays,
		analyses:  analyses,
	}
}

func (s *trendQueryService) TrendHistory(ctx context.Context, filmID string, days int64) (*TrendHistoryResult, error) {
	rows, err := s.trendDays.History(ctx, filmID, days)
	if err != nil {
		return nil, fmt.Errorf("trend history for %s: %w", filmID, err)
	}
	summary, err := s.trendDays.Summary(ctx, filmID)
	if err != nil {
		return nil, fmt.Errorf("trend summary for %s: %w", filmID, err)
	}
	return &TrendHistoryResult{FilmID: filmID, Days: rows, Summary: summary}, nil
}

func (s *trendQueryService) SentimentHistory(ctx context.Context, filmID, period string, limit int64) ([]*types.SentimentSnapshot, error) {
	return s.snapshots.History(ctx, filmID, period, limit)
}

func (s *trendQueryService) LatestSentiment(ctx context.Context, filmID string) (*types.SentimentSnapshot, error) {
	return s.snapshots.Latest(ctx, filmID)
}

func (s *trendQueryService) RawSignals(ctx context.Context, filmID, platform, sentiment string, limit int64) (*RawSignalsResult, error) {
	signals, err := s.signals.GetByFilm(ctx, filmID, platform, sentiment, limit)
	if err != nil {
		return nil, fmt.Errorf("raw signals for %s: %w", filmID, err)
	}
	counts, err := s.signals.CountsByLabel(ctx, filmID)
	if err != nil {
		return nil, fmt.Errorf("label counts for %s: %w", filmID, err)
	}
	return &RawSignalsResult{FilmID: filmID, Signals: signals, LabelCounts: counts}, nil
}

func (s *trendQueryService) LatestAnalysis(ctx context.Context, filmID string) (*types.TrailerAnalysis, error) {
	return s.analyses.GetLatest(ctx, filmID)
}

func (s *trendQueryService) SaveAnalysis(ctx context.Context, analysis *types.TrailerAnalysis) error {
	return s.analyses.Replace(ctx, analysis)
}
