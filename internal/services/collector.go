package services

import (
	"context"

	"github.com/filmpulse/filmpulse-backend/internal/types"
)

// CollectResult is one collector's output for one film: the signal batch it
// owns plus any secondary statistics, tagged with the data origin so degraded
// (synthetic) runs stay observable.
type CollectResult struct {
	Platform string
	Origin   string
	Items    []*types.RawSignal
	Trend    *types.TrendStats
	Video    *types.VideoStats
}

// SourceCollector fetches raw signals for one film from one external source.
// Implementations try the live source under a bounded timeout and fall back
// to a deterministic synthetic generator on any failure; Collect therefore
// only errors on context cancellation.
type SourceCollector interface {
	Platform() string
	Collect(ctx context.Context, film *types.TrackedFilm, maxResults int) (*CollectResult, error)
}
