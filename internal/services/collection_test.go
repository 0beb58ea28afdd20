package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/filmpulse/filmpulse-backend/internal/types"
)

// stubCollector returns a fixed result for any film.
type stubCollector struct {
	platform string
	result   *CollectResult
}

func (s *stubCollector) Platform() string { return s.platform }

func (s *stubCollector) Collect(_ context.Context, _ *types.TrackedFilm, _ int) (*CollectResult, error) {
	return s.result, nil
}

func signalOf(filmID, platform, label string) *types.RawSignal {
	return &types.RawSignal{
		FilmID:         filmID,
		Platform:       platform,
		Text:           "stub signal text",
		SentimentLabel: label,
		Origin:         types.OriginSynthetic,
	}
}

func newTestCollection(t *testing.T, signals *fakeSignalRepo, trendDays *fakeTrendDayRepo) CollectionService {
	t.Helper()
	trend := &stubCollector{
		platform: types.PlatformTrend,
		result: &CollectResult{
			Platform: types.PlatformTrend,
			Origin:   types.OriginSynthetic,
			Trend:    &types.TrendStats{InterestScore: 50},
		},
	}
	twitter := &stubCollector{
		platform: types.PlatformTwitter,
		result: &CollectResult{
			Platform: types.PlatformTwitter,
			Origin:   types.OriginLive,
			Items: []*types.RawSignal{
				signalOf("jawan", types.PlatformTwitter, types.LabelPositive),
				signalOf("jawan", types.PlatformTwitter, types.LabelPositive),
				signalOf("jawan", types.PlatformTwitter, types.LabelPositive),
				signalOf("jawan", types.PlatformTwitter, types.LabelNegative),
			},
		},
	}
	video := &stubCollector{
		platform: types.PlatformYouTube,
		result: &CollectResult{
			Platform: types.PlatformYouTube,
			Origin:   types.OriginSynthetic,
			Items: []*types.RawSignal{
				signalOf("jawan", types.PlatformYouTube, types.LabelPositive),
				signalOf("jawan", types.PlatformYouTube, types.LabelNeutral),
			},
			Video: &types.VideoStats{VideoID: "abc", ViewCount: 1_000_000, LikeCount: 50_000},
		},
	}
	snapshots := &fakeSnapshotRepo{}
	agg := NewAggregatorService(testLogger(t), signals, snapshots)
	return NewCollectionService(testLogger(t), trend, twitter, video, signals, trendDays, agg)
}

func TestRunCollection(t *testing.T) {
	signals := &fakeSignalRepo{}
	trendDays := newFakeTrendDayRepo()
	collection := newTestCollection(t, signals, trendDays)

	film := &types.TrackedFilm{FilmID: "jawan", Title: "Jawan"}
	summary, err := collection.RunCollection(context.Background(), film, "manual")
	if err != nil {
		t.Fatalf("RunCollection: %v", err)
	}

	if summary.TweetsFetched != 4 || summary.YtComments != 2 {
		t.Fatalf("tweets=%d yt=%d, want 4/2", summary.TweetsFetched, summary.YtComments)
	}
	if summary.GoogleTrends != 50 {
		t.Fatalf("trends=%d, want 50", summary.GoogleTrends)
	}
	if len(summary.DataOrigins) != 3 {
		t.Fatalf("got %d data origins, want 3", len(summary.DataOrigins))
	}
	if summary.HypeScore <= 0 {
		t.Fatalf("hype=%v, want > 0", summary.HypeScore)
	}
	if len(signals.signals) != 6 {
		t.Fatalf("stored %d signals, want 6", len(signals.signals))
	}

	today := time.Now().UTC().Format("2006-01-02")
	day, err := trendDays.GetByDate(context.Background(), "jawan", today)
	if err != nil {
		t.Fatalf("GetByDate: %v", err)
	}
	if day == nil {
		t.Fatal("no trend day recorded")
	}
	if day.SocialMentions != 6 {
		t.Fatalf("social mentions=%d, want 6", day.SocialMentions)
	}
	if day.PositiveMentions != 4 || day.NegativeMentions != 1 {
		t.Fatalf("pos=%d neg=%d, want 4/1", day.PositiveMentions, day.NegativeMentions)
	}
	if day.TwitterImpressions != 600 {
		t.Fatalf("impressions=%d, want 600", day.TwitterImpressions)
	}
	if day.YoutubeViews != 1_000_000 {
		t.Fatalf("youtube views=%d, want 1000000", day.YoutubeViews)
	}
	if day.Notes != "manual" {
		t.Fatalf("notes=%q, want manual", day.Notes)
	}
}

func TestRunCollectionUpsertsOneRowPerDay(t *testing.T) {
	signals := &fakeSignalRepo{}
	trendDays := newFakeTrendDayRepo()
	collection := newTestCollection(t, signals, trendDays)

	film := &types.TrackedFilm{FilmID: "jawan", Title: "Jawan"}
	for i := 0; i < 3; i++ {
		if _, err := collection.RunCollection(context.Background(), film, "hourly cron"); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	rows, err := trendDays.History(context.Background(), "jawan", 30)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d trend rows for one day, want 1", len(rows))
	}
	// Raw ingestion stays append-only even though the day row converges.
	if len(signals.signals) != 18 {
		t.Fatalf("stored %d signals after 3 runs, want 18", len(signals.signals))
	}
}

func TestRunCollectionSurvivesSignalStoreFailure(t *testing.T) {
	signals := &fakeSignalRepo{}
	trendDays := newFakeTrendDayRepo()
	collection := newTestCollection(t, signals, trendDays)

	// A failed batch write is logged and skipped; the run still aggregates
	// whatever the store holds and returns a summary.
	signals.insertErr = errors.New("write concern failed")
	film := &types.TrackedFilm{FilmID: "jawan", Title: "Jawan"}
	summary, err := collection.RunCollection(context.Background(), film, "manual")
	if err != nil {
		t.Fatalf("RunCollection: %v", err)
	}
	if summary.Sentiment != LabelNoData {
		t.Fatalf("sentiment=%q, want %q with an empty store", summary.Sentiment, LabelNoData)
	}
	if len(signals.signals) != 0 {
		t.Fatalf("stored %d signals despite failing writes", len(signals.signals))
	}
}
