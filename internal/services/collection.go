package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/filmpulse/filmpulse-backend/internal/logger"
	"github.com/filmpulse/filmpulse-backend/internal/repos"
	"github.com/filmpulse/filmpulse-backend/internal/types"
)

const defaultMaxResults = 50

// CollectionRunSummary is the synchronous result of one pipeline run.
type CollectionRunSummary struct {
	FilmID        string    `json:"film_id"`
	FilmTitle     string    `json:"film_title"`
	TweetsFetched int       `json:"tweets_fetched"`
	YtComments    int       `json:"yt_comments"`
	GoogleTrends  int       `json:"google_trends"`
	HypeScore     float64   `json:"hype_score"`
	Sentiment     string    `json:"sentiment"`
	DataOrigins   []string  `json:"data_origins"`
	Timestamp     time.Time `json:"timestamp"`
}

// CollectionService runs the full pipeline for one film: fan out the three
// collectors, persist their batches, aggregate a snapshot, and upsert the
// day's trend row. The scheduler and the manual trigger both go through it.
type CollectionService interface {
	RunCollection(ctx context.Context, film *types.TrackedFilm, trigger string) (*CollectionRunSummary, error)
}

type collectionService struct {
	log       *logger.Logger
	trend     SourceCollector
	twitter   SourceCollector
	video     SourceCollector
	signals   repos.RawSignalRepo
	trendDays repos.TrendDayRepo
	agg       AggregatorService
	now       func() time.Time
}

func NewCollectionService(
	baseLog *logger.Logger,
	trend SourceCollector,
	twitter SourceCollector,
	video SourceCollector,
	signals repos.RawSignalRepo,
	trendDays repos.TrendDayRepo,
	agg AggregatorService,
) CollectionService {
	return &collectionService{
		log:       baseLog.With("service", "CollectionService"),
		trend:     trend,
		twitter:   twitter,
		video:     video,
		signals:   signals,
		trendDays: trendDays,
		agg:       agg,
		now:       time.Now,
	}
}

func (s *collectionService) RunCollection(ctx context.Context, film *types.TrackedFilm, trigger string) (*CollectionRunSummary, error) {
	log := s.log.With("film_id", film.FilmID)
	log.Info("Starting collection run", "title", film.Title, "trigger", trigger)

	// Each collector owns its own batch; failures inside a collector degrade
	// to synthetic output, so an error here means the context was cancelled.
	var trendRes, twitterRes, videoRes *CollectResult
	g, groupCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		trendRes, err = s.trend.Collect(groupCtx, film, defaultMaxResults)
		return err
	})
	g.Go(func() error {
		var err error
		twitterRes, err = s.twitter.Collect(groupCtx, film, defaultMaxResults)
		return err
	})
	g.Go(func() error {
		var err error
		videoRes, err = s.video.Collect(groupCtx, film, defaultMaxResults)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("collect for %s: %w", film.FilmID, err)
	}

	// Independent per-collector writes; raw ingestion is at-least-once.
	for _, result := range []*CollectResult{twitterRes, videoRes} {
		if _, err := s.signals.InsertBatch(ctx, result.Items); err != nil {
			log.Warn("Raw signal batch insert failed", "platform", result.Platform, "error", err)
		}
	}

	snapshot, err := s.agg.BuildSnapshot(ctx, film.FilmID, types.PeriodHourly)
	if err != nil {
		return nil, fmt.Errorf("aggregate for %s: %w", film.FilmID, err)
	}

	if err := s.recordTrendDay(ctx, film, trendRes, twitterRes, videoRes, snapshot, trigger); err != nil {
		log.Warn("Trend day upsert failed", "error", err)
	}

	summary := &CollectionRunSummary{
		FilmID:        film.FilmID,
		FilmTitle:     film.Title,
		TweetsFetched: len(twitterRes.Items),
		YtComments:    len(videoRes.Items),
		GoogleTrends:  trendRes.Trend.InterestScore,
		HypeScore:     snapshot.HypeScore,
		Sentiment:     snapshot.SentimentLabel,
		DataOrigins:   []string{trendRes.Origin, twitterRes.Origin, videoRes.Origin},
		Timestamp:     s.now().UTC(),
	}
	log.Info("Collection run done",
		"hype", snapshot.HypeScore,
		"tweets", summary.TweetsFetched,
		"yt_comments", summary.YtComments,
		"trends", summary.GoogleTrends)
	return summary, nil
}

func (s *collectionService) recordTrendDay(
	ctx context.Context,
	film *types.TrackedFilm,
	trendRes, twitterRes, videoRes *CollectResult,
	snapshot *types.SentimentSnapshot,
	trigger string,
) error {
	today := s.now().UTC().Format("2006-01-02")

	counts, err := s.signals.CountsByLabel(ctx, film.FilmID)
	if err != nil {
		s.log.Warn("Label counts for trend day failed", "film_id", film.FilmID, "error", err)
		counts = map[string]int{}
	}

	var delta float64
	yesterday := s.now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	if prior, err := s.trendDays.GetByDate(ctx, film.FilmID, yesterday); err == nil && prior != nil {
		delta = roundTo(snapshot.HypeScore-prior.HypeScore, 2)
	}

	day := &types.TrendDay{
		FilmID:             film.FilmID,
		Date:               today,
		HypeScore:          snapshot.HypeScore,
		SocialMentions:     len(twitterRes.Items) + len(videoRes.Items),
		PositiveMentions:   counts[types.LabelPositive],
		NegativeMentions:   counts[types.LabelNegative],
		Discoverability:    float64(trendRes.Trend.InterestScore),
		GoogleTrendsIdx:    float64(trendRes.Trend.InterestScore),
		TwitterImpressions: int64(len(twitterRes.Items)) * 150,
		DailyDeltaHype:     delta,
		Notes:              trigger,
	}
	if videoRes.Video != nil {
		day.YoutubeViews = videoRes.Video.ViewCount
	}
	return s.trendDays.Upsert(ctx, day)
}
