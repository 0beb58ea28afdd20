package repos

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/filmpulse/filmpulse-backend/internal/db"
	"github.com/filmpulse/filmpulse-backend/internal/logger"
	"github.com/filmpulse/filmpulse-backend/internal/types"
)

// TrendDayRepo stores one rollup row per film per calendar day, uniquely
// keyed by (film_id, date). Upsert replaces the whole row atomically, so
// concurrent writers for the same key converge on the last complete write.
type TrendDayRepo interface {
	Upsert(ctx context.Context, day *types.TrendDay) error
	GetByDate(ctx context.Context, filmID, date string) (*types.TrendDay, error)
	History(ctx context.Context, filmID string, days int64) ([]*types.TrendDay, error)
	Summary(ctx context.Context, filmID string) (*types.TrendSummary, error)
}

type trendDayRepo struct {
	db  *mongo.Database
	log *logger.Logger
}

func NewTrendDayRepo(database *mongo.Database, baseLog *logger.Logger) TrendDayRepo {
	return &trendDayRepo{db: database, log: baseLog.With("repo", "TrendDayRepo")}
}

func (r *trendDayRepo) Upsert(ctx context.Context, day *types.TrendDay) error {
	if r.db == nil {
		return nil
	}
	day.UpdatedAt = time.Now().UTC()
	_, err := r.db.Collection(db.CollectionTrendHistory).ReplaceOne(ctx,
		bson.M{"film_id": day.FilmID, "date": day.Date},
		day,
		options.Replace().SetUpsert(true))
	return err
}

func (r *trendDayRepo) GetByDate(ctx context.Context, filmID, date string) (*types.TrendDay, error) {
	if r.db == nil {
		return nil, nil
	}
	var day types.TrendDay
	err := r.db.Collection(db.CollectionTrendHistory).FindOne(ctx,
		bson.M{"film_id": filmID, "date": date}).Decode(&day)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func (r *trendDayRepo) History(ctx context.Context, filmID string, days int64) ([]*types.TrendDay, error) {
	results := []*types.TrendDay{}
	if r.db == nil {
		return results, nil
	}
	if days <= 0 {
		days = 30
	}
	cursor, err := r.db.Collection(db.CollectionTrendHistory).Find(ctx,
		bson.M{"film_id": filmID},
		options.Find().
			SetSort(bson.D{{Key: "date", Value: -1}}).
			SetLimit(days))
	if err != nil {
		return nil, err
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
		results[i], results[j] = results[j], results[i]
	}
	return results, nil
}

func (r *trendDayRepo) Summary(ctx context.Context, filmID string) (*types.TrendSummary, error) {
	if r.db == nil {
		return nil, nil
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"film_id": filmID}}},
		{{Key: "$group", Value: bson.M{
			"_id":                 "$film_id",
			"peak_hype":           bson.M{"$max": "$hype_score"},
			"avg_discoverability": bson.M{"$avg": "$discoverability"},
			"total_mentions":      bson.M{"$sum": "$social_mentions"},
			"total_youtube_views": bson.M{"$sum": "$youtube_views"},
			"data_points":         bson.M{"$sum": 1},
		}}},
	}
	cursor, err := r.db.Collection(db.CollectionTrendHistory).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var rows []*types.TrendSummary
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}
