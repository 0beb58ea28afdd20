package repos

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/filmpulse/filmpulse-backend/internal/db"
	"github.com/filmpulse/filmpulse-backend/internal/logger"
	"github.com/filmpulse/filmpulse-backend/internal/types"
)

// RawSignalRepo is the append-only store for collected social items. There is
// deliberately no dedup key: concurrent manual and scheduled runs for the
// same film can double-insert overlapping items, so downstream aggregates are
// at-least-once approximations.
type RawSignalRepo interface {
	InsertBatch(ctx context.Context, signals []*types.RawSignal) (int, error)
	GetByFilm(ctx context.Context, filmID, platform, sentiment string, limit int64) ([]*types.RawSignal, error)
	CountsByLabel(ctx context.Context, filmID string) (map[string]int, error)
	CountsByPlatform(ctx context.Context, filmID string) (map[string]int, error)
	TextsByLabel(ctx context.Context, filmID, label string, limit int64) ([]string, error)
}

type rawSignalRepo struct {
	db  *mongo.Database
	log *logger.Logger
}

func NewRawSignalRepo(database *mongo.Database, baseLog *logger.Logger) RawSignalRepo {
	return &rawSignalRepo{db: database, log: baseLog.With("repo", "RawSignalRepo")}
}

func (r *rawSignalRepo) InsertBatch(ctx context.Context, signals []*types.RawSignal) (int, error) {
	if r.db == nil || len(signals) == 0 {
		return 0, nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(signals))
	for _, s := range signals {
		s.IngestedAt = now
		if s.CreatedAt.IsZero() {
			s.CreatedAt = now
		}
		docs = append(docs, s)
	}
	res, err := r.db.Collection(db.CollectionSocialComments).InsertMany(ctx, docs)
	if err != nil {
		return 0, err
	}
	return len(res.InsertedIDs), nil
}

func (r *rawSignalRepo) GetByFilm(ctx context.Context, filmID, platform, sentiment string, limit int64) ([]*types.RawSignal, error) {
	results := []*types.RawSignal{}
	if r.db == nil {
		return results, nil
	}
	filter := bson.M{"film_id": filmID}
	if platform != "" {
		filter["platform"] = platform
	}
	if sentiment != "" {
		filter["sentiment_label"] = sentiment
	}
	if limit <= 0 {
		limit = 50
	}
	cursor, err := r.db.Collection(db.CollectionSocialComments).Find(ctx, filter,
		options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}}).
			SetLimit(limit))
	if err != nil {
		return nil, err
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *rawSignalRepo) CountsByLabel(ctx context.Context, filmID string) (map[string]int, error) {
	return r.groupCounts(ctx, filmID, "$sentiment_label")
}

func (r *rawSignalRepo) CountsByPlatform(ctx context.Context, filmID string) (map[string]int, error) {
	return r.groupCounts(ctx, filmID, "$platform")
}

func (r *rawSignalRepo) groupCounts(ctx context.Context, filmID, field string) (map[string]int, error) {
	counts := map[string]int{}
	if r.db == nil {
		return counts, nil
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"film_id": filmID}}},
		{{Key: "$group", Value: bson.M{"_id": field, "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := r.db.Collection(db.CollectionSocialComments).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		ID    string `bson:"_id"`
		Count int    `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.ID] = row.Count
	}
	return counts, nil
}

func (r *rawSignalRepo) TextsByLabel(ctx context.Context, filmID, label string, limit int64) ([]string, error) {
	texts := []string{}
	if r.db == nil {
		return texts, nil
	}
	if limit <= 0 {
		limit = 200
	}
	cursor, err := r.db.Collection(db.CollectionSocialComments).Find(ctx,
		bson.M{"film_id": filmID, "sentiment_label": label},
		options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}}).
			SetLimit(limit).
			SetProjection(bson.M{"text": 1}))
	if err != nil {
		return nil, err
	}
	var rows []struct {
		Text string `bson:"text"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	for _, row := range rows {
		texts = append(texts, row.Text)
	}
	return texts, nil
}
