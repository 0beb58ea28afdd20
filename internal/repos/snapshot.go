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

// SnapshotRepo is the append-only sentiment time series. Entries are never
// mutated after insert; history reads newest-first and is returned
// chronologically.
type SnapshotRepo interface {
	Insert(ctx context.Context, snapshot *types.SentimentSnapshot) error
	History(ctx context.Context, filmID, period string, limit int64) ([]*types.SentimentSnapshot, error)
	Latest(ctx context.Context, filmID string) (*types.SentimentSnapshot, error)
}

type snapshotRepo struct {
	db  *mongo.Database
	log *logger.Logger
}

func NewSnapshotRepo(database *mongo.Database, baseLog *logger.Logger) SnapshotRepo {
	return &snapshotRepo{db: database, log: baseLog.With("repo", "SnapshotRepo")}
}

func (r *snapshotRepo) Insert(ctx context.Context, snapshot *types.SentimentSnapshot) error {
	if r.db == nil {
		return nil
	}
	if snapshot.Timestamp.IsZero() {
		snapshot.Timestamp = time.Now().UTC()
	}
	_, err := r.db.Collection(db.CollectionSentimentSnapshots).InsertOne(ctx, snapshot)
	return err
}

func (r *snapshotRepo) History(ctx context.Context, filmID, period string, limit int64) ([]*types.SentimentSnapshot, error) {
	results := []*types.SentimentSnapshot{}
	if r.db == nil {
		return results, nil
	}
	if limit <= 0 {
		limit = 30
	}
	filter := bson.M{"film_id": filmID}
	if period != "" {
		filter["period"] = period
	}
	cursor, err := r.db.Collection(db.CollectionSentimentSnapshots).Find(ctx, filter,
		options.Find().
			SetSort(bson.D{{Key: "timestamp", Value: -1}}).
			SetLimit(limit))
	if err != nil {
		return nil, err
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	// Chronological order for charting.
	for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
		results[i], results[j] = results[j], results[i]
	}
	return results, nil
}

func (r *snapshotRepo) Latest(ctx context.Context, filmID string) (*types.SentimentSnapshot, error) {
	if r.db == nil {
		return nil, nil
	}
	var snapshot types.SentimentSnapshot
	err := r.db.Collection(db.CollectionSentimentSnapshots).FindOne(ctx,
		bson.M{"film_id": filmID},
		options.FindOne().SetSort(bson.D{{Key: "timestamp", Value: -1}})).
		Decode(&snapshot)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}
