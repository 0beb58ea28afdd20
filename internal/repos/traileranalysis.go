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

// TrailerAnalysisRepo keeps exactly one analysis record per film: each write
// supersedes the previous record entirely.
type TrailerAnalysisRepo interface {
	Replace(ctx context.Context, analysis *types.TrailerAnalysis) error
	GetLatest(ctx context.Context, filmID string) (*types.TrailerAnalysis, error)
}

type trailerAnalysisRepo struct {
	db  *mongo.Database
	log *logger.Logger
}

func NewTrailerAnalysisRepo(database *mongo.Database, baseLog *logger.Logger) TrailerAnalysisRepo {
	return &trailerAnalysisRepo{db: database, log: baseLog.With("repo", "TrailerAnalysisRepo")}
}

func (r *trailerAnalysisRepo) Replace(ctx context.Context, analysis *types.TrailerAnalysis) error {
	if r.db == nil {
		return nil
	}
	analysis.CreatedAt = time.Now().UTC()
	_, err := r.db.Collection(db.CollectionTrailerAnalysis).ReplaceOne(ctx,
		bson.M{"film_id": analysis.FilmID},
		analysis,
		options.Replace().SetUpsert(true))
	return err
}

func (r *trailerAnalysisRepo) GetLatest(ctx context.Context, filmID string) (*types.TrailerAnalysis, error) {
	if r.db == nil {
		return nil, nil
	}
	var analysis types.TrailerAnalysis
	err := r.db.Collection(db.CollectionTrailerAnalysis).FindOne(ctx,
		bson.M{"film_id": filmID},
		options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})).
		Decode(&analysis)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &analysis, nil
}
