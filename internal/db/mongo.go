package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/filmpulse/filmpulse-backend/internal/logger"
	"github.com/filmpulse/filmpulse-backend/internal/utils"
)

const (
	CollectionTrailerAnalysis    = "trailer_analysis"
	CollectionSocialComments     = "social_comments"
	CollectionSentimentSnapshots = "sentiment_snapshots"
	CollectionTrendHistory       = "trend_history"

	// rawSignalTTL expires raw social comments 90 days after they were
	// observed. Snapshots and trend days are never expired.
	rawSignalTTL = 90 * 24 * time.Hour
)

type MongoService struct {
	client *mongo.Client
	db     *mongo.Database
	log    *logger.Logger
}

func NewMongoService(log *logger.Logger) (*MongoService, error) {
	serviceLog := log.With("service", "MongoService")

	mongoURL := utils.GetEnv("MONGO_URL", "mongodb://localhost:27017", log)
	mongoDB := utils.GetEnv("MONGO_DB", "filmpulse", log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(mongoURL).
		SetServerSelectionTimeout(3*time.Second))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	serviceLog.Info("Connected to MongoDB", "database", mongoDB)
	return &MongoService{
		client: client,
		db:     client.Database(mongoDB),
		log:    serviceLog,
	}, nil
}

// EnsureIndexes creates the index layout for all four collections. Called
// once at startup, after a successful connect.
func (s *MongoService) EnsureIndexes(ctx context.Context) error {
	ta := s.db.Collection(CollectionTrailerAnalysis)
	if _, err := ta.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "film_id", Value: 1}}},
		{Keys: bson.D{{Key: "film_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}); err != nil {
		return fmt.Errorf("trailer_analysis indexes: %w", err)
	}

	sc := s.db.Collection(CollectionSocialComments)
	ttlSeconds := int32(rawSignalTTL / time.Second)
	if _, err := sc.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "film_id", Value: 1}}},
		{Keys: bson.D{{Key: "platform", Value: 1}}},
		{Keys: bson.D{{Key: "sentiment_label", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{
			Keys: bson.D{{Key: "created_at", Value: 1}},
			Options: options.Index().
				SetName("ttl_comments_90d").
				SetExpireAfterSeconds(ttlSeconds),
		},
	}); err != nil {
		return fmt.Errorf("social_comments indexes: %w", err)
	}

	ss := s.db.Collection(CollectionSentimentSnapshots)
	if _, err := ss.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "film_id", Value: 1}, {Key: "timestamp", Value: -1}}},
	}); err != nil {
		return fmt.Errorf("sentiment_snapshots indexes: %w", err)
	}

	th := s.db.Collection(CollectionTrendHistory)
	if _, err := th.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "film_id", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index().
				SetName("idx_film_trend_date").
				SetUnique(true),
		},
	}); err != nil {
		return fmt.Errorf("trend_history indexes: %w", err)
	}

	s.log.Info("MongoDB collections and indexes ensured")
	return nil
}

// Database returns the handle repos read and write through. A nil
// *MongoService yields a nil handle, which every repo treats as
// "persistence disabled": reads come back empty, writes are no-ops.
func (s *MongoService) Database() *mongo.Database {
	if s == nil {
		return nil
	}
	return s.db
}

func (s *MongoService) Close(ctx context.Context) {
	if s == nil {
		return
	}
	if err := s.client.Disconnect(ctx); err != nil {
		s.log.Warn("Mongo disconnect failed", "error", err)
	}
}
