package types

import (
	"time"
)

const (
	PlatformTrend   = "trend"
	PlatformTwitter = "twitter"
	PlatformYouTube = "youtube"
)

const (
	OriginLive      = "live"
	OriginSynthetic = "synthetic"
)

const (
	LabelPositive = "positive"
	LabelNeutral  = "neutral"
	LabelNegative = "negative"
)

// RawSignal is one collected social item attributed to a film. Signals are
// append-only: the store never updates or deduplicates them, and a TTL index
// expires them 90 days after CreatedAt.
type RawSignal struct {
	SignalID       string    `bson:"signal_id" json:"signal_id"`
	FilmID         string    `bson:"film_id" json:"film_id"`
	Platform       string    `bson:"platform" json:"platform"`
	Username       string    `bson:"username" json:"username"`
	Text           string    `bson:"text" json:"text"`
	Lang           string    `bson:"lang" json:"lang"`
	SentimentLabel string    `bson:"sentiment_label" json:"sentiment_label"`
	SentimentScore float64   `bson:"sentiment_score" json:"sentiment_score"`
	Likes          int       `bson:"likes" json:"likes"`
	Shares         int       `bson:"shares" json:"shares"`
	SourceURL      string    `bson:"source_url" json:"source_url"`
	Origin         string    `bson:"origin" json:"origin"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	IngestedAt     time.Time `bson:"ingested_at" json:"ingested_at"`
}
