package types

import (
	"time"
)

const (
	PeriodHourly = "hourly"
	PeriodDaily  = "daily"
)

// SentimentSnapshot is a point-in-time aggregate of all stored signals for a
// film. Snapshots form an append-only series ordered by Timestamp.
type SentimentSnapshot struct {
	FilmID         string         `bson:"film_id" json:"film_id"`
	Timestamp      time.Time      `bson:"timestamp" json:"timestamp"`
	Period         string         `bson:"period" json:"period"`
	HypeScore      float64        `bson:"hype_score" json:"hype_score"`
	PositivePct    float64        `bson:"positive_pct" json:"positive_pct"`
	NeutralPct     float64        `bson:"neutral_pct" json:"neutral_pct"`
	NegativePct    float64        `bson:"negative_pct" json:"negative_pct"`
	TotalAnalyzed  int            `bson:"total_analyzed" json:"total_analyzed"`
	SentimentLabel string         `bson:"sentiment_label" json:"sentiment_label"`
	TopKeywords    []string       `bson:"top_keywords" json:"top_keywords"`
	Platforms      map[string]int `bson:"platforms" json:"platforms"`
	Model          string         `bson:"model" json:"model"`
}
