package types

import (
	"time"
)

// TrendDay is one calendar day's rollup for a film, uniquely keyed by
// (FilmID, Date). Writes are whole-row upserts, so replaying a day is
// idempotent, unlike raw signal ingestion.
type TrendDay struct {
	FilmID             string    `bson:"film_id" json:"film_id"`
	Date               string    `bson:"date" json:"date"`
	HypeScore          float64   `bson:"hype_score" json:"hype_score"`
	Discoverability    float64   `bson:"discoverability" json:"discoverability"`
	SocialMentions     int       `bson:"social_mentions" json:"social_mentions"`
	PositiveMentions   int       `bson:"positive_mentions" json:"positive_mentions"`
	NegativeMentions   int       `bson:"negative_mentions" json:"negative_mentions"`
	GoogleTrendsIdx    float64   `bson:"google_trends_idx" json:"google_trends_idx"`
	YoutubeViews       int64     `bson:"youtube_views" json:"youtube_views"`
	TwitterImpressions int64     `bson:"twitter_impressions" json:"twitter_impressions"`
	InstagramReach     int64     `bson:"instagram_reach" json:"instagram_reach"`
	DailyDeltaHype     float64   `bson:"daily_delta_hype" json:"daily_delta_hype"`
	Notes              string    `bson:"notes" json:"notes"`
	UpdatedAt          time.Time `bson:"updated_at" json:"updated_at"`
}

// TrendSummary is the rollup returned alongside trend history.
type TrendSummary struct {
	PeakHype           float64 `bson:"peak_hype" json:"peak_hype"`
	AvgDiscoverability float64 `bson:"avg_discoverability" json:"avg_discoverability"`
	TotalMentions      int64   `bson:"total_mentions" json:"total_mentions"`
	TotalYoutubeViews  int64   `bson:"total_youtube_views" json:"total_youtube_views"`
	DataPoints         int64   `bson:"data_points" json:"data_points"`
}
