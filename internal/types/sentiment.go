package types

// Sentiment is one classifier verdict for a piece of text.
type Sentiment struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// TrendStats is the trend-index lookup result for a film title.
type TrendStats struct {
	InterestScore  int      `json:"interest_score"`
	RelatedQueries []string `json:"related_queries"`
	Sparkline      []int    `json:"sparkline"`
	Source         string   `json:"source"`
}

// VideoStats carries the secondary statistics the video collector reports
// alongside its comment items.
type VideoStats struct {
	VideoID      string `json:"video_id"`
	ViewCount    int64  `json:"view_count"`
	LikeCount    int64  `json:"like_count"`
	CommentCount int    `json:"comment_count"`
	Source       string `json:"source"`
}
