package types

import (
	"time"
)

// TrailerAnalysis holds the latest per-trailer analysis for a film. Unlike
// the time-series collections, each write replaces the previous record
// entirely; only the most recent analysis is retrievable.
type TrailerAnalysis struct {
	FilmID          string    `bson:"film_id" json:"film_id"`
	Filename        string    `bson:"filename" json:"filename"`
	ViralPotential  int       `bson:"viral_potential" json:"viral_potential"`
	EngagementScore int       `bson:"engagement_score" json:"engagement_score"`
	EmotionalPeak   int       `bson:"emotional_peak" json:"emotional_peak"`
	TensionIndex    int       `bson:"tension_index" json:"tension_index"`
	EmotionCurve    []int     `bson:"emotion_curve" json:"emotion_curve"`
	SceneIntensity  []int     `bson:"scene_intensity" json:"scene_intensity"`
	PacingScore     float64   `bson:"pacing_score" json:"pacing_score"`
	AudioSyncScore  int       `bson:"audio_sync_score" json:"audio_sync_score"`
	MemePotential   int       `bson:"meme_potential" json:"meme_potential"`
	Insights        []string  `bson:"insights" json:"insights"`
	ModelVersion    string    `bson:"model_version" json:"model_version"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
}
