package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/filmpulse/filmpulse-backend/internal/logger"
	"github.com/filmpulse/filmpulse-backend/internal/repos"
	"github.com/filmpulse/filmpulse-backend/internal/types"
)

const (
	LabelNoData = "No Data"

	snapshotModel  = "lexicon+remote"
	maxTopKeywords = 5
)

var stopWords = wordSet(
	"this", "that", "with", "have", "been", "will", "from", "your",
	"about", "just", "like", "wait", "going", "next", "month", "watch",
	"watched", "looks", "look", "film", "movie", "trailer", "teaser",
	"release", "releasing", "what", "when", "were", "they", "them",
	"their", "there", "here", "very", "much", "some", "only", "dont",
	"didn", "cant", "wont", "absolutely",
)

// AggregatorService reduces the currently stored raw signals for a film into
// one appended sentiment snapshot.
type AggregatorService interface {
	BuildSnapshot(ctx context.Context, filmID, period string) (*types.SentimentSnapshot, error)
}

type aggregatorService struct {
	log       *logger.Logger
	signals   repos.RawSignalRepo
	snapshots repos.SnapshotRepo
}

func NewAggregatorService(baseLog *logger.Logger, signals repos.RawSignalRepo, snapshots repos.SnapshotRepo) AggregatorService {
	return &aggregatorService{
		log:       baseLog.With("service", "AggregatorService"),
		signals:   signals,
		snapshots: snapshots,
	}
}

func (s *aggregatorService) BuildSnapshot(ctx context.Context, filmID, period string) (*types.SentimentSnapshot, error) {
	if period == "" {
		period = types.PeriodHourly
	}

	counts, err := s.signals.CountsByLabel(ctx, filmID)
	if err != nil {
		return nil, fmt.Errorf("label counts for %s: %w", filmID, err)
	}
	total := counts[types.LabelPositive] + counts[types.LabelNeutral] + counts[types.LabelNegative]

	snapshot := &types.SentimentSnapshot{
		FilmID:      filmID,
		Timestamp:   time.Now().UTC(),
		Period:      period,
		TopKeywords: []string{},
		Platforms:   map[string]int{},
		Model:       snapshotModel,
	}

	if total == 0 {
		snapshot.SentimentLabel = LabelNoData
	} else {
		posPct := roundTo(float64(counts[types.LabelPositive])/float64(total)*100, 1)
		neuPct := roundTo(float64(counts[types.LabelNeutral])/float64(total)*100, 1)
		negPct := roundTo(float64(counts[types.LabelNegative])/float64(total)*100, 1)

		snapshot.PositivePct = posPct
		snapshot.NeutralPct = neuPct
		snapshot.NegativePct = negPct
		snapshot.TotalAnalyzed = total
		snapshot.HypeScore = computeHype(posPct, neuPct, negPct, total)
		snapshot.SentimentLabel = hypeLabel(snapshot.HypeScore)

		texts, err := s.signals.TextsByLabel(ctx, filmID, types.LabelPositive, 200)
		if err != nil {
			s.log.Warn("Keyword source read failed", "film_id", filmID, "error", err)
		} else {
			snapshot.TopKeywords = topKeywords(texts, maxTopKeywords)
		}

		platforms, err := s.signals.CountsByPlatform(ctx, filmID)
		if err != nil {
			s.log.Warn("Platform counts read failed", "film_id", filmID, "error", err)
		} else {
			snapshot.Platforms = platforms
		}
	}

	if err := s.snapshots.Insert(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("persist snapshot for %s: %w", filmID, err)
	}
	return snapshot, nil
}

// computeHype maps the sentiment mix and volume onto a 0-100 score. The log
// term rewards volume, the conditional bonus rewards strong positive
// dominance, and negative share is penalized roughly twice as hard per point
// as positive share is rewarded relative to neutral.
func computeHype(posPct, neuPct, negPct float64, total int) float64 {
	hype := 40*posPct/100 + 15*neuPct/100 - 25*negPct/100 + 10*math.Log1p(float64(total))
	if posPct > 60 {
		hype += 5
	}
	if hype < 0 {
		hype = 0
	}
	if hype > 100 {
		hype = 100
	}
	return roundTo(hype, 2)
}

func hypeLabel(hype float64) string {
	switch {
	case hype >= 80:
		return "Very Positive"
	case hype >= 60:
		return "Positive"
	case hype >= 40:
		return "Neutral"
	case hype >= 20:
		return "Negative"
	default:
		return "Very Negative"
	}
}

// topKeywords ranks case-folded tokens longer than three characters from the
// given texts, excluding stop words, capped at limit.
func topKeywords(texts []string, limit int) []string {
	freq := map[string]int{}
	for _, text := range texts {
		for _, tok := range strings.Fields(strings.ToLower(text)) {
			tok = strings.Trim(tok, ".,!?;:\"'()[]#@")
			if len(tok) <= 3 {
				continue
			}
			if _, ok := stopWords[tok]; ok {
				continue
			}
			freq[tok]++
		}
	}
	keywords := make([]string, 0, len(freq))
	for tok := range freq {
		keywords = append(keywords, tok)
	}
	sort.Slice(keywords, func(i, j int) bool {
		if freq[keywords[i]] != freq[keywords[j]] {
			return freq[keywords[i]] > freq[keywords[j]]
		}
		return keywords[i] < keywords[j]
	})
	if len(keywords) > limit {
		keywords = keywords[:limit]
	}
	return keywords
}

func roundTo(v float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}
