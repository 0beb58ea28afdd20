package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/filmpulse/filmpulse-backend/internal/logger"
	"github.com/filmpulse/filmpulse-backend/internal/types"
)

const defaultTrendTimeframe = "now 7-d"

// TrendCollector looks up the search-interest index for a film title. It
// produces no per-item signals; its stats feed the daily trend rollup and
// the pass-through lookup endpoint.
type TrendCollector struct {
	log        *logger.Logger
	baseURL    string
	region     string
	httpClient *http.Client
}

func NewTrendCollector(log *logger.Logger) *TrendCollector {
	return &TrendCollector{
		log:     log.With("service", "TrendCollector"),
		baseURL: strings.TrimRight(strings.TrimSpace(os.Getenv("TRENDS_API_URL")), "/"),
		region:  strings.TrimSpace(os.Getenv("TRENDS_REGION")),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *TrendCollector) Platform() string {
	return types.PlatformTrend
}

func (c *TrendCollector) Collect(ctx context.Context, film *types.TrackedFilm, _ int) (*CollectResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stats := c.Lookup(ctx, film.Title, defaultTrendTimeframe)
	return &CollectResult{
		Platform: types.PlatformTrend,
		Origin:   stats.Source,
		Items:    []*types.RawSignal{},
		Trend:    stats,
	}, nil
}

// Lookup fetches the interest index for a title, falling back to synthetic
// stats when no endpoint is configured or the call fails. It never returns
// an empty result.
func (c *TrendCollector) Lookup(ctx context.Context, title, timeframe string) *types.TrendStats {
	if timeframe == "" {
		timeframe = defaultTrendTimeframe
	}
	if c.baseURL != "" {
		stats, err := c.lookupLive(ctx, title, timeframe)
		if err != nil {
			c.log.Warn("Trend lookup failed, using synthetic index", "title", title, "error", err)
		} else {
			return stats
		}
	}
	return c.syntheticStats(title)
}

func (c *TrendCollector) lookupLive(ctx context.Context, title, timeframe string) (*types.TrendStats, error) {
	params := url.Values{}
	params.Set("q", title)
	params.Set("timeframe", timeframe)
	if c.region != "" {
		params.Set("geo", c.region)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/interest?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("trends status %d: %s", resp.StatusCode, string(body))
	}

	var parsed struct {
		InterestScore  int      `json:"interest_score"`
		RelatedQueries []string `json:"related_queries"`
		Sparkline      []int    `json:"sparkline"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	if parsed.InterestScore == 0 && len(parsed.Sparkline) == 0 {
		return nil, fmt.Errorf("trends returned empty result for %q", title)
	}
	if len(parsed.Sparkline) > 14 {
		parsed.Sparkline = parsed.Sparkline[len(parsed.Sparkline)-14:]
	}
	if len(parsed.RelatedQueries) > 5 {
		parsed.RelatedQueries = parsed.RelatedQueries[:5]
	}
	return &types.TrendStats{
		InterestScore:  clampInt(parsed.InterestScore, 0, 100),
		RelatedQueries: parsed.RelatedQueries,
		Sparkline:      parsed.Sparkline,
		Source:         "google_trends",
	}, nil
}

func (c *TrendCollector) syntheticStats(title string) *types.TrendStats {
	rng := newSyntheticRand(title)
	score := randBetween(rng, 35, 92)
	sparkline := make([]int, 14)
	for i := range sparkline {
		sparkline[i] = clampInt(score-20+randBetween(rng, -8, 12)+i*2, 0, 100)
	}
	return &types.TrendStats{
		InterestScore: score,
		RelatedQueries: []string{
			title + " trailer",
			title + " cast",
			title + " release date",
			title + " review",
		},
		Sparkline: sparkline,
		Source:    types.OriginSynthetic,
	}
}
