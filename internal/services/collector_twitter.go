package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/filmpulse/filmpulse-backend/internal/logger"
	"github.com/filmpulse/filmpulse-backend/internal/types"
)

// TwitterCollector fetches recent posts mentioning a film title via the
// v2 recent-search API. Without a bearer token, or on any upstream failure,
// it generates a deterministic synthetic batch seeded by film title and the
// current hour, so repeated fallbacks inside one hour are reproducible.
type TwitterCollector struct {
	log        *logger.Logger
	bearer     string
	classifier SentimentClassifier
	httpClient *http.Client
	now        func() time.Time
}

func NewTwitterCollector(log *logger.Logger, classifier SentimentClassifier) *TwitterCollector {
	return &TwitterCollector{
		log:        log.With("service", "TwitterCollector"),
		bearer:     strings.TrimSpace(os.Getenv("TWITTER_BEARER_TOKEN")),
		classifier: classifier,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		now: time.Now,
	}
}

func (c *TwitterCollector) Platform() string {
	return types.PlatformTwitter
}

func (c *TwitterCollector) Collect(ctx context.Context, film *types.TrackedFilm, maxResults int) (*CollectResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if maxResults <= 0 {
		maxResults = 50
	}

	if c.bearer != "" {
		items, err := c.collectLive(ctx, film, maxResults)
		if err != nil {
			c.log.Warn("Twitter fetch failed, using synthetic mentions", "film_id", film.FilmID, "error", err)
		} else if len(items) > 0 {
			return &CollectResult{
				Platform: types.PlatformTwitter,
				Origin:   types.OriginLive,
				Items:    items,
			}, nil
		}
	}

	return &CollectResult{
		Platform: types.PlatformTwitter,
		Origin:   types.OriginSynthetic,
		Items:    c.syntheticMentions(film),
	}, nil
}

func (c *TwitterCollector) collectLive(ctx context.Context, film *types.TrackedFilm, maxResults int) ([]*types.RawSignal, error) {
	if maxResults > 100 {
		maxResults = 100
	}
	params := url.Values{}
	params.Set("query", fmt.Sprintf("%q lang:en -is:retweet -is:reply", film.Title))
	params.Set("max_results", strconv.Itoa(maxResults))
	params.Set("tweet.fields", "created_at,public_metrics,lang,author_id")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		"https://api.twitter.com/2/tweets/search/recent?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.bearer)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("twitter status %d: %s", resp.StatusCode, string(body))
	}

	var parsed struct {
		Data []struct {
			ID            string    `json:"id"`
			Text          string    `json:"text"`
			AuthorID      string    `json:"author_id"`
			Lang          string    `json:"lang"`
			CreatedAt     time.Time `json:"created_at"`
			PublicMetrics struct {
				LikeCount    int `json:"like_count"`
				RetweetCount int `json:"retweet_count"`
			} `json:"public_metrics"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	if len(parsed.Data) == 0 {
		return nil, nil
	}

	texts := make([]string, len(parsed.Data))
	for i, tweet := range parsed.Data {
		texts[i] = tweet.Text
	}
	sentiments, err := c.classifier.Classify(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("classify tweets: %w", err)
	}

	items := make([]*types.RawSignal, 0, len(parsed.Data))
	for i, tweet := range parsed.Data {
		lang := tweet.Lang
		if lang == "" {
			lang = "en"
		}
		createdAt := tweet.CreatedAt
		if createdAt.IsZero() {
			createdAt = c.now().UTC()
		}
		items = append(items, &types.RawSignal{
			SignalID:       uuid.NewString(),
			FilmID:         film.FilmID,
			Platform:       types.PlatformTwitter,
			Username:       "@user_" + tweet.AuthorID,
			Text:           tweet.Text,
			Lang:           lang,
			SentimentLabel: sentiments[i].Label,
			SentimentScore: sentiments[i].Score,
			Likes:          tweet.PublicMetrics.LikeCount,
			Shares:         tweet.PublicMetrics.RetweetCount,
			SourceURL:      "https://twitter.com/i/web/status/" + tweet.ID,
			Origin:         types.OriginLive,
			CreatedAt:      createdAt,
		})
	}
	return items, nil
}

func (c *TwitterCollector) syntheticMentions(film *types.TrackedFilm) []*types.RawSignal {
	templatesPos := []string{
		"Can't wait for %s! This is going to be huge",
		"%s trailer is absolutely mind-blowing! Must watch!",
		"Been waiting for %s for so long. This is going to be epic!",
		"%s looks like a blockbuster! The cast is perfect.",
		"Just watched the %s trailer, goosebumps!!",
	}
	templatesNeu := []string{
		"%s releasing next month. Let's see how it goes.",
		"Watched the %s teaser. It looks okay-ish.",
		"Not sure about %s yet. Might wait for reviews.",
	}
	templatesNeg := []string{
		"Didn't like the %s trailer at all. Disappointing.",
		"%s looks like another predictable masala film.",
	}

	now := c.now().UTC()
	rng := newSyntheticRand(film.Title, hourBucket(now))
	nPos := randBetween(rng, 12, 20)
	nNeu := randBetween(rng, 5, 10)
	nNeg := randBetween(rng, 2, 6)

	items := make([]*types.RawSignal, 0, nPos+nNeu+nNeg)
	for i := 0; i < nPos; i++ {
		items = append(items, &types.RawSignal{
			SignalID:       uuid.NewString(),
			FilmID:         film.FilmID,
			Platform:       types.PlatformTwitter,
			Username:       fmt.Sprintf("@fan_%d", i),
			Text:           fmt.Sprintf(templatesPos[i%len(templatesPos)], film.Title),
			Lang:           "en",
			SentimentLabel: types.LabelPositive,
			SentimentScore: round3(0.6 + rng.Float64()*0.35),
			Likes:          randBetween(rng, 5, 800),
			Shares:         randBetween(rng, 0, 200),
			Origin:         types.OriginSynthetic,
			CreatedAt:      now.Add(-time.Duration(randBetween(rng, 1, 55)) * time.Minute),
		})
	}
	for i := 0; i < nNeu; i++ {
		items = append(items, &types.RawSignal{
			SignalID:       uuid.NewString(),
			FilmID:         film.FilmID,
			Platform:       types.PlatformTwitter,
			Username:       fmt.Sprintf("@viewer_%d", i),
			Text:           fmt.Sprintf(templatesNeu[i%len(templatesNeu)], film.Title),
			Lang:           "en",
			SentimentLabel: types.LabelNeutral,
			SentimentScore: round3(-0.1 + rng.Float64()*0.2),
			Likes:          randBetween(rng, 0, 50),
			Shares:         randBetween(rng, 0, 20),
			Origin:         types.OriginSynthetic,
			CreatedAt:      now.Add(-time.Duration(randBetween(rng, 5, 58)) * time.Minute),
		})
	}
	for i := 0; i < nNeg; i++ {
		items = append(items, &types.RawSignal{
			SignalID:       uuid.NewString(),
			FilmID:         film.FilmID,
			Platform:       types.PlatformTwitter,
			Username:       fmt.Sprintf("@critic_%d", i),
			Text:           fmt.Sprintf(templatesNeg[i%len(templatesNeg)], film.Title),
			Lang:           "en",
			SentimentLabel: types.LabelNegative,
			SentimentScore: round3(-0.8 + rng.Float64()*0.5),
			Likes:          randBetween(rng, 0, 30),
			Shares:         randBetween(rng, 0, 10),
			Origin:         types.OriginSynthetic,
			CreatedAt:      now.Add(-time.Duration(randBetween(rng, 10, 60)) * time.Minute),
		})
	}
	return items
}
