package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/filmpulse/filmpulse-backend/internal/logger"
	"github.com/filmpulse/filmpulse-backend/internal/types"
)

// SentimentClassifier scores a batch of texts. Results are order-preserving
// and the same length as the input.
type SentimentClassifier interface {
	Classify(ctx context.Context, texts []string) ([]types.Sentiment, error)
}

// NewSentimentClassifier returns the HTTP inference client when
// SENTIMENT_API_URL is configured, and the local lexicon scorer otherwise.
// The HTTP client itself degrades to the lexicon on call failure, so the
// collection pipeline never stalls on the classifier.
func NewSentimentClassifier(log *logger.Logger) SentimentClassifier {
	baseURL := strings.TrimSpace(os.Getenv("SENTIMENT_API_URL"))
	if baseURL == "" {
		log.Info("SENTIMENT_API_URL not set, using lexicon classifier")
		return NewLexiconClassifier()
	}
	return &httpClassifier{
		log:      log.With("service", "SentimentClassifier"),
		baseURL:  strings.TrimRight(baseURL, "/"),
		fallback: NewLexiconClassifier(),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type httpClassifier struct {
	log        *logger.Logger
	baseURL    string
	fallback   SentimentClassifier
	httpClient *http.Client
}

func (c *httpClassifier) Classify(ctx context.Context, texts []string) ([]types.Sentiment, error) {
	if len(texts) == 0 {
		return []types.Sentiment{}, nil
	}
	results, err := c.classifyRemote(ctx, texts)
	if err != nil {
		c.log.Warn("Remote classification failed, falling back to lexicon", "error", err, "texts", len(texts))
		return c.fallback.Classify(ctx, texts)
	}
	return results, nil
}

func (c *httpClassifier) classifyRemote(ctx context.Context, texts []string) ([]types.Sentiment, error) {
	payload, err := json.Marshal(map[string]any{"texts": texts})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/classify", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("classifier status %d: %s", resp.StatusCode, string(body))
	}

	var parsed struct {
		Results []types.Sentiment `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	if len(parsed.Results) != len(texts) {
		return nil, fmt.Errorf("classifier returned %d results for %d texts", len(parsed.Results), len(texts))
	}
	return parsed.Results, nil
}

// lexiconClassifier is a deterministic keyword scorer used when no inference
// endpoint is configured and as the degradation path when it is unreachable.
type lexiconClassifier struct {
	positive map[string]struct{}
	negative map[string]struct{}
}

func NewLexiconClassifier() SentimentClassifier {
	return &lexiconClassifier{
		positive: wordSet(
			"love", "loved", "amazing", "awesome", "epic", "blockbuster",
			"perfect", "great", "goosebumps", "legendary", "masterpiece",
			"wait", "excited", "hype", "haunting", "chills", "best",
			"mind-blowing", "restored", "ftw", "must",
		),
		negative: wordSet(
			"hate", "hated", "boring", "disappointing", "disappointed",
			"worst", "bad", "predictable", "flop", "average", "weak",
			"terrible", "awful", "skip", "mess",
		),
	}
}

func (c *lexiconClassifier) Classify(_ context.Context, texts []string) ([]types.Sentiment, error) {
	results := make([]types.Sentiment, len(texts))
	for i, text := range texts {
		results[i] = c.score(text)
	}
	return results, nil
}

func (c *lexiconClassifier) score(text string) types.Sentiment {
	var pos, neg int
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		tok = strings.Trim(tok, ".,!?;:\"'()[]")
		if _, ok := c.positive[tok]; ok {
			pos++
		}
		if _, ok := c.negative[tok]; ok {
			neg++
		}
	}
	switch {
	case pos > neg:
		score := 0.4 + 0.15*float64(pos-neg)
		if score > 0.95 {
			score = 0.95
		}
		return types.Sentiment{Label: types.LabelPositive, Score: score}
	case neg > pos:
		score := -0.4 - 0.15*float64(neg-pos)
		if score < -0.95 {
			score = -0.95
		}
		return types.Sentiment{Label: types.LabelNegative, Score: score}
	default:
		return types.Sentiment{Label: types.LabelNeutral, Score: 0}
	}
}

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
