package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/filmpulse/filmpulse-backend/internal/handlers"
	"github.com/filmpulse/filmpulse-backend/internal/logger"
	"github.com/filmpulse/filmpulse-backend/internal/repos"
	"github.com/filmpulse/filmpulse-backend/internal/server"
	"github.com/filmpulse/filmpulse-backend/internal/services"
	"github.com/filmpulse/filmpulse-backend/internal/types"
)

type fakeCollection struct {
	summary *services.CollectionRunSummary
	err     error
}

func (f *fakeCollection) RunCollection(_ context.Context, film *types.TrackedFilm, trigger string) (*services.CollectionRunSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.summary != nil {
		return f.summary, nil
	}
	return &services.CollectionRunSummary{FilmID: film.FilmID, FilmTitle: film.Title}, nil
}

type fakeQueries struct {
	history   *services.TrendHistoryResult
	snapshots []*types.SentimentSnapshot
	latest    *types.SentimentSnapshot
	signals   *services.RawSignalsResult
	analysis  *types.TrailerAnalysis
	err       error
}

func (f *fakeQueries) TrendHistory(context.Context, string, int64) (*services.TrendHistoryResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.history != nil {
		return f.history, nil
	}
	return &services.TrendHistoryResult{}, nil
}

func (f *fakeQueries) SentimentHistory(context.Context, string, string, int64) ([]*types.SentimentSnapshot, error) {
	return f.snapshots, f.err
}

func (f *fakeQueries) LatestSentiment(context.Context, string) (*types.SentimentSnapshot, error) {
	return f.latest, f.err
}

func (f *fakeQueries) RawSignals(ctx context.Context, filmID, platform, sentiment string, limit int64) (*services.RawSignalsResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.signals != nil {
		return f.signals, nil
	}
	return &services.RawSignalsResult{FilmID: filmID}, nil
}

func (f *fakeQueries) LatestAnalysis(context.Context, string) (*types.TrailerAnalysis, error) {
	return f.analysis, f.err
}

func (f *fakeQueries) SaveAnalysis(_ context.Context, analysis *types.TrailerAnalysis) error {
	f.analysis = analysis
	return f.err
}

func newTestRouter(t *testing.T, collection services.CollectionService, queries services.TrendQueryService) (*gin.Engine, *services.Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	registry := services.NewRegistry(repos.NewTrackedFilmRepo(nil, log), log)
	collector := services.NewTrendCollector(log)
	lookup := services.NewTrendLookupService(log, collector, nil)
	handler := handlers.NewTrendsHandler(log, registry, collection, queries, lookup)
	return server.NewRouter(server.RouterConfig{TrendsHandler: handler}), registry
}

func do(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthcheckRoute(t *testing.T) {
	router, _ := newTestRouter(t, &fakeCollection{}, &fakeQueries{})
	rec := do(t, router, http.MethodGet, "/healthcheck", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", rec.Code)
	}
}

func TestRegisterRoute(t *testing.T) {
	router, registry := newTestRouter(t, &fakeCollection{}, &fakeQueries{})

	rec := do(t, router, http.MethodPost, "/api/v1/trends/register",
		`{"film_id":"jawan","title":"Jawan","trailer_url":"https://youtu.be/abc"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200, body=%s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Created bool `json:"created"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Created {
		t.Fatal("created=false on first registration")
	}
	if registry.Get("jawan") == nil {
		t.Fatal("film not in registry after register call")
	}

	rec = do(t, router, http.MethodPost, "/api/v1/trends/register",
		`{"film_id":"jawan","title":"Jawan Again"}`)
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Created {
		t.Fatal("created=true on duplicate registration")
	}
}

func TestRegisterRouteRejectsMissingFields(t *testing.T) {
	router, _ := newTestRouter(t, &fakeCollection{}, &fakeQueries{})
	rec := do(t, router, http.MethodPost, "/api/v1/trends/register", `{"film_id":"jawan"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", rec.Code)
	}
}

func TestCollectRoute(t *testing.T) {
	router, registry := newTestRouter(t, &fakeCollection{}, &fakeQueries{})

	// Unknown film without a title is rejected.
	rec := do(t, router, http.MethodPost, "/api/v1/trends/collect/ghost", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status=%d, want 404", rec.Code)
	}

	// Ad hoc collection with an inline title works.
	rec = do(t, router, http.MethodPost, "/api/v1/trends/collect/ghost?title=Ghost", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200, body=%s", rec.Code, rec.Body.String())
	}

	// The trigger also enrolls the film, so the cron loop picks it up.
	ghost := registry.Get("ghost")
	if ghost == nil {
		t.Fatal("ad hoc collected film missing from registry")
	}
	if ghost.Title != "Ghost" {
		t.Fatalf("registered title=%q, want Ghost", ghost.Title)
	}

	// Registered film needs no title.
	registry.Register(context.Background(), "jawan", "Jawan", "")
	rec = do(t, router, http.MethodPost, "/api/v1/trends/collect/jawan", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", rec.Code)
	}
}

func TestCollectRouteTrailerURLCarriedIntoRegistration(t *testing.T) {
	router, registry := newTestRouter(t, &fakeCollection{}, &fakeQueries{})

	rec := do(t, router, http.MethodPost,
		"/api/v1/trends/collect/ghost?title=Ghost&trailer_url=https://youtube.com/watch?v=abc", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", rec.Code)
	}
	ghost := registry.Get("ghost")
	if ghost == nil {
		t.Fatal("film not registered by trigger")
	}
	if ghost.TrailerURL == "" {
		t.Fatal("trailer URL dropped during trigger registration")
	}
}

func TestCollectRouteUpstreamFailure(t *testing.T) {
	collection := &fakeCollection{err: errors.New("context deadline exceeded")}
	router, registry := newTestRouter(t, collection, &fakeQueries{})
	registry.Register(context.Background(), "jawan", "Jawan", "")

	rec := do(t, router, http.MethodPost, "/api/v1/trends/collect/jawan", "")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status=%d, want 502", rec.Code)
	}
}

func TestSentimentRoutesWithoutData(t *testing.T) {
	router, _ := newTestRouter(t, &fakeCollection{}, &fakeQueries{})

	rec := do(t, router, http.MethodGet, "/api/v1/trends/sentiment/ghost", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("history status=%d, want 404", rec.Code)
	}
	rec = do(t, router, http.MethodGet, "/api/v1/trends/sentiment/ghost/latest", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("latest status=%d, want 404", rec.Code)
	}
	rec = do(t, router, http.MethodGet, "/api/v1/trends/history/ghost", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("trend history status=%d, want 404", rec.Code)
	}
	rec = do(t, router, http.MethodGet, "/api/v1/trends/signals/ghost", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("signals status=%d, want 404", rec.Code)
	}
}

func TestRawSignalsRoute(t *testing.T) {
	queries := &fakeQueries{
		signals: &services.RawSignalsResult{
			FilmID: "jawan",
			Signals: []*types.RawSignal{
				{FilmID: "jawan", Platform: types.PlatformTwitter, SentimentLabel: types.LabelPositive},
			},
			LabelCounts: map[string]int{types.LabelPositive: 1},
		},
	}
	router, _ := newTestRouter(t, &fakeCollection{}, queries)

	rec := do(t, router, http.MethodGet, "/api/v1/trends/signals/jawan?platform=twitter", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", rec.Code)
	}
	var result services.RawSignalsResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(result.Signals) != 1 || result.LabelCounts[types.LabelPositive] != 1 {
		t.Fatalf("result=%+v, want one positive signal", result)
	}
}

func TestLatestSentimentRoute(t *testing.T) {
	queries := &fakeQueries{
		latest: &types.SentimentSnapshot{FilmID: "jawan", HypeScore: 72.5, SentimentLabel: "Positive"},
	}
	router, _ := newTestRouter(t, &fakeCollection{}, queries)

	rec := do(t, router, http.MethodGet, "/api/v1/trends/sentiment/jawan/latest", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", rec.Code)
	}
	var snap types.SentimentSnapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.HypeScore != 72.5 || snap.SentimentLabel != "Positive" {
		t.Fatalf("snapshot=%+v, want hype 72.5 Positive", snap)
	}
}

func TestLookupRoute(t *testing.T) {
	router, _ := newTestRouter(t, &fakeCollection{}, &fakeQueries{})

	rec := do(t, router, http.MethodGet, "/api/v1/trends/lookup", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400 without title", rec.Code)
	}

	rec = do(t, router, http.MethodGet, "/api/v1/trends/lookup?title=Jawan", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", rec.Code)
	}
	var stats types.TrendStats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.InterestScore < 35 || stats.InterestScore > 92 {
		t.Fatalf("interest score %d outside synthetic range", stats.InterestScore)
	}
}

func TestAnalysisRoutes(t *testing.T) {
	queries := &fakeQueries{}
	router, _ := newTestRouter(t, &fakeCollection{}, queries)

	rec := do(t, router, http.MethodGet, "/api/v1/trends/analysis/jawan", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status=%d, want 404 before any analysis", rec.Code)
	}

	rec = do(t, router, http.MethodPut, "/api/v1/trends/analysis/jawan",
		`{"viral_potential":81,"engagement_score":74,"insights":["strong opening hook"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200, body=%s", rec.Code, rec.Body.String())
	}
	if queries.analysis == nil || queries.analysis.FilmID != "jawan" {
		t.Fatalf("analysis=%+v, want film_id jawan from path", queries.analysis)
	}

	rec = do(t, router, http.MethodGet, "/api/v1/trends/analysis/jawan", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200 after save", rec.Code)
	}
}
