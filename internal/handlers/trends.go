package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/filmpulse/filmpulse-backend/internal/logger"
	"github.com/filmpulse/filmpulse-backend/internal/services"
	"github.com/filmpulse/filmpulse-backend/internal/types"
)

var errNoData = errors.New("no collection history for this film yet")

type TrendsHandler struct {
	log        *logger.Logger
	registry   *services.Registry
	collection services.CollectionService
	queries    services.TrendQueryService
	lookup     *services.TrendLookupService
}

func NewTrendsHandler(
	log *logger.Logger,
	registry *services.Registry,
	collection services.CollectionService,
	queries services.TrendQueryService,
	lookup *services.TrendLookupService,
) *TrendsHandler {
	return &TrendsHandler{
		log:        log.With("handler", "TrendsHandler"),
		registry:   registry,
		collection: collection,
		queries:    queries,
		lookup:     lookup,
	}
}

type registerRequest struct {
	FilmID     string `json:"film_id" binding:"required"`
	Title      string `json:"title" binding:"required"`
	TrailerURL string `json:"trailer_url"`
}

// POST /api/v1/trends/register
func (h *TrendsHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	film, created := h.registry.Register(c.Request.Context(), req.FilmID, req.Title, req.TrailerURL)
	RespondOK(c, gin.H{
		"film":    film,
		"created": created,
	})
}

// POST /api/v1/trends/collect/:film_id
// Runs the full pipeline once, synchronously. An unregistered film with a
// ?title= query param is registered first, so a manual trigger also enrolls
// the film for the recurring cron runs.
func (h *TrendsHandler) Collect(c *gin.Context) {
	filmID := c.Param("film_id")
	film := h.registry.Get(filmID)
	if film == nil {
		title := c.Query("title")
		if title == "" {
			RespondError(c, http.StatusNotFound, "not_registered",
				errors.New("film not registered; pass ?title= to register and collect"))
			return
		}
		film, _ = h.registry.Register(c.Request.Context(), filmID, title, c.Query("trailer_url"))
	}
	summary, err := h.collection.RunCollection(c.Request.Context(), film, "manual")
	if err != nil {
		RespondError(c, http.StatusBadGateway, "collection_failed", err)
		return
	}
	RespondOK(c, summary)
}

// GET /api/v1/trends/history/:film_id?days=30
func (h *TrendsHandler) TrendHistory(c *gin.Context) {
	filmID := c.Param("film_id")
	days := queryInt64(c, "days", 30)
	result, err := h.queries.TrendHistory(c.Request.Context(), filmID, days)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "query_failed", err)
		return
	}
	if len(result.Days) == 0 {
		RespondError(c, http.StatusNotFound, "no_data", errNoData)
		return
	}
	RespondOK(c, result)
}

// GET /api/v1/trends/sentiment/:film_id?period=hourly&limit=30
func (h *TrendsHandler) SentimentHistory(c *gin.Context) {
	filmID := c.Param("film_id")
	period := c.DefaultQuery("period", types.PeriodHourly)
	limit := queryInt64(c, "limit", 30)
	snapshots, err := h.queries.SentimentHistory(c.Request.Context(), filmID, period, limit)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "query_failed", err)
		return
	}
	if len(snapshots) == 0 {
		RespondError(c, http.StatusNotFound, "no_data", errNoData)
		return
	}
	RespondOK(c, gin.H{
		"film_id":   filmID,
		"period":    period,
		"snapshots": snapshots,
	})
}

// GET /api/v1/trends/sentiment/:film_id/latest
func (h *TrendsHandler) LatestSentiment(c *gin.Context) {
	filmID := c.Param("film_id")
	snapshot, err := h.queries.LatestSentiment(c.Request.Context(), filmID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "query_failed", err)
		return
	}
	if snapshot == nil {
		RespondError(c, http.StatusNotFound, "no_data", errNoData)
		return
	}
	RespondOK(c, snapshot)
}

// GET /api/v1/trends/signals/:film_id?platform=&sentiment=&limit=50
func (h *TrendsHandler) RawSignals(c *gin.Context) {
	filmID := c.Param("film_id")
	result, err := h.queries.RawSignals(c.Request.Context(), filmID,
		c.Query("platform"), c.Query("sentiment"), queryInt64(c, "limit", 50))
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "query_failed", err)
		return
	}
	// An empty filtered page still answers 200 when the film has signals at
	// all; only a film with nothing stored is a 404.
	if len(result.Signals) == 0 && len(result.LabelCounts) == 0 {
		RespondError(c, http.StatusNotFound, "no_data", errNoData)
		return
	}
	RespondOK(c, result)
}

// GET /api/v1/trends/lookup?title=&timeframe=
// Pass-through to the trend-index source; nothing is persisted.
func (h *TrendsHandler) Lookup(c *gin.Context) {
	title := c.Query("title")
	if title == "" {
		RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("title is required"))
		return
	}
	stats := h.lookup.Lookup(c.Request.Context(), title, c.Query("timeframe"))
	RespondOK(c, stats)
}

// PUT /api/v1/trends/analysis/:film_id
func (h *TrendsHandler) SaveAnalysis(c *gin.Context) {
	var analysis types.TrailerAnalysis
	if err := c.ShouldBindJSON(&analysis); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	analysis.FilmID = c.Param("film_id")
	if err := h.queries.SaveAnalysis(c.Request.Context(), &analysis); err != nil {
		RespondError(c, http.StatusInternalServerError, "persist_failed", err)
		return
	}
	RespondOK(c, analysis)
}

// GET /api/v1/trends/analysis/:film_id
func (h *TrendsHandler) GetAnalysis(c *gin.Context) {
	analysis, err := h.queries.LatestAnalysis(c.Request.Context(), c.Param("film_id"))
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "query_failed", err)
		return
	}
	if analysis == nil {
		RespondError(c, http.StatusNotFound, "no_data", errNoData)
		return
	}
	RespondOK(c, analysis)
}

func queryInt64(c *gin.Context, key string, defaultVal int64) int64 {
	raw := c.Query(key)
	if raw == "" {
		return defaultVal
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return defaultVal
	}
	return v
}
