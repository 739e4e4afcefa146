package handlers

import (
	"errors"
	"net/http"
	"time"

	"solarcoin-analytics/internal/analytics"
	"solarcoin-analytics/internal/api/models"
	"solarcoin-analytics/internal/config"
	"solarcoin-analytics/internal/store"

	"github.com/gin-gonic/gin"
)

// AnalyticsHandler serves the derived views over a stored dataset. Every
// view recomputes from the stored transaction slice on each request; the
// engine functions are pure, so concurrent requests need no coordination.
type AnalyticsHandler struct {
	store *store.Store
	cfg   *config.Config
}

func NewAnalyticsHandler(s *store.Store, cfg *config.Config) *AnalyticsHandler {
	return &AnalyticsHandler{store: s, cfg: cfg}
}

// Balances handles GET /api/v1/datasets/:id/balances.
func (h *AnalyticsHandler) Balances(c *gin.Context) {
	d, ok := h.dataset(c)
	if !ok {
		return
	}
	balances := analytics.ComputeBalances(d.Transactions)
	c.JSON(http.StatusOK, models.BalancesResponse{
		Balances: analytics.TopBalances(balances, 0),
		Summary:  analytics.Summarize(balances),
	})
}

// Summary handles GET /api/v1/datasets/:id/summary.
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	d, ok := h.dataset(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, analytics.Summarize(analytics.ComputeBalances(d.Transactions)))
}

// Graph handles GET /api/v1/datasets/:id/graph.
func (h *AnalyticsHandler) Graph(c *gin.Context) {
	d, ok := h.dataset(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, analytics.BuildGraph(d.Transactions))
}

// Timeline handles GET /api/v1/datasets/:id/timeline.
func (h *AnalyticsHandler) Timeline(c *gin.Context) {
	d, ok := h.dataset(c)
	if !ok {
		return
	}

	var q models.TimelineQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_REQUEST", Message: err.Error()},
		})
		return
	}

	granularity, _ := h.cfg.Granularity()
	if q.Granularity != "" {
		parsed, err := time.ParseDuration(q.Granularity)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: models.ErrorDetail{
					Code:    "INVALID_GRANULARITY",
					Message: "granularity must be a positive duration like 1h or 30m",
				},
			})
			return
		}
		granularity = parsed
	}

	buckets := analytics.AggregateByBucket(d.Transactions, granularity)
	rows := make([]models.TimeBucketRow, len(buckets))
	for i, b := range buckets {
		rows[i] = models.TimeBucketRow{
			Label:  b.Label,
			Energy: b.Energy,
			Value:  b.Value,
			Count:  b.Count,
		}
	}
	c.JSON(http.StatusOK, models.TimelineResponse{
		Granularity: granularity.String(),
		Buckets:     rows,
	})
}

// Transactions handles GET /api/v1/datasets/:id/transactions.
func (h *AnalyticsHandler) Transactions(c *gin.Context) {
	d, ok := h.dataset(c)
	if !ok {
		return
	}

	var q models.TransactionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_REQUEST", Message: err.Error()},
		})
		return
	}

	pageSize := q.PageSize
	if pageSize == 0 {
		pageSize = h.cfg.Analytics.DefaultPageSize
	}
	page := q.Page
	if page == 0 {
		page = 1
	}

	result, err := analytics.QueryTransactions(d.Transactions, analytics.QueryOptions{
		SearchText:     q.Search,
		SortField:      q.Sort,
		SortDescending: q.Dir == "desc",
		Page:           page,
		PageSize:       pageSize,
	})
	if err != nil {
		status := http.StatusInternalServerError
		code := "INTERNAL_ERROR"
		if errors.Is(err, analytics.ErrInvalidPageSize) {
			status = http.StatusBadRequest
			code = "INVALID_PAGE_SIZE"
		}
		c.JSON(status, models.ErrorResponse{
			Error: models.ErrorDetail{Code: code, Message: err.Error()},
		})
		return
	}

	c.JSON(http.StatusOK, models.TransactionsResponse{
		Transactions: result.PageItems,
		TotalMatched: result.TotalMatched,
		TotalPages:   result.TotalPages,
		Page:         page,
		PageSize:     pageSize,
	})
}

// Rankings handles GET /api/v1/datasets/:id/rankings.
func (h *AnalyticsHandler) Rankings(c *gin.Context) {
	d, ok := h.dataset(c)
	if !ok {
		return
	}

	var q models.RankingsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_REQUEST", Message: err.Error()},
		})
		return
	}
	if q.BalanceLimit <= 0 {
		q.BalanceLimit = 10
	}
	if q.PairLimit <= 0 {
		q.PairLimit = 8
	}

	balances := analytics.ComputeBalances(d.Transactions)
	c.JSON(http.StatusOK, models.RankingsResponse{
		TopBalances: analytics.TopBalances(balances, q.BalanceLimit),
		TopPairs:    analytics.TopPairs(d.Transactions, q.PairLimit),
	})
}

func (h *AnalyticsHandler) dataset(c *gin.Context) (*store.Dataset, bool) {
	d, err := h.store.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "DATASET_NOT_FOUND",
				Message: err.Error(),
			},
		})
		return nil, false
	}
	return d, true
}
