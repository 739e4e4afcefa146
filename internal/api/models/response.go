package models

import (
	"time"

	"solarcoin-analytics/internal/analytics"
	"solarcoin-analytics/internal/model"
)

// DatasetResponse describes one uploaded dataset.
type DatasetResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	UploadedAt       time.Time `json:"uploaded_at"`
	TransactionCount int       `json:"transaction_count"`
}

// UploadResponse is returned by POST /datasets after a successful ingest.
type UploadResponse struct {
	Dataset DatasetResponse   `json:"dataset"`
	Summary analytics.Summary `json:"summary"`
}

// BalancesResponse carries the ranked balance sheet plus summary stats.
type BalancesResponse struct {
	Balances []analytics.ParticipantBalance `json:"balances"`
	Summary  analytics.Summary              `json:"summary"`
}

// TimelineResponse carries the ordered time buckets.
type TimelineResponse struct {
	Granularity string          `json:"granularity"`
	Buckets     []TimeBucketRow `json:"buckets"`
}

// TimeBucketRow is the wire shape of one time bucket.
type TimeBucketRow struct {
	Label  string  `json:"label"`
	Energy float64 `json:"energy"`
	Value  float64 `json:"value"`
	Count  int     `json:"count"`
}

// TransactionsResponse is one page of the filtered transaction table.
type TransactionsResponse struct {
	Transactions []model.Transaction `json:"transactions"`
	TotalMatched int                 `json:"total_matched"`
	TotalPages   int                 `json:"total_pages"`
	Page         int                 `json:"page"`
	PageSize     int                 `json:"page_size"`
}

// RankingsResponse carries the chart feeds: top balances and top pairs.
type RankingsResponse struct {
	TopBalances []analytics.ParticipantBalance `json:"top_balances"`
	TopPairs    []analytics.PairVolume         `json:"top_pairs"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
