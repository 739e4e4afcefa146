package analytics

import (
	"errors"
	"sort"
	"strings"

	"solarcoin-analytics/internal/model"
)

// ErrInvalidPageSize signals a caller contract violation: page sizes must be
// positive. This is the only way QueryTransactions can fail.
var ErrInvalidPageSize = errors.New("page size must be positive")

// Sortable field names accepted by QueryOptions.SortField.
const (
	SortByTimestamp = "timestamp"
	SortBySeller    = "seller"
	SortByBuyer     = "buyer"
	SortByEnergy    = "energy_kWh"
	SortByPrice     = "price_per_kWh"
	SortByValue     = "total_value"
)

// DefaultPageSize matches the original table's fixed page length.
const DefaultPageSize = 20

// QueryOptions parameterizes the tabular view over the transaction set.
// Zero values mean: match everything, sort by timestamp ascending, first
// page, default page size.
type QueryOptions struct {
	SearchText     string
	SortField      string
	SortDescending bool
	Page           int
	PageSize       int
}

// QueryResult is one page of the filtered, sorted transaction set.
type QueryResult struct {
	PageItems    []model.Transaction `json:"page_items"`
	TotalMatched int                 `json:"total_matched"`
	TotalPages   int                 `json:"total_pages"`
}

// QueryTransactions filters, sorts and paginates the transaction set.
//
// A record matches when the search text is a case-insensitive substring of
// seller, buyer or the raw timestamp; empty search matches everything. The
// sort is deterministic regardless of direction: ties on the sort key break
// by ID ascending. Pages are 1-indexed; a page past the end returns empty
// items with TotalMatched/TotalPages still reported (no clamping here).
func QueryTransactions(txs []model.Transaction, opts QueryOptions) (QueryResult, error) {
	if opts.PageSize == 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.PageSize < 0 {
		return QueryResult{}, ErrInvalidPageSize
	}
	if opts.Page <= 0 {
		opts.Page = 1
	}
	if opts.SortField == "" {
		opts.SortField = SortByTimestamp
	}

	matched := filterTransactions(txs, opts.SearchText)
	sortTransactions(matched, opts.SortField, opts.SortDescending)

	total := len(matched)
	totalPages := (total + opts.PageSize - 1) / opts.PageSize

	start := (opts.Page - 1) * opts.PageSize
	end := start + opts.PageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return QueryResult{
		PageItems:    matched[start:end],
		TotalMatched: total,
		TotalPages:   totalPages,
	}, nil
}

func filterTransactions(txs []model.Transaction, search string) []model.Transaction {
	out := make([]model.Transaction, 0, len(txs))
	needle := strings.ToLower(strings.TrimSpace(search))
	for _, tx := range txs {
		if needle == "" ||
			strings.Contains(strings.ToLower(tx.Seller), needle) ||
			strings.Contains(strings.ToLower(tx.Buyer), needle) ||
			strings.Contains(strings.ToLower(tx.Timestamp), needle) {
			out = append(out, tx)
		}
	}
	return out
}

func sortTransactions(txs []model.Transaction, field string, descending bool) {
	sort.Slice(txs, func(i, j int) bool {
		c := compareField(txs[i], txs[j], field)
		if c == 0 {
			// Tie-break by source position, ascending in both directions,
			// so toggling the sort never reshuffles equal keys.
			return txs[i].ID < txs[j].ID
		}
		if descending {
			return c > 0
		}
		return c < 0
	})
}

func compareField(a, b model.Transaction, field string) int {
	switch field {
	case SortBySeller:
		return strings.Compare(a.Seller, b.Seller)
	case SortByBuyer:
		return strings.Compare(a.Buyer, b.Buyer)
	case SortByEnergy:
		return compareFloat(a.EnergyKWh, b.EnergyKWh)
	case SortByPrice:
		return compareFloat(a.PricePerKWh, b.PricePerKWh)
	case SortByValue:
		return compareFloat(a.TotalValue, b.TotalValue)
	default: // SortByTimestamp
		return compareTimestamp(a, b)
	}
}

// compareTimestamp orders parseable instants chronologically; when either
// side fails to parse it degrades to lexical comparison of the raw strings,
// consistent with the temporal aggregator's fallback. Parseable timestamps
// sort before unparseable ones.
func compareTimestamp(a, b model.Transaction) int {
	switch {
	case a.TimeValid && b.TimeValid:
		if a.Time.Before(b.Time) {
			return -1
		}
		if a.Time.After(b.Time) {
			return 1
		}
		return 0
	case a.TimeValid:
		return -1
	case b.TimeValid:
		return 1
	default:
		return strings.Compare(a.Timestamp, b.Timestamp)
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
