package models

// TransactionsQuery binds the query parameters of GET /datasets/:id/transactions.
type TransactionsQuery struct {
	Search   string `form:"search"`
	Sort     string `form:"sort"`      // timestamp|seller|buyer|energy_kWh|price_per_kWh|total_value
	Dir      string `form:"dir"`       // "asc" (default) or "desc"
	Page     int    `form:"page"`      // 1-indexed, default 1
	PageSize int    `form:"page_size"` // default from config
}

// TimelineQuery binds the query parameters of GET /datasets/:id/timeline.
type TimelineQuery struct {
	// Granularity in time.ParseDuration syntax, e.g. "1h", "30m".
	Granularity string `form:"granularity"`
}

// RankingsQuery binds the query parameters of GET /datasets/:id/rankings.
type RankingsQuery struct {
	BalanceLimit int `form:"balance_limit"` // default 10, matches the chart
	PairLimit    int `form:"pair_limit"`    // default 8
}
