package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Field names used by the CSV ingestion front end. These are the external
// column names; everything downstream works with the typed Transaction.
const (
	FieldTimestamp   = "timestamp"
	FieldSeller      = "seller"
	FieldBuyer       = "buyer"
	FieldEnergyKWh   = "energy_kWh"
	FieldPricePerKWh = "price_per_kWh"
)

// RequiredFields lists the columns a row must carry to be accepted at all.
func RequiredFields() []string {
	return []string{FieldTimestamp, FieldSeller, FieldBuyer, FieldEnergyKWh, FieldPricePerKWh}
}

// Transaction is one validated peer-to-peer energy trade.
// Immutable once constructed; aggregations never write back into it.
type Transaction struct {
	// ID is the 0-based position of the row in the source file.
	ID int `json:"id"`

	// Timestamp is the raw source string, preserved verbatim even when it
	// does not parse. Time/TimeValid carry the parsed instant when it does.
	Timestamp string    `json:"timestamp"`
	Time      time.Time `json:"-"`
	TimeValid bool      `json:"-"`

	Seller string `json:"seller"`
	Buyer  string `json:"buyer"`

	// Quantities in kWh and $/kWh. Malformed numeric cells are zeroed, not
	// rejected: dirty rows still count, they just carry no quantity.
	EnergyKWh   float64 `json:"energy_kWh"`
	PricePerKWh float64 `json:"price_per_kWh"`

	// TotalValue = EnergyKWh * PricePerKWh, computed once here and treated
	// as part of the record downstream.
	TotalValue float64 `json:"total_value"`
}

// ValidationError reports the required fields missing from an incoming row.
// A single ValidationError rejects the whole batch containing the row.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// timestampLayouts are tried in order when parsing source timestamps.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp parses a source timestamp string. ok is false when no known
// layout matches; callers fall back to treating the string lexically.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NewTransaction builds a Transaction from a raw row of column name -> cell
// value. id is the 0-based sequence position assigned by the caller.
//
// Normalization is deliberately lenient: string fields are trimmed, numeric
// cells that fail to parse (or come in negative for energy) become 0. The only
// hard failure is a missing required column, which rejects the batch.
func NewTransaction(id int, row map[string]string) (Transaction, error) {
	var missing []string
	for _, f := range RequiredFields() {
		if _, ok := row[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return Transaction{}, &ValidationError{Fields: missing}
	}

	raw := strings.TrimSpace(row[FieldTimestamp])
	parsed, ok := ParseTimestamp(raw)

	energy := parseNumeric(row[FieldEnergyKWh])
	if energy < 0 {
		energy = 0
	}
	price := parseNumeric(row[FieldPricePerKWh])

	return Transaction{
		ID:          id,
		Timestamp:   raw,
		Time:        parsed,
		TimeValid:   ok,
		Seller:      strings.TrimSpace(row[FieldSeller]),
		Buyer:       strings.TrimSpace(row[FieldBuyer]),
		EnergyKWh:   energy,
		PricePerKWh: price,
		TotalValue:  energy * price,
	}, nil
}

func parseNumeric(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
