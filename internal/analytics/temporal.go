package analytics

import (
	"sort"
	"strconv"
	"time"

	"solarcoin-analytics/internal/model"
)

// DefaultGranularity is the bucket width used when the caller does not
// choose one.
const DefaultGranularity = time.Hour

// TimeBucket is one fixed time window of aggregated trading activity.
type TimeBucket struct {
	// Label identifies the bucket: the truncated start instant formatted as
	// "2006-01-02 15:04" for parseable timestamps, or the verbatim source
	// string for unparseable ones.
	Label  string  `json:"label"`
	Energy float64 `json:"energy"`
	Value  float64 `json:"value"`
	Count  int     `json:"count"`

	start time.Time
	valid bool
}

// Start returns the bucket's chronological start instant. ok is false for
// buckets grouped under an unparseable timestamp.
func (b TimeBucket) Start() (time.Time, bool) { return b.start, b.valid }

const bucketLabelLayout = "2006-01-02 15:04"

// AggregateByBucket groups transactions into fixed windows of the given
// granularity and sums energy, value and count per window. Each record lands
// in exactly one bucket; records with unparseable timestamps are grouped
// under their verbatim timestamp string rather than dropped.
//
// Output ordering is fixed: chronological buckets ascending by start instant,
// then fallback buckets ascending lexically by label.
func AggregateByBucket(txs []model.Transaction, granularity time.Duration) []TimeBucket {
	if granularity <= 0 {
		granularity = DefaultGranularity
	}

	buckets := make(map[string]*TimeBucket)
	for _, tx := range txs {
		var key string
		var start time.Time
		valid := tx.TimeValid
		if valid {
			// Normalize to UTC so the label never depends on which zone
			// offset happened to appear first in the file.
			start = tx.Time.Truncate(granularity).UTC()
			// Key on the absolute instant so equal moments written with
			// different zone offsets share a bucket.
			key = "t:" + strconv.FormatInt(start.UnixNano(), 10)
		} else {
			key = "s:" + tx.Timestamp
		}

		b, ok := buckets[key]
		if !ok {
			b = &TimeBucket{start: start, valid: valid}
			if valid {
				b.Label = start.Format(bucketLabelLayout)
			} else {
				b.Label = tx.Timestamp
			}
			buckets[key] = b
		}
		b.Energy += tx.EnergyKWh
		b.Value += tx.TotalValue
		b.Count++
	}

	out := make([]TimeBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.valid && b.valid:
			return a.start.Before(b.start)
		case a.valid != b.valid:
			// Valid buckets first, fallback buckets after.
			return a.valid
		default:
			return a.Label < b.Label
		}
	})
	return out
}
