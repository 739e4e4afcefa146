package ingest

import (
	"encoding/csv"
	"os"
	"strconv"

	"solarcoin-analytics/internal/analytics"
)

// WriteBalancesCSV writes a ranked balance sheet, one participant per row.
func WriteBalancesCSV(path string, balances []analytics.ParticipantBalance) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"participant",
		"total_sold_kwh",
		"total_bought_kwh",
		"net_balance",
		"transaction_count",
		"net_value",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, b := range balances {
		row := []string{
			b.Participant,
			fmtFloat(b.TotalSold),
			fmtFloat(b.TotalBought),
			fmtFloat(b.NetBalance),
			strconv.Itoa(b.TransactionCount),
			fmtFloat(b.NetValue),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

// WriteBucketsCSV writes the time-bucketed aggregates, one bucket per row.
func WriteBucketsCSV(path string, buckets []analytics.TimeBucket) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"bucket", "energy_kwh", "value", "count"}); err != nil {
		return err
	}

	for _, b := range buckets {
		row := []string{
			b.Label,
			fmtFloat(b.Energy),
			fmtFloat(b.Value),
			strconv.Itoa(b.Count),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
