package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"solarcoin-analytics/internal/model"
)

// ReadTransactionsCSV parses a transaction CSV from r. The first row must be
// a header carrying every required column (timestamp, seller, buyer,
// energy_kWh, price_per_kWh); extra columns are ignored. Missing columns
// reject the whole file with *model.ValidationError before any row is
// accepted — ingestion is all-or-nothing.
//
// Within accepted rows, malformed numeric cells zero out per the record
// model's lenient policy; no individual row is dropped for dirty values.
func ReadTransactionsCSV(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	// Rows with a trailing delimiter or short fields surface as parse errors;
	// allow variable counts and let required-field checks decide instead.
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &model.ValidationError{Fields: model.RequiredFields()}
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, f := range model.RequiredFields() {
		if _, ok := index[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return nil, &model.ValidationError{Fields: missing}
	}

	var txs []model.Transaction
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", len(txs)+1, err)
		}
		if isBlank(rec) {
			continue
		}

		row := make(map[string]string, len(index))
		for name, i := range index {
			if i < len(rec) {
				row[name] = rec[i]
			} else {
				row[name] = ""
			}
		}

		tx, err := model.NewTransaction(len(txs), row)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}

	return txs, nil
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
