package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"solarcoin-analytics/internal/analytics"
	"solarcoin-analytics/internal/model"
)

// Demo:
// - Generate a synthetic day of peer-to-peer trades between a few households
// - Run the aggregation pipeline end to end (balances, timeline, pairs)
// - Show how the pieces fit together without needing a real CSV upload
func main() {
	n := flag.Int("n", 60, "Number of trades to generate")
	seed := flag.Int64("seed", 1, "Random seed")
	granularity := flag.Duration("granularity", time.Hour, "Timeline bucket width")
	outCSV := flag.String("out", "", "Optional path to write the generated trades CSV")
	flag.Parse()

	participants := []string{"HouseA", "HouseB", "HouseC", "SolarFarm", "Battery1"}
	txs := generate(*n, *seed, participants)

	balances := analytics.ComputeBalances(txs)
	summary := analytics.Summarize(balances)
	ranked := analytics.TopBalances(balances, 0)
	buckets := analytics.AggregateByBucket(txs, *granularity)
	pairs := analytics.TopPairs(txs, 5)

	fmt.Printf("Generated %d trades between %d participants (seed=%d)\n\n",
		len(txs), len(participants), *seed)

	fmt.Printf("%-12s %-10s %-10s %-10s %-7s\n", "participant", "sold", "bought", "net", "trades")
	for _, b := range ranked {
		fmt.Printf("%-12s %-10.2f %-10.2f %+-10.2f %-7d\n",
			b.Participant, b.TotalSold, b.TotalBought, b.NetBalance, b.TransactionCount)
	}

	fmt.Printf("\n%-18s %-10s %-10s %-7s\n", "bucket", "energy", "value", "count")
	for _, b := range buckets {
		fmt.Printf("%-18s %-10.2f %-10.2f %-7d\n", b.Label, b.Energy, b.Value, b.Count)
	}

	fmt.Printf("\nTop pairs:\n")
	for _, p := range pairs {
		fmt.Printf("  %s -> %s  %.2f kWh over %d trades\n", p.Seller, p.Buyer, p.Energy, p.Count)
	}

	fmt.Printf("\n%d participants, %.2f kWh traded, $%.2f total value\n",
		summary.TotalParticipants, summary.TotalEnergyTraded, summary.TotalValueTraded)

	if *outCSV != "" {
		if err := writeTradesCSV(*outCSV, txs); err != nil {
			panic(err)
		}
		fmt.Printf("\nWrote CSV: %s\n", *outCSV)
	}
}

func generate(n int, seed int64, participants []string) []model.Transaction {
	rng := rand.New(rand.NewSource(seed))
	start := time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC)

	txs := make([]model.Transaction, 0, n)
	for i := 0; i < n; i++ {
		seller := participants[rng.Intn(len(participants))]
		buyer := participants[rng.Intn(len(participants))]
		for buyer == seller {
			buyer = participants[rng.Intn(len(participants))]
		}
		ts := start.Add(time.Duration(rng.Intn(12*60)) * time.Minute)

		tx, err := model.NewTransaction(i, map[string]string{
			model.FieldTimestamp:   ts.Format("2006-01-02T15:04:05"),
			model.FieldSeller:      seller,
			model.FieldBuyer:       buyer,
			model.FieldEnergyKWh:   strconv.FormatFloat(0.5+rng.Float64()*9.5, 'f', 3, 64),
			model.FieldPricePerKWh: strconv.FormatFloat(0.08+rng.Float64()*0.12, 'f', 4, 64),
		})
		if err != nil {
			panic(err)
		}
		txs = append(txs, tx)
	}
	return txs
}

func writeTradesCSV(path string, txs []model.Transaction) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(model.RequiredFields()); err != nil {
		return err
	}
	for _, tx := range txs {
		row := []string{
			tx.Timestamp,
			tx.Seller,
			tx.Buyer,
			strconv.FormatFloat(tx.EnergyKWh, 'f', 3, 64),
			strconv.FormatFloat(tx.PricePerKWh, 'f', 4, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}
