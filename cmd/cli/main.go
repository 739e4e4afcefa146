package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"solarcoin-analytics/internal/analytics"
	"solarcoin-analytics/internal/ingest"
	"solarcoin-analytics/internal/model"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "balances":
		cmdBalances(os.Args[2:])
	case "timeline":
		cmdTimeline(os.Args[2:])
	case "graph":
		cmdGraph(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli balances --data trades.csv --out results/balances.csv")
	fmt.Println("  cli timeline --data trades.csv --granularity 1h --out results/timeline.csv")
	fmt.Println("  cli graph --data trades.csv")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - balances prints the ranked SolarCoin balance sheet per participant")
	fmt.Println("  - timeline buckets trades into fixed windows (default 1h)")
	fmt.Println("  - graph prints the aggregated seller->buyer trading edges")
}

func cmdBalances(args []string) {
	fs := flag.NewFlagSet("balances", flag.ExitOnError)
	dataPath := fs.String("data", "", "Path to transactions CSV")
	outPath := fs.String("out", "", "Optional output CSV path")
	_ = fs.Parse(args)

	txs := loadTransactions(*dataPath)
	balances := analytics.ComputeBalances(txs)
	ranked := analytics.TopBalances(balances, 0)
	summary := analytics.Summarize(balances)

	fmt.Printf("%-14s %-12s %-12s %-12s %-8s %-12s\n",
		"participant", "sold_kwh", "bought_kwh", "net", "trades", "net_value")
	for _, b := range ranked {
		fmt.Printf("%-14s %-12.4f %-12.4f %+-12.4f %-8d %+-12.2f\n",
			b.Participant, b.TotalSold, b.TotalBought, b.NetBalance,
			b.TransactionCount, b.NetValue)
	}
	fmt.Printf("\n%d participants, %.4f kWh traded, $%.2f total value (%d net earners / %d net spenders)\n",
		summary.TotalParticipants, summary.TotalEnergyTraded, summary.TotalValueTraded,
		summary.PositiveBalances, summary.NegativeBalances)

	if *outPath != "" {
		writeOut(*outPath, func(path string) error {
			return ingest.WriteBalancesCSV(path, ranked)
		})
		fmt.Printf("Wrote %d rows to %s\n", len(ranked), *outPath)
	}
}

func cmdTimeline(args []string) {
	fs := flag.NewFlagSet("timeline", flag.ExitOnError)
	dataPath := fs.String("data", "", "Path to transactions CSV")
	granularity := fs.Duration("granularity", time.Hour, "Bucket width (e.g. 1h, 30m)")
	outPath := fs.String("out", "", "Optional output CSV path")
	_ = fs.Parse(args)

	txs := loadTransactions(*dataPath)
	buckets := analytics.AggregateByBucket(txs, *granularity)

	fmt.Printf("%-20s %-12s %-12s %-8s\n", "bucket", "energy_kwh", "value", "count")
	for _, b := range buckets {
		fmt.Printf("%-20s %-12.4f %-12.2f %-8d\n", b.Label, b.Energy, b.Value, b.Count)
	}

	if *outPath != "" {
		writeOut(*outPath, func(path string) error {
			return ingest.WriteBucketsCSV(path, buckets)
		})
		fmt.Printf("Wrote %d rows to %s\n", len(buckets), *outPath)
	}
}

func cmdGraph(args []string) {
	fs := flag.NewFlagSet("graph", flag.ExitOnError)
	dataPath := fs.String("data", "", "Path to transactions CSV")
	_ = fs.Parse(args)

	txs := loadTransactions(*dataPath)
	g := analytics.BuildGraph(txs)

	fmt.Printf("%d nodes, %d edges\n\n", len(g.Nodes), len(g.Edges))
	fmt.Printf("%-14s %-14s %-12s %-12s %-8s\n", "seller", "buyer", "energy_kwh", "value", "count")
	for _, e := range g.Edges {
		fmt.Printf("%-14s %-14s %-12.4f %-12.2f %-8d\n", e.Source, e.Target, e.Energy, e.Value, e.Count)
	}
}

func loadTransactions(path string) []model.Transaction {
	if path == "" {
		fmt.Println("--data is required")
		os.Exit(2)
	}
	f, err := os.Open(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()

	txs, err := ingest.ReadTransactionsCSV(f)
	if err != nil {
		panic(err)
	}
	return txs
}

func writeOut(path string, write func(string) error) {
	// ensure output dir exists
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			panic(err)
		}
	}
	if err := write(path); err != nil {
		panic(err)
	}
}
