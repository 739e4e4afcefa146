package analytics

import (
	"math"

	"solarcoin-analytics/internal/model"
)

// ParticipantBalance is the per-participant view of the ledger.
// Quantities are kWh; NetValue is signed dollars (seller side positive).
type ParticipantBalance struct {
	Participant      string  `json:"participant"`
	TotalSold        float64 `json:"total_sold"`
	TotalBought      float64 `json:"total_bought"`
	NetBalance       float64 `json:"net_balance"`
	TransactionCount int     `json:"transaction_count"`
	NetValue         float64 `json:"net_value"`
}

// Summary aggregates the balance map for the dashboard header cards.
type Summary struct {
	TotalParticipants int     `json:"total_participants"`
	TotalEnergyTraded float64 `json:"total_energy_traded"`
	// TotalValueTraded is Σ|NetValue|/2: each trade shows up on both the
	// seller and buyer side, so halving avoids double counting.
	TotalValueTraded float64 `json:"total_value_traded"`
	PositiveBalances int     `json:"positive_balances"`
	NegativeBalances int     `json:"negative_balances"`
}

// ComputeBalances folds the transaction set into per-participant balances.
// Participants are created lazily on first appearance. The accumulation is
// commutative, so input order does not affect the result beyond float
// summation order.
//
// Self-trades (seller == buyer) credit both TotalSold and TotalBought, net to
// zero on NetBalance and NetValue, and count exactly once per record.
//
// Empty input yields an empty map; that is the defined "no data" behavior,
// not an error.
func ComputeBalances(txs []model.Transaction) map[string]*ParticipantBalance {
	balances := make(map[string]*ParticipantBalance)

	get := func(id string) *ParticipantBalance {
		b, ok := balances[id]
		if !ok {
			b = &ParticipantBalance{Participant: id}
			balances[id] = b
		}
		return b
	}

	for _, tx := range txs {
		seller := get(tx.Seller)
		seller.TotalSold += tx.EnergyKWh
		seller.NetBalance += tx.EnergyKWh
		seller.NetValue += tx.TotalValue
		seller.TransactionCount++

		buyer := get(tx.Buyer)
		buyer.TotalBought += tx.EnergyKWh
		buyer.NetBalance -= tx.EnergyKWh
		buyer.NetValue -= tx.TotalValue
		if tx.Buyer != tx.Seller {
			buyer.TransactionCount++
		}
	}

	return balances
}

// Summarize derives the dashboard summary from a balance map.
// Conservation holds by construction: every kWh sold is bought by someone,
// so Σ NetBalance and Σ NetValue are zero up to float rounding.
func Summarize(balances map[string]*ParticipantBalance) Summary {
	s := Summary{TotalParticipants: len(balances)}
	for _, b := range balances {
		s.TotalEnergyTraded += b.TotalSold
		s.TotalValueTraded += math.Abs(b.NetValue)
		switch {
		case b.NetBalance > 0:
			s.PositiveBalances++
		case b.NetBalance < 0:
			s.NegativeBalances++
		}
	}
	s.TotalValueTraded /= 2
	return s
}
