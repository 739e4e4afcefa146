package analytics

import (
	"sort"

	"solarcoin-analytics/internal/model"
)

// PairVolume summarizes one ordered trading pair for the distribution chart.
type PairVolume struct {
	Seller string  `json:"seller"`
	Buyer  string  `json:"buyer"`
	Energy float64 `json:"energy"`
	Count  int     `json:"count"`
}

// TopBalances returns the n participants with the highest net balance,
// descending. Ties break by participant id so the ranking is stable across
// runs. n <= 0 returns all participants.
func TopBalances(balances map[string]*ParticipantBalance, n int) []ParticipantBalance {
	out := make([]ParticipantBalance, 0, len(balances))
	for _, b := range balances {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].NetBalance != out[j].NetBalance {
			return out[i].NetBalance > out[j].NetBalance
		}
		return out[i].Participant < out[j].Participant
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// TopPairs returns the n ordered (seller, buyer) pairs with the most traded
// energy, descending. n <= 0 returns all pairs.
func TopPairs(txs []model.Transaction, n int) []PairVolume {
	pairs := make(map[edgeKey]*PairVolume)
	for _, tx := range txs {
		key := edgeKey{source: tx.Seller, target: tx.Buyer}
		p, ok := pairs[key]
		if !ok {
			p = &PairVolume{Seller: tx.Seller, Buyer: tx.Buyer}
			pairs[key] = p
		}
		p.Energy += tx.EnergyKWh
		p.Count++
	}

	out := make([]PairVolume, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Energy != out[j].Energy {
			return out[i].Energy > out[j].Energy
		}
		if out[i].Seller != out[j].Seller {
			return out[i].Seller < out[j].Seller
		}
		return out[i].Buyer < out[j].Buyer
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}
