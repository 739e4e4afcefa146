package analytics

import (
	"math"
	"sort"

	"solarcoin-analytics/internal/model"
)

// Node is one participant in the trading network. It carries the same
// accumulators as ParticipantBalance plus a display size score.
type Node struct {
	ID               string  `json:"id"`
	TotalSold        float64 `json:"total_sold"`
	TotalBought      float64 `json:"total_bought"`
	NetBalance       float64 `json:"net_balance"`
	NetValue         float64 `json:"net_value"`
	TransactionCount int     `json:"transaction_count"`
	// Activity sizes the node when rendered: sqrt(count)*3 clamped to [15,40].
	// Monotonic in TransactionCount; no other semantics.
	Activity float64 `json:"activity"`
}

// Edge is the aggregated directed relationship seller -> buyer.
// (A,B) and (B,A) are distinct: direction encodes the flow of energy.
type Edge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Energy float64 `json:"energy"`
	Value  float64 `json:"value"`
	Count  int     `json:"count"`
}

// Graph is the derived trading network. Nodes are a superset of every
// endpoint referenced by an edge.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

type edgeKey struct {
	source string
	target string
}

// BuildGraph collapses the transaction set into an aggregated multigraph.
// Edge lookup is by ordered (seller, buyer) map key, keeping construction
// linear in the number of records. Output ordering is deterministic: nodes
// by id, edges by (source, target).
func BuildGraph(txs []model.Transaction) Graph {
	balances := ComputeBalances(txs)

	edges := make(map[edgeKey]*Edge)
	for _, tx := range txs {
		key := edgeKey{source: tx.Seller, target: tx.Buyer}
		e, ok := edges[key]
		if !ok {
			e = &Edge{Source: tx.Seller, Target: tx.Buyer}
			edges[key] = e
		}
		e.Energy += tx.EnergyKWh
		e.Value += tx.TotalValue
		e.Count++
	}

	g := Graph{
		Nodes: make([]Node, 0, len(balances)),
		Edges: make([]Edge, 0, len(edges)),
	}
	for id, b := range balances {
		g.Nodes = append(g.Nodes, Node{
			ID:               id,
			TotalSold:        b.TotalSold,
			TotalBought:      b.TotalBought,
			NetBalance:       b.NetBalance,
			NetValue:         b.NetValue,
			TransactionCount: b.TransactionCount,
			Activity:         activityScore(b.TransactionCount),
		})
	}
	for _, e := range edges {
		g.Edges = append(g.Edges, *e)
	}

	sort.Slice(g.Nodes, func(i, j int) bool { return g.Nodes[i].ID < g.Nodes[j].ID })
	sort.Slice(g.Edges, func(i, j int) bool {
		if g.Edges[i].Source != g.Edges[j].Source {
			return g.Edges[i].Source < g.Edges[j].Source
		}
		return g.Edges[i].Target < g.Edges[j].Target
	})

	return g
}

func activityScore(count int) float64 {
	s := math.Sqrt(float64(count)) * 3
	if s < 15 {
		return 15
	}
	if s > 40 {
		return 40
	}
	return s
}
