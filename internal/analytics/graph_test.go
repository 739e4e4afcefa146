package analytics

import (
	"math"
	"testing"

	"solarcoin-analytics/internal/model"
)

func TestBuildGraph_SingleTrade(t *testing.T) {
	g := BuildGraph([]model.Transaction{
		tx(0, "2024-03-01T10:15:00", "P1", "P2", 10, 0.1),
	})

	if len(g.Nodes) != 2 {
		t.Fatalf("nodes = %d, want 2", len(g.Nodes))
	}
	if len(g.Edges) != 1 {
		t.Fatalf("edges = %d, want 1", len(g.Edges))
	}

	e := g.Edges[0]
	if e.Source != "P1" || e.Target != "P2" {
		t.Errorf("edge = %s -> %s, want P1 -> P2", e.Source, e.Target)
	}
	if e.Energy != 10 || math.Abs(e.Value-1.0) > epsilon || e.Count != 1 {
		t.Errorf("edge energy=%v value=%v count=%d, want 10, 1.0, 1", e.Energy, e.Value, e.Count)
	}
}

func TestBuildGraph_EdgeCollapsing(t *testing.T) {
	g := BuildGraph([]model.Transaction{
		tx(0, "2024-03-01T10:00:00", "A", "B", 5, 0.1),
		tx(1, "2024-03-01T11:00:00", "A", "B", 3, 0.1),
	})

	if len(g.Edges) != 1 {
		t.Fatalf("edges = %d, want 1 collapsed edge", len(g.Edges))
	}
	e := g.Edges[0]
	if e.Energy != 8 {
		t.Errorf("energy = %v, want 8", e.Energy)
	}
	if e.Count != 2 {
		t.Errorf("count = %d, want 2", e.Count)
	}
}

func TestBuildGraph_DirectionMatters(t *testing.T) {
	g := BuildGraph([]model.Transaction{
		tx(0, "2024-03-01T10:00:00", "A", "B", 5, 0.1),
		tx(1, "2024-03-01T11:00:00", "B", "A", 3, 0.1),
	})

	if len(g.Edges) != 2 {
		t.Fatalf("edges = %d, want 2 distinct directed edges", len(g.Edges))
	}
	// Edges come back sorted by (source, target).
	if g.Edges[0].Source != "A" || g.Edges[0].Target != "B" || g.Edges[0].Energy != 5 {
		t.Errorf("edge[0] = %+v, want A->B energy 5", g.Edges[0])
	}
	if g.Edges[1].Source != "B" || g.Edges[1].Target != "A" || g.Edges[1].Energy != 3 {
		t.Errorf("edge[1] = %+v, want B->A energy 3", g.Edges[1])
	}
}

func TestBuildGraph_SelfTradeNode(t *testing.T) {
	g := BuildGraph([]model.Transaction{
		tx(0, "2024-03-01T10:00:00", "P1", "P1", 4, 0.5),
	})

	if len(g.Nodes) != 1 {
		t.Fatalf("nodes = %d, want 1 (self-trader still appears)", len(g.Nodes))
	}
	n := g.Nodes[0]
	if n.NetBalance != 0 || n.NetValue != 0 {
		t.Errorf("self-trade node net=%v value=%v, want 0 and 0", n.NetBalance, n.NetValue)
	}
	if len(g.Edges) != 1 || g.Edges[0].Source != "P1" || g.Edges[0].Target != "P1" {
		t.Errorf("edges = %+v, want single P1->P1 loop", g.Edges)
	}
}

func TestBuildGraph_NodesCoverEdgeEndpoints(t *testing.T) {
	g := BuildGraph([]model.Transaction{
		tx(0, "2024-03-01T10:00:00", "A", "B", 1, 1),
		tx(1, "2024-03-01T10:00:00", "C", "A", 2, 1),
		tx(2, "2024-03-01T10:00:00", "D", "D", 3, 1),
	})

	ids := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		ids[n.ID] = true
	}
	for _, e := range g.Edges {
		if !ids[e.Source] || !ids[e.Target] {
			t.Errorf("edge %s->%s references a missing node", e.Source, e.Target)
		}
	}
	if len(g.Nodes) != 4 {
		t.Errorf("nodes = %d, want 4", len(g.Nodes))
	}
}

func TestBuildGraph_NodeMatchesBalances(t *testing.T) {
	txs := []model.Transaction{
		tx(0, "2024-03-01T10:00:00", "P1", "P2", 10, 0.1),
		tx(1, "2024-03-01T11:00:00", "P2", "P1", 4, 0.2),
	}
	g := BuildGraph(txs)
	balances := ComputeBalances(txs)

	for _, n := range g.Nodes {
		b := balances[n.ID]
		if b == nil {
			t.Fatalf("node %s has no balance entry", n.ID)
		}
		if n.TotalSold != b.TotalSold || n.TotalBought != b.TotalBought ||
			n.NetBalance != b.NetBalance || n.NetValue != b.NetValue ||
			n.TransactionCount != b.TransactionCount {
			t.Errorf("node %s = %+v, want balance fields %+v", n.ID, n, b)
		}
	}
}

func TestActivityScore_Monotonic(t *testing.T) {
	prev := 0.0
	for count := 1; count <= 300; count++ {
		s := activityScore(count)
		if s < prev {
			t.Fatalf("activityScore(%d) = %v decreased below %v", count, s, prev)
		}
		if s < 15 || s > 40 {
			t.Fatalf("activityScore(%d) = %v out of [15,40]", count, s)
		}
		prev = s
	}
}

func TestBuildGraph_Empty(t *testing.T) {
	g := BuildGraph(nil)
	if len(g.Nodes) != 0 || len(g.Edges) != 0 {
		t.Errorf("graph = %d nodes %d edges, want empty", len(g.Nodes), len(g.Edges))
	}
}
