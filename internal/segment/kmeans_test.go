package segment

import (
	"fmt"
	"testing"

	"adash/internal/analytics"

	"github.com/shopspring/decimal"
)

func customer(name string, spend int64, qty int64, products, categories, transactions int) analytics.CustomerActivity {
	return analytics.CustomerActivity{
		Customer:           name,
		Spend:              decimal.NewFromInt(spend),
		Quantity:           qty,
		DistinctProducts:   products,
		DistinctCategories: categories,
		Transactions:       transactions,
	}
}

// twoPopulations builds clearly separated big spenders and small spenders.
func twoPopulations() []analytics.CustomerActivity {
	var customers []analytics.CustomerActivity
	for i := 0; i < 5; i++ {
		customers = append(customers, customer(fmt.Sprintf("big-%d", i), 10000+int64(i*50), 200, 20, 8, 40))
	}
	for i := 0; i < 5; i++ {
		customers = append(customers, customer(fmt.Sprintf("small-%d", i), 50+int64(i), 3, 2, 1, 2))
	}
	return customers
}

func TestAssign_EveryCustomerLabeledExactlyOnce(t *testing.T) {
	cfg := DefaultConfig()
	engine, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	customers := twoPopulations()
	clustered, err := engine.Assign(customers)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}

	if len(clustered) != len(customers) {
		t.Fatalf("expected %d labeled customers, got %d", len(customers), len(clustered))
	}

	seen := make(map[string]bool)
	labels := make(map[int]bool)
	for _, c := range clustered {
		if seen[c.Customer] {
			t.Errorf("customer %q appears more than once", c.Customer)
		}
		seen[c.Customer] = true
		if c.Cluster < 0 || c.Cluster >= cfg.Clusters {
			t.Errorf("label %d out of range [0, %d)", c.Cluster, cfg.Clusters)
		}
		labels[c.Cluster] = true
	}
	if len(labels) > cfg.Clusters {
		t.Errorf("distinct labels %d exceed configured cluster count %d", len(labels), cfg.Clusters)
	}
}

func TestAssign_SeparatesDistinctPopulations(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Clusters = 2
	engine, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	clustered, err := engine.Assign(twoPopulations())
	if err != nil {
		t.Fatalf("assign: %v", err)
	}

	bigLabel, smallLabel := -1, -1
	for _, c := range clustered {
		if c.Spend.GreaterThan(decimal.NewFromInt(1000)) {
			if bigLabel == -1 {
				bigLabel = c.Cluster
			} else if c.Cluster != bigLabel {
				t.Errorf("big spender %q split across clusters", c.Customer)
			}
		} else {
			if smallLabel == -1 {
				smallLabel = c.Cluster
			} else if c.Cluster != smallLabel {
				t.Errorf("small spender %q split across clusters", c.Customer)
			}
		}
	}
	if bigLabel == smallLabel {
		t.Errorf("expected the two populations in different clusters")
	}
}

func TestAssign_IdenticalCustomersShareOneCluster(t *testing.T) {
	// Degenerate variance: identical feature vectors must not divide by zero
	// and must all land in the same cluster.
	var customers []analytics.CustomerActivity
	for i := 0; i < 6; i++ {
		customers = append(customers, customer(fmt.Sprintf("c-%d", i), 100, 10, 3, 2, 5))
	}

	engine, err := NewEngine(DefaultConfig())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	clustered, err := engine.Assign(customers)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}

	first := clustered[0].Cluster
	for _, c := range clustered {
		if c.Cluster != first {
			t.Errorf("identical customers must share a cluster: %q got %d, want %d", c.Customer, c.Cluster, first)
		}
	}
}

func TestAssign_DeterministicForFixedSeed(t *testing.T) {
	customers := twoPopulations()

	run := func() []ClusteredCustomer {
		engine, err := NewEngine(DefaultConfig())
		if err != nil {
			t.Fatalf("engine: %v", err)
		}
		clustered, err := engine.Assign(customers)
		if err != nil {
			t.Fatalf("assign: %v", err)
		}
		return clustered
	}

	first, second := run(), run()
	for i := range first {
		if first[i].Cluster != second[i].Cluster {
			t.Fatalf("seeded runs diverged at %q: %d vs %d", first[i].Customer, first[i].Cluster, second[i].Cluster)
		}
	}
}

func TestAssign_FewerCustomersThanClusters(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Clusters = 5
	engine, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	clustered, err := engine.Assign([]analytics.CustomerActivity{
		customer("only", 100, 10, 3, 2, 5),
	})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if len(clustered) != 1 || clustered[0].Cluster != 0 {
		t.Errorf("expected the single customer in cluster 0, got %+v", clustered)
	}
}

func TestAssign_EmptyInput(t *testing.T) {
	engine, err := NewEngine(DefaultConfig())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	clustered, err := engine.Assign(nil)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if len(clustered) != 0 {
		t.Errorf("expected empty result, got %v", clustered)
	}
}

func TestNewEngine_RejectsBadConfig(t *testing.T) {
	cases := []Config{
		{Clusters: 0, MaxIterations: 10, Features: []Feature{FeatureSpend}},
		{Clusters: 3, MaxIterations: 0, Features: []Feature{FeatureSpend}},
		{Clusters: 3, MaxIterations: 10},
	}
	for i, cfg := range cases {
		if _, err := NewEngine(cfg); err == nil {
			t.Errorf("case %d: expected config validation error", i)
		}
	}
}

func TestProfile_SizesAndMeans(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Clusters = 2
	engine, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	customers := twoPopulations()
	clustered, err := engine.Assign(customers)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}

	profiles := engine.Profile(clustered)
	if len(profiles) != 2 {
		t.Fatalf("expected 2 cluster profiles, got %d", len(profiles))
	}

	totalSize := 0
	for _, p := range profiles {
		totalSize += p.Size
		if _, ok := p.Means[FeatureSpend]; !ok {
			t.Errorf("cluster %d profile missing spend mean", p.Cluster)
		}
	}
	if totalSize != len(customers) {
		t.Errorf("profile sizes must sum to the customer count: %d != %d", totalSize, len(customers))
	}
}
