package seed_test

import (
	"testing"

	"github.com/drivncook/fleetops/internal/domain"
	"github.com/drivncook/fleetops/internal/service/seed"
	"github.com/drivncook/fleetops/internal/storage/memory"
)

func demoRegistries() seed.Registries {
	return seed.Registries{
		Warehouses:     memory.NewWarehouseRepository(),
		Products:       memory.NewProductRepository(),
		Stocks:         memory.NewStockRepository(),
		Trucks:         memory.NewTruckRepository(),
		Assignments:    memory.NewAssignmentRepository(),
		Authorizations: memory.NewAuthorizationRepository(),
	}
}

func TestDemoLoadsAllRegistries(t *testing.T) {
	reg := demoRegistries()

	total := seed.Demo(reg)
	if total == 0 {
		t.Fatal("Demo should report loaded records")
	}

	warehouses, err := reg.Warehouses.List()
	if err != nil {
		t.Fatalf("list warehouses: %v", err)
	}
	if len(warehouses) == 0 {
		t.Fatal("expected seeded warehouses")
	}

	hasPrimary, hasIndependent := false, false
	for _, w := range warehouses {
		switch w.Category {
		case domain.WarehouseCategoryPrimary:
			hasPrimary = true
		case domain.WarehouseCategoryIndependent:
			hasIndependent = true
		}
	}
	if !hasPrimary || !hasIndependent {
		t.Fatal("demo dataset must contain both warehouse categories")
	}

	products, err := reg.Products.List()
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	stocks, err := reg.Stocks.List()
	if err != nil {
		t.Fatalf("list stocks: %v", err)
	}
	trucks, err := reg.Trucks.List()
	if err != nil {
		t.Fatalf("list trucks: %v", err)
	}
	assignments, err := reg.Assignments.List()
	if err != nil {
		t.Fatalf("list assignments: %v", err)
	}
	if len(products) == 0 || len(stocks) == 0 || len(trucks) == 0 || len(assignments) == 0 {
		t.Fatal("demo dataset must fill every registry")
	}
}

func TestDemoStockReferencesAreConsistent(t *testing.T) {
	reg := demoRegistries()
	seed.Demo(reg)

	warehouses, _ := reg.Warehouses.List()
	products, _ := reg.Products.List()
	stocks, _ := reg.Stocks.List()

	knownWarehouses := make(map[string]bool, len(warehouses))
	for _, w := range warehouses {
		knownWarehouses[w.ID] = true
	}
	knownProducts := make(map[string]bool, len(products))
	for _, p := range products {
		knownProducts[p.ID] = true
	}

	for _, s := range stocks {
		if !knownWarehouses[s.WarehouseID] {
			t.Errorf("stock references unknown warehouse %s", s.WarehouseID)
		}
		if !knownProducts[s.ProductID] {
			t.Errorf("stock references unknown product %s", s.ProductID)
		}
		if s.AvailableQuantity <= 0 {
			t.Errorf("stock for %s/%s has non-positive quantity", s.ProductID, s.WarehouseID)
		}
	}
}

func TestDemoIsIdempotent(t *testing.T) {
	reg := demoRegistries()

	first := seed.Demo(reg)
	second := seed.Demo(reg)
	if first != second {
		t.Fatalf("repeated seeding changed record count: %d vs %d", first, second)
	}

	warehouses, _ := reg.Warehouses.List()
	seen := make(map[string]bool, len(warehouses))
	for _, w := range warehouses {
		if seen[w.ID] {
			t.Fatalf("duplicate warehouse %s after re-seeding", w.ID)
		}
		seen[w.ID] = true
	}
}
