// Package seed наполняет in-memory реестры демонстрационным набором
// справочных данных: четыре склада сети, рынок, каталог продуктов,
// траки и точки парижских франшиз. Набор используется для локальной
// разработки и интеграционных тестов, когда Postgres не настроен.
package seed

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/drivncook/fleetops/internal/domain"
	"github.com/drivncook/fleetops/internal/storage/memory"
)

// Registries — изменяемые реестры, которые наполняет сидер.
type Registries struct {
	Warehouses     *memory.WarehouseRepository
	Products       *memory.ProductRepository
	Stocks         *memory.StockRepository
	Trucks         *memory.TruckRepository
	Assignments    *memory.AssignmentRepository
	Authorizations *memory.AuthorizationRepository
}

func price(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func day(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

// Demo загружает демонстрационный набор и возвращает число записей.
// Существующее содержимое реестров замещается целиком.
func Demo(reg Registries) int {
	warehouses := []domain.Warehouse{
		{ID: "wh-paris-nord", Name: "Entrepôt Paris Nord", Category: domain.WarehouseCategoryPrimary},
		{ID: "wh-ivry", Name: "Entrepôt Ivry-sur-Seine", Category: domain.WarehouseCategoryPrimary},
		{ID: "wh-nanterre", Name: "Entrepôt Nanterre", Category: domain.WarehouseCategoryPrimary},
		{ID: "wh-creteil", Name: "Entrepôt Créteil", Category: domain.WarehouseCategoryPrimary},
		{ID: "wh-rungis", Name: "Marché de Rungis", Category: domain.WarehouseCategoryIndependent},
	}

	products := []domain.Product{
		{ID: "prod-buns", Name: "Pains burger artisanaux", Unit: "pcs", UnitPrice: price("0.55")},
		{ID: "prod-beef", Name: "Steak haché charolais", Unit: "kg", UnitPrice: price("12.40")},
		{ID: "prod-cheese", Name: "Cheddar affiné", Unit: "kg", UnitPrice: price("9.80")},
		{ID: "prod-fries", Name: "Frites fraîches", Unit: "kg", UnitPrice: price("2.10")},
		{ID: "prod-salad", Name: "Salade batavia", Unit: "pcs", UnitPrice: price("1.15")},
		{ID: "prod-sauce", Name: "Sauce maison", Unit: "l", UnitPrice: price("4.60")},
		{ID: "prod-cola", Name: "Cola artisanal 33cl", Unit: "pcs", UnitPrice: price("0.95")},
	}

	stocks := []domain.Stock{
		{ProductID: "prod-buns", WarehouseID: "wh-paris-nord", AvailableQuantity: 1200},
		{ProductID: "prod-beef", WarehouseID: "wh-paris-nord", AvailableQuantity: 180},
		{ProductID: "prod-cheese", WarehouseID: "wh-paris-nord", AvailableQuantity: 90},
		{ProductID: "prod-fries", WarehouseID: "wh-ivry", AvailableQuantity: 400},
		{ProductID: "prod-salad", WarehouseID: "wh-ivry", AvailableQuantity: 250},
		{ProductID: "prod-sauce", WarehouseID: "wh-nanterre", AvailableQuantity: 60},
		{ProductID: "prod-cola", WarehouseID: "wh-creteil", AvailableQuantity: 800},
		{ProductID: "prod-beef", WarehouseID: "wh-rungis", AvailableQuantity: 75},
		{ProductID: "prod-salad", WarehouseID: "wh-rungis", AvailableQuantity: 300},
	}

	trucks := []domain.Truck{
		{ID: "truck-01", Number: "FT-001", FranchiseID: "fr-montparnasse", Status: domain.TruckStatusAvailable},
		{ID: "truck-02", Number: "FT-002", FranchiseID: "fr-montparnasse", Status: domain.TruckStatusInService},
		{ID: "truck-03", Number: "FT-003", FranchiseID: "fr-bastille", Status: domain.TruckStatusMaintenance},
		{ID: "truck-04", Number: "FT-004", FranchiseID: "fr-bastille", Status: domain.TruckStatusAvailable},
	}

	assignments := []domain.Assignment{
		{
			ID: "as-001", TruckID: "truck-01", LocationID: "loc-republique",
			StartDate: day("2030-06-03"), EndDate: day("2030-06-07"),
			StartTime: "11:00", EndTime: "15:00",
			Status: domain.AssignmentStatusScheduled,
		},
		{
			ID: "as-002", TruckID: "truck-02", LocationID: "loc-defense",
			StartDate: day("2030-06-05"),
			StartTime: "18:00", EndTime: "22:30",
			Status: domain.AssignmentStatusScheduled,
		},
		{
			ID: "as-003", TruckID: "truck-04", LocationID: "loc-bercy",
			StartDate: day("2030-05-20"), EndDate: day("2030-05-21"),
			Status: domain.AssignmentStatusCancelled,
		},
	}

	authorizations := []domain.LocationAuthorization{
		{FranchiseID: "fr-montparnasse", LocationID: "loc-republique", Active: true},
		{FranchiseID: "fr-montparnasse", LocationID: "loc-defense", Active: true, ExpiresAt: day("2031-01-01")},
		{FranchiseID: "fr-bastille", LocationID: "loc-bercy", Active: true},
		{FranchiseID: "fr-bastille", LocationID: "loc-republique", Active: false},
	}

	reg.Warehouses.ReplaceAll(warehouses)
	reg.Products.ReplaceAll(products)
	reg.Stocks.ReplaceAll(stocks)
	reg.Trucks.ReplaceAll(trucks)
	reg.Assignments.ReplaceAll(assignments)
	reg.Authorizations.ReplaceAll(authorizations)

	return len(warehouses) + len(products) + len(stocks) +
		len(trucks) + len(assignments) + len(authorizations)
}
