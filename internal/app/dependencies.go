package app

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/drivncook/fleetops/internal/domain"
	"github.com/drivncook/fleetops/internal/service/seed"
	"github.com/drivncook/fleetops/internal/storage/memory"
	"github.com/drivncook/fleetops/internal/storage/postgres"
)

// Dependencies содержит все зависимости приложения. Репозитории либо
// in-memory (локальная разработка и тесты), либо читают снапшоты из
// Postgres внешней системы учёта — выбор делает NewDependencies по DSN.
type Dependencies struct {
	Warehouses     domain.WarehouseRepository
	Products       domain.ProductRepository
	Stocks         domain.StockRepository
	Trucks         domain.TruckRepository
	Assignments    domain.AssignmentRepository
	Authorizations domain.AuthorizationRepository

	// Store ненулевой только в Postgres-режиме; используется для
	// health-проверки и закрытия пула при остановке.
	Store *postgres.Store

	Logger *log.Entry

	snapshotLoadedAt atomic.Int64
}

// SnapshotLoadedAt возвращает момент последней загрузки снапшота
// справочников; нулевое время — снапшот не загружался.
func (d *Dependencies) SnapshotLoadedAt() time.Time {
	nanos := d.snapshotLoadedAt.Load()
	if nanos == 0 {
		return time.Time{}
	}
	return time.Unix(0, nanos)
}

func (d *Dependencies) markSnapshotLoaded() {
	d.snapshotLoadedAt.Store(time.Now().UnixNano())
}

// Close освобождает ресурсы зависимостей.
func (d *Dependencies) Close() error {
	if d.Store != nil {
		return d.Store.Close()
	}
	return nil
}

// NewDependencies создаёт зависимости приложения по конфигурации.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	deps := &Dependencies{Logger: logger}

	if cfg.PostgresDSN != "" {
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}

		deps.Store = store
		deps.Warehouses = postgres.NewWarehouseRepository(store)
		deps.Products = postgres.NewProductRepository(store)
		deps.Stocks = postgres.NewStockRepository(store)
		deps.Trucks = postgres.NewTruckRepository(store)
		deps.Assignments = postgres.NewAssignmentRepository(store)
		deps.Authorizations = postgres.NewAuthorizationRepository(store)
		deps.markSnapshotLoaded()

		logger.Info("справочники читаются из Postgres")
		return deps, nil
	}

	registries := seed.Registries{
		Warehouses:     memory.NewWarehouseRepository(),
		Products:       memory.NewProductRepository(),
		Stocks:         memory.NewStockRepository(),
		Trucks:         memory.NewTruckRepository(),
		Assignments:    memory.NewAssignmentRepository(),
		Authorizations: memory.NewAuthorizationRepository(),
	}

	deps.Warehouses = registries.Warehouses
	deps.Products = registries.Products
	deps.Stocks = registries.Stocks
	deps.Trucks = registries.Trucks
	deps.Assignments = registries.Assignments
	deps.Authorizations = registries.Authorizations

	if cfg.SeedDemo {
		records := seed.Demo(registries)
		deps.markSnapshotLoaded()
		logger.WithField("records", records).Info("загружен демонстрационный набор справочников")
	} else {
		logger.Warn("реестры пусты: DSN не задан и демо-набор выключен")
	}

	return deps, nil
}
