package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Порог правила снабжения: не менее 80% стоимости заказа должно приходиться
// на склады сети. Порог включительный — ровно 80% считается соответствием.
var (
	complianceThreshold = decimal.NewFromInt(80)
	hundred             = decimal.NewFromInt(100)
)

// emptyOrderIsCompliant — явная политика: пустой заказ (и любой заказ с нулевой
// стоимостью) считается соответствующим правилу, нарушать нечего. Поведение
// унаследовано от действующей системы; см. DESIGN.md.
const emptyOrderIsCompliant = true

// ComplianceResult — итог расчёта правила 80/20 по черновику заказа.
type ComplianceResult struct {
	Compliant        bool
	Ratio            decimal.Decimal // процент стоимости со складов сети
	IndependentRatio decimal.Decimal
	PrimaryValue     decimal.Decimal
	IndependentValue decimal.Decimal
	TotalValue       decimal.Decimal

	// Склады, реально задействованные в позициях — для отображения в UI.
	PrimaryWarehouses     []string
	IndependentWarehouses []string

	Message string
}

// ComputeCompliance вычисляет соответствие черновика правилу 80/20.
// Функция тотальна: не возвращает ошибок и не имеет побочных эффектов,
// её можно звать на каждое изменение формы. Позиции со складов, отсутствующих
// в справочнике, учитываются как независимые (консервативный вариант).
func ComputeCompliance(lines []OrderLine, warehouses []Warehouse) ComplianceResult {
	byID := make(map[string]Warehouse, len(warehouses))
	for _, w := range warehouses {
		byID[w.ID] = w
	}

	result := ComplianceResult{
		Ratio:            decimal.Zero,
		IndependentRatio: decimal.Zero,
		PrimaryValue:     decimal.Zero,
		IndependentValue: decimal.Zero,
		TotalValue:       decimal.Zero,
	}

	primarySeen := make(map[string]bool)
	independentSeen := make(map[string]bool)

	for _, line := range lines {
		value := line.Total()
		warehouse, known := byID[line.WarehouseID]
		if known && warehouse.IsPrimary() {
			result.PrimaryValue = result.PrimaryValue.Add(value)
			if !primarySeen[line.WarehouseID] {
				primarySeen[line.WarehouseID] = true
				result.PrimaryWarehouses = append(result.PrimaryWarehouses, line.WarehouseID)
			}
			continue
		}
		result.IndependentValue = result.IndependentValue.Add(value)
		if !independentSeen[line.WarehouseID] {
			independentSeen[line.WarehouseID] = true
			result.IndependentWarehouses = append(result.IndependentWarehouses, line.WarehouseID)
		}
	}

	result.TotalValue = result.PrimaryValue.Add(result.IndependentValue)

	if result.TotalValue.IsZero() {
		result.Compliant = emptyOrderIsCompliant
		result.Message = "empty order"
		return result
	}

	// Решение принимается точной арифметикой: primary*100 >= total*80,
	// без деления — граница 80.0% не зависит от точности дроби.
	result.Compliant = result.PrimaryValue.Mul(hundred).
		Cmp(result.TotalValue.Mul(complianceThreshold)) >= 0

	result.Ratio = result.PrimaryValue.Mul(hundred).Div(result.TotalValue)
	result.IndependentRatio = result.IndependentValue.Mul(hundred).Div(result.TotalValue)

	if result.Compliant {
		result.Message = fmt.Sprintf("compliant: %s%% primary (%d warehouses), %s%% independent (%d warehouses)",
			result.Ratio.StringFixed(1), len(result.PrimaryWarehouses),
			result.IndependentRatio.StringFixed(1), len(result.IndependentWarehouses))
	} else {
		result.Message = fmt.Sprintf("non-compliant: %s%% primary (minimum 80%%), %s%% independent",
			result.Ratio.StringFixed(1), result.IndependentRatio.StringFixed(1))
	}

	return result
}
