package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus описывает жизненный цикл заказа снабжения.
type OrderStatus string

const (
	// OrderStatusDraft — заказ собирается франчайзи и ещё не прошёл валидацию.
	OrderStatusDraft OrderStatus = "draft"
	// OrderStatusSubmitted — черновик прошёл локальные проверки и готов к отправке
	// во внешнюю систему учёта.
	OrderStatusSubmitted OrderStatus = "submitted"
)

// OrderLine — одна позиция заказа. Пара (ProductID, WarehouseID) уникальна
// внутри заказа; цена фиксируется в момент добавления позиции и далее не
// пересчитывается, чтобы изменение каталога не меняло собранный черновик.
type OrderLine struct {
	ProductID   string
	WarehouseID string
	Quantity    int32
	UnitPrice   decimal.Decimal
}

// Total возвращает стоимость позиции: количество × зафиксированная цена.
func (l OrderLine) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt32(l.Quantity))
}

// Order агрегирует черновик заказа снабжения.
type Order struct {
	ID              string
	Number          string
	FranchiseID     string
	Lines           []OrderLine
	DeliveryAddress string
	Status          OrderStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TotalValue возвращает суммарную стоимость всех позиций.
func (o Order) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, line := range o.Lines {
		total = total.Add(line.Total())
	}
	return total
}

// NextOrderNumber формирует номер заказа вида CMD-YYYYMMDD-NNNN.
// Последовательность в рамках дня ведёт вызывающая сторона.
func NextOrderNumber(day time.Time, seq int) string {
	return fmt.Sprintf("CMD-%s-%04d", day.UTC().Format("20060102"), seq)
}
