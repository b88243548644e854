package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WarehouseCategory описывает тип склада для правила снабжения 80/20.
type WarehouseCategory string

const (
	// WarehouseCategoryPrimary — склад сети Driv'n Cook; минимум 80% стоимости заказа.
	WarehouseCategoryPrimary WarehouseCategory = "primary"
	// WarehouseCategoryIndependent — внешний/свободный поставщик; не более 20% стоимости.
	WarehouseCategoryIndependent WarehouseCategory = "independent"
)

// Warehouse — справочная запись склада. Для ядра валидации данные неизменяемы.
type Warehouse struct {
	ID       string
	Name     string
	Category WarehouseCategory
}

// IsPrimary сообщает, относится ли склад к сети.
func (w Warehouse) IsPrimary() bool {
	return w.Category == WarehouseCategoryPrimary
}

// Product — позиция каталога продуктов.
type Product struct {
	ID        string
	Name      string
	Unit      string
	UnitPrice decimal.Decimal
}

// Stock — снапшот доступного количества продукта на складе.
// Пополнение происходит во внешней системе; ядро только читает.
type Stock struct {
	ProductID         string
	WarehouseID       string
	AvailableQuantity int32
}

// TruckStatus описывает эксплуатационное состояние фудтрака.
type TruckStatus string

const (
	TruckStatusAvailable    TruckStatus = "available"
	TruckStatusInService    TruckStatus = "in_service"
	TruckStatusMaintenance  TruckStatus = "maintenance"
	TruckStatusOutOfService TruckStatus = "out_of_service"
)

// Truck — фудтрак франчайзи.
type Truck struct {
	ID          string
	Number      string
	FranchiseID string
	Status      TruckStatus
}

// Assignable сообщает, можно ли планировать трак на точку.
// Траки в ремонте и списанные не участвуют в аффектациях.
func (t Truck) Assignable() bool {
	return t.Status == TruckStatusAvailable || t.Status == TruckStatusInService
}

// Location — торговая точка, на которую отправляется трак.
type Location struct {
	ID   string
	Name string
}

// LocationAuthorization — разрешение франшизы работать на точке.
// Пустая ExpiresAt означает бессрочное разрешение.
type LocationAuthorization struct {
	FranchiseID string
	LocationID  string
	Active      bool
	ExpiresAt   time.Time
}

// ValidOn проверяет, действует ли разрешение на указанную дату.
func (a LocationAuthorization) ValidOn(day time.Time) bool {
	if !a.Active {
		return false
	}
	if a.ExpiresAt.IsZero() {
		return true
	}
	return !DateOnly(day).After(DateOnly(a.ExpiresAt))
}
