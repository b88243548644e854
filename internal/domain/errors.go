package domain

import (
	"errors"
	"fmt"
)

var (
	// Ошибка количества меньше единицы в добавляемой позиции.
	ErrQuantityInvalid = errors.New("quantity must be at least 1")
	// Ошибка дубля: позиция для той же пары продукт+склад уже есть в черновике.
	ErrDuplicateLine = errors.New("order already contains a line for this product and warehouse")
	// Ошибка нехватки остатка по снапшоту стока.
	ErrInsufficientStock = errors.New("requested quantity exceeds available stock")
	// Ошибка ссылки на продукт, которого нет в каталоге.
	ErrUnknownProduct = errors.New("product is not present in the catalog")
	// Ошибка ссылки на склад, которого нет в справочнике.
	ErrUnknownWarehouse = errors.New("warehouse is not present in the catalog")
	// Ошибка пустого черновика при финализации.
	ErrLinesRequired = errors.New("order must contain at least one line")
	// Ошибка отсутствующего адреса доставки.
	ErrDeliveryAddressRequired = errors.New("delivery address is required")
	// Ошибка нарушения правила снабжения 80/20.
	ErrNotCompliant = errors.New("order does not meet the 80/20 sourcing rule")

	// Ошибка отсутствующей даты начала аффектации.
	ErrStartDateRequired = errors.New("start date is required")
	// Ошибка даты начала в прошлом.
	ErrStartDateInPast = errors.New("start date must not be in the past")
	// Ошибка даты окончания раньше даты начала.
	ErrEndDateBeforeStart = errors.New("end date must not be before start date")
	// Ошибка времени окончания, не превышающего время начала.
	ErrEndTimeNotAfterStart = errors.New("end time must be after start time")
	// Ошибка формата времени; ожидается HH:MM или HH:MM:SS.
	ErrTimeFormatInvalid = errors.New("time must be in HH:MM format")
	// Ошибка пересечения аффектаций одного трака.
	ErrTruckConflict = errors.New("truck is already assigned in this period")
	// Ошибка пересечения аффектаций одной точки.
	ErrLocationConflict = errors.New("location is already occupied in this period")
	// Ошибка трака, недоступного для планирования (ремонт/списание).
	ErrTruckUnavailable = errors.New("truck is not available for assignment")
	// Ошибка отсутствия действующего разрешения франшизы на точку.
	ErrLocationNotAuthorized = errors.New("franchise is not authorized for this location")

	// ErrWarehouseNotFound возвращается хранилищем, если склад не найден.
	ErrWarehouseNotFound = errors.New("warehouse not found")
	// ErrProductNotFound возвращается хранилищем, если продукт не найден.
	ErrProductNotFound = errors.New("product not found")
	// ErrTruckNotFound возвращается хранилищем, если трак не найден.
	ErrTruckNotFound = errors.New("truck not found")
	// ErrAssignmentNotFound возвращается хранилищем, если аффектация не найдена.
	ErrAssignmentNotFound = errors.New("assignment not found")
)

// InsufficientStockError уточняет ErrInsufficientStock: сколько запрошено
// и сколько доступно по снапшоту, чтобы UI мог подсказать пользователю.
type InsufficientStockError struct {
	ProductID   string
	WarehouseID string
	Requested   int32
	Available   int32
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s at warehouse %s: requested %d, available %d",
		e.ProductID, e.WarehouseID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// ComplianceError несёт полный результат расчёта 80/20, чтобы сообщение
// об ошибке объясняло, насколько черновик не дотягивает до порога.
type ComplianceError struct {
	Result ComplianceResult
}

func (e *ComplianceError) Error() string {
	return fmt.Sprintf("80/20 rule violated: %s", e.Result.Message)
}

func (e *ComplianceError) Unwrap() error { return ErrNotCompliant }

// ConflictError несёт идентификатор конфликтующей аффектации для
// пользовательского сообщения.
type ConflictError struct {
	Dimension     Dimension
	ConflictingID string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict with assignment %s", e.Dimension, e.ConflictingID)
}

func (e *ConflictError) Unwrap() error {
	if e.Dimension == DimensionLocation {
		return ErrLocationConflict
	}
	return ErrTruckConflict
}
