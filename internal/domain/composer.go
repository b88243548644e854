package domain

import "time"

// AddLineRequest — кандидат на добавление в черновик. Цена не передаётся:
// она фиксируется из каталога в момент добавления.
type AddLineRequest struct {
	ProductID   string
	WarehouseID string
	Quantity    int32
}

// AddLine валидирует кандидата против снапшота каталога и возвращает новый
// срез позиций. Исходный срез не мутируется: черновик — неизменяемое значение,
// каждая операция возвращает следующую версию.
func AddLine(lines []OrderLine, req AddLineRequest, catalog *StockCatalog) ([]OrderLine, error) {
	if req.Quantity < 1 {
		return nil, ErrQuantityInvalid
	}

	product, ok := catalog.Product(req.ProductID)
	if !ok {
		return nil, ErrUnknownProduct
	}
	if _, ok := catalog.Warehouse(req.WarehouseID); !ok {
		return nil, ErrUnknownWarehouse
	}

	// Дубль отклоняется независимо от количества: объединение позиций —
	// решение пользователя, а не ядра.
	for _, line := range lines {
		if line.ProductID == req.ProductID && line.WarehouseID == req.WarehouseID {
			return nil, ErrDuplicateLine
		}
	}

	available := catalog.AvailableQuantity(req.ProductID, req.WarehouseID)
	if req.Quantity > available {
		return nil, &InsufficientStockError{
			ProductID:   req.ProductID,
			WarehouseID: req.WarehouseID,
			Requested:   req.Quantity,
			Available:   available,
		}
	}

	next := make([]OrderLine, 0, len(lines)+1)
	next = append(next, lines...)
	next = append(next, OrderLine{
		ProductID:   req.ProductID,
		WarehouseID: req.WarehouseID,
		Quantity:    req.Quantity,
		UnitPrice:   product.UnitPrice,
	})
	return next, nil
}

// RemoveLine возвращает черновик без позиции с указанным индексом.
// Индекс вне диапазона оставляет черновик без изменений.
func RemoveLine(lines []OrderLine, index int) []OrderLine {
	if index < 0 || index >= len(lines) {
		return lines
	}
	next := make([]OrderLine, 0, len(lines)-1)
	next = append(next, lines[:index]...)
	next = append(next, lines[index+1:]...)
	return next
}

// Finalize проверяет готовность черновика к отправке и возвращает его копию
// в статусе submitted. Требования: хотя бы одна позиция, адрес доставки и
// соответствие правилу 80/20. Ядро не отправляет заказ само — кандидата
// принимает или отклоняет внешняя система учёта.
func Finalize(order Order, catalog *StockCatalog) (Order, error) {
	if len(order.Lines) == 0 {
		return Order{}, ErrLinesRequired
	}
	if order.DeliveryAddress == "" {
		return Order{}, ErrDeliveryAddressRequired
	}

	compliance := ComputeCompliance(order.Lines, catalog.Warehouses())
	if !compliance.Compliant {
		return Order{}, &ComplianceError{Result: compliance}
	}

	submitted := order
	submitted.Status = OrderStatusSubmitted
	submitted.UpdatedAt = time.Now().UTC()
	return submitted, nil
}
