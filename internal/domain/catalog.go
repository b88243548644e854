package domain

// stockKey — составной ключ снапшота остатков.
type stockKey struct {
	productID   string
	warehouseID string
}

// StockCatalog — неизменяемое in-memory представление справочников и остатков,
// собранное из данных внешней системы. Вся валидация заказа считается поверх
// одного такого снапшота; конкурирующие клиенты могут видеть разные снапшоты,
// поэтому авторитетная проверка остаётся за системой учёта.
type StockCatalog struct {
	warehouses map[string]Warehouse
	products   map[string]Product
	stock      map[stockKey]int32
}

// NewStockCatalog строит каталог из срезов справочных записей.
func NewStockCatalog(warehouses []Warehouse, products []Product, stocks []Stock) *StockCatalog {
	c := &StockCatalog{
		warehouses: make(map[string]Warehouse, len(warehouses)),
		products:   make(map[string]Product, len(products)),
		stock:      make(map[stockKey]int32, len(stocks)),
	}
	for _, w := range warehouses {
		c.warehouses[w.ID] = w
	}
	for _, p := range products {
		c.products[p.ID] = p
	}
	for _, s := range stocks {
		c.stock[stockKey{productID: s.ProductID, warehouseID: s.WarehouseID}] = s.AvailableQuantity
	}
	return c
}

// AvailableQuantity возвращает остаток продукта на складе; 0, если записи нет.
func (c *StockCatalog) AvailableQuantity(productID, warehouseID string) int32 {
	return c.stock[stockKey{productID: productID, warehouseID: warehouseID}]
}

// Product возвращает продукт каталога по идентификатору.
func (c *StockCatalog) Product(id string) (Product, bool) {
	p, ok := c.products[id]
	return p, ok
}

// Warehouse возвращает склад по идентификатору.
func (c *StockCatalog) Warehouse(id string) (Warehouse, bool) {
	w, ok := c.warehouses[id]
	return w, ok
}

// Warehouses возвращает все склады снапшота.
func (c *StockCatalog) Warehouses() []Warehouse {
	result := make([]Warehouse, 0, len(c.warehouses))
	for _, w := range c.warehouses {
		result = append(result, w)
	}
	return result
}
