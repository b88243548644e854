package domain

// Хранилища снапшотов. Ядро читает справочники и аффектации, видимые
// текущему актору; записью владеет внешняя система учёта.

// WarehouseRepository описывает доступ к справочнику складов.
type WarehouseRepository interface {
	// List возвращает все склады снапшота.
	List() ([]Warehouse, error)
	// Get возвращает склад или ErrWarehouseNotFound.
	Get(id string) (Warehouse, error)
}

// ProductRepository описывает доступ к каталогу продуктов.
type ProductRepository interface {
	List() ([]Product, error)
	// Get возвращает продукт или ErrProductNotFound.
	Get(id string) (Product, error)
}

// StockRepository описывает доступ к снапшоту остатков.
type StockRepository interface {
	List() ([]Stock, error)
	// ListByWarehouse возвращает остатки одного склада.
	ListByWarehouse(warehouseID string) ([]Stock, error)
}

// TruckRepository описывает доступ к справочнику траков.
type TruckRepository interface {
	List() ([]Truck, error)
	// Get возвращает трак или ErrTruckNotFound.
	Get(id string) (Truck, error)
}

// AssignmentRepository описывает доступ к аффектациям.
type AssignmentRepository interface {
	List() ([]Assignment, error)
	// ListByTruck возвращает аффектации одного трака.
	ListByTruck(truckID string) ([]Assignment, error)
	// ListByLocation возвращает аффектации одной точки.
	ListByLocation(locationID string) ([]Assignment, error)
}

// AuthorizationRepository описывает доступ к разрешениям франшиз на точки.
type AuthorizationRepository interface {
	// ListByFranchise возвращает разрешения одной франшизы.
	ListByFranchise(franchiseID string) ([]LocationAuthorization, error)
}
