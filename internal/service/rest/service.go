package rest

import (
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/drivncook/fleetops/internal/domain"
	"github.com/drivncook/fleetops/internal/metrics"
)

const (
	checkCompliance = "compliance"
	checkLine       = "line"
	checkFinalize   = "finalize"
	checkSchedule   = "schedule"
)

// Dependencies — зависимости валидационного сервиса.
type Dependencies struct {
	Warehouses     domain.WarehouseRepository
	Products       domain.ProductRepository
	Stocks         domain.StockRepository
	Trucks         domain.TruckRepository
	Assignments    domain.AssignmentRepository
	Authorizations domain.AuthorizationRepository

	Planner *domain.Planner
	Metrics *metrics.ValidationMetrics
	Logger  *log.Entry
}

// Service реализует HTTP/JSON API поверх доменных проверок. Сервис без
// состояния: каждый запрос валидируется против текущего снапшота
// справочников, авторитет остаётся за внешней системой учёта.
type Service struct {
	deps     Dependencies
	orderSeq atomic.Int64
	now      func() time.Time
}

// NewService конструирует сервис с зависимостями.
func NewService(deps Dependencies) *Service {
	if deps.Planner == nil {
		deps.Planner = domain.NewPlanner()
	}
	if deps.Logger == nil {
		deps.Logger = log.New().WithField("component", "rest-service")
	}
	return &Service{
		deps: deps,
		now:  time.Now,
	}
}

// Handler возвращает роутер API.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/orders/lines/check", s.handleCheckLine)
	mux.HandleFunc("POST /api/v1/orders/compliance", s.handleCompliance)
	mux.HandleFunc("POST /api/v1/orders/finalize", s.handleFinalize)
	mux.HandleFunc("POST /api/v1/assignments/validate", s.handleValidateAssignment)

	mux.HandleFunc("GET /api/v1/warehouses", s.handleListWarehouses)
	mux.HandleFunc("GET /api/v1/products", s.handleListProducts)
	mux.HandleFunc("GET /api/v1/stocks", s.handleListStocks)
	mux.HandleFunc("GET /api/v1/assignments", s.handleListAssignments)

	return mux
}

// loadCatalog собирает снапшот каталога из настроенных репозиториев.
func (s *Service) loadCatalog() (*domain.StockCatalog, []domain.Warehouse, error) {
	warehouses, err := s.deps.Warehouses.List()
	if err != nil {
		return nil, nil, fmt.Errorf("load warehouses: %w", err)
	}
	products, err := s.deps.Products.List()
	if err != nil {
		return nil, nil, fmt.Errorf("load products: %w", err)
	}
	stocks, err := s.deps.Stocks.List()
	if err != nil {
		return nil, nil, fmt.Errorf("load stocks: %w", err)
	}

	if s.deps.Metrics != nil {
		s.deps.Metrics.RecordSnapshotSize(len(warehouses) + len(products) + len(stocks))
	}

	return domain.NewStockCatalog(warehouses, products, stocks), warehouses, nil
}

func (s *Service) handleCheckLine(w http.ResponseWriter, r *http.Request) {
	start := s.now()

	var req CheckLineRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMalformed(w, err.Error())
		return
	}

	lines, err := dtoToLines(req.Lines)
	if err != nil {
		writeMalformed(w, err.Error())
		return
	}

	catalog, _, err := s.loadCatalog()
	if err != nil {
		s.deps.Logger.WithError(err).Error("не удалось загрузить снапшот каталога")
		writeInternal(w, "catalog snapshot is unavailable")
		return
	}

	next, err := domain.AddLine(lines, domain.AddLineRequest{
		ProductID:   req.Line.ProductID,
		WarehouseID: req.Line.WarehouseID,
		Quantity:    req.Line.Quantity,
	}, catalog)

	s.observeDuration(checkLine, start)

	if err != nil {
		if s.deps.Metrics != nil {
			s.deps.Metrics.RecordLineRejection(violationFromError(err).Code)
		}
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CheckLineResponse{Lines: linesToDTO(next)})
}

func (s *Service) handleCompliance(w http.ResponseWriter, r *http.Request) {
	start := s.now()

	var req ComplianceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMalformed(w, err.Error())
		return
	}

	lines, err := dtoToLines(req.Lines)
	if err != nil {
		writeMalformed(w, err.Error())
		return
	}

	warehouses, err := s.deps.Warehouses.List()
	if err != nil {
		s.deps.Logger.WithError(err).Error("не удалось загрузить справочник складов")
		writeInternal(w, "warehouse snapshot is unavailable")
		return
	}

	result := domain.ComputeCompliance(lines, warehouses)

	s.observeDuration(checkCompliance, start)
	if s.deps.Metrics != nil {
		s.deps.Metrics.RecordComplianceCheck(result.Compliant)
	}

	writeJSON(w, http.StatusOK, complianceToDTO(result))
}

func (s *Service) handleFinalize(w http.ResponseWriter, r *http.Request) {
	start := s.now()

	var req FinalizeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMalformed(w, err.Error())
		return
	}

	lines, err := dtoToLines(req.Lines)
	if err != nil {
		writeMalformed(w, err.Error())
		return
	}

	catalog, warehouses, err := s.loadCatalog()
	if err != nil {
		s.deps.Logger.WithError(err).Error("не удалось загрузить снапшот каталога")
		writeInternal(w, "catalog snapshot is unavailable")
		return
	}

	now := s.now().UTC()
	order := domain.Order{
		ID:              req.OrderID,
		FranchiseID:     req.FranchiseID,
		Lines:           lines,
		DeliveryAddress: req.DeliveryAddress,
		Status:          domain.OrderStatusDraft,
		CreatedAt:       now,
	}
	if order.ID == "" {
		order.ID = uuid.NewString()
	}

	submitted, err := domain.Finalize(order, catalog)

	s.observeDuration(checkFinalize, start)

	if err != nil {
		if s.deps.Metrics != nil && errors.Is(err, domain.ErrNotCompliant) {
			s.deps.Metrics.RecordComplianceCheck(false)
		}
		writeDomainError(w, err)
		return
	}

	submitted.Number = domain.NextOrderNumber(now, int(s.orderSeq.Add(1)))

	compliance := domain.ComputeCompliance(submitted.Lines, warehouses)
	if s.deps.Metrics != nil {
		s.deps.Metrics.RecordComplianceCheck(compliance.Compliant)
	}

	s.deps.Logger.WithFields(log.Fields{
		"order_id": submitted.ID,
		"number":   submitted.Number,
		"lines":    len(submitted.Lines),
	}).Info("черновик заказа принят к отправке")

	writeJSON(w, http.StatusOK, FinalizeResponse{Order: ComplianceAwareOrder{
		OrderDTO:   orderToDTO(submitted),
		Compliance: complianceToDTO(compliance),
	}})
}

func (s *Service) handleValidateAssignment(w http.ResponseWriter, r *http.Request) {
	start := s.now()

	var req ValidateAssignmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMalformed(w, err.Error())
		return
	}

	draft, err := req.toDraft()
	if err != nil {
		writeMalformed(w, err.Error())
		return
	}

	existing, err := s.deps.Assignments.List()
	if err != nil {
		s.deps.Logger.WithError(err).Error("не удалось загрузить снапшот аффектаций")
		writeInternal(w, "assignment snapshot is unavailable")
		return
	}

	input := domain.PlannerInput{Existing: existing}

	// Проверки трака и разрешений включаются только при наличии данных.
	if draft.TruckID != "" && s.deps.Trucks != nil {
		if truck, err := s.deps.Trucks.Get(draft.TruckID); err == nil {
			input.Truck = &truck
		} else if !errors.Is(err, domain.ErrTruckNotFound) {
			s.deps.Logger.WithError(err).Error("не удалось загрузить запись трака")
			writeInternal(w, "truck snapshot is unavailable")
			return
		}
	}
	if req.CheckAuthorization && s.deps.Authorizations != nil {
		auths, err := s.deps.Authorizations.ListByFranchise(draft.FranchiseID)
		if err != nil {
			s.deps.Logger.WithError(err).Error("не удалось загрузить разрешения франшизы")
			writeInternal(w, "authorization snapshot is unavailable")
			return
		}
		input.Authorizations = auths
		input.CheckAuthorization = true
	}

	violations := s.deps.Planner.Validate(draft, input)

	s.observeDuration(checkSchedule, start)
	if s.deps.Metrics != nil {
		s.deps.Metrics.RecordScheduleCheck(len(violations) == 0)
		for _, v := range violations {
			var conflict *domain.ConflictError
			if errors.As(v, &conflict) {
				s.deps.Metrics.RecordConflict(string(conflict.Dimension))
			}
		}
	}

	resp := ValidateAssignmentResponse{
		Valid:      len(violations) == 0,
		Violations: make([]Violation, 0, len(violations)),
	}
	for _, v := range violations {
		resp.Violations = append(resp.Violations, violationFromError(v))
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Service) handleListWarehouses(w http.ResponseWriter, _ *http.Request) {
	warehouses, err := s.deps.Warehouses.List()
	if err != nil {
		writeInternal(w, "warehouse snapshot is unavailable")
		return
	}

	out := make([]WarehouseDTO, 0, len(warehouses))
	for _, wh := range warehouses {
		out = append(out, WarehouseDTO{ID: wh.ID, Name: wh.Name, Category: string(wh.Category)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Service) handleListProducts(w http.ResponseWriter, _ *http.Request) {
	products, err := s.deps.Products.List()
	if err != nil {
		writeInternal(w, "product snapshot is unavailable")
		return
	}

	out := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		out = append(out, ProductDTO{
			ID:        p.ID,
			Name:      p.Name,
			Unit:      p.Unit,
			UnitPrice: p.UnitPrice.StringFixed(2),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Service) handleListStocks(w http.ResponseWriter, r *http.Request) {
	var (
		stocks []domain.Stock
		err    error
	)
	if warehouseID := r.URL.Query().Get("warehouse_id"); warehouseID != "" {
		stocks, err = s.deps.Stocks.ListByWarehouse(warehouseID)
	} else {
		stocks, err = s.deps.Stocks.List()
	}
	if err != nil {
		writeInternal(w, "stock snapshot is unavailable")
		return
	}

	out := make([]StockDTO, 0, len(stocks))
	for _, st := range stocks {
		out = append(out, StockDTO{
			ProductID:         st.ProductID,
			WarehouseID:       st.WarehouseID,
			AvailableQuantity: st.AvailableQuantity,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Service) handleListAssignments(w http.ResponseWriter, r *http.Request) {
	var (
		assignments []domain.Assignment
		err         error
	)
	switch {
	case r.URL.Query().Get("truck_id") != "":
		assignments, err = s.deps.Assignments.ListByTruck(r.URL.Query().Get("truck_id"))
	case r.URL.Query().Get("location_id") != "":
		assignments, err = s.deps.Assignments.ListByLocation(r.URL.Query().Get("location_id"))
	default:
		assignments, err = s.deps.Assignments.List()
	}
	if err != nil {
		writeInternal(w, "assignment snapshot is unavailable")
		return
	}

	out := make([]AssignmentDTO, 0, len(assignments))
	for _, a := range assignments {
		out = append(out, assignmentToDTO(a))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Service) observeDuration(check string, start time.Time) {
	if s.deps.Metrics == nil {
		return
	}
	s.deps.Metrics.RecordCheckDuration(check, s.now().Sub(start))
}
