package rest_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/drivncook/fleetops/internal/domain"
	"github.com/drivncook/fleetops/internal/service/rest"
	"github.com/drivncook/fleetops/internal/service/seed"
	"github.com/drivncook/fleetops/internal/storage/memory"
)

func loggerForTests() *logrus.Entry {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger.WithField("component", "rest-service-test")
}

// newTestHandler поднимает сервис на демо-данных с фиксированными часами:
// «сегодня» — 1 июня 2030, все посеянные аффектации в будущем.
func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	reg := seed.Registries{
		Warehouses:     memory.NewWarehouseRepository(),
		Products:       memory.NewProductRepository(),
		Stocks:         memory.NewStockRepository(),
		Trucks:         memory.NewTruckRepository(),
		Assignments:    memory.NewAssignmentRepository(),
		Authorizations: memory.NewAuthorizationRepository(),
	}
	seed.Demo(reg)

	clock := func() time.Time {
		return time.Date(2030, 6, 1, 10, 0, 0, 0, time.UTC)
	}

	svc := rest.NewService(rest.Dependencies{
		Warehouses:     reg.Warehouses,
		Products:       reg.Products,
		Stocks:         reg.Stocks,
		Trucks:         reg.Trucks,
		Assignments:    reg.Assignments,
		Authorizations: reg.Authorizations,
		Planner:        domain.NewPlannerWithClock(clock),
		Logger:         loggerForTests(),
	})

	return svc.Handler()
}

func doJSON(t *testing.T, handler http.Handler, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func TestComplianceEndpoint(t *testing.T) {
	handler := newTestHandler(t)

	// 100 буханок со склада сети против 10 кг стейка с рынка.
	rec := doJSON(t, handler, http.MethodPost, "/api/v1/orders/compliance", rest.ComplianceRequest{
		Lines: []rest.OrderLineDTO{
			{ProductID: "prod-buns", WarehouseID: "wh-paris-nord", Quantity: 100, UnitPrice: "0.55"},
			{ProductID: "prod-beef", WarehouseID: "wh-rungis", Quantity: 10, UnitPrice: "12.40"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[rest.ComplianceResponse](t, rec)
	require.False(t, resp.Compliant)
	require.Equal(t, "55.00", resp.PrimaryValue)
	require.Equal(t, "124.00", resp.IndependentValue)
	require.Contains(t, resp.Message, "non-compliant")
	require.Equal(t, []string{"wh-rungis"}, resp.IndependentWarehouses)
}

func TestComplianceEndpoint_EmptyOrder(t *testing.T) {
	handler := newTestHandler(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/orders/compliance", rest.ComplianceRequest{})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[rest.ComplianceResponse](t, rec)
	require.True(t, resp.Compliant)
	require.Equal(t, "0.00", resp.TotalValue)
}

func TestComplianceEndpoint_MalformedBody(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/compliance", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody[rest.ErrorBody](t, rec)
	require.Equal(t, "malformed_request", body.Error.Code)
}

func TestCheckLineEndpoint(t *testing.T) {
	handler := newTestHandler(t)

	payload := rest.CheckLineRequest{}
	payload.Line.ProductID = "prod-buns"
	payload.Line.WarehouseID = "wh-paris-nord"
	payload.Line.Quantity = 40

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/orders/lines/check", payload)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[rest.CheckLineResponse](t, rec)
	require.Len(t, resp.Lines, 1)
	// Цена фиксируется из каталога в момент добавления.
	require.Equal(t, "0.55", resp.Lines[0].UnitPrice)
	require.Equal(t, "22.00", resp.Lines[0].LineTotal)
}

func TestCheckLineEndpoint_InsufficientStock(t *testing.T) {
	handler := newTestHandler(t)

	payload := rest.CheckLineRequest{}
	payload.Line.ProductID = "prod-cheese"
	payload.Line.WarehouseID = "wh-paris-nord"
	payload.Line.Quantity = 5000

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/orders/lines/check", payload)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body := decodeBody[rest.ErrorBody](t, rec)
	require.Equal(t, "insufficient_stock", body.Error.Code)
	require.EqualValues(t, 90, body.Error.Details["available"])
	require.EqualValues(t, 5000, body.Error.Details["requested"])
}

func TestCheckLineEndpoint_DuplicateLine(t *testing.T) {
	handler := newTestHandler(t)

	payload := rest.CheckLineRequest{
		Lines: []rest.OrderLineDTO{
			{ProductID: "prod-buns", WarehouseID: "wh-paris-nord", Quantity: 10, UnitPrice: "0.55"},
		},
	}
	payload.Line.ProductID = "prod-buns"
	payload.Line.WarehouseID = "wh-paris-nord"
	payload.Line.Quantity = 5

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/orders/lines/check", payload)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body := decodeBody[rest.ErrorBody](t, rec)
	require.Equal(t, "duplicate_line", body.Error.Code)
}

func TestCheckLineEndpoint_UnknownProduct(t *testing.T) {
	handler := newTestHandler(t)

	payload := rest.CheckLineRequest{}
	payload.Line.ProductID = "prod-unknown"
	payload.Line.WarehouseID = "wh-paris-nord"
	payload.Line.Quantity = 1

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/orders/lines/check", payload)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body := decodeBody[rest.ErrorBody](t, rec)
	require.Equal(t, "validation", body.Error.Code)
	require.Equal(t, "product_id", body.Error.Field)
}

func TestFinalizeEndpoint(t *testing.T) {
	handler := newTestHandler(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/orders/finalize", rest.FinalizeRequest{
		FranchiseID:     "fr-montparnasse",
		DeliveryAddress: "12 rue du Départ, Paris",
		Lines: []rest.OrderLineDTO{
			{ProductID: "prod-buns", WarehouseID: "wh-paris-nord", Quantity: 200, UnitPrice: "0.55"},
			{ProductID: "prod-salad", WarehouseID: "wh-rungis", Quantity: 20, UnitPrice: "1.15"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[rest.FinalizeResponse](t, rec)
	require.Equal(t, "submitted", resp.Order.Status)
	require.NotEmpty(t, resp.Order.ID)
	require.True(t, strings.HasPrefix(resp.Order.Number, "CMD-"))
	require.True(t, resp.Order.Compliance.Compliant)
	require.Equal(t, "133.00", resp.Order.TotalValue)
}

func TestFinalizeEndpoint_NotCompliant(t *testing.T) {
	handler := newTestHandler(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/orders/finalize", rest.FinalizeRequest{
		FranchiseID:     "fr-montparnasse",
		DeliveryAddress: "12 rue du Départ, Paris",
		Lines: []rest.OrderLineDTO{
			{ProductID: "prod-beef", WarehouseID: "wh-rungis", Quantity: 10, UnitPrice: "12.40"},
		},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body := decodeBody[rest.ErrorBody](t, rec)
	require.Equal(t, "compliance", body.Error.Code)
	require.Equal(t, "0.00", body.Error.Details["ratio"])
	require.Equal(t, "124.00", body.Error.Details["total_value"])
}

func TestFinalizeEndpoint_MissingAddress(t *testing.T) {
	handler := newTestHandler(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/orders/finalize", rest.FinalizeRequest{
		FranchiseID: "fr-montparnasse",
		Lines: []rest.OrderLineDTO{
			{ProductID: "prod-buns", WarehouseID: "wh-paris-nord", Quantity: 10, UnitPrice: "0.55"},
		},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body := decodeBody[rest.ErrorBody](t, rec)
	require.Equal(t, "validation", body.Error.Code)
	require.Equal(t, "delivery_address", body.Error.Field)
}

func TestFinalizeEndpoint_NumbersAreSequential(t *testing.T) {
	handler := newTestHandler(t)

	request := rest.FinalizeRequest{
		FranchiseID:     "fr-montparnasse",
		DeliveryAddress: "12 rue du Départ, Paris",
		Lines: []rest.OrderLineDTO{
			{ProductID: "prod-buns", WarehouseID: "wh-paris-nord", Quantity: 10, UnitPrice: "0.55"},
		},
	}

	first := decodeBody[rest.FinalizeResponse](t, doJSON(t, handler, http.MethodPost, "/api/v1/orders/finalize", request))
	second := decodeBody[rest.FinalizeResponse](t, doJSON(t, handler, http.MethodPost, "/api/v1/orders/finalize", request))

	require.NotEqual(t, first.Order.Number, second.Order.Number)
	require.True(t, strings.HasSuffix(first.Order.Number, "-0001"))
	require.True(t, strings.HasSuffix(second.Order.Number, "-0002"))
}

func TestValidateAssignmentEndpoint_Clean(t *testing.T) {
	handler := newTestHandler(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/assignments/validate", rest.ValidateAssignmentRequest{
		TruckID:    "truck-04",
		LocationID: "loc-bercy",
		StartDate:  "2030-07-01",
		EndDate:    "2030-07-03",
		StartTime:  "10:00",
		EndTime:    "16:00",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[rest.ValidateAssignmentResponse](t, rec)
	require.True(t, resp.Valid)
	require.Empty(t, resp.Violations)
}

func TestValidateAssignmentEndpoint_TruckConflict(t *testing.T) {
	handler := newTestHandler(t)

	// truck-01 уже стоит на as-001 с 3 по 7 июня.
	rec := doJSON(t, handler, http.MethodPost, "/api/v1/assignments/validate", rest.ValidateAssignmentRequest{
		TruckID:    "truck-01",
		LocationID: "loc-bercy",
		StartDate:  "2030-06-04",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[rest.ValidateAssignmentResponse](t, rec)
	require.False(t, resp.Valid)
	require.Len(t, resp.Violations, 1)
	require.Equal(t, "truck_conflict", resp.Violations[0].Code)
	require.Equal(t, "as-001", resp.Violations[0].Details["conflicting_id"])
}

func TestValidateAssignmentEndpoint_TruckInMaintenance(t *testing.T) {
	handler := newTestHandler(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/assignments/validate", rest.ValidateAssignmentRequest{
		TruckID:    "truck-03",
		LocationID: "loc-bercy",
		StartDate:  "2030-07-01",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[rest.ValidateAssignmentResponse](t, rec)
	require.False(t, resp.Valid)
	require.Len(t, resp.Violations, 1)
	require.Equal(t, "validation", resp.Violations[0].Code)
	require.Equal(t, "truck_id", resp.Violations[0].Field)
}

func TestValidateAssignmentEndpoint_Authorization(t *testing.T) {
	handler := newTestHandler(t)

	// Разрешение fr-bastille на loc-republique есть, но неактивно.
	rec := doJSON(t, handler, http.MethodPost, "/api/v1/assignments/validate", rest.ValidateAssignmentRequest{
		TruckID:            "truck-04",
		LocationID:         "loc-republique",
		FranchiseID:        "fr-bastille",
		StartDate:          "2030-07-01",
		CheckAuthorization: true,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[rest.ValidateAssignmentResponse](t, rec)
	require.False(t, resp.Valid)

	var codes []string
	for _, v := range resp.Violations {
		codes = append(codes, v.Code+"/"+v.Field)
	}
	require.Contains(t, codes, "validation/location_id")
}

func TestValidateAssignmentEndpoint_CollectsAllViolations(t *testing.T) {
	handler := newTestHandler(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/assignments/validate", rest.ValidateAssignmentRequest{
		TruckID:    "truck-03",
		LocationID: "loc-bercy",
		StartDate:  "2020-01-01",
		EndDate:    "2019-12-01",
		StartTime:  "15:00",
		EndTime:    "14:00",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[rest.ValidateAssignmentResponse](t, rec)
	require.False(t, resp.Valid)
	// Дата в прошлом, конец раньше начала, время, трак в ремонте.
	require.Len(t, resp.Violations, 4)
}

func TestValidateAssignmentEndpoint_MalformedDate(t *testing.T) {
	handler := newTestHandler(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/assignments/validate", rest.ValidateAssignmentRequest{
		TruckID:    "truck-01",
		LocationID: "loc-bercy",
		StartDate:  "04/06/2030",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody[rest.ErrorBody](t, rec)
	require.Equal(t, "malformed_request", body.Error.Code)
}

func TestSnapshotEndpoints(t *testing.T) {
	handler := newTestHandler(t)

	warehouses := decodeBody[[]rest.WarehouseDTO](t, doJSON(t, handler, http.MethodGet, "/api/v1/warehouses", nil))
	require.Len(t, warehouses, 5)

	products := decodeBody[[]rest.ProductDTO](t, doJSON(t, handler, http.MethodGet, "/api/v1/products", nil))
	require.NotEmpty(t, products)
	require.NotEmpty(t, products[0].UnitPrice)

	stocks := decodeBody[[]rest.StockDTO](t, doJSON(t, handler, http.MethodGet, "/api/v1/stocks?warehouse_id=wh-paris-nord", nil))
	require.Len(t, stocks, 3)
	for _, s := range stocks {
		require.Equal(t, "wh-paris-nord", s.WarehouseID)
	}

	assignments := decodeBody[[]rest.AssignmentDTO](t, doJSON(t, handler, http.MethodGet, "/api/v1/assignments?truck_id=truck-01", nil))
	require.Len(t, assignments, 1)
	require.Equal(t, "as-001", assignments[0].ID)
}
