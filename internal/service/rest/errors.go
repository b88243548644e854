package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/drivncook/fleetops/internal/domain"
)

// Коды ошибок API; отображают таксономию доменных ошибок.
const (
	codeValidation        = "validation"
	codeDuplicateLine     = "duplicate_line"
	codeInsufficientStock = "insufficient_stock"
	codeCompliance        = "compliance"
	codeTruckConflict     = "truck_conflict"
	codeLocationConflict  = "location_conflict"
	codeMalformed         = "malformed_request"
	codeInternal          = "internal"
)

// ErrorBody — тело ошибки API.
type ErrorBody struct {
	Error Violation `json:"error"`
}

// violationFromError переводит доменную ошибку в нарушение API с кодом,
// полем и деталями. Любая нераспознанная ошибка считается валидационной:
// доменный слой возвращает только ошибки своей таксономии.
func violationFromError(err error) Violation {
	var insufficient *domain.InsufficientStockError
	if errors.As(err, &insufficient) {
		return Violation{
			Code:    codeInsufficientStock,
			Message: insufficient.Error(),
			Field:   "quantity",
			Details: map[string]any{
				"product_id":   insufficient.ProductID,
				"warehouse_id": insufficient.WarehouseID,
				"requested":    insufficient.Requested,
				"available":    insufficient.Available,
			},
		}
	}

	var compliance *domain.ComplianceError
	if errors.As(err, &compliance) {
		return Violation{
			Code:    codeCompliance,
			Message: compliance.Result.Message,
			Details: map[string]any{
				"ratio":             compliance.Result.Ratio.StringFixed(2),
				"independent_ratio": compliance.Result.IndependentRatio.StringFixed(2),
				"primary_value":     compliance.Result.PrimaryValue.StringFixed(2),
				"independent_value": compliance.Result.IndependentValue.StringFixed(2),
				"total_value":       compliance.Result.TotalValue.StringFixed(2),
			},
		}
	}

	var conflict *domain.ConflictError
	if errors.As(err, &conflict) {
		code := codeTruckConflict
		field := "truck_id"
		if conflict.Dimension == domain.DimensionLocation {
			code = codeLocationConflict
			field = "location_id"
		}
		return Violation{
			Code:    code,
			Message: conflict.Error(),
			Field:   field,
			Details: map[string]any{"conflicting_id": conflict.ConflictingID},
		}
	}

	v := Violation{Code: codeValidation, Message: err.Error()}

	switch {
	case errors.Is(err, domain.ErrQuantityInvalid):
		v.Field = "quantity"
	case errors.Is(err, domain.ErrDuplicateLine):
		v.Code = codeDuplicateLine
	case errors.Is(err, domain.ErrUnknownProduct):
		v.Field = "product_id"
	case errors.Is(err, domain.ErrUnknownWarehouse):
		v.Field = "warehouse_id"
	case errors.Is(err, domain.ErrLinesRequired):
		v.Field = "lines"
	case errors.Is(err, domain.ErrDeliveryAddressRequired):
		v.Field = "delivery_address"
	case errors.Is(err, domain.ErrStartDateRequired), errors.Is(err, domain.ErrStartDateInPast):
		v.Field = "start_date"
	case errors.Is(err, domain.ErrEndDateBeforeStart):
		v.Field = "end_date"
	case errors.Is(err, domain.ErrEndTimeNotAfterStart), errors.Is(err, domain.ErrTimeFormatInvalid):
		v.Field = "end_time"
	case errors.Is(err, domain.ErrTruckUnavailable):
		v.Field = "truck_id"
	case errors.Is(err, domain.ErrLocationNotAuthorized):
		v.Field = "location_id"
	}

	return v
}

func writeError(w http.ResponseWriter, status int, v Violation) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorBody{Error: v})
}

// writeDomainError отвечает 422: запрос корректен, но отклонён доменом.
func writeDomainError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusUnprocessableEntity, violationFromError(err))
}

// writeMalformed отвечает 400 на синтаксически некорректный запрос.
func writeMalformed(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, Violation{Code: codeMalformed, Message: message})
}

func writeInternal(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, Violation{Code: codeInternal, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// decodeJSON разбирает тело запроса, отклоняя неизвестные поля.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}
