package rest

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/drivncook/fleetops/internal/domain"
)

const dateLayout = "2006-01-02"

// OrderLineDTO — строка заказа в представлении API.
type OrderLineDTO struct {
	ProductID   string `json:"product_id"`
	WarehouseID string `json:"warehouse_id"`
	Quantity    int32  `json:"quantity"`
	UnitPrice   string `json:"unit_price,omitempty"`
	LineTotal   string `json:"line_total,omitempty"`
}

func lineToDTO(l domain.OrderLine) OrderLineDTO {
	return OrderLineDTO{
		ProductID:   l.ProductID,
		WarehouseID: l.WarehouseID,
		Quantity:    l.Quantity,
		UnitPrice:   l.UnitPrice.StringFixed(2),
		LineTotal:   l.Total().StringFixed(2),
	}
}

func linesToDTO(lines []domain.OrderLine) []OrderLineDTO {
	out := make([]OrderLineDTO, 0, len(lines))
	for _, l := range lines {
		out = append(out, lineToDTO(l))
	}
	return out
}

// dtoToLine восстанавливает доменную строку из представления API.
// Пустая цена трактуется как ноль: такие строки приходят только в
// compliance-запросах, где UI ещё не знает захваченную цену.
func dtoToLine(dto OrderLineDTO) (domain.OrderLine, error) {
	line := domain.OrderLine{
		ProductID:   dto.ProductID,
		WarehouseID: dto.WarehouseID,
		Quantity:    dto.Quantity,
	}
	if dto.UnitPrice != "" {
		price, err := decimal.NewFromString(dto.UnitPrice)
		if err != nil {
			return domain.OrderLine{}, fmt.Errorf("unit_price %q is not a decimal", dto.UnitPrice)
		}
		line.UnitPrice = price
	}
	return line, nil
}

func dtoToLines(dtos []OrderLineDTO) ([]domain.OrderLine, error) {
	lines := make([]domain.OrderLine, 0, len(dtos))
	for i, dto := range dtos {
		line, err := dtoToLine(dto)
		if err != nil {
			return nil, fmt.Errorf("lines[%d]: %w", i, err)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// CheckLineRequest — запрос на добавление строки к черновику.
type CheckLineRequest struct {
	Lines []OrderLineDTO `json:"lines"`
	Line  struct {
		ProductID   string `json:"product_id"`
		WarehouseID string `json:"warehouse_id"`
		Quantity    int32  `json:"quantity"`
	} `json:"line"`
}

// CheckLineResponse — обновлённый черновик после добавления строки.
type CheckLineResponse struct {
	Lines []OrderLineDTO `json:"lines"`
}

// ComplianceRequest — запрос на пересчёт правила 80/20.
type ComplianceRequest struct {
	Lines []OrderLineDTO `json:"lines"`
}

// ComplianceResponse — развёрнутый результат проверки 80/20.
type ComplianceResponse struct {
	Compliant             bool     `json:"compliant"`
	Ratio                 string   `json:"ratio"`
	IndependentRatio      string   `json:"independent_ratio"`
	PrimaryValue          string   `json:"primary_value"`
	IndependentValue      string   `json:"independent_value"`
	TotalValue            string   `json:"total_value"`
	PrimaryWarehouses     []string `json:"primary_warehouses"`
	IndependentWarehouses []string `json:"independent_warehouses"`
	Message               string   `json:"message"`
}

func complianceToDTO(res domain.ComplianceResult) ComplianceResponse {
	return ComplianceResponse{
		Compliant:             res.Compliant,
		Ratio:                 res.Ratio.StringFixed(2),
		IndependentRatio:      res.IndependentRatio.StringFixed(2),
		PrimaryValue:          res.PrimaryValue.StringFixed(2),
		IndependentValue:      res.IndependentValue.StringFixed(2),
		TotalValue:            res.TotalValue.StringFixed(2),
		PrimaryWarehouses:     res.PrimaryWarehouses,
		IndependentWarehouses: res.IndependentWarehouses,
		Message:               res.Message,
	}
}

// FinalizeRequest — запрос на отправку черновика коллаборатору.
type FinalizeRequest struct {
	OrderID         string         `json:"order_id,omitempty"`
	FranchiseID     string         `json:"franchise_id"`
	DeliveryAddress string         `json:"delivery_address"`
	Lines           []OrderLineDTO `json:"lines"`
}

// OrderDTO — заказ в представлении API.
type OrderDTO struct {
	ID              string         `json:"id"`
	Number          string         `json:"number"`
	FranchiseID     string         `json:"franchise_id,omitempty"`
	DeliveryAddress string         `json:"delivery_address"`
	Status          string         `json:"status"`
	Lines           []OrderLineDTO `json:"lines"`
	TotalValue      string         `json:"total_value"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

func orderToDTO(o domain.Order) OrderDTO {
	return OrderDTO{
		ID:              o.ID,
		Number:          o.Number,
		FranchiseID:     o.FranchiseID,
		DeliveryAddress: o.DeliveryAddress,
		Status:          string(o.Status),
		Lines:           linesToDTO(o.Lines),
		TotalValue:      o.TotalValue().StringFixed(2),
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// FinalizeResponse — принятый к отправке заказ.
type FinalizeResponse struct {
	Order ComplianceAwareOrder `json:"order"`
}

// ComplianceAwareOrder дополняет заказ итогом проверки 80/20.
type ComplianceAwareOrder struct {
	OrderDTO
	Compliance ComplianceResponse `json:"compliance"`
}

// ValidateAssignmentRequest — черновик назначения на проверку.
type ValidateAssignmentRequest struct {
	ID                 string `json:"id,omitempty"`
	TruckID            string `json:"truck_id"`
	LocationID         string `json:"location_id"`
	FranchiseID        string `json:"franchise_id,omitempty"`
	StartDate          string `json:"start_date"`
	EndDate            string `json:"end_date,omitempty"`
	StartTime          string `json:"start_time,omitempty"`
	EndTime            string `json:"end_time,omitempty"`
	CheckAuthorization bool   `json:"check_authorization,omitempty"`
}

func (r ValidateAssignmentRequest) toDraft() (domain.AssignmentDraft, error) {
	draft := domain.AssignmentDraft{
		ID:          r.ID,
		TruckID:     r.TruckID,
		LocationID:  r.LocationID,
		FranchiseID: r.FranchiseID,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
	}
	if r.StartDate != "" {
		start, err := time.Parse(dateLayout, r.StartDate)
		if err != nil {
			return domain.AssignmentDraft{}, fmt.Errorf("start_date %q must be YYYY-MM-DD", r.StartDate)
		}
		draft.StartDate = start
	}
	if r.EndDate != "" {
		end, err := time.Parse(dateLayout, r.EndDate)
		if err != nil {
			return domain.AssignmentDraft{}, fmt.Errorf("end_date %q must be YYYY-MM-DD", r.EndDate)
		}
		draft.EndDate = end
	}
	return draft, nil
}

// Violation — одно нарушение при проверке назначения.
type Violation struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Field   string         `json:"field,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// ValidateAssignmentResponse — итог проверки назначения.
type ValidateAssignmentResponse struct {
	Valid      bool        `json:"valid"`
	Violations []Violation `json:"violations"`
}

// WarehouseDTO — склад в представлении API.
type WarehouseDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// ProductDTO — товар в представлении API.
type ProductDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Unit      string `json:"unit"`
	UnitPrice string `json:"unit_price"`
}

// StockDTO — остаток на складе в представлении API.
type StockDTO struct {
	ProductID         string `json:"product_id"`
	WarehouseID       string `json:"warehouse_id"`
	AvailableQuantity int32  `json:"available_quantity"`
}

// AssignmentDTO — назначение в представлении API.
type AssignmentDTO struct {
	ID         string `json:"id"`
	TruckID    string `json:"truck_id"`
	LocationID string `json:"location_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date,omitempty"`
	StartTime  string `json:"start_time,omitempty"`
	EndTime    string `json:"end_time,omitempty"`
	Status     string `json:"status"`
}

func assignmentToDTO(a domain.Assignment) AssignmentDTO {
	dto := AssignmentDTO{
		ID:         a.ID,
		TruckID:    a.TruckID,
		LocationID: a.LocationID,
		StartDate:  a.StartDate.Format(dateLayout),
		StartTime:  a.StartTime,
		EndTime:    a.EndTime,
		Status:     string(a.Status),
	}
	if !a.EndDate.IsZero() {
		dto.EndDate = a.EndDate.Format(dateLayout)
	}
	return dto
}
