package services

import (
	"errors"
	"fmt"

	"restro_erp_backend/internal/models"
	"restro_erp_backend/internal/repositories"
)

// Custom Errors surfaced by the bill service.
var (
	ErrNoActiveOrderForUnit = errors.New("no active order for unit")
	ErrBillNotReady         = errors.New("order not completed yet")
)

// BillLine is a single priced line on a customer bill.
type BillLine struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"price"`
	LineTotal float64 `json:"line_total"`
}

// Bill is the derived, read-only settlement view for a completed order.
// Nothing here is persisted; every figure is recomputed from the order
// items on each request.
type Bill struct {
	OrderID      int64      `json:"order_id"`
	TableLabel   string     `json:"table_number"`
	CustomerName string     `json:"customer_name"`
	Lines        []BillLine `json:"items"`
	Subtotal     float64    `json:"subtotal"`
	Tax          float64    `json:"tax"`
	Total        float64    `json:"total"`
}

// --- BillService Interface ---

type BillService interface {
	GetBillForTable(label string) (*Bill, error)
}

type billService struct {
	unitRepo  repositories.UnitRepository
	orderRepo repositories.OrderRepository
}

// NewBillService creates a new instance of BillService.
func NewBillService(ur repositories.UnitRepository, or repositories.OrderRepository) BillService {
	return &billService{
		unitRepo:  ur,
		orderRepo: or,
	}
}

// GetBillForTable derives the bill for the order bound to a table. The
// order must have reached the completed state before a bill is issued.
func (s *billService) GetBillForTable(label string) (*Bill, error) {
	unit, err := s.unitRepo.GetUnitByLabel(nil, models.UnitKindTable, label)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: table %s", ErrUnitNotFound, label)
		}
		return nil, fmt.Errorf("failed to fetch table %s: %w", label, err)
	}
	if !unit.Occupied || unit.ActiveOrderID == nil {
		return nil, fmt.Errorf("%w: table %s", ErrNoActiveOrderForUnit, label)
	}

	order, err := s.orderRepo.GetOrderByID(nil, *unit.ActiveOrderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: table %s", ErrNoActiveOrderForUnit, label)
		}
		return nil, fmt.Errorf("failed to fetch order %d: %w", *unit.ActiveOrderID, err)
	}
	if order.Status != models.OrderStatusCompleted {
		return nil, fmt.Errorf("%w: order %d is %s", ErrBillNotReady, order.ID, order.Status)
	}

	items, err := s.orderRepo.GetOrderItemsByOrderID(nil, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch items for order %d: %w", order.ID, err)
	}

	bill := &Bill{
		OrderID:      order.ID,
		TableLabel:   label,
		CustomerName: order.CustomerName,
		Lines:        make([]BillLine, 0, len(items)),
	}
	var subtotal float64
	for _, it := range items {
		lineTotal := it.UnitPrice * float64(it.Quantity)
		subtotal += lineTotal
		bill.Lines = append(bill.Lines, BillLine{
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			LineTotal: Round2(lineTotal),
		})
	}
	bill.Subtotal = Round2(subtotal)
	bill.Tax = Round2(Tax(subtotal))
	bill.Total = Round2(TotalWithTax(subtotal))
	return bill, nil
}
