package services

import (
	"errors"
	"fmt"
	"time"

	"restro_erp_backend/internal/models"
	"restro_erp_backend/internal/notifier"
	"restro_erp_backend/internal/repositories"
	"restro_erp_backend/pkg/utils"
)

// Custom Errors surfaced by the order lifecycle service.
var (
	ErrOrderNotFound           = errors.New("order not found")
	ErrUnitNotFound            = errors.New("occupancy unit not found")
	ErrOrderValidation         = errors.New("order validation failed")
	ErrInvalidOrderStatus      = errors.New("invalid order status")
	ErrInvalidStatusTransition = errors.New("status transition not allowed")
	ErrOrderNotEditable        = errors.New("only pending or in-progress orders can be modified")
	ErrTableMismatch           = errors.New("table number mismatch or not provided")
	ErrTableNotBound           = errors.New("table is not booked for this order")
	ErrUnitNotOccupied         = errors.New("unit is not booked")
	ErrOrderNotCompleted       = errors.New("order not completed yet")
	ErrAlreadySentToKitchen    = errors.New("order already sent to kitchen")
	ErrNoActiveOrders          = errors.New("no active orders found for unit")
)

// --- Data Transfer Objects (DTOs) ---

// OrderItemRequest is one line of a create/add-items payload.
type OrderItemRequest struct {
	Name                string  `json:"name" binding:"required"`
	Quantity            int     `json:"quantity" binding:"required"`
	Price               float64 `json:"price" binding:"required"`
	SpecialInstructions string  `json:"special_instructions"`
}

// CreateOrderRequest is used for creating a new order. Status and
// SentToKitchen are not bindable from JSON; only internal callers (the POS
// billing path) may pre-set them.
type CreateOrderRequest struct {
	CustomerName        string             `json:"customer_name"`
	Items               []OrderItemRequest `json:"items" binding:"required,dive"`
	OrderType           string             `json:"order_type" binding:"required"`
	TableLabel          string             `json:"table_number"`
	PhoneNumber         string             `json:"phone_number"`
	DeliveryAddress     string             `json:"delivery_address"`
	SpecialInstructions string             `json:"special_instructions"`
	PaymentMethod       string             `json:"payment_method" binding:"required"`

	Status        string `json:"-"`
	SentToKitchen bool   `json:"-"`
}

// AddItemsRequest appends items to an existing order. TableLabel is the
// caller's expectation of which table the order belongs to; it guards against
// adding items to a table that has been reassigned.
type AddItemsRequest struct {
	NewItems   []OrderItemRequest `json:"new_items" binding:"required,dive"`
	TableLabel string             `json:"table_number"`
}

// UpdateOrderItemRequest overwrites fields of a single existing line item.
type UpdateOrderItemRequest struct {
	ID                  int64    `json:"id" binding:"required"`
	Name                *string  `json:"name"`
	Quantity            *int     `json:"quantity"`
	Price               *float64 `json:"price"`
	SpecialInstructions *string  `json:"special_instructions"`
}

// EditOrderRequest patches an active order.
type EditOrderRequest struct {
	CustomerName        *string                  `json:"customer_name"`
	SpecialInstructions *string                  `json:"special_instructions"`
	UpdatedItems        []UpdateOrderItemRequest `json:"updated_items"`
}

// ChangeStatusRequest is used for updating the status of an order.
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CompleteByUnitRequest closes out all active dine-in orders for one table.
type CompleteByUnitRequest struct {
	TableLabel string `json:"table_number" binding:"required"`
}

// CompleteByUnitResult reports the bulk completion outcome.
type CompleteByUnitResult struct {
	MatchedCount  int64 `json:"matched_count"`
	ModifiedCount int64 `json:"modified_count"`
}

// --- OrderService Interface ---

// OrderService is the single authority that mutates an order's status and
// items and keeps the linked occupancy unit in sync.
type OrderService interface {
	CreateOrder(req CreateOrderRequest) (*models.Order, error)
	CreateOrderInTx(tx repositories.SQLExecutor, req CreateOrderRequest) (*models.Order, error)
	GetOrders(filters models.OrderFilters) ([]models.Order, int, error)
	GetOrderByID(orderID int64) (*models.Order, error)
	GetActiveOrdersByTable(tableLabel string) ([]models.Order, error)
	GetOrdersInWindow(window string) ([]models.Order, int, error)
	AddItems(orderID int64, req AddItemsRequest) (*models.Order, error)
	EditOrder(orderID int64, req EditOrderRequest) (*models.Order, error)
	ChangeStatus(orderID int64, newStatus string) (*models.Order, error)
	CompleteByUnit(tableLabel string) (*CompleteByUnitResult, error)
	ReleaseUnit(kind models.UnitKind, label string) error
	SendToKitchen(orderID int64) (*models.Order, error)
}

// --- orderService Implementation ---

type orderService struct {
	orderRepo repositories.OrderRepository
	unitRepo  repositories.UnitRepository
	txRunner  repositories.TxRunner
	events    *notifier.Publisher
}

// NewOrderService creates a new instance of OrderService. The events
// publisher may be nil; event emission is then skipped.
func NewOrderService(
	or repositories.OrderRepository,
	ur repositories.UnitRepository,
	txr repositories.TxRunner,
	events *notifier.Publisher,
) OrderService {
	return &orderService{
		orderRepo: or,
		unitRepo:  ur,
		txRunner:  txr,
		events:    events,
	}
}

// validateItemRequests checks every line for a non-empty name, positive
// integer quantity and positive price.
func validateItemRequests(items []OrderItemRequest) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: no order items", ErrOrderValidation)
	}
	for i, item := range items {
		if item.Name == "" {
			return fmt.Errorf("%w: item %d: name is required", ErrOrderValidation, i+1)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: item %q: quantity must be a positive number", ErrOrderValidation, item.Name)
		}
		if item.Price <= 0 {
			return fmt.Errorf("%w: item %q: price must be a positive number", ErrOrderValidation, item.Name)
		}
	}
	return nil
}

func (s *orderService) validateCreateRequest(req *CreateOrderRequest) error {
	if err := validateItemRequests(req.Items); err != nil {
		return err
	}
	if !models.IsValidOrderType(req.OrderType) {
		return fmt.Errorf("%w: unknown order type %q", ErrOrderValidation, req.OrderType)
	}
	switch req.OrderType {
	case models.OrderTypeDineIn:
		if req.TableLabel == "" {
			return fmt.Errorf("%w: table number is required for dine-in", ErrOrderValidation)
		}
	case models.OrderTypeDelivery:
		if req.DeliveryAddress == "" {
			return fmt.Errorf("%w: delivery address is required", ErrOrderValidation)
		}
	}
	if !models.IsValidPaymentMethod(req.PaymentMethod) {
		return fmt.Errorf("%w: invalid payment method %q", ErrOrderValidation, req.PaymentMethod)
	}
	if req.Status != "" && !models.IsActiveOrderStatus(req.Status) {
		return fmt.Errorf("%w: new orders must start pending or in-progress", ErrOrderValidation)
	}
	return nil
}

// CreateOrder validates the intent, persists the order and, for dine-in,
// binds the table to it in the same transaction. A table with a pre-existing
// active order is deliberately not rejected: staff may stack orders on one
// table and settle them together through CompleteByUnit.
func (s *orderService) CreateOrder(req CreateOrderRequest) (*models.Order, error) {
	var order *models.Order
	err := s.txRunner.RunInTx(func(tx repositories.SQLExecutor) error {
		var err error
		order, err = s.CreateOrderInTx(tx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.events.PublishOrderEvent(orderCreatedEvent(order))
	return order, nil
}

// CreateOrderInTx runs order creation inside a caller-owned transaction so
// companion records can commit atomically with the order. The order.created
// event is not emitted here; the caller publishes after its transaction
// commits.
func (s *orderService) CreateOrderInTx(tx repositories.SQLExecutor, req CreateOrderRequest) (*models.Order, error) {
	if err := s.validateCreateRequest(&req); err != nil {
		return nil, err
	}

	if req.CustomerName == "" {
		req.CustomerName = "Guest"
	}
	if req.Status == "" {
		req.Status = models.OrderStatusPending
	}

	order := &models.Order{
		CustomerName:        req.CustomerName,
		OrderType:           req.OrderType,
		SpecialInstructions: utils.NewNullString(req.SpecialInstructions),
		PaymentMethod:       req.PaymentMethod,
		Status:              req.Status,
		SentToKitchen:       req.SentToKitchen,
	}
	switch req.OrderType {
	case models.OrderTypeDineIn:
		order.TableLabel = &req.TableLabel
	case models.OrderTypeDelivery:
		order.DeliveryAddress = &req.DeliveryAddress
		order.PhoneNumber = utils.NewNullString(req.PhoneNumber)
	}

	for i, itemReq := range req.Items {
		order.Items = append(order.Items, models.OrderItem{
			Position:            i,
			Name:                itemReq.Name,
			Quantity:            itemReq.Quantity,
			UnitPrice:           itemReq.Price,
			SpecialInstructions: utils.NewNullString(itemReq.SpecialInstructions),
		})
	}
	// The subtotal is always recomputed from the items; a caller-supplied
	// value is never trusted.
	order.Subtotal = order.SubtotalFromItems()

	if order.OrderType == models.OrderTypeDineIn {
		if _, err := s.unitRepo.GetUnitByLabel(tx, models.UnitKindTable, req.TableLabel); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: table %s", ErrUnitNotFound, req.TableLabel)
			}
			return nil, fmt.Errorf("failed to fetch table %s: %w", req.TableLabel, err)
		}
	}

	orderID, err := s.orderRepo.CreateOrder(tx, order)
	if err != nil {
		return nil, fmt.Errorf("failed to create order record: %w", err)
	}
	for i := range order.Items {
		order.Items[i].OrderID = orderID
		if _, err := s.orderRepo.CreateOrderItem(tx, &order.Items[i]); err != nil {
			return nil, fmt.Errorf("failed to create order item %q: %w", order.Items[i].Name, err)
		}
	}

	if order.OrderType == models.OrderTypeDineIn {
		occupied := models.IsActiveOrderStatus(order.Status)
		if err := s.unitRepo.SetOccupancy(tx, models.UnitKindTable, req.TableLabel, occupied, &orderID); err != nil {
			return nil, fmt.Errorf("failed to update table %s occupancy: %w", req.TableLabel, err)
		}
	}

	applyDerivedTotal(order)
	return order, nil
}

func orderCreatedEvent(order *models.Order) notifier.OrderEvent {
	event := notifier.OrderEvent{
		Event:   notifier.EventOrderCreated,
		OrderID: order.ID,
		Status:  order.Status,
	}
	if order.TableLabel != nil {
		event.TableLabel = *order.TableLabel
	}
	return event
}

func (s *orderService) GetOrders(filters models.OrderFilters) ([]models.Order, int, error) {
	orders, totalCount, err := s.orderRepo.GetOrders(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get orders: %w", err)
	}
	for i := range orders {
		applyDerivedTotal(&orders[i])
	}
	return orders, totalCount, nil
}

func (s *orderService) GetOrderByID(orderID int64) (*models.Order, error) {
	return s.loadFullOrder(nil, orderID)
}

// applyDerivedTotal sets the serialized order total: the subtotal, plus the
// flat delivery fee for delivery orders, rounded at presentation.
func applyDerivedTotal(order *models.Order) {
	total := order.Subtotal
	if order.OrderType == models.OrderTypeDelivery {
		total = DeliveryTotal(total)
	}
	order.Total = Round2(total)
}

// loadFullOrder fetches the order header and its items through the given
// executor (nil for a plain read outside a transaction).
func (s *orderService) loadFullOrder(tx repositories.SQLExecutor, orderID int64) (*models.Order, error) {
	order, err := s.orderRepo.GetOrderByID(tx, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by ID: %w", err)
	}
	items, err := s.orderRepo.GetOrderItemsByOrderID(tx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order items for order %d: %w", orderID, err)
	}
	order.Items = items
	applyDerivedTotal(order)
	return order, nil
}

func (s *orderService) GetActiveOrdersByTable(tableLabel string) ([]models.Order, error) {
	if tableLabel == "" {
		return nil, fmt.Errorf("%w: table number is required", ErrOrderValidation)
	}
	orders, err := s.orderRepo.GetActiveOrdersByTable(tableLabel, []string{models.OrderStatusInProgress})
	if err != nil {
		return nil, fmt.Errorf("failed to get active orders for table %s: %w", tableLabel, err)
	}
	for i := range orders {
		applyDerivedTotal(&orders[i])
	}
	return orders, nil
}

// GetOrdersInWindow lists orders created since the start of the current day,
// week, month or year. An empty window means no time filter.
func (s *orderService) GetOrdersInWindow(window string) ([]models.Order, int, error) {
	filters := models.OrderFilters{}
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch window {
	case "daily":
		filters.From = &startOfDay
	case "weekly":
		start := startOfDay.AddDate(0, 0, -int(now.Weekday()))
		filters.From = &start
	case "monthly":
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		filters.From = &start
	case "yearly":
		start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		filters.From = &start
	case "":
		// all orders
	default:
		return nil, 0, fmt.Errorf("%w: unknown filter %q", ErrOrderValidation, window)
	}
	return s.GetOrders(filters)
}

// AddItems appends new line items to an active order, preserving insertion
// order, and recomputes the subtotal by summation over all lines. For dine-in
// orders the caller must name the table it believes the order is on, and the
// table must still be bound to this order.
func (s *orderService) AddItems(orderID int64, req AddItemsRequest) (*models.Order, error) {
	if err := validateItemRequests(req.NewItems); err != nil {
		return nil, err
	}

	var order *models.Order
	err := s.txRunner.RunInTx(func(tx repositories.SQLExecutor) error {
		var err error
		order, err = s.loadFullOrder(tx, orderID)
		if err != nil {
			return err
		}
		if !models.IsActiveOrderStatus(order.Status) {
			return fmt.Errorf("%w: cannot add items to a %s order", ErrOrderNotEditable, order.Status)
		}

		if order.OrderType == models.OrderTypeDineIn {
			if req.TableLabel == "" || order.TableLabel == nil || *order.TableLabel != req.TableLabel {
				return ErrTableMismatch
			}
			unit, err := s.unitRepo.GetUnitByLabel(tx, models.UnitKindTable, req.TableLabel)
			if err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					return fmt.Errorf("%w: table %s", ErrUnitNotFound, req.TableLabel)
				}
				return fmt.Errorf("failed to fetch table %s: %w", req.TableLabel, err)
			}
			if !unit.Occupied || unit.ActiveOrderID == nil || *unit.ActiveOrderID != order.ID {
				return ErrTableNotBound
			}
		}

		expectedVersion := order.Version
		nextPosition := len(order.Items)
		for i, itemReq := range req.NewItems {
			item := models.OrderItem{
				OrderID:             order.ID,
				Position:            nextPosition + i,
				Name:                itemReq.Name,
				Quantity:            itemReq.Quantity,
				UnitPrice:           itemReq.Price,
				SpecialInstructions: utils.NewNullString(itemReq.SpecialInstructions),
			}
			if _, err := s.orderRepo.CreateOrderItem(tx, &item); err != nil {
				return fmt.Errorf("failed to append order item %q: %w", item.Name, err)
			}
			order.Items = append(order.Items, item)
		}

		// Summation over the full item list, not incremental addition,
		// so repeated mutations cannot drift.
		order.Subtotal = order.SubtotalFromItems()
		if err := s.orderRepo.UpdateOrderHeader(tx, order, expectedVersion); err != nil {
			return err
		}
		applyDerivedTotal(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// EditOrder patches the customer name, order-level special instructions and
// individual line items of an active order, then recomputes the subtotal.
func (s *orderService) EditOrder(orderID int64, req EditOrderRequest) (*models.Order, error) {
	var order *models.Order
	err := s.txRunner.RunInTx(func(tx repositories.SQLExecutor) error {
		var err error
		order, err = s.loadFullOrder(tx, orderID)
		if err != nil {
			return err
		}
		if !models.IsActiveOrderStatus(order.Status) {
			return ErrOrderNotEditable
		}

		expectedVersion := order.Version
		if req.CustomerName != nil && *req.CustomerName != "" {
			order.CustomerName = *req.CustomerName
		}
		if req.SpecialInstructions != nil {
			order.SpecialInstructions = utils.NewNullString(*req.SpecialInstructions)
		}

		for _, patch := range req.UpdatedItems {
			item := findOrderItem(order.Items, patch.ID)
			if item == nil {
				return fmt.Errorf("%w: item with ID %d not found in order", ErrOrderValidation, patch.ID)
			}
			if patch.Name != nil {
				if *patch.Name == "" {
					return fmt.Errorf("%w: item %d: name cannot be empty", ErrOrderValidation, patch.ID)
				}
				item.Name = *patch.Name
			}
			if patch.Quantity != nil {
				if *patch.Quantity <= 0 {
					return fmt.Errorf("%w: item %d: quantity must be a positive number", ErrOrderValidation, patch.ID)
				}
				item.Quantity = *patch.Quantity
			}
			if patch.Price != nil {
				if *patch.Price <= 0 {
					return fmt.Errorf("%w: item %d: price must be a positive number", ErrOrderValidation, patch.ID)
				}
				item.UnitPrice = *patch.Price
			}
			if patch.SpecialInstructions != nil {
				item.SpecialInstructions = utils.NewNullString(*patch.SpecialInstructions)
			}
			if err := s.orderRepo.UpdateOrderItem(tx, item); err != nil {
				return fmt.Errorf("failed to update order item %d: %w", patch.ID, err)
			}
		}

		order.Subtotal = order.SubtotalFromItems()
		if err := s.orderRepo.UpdateOrderHeader(tx, order, expectedVersion); err != nil {
			return err
		}
		applyDerivedTotal(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func findOrderItem(items []models.OrderItem, itemID int64) *models.OrderItem {
	for i := range items {
		if items[i].ID == itemID {
			return &items[i]
		}
	}
	return nil
}

// ChangeStatus moves an order along the transition table. Entering a terminal
// state does not release the occupancy unit; staff review the bill first and
// release the table explicitly.
func (s *orderService) ChangeStatus(orderID int64, newStatus string) (*models.Order, error) {
	if !models.IsValidOrderStatus(newStatus) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidOrderStatus, newStatus)
	}

	var order *models.Order
	err := s.txRunner.RunInTx(func(tx repositories.SQLExecutor) error {
		var err error
		order, err = s.loadFullOrder(tx, orderID)
		if err != nil {
			return err
		}
		if !models.CanTransitionOrderStatus(order.Status, newStatus) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, order.Status, newStatus)
		}
		// The conditional write closes the gap between the transition check
		// and the commit: a concurrent status change bumps the version and
		// this write reports a conflict instead of overwriting it.
		if err := s.orderRepo.UpdateOrderStatus(tx, orderID, newStatus, order.Version, time.Now()); err != nil {
			if errors.Is(err, repositories.ErrVersionConflict) {
				return err
			}
			return fmt.Errorf("failed to update order status: %w", err)
		}
		order.Status = newStatus
		order.Version++
		return nil
	})
	if err != nil {
		return nil, err
	}

	event := notifier.OrderEvent{
		Event:   notifier.EventOrderStatusChanged,
		OrderID: order.ID,
		Status:  newStatus,
	}
	if order.TableLabel != nil {
		event.TableLabel = *order.TableLabel
	}
	s.events.PublishOrderEvent(event)
	return order, nil
}

// CompleteByUnit marks every pending/in-progress dine-in order on the table
// as completed and releases the table in the same transaction. This is the
// one path where completion and release are atomic, used for the close-out
// staff action.
func (s *orderService) CompleteByUnit(tableLabel string) (*CompleteByUnitResult, error) {
	if tableLabel == "" {
		return nil, fmt.Errorf("%w: table number is required", ErrOrderValidation)
	}

	result := &CompleteByUnitResult{}
	err := s.txRunner.RunInTx(func(tx repositories.SQLExecutor) error {
		matched, err := s.orderRepo.CompleteActiveByUnitLabel(tx, tableLabel)
		if err != nil {
			return fmt.Errorf("failed to complete orders for table %s: %w", tableLabel, err)
		}
		if matched == 0 {
			return fmt.Errorf("%w: table %s", ErrNoActiveOrders, tableLabel)
		}
		result.MatchedCount = matched
		result.ModifiedCount = matched

		err = s.unitRepo.SetOccupancy(tx, models.UnitKindTable, tableLabel, false, nil)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				// Orders referenced a table that no longer exists;
				// nothing left to release.
				utils.LogInfo("Completed orders for missing table", map[string]interface{}{"table": tableLabel})
				return nil
			}
			return fmt.Errorf("failed to release table %s: %w", tableLabel, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.PublishOrderEvent(notifier.OrderEvent{
		Event:      notifier.EventTableCompleted,
		TableLabel: tableLabel,
		Status:     models.OrderStatusCompleted,
	})
	return result, nil
}

// ReleaseUnit frees an occupied table or room. It is the gate that forces
// settlement before the unit becomes available again: a live referenced order
// must be completed first. Dangling references (no active order id, or an
// order that no longer exists) are healed by releasing immediately.
func (s *orderService) ReleaseUnit(kind models.UnitKind, label string) error {
	return s.txRunner.RunInTx(func(tx repositories.SQLExecutor) error {
		unit, err := s.unitRepo.GetUnitByLabel(tx, kind, label)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return fmt.Errorf("%w: %s %s", ErrUnitNotOccupied, kind, label)
			}
			return fmt.Errorf("failed to fetch %s %s: %w", kind, label, err)
		}
		if !unit.Occupied {
			return fmt.Errorf("%w: %s %s", ErrUnitNotOccupied, kind, label)
		}

		if unit.ActiveOrderID != nil {
			order, err := s.orderRepo.GetOrderByID(tx, *unit.ActiveOrderID)
			switch {
			case errors.Is(err, repositories.ErrNotFound):
				// Self-healing: the unit points at an order that no
				// longer exists, release it.
			case err != nil:
				return fmt.Errorf("failed to fetch order %d for release: %w", *unit.ActiveOrderID, err)
			case order.Status != models.OrderStatusCompleted:
				return ErrOrderNotCompleted
			}
		}

		if err := s.unitRepo.SetOccupancy(tx, kind, label, false, nil); err != nil {
			return fmt.Errorf("failed to release %s %s: %w", kind, label, err)
		}
		return nil
	})
}

// SendToKitchen flips the one-way kitchen ticket flag. The second call for
// the same order reports ErrAlreadySentToKitchen and changes nothing.
func (s *orderService) SendToKitchen(orderID int64) (*models.Order, error) {
	order, err := s.loadFullOrder(nil, orderID)
	if err != nil {
		return nil, err
	}
	if order.SentToKitchen {
		return nil, ErrAlreadySentToKitchen
	}

	rows, err := s.orderRepo.SetSentToKitchen(nil, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to send order %d to kitchen: %w", orderID, err)
	}
	if rows == 0 {
		// Lost the race with a concurrent caller.
		return nil, ErrAlreadySentToKitchen
	}
	order.SentToKitchen = true

	event := notifier.OrderEvent{
		Event:   notifier.EventOrderSentToKitchen,
		OrderID: order.ID,
		Status:  order.Status,
	}
	if order.TableLabel != nil {
		event.TableLabel = *order.TableLabel
	}
	s.events.PublishOrderEvent(event)
	return order, nil
}
