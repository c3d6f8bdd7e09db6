package models

import "time"

// Order statuses.
const (
	OrderStatusPending    = "pending"
	OrderStatusInProgress = "in-progress"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
	OrderStatusDelivered  = "delivered"
)

// Order types.
const (
	OrderTypeDineIn   = "dine-in"
	OrderTypeDelivery = "delivery"
)

// Payment methods accepted on guest orders.
const (
	PaymentMethodCounter = "counter"
	PaymentMethodCard    = "card"
)

// orderTransitions is the directed transition table for order statuses.
// Terminal statuses (completed, cancelled, delivered) have no outgoing edges.
var orderTransitions = map[string][]string{
	OrderStatusPending:    {OrderStatusInProgress, OrderStatusCancelled},
	OrderStatusInProgress: {OrderStatusCompleted, OrderStatusCancelled, OrderStatusDelivered},
}

// IsValidOrderStatus checks if the provided status string is a known order status.
func IsValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusInProgress, OrderStatusCompleted,
		OrderStatusCancelled, OrderStatusDelivered:
		return true
	default:
		return false
	}
}

// IsTerminalOrderStatus reports whether the status allows no further transitions.
func IsTerminalOrderStatus(status string) bool {
	switch status {
	case OrderStatusCompleted, OrderStatusCancelled, OrderStatusDelivered:
		return true
	default:
		return false
	}
}

// CanTransitionOrderStatus reports whether an order may move from one status
// to another according to the transition table.
func CanTransitionOrderStatus(from, to string) bool {
	for _, allowed := range orderTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsActiveOrderStatus reports whether an order is still open for mutation
// (items may be added, fields edited).
func IsActiveOrderStatus(status string) bool {
	return status == OrderStatusPending || status == OrderStatusInProgress
}

// IsValidOrderType checks the order type enum.
func IsValidOrderType(orderType string) bool {
	return orderType == OrderTypeDineIn || orderType == OrderTypeDelivery
}

// IsValidPaymentMethod checks the guest order payment method enum.
func IsValidPaymentMethod(method string) bool {
	return method == PaymentMethodCounter || method == PaymentMethodCard
}

// OrderItem is a single line on an order ticket. Position preserves the
// insertion order for kitchen display.
type OrderItem struct {
	ID                  int64     `json:"id" db:"id"`
	OrderID             int64     `json:"order_id" db:"order_id"`
	Position            int       `json:"position" db:"position"`
	Name                string    `json:"name" db:"name"`
	Quantity            int       `json:"quantity" db:"quantity"`
	UnitPrice           float64   `json:"unit_price" db:"unit_price"`
	SpecialInstructions *string   `json:"special_instructions,omitempty" db:"special_instructions"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
}

// Order is the mutable order record. Subtotal is derived from the items by
// summation and recomputed on every item mutation. Total is not stored: it is
// derived on every read as the subtotal plus the flat delivery fee for
// delivery orders. TableLabel is denormalized and kept for audit after the
// occupancy unit is released. Version backs the optimistic concurrency check
// on item and header writes.
type Order struct {
	ID                  int64       `json:"id" db:"id"`
	CustomerName        string      `json:"customer_name" db:"customer_name"`
	OrderType           string      `json:"order_type" db:"order_type"`
	TableLabel          *string     `json:"table_label,omitempty" db:"table_label"`
	PhoneNumber         *string     `json:"phone_number,omitempty" db:"phone_number"`
	DeliveryAddress     *string     `json:"delivery_address,omitempty" db:"delivery_address"`
	SpecialInstructions *string     `json:"special_instructions,omitempty" db:"special_instructions"`
	PaymentMethod       string      `json:"payment_method" db:"payment_method"`
	Subtotal            float64     `json:"subtotal" db:"subtotal"`
	Total               float64     `json:"total"`
	Status              string      `json:"status" db:"status"`
	SentToKitchen       bool        `json:"sent_to_kitchen" db:"sent_to_kitchen"`
	Version             int64       `json:"-" db:"version"`
	Items               []OrderItem `json:"items"`
	CreatedAt           time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at" db:"updated_at"`
}

// SubtotalFromItems sums quantity * unit price over the items. This is the
// single source of truth for the stored subtotal.
func (o *Order) SubtotalFromItems() float64 {
	var sum float64
	for _, item := range o.Items {
		sum += float64(item.Quantity) * item.UnitPrice
	}
	return sum
}

// OrderFilters defines the available filters for querying orders.
// This struct is used by both the service and repository layers.
type OrderFilters struct {
	Status     *string
	OrderType  *string
	TableLabel *string
	From       *time.Time
	To         *time.Time
	Page       int
	PageSize   int
}
