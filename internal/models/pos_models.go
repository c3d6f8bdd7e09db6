package models

import "time"

// POS payment methods. Wider than the guest order enum because the counter
// accepts mixed settlements.
const (
	PosPaymentCash   = "cash"
	PosPaymentCard   = "card"
	PosPaymentOnline = "online"
	PosPaymentMixed  = "mixed"
	PosPaymentCredit = "credit"
)

// IsValidPosPaymentMethod checks the POS payment method enum.
func IsValidPosPaymentMethod(method string) bool {
	switch method {
	case PosPaymentCash, PosPaymentCard, PosPaymentOnline, PosPaymentMixed, PosPaymentCredit:
		return true
	default:
		return false
	}
}

// PosTransactionItem is a snapshot line on a POS bill. The snapshot is copied
// from the cart and not shared with any kitchen order created alongside it.
type PosTransactionItem struct {
	ID            int64   `json:"id" db:"id"`
	TransactionID int64   `json:"transaction_id" db:"transaction_id"`
	Position      int     `json:"position" db:"position"`
	ItemRef       *string `json:"item_ref,omitempty" db:"item_ref"`
	Name          string  `json:"name" db:"name"`
	UnitPrice     float64 `json:"unit_price" db:"unit_price"`
	Quantity      int     `json:"quantity" db:"quantity"`
}

// PosTransaction is a point-of-sale billing record. The payment components
// always reconcile: cash + credit + online == total amount, with credit
// carrying the unpaid remainder. Credit never goes negative; a transfer moves
// value from credit into cash or online without changing the total.
type PosTransaction struct {
	ID              int64                `json:"id" db:"id"`
	TotalAmount     float64              `json:"total_amount" db:"total_amount"`
	Cash            float64              `json:"cash" db:"cash"`
	Credit          float64              `json:"credit" db:"credit"`
	Online          float64              `json:"online" db:"online"`
	Change          float64              `json:"change"`
	PaymentMethod   string               `json:"payment_method" db:"payment_method"`
	OrderType       string               `json:"order_type" db:"order_type"`
	CustomerName    string               `json:"customer_name" db:"customer_name"`
	CustomerContact *string              `json:"customer_contact,omitempty" db:"customer_contact"`
	KitchenOrderID  *int64               `json:"kitchen_order_id,omitempty" db:"kitchen_order_id"`
	Items           []PosTransactionItem `json:"items"`
	CreatedAt       time.Time            `json:"created_at" db:"created_at"`
}

// SalesSummary is a time-windowed aggregation over POS transactions.
type SalesSummary struct {
	TotalSales  float64 `json:"total_sales"`
	TotalCash   float64 `json:"total_cash"`
	TotalOnline float64 `json:"total_online"`
	TotalCredit float64 `json:"total_credit"`
	Orders      int     `json:"orders"`
}

// ItemSales aggregates quantity and revenue per item name across bills.
type ItemSales struct {
	Name          string  `json:"name"`
	TotalQuantity int     `json:"total_quantity"`
	TotalSales    float64 `json:"total_sales"`
}

// PaymentTypeTotals is the per-component payment breakdown for a window.
type PaymentTypeTotals struct {
	TotalCash   float64 `json:"total_cash"`
	TotalCredit float64 `json:"total_credit"`
	TotalOnline float64 `json:"total_online"`
}
