package services

import "math"

// Billing constants used by the bill generation and POS paths.
const (
	TaxRate         = 0.13
	FlatDeliveryFee = 2.50
)

// Round2 rounds to two decimal places. It is applied at presentation only,
// never on intermediate values, so repeated derivations do not compound
// rounding error.
func Round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// Tax returns the tax portion for a subtotal.
func Tax(subtotal float64) float64 {
	return subtotal * TaxRate
}

// TotalWithTax returns the subtotal grossed up by the tax rate.
func TotalWithTax(subtotal float64) float64 {
	return subtotal * (1 + TaxRate)
}

// DeliveryTotal adds the flat delivery fee to a subtotal. It applies only to
// delivery orders.
func DeliveryTotal(subtotal float64) float64 {
	return subtotal + FlatDeliveryFee
}

// ReconcilePayments derives the credit and change components of a POS
// settlement from the fixed total and the tendered cash/online amounts.
// The two results are complementary: at most one is non-zero.
func ReconcilePayments(total, cash, online float64) (credit, change float64) {
	tendered := cash + online
	credit = math.Max(0, total-tendered)
	change = math.Max(0, tendered-total)
	return credit, change
}
