package services

import (
	"errors"
	"testing"

	"restro_erp_backend/internal/models"
)

func TestGetBillForTable(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	unitRepo := newFakeUnitRepo()
	orderSvc := NewOrderService(orderRepo, unitRepo, passTxRunner{}, nil)
	billSvc := NewBillService(unitRepo, orderRepo)

	unitRepo.addUnit(models.UnitKindTable, "T1")

	t.Run("unknown table", func(t *testing.T) {
		if _, err := billSvc.GetBillForTable("T9"); !errors.Is(err, ErrUnitNotFound) {
			t.Fatalf("err = %v, want ErrUnitNotFound", err)
		}
	})

	t.Run("free table has no bill", func(t *testing.T) {
		if _, err := billSvc.GetBillForTable("T1"); !errors.Is(err, ErrNoActiveOrderForUnit) {
			t.Fatalf("err = %v, want ErrNoActiveOrderForUnit", err)
		}
	})

	order, err := orderSvc.CreateOrder(dineInRequest("T1"))
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	t.Run("order not completed", func(t *testing.T) {
		if _, err := billSvc.GetBillForTable("T1"); !errors.Is(err, ErrBillNotReady) {
			t.Fatalf("err = %v, want ErrBillNotReady", err)
		}
	})

	t.Run("completed order derives bill", func(t *testing.T) {
		orderRepo.orders[order.ID].Status = models.OrderStatusCompleted

		bill, err := billSvc.GetBillForTable("T1")
		if err != nil {
			t.Fatalf("GetBillForTable: %v", err)
		}
		if bill.OrderID != order.ID || bill.TableLabel != "T1" {
			t.Errorf("bill header wrong: %+v", bill)
		}
		if len(bill.Lines) != 2 {
			t.Fatalf("line count = %d, want 2", len(bill.Lines))
		}
		if !almostEqual(bill.Lines[0].LineTotal, 15.00) {
			t.Errorf("line total = %v, want 15.00", bill.Lines[0].LineTotal)
		}

		subtotal := 2*7.50 + 1.25
		if !almostEqual(bill.Subtotal, Round2(subtotal)) {
			t.Errorf("subtotal = %v, want %v", bill.Subtotal, subtotal)
		}
		if !almostEqual(bill.Tax, Round2(subtotal*TaxRate)) {
			t.Errorf("tax = %v, want %v", bill.Tax, Round2(subtotal*TaxRate))
		}
		if !almostEqual(bill.Total, Round2(subtotal*(1+TaxRate))) {
			t.Errorf("total = %v, want %v", bill.Total, Round2(subtotal*(1+TaxRate)))
		}
	})

	t.Run("bill is re-derived on each request", func(t *testing.T) {
		first, err := billSvc.GetBillForTable("T1")
		if err != nil {
			t.Fatalf("GetBillForTable: %v", err)
		}
		second, err := billSvc.GetBillForTable("T1")
		if err != nil {
			t.Fatalf("GetBillForTable: %v", err)
		}
		if first.Total != second.Total || first.Tax != second.Tax {
			t.Errorf("derivation not stable: %v vs %v", first, second)
		}
	})
}
