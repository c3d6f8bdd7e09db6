package services

import (
	"errors"
	"testing"

	"restro_erp_backend/internal/models"
)

func newTestPosService() (PosService, *fakePosRepo, *fakeOrderRepo, *fakeUnitRepo) {
	orderRepo := newFakeOrderRepo()
	unitRepo := newFakeUnitRepo()
	posRepo := newFakePosRepo()
	orderSvc := NewOrderService(orderRepo, unitRepo, passTxRunner{}, nil)
	posSvc := NewPosService(posRepo, orderRepo, unitRepo, orderSvc, passTxRunner{}, nil)
	return posSvc, posRepo, orderRepo, unitRepo
}

func TestCreateTransactionCommitsBillAndOrderTogether(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	unitRepo := newFakeUnitRepo()
	posRepo := newFakePosRepo()
	runner := &countingTxRunner{}
	orderSvc := NewOrderService(orderRepo, unitRepo, passTxRunner{}, nil)
	posSvc := NewPosService(posRepo, orderRepo, unitRepo, orderSvc, runner, nil)

	txn, err := posSvc.CreateTransaction(CreateTransactionRequest{
		Cart: posCart(),
		Cash: 14.00,
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if runner.calls != 1 {
		t.Errorf("bill and kitchen order ran in %d transactions, want 1", runner.calls)
	}
	if txn.KitchenOrderID == nil {
		t.Fatal("no kitchen order spawned")
	}
	if orderRepo.orders[*txn.KitchenOrderID] == nil {
		t.Fatal("kitchen order not persisted with the bill")
	}
}

func posCart() []PosCartItemRequest {
	return []PosCartItemRequest{
		{Name: "Lagman", Price: 6.00, Quantity: 2},
		{Name: "Juice", Price: 2.00, Quantity: 1},
	}
}

func TestCreateTransactionSpawnsKitchenOrder(t *testing.T) {
	posSvc, _, orderRepo, unitRepo := newTestPosService()
	unitRepo.addUnit(models.UnitKindTable, "T1")

	txn, err := posSvc.CreateTransaction(CreateTransactionRequest{
		Cart:       posCart(),
		Cash:       14.00,
		TableLabel: "T1",
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	if !almostEqual(txn.TotalAmount, 14.00) {
		t.Errorf("total = %v, want 14.00", txn.TotalAmount)
	}
	if txn.Credit != 0 || txn.Change != 0 {
		t.Errorf("exact payment should leave no credit/change: %+v", txn)
	}
	if txn.KitchenOrderID == nil {
		t.Fatal("no kitchen order spawned")
	}

	kitchen := orderRepo.orders[*txn.KitchenOrderID]
	if kitchen == nil {
		t.Fatal("kitchen order not persisted")
	}
	if kitchen.Status != models.OrderStatusInProgress {
		t.Errorf("kitchen order status = %q, want in-progress", kitchen.Status)
	}
	if !kitchen.SentToKitchen {
		t.Error("kitchen order should start with the ticket already sent")
	}
	if kitchen.OrderType != models.OrderTypeDineIn {
		t.Errorf("kitchen order type = %q, want dine-in", kitchen.OrderType)
	}

	unit, _ := unitRepo.GetUnitByLabel(nil, models.UnitKindTable, "T1")
	if !unit.Occupied || unit.ActiveOrderID == nil || *unit.ActiveOrderID != kitchen.ID {
		t.Errorf("table not bound to kitchen order: %+v", unit)
	}
}

func TestCreateTransactionTakeawayWithoutTable(t *testing.T) {
	posSvc, _, orderRepo, _ := newTestPosService()

	txn, err := posSvc.CreateTransaction(CreateTransactionRequest{
		Cart:           posCart(),
		Cash:           20.00,
		CustomerNumber: "555-0101",
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if !almostEqual(txn.Change, 6.00) {
		t.Errorf("change = %v, want 6.00", txn.Change)
	}

	kitchen := orderRepo.orders[*txn.KitchenOrderID]
	if kitchen.OrderType != models.OrderTypeDelivery {
		t.Errorf("takeaway order type = %q, want delivery", kitchen.OrderType)
	}
	if kitchen.DeliveryAddress == nil || *kitchen.DeliveryAddress != "Takeaway" {
		t.Errorf("takeaway address = %v, want \"Takeaway\"", kitchen.DeliveryAddress)
	}
}

func TestCreateTransactionUnderpaidLeavesCredit(t *testing.T) {
	posSvc, _, _, unitRepo := newTestPosService()
	unitRepo.addUnit(models.UnitKindTable, "T1")

	txn, err := posSvc.CreateTransaction(CreateTransactionRequest{
		Cart:       posCart(), // total 14.00
		Cash:       5.00,
		Online:     4.00,
		TableLabel: "T1",
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if !almostEqual(txn.Credit, 5.00) {
		t.Errorf("credit = %v, want 5.00", txn.Credit)
	}
	if got := txn.Cash + txn.Credit + txn.Online; !almostEqual(got, txn.TotalAmount) {
		t.Errorf("components %v do not reconcile to total %v", got, txn.TotalAmount)
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	posSvc, _, _, _ := newTestPosService()

	if _, err := posSvc.CreateTransaction(CreateTransactionRequest{}); !errors.Is(err, ErrPosValidation) {
		t.Errorf("empty cart: err = %v, want ErrPosValidation", err)
	}
	if _, err := posSvc.CreateTransaction(CreateTransactionRequest{Cart: posCart(), Cash: -1}); !errors.Is(err, ErrPosValidation) {
		t.Errorf("negative cash: err = %v, want ErrPosValidation", err)
	}
	if _, err := posSvc.CreateTransaction(CreateTransactionRequest{Cart: posCart(), PaymentMethod: "barter"}); !errors.Is(err, ErrPosValidation) {
		t.Errorf("bad payment method: err = %v, want ErrPosValidation", err)
	}
}

func TestTransferCredit(t *testing.T) {
	posSvc, posRepo, _, unitRepo := newTestPosService()
	unitRepo.addUnit(models.UnitKindTable, "T1")

	txn, err := posSvc.CreateTransaction(CreateTransactionRequest{
		Cart:       posCart(), // total 14.00, nothing tendered -> credit 14.00
		TableLabel: "T1",
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	updated, err := posSvc.TransferCredit(txn.ID, TransferCreditRequest{TransferTo: models.PosPaymentCash, Amount: 10.00})
	if err != nil {
		t.Fatalf("TransferCredit: %v", err)
	}
	if !almostEqual(updated.Credit, 4.00) || !almostEqual(updated.Cash, 10.00) {
		t.Errorf("after transfer: credit %v cash %v, want 4.00/10.00", updated.Credit, updated.Cash)
	}
	if !almostEqual(updated.TotalAmount, 14.00) {
		t.Errorf("total changed by transfer: %v", updated.TotalAmount)
	}

	// More than the remaining credit.
	if _, err := posSvc.TransferCredit(txn.ID, TransferCreditRequest{TransferTo: models.PosPaymentOnline, Amount: 5.00}); !errors.Is(err, ErrInsufficientCredit) {
		t.Errorf("overdraw: err = %v, want ErrInsufficientCredit", err)
	}

	// Unknown transaction.
	if _, err := posSvc.TransferCredit(999, TransferCreditRequest{TransferTo: models.PosPaymentCash, Amount: 1.00}); !errors.Is(err, ErrTransactionNotFound) {
		t.Errorf("missing txn: err = %v, want ErrTransactionNotFound", err)
	}

	// Invalid target and amount.
	if _, err := posSvc.TransferCredit(txn.ID, TransferCreditRequest{TransferTo: "crypto", Amount: 1.00}); !errors.Is(err, ErrInvalidTransferTarget) {
		t.Errorf("bad target: err = %v, want ErrInvalidTransferTarget", err)
	}
	if _, err := posSvc.TransferCredit(txn.ID, TransferCreditRequest{TransferTo: models.PosPaymentCash, Amount: 0}); !errors.Is(err, ErrPosValidation) {
		t.Errorf("zero amount: err = %v, want ErrPosValidation", err)
	}

	// The stored record reflects only the successful transfer.
	stored, _ := posRepo.GetTransactionByID(nil, txn.ID)
	if !almostEqual(stored.Credit, 4.00) {
		t.Errorf("stored credit = %v, want 4.00", stored.Credit)
	}
}

func TestAddItemsToTableOrder(t *testing.T) {
	posSvc, _, _, unitRepo := newTestPosService()
	unitRepo.addUnit(models.UnitKindTable, "T1")

	// No active order bound yet.
	_, err := posSvc.AddItemsToTableOrder("T1", AddTableItemsRequest{Cart: posCart()})
	if !errors.Is(err, ErrNoActiveTableOrder) {
		t.Fatalf("free table: err = %v, want ErrNoActiveTableOrder", err)
	}

	// Seat an order via the POS billing path, then extend it.
	txn, err := posSvc.CreateTransaction(CreateTransactionRequest{Cart: posCart(), Cash: 14.00, TableLabel: "T1"})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	order, err := posSvc.AddItemsToTableOrder("T1", AddTableItemsRequest{
		Cart: []PosCartItemRequest{{Name: "Baursak", Price: 0.75, Quantity: 4}},
	})
	if err != nil {
		t.Fatalf("AddItemsToTableOrder: %v", err)
	}
	if order.ID != *txn.KitchenOrderID {
		t.Errorf("items added to order %d, want bound order %d", order.ID, *txn.KitchenOrderID)
	}
	if got, want := order.Subtotal, 14.00+4*0.75; !almostEqual(got, want) {
		t.Errorf("subtotal = %v, want %v", got, want)
	}
}

func TestRangeWindowRejectsUnknownRange(t *testing.T) {
	posSvc, _, _, _ := newTestPosService()
	if _, err := posSvc.SalesByRange("decade"); !errors.Is(err, ErrPosValidation) {
		t.Fatalf("err = %v, want ErrPosValidation", err)
	}
}
