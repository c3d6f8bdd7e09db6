package services

import (
	"errors"
	"testing"

	"restro_erp_backend/internal/models"
	"restro_erp_backend/internal/repositories"
)

func newTestOrderService() (OrderService, *fakeOrderRepo, *fakeUnitRepo) {
	orderRepo := newFakeOrderRepo()
	unitRepo := newFakeUnitRepo()
	svc := NewOrderService(orderRepo, unitRepo, passTxRunner{}, nil)
	return svc, orderRepo, unitRepo
}

func dineInRequest(table string) CreateOrderRequest {
	return CreateOrderRequest{
		CustomerName:  "Asel",
		OrderType:     models.OrderTypeDineIn,
		TableLabel:    table,
		PaymentMethod: models.PaymentMethodCounter,
		Items: []OrderItemRequest{
			{Name: "Plov", Quantity: 2, Price: 7.50},
			{Name: "Tea", Quantity: 1, Price: 1.25},
		},
	}
}

func TestCreateOrderDineInBindsTable(t *testing.T) {
	svc, _, unitRepo := newTestOrderService()
	unitRepo.addUnit(models.UnitKindTable, "T1")

	order, err := svc.CreateOrder(dineInRequest("T1"))
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if order.Status != models.OrderStatusPending {
		t.Errorf("status = %q, want pending", order.Status)
	}
	if got, want := order.Subtotal, 2*7.50+1.25; got != want {
		t.Errorf("subtotal = %v, want %v", got, want)
	}
	if len(order.Items) != 2 || order.Items[0].Position != 0 || order.Items[1].Position != 1 {
		t.Errorf("items not stored with sequential positions: %+v", order.Items)
	}

	unit, _ := unitRepo.GetUnitByLabel(nil, models.UnitKindTable, "T1")
	if !unit.Occupied {
		t.Error("table should be occupied after dine-in create")
	}
	if unit.ActiveOrderID == nil || *unit.ActiveOrderID != order.ID {
		t.Errorf("table active order = %v, want %d", unit.ActiveOrderID, order.ID)
	}
}

func TestCreateOrderDineInUnknownTable(t *testing.T) {
	svc, _, _ := newTestOrderService()

	_, err := svc.CreateOrder(dineInRequest("T9"))
	if !errors.Is(err, ErrUnitNotFound) {
		t.Fatalf("err = %v, want ErrUnitNotFound", err)
	}
}

func TestCreateOrderOnOccupiedTableStacksOrders(t *testing.T) {
	svc, _, unitRepo := newTestOrderService()
	unitRepo.addUnit(models.UnitKindTable, "T1")

	first, err := svc.CreateOrder(dineInRequest("T1"))
	if err != nil {
		t.Fatalf("first CreateOrder: %v", err)
	}
	second, err := svc.CreateOrder(dineInRequest("T1"))
	if err != nil {
		t.Fatalf("second CreateOrder on occupied table: %v", err)
	}

	// The newest order takes over the binding.
	unit, _ := unitRepo.GetUnitByLabel(nil, models.UnitKindTable, "T1")
	if unit.ActiveOrderID == nil || *unit.ActiveOrderID != second.ID {
		t.Errorf("active order = %v, want %d", unit.ActiveOrderID, second.ID)
	}
	if first.ID == second.ID {
		t.Error("expected two distinct orders")
	}
}

func TestCreateOrderValidation(t *testing.T) {
	svc, _, unitRepo := newTestOrderService()
	unitRepo.addUnit(models.UnitKindTable, "T1")

	tests := []struct {
		name   string
		mutate func(*CreateOrderRequest)
	}{
		{"no items", func(r *CreateOrderRequest) { r.Items = nil }},
		{"zero quantity", func(r *CreateOrderRequest) { r.Items[0].Quantity = 0 }},
		{"negative price", func(r *CreateOrderRequest) { r.Items[0].Price = -1 }},
		{"missing table for dine-in", func(r *CreateOrderRequest) { r.TableLabel = "" }},
		{"unknown order type", func(r *CreateOrderRequest) { r.OrderType = "drive-thru" }},
		{"bad payment method", func(r *CreateOrderRequest) { r.PaymentMethod = "barter" }},
		{"terminal initial status", func(r *CreateOrderRequest) { r.Status = models.OrderStatusCompleted }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := dineInRequest("T1")
			tc.mutate(&req)
			if _, err := svc.CreateOrder(req); !errors.Is(err, ErrOrderValidation) {
				t.Errorf("err = %v, want ErrOrderValidation", err)
			}
		})
	}
}

func TestCreateOrderDeliveryRequiresAddress(t *testing.T) {
	svc, _, _ := newTestOrderService()

	req := dineInRequest("")
	req.OrderType = models.OrderTypeDelivery
	req.DeliveryAddress = ""
	if _, err := svc.CreateOrder(req); !errors.Is(err, ErrOrderValidation) {
		t.Fatalf("err = %v, want ErrOrderValidation", err)
	}

	req.DeliveryAddress = "12 Abay Ave"
	req.PhoneNumber = "555-0101"
	order, err := svc.CreateOrder(req)
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if order.DeliveryAddress == nil || *order.DeliveryAddress != "12 Abay Ave" {
		t.Errorf("delivery address not stored: %v", order.DeliveryAddress)
	}
}

func TestChangeStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to string
		ok       bool
	}{
		{models.OrderStatusPending, models.OrderStatusInProgress, true},
		{models.OrderStatusPending, models.OrderStatusCancelled, true},
		{models.OrderStatusPending, models.OrderStatusCompleted, false},
		{models.OrderStatusInProgress, models.OrderStatusCompleted, true},
		{models.OrderStatusInProgress, models.OrderStatusDelivered, true},
		{models.OrderStatusInProgress, models.OrderStatusPending, false},
		{models.OrderStatusCompleted, models.OrderStatusInProgress, false},
		{models.OrderStatusCancelled, models.OrderStatusPending, false},
	}
	for _, tc := range tests {
		t.Run(tc.from+" to "+tc.to, func(t *testing.T) {
			svc, orderRepo, unitRepo := newTestOrderService()
			unitRepo.addUnit(models.UnitKindTable, "T1")
			order, err := svc.CreateOrder(dineInRequest("T1"))
			if err != nil {
				t.Fatalf("CreateOrder: %v", err)
			}
			orderRepo.orders[order.ID].Status = tc.from

			_, err = svc.ChangeStatus(order.ID, tc.to)
			if tc.ok && err != nil {
				t.Errorf("ChangeStatus(%s -> %s) = %v, want nil", tc.from, tc.to, err)
			}
			if !tc.ok && !errors.Is(err, ErrInvalidStatusTransition) {
				t.Errorf("ChangeStatus(%s -> %s) = %v, want ErrInvalidStatusTransition", tc.from, tc.to, err)
			}
		})
	}
}

func TestChangeStatusRejectsUnknownStatus(t *testing.T) {
	svc, _, _ := newTestOrderService()
	if _, err := svc.ChangeStatus(1, "paused"); !errors.Is(err, ErrInvalidOrderStatus) {
		t.Fatalf("err = %v, want ErrInvalidOrderStatus", err)
	}
}

func TestChangeStatusDoesNotReleaseTable(t *testing.T) {
	svc, orderRepo, unitRepo := newTestOrderService()
	unitRepo.addUnit(models.UnitKindTable, "T1")
	order, _ := svc.CreateOrder(dineInRequest("T1"))
	orderRepo.orders[order.ID].Status = models.OrderStatusInProgress

	if _, err := svc.ChangeStatus(order.ID, models.OrderStatusCompleted); err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}

	unit, _ := unitRepo.GetUnitByLabel(nil, models.UnitKindTable, "T1")
	if !unit.Occupied {
		t.Error("completing an order must not release the table; release is explicit")
	}
}

func TestAddItemsAppendsAndRecomputesSubtotal(t *testing.T) {
	svc, _, unitRepo := newTestOrderService()
	unitRepo.addUnit(models.UnitKindTable, "T1")
	order, _ := svc.CreateOrder(dineInRequest("T1"))

	updated, err := svc.AddItems(order.ID, AddItemsRequest{
		TableLabel: "T1",
		NewItems: []OrderItemRequest{
			{Name: "Baursak", Quantity: 4, Price: 0.75},
		},
	})
	if err != nil {
		t.Fatalf("AddItems: %v", err)
	}
	if len(updated.Items) != 3 {
		t.Fatalf("item count = %d, want 3", len(updated.Items))
	}
	if updated.Items[2].Position != 2 {
		t.Errorf("appended item position = %d, want 2", updated.Items[2].Position)
	}
	if got, want := updated.Subtotal, 2*7.50+1.25+4*0.75; got != want {
		t.Errorf("subtotal = %v, want %v", got, want)
	}
}

func TestAddItemsTableGuards(t *testing.T) {
	svc, _, unitRepo := newTestOrderService()
	unitRepo.addUnit(models.UnitKindTable, "T1")
	unitRepo.addUnit(models.UnitKindTable, "T2")
	order, _ := svc.CreateOrder(dineInRequest("T1"))

	items := []OrderItemRequest{{Name: "Tea", Quantity: 1, Price: 1.25}}

	if _, err := svc.AddItems(order.ID, AddItemsRequest{NewItems: items}); !errors.Is(err, ErrTableMismatch) {
		t.Errorf("missing table label: err = %v, want ErrTableMismatch", err)
	}
	if _, err := svc.AddItems(order.ID, AddItemsRequest{NewItems: items, TableLabel: "T2"}); !errors.Is(err, ErrTableMismatch) {
		t.Errorf("wrong table label: err = %v, want ErrTableMismatch", err)
	}

	// Rebind the table to a different order: the original order loses its claim.
	otherID := order.ID + 100
	unitRepo.SetOccupancy(nil, models.UnitKindTable, "T1", true, &otherID)
	if _, err := svc.AddItems(order.ID, AddItemsRequest{NewItems: items, TableLabel: "T1"}); !errors.Is(err, ErrTableNotBound) {
		t.Errorf("rebound table: err = %v, want ErrTableNotBound", err)
	}
}

func TestAddItemsRejectsSettledOrder(t *testing.T) {
	svc, orderRepo, unitRepo := newTestOrderService()
	unitRepo.addUnit(models.UnitKindTable, "T1")
	order, _ := svc.CreateOrder(dineInRequest("T1"))
	orderRepo.orders[order.ID].Status = models.OrderStatusCompleted

	_, err := svc.AddItems(order.ID, AddItemsRequest{
		TableLabel: "T1",
		NewItems:   []OrderItemRequest{{Name: "Tea", Quantity: 1, Price: 1.25}},
	})
	if !errors.Is(err, ErrOrderNotEditable) {
		t.Fatalf("err = %v, want ErrOrderNotEditable", err)
	}
}

func TestEditOrderPatchesItemsAndSubtotal(t *testing.T) {
	svc, _, unitRepo := newTestOrderService()
	unitRepo.addUnit(models.UnitKindTable, "T1")
	order, _ := svc.CreateOrder(dineInRequest("T1"))

	newName := "Beshbarmak"
	newQty := 3
	updated, err := svc.EditOrder(order.ID, EditOrderRequest{
		UpdatedItems: []UpdateOrderItemRequest{
			{ID: order.Items[0].ID, Name: &newName, Quantity: &newQty},
		},
	})
	if err != nil {
		t.Fatalf("EditOrder: %v", err)
	}
	if updated.Items[0].Name != "Beshbarmak" || updated.Items[0].Quantity != 3 {
		t.Errorf("item not patched: %+v", updated.Items[0])
	}
	if got, want := updated.Subtotal, 3*7.50+1.25; got != want {
		t.Errorf("subtotal = %v, want %v", got, want)
	}

	badQty := 0
	_, err = svc.EditOrder(order.ID, EditOrderRequest{
		UpdatedItems: []UpdateOrderItemRequest{{ID: order.Items[0].ID, Quantity: &badQty}},
	})
	if !errors.Is(err, ErrOrderValidation) {
		t.Errorf("zero quantity patch: err = %v, want ErrOrderValidation", err)
	}
}

func TestCompleteByUnitCompletesAndReleases(t *testing.T) {
	svc, orderRepo, unitRepo := newTestOrderService()
	unitRepo.addUnit(models.UnitKindTable, "T1")
	first, _ := svc.CreateOrder(dineInRequest("T1"))
	second, _ := svc.CreateOrder(dineInRequest("T1"))

	result, err := svc.CompleteByUnit("T1")
	if err != nil {
		t.Fatalf("CompleteByUnit: %v", err)
	}
	if result.MatchedCount != 2 || result.ModifiedCount != 2 {
		t.Errorf("result = %+v, want matched/modified 2", result)
	}
	for _, id := range []int64{first.ID, second.ID} {
		if orderRepo.orders[id].Status != models.OrderStatusCompleted {
			t.Errorf("order %d status = %q, want completed", id, orderRepo.orders[id].Status)
		}
	}

	unit, _ := unitRepo.GetUnitByLabel(nil, models.UnitKindTable, "T1")
	if unit.Occupied || unit.ActiveOrderID != nil {
		t.Errorf("table not released: %+v", unit)
	}
}

func TestCompleteByUnitNoActiveOrders(t *testing.T) {
	svc, _, unitRepo := newTestOrderService()
	unitRepo.addUnit(models.UnitKindTable, "T1")

	if _, err := svc.CompleteByUnit("T1"); !errors.Is(err, ErrNoActiveOrders) {
		t.Fatalf("err = %v, want ErrNoActiveOrders", err)
	}
}

func TestReleaseUnit(t *testing.T) {
	t.Run("not occupied", func(t *testing.T) {
		svc, _, unitRepo := newTestOrderService()
		unitRepo.addUnit(models.UnitKindTable, "T1")
		if err := svc.ReleaseUnit(models.UnitKindTable, "T1"); !errors.Is(err, ErrUnitNotOccupied) {
			t.Fatalf("err = %v, want ErrUnitNotOccupied", err)
		}
	})

	t.Run("missing unit", func(t *testing.T) {
		svc, _, _ := newTestOrderService()
		if err := svc.ReleaseUnit(models.UnitKindTable, "T9"); !errors.Is(err, ErrUnitNotOccupied) {
			t.Fatalf("err = %v, want ErrUnitNotOccupied", err)
		}
	})

	t.Run("active order not completed", func(t *testing.T) {
		svc, _, unitRepo := newTestOrderService()
		unitRepo.addUnit(models.UnitKindTable, "T1")
		if _, err := svc.CreateOrder(dineInRequest("T1")); err != nil {
			t.Fatalf("CreateOrder: %v", err)
		}
		if err := svc.ReleaseUnit(models.UnitKindTable, "T1"); !errors.Is(err, ErrOrderNotCompleted) {
			t.Fatalf("err = %v, want ErrOrderNotCompleted", err)
		}
	})

	t.Run("completed order releases", func(t *testing.T) {
		svc, orderRepo, unitRepo := newTestOrderService()
		unitRepo.addUnit(models.UnitKindTable, "T1")
		order, _ := svc.CreateOrder(dineInRequest("T1"))
		orderRepo.orders[order.ID].Status = models.OrderStatusCompleted

		if err := svc.ReleaseUnit(models.UnitKindTable, "T1"); err != nil {
			t.Fatalf("ReleaseUnit: %v", err)
		}
		unit, _ := unitRepo.GetUnitByLabel(nil, models.UnitKindTable, "T1")
		if unit.Occupied || unit.ActiveOrderID != nil {
			t.Errorf("table not released: %+v", unit)
		}
	})

	t.Run("dangling order reference self-heals", func(t *testing.T) {
		svc, _, unitRepo := newTestOrderService()
		unitRepo.addUnit(models.UnitKindTable, "T1")
		ghost := int64(404)
		unitRepo.SetOccupancy(nil, models.UnitKindTable, "T1", true, &ghost)

		if err := svc.ReleaseUnit(models.UnitKindTable, "T1"); err != nil {
			t.Fatalf("ReleaseUnit with dangling ref: %v", err)
		}
	})

	t.Run("occupied without order releases", func(t *testing.T) {
		svc, _, unitRepo := newTestOrderService()
		unitRepo.addUnit(models.UnitKindTable, "T1")
		unitRepo.SetOccupancy(nil, models.UnitKindTable, "T1", true, nil)

		if err := svc.ReleaseUnit(models.UnitKindTable, "T1"); err != nil {
			t.Fatalf("ReleaseUnit without bound order: %v", err)
		}
	})
}

func TestSendToKitchenIsOneWay(t *testing.T) {
	svc, _, unitRepo := newTestOrderService()
	unitRepo.addUnit(models.UnitKindTable, "T1")
	order, _ := svc.CreateOrder(dineInRequest("T1"))

	sent, err := svc.SendToKitchen(order.ID)
	if err != nil {
		t.Fatalf("SendToKitchen: %v", err)
	}
	if !sent.SentToKitchen {
		t.Error("SentToKitchen flag not set")
	}

	if _, err := svc.SendToKitchen(order.ID); !errors.Is(err, ErrAlreadySentToKitchen) {
		t.Fatalf("second call: err = %v, want ErrAlreadySentToKitchen", err)
	}
}

func TestGetOrdersInWindowRejectsUnknownWindow(t *testing.T) {
	svc, _, _ := newTestOrderService()
	if _, _, err := svc.GetOrdersInWindow("fortnightly"); !errors.Is(err, ErrOrderValidation) {
		t.Fatalf("err = %v, want ErrOrderValidation", err)
	}
}

func TestOrderTotalAddsDeliveryFeeOnReads(t *testing.T) {
	svc, _, unitRepo := newTestOrderService()
	unitRepo.addUnit(models.UnitKindTable, "T1")

	dineIn, err := svc.CreateOrder(dineInRequest("T1"))
	if err != nil {
		t.Fatalf("CreateOrder dine-in: %v", err)
	}
	if !almostEqual(dineIn.Total, Round2(dineIn.Subtotal)) {
		t.Errorf("dine-in total = %v, want subtotal %v", dineIn.Total, dineIn.Subtotal)
	}

	delivery, err := svc.CreateOrder(CreateOrderRequest{
		CustomerName:    "Dana",
		OrderType:       models.OrderTypeDelivery,
		DeliveryAddress: "12 Abay Ave",
		PaymentMethod:   models.PaymentMethodCounter,
		Items: []OrderItemRequest{
			{Name: "Lagman", Quantity: 1, Price: 6.00},
		},
	})
	if err != nil {
		t.Fatalf("CreateOrder delivery: %v", err)
	}
	want := Round2(delivery.Subtotal + FlatDeliveryFee)
	if !almostEqual(delivery.Total, want) {
		t.Errorf("delivery total = %v, want %v", delivery.Total, want)
	}

	reread, err := svc.GetOrderByID(delivery.ID)
	if err != nil {
		t.Fatalf("GetOrderByID: %v", err)
	}
	if !almostEqual(reread.Total, want) {
		t.Errorf("re-read delivery total = %v, want %v", reread.Total, want)
	}
}

func TestStaleHeaderWriteReportsVersionConflict(t *testing.T) {
	svc, orderRepo, unitRepo := newTestOrderService()
	unitRepo.addUnit(models.UnitKindTable, "T1")
	order, _ := svc.CreateOrder(dineInRequest("T1"))

	// Another writer bumps the stored version; a write against the old
	// snapshot must be rejected.
	orderRepo.orders[order.ID].Version++

	err := orderRepo.UpdateOrderHeader(nil, order, order.Version)
	if !errors.Is(err, repositories.ErrVersionConflict) {
		t.Fatalf("err = %v, want ErrVersionConflict", err)
	}
}

// racingOrderRepo lets a second writer commit between the service's read of
// an order and its conditional status write.
type racingOrderRepo struct {
	*fakeOrderRepo
	afterItemsRead func()
}

func (r *racingOrderRepo) GetOrderItemsByOrderID(tx repositories.SQLExecutor, orderID int64) ([]models.OrderItem, error) {
	items, err := r.fakeOrderRepo.GetOrderItemsByOrderID(tx, orderID)
	if r.afterItemsRead != nil {
		r.afterItemsRead()
	}
	return items, err
}

func TestChangeStatusConcurrentCompletionIsNotOverwritten(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	unitRepo := newFakeUnitRepo()
	racing := &racingOrderRepo{fakeOrderRepo: orderRepo}
	svc := NewOrderService(racing, unitRepo, passTxRunner{}, nil)

	unitRepo.addUnit(models.UnitKindTable, "T1")
	order, err := svc.CreateOrder(dineInRequest("T1"))
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	orderRepo.orders[order.ID].Status = models.OrderStatusInProgress

	// The second writer completes the order after this request has read it
	// as in-progress but before it writes the cancellation.
	racing.afterItemsRead = func() {
		stored := orderRepo.orders[order.ID]
		stored.Status = models.OrderStatusCompleted
		stored.Version++
	}

	_, err = svc.ChangeStatus(order.ID, models.OrderStatusCancelled)
	if !errors.Is(err, repositories.ErrVersionConflict) {
		t.Fatalf("err = %v, want ErrVersionConflict", err)
	}
	if got := orderRepo.orders[order.ID].Status; got != models.OrderStatusCompleted {
		t.Fatalf("status = %q, the concurrent completion must not be overwritten", got)
	}
}
