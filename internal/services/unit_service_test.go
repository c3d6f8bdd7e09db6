package services

import (
	"errors"
	"testing"

	"restro_erp_backend/internal/models"
)

func newTestUnitService() (UnitService, *fakeOrderRepo, *fakeUnitRepo) {
	orderRepo := newFakeOrderRepo()
	unitRepo := newFakeUnitRepo()
	orderSvc := NewOrderService(orderRepo, unitRepo, passTxRunner{}, nil)
	unitSvc := NewUnitService(unitRepo, orderSvc, passTxRunner{})
	return unitSvc, orderRepo, unitRepo
}

func TestCreateTableAndDuplicate(t *testing.T) {
	unitSvc, _, _ := newTestUnitService()

	table, err := unitSvc.CreateTable(CreateTableRequest{Label: "T1"})
	if err != nil {
		t.Fatalf("CreateTable: %v", err)
	}
	if table.Kind != models.UnitKindTable || table.Occupied {
		t.Errorf("new table state wrong: %+v", table)
	}

	if _, err := unitSvc.CreateTable(CreateTableRequest{Label: "T1"}); !errors.Is(err, ErrUnitExists) {
		t.Fatalf("duplicate: err = %v, want ErrUnitExists", err)
	}
}

func TestCreateRoomValidation(t *testing.T) {
	unitSvc, _, _ := newTestUnitService()

	if _, err := unitSvc.CreateRoom(CreateRoomRequest{Label: "101", RoomType: "Deluxe"}); !errors.Is(err, ErrUnitValidation) {
		t.Fatalf("zero price: err = %v, want ErrUnitValidation", err)
	}

	room, err := unitSvc.CreateRoom(CreateRoomRequest{
		Label:         "101",
		RoomType:      "Deluxe",
		PricePerNight: 120,
		Amenities:     []string{"wifi", "ac"},
	})
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if room.Capacity == nil || *room.Capacity != 2 {
		t.Errorf("default capacity = %v, want 2", room.Capacity)
	}
}

func TestDeleteUnitRefusesOccupied(t *testing.T) {
	unitSvc, _, unitRepo := newTestUnitService()
	unit := unitRepo.addUnit(models.UnitKindTable, "T1")
	unitRepo.SetOccupancy(nil, models.UnitKindTable, "T1", true, nil)

	if err := unitSvc.DeleteUnit(unit.ID); !errors.Is(err, ErrUnitOccupied) {
		t.Fatalf("err = %v, want ErrUnitOccupied", err)
	}

	unitRepo.SetOccupancy(nil, models.UnitKindTable, "T1", false, nil)
	if err := unitSvc.DeleteUnit(unit.ID); err != nil {
		t.Fatalf("DeleteUnit of free table: %v", err)
	}
}

func TestCountByOccupancy(t *testing.T) {
	unitSvc, _, unitRepo := newTestUnitService()
	unitRepo.addUnit(models.UnitKindTable, "T1")
	unitRepo.addUnit(models.UnitKindTable, "T2")
	unitRepo.addUnit(models.UnitKindRoom, "101")
	unitRepo.SetOccupancy(nil, models.UnitKindTable, "T1", true, nil)

	counts, err := unitSvc.CountByOccupancy(models.UnitKindTable)
	if err != nil {
		t.Fatalf("CountByOccupancy: %v", err)
	}
	if counts.Total != 2 || counts.Occupied != 1 || counts.Free != 1 {
		t.Errorf("counts = %+v, want 2/1/1", counts)
	}
}

func TestRoomCheckInAndCheckOut(t *testing.T) {
	unitSvc, orderRepo, unitRepo := newTestUnitService()
	unitRepo.addUnit(models.UnitKindRoom, "101")

	room, err := unitSvc.CheckInRoom("101", CheckInRequest{})
	if err != nil {
		t.Fatalf("CheckInRoom: %v", err)
	}
	if !room.Occupied || room.CheckInDate == nil {
		t.Errorf("room not checked in: %+v", room)
	}

	if _, err := unitSvc.CheckInRoom("101", CheckInRequest{}); !errors.Is(err, ErrRoomAlreadyBooked) {
		t.Fatalf("double check-in: err = %v, want ErrRoomAlreadyBooked", err)
	}

	// No bound order: check-out releases immediately.
	if err := unitSvc.CheckOutRoom("101"); err != nil {
		t.Fatalf("CheckOutRoom: %v", err)
	}
	released, _ := unitRepo.GetUnitByLabel(nil, models.UnitKindRoom, "101")
	if released.Occupied || released.CheckOutDate == nil {
		t.Errorf("room not checked out: %+v", released)
	}

	// With a bound order, check-out is gated on completion.
	order := &models.Order{OrderType: models.OrderTypeDelivery, Status: models.OrderStatusInProgress}
	orderRepo.CreateOrder(nil, order)
	if _, err := unitSvc.CheckInRoom("101", CheckInRequest{OrderID: &order.ID}); err != nil {
		t.Fatalf("second CheckInRoom: %v", err)
	}
	if err := unitSvc.CheckOutRoom("101"); !errors.Is(err, ErrOrderNotCompleted) {
		t.Fatalf("check-out with open order: err = %v, want ErrOrderNotCompleted", err)
	}

	orderRepo.orders[order.ID].Status = models.OrderStatusCompleted
	if err := unitSvc.CheckOutRoom("101"); err != nil {
		t.Fatalf("check-out after completion: %v", err)
	}
}

func TestCheckOutFreeRoom(t *testing.T) {
	unitSvc, _, unitRepo := newTestUnitService()
	unitRepo.addUnit(models.UnitKindRoom, "101")

	if err := unitSvc.CheckOutRoom("101"); !errors.Is(err, ErrUnitNotOccupied) {
		t.Fatalf("err = %v, want ErrUnitNotOccupied", err)
	}
}
