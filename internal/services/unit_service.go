package services

import (
	"errors"
	"fmt"
	"time"

	"restro_erp_backend/internal/models"
	"restro_erp_backend/internal/repositories"
)

// Custom Errors surfaced by the unit service.
var (
	ErrUnitExists        = errors.New("unit already exists")
	ErrUnitValidation    = errors.New("unit validation failed")
	ErrUnitOccupied      = errors.New("unit is currently booked")
	ErrRoomAlreadyBooked = errors.New("room is already booked")
)

// --- Unit DTOs ---

// CreateTableRequest registers a new dining table.
type CreateTableRequest struct {
	Label string `json:"table_number" binding:"required"`
}

// CreateRoomRequest registers a new hotel room.
type CreateRoomRequest struct {
	Label         string   `json:"room_number" binding:"required"`
	RoomType      string   `json:"room_type" binding:"required"`
	Capacity      *int     `json:"capacity"`
	PricePerNight float64  `json:"price_per_night" binding:"required"`
	Amenities     []string `json:"amenities"`
}

// CheckInRequest binds an existing order to a room at check-in.
type CheckInRequest struct {
	OrderID *int64 `json:"order_id"`
}

// --- UnitService Interface ---

// UnitService manages the administrative lifecycle of occupancy units.
// Occupancy flags themselves are mutated only through the order lifecycle
// service, except for the room check-in path which seats a guest directly.
type UnitService interface {
	CreateTable(req CreateTableRequest) (*models.OccupancyUnit, error)
	CreateRoom(req CreateRoomRequest) (*models.OccupancyUnit, error)
	GetUnits(kind models.UnitKind) ([]models.OccupancyUnit, error)
	GetUnitByLabel(kind models.UnitKind, label string) (*models.OccupancyUnit, error)
	CountByOccupancy(kind models.UnitKind) (*models.OccupancyCounts, error)
	DeleteUnit(unitID int64) error
	CheckInRoom(label string, req CheckInRequest) (*models.OccupancyUnit, error)
	CheckOutRoom(label string) error
}

type unitService struct {
	unitRepo     repositories.UnitRepository
	orderService OrderService
	txRunner     repositories.TxRunner
}

// NewUnitService creates a new instance of UnitService.
func NewUnitService(ur repositories.UnitRepository, os OrderService, txr repositories.TxRunner) UnitService {
	return &unitService{
		unitRepo:     ur,
		orderService: os,
		txRunner:     txr,
	}
}

func (s *unitService) CreateTable(req CreateTableRequest) (*models.OccupancyUnit, error) {
	unit := &models.OccupancyUnit{
		Kind:  models.UnitKindTable,
		Label: req.Label,
	}
	if _, err := s.unitRepo.CreateUnit(nil, unit); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: table %s", ErrUnitExists, req.Label)
		}
		return nil, fmt.Errorf("failed to create table %s: %w", req.Label, err)
	}
	return unit, nil
}

func (s *unitService) CreateRoom(req CreateRoomRequest) (*models.OccupancyUnit, error) {
	if req.PricePerNight <= 0 {
		return nil, fmt.Errorf("%w: price per night must be a positive number", ErrUnitValidation)
	}
	capacity := 2
	if req.Capacity != nil {
		if *req.Capacity <= 0 {
			return nil, fmt.Errorf("%w: capacity must be a positive number", ErrUnitValidation)
		}
		capacity = *req.Capacity
	}

	unit := &models.OccupancyUnit{
		Kind:          models.UnitKindRoom,
		Label:         req.Label,
		RoomType:      &req.RoomType,
		Capacity:      &capacity,
		PricePerNight: &req.PricePerNight,
		Amenities:     req.Amenities,
	}
	if _, err := s.unitRepo.CreateUnit(nil, unit); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: room %s", ErrUnitExists, req.Label)
		}
		return nil, fmt.Errorf("failed to create room %s: %w", req.Label, err)
	}
	return unit, nil
}

func (s *unitService) GetUnits(kind models.UnitKind) ([]models.OccupancyUnit, error) {
	units, err := s.unitRepo.GetUnits(kind)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s units: %w", kind, err)
	}
	return units, nil
}

func (s *unitService) GetUnitByLabel(kind models.UnitKind, label string) (*models.OccupancyUnit, error) {
	unit, err := s.unitRepo.GetUnitByLabel(nil, kind, label)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s %s", ErrUnitNotFound, kind, label)
		}
		return nil, fmt.Errorf("failed to get %s %s: %w", kind, label, err)
	}
	return unit, nil
}

func (s *unitService) CountByOccupancy(kind models.UnitKind) (*models.OccupancyCounts, error) {
	counts, err := s.unitRepo.CountByOccupancy(kind)
	if err != nil {
		return nil, fmt.Errorf("failed to count %s occupancy: %w", kind, err)
	}
	return counts, nil
}

// DeleteUnit removes a unit by id. Occupied units are never hard-deleted.
func (s *unitService) DeleteUnit(unitID int64) error {
	return s.txRunner.RunInTx(func(tx repositories.SQLExecutor) error {
		unit, err := s.unitRepo.GetUnitByID(tx, unitID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return fmt.Errorf("%w: unit ID %d", ErrUnitNotFound, unitID)
			}
			return fmt.Errorf("failed to fetch unit %d for deletion: %w", unitID, err)
		}
		if unit.Occupied {
			return fmt.Errorf("%w: cannot delete %s %s", ErrUnitOccupied, unit.Kind, unit.Label)
		}
		if err := s.unitRepo.DeleteUnit(tx, unitID); err != nil {
			return fmt.Errorf("failed to delete unit %d: %w", unitID, err)
		}
		return nil
	})
}

// CheckInRoom seats a guest into a free room, optionally binding an existing
// order, and stamps the check-in date.
func (s *unitService) CheckInRoom(label string, req CheckInRequest) (*models.OccupancyUnit, error) {
	var unit *models.OccupancyUnit
	err := s.txRunner.RunInTx(func(tx repositories.SQLExecutor) error {
		var err error
		unit, err = s.unitRepo.GetUnitByLabel(tx, models.UnitKindRoom, label)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return fmt.Errorf("%w: room %s", ErrUnitNotFound, label)
			}
			return fmt.Errorf("failed to fetch room %s: %w", label, err)
		}
		if unit.Occupied {
			return fmt.Errorf("%w: room %s", ErrRoomAlreadyBooked, label)
		}

		if err := s.unitRepo.SetOccupancy(tx, models.UnitKindRoom, label, true, req.OrderID); err != nil {
			return fmt.Errorf("failed to set occupancy for room %s: %w", label, err)
		}
		now := time.Now()
		if err := s.unitRepo.SetCheckDates(tx, models.UnitKindRoom, label, &now, nil); err != nil {
			return fmt.Errorf("failed to set check-in date for room %s: %w", label, err)
		}
		unit.Occupied = true
		unit.ActiveOrderID = req.OrderID
		unit.CheckInDate = &now
		unit.CheckOutDate = nil
		return nil
	})
	if err != nil {
		return nil, err
	}
	return unit, nil
}

// CheckOutRoom releases the room through the order lifecycle gate (the
// active order must be completed) and stamps the check-out date.
func (s *unitService) CheckOutRoom(label string) error {
	if err := s.orderService.ReleaseUnit(models.UnitKindRoom, label); err != nil {
		return err
	}
	now := time.Now()
	if err := s.unitRepo.SetCheckDates(nil, models.UnitKindRoom, label, nil, &now); err != nil {
		return fmt.Errorf("failed to set check-out date for room %s: %w", label, err)
	}
	return nil
}
