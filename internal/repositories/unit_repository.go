package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"restro_erp_backend/internal/models"

	"github.com/lib/pq"
)

// UnitRepository defines the interface for occupancy unit (table/room)
// database operations. It is a pure key-value surface keyed by (kind, label);
// no business logic lives here.
type UnitRepository interface {
	CreateUnit(executor SQLExecutor, unit *models.OccupancyUnit) (int64, error)
	GetUnitByLabel(executor SQLExecutor, kind models.UnitKind, label string) (*models.OccupancyUnit, error)
	GetUnitByID(executor SQLExecutor, unitID int64) (*models.OccupancyUnit, error)
	GetUnits(kind models.UnitKind) ([]models.OccupancyUnit, error)
	SetOccupancy(executor SQLExecutor, kind models.UnitKind, label string, occupied bool, activeOrderID *int64) error
	SetCheckDates(executor SQLExecutor, kind models.UnitKind, label string, checkIn, checkOut *time.Time) error
	CountByOccupancy(kind models.UnitKind) (*models.OccupancyCounts, error)
	DeleteUnit(executor SQLExecutor, unitID int64) error
}

type unitRepository struct {
	db *sql.DB
}

// NewUnitRepository creates a new instance of UnitRepository.
func NewUnitRepository(db *sql.DB) UnitRepository {
	return &unitRepository{db: db}
}

func (r *unitRepository) executor(executor SQLExecutor) SQLExecutor {
	if executor == nil {
		return r.db
	}
	return executor
}

const unitColumns = `id, kind, label, occupied, active_order_id,
	room_type, capacity, price_per_night, amenities, check_in_date, check_out_date,
	created_at, updated_at`

func scanUnit(row scanner) (*models.OccupancyUnit, error) {
	unit := &models.OccupancyUnit{}
	err := row.Scan(
		&unit.ID, &unit.Kind, &unit.Label, &unit.Occupied, &unit.ActiveOrderID,
		&unit.RoomType, &unit.Capacity, &unit.PricePerNight, pq.Array(&unit.Amenities),
		&unit.CheckInDate, &unit.CheckOutDate,
		&unit.CreatedAt, &unit.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return unit, nil
}

// scanner is an interface satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func (r *unitRepository) CreateUnit(executor SQLExecutor, unit *models.OccupancyUnit) (int64, error) {
	query := `INSERT INTO occupancy_units
	            (kind, label, occupied, active_order_id, room_type, capacity, price_per_night,
	             amenities, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING id`
	if unit.CreatedAt.IsZero() {
		unit.CreatedAt = time.Now()
	}
	if unit.UpdatedAt.IsZero() {
		unit.UpdatedAt = time.Now()
	}

	err := r.executor(executor).QueryRow(query,
		unit.Kind, unit.Label, unit.Occupied, unit.ActiveOrderID, unit.RoomType, unit.Capacity,
		unit.PricePerNight, pq.Array(unit.Amenities), unit.CreatedAt, unit.UpdatedAt,
	).Scan(&unit.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return 0, fmt.Errorf("%w: unit %s/%s: %v", ErrDuplicateKey, unit.Kind, unit.Label, err)
		}
		return 0, fmt.Errorf("%w: creating %s %s: %v", ErrDatabaseError, unit.Kind, unit.Label, err)
	}
	return unit.ID, nil
}

func (r *unitRepository) GetUnitByLabel(executor SQLExecutor, kind models.UnitKind, label string) (*models.OccupancyUnit, error) {
	query := `SELECT ` + unitColumns + ` FROM occupancy_units WHERE kind = $1 AND label = $2`
	unit, err := scanUnit(r.executor(executor).QueryRow(query, kind, label))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting %s by label %s: %v", ErrDatabaseError, kind, label, err)
	}
	return unit, nil
}

func (r *unitRepository) GetUnitByID(executor SQLExecutor, unitID int64) (*models.OccupancyUnit, error) {
	query := `SELECT ` + unitColumns + ` FROM occupancy_units WHERE id = $1`
	unit, err := scanUnit(r.executor(executor).QueryRow(query, unitID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting unit by ID %d: %v", ErrDatabaseError, unitID, err)
	}
	return unit, nil
}

func (r *unitRepository) GetUnits(kind models.UnitKind) ([]models.OccupancyUnit, error) {
	units := []models.OccupancyUnit{}
	query := `SELECT ` + unitColumns + ` FROM occupancy_units WHERE kind = $1 ORDER BY label`

	rows, err := r.db.Query(query, kind)
	if err != nil {
		return nil, fmt.Errorf("%w: querying %s units: %v", ErrDatabaseError, kind, err)
	}
	defer rows.Close()

	for rows.Next() {
		unit, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning %s unit: %v", ErrDatabaseError, kind, err)
		}
		units = append(units, *unit)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating %s unit rows: %v", ErrDatabaseError, kind, err)
	}
	return units, nil
}

func (r *unitRepository) SetOccupancy(executor SQLExecutor, kind models.UnitKind, label string, occupied bool, activeOrderID *int64) error {
	query := `UPDATE occupancy_units
	          SET occupied = $1, active_order_id = $2, updated_at = $3
	          WHERE kind = $4 AND label = $5`
	result, err := r.executor(executor).Exec(query, occupied, activeOrderID, time.Now(), kind, label)
	if err != nil {
		return fmt.Errorf("%w: setting occupancy for %s %s: %v", ErrDatabaseError, kind, label, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for occupancy update %s %s: %v", ErrDatabaseError, kind, label, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *unitRepository) SetCheckDates(executor SQLExecutor, kind models.UnitKind, label string, checkIn, checkOut *time.Time) error {
	query := `UPDATE occupancy_units
	          SET check_in_date = $1, check_out_date = $2, updated_at = $3
	          WHERE kind = $4 AND label = $5`
	result, err := r.executor(executor).Exec(query, checkIn, checkOut, time.Now(), kind, label)
	if err != nil {
		return fmt.Errorf("%w: setting check dates for %s %s: %v", ErrDatabaseError, kind, label, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for check date update %s %s: %v", ErrDatabaseError, kind, label, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *unitRepository) CountByOccupancy(kind models.UnitKind) (*models.OccupancyCounts, error) {
	counts := &models.OccupancyCounts{}
	query := `SELECT COUNT(*),
	                 COUNT(*) FILTER (WHERE occupied),
	                 COUNT(*) FILTER (WHERE NOT occupied)
	          FROM occupancy_units WHERE kind = $1`
	err := r.db.QueryRow(query, kind).Scan(&counts.Total, &counts.Occupied, &counts.Free)
	if err != nil {
		return nil, fmt.Errorf("%w: counting %s occupancy: %v", ErrDatabaseError, kind, err)
	}
	return counts, nil
}

func (r *unitRepository) DeleteUnit(executor SQLExecutor, unitID int64) error {
	query := `DELETE FROM occupancy_units WHERE id = $1`
	result, err := r.executor(executor).Exec(query, unitID)
	if err != nil {
		return fmt.Errorf("%w: deleting unit ID %d: %v", ErrDatabaseError, unitID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting unit ID %d: %v", ErrDatabaseError, unitID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
