package models

import "time"

// UnitKind distinguishes the two seatable/rentable resources.
type UnitKind string

const (
	UnitKindTable UnitKind = "table"
	UnitKindRoom  UnitKind = "room"
)

// IsValidUnitKind checks if the provided kind string is a valid UnitKind.
func IsValidUnitKind(kind string) bool {
	k := UnitKind(kind)
	return k == UnitKindTable || k == UnitKindRoom
}

// OccupancyUnit represents a table or room tracked for booking/availability.
// Labels are unique within a kind. ActiveOrderID is a weak reference to the
// order currently bound to the unit; it is set and cleared only by the order
// lifecycle service, and Occupied is true exactly when it is set.
type OccupancyUnit struct {
	ID            int64    `json:"id" db:"id"`
	Kind          UnitKind `json:"kind" db:"kind"`
	Label         string   `json:"label" db:"label" binding:"required"`
	Occupied      bool     `json:"occupied" db:"occupied"`
	ActiveOrderID *int64   `json:"active_order_id,omitempty" db:"active_order_id"`

	// Room attributes; nil for tables.
	RoomType      *string    `json:"room_type,omitempty" db:"room_type"`
	Capacity      *int       `json:"capacity,omitempty" db:"capacity"`
	PricePerNight *float64   `json:"price_per_night,omitempty" db:"price_per_night"`
	Amenities     []string   `json:"amenities,omitempty" db:"amenities"`
	CheckInDate   *time.Time `json:"check_in_date,omitempty" db:"check_in_date"`
	CheckOutDate  *time.Time `json:"check_out_date,omitempty" db:"check_out_date"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// OccupancyCounts is the booking status breakdown for one unit kind.
type OccupancyCounts struct {
	Total    int `json:"total"`
	Occupied int `json:"occupied"`
	Free     int `json:"free"`
}
