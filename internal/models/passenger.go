package models

// Passenger represents a booked passenger on a flight. A passenger with
// ParentID set is an infant travelling attached to a seated guardian and
// is exempt from seat assignment.
type Passenger struct {
	ID         int64   `json:"id" db:"id"`
	FlightID   int64   `json:"flight_id" db:"flight_id"`
	Name       string  `json:"name" db:"name"`
	SeatType   string  `json:"seat_type" db:"seat_type"`
	SeatNumber *string `json:"seat_number,omitempty" db:"seat_number"`
	ParentID   *int64  `json:"parent_id,omitempty" db:"parent_id"`
}

// IsInfant reports whether the passenger is a seat-exempt infant
func (p Passenger) IsInfant() bool {
	return p.ParentID != nil
}
