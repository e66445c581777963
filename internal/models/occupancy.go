package models

// OccupantKind classifies who holds a seat
type OccupantKind string

const (
	OccupantFlightCrew OccupantKind = "flight_crew"
	OccupantCabinCrew  OccupantKind = "cabin_crew"
	OccupantPassenger  OccupantKind = "passenger"
)

// OccupancyEntry maps one seat label to its current occupant. A seat label
// holds at most one entry at a time.
type OccupancyEntry struct {
	SeatLabel   string       `json:"seat_label"`
	Kind        OccupantKind `json:"kind"`
	OccupantID  int64        `json:"occupant_id"`
	DisplayName string       `json:"display_name"`
}

// IsCrew reports whether the entry belongs to flight or cabin crew. Crew
// seats are immutable through the passenger assignment path.
func (e OccupancyEntry) IsCrew() bool {
	return e.Kind == OccupantFlightCrew || e.Kind == OccupantCabinCrew
}
