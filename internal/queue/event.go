package queue

import "time"

// Queue names for roster domain events. Consumers (notification fan-out,
// the reporting pipeline) bind to these directly.
const (
	QueueCrewSelected  = "roster.crew_selected"
	QueueSeatsAssigned = "roster.seats_assigned"
)

// CrewSelectedEvent is published after every crew selection mutation and
// carries the full selection, not a delta.
type CrewSelectedEvent struct {
	FlightID      int64     `json:"flight_id"`
	FlightCrewIDs []int64   `json:"flight_crew_ids"`
	CabinCrewIDs  []int64   `json:"cabin_crew_ids"`
	SelectedAt    time.Time `json:"selected_at"`
}

// SeatsAssignedEvent is published after every seat assignment mutation
// with the complete in-progress override set.
type SeatsAssignedEvent struct {
	FlightID    int64            `json:"flight_id"`
	Assignments map[int64]string `json:"assignments"`
	AssignedAt  time.Time        `json:"assigned_at"`
}
