package models

import (
	"time"

	"github.com/skyroster/roster-backend/pkg/seatmap"
)

// VehicleType describes the airframe assigned to a flight, including its
// abstract seating plan.
type VehicleType struct {
	ID          int64        `json:"id" db:"id"`
	Name        string       `json:"name" db:"name"`
	TotalSeats  int          `json:"total_seats" db:"total_seats"`
	SeatingPlan seatmap.Plan `json:"seating_plan"`
}

// Flight represents a flight with its persisted roster: the crew already
// assigned to it and the booked passengers with any persisted seats.
type Flight struct {
	ID            int64     `json:"id" db:"id"`
	FlightNumber  string    `json:"flight_number" db:"flight_number"`
	Origin        string    `json:"origin" db:"origin"`
	Destination   string    `json:"destination" db:"destination"`
	DepartureDate time.Time `json:"departure_date" db:"departure_date"`

	VehicleType VehicleType        `json:"vehicle_type"`
	FlightCrew  []FlightCrewMember `json:"flight_crew"`
	CabinCrew   []CabinCrewMember  `json:"cabin_crew"`
	Passengers  []Passenger        `json:"passengers"`
}
