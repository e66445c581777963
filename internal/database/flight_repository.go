package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/skyroster/roster-backend/internal/models"
	"github.com/skyroster/roster-backend/pkg/seatmap"
)

// ErrFlightNotFound is returned when no flight exists for the given id
var ErrFlightNotFound = errors.New("flight not found")

// FlightRepository handles flights and vehicle_types database operations
type FlightRepository struct {
	db *sqlx.DB
}

// NewFlightRepository creates a new FlightRepository
func NewFlightRepository(db *sqlx.DB) *FlightRepository {
	return &FlightRepository{db: db}
}

// flightRow is the flat scan target for the flight + vehicle type join
type flightRow struct {
	ID            int64     `db:"id"`
	FlightNumber  string    `db:"flight_number"`
	Origin        string    `db:"origin"`
	Destination   string    `db:"destination"`
	DepartureDate time.Time `db:"departure_date"`
	VehicleID     int64     `db:"vehicle_id"`
	VehicleName   string    `db:"vehicle_name"`
	TotalSeats    int       `db:"total_seats"`
	SeatRows      int       `db:"seat_rows"`
	SeatsPerRow   int       `db:"seats_per_row"`
	BusinessSeats int       `db:"business_seats"`
	EconomySeats  int       `db:"economy_seats"`
}

// GetByID returns the flight detail with its vehicle type, assigned crew
// and passengers.
func (r *FlightRepository) GetByID(ctx context.Context, flightID int64) (*models.Flight, error) {
	query := `
		SELECT f.id, f.flight_number, f.origin, f.destination, f.departure_date,
			   v.id AS vehicle_id, v.name AS vehicle_name, v.total_seats,
			   v.seat_rows, v.seats_per_row, v.business_seats, v.economy_seats
		FROM flights f
		JOIN vehicle_types v ON v.id = f.vehicle_type_id
		WHERE f.id = $1
	`

	var row flightRow
	if err := r.db.GetContext(ctx, &row, query, flightID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFlightNotFound
		}
		return nil, fmt.Errorf("get flight %d: %w", flightID, err)
	}

	flight := &models.Flight{
		ID:            row.ID,
		FlightNumber:  row.FlightNumber,
		Origin:        row.Origin,
		Destination:   row.Destination,
		DepartureDate: row.DepartureDate,
		VehicleType: models.VehicleType{
			ID:         row.VehicleID,
			Name:       row.VehicleName,
			TotalSeats: row.TotalSeats,
			SeatingPlan: seatmap.Plan{
				Rows:        row.SeatRows,
				SeatsPerRow: row.SeatsPerRow,
				Business:    row.BusinessSeats,
				Economy:     row.EconomySeats,
			},
		},
	}

	flightCrew, err := r.assignedFlightCrew(ctx, flightID)
	if err != nil {
		return nil, err
	}
	flight.FlightCrew = flightCrew

	cabinCrew, err := r.assignedCabinCrew(ctx, flightID)
	if err != nil {
		return nil, err
	}
	flight.CabinCrew = cabinCrew

	passengers, err := r.passengers(ctx, flightID)
	if err != nil {
		return nil, err
	}
	flight.Passengers = passengers

	return flight, nil
}

func (r *FlightRepository) assignedFlightCrew(ctx context.Context, flightID int64) ([]models.FlightCrewMember, error) {
	query := `
		SELECT c.id, c.name, c.role, c.seniority_level, c.qualified, c.age,
			   c.nationality, c.license_number, c.languages, a.seat_number
		FROM flight_crew c
		JOIN flight_crew_assignments a ON a.crew_id = c.id
		WHERE a.flight_id = $1
		ORDER BY a.position
	`

	var crew []models.FlightCrewMember
	if err := r.db.SelectContext(ctx, &crew, query, flightID); err != nil {
		return nil, fmt.Errorf("get flight crew for flight %d: %w", flightID, err)
	}
	return crew, nil
}

func (r *FlightRepository) assignedCabinCrew(ctx context.Context, flightID int64) ([]models.CabinCrewMember, error) {
	query := `
		SELECT c.id, c.name, c.attendant_type, c.qualified, c.age,
			   c.nationality, c.employee_id, c.languages, c.recipes, a.seat_number
		FROM cabin_crew c
		JOIN cabin_crew_assignments a ON a.crew_id = c.id
		WHERE a.flight_id = $1
		ORDER BY a.position
	`

	var crew []models.CabinCrewMember
	if err := r.db.SelectContext(ctx, &crew, query, flightID); err != nil {
		return nil, fmt.Errorf("get cabin crew for flight %d: %w", flightID, err)
	}
	return crew, nil
}

func (r *FlightRepository) passengers(ctx context.Context, flightID int64) ([]models.Passenger, error) {
	query := `
		SELECT id, flight_id, name, seat_type, seat_number, parent_id
		FROM passengers
		WHERE flight_id = $1
		ORDER BY id
	`

	var passengers []models.Passenger
	if err := r.db.SelectContext(ctx, &passengers, query, flightID); err != nil {
		return nil, fmt.Errorf("get passengers for flight %d: %w", flightID, err)
	}
	return passengers, nil
}

// ListFlights returns a lightweight listing of flights for the dashboard
// flight picker, most recent departures first.
func (r *FlightRepository) ListFlights(ctx context.Context, limit int) ([]models.Flight, error) {
	query := `
		SELECT f.id, f.flight_number, f.origin, f.destination, f.departure_date
		FROM flights f
		ORDER BY f.departure_date DESC
		LIMIT $1
	`

	var rows []flightRow
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("list flights: %w", err)
	}

	flights := make([]models.Flight, 0, len(rows))
	for _, row := range rows {
		flights = append(flights, models.Flight{
			ID:            row.ID,
			FlightNumber:  row.FlightNumber,
			Origin:        row.Origin,
			Destination:   row.Destination,
			DepartureDate: row.DepartureDate,
		})
	}
	return flights, nil
}
