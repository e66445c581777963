package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/skyroster/roster-backend/internal/models"
)

// CrewRepository handles flight_crew and cabin_crew database operations
type CrewRepository struct {
	db *sqlx.DB
}

// NewCrewRepository creates a new CrewRepository
func NewCrewRepository(db *sqlx.DB) *CrewRepository {
	return &CrewRepository{db: db}
}

// ListAvailableFlightCrew returns the full eligible flight crew pool in
// stable id order. Pool order matters downstream: quick-select tie
// breaking and pseudo seat labels are both positional.
func (r *CrewRepository) ListAvailableFlightCrew(ctx context.Context) ([]models.FlightCrewMember, error) {
	query := `
		SELECT id, name, role, seniority_level, qualified, age,
			   nationality, license_number, languages, NULL AS seat_number
		FROM flight_crew
		WHERE active = true
		ORDER BY id
	`

	var crew []models.FlightCrewMember
	if err := r.db.SelectContext(ctx, &crew, query); err != nil {
		return nil, fmt.Errorf("list available flight crew: %w", err)
	}
	return crew, nil
}

// ListAvailableCabinCrew returns the full eligible cabin crew pool in
// stable id order.
func (r *CrewRepository) ListAvailableCabinCrew(ctx context.Context) ([]models.CabinCrewMember, error) {
	query := `
		SELECT id, name, attendant_type, qualified, age,
			   nationality, employee_id, languages, recipes, NULL AS seat_number
		FROM cabin_crew
		WHERE active = true
		ORDER BY id
	`

	var crew []models.CabinCrewMember
	if err := r.db.SelectContext(ctx, &crew, query); err != nil {
		return nil, fmt.Errorf("list available cabin crew: %w", err)
	}
	return crew, nil
}
