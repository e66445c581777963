package services

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyroster/roster-backend/internal/models"
	"github.com/skyroster/roster-backend/internal/queue"
	"github.com/skyroster/roster-backend/pkg/seatmap"
)

// stubLoader returns a fresh fixture on every load
type stubLoader struct {
	data func() *FlightData
	err  error
}

func (l *stubLoader) Load(ctx context.Context, flightID int64) (*FlightData, error) {
	if l.err != nil {
		return nil, l.err
	}
	return l.data(), nil
}

// recordingPublisher captures published events in order
type recordingPublisher struct {
	crewEvents []queue.CrewSelectedEvent
	seatEvents []queue.SeatsAssignedEvent
}

func (p *recordingPublisher) PublishCrewSelected(ctx context.Context, event queue.CrewSelectedEvent) error {
	p.crewEvents = append(p.crewEvents, event)
	return nil
}

func (p *recordingPublisher) PublishSeatsAssigned(ctx context.Context, event queue.SeatsAssignedEvent) error {
	p.seatEvents = append(p.seatEvents, event)
	return nil
}

func testFlightData() *FlightData {
	plan := seatmap.Plan{Rows: 30, SeatsPerRow: 6, Business: 24, Economy: 156}

	flightPool := []models.FlightCrewMember{
		flightCrewMember(1, models.RoleCaptain, "Senior"),
		flightCrewMember(2, models.RoleFirstOfficer, "Junior"),
		flightCrewMember(3, models.RoleFlightEngineer, "Intermediate"),
	}
	var cabinPool []models.CabinCrewMember
	cabinPool = append(cabinPool, cabinCrewMember(20, "chief"), cabinCrewMember(21, "chief"))
	for i := int64(0); i < 8; i++ {
		cabinPool = append(cabinPool, cabinCrewMember(30+i, "regular"))
	}
	cabinPool = append(cabinPool, cabinCrewMember(40, "chef"))

	persistedChief := cabinCrewMember(20, "chief")
	persistedChief.SeatNumber = seat("1A")

	parent := int64(101)
	return &FlightData{
		Flight: models.Flight{
			ID:           900,
			FlightNumber: "SR1204",
			VehicleType:  models.VehicleType{ID: 1, Name: "A320", TotalSeats: 180, SeatingPlan: plan},
			FlightCrew: []models.FlightCrewMember{
				flightCrewMember(1, models.RoleCaptain, "Senior"),
			},
			CabinCrew: []models.CabinCrewMember{persistedChief},
			Passengers: []models.Passenger{
				{ID: 100, FlightID: 900, Name: "Ana", SeatType: "Economy"},
				{ID: 101, FlightID: 900, Name: "Ben", SeatType: "Economy", SeatNumber: seat("11C")},
				{ID: 102, FlightID: 900, Name: "Mia", SeatType: "Economy", ParentID: &parent},
				{ID: 103, FlightID: 900, Name: "Leo", SeatType: "Business"},
			},
		},
		FlightCrewPool: flightPool,
		CabinCrewPool:  cabinPool,
	}
}

func newTestRoster(t *testing.T) (*RosterService, *recordingPublisher, string) {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	publisher := &recordingPublisher{}
	service := NewRosterService(&stubLoader{data: testFlightData}, publisher, logger)

	state, err := service.OpenSession(context.Background(), 900)
	require.NoError(t, err)
	return service, publisher, state.SessionID
}

func TestOpenSession_SeedsSelectionFromPersistedCrew(t *testing.T) {
	service, _, sessionID := newTestRoster(t)

	state, err := service.State(sessionID)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, state.FlightCrewIDs)
	assert.Equal(t, []int64{20}, state.CabinCrewIDs)
	assert.Empty(t, state.Assignments)
	assert.NotEmpty(t, state.Validation.CrewViolations)
}

func TestSessionNotFound(t *testing.T) {
	service, _, _ := newTestRoster(t)

	_, err := service.State("nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = service.AssignSeat(context.Background(), "nope", 100, "10A")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, service.CloseSession("nope"), ErrSessionNotFound)
}

func TestAssignSeat_ReassignFreesPreviousSeat(t *testing.T) {
	service, _, sessionID := newTestRoster(t)
	ctx := context.Background()

	_, err := service.AssignSeat(ctx, sessionID, 100, "10A")
	require.NoError(t, err)

	state, err := service.AssignSeat(ctx, sessionID, 100, "10B")
	require.NoError(t, err)

	assert.Equal(t, map[int64]string{100: "10B"}, state.Assignments)
	assert.NotContains(t, state.Occupancy, "10A")
	assert.Equal(t, int64(100), state.Occupancy["10B"].OccupantID)
	for _, v := range state.Validation.SeatViolations {
		assert.NotContains(t, v, "10A")
	}

	// 10A is free again for someone else.
	_, err = service.AssignSeat(ctx, sessionID, 103, "10A")
	assert.NoError(t, err)
}

func TestAssignSeat_NoImplicitSwap(t *testing.T) {
	service, _, sessionID := newTestRoster(t)
	ctx := context.Background()

	_, err := service.AssignSeat(ctx, sessionID, 100, "10A")
	require.NoError(t, err)

	_, err = service.AssignSeat(ctx, sessionID, 103, "10A")
	assert.ErrorIs(t, err, ErrSeatOccupied)

	state, err := service.State(sessionID)
	require.NoError(t, err)
	assert.Equal(t, map[int64]string{100: "10A"}, state.Assignments)
}

func TestAssignSeat_CrewSeatRejected(t *testing.T) {
	service, _, sessionID := newTestRoster(t)

	// 1A is held by the persisted chief attendant.
	_, err := service.AssignSeat(context.Background(), sessionID, 100, "1A")
	assert.ErrorIs(t, err, ErrCrewSeat)
}

func TestAssignSeat_PersistedSeatOfOtherPassengerRejected(t *testing.T) {
	service, _, sessionID := newTestRoster(t)

	_, err := service.AssignSeat(context.Background(), sessionID, 100, "11C")
	assert.ErrorIs(t, err, ErrSeatOccupied)
}

func TestAssignSeat_InvalidLabelRejected(t *testing.T) {
	service, _, sessionID := newTestRoster(t)
	ctx := context.Background()

	for _, label := range []string{"FC1", "CC1", "99A", "10Z", "bogus"} {
		_, err := service.AssignSeat(ctx, sessionID, 100, label)
		assert.ErrorIs(t, err, ErrInvalidSeatLabel, "label %q", label)
	}
}

func TestAssignSeat_UnknownPassengerRejected(t *testing.T) {
	service, _, sessionID := newTestRoster(t)

	_, err := service.AssignSeat(context.Background(), sessionID, 999, "10A")
	assert.ErrorIs(t, err, ErrPassengerNotFound)
}

func TestAssignSeat_Idempotent(t *testing.T) {
	service, publisher, sessionID := newTestRoster(t)
	ctx := context.Background()

	_, err := service.AssignSeat(ctx, sessionID, 100, "10A")
	require.NoError(t, err)
	state, err := service.AssignSeat(ctx, sessionID, 100, "10A")
	require.NoError(t, err)

	assert.Equal(t, map[int64]string{100: "10A"}, state.Assignments)
	assert.Len(t, publisher.seatEvents, 1)
	for _, v := range state.Validation.SeatViolations {
		assert.NotContains(t, v, "assigned to")
	}
}

func TestUnassignSeat(t *testing.T) {
	service, publisher, sessionID := newTestRoster(t)
	ctx := context.Background()

	_, err := service.AssignSeat(ctx, sessionID, 100, "10A")
	require.NoError(t, err)

	state, err := service.UnassignSeat(ctx, sessionID, 100)
	require.NoError(t, err)
	assert.Empty(t, state.Assignments)
	assert.NotContains(t, state.Occupancy, "10A")

	// Removing an absent override is a no-op and publishes nothing.
	before := len(publisher.seatEvents)
	_, err = service.UnassignSeat(ctx, sessionID, 100)
	require.NoError(t, err)
	assert.Len(t, publisher.seatEvents, before)
}

func TestValidate_InfantExemptFromMissingSeatCount(t *testing.T) {
	service, _, sessionID := newTestRoster(t)
	ctx := context.Background()

	// Assignable without a seat: Ana (100) and Leo (103). Mia (102) is an
	// infant and never counts.
	result, err := service.Validate(sessionID)
	require.NoError(t, err)
	assert.Contains(t, result.SeatViolations, "2 passenger(s) have no seat assigned")

	_, err = service.AssignSeat(ctx, sessionID, 100, "10A")
	require.NoError(t, err)
	_, err = service.AssignSeat(ctx, sessionID, 103, "2B")
	require.NoError(t, err)

	result, err = service.Validate(sessionID)
	require.NoError(t, err)
	assert.Empty(t, result.SeatViolations)
}

func TestSelectCrew(t *testing.T) {
	service, publisher, sessionID := newTestRoster(t)
	ctx := context.Background()

	state, err := service.SelectCrew(ctx, sessionID, CrewKindFlight, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, state.FlightCrewIDs)

	state, err = service.DeselectCrew(ctx, sessionID, CrewKindFlight, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, state.FlightCrewIDs)

	_, err = service.SelectCrew(ctx, sessionID, CrewKindFlight, 999)
	assert.ErrorIs(t, err, ErrCrewNotFound)

	_, err = service.SelectCrew(ctx, sessionID, "cockpit", 1)
	assert.Error(t, err)

	assert.Len(t, publisher.crewEvents, 2)
	last := publisher.crewEvents[len(publisher.crewEvents)-1]
	assert.Equal(t, int64(900), last.FlightID)
	assert.Equal(t, []int64{2}, last.FlightCrewIDs)
}

func TestQuickSelect_ProducesCompliantSelection(t *testing.T) {
	service, publisher, sessionID := newTestRoster(t)

	state, err := service.QuickSelect(context.Background(), sessionID)
	require.NoError(t, err)

	assert.Empty(t, state.Validation.CrewViolations)
	// Union: the pre-seeded persisted crew stays selected.
	assert.Contains(t, state.CabinCrewIDs, int64(20))
	assert.Len(t, publisher.crewEvents, 1)
}

func TestCloseSession_DiscardsState(t *testing.T) {
	service, _, sessionID := newTestRoster(t)

	require.NoError(t, service.CloseSession(sessionID))
	_, err := service.State(sessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSeatMap(t *testing.T) {
	service, _, sessionID := newTestRoster(t)

	view, err := service.SeatMap(sessionID)
	require.NoError(t, err)
	require.Len(t, view.Grid, 30)
	require.Len(t, view.Grid[0], 6)
	assert.Equal(t, seatmap.ClassBusiness, view.Grid[3][0].Class)
	assert.Equal(t, seatmap.ClassEconomy, view.Grid[4][0].Class)
	assert.Equal(t, models.OccupantCabinCrew, view.Occupancy["1A"].Kind)
	assert.Equal(t, models.OccupantFlightCrew, view.Occupancy["FC1"].Kind)
}
