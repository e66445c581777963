package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyroster/roster-backend/internal/database"
	"github.com/skyroster/roster-backend/internal/models"
	"github.com/skyroster/roster-backend/internal/services"
	"github.com/skyroster/roster-backend/pkg/seatmap"
)

type fixtureLoader struct{}

func (fixtureLoader) Load(ctx context.Context, flightID int64) (*services.FlightData, error) {
	if flightID != 900 {
		return nil, database.ErrFlightNotFound
	}
	chiefSeat := "1A"
	return &services.FlightData{
		Flight: models.Flight{
			ID:           900,
			FlightNumber: "SR1204",
			VehicleType: models.VehicleType{
				ID:          1,
				Name:        "A320",
				TotalSeats:  180,
				SeatingPlan: seatmap.Plan{Rows: 30, SeatsPerRow: 6, Business: 24, Economy: 156},
			},
			FlightCrew: []models.FlightCrewMember{
				{ID: 1, Name: "Vera Lindt", Role: models.RoleCaptain, SeniorityLevel: "Senior", Qualified: true},
			},
			CabinCrew: []models.CabinCrewMember{
				{ID: 20, Name: "Marco Deniz", AttendantType: "chief", Qualified: true, SeatNumber: &chiefSeat},
			},
			Passengers: []models.Passenger{
				{ID: 100, FlightID: 900, Name: "Ana Costa", SeatType: "Economy"},
				{ID: 103, FlightID: 900, Name: "Leo Brandt", SeatType: "Business"},
			},
		},
		FlightCrewPool: []models.FlightCrewMember{
			{ID: 1, Name: "Vera Lindt", Role: models.RoleCaptain, SeniorityLevel: "Senior", Qualified: true},
			{ID: 2, Name: "Omar Said", Role: models.RoleFirstOfficer, SeniorityLevel: "Junior", Qualified: true},
		},
		CabinCrewPool: []models.CabinCrewMember{
			{ID: 20, Name: "Marco Deniz", AttendantType: "chief", Qualified: true},
		},
	}, nil
}

func setupRosterRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	roster := services.NewRosterService(fixtureLoader{}, nil, logger)
	handler := NewRosterHandler(roster, logger)

	router := gin.New()
	handler.RegisterRoutes(router.Group("/api/v1"))
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func openSession(t *testing.T, router *gin.Engine) string {
	t.Helper()
	w := doRequest(t, router, http.MethodGet, "/api/v1/flights/900/roster", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var state services.SessionState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	require.NotEmpty(t, state.SessionID)
	return state.SessionID
}

func TestOpenRoster(t *testing.T) {
	router := setupRosterRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/v1/flights/900/roster", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var state services.SessionState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, int64(900), state.FlightID)
	assert.Equal(t, []int64{1}, state.FlightCrewIDs)
	assert.NotEmpty(t, state.Validation.CrewViolations)
}

func TestOpenRoster_UnknownFlight(t *testing.T) {
	router := setupRosterRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/v1/flights/404/roster", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOpenRoster_BadFlightID(t *testing.T) {
	router := setupRosterRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/v1/flights/abc/roster", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssignSeatEndpoint(t *testing.T) {
	router := setupRosterRouter(t)
	sessionID := openSession(t, router)

	w := doRequest(t, router, http.MethodPost, "/api/v1/sessions/"+sessionID+"/seats/assign",
		gin.H{"passenger_id": 100, "seat_label": "10A"})
	require.Equal(t, http.StatusOK, w.Code)

	var state services.SessionState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, "10A", state.Assignments[100])
}

func TestAssignSeatEndpoint_Conflicts(t *testing.T) {
	router := setupRosterRouter(t)
	sessionID := openSession(t, router)

	w := doRequest(t, router, http.MethodPost, "/api/v1/sessions/"+sessionID+"/seats/assign",
		gin.H{"passenger_id": 100, "seat_label": "10A"})
	require.Equal(t, http.StatusOK, w.Code)

	// Same seat, different passenger: conflict.
	w = doRequest(t, router, http.MethodPost, "/api/v1/sessions/"+sessionID+"/seats/assign",
		gin.H{"passenger_id": 103, "seat_label": "10A"})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Crew seat: conflict.
	w = doRequest(t, router, http.MethodPost, "/api/v1/sessions/"+sessionID+"/seats/assign",
		gin.H{"passenger_id": 103, "seat_label": "1A"})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Label off the grid: bad request.
	w = doRequest(t, router, http.MethodPost, "/api/v1/sessions/"+sessionID+"/seats/assign",
		gin.H{"passenger_id": 103, "seat_label": "99Z"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnassignSeatEndpoint(t *testing.T) {
	router := setupRosterRouter(t)
	sessionID := openSession(t, router)

	w := doRequest(t, router, http.MethodPost, "/api/v1/sessions/"+sessionID+"/seats/assign",
		gin.H{"passenger_id": 100, "seat_label": "10A"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodPost, "/api/v1/sessions/"+sessionID+"/seats/unassign",
		gin.H{"passenger_id": 100})
	require.Equal(t, http.StatusOK, w.Code)

	var state services.SessionState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Empty(t, state.Assignments)
}

func TestCrewSelectionEndpoints(t *testing.T) {
	router := setupRosterRouter(t)
	sessionID := openSession(t, router)

	w := doRequest(t, router, http.MethodPost, "/api/v1/sessions/"+sessionID+"/crew/select",
		gin.H{"kind": "flight", "member_id": 2})
	require.Equal(t, http.StatusOK, w.Code)

	var state services.SessionState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, []int64{1, 2}, state.FlightCrewIDs)

	// Unknown member: bad request.
	w = doRequest(t, router, http.MethodPost, "/api/v1/sessions/"+sessionID+"/crew/select",
		gin.H{"kind": "flight", "member_id": 999})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Invalid kind fails binding.
	w = doRequest(t, router, http.MethodPost, "/api/v1/sessions/"+sessionID+"/crew/select",
		gin.H{"kind": "cockpit", "member_id": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidationEndpoint(t *testing.T) {
	router := setupRosterRouter(t)
	sessionID := openSession(t, router)

	w := doRequest(t, router, http.MethodGet, "/api/v1/sessions/"+sessionID+"/validation", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var result services.ValidationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Contains(t, result.CrewViolations, "Need at least 1 First Officer")
	assert.Contains(t, result.SeatViolations, "2 passenger(s) have no seat assigned")
}

func TestSeatMapEndpoint(t *testing.T) {
	router := setupRosterRouter(t)
	sessionID := openSession(t, router)

	w := doRequest(t, router, http.MethodGet, "/api/v1/sessions/"+sessionID+"/seatmap", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var view services.SeatMapView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	require.Len(t, view.Grid, 30)
	assert.Equal(t, "1A", view.Grid[0][0].Label)
}

func TestSessionLifecycle(t *testing.T) {
	router := setupRosterRouter(t)
	sessionID := openSession(t, router)

	w := doRequest(t, router, http.MethodDelete, "/api/v1/sessions/"+sessionID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, router, http.MethodGet, "/api/v1/sessions/"+sessionID+"/validation", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
