package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/skyroster/roster-backend/internal/database"
	"github.com/skyroster/roster-backend/internal/services"
)

// RosterHandler exposes the roster session operations over HTTP. Crew
// composition and seat assignment violations travel in response bodies as
// plain string arrays; clients render them verbatim.
type RosterHandler struct {
	roster *services.RosterService
	logger *logrus.Logger
}

// NewRosterHandler creates a new RosterHandler
func NewRosterHandler(roster *services.RosterService, logger *logrus.Logger) *RosterHandler {
	return &RosterHandler{roster: roster, logger: logger}
}

// RegisterRoutes wires the roster endpoints onto the API group
func (h *RosterHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/flights/:flightId/roster", h.OpenRoster)
	sessions := api.Group("/sessions/:sessionId")
	{
		sessions.DELETE("", h.CloseSession)
		sessions.GET("", h.GetState)
		sessions.POST("/crew/select", h.SelectCrew)
		sessions.POST("/crew/deselect", h.DeselectCrew)
		sessions.POST("/crew/quick-select", h.QuickSelect)
		sessions.POST("/seats/assign", h.AssignSeat)
		sessions.POST("/seats/unassign", h.UnassignSeat)
		sessions.GET("/validation", h.GetValidation)
		sessions.GET("/seatmap", h.GetSeatMap)
	}
}

// OpenRoster opens a roster session for a flight
// GET /api/v1/flights/:flightId/roster
func (h *RosterHandler) OpenRoster(c *gin.Context) {
	flightID, err := strconv.ParseInt(c.Param("flightId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Flight ID must be numeric"})
		return
	}

	state, err := h.roster.OpenSession(c.Request.Context(), flightID)
	if err != nil {
		h.fail(c, err, "Failed to open roster session")
		return
	}

	c.JSON(http.StatusOK, state)
}

// CloseSession discards a roster session
// DELETE /api/v1/sessions/:sessionId
func (h *RosterHandler) CloseSession(c *gin.Context) {
	if err := h.roster.CloseSession(c.Param("sessionId")); err != nil {
		h.fail(c, err, "Failed to close session")
		return
	}
	c.Status(http.StatusNoContent)
}

// GetState returns the current session snapshot
// GET /api/v1/sessions/:sessionId
func (h *RosterHandler) GetState(c *gin.Context) {
	state, err := h.roster.State(c.Param("sessionId"))
	if err != nil {
		h.fail(c, err, "Failed to get session state")
		return
	}
	c.JSON(http.StatusOK, state)
}

// crewSelectionRequest is the body for crew select/deselect
type crewSelectionRequest struct {
	Kind     string `json:"kind" binding:"required,oneof=flight cabin"`
	MemberID int64  `json:"member_id" binding:"required"`
}

// SelectCrew adds a crew member to the selection
// POST /api/v1/sessions/:sessionId/crew/select
func (h *RosterHandler) SelectCrew(c *gin.Context) {
	var req crewSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state, err := h.roster.SelectCrew(c.Request.Context(), c.Param("sessionId"), req.Kind, req.MemberID)
	if err != nil {
		h.fail(c, err, "Failed to select crew member")
		return
	}
	c.JSON(http.StatusOK, state)
}

// DeselectCrew removes a crew member from the selection
// POST /api/v1/sessions/:sessionId/crew/deselect
func (h *RosterHandler) DeselectCrew(c *gin.Context) {
	var req crewSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state, err := h.roster.DeselectCrew(c.Request.Context(), c.Param("sessionId"), req.Kind, req.MemberID)
	if err != nil {
		h.fail(c, err, "Failed to deselect crew member")
		return
	}
	c.JSON(http.StatusOK, state)
}

// QuickSelect runs the heuristic crew selector
// POST /api/v1/sessions/:sessionId/crew/quick-select
func (h *RosterHandler) QuickSelect(c *gin.Context) {
	state, err := h.roster.QuickSelect(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		h.fail(c, err, "Failed to quick-select crew")
		return
	}
	c.JSON(http.StatusOK, state)
}

// seatAssignmentRequest is the body for seat assign/unassign
type seatAssignmentRequest struct {
	PassengerID int64  `json:"passenger_id" binding:"required"`
	SeatLabel   string `json:"seat_label"`
}

// AssignSeat assigns a passenger to a seat
// POST /api/v1/sessions/:sessionId/seats/assign
func (h *RosterHandler) AssignSeat(c *gin.Context) {
	var req seatAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.SeatLabel == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "seat_label is required"})
		return
	}

	state, err := h.roster.AssignSeat(c.Request.Context(), c.Param("sessionId"), req.PassengerID, req.SeatLabel)
	if err != nil {
		h.fail(c, err, "Failed to assign seat")
		return
	}
	c.JSON(http.StatusOK, state)
}

// UnassignSeat removes a passenger's seat override
// POST /api/v1/sessions/:sessionId/seats/unassign
func (h *RosterHandler) UnassignSeat(c *gin.Context) {
	var req seatAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state, err := h.roster.UnassignSeat(c.Request.Context(), c.Param("sessionId"), req.PassengerID)
	if err != nil {
		h.fail(c, err, "Failed to unassign seat")
		return
	}
	c.JSON(http.StatusOK, state)
}

// GetValidation recomputes and returns current violations
// GET /api/v1/sessions/:sessionId/validation
func (h *RosterHandler) GetValidation(c *gin.Context) {
	result, err := h.roster.Validate(c.Param("sessionId"))
	if err != nil {
		h.fail(c, err, "Failed to validate session")
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetSeatMap returns the rendered seat grid with occupancy
// GET /api/v1/sessions/:sessionId/seatmap
func (h *RosterHandler) GetSeatMap(c *gin.Context) {
	view, err := h.roster.SeatMap(c.Param("sessionId"))
	if err != nil {
		h.fail(c, err, "Failed to render seat map")
		return
	}
	c.JSON(http.StatusOK, view)
}

// fail maps service errors to HTTP responses. Guard rejections carry the
// sentinel message so clients can show why the operation was refused.
func (h *RosterHandler) fail(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, database.ErrFlightNotFound),
		errors.Is(err, services.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrPassengerNotFound),
		errors.Is(err, services.ErrCrewNotFound),
		errors.Is(err, services.ErrInvalidSeatLabel):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrCrewSeat),
		errors.Is(err, services.ErrSeatOccupied):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrSuperseded):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.logger.WithError(err).Error(fallback)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
