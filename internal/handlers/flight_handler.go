package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/skyroster/roster-backend/internal/database"
)

// FlightHandler serves the flight picker listing
type FlightHandler struct {
	flights *database.FlightRepository
	logger  *logrus.Logger
}

// NewFlightHandler creates a new FlightHandler
func NewFlightHandler(flights *database.FlightRepository, logger *logrus.Logger) *FlightHandler {
	return &FlightHandler{flights: flights, logger: logger}
}

// RegisterRoutes wires the flight endpoints onto the API group
func (h *FlightHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/flights", h.ListFlights)
}

// ListFlights returns recent flights for the dashboard flight picker
// GET /api/v1/flights?limit=50
func (h *FlightHandler) ListFlights(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 500"})
			return
		}
		limit = n
	}

	flights, err := h.flights.ListFlights(c.Request.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list flights")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list flights"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"flights": flights})
}
