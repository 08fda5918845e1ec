// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	mapsvc "fuelroute/internal/maps"
	"fuelroute/internal/modules/planner"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writePlanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, planner.ErrMissingLocations):
		writeError(c, http.StatusBadRequest, "Start and finish locations are required.")
	case errors.Is(err, mapsvc.ErrNoRoute):
		writeError(c, http.StatusBadRequest, "Failed to fetch route.")
	case errors.Is(err, planner.ErrNoEligibleStations):
		writeError(c, http.StatusBadRequest, "No fuel stations found within the route.")
	case errors.Is(err, context.DeadlineExceeded):
		writeError(c, http.StatusGatewayTimeout, "Request timed out.")
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
