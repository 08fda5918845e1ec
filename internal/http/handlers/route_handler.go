// README: Route optimization endpoint.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fuelroute/internal/modules/planner"
)

type RouteHandler struct {
	planner *planner.Service
}

func NewRouteHandler(svc *planner.Service) *RouteHandler {
	return &RouteHandler{planner: svc}
}

type optimizeRequest struct {
	Start  string `json:"start"`
	Finish string `json:"finish"`
}

type stationPayload struct {
	Name          string   `json:"name"`
	Address       string   `json:"address"`
	City          string   `json:"city,omitempty"`
	State         string   `json:"state"`
	Price         float64  `json:"price"`
	DistanceMiles float64  `json:"distance_miles,omitempty"`
	TotalCost     *float64 `json:"total_cost,omitempty"`
}

func (h *RouteHandler) Optimize(c *gin.Context) {
	var req optimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "Start and finish locations are required.")
		return
	}

	plan, err := h.planner.Optimize(c.Request.Context(), req.Start, req.Finish)
	if err != nil {
		writePlanError(c, err)
		return
	}

	writeJSON(c, http.StatusOK, toResponse(plan))
}

func toResponse(plan planner.Plan) gin.H {
	if plan.Strategy == planner.StrategyCheapestOverall {
		pick := plan.Stations[0]
		return gin.H{
			"route_map": plan.RouteMap,
			"cheapest_station": stationPayload{
				Name:          pick.Station.Name,
				Address:       pick.Station.Address,
				City:          pick.Station.City,
				State:         pick.Station.State,
				Price:         pick.Station.Price,
				DistanceMiles: planner.Round2(pick.DistanceMiles),
			},
			"total_cost": *pick.TotalCost,
		}
	}

	stations := make([]stationPayload, 0, len(plan.Stations))
	for _, rs := range plan.Stations {
		stations = append(stations, stationPayload{
			Name:          rs.Station.Name,
			Address:       rs.Station.Address,
			City:          rs.Station.City,
			State:         rs.Station.State,
			Price:         rs.Station.Price,
			DistanceMiles: planner.Round2(rs.DistanceMiles),
			TotalCost:     rs.TotalCost,
		})
	}
	return gin.H{
		"route_map":      plan.RouteMap,
		"distance_miles": plan.DistanceMiles,
		"visited_states": plan.VisitedStates,
		"stations":       stations,
	}
}
