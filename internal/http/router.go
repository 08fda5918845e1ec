// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fuelroute/internal/http/handlers"
	"fuelroute/internal/http/middleware"
	"fuelroute/internal/modules/planner"
)

func NewRouter(plannerService *planner.Service) http.Handler {
	r := gin.New()
	r.Use(middleware.Logging(), middleware.Recovery())

	routeHandler := handlers.NewRouteHandler(plannerService)
	r.POST("/api/routes/optimize", routeHandler.Optimize)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
