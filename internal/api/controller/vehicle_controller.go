package controller

import (
	"net/http"

	"github.com/eklundh/tidflow/internal/api/response"
	"github.com/eklundh/tidflow/internal/infrastructure/gps"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// VehicleController exposes live fleet data from the tracking provider.
type VehicleController struct {
	provider gps.Provider
	log      *zap.Logger
}

func NewVehicleController(provider gps.Provider, log *zap.Logger) *VehicleController {
	return &VehicleController{provider: provider, log: log}
}

// Positions returns the current position per vehicle, straight from the
// provider. Nothing is cached; the fleet view always shows live data.
func (ctrl *VehicleController) Positions(c *gin.Context) {
	if ctrl.provider == nil {
		response.Error(c, http.StatusServiceUnavailable, "No GPS provider configured")
		return
	}

	positions, err := ctrl.provider.Positions(c.Request.Context())
	if err != nil {
		ctrl.log.Warn("vehicle position query failed", zap.Error(err))
		response.Error(c, http.StatusBadGateway, "GPS provider unavailable")
		return
	}
	response.Success(c, positions)
}
