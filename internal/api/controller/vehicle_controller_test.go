package controller_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/eklundh/tidflow/internal/api/controller"
	"github.com/eklundh/tidflow/internal/infrastructure/gps"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type stubProvider struct {
	positions []gps.VehiclePosition
	err       error
}

func (s *stubProvider) TripsSince(_ context.Context, _ string) ([]gps.ProviderTrip, error) {
	return nil, nil
}

func (s *stubProvider) Positions(_ context.Context) ([]gps.VehiclePosition, error) {
	return s.positions, s.err
}

func positionsRouter(provider gps.Provider) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	ctrl := controller.NewVehicleController(provider, zap.NewNop())
	r.GET("/vehicles/positions", ctrl.Positions)
	return r
}

func TestPositionsReturnsLiveFleet(t *testing.T) {
	provider := &stubProvider{positions: []gps.VehiclePosition{
		{VehicleID: "veh-1", Latitude: 59.33, Longitude: 18.06, Timestamp: time.Now()},
		{VehicleID: "veh-2", Latitude: 57.71, Longitude: 11.97, Timestamp: time.Now()},
	}}
	r := positionsRouter(provider)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/vehicles/positions", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var body struct {
		Code int                   `json:"code"`
		Data []gps.VehiclePosition `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Code != 0 || len(body.Data) != 2 || body.Data[0].VehicleID != "veh-1" {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestPositionsProviderFailure(t *testing.T) {
	r := positionsRouter(&stubProvider{err: errors.New("timeout")})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/vehicles/positions", nil))

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
}

func TestPositionsWithoutProvider(t *testing.T) {
	r := positionsRouter(nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/vehicles/positions", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
}
