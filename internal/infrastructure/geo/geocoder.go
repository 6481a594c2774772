package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Geocoder resolves coordinates to a street address. Implementations must
// fail softly: callers drop the address and continue.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, latitude, longitude float64) (string, error)
}

// HTTPGeocoder talks to a Nominatim-compatible reverse geocoding endpoint.
// The 10 second client timeout bounds how long a clock-in can wait on an
// address before proceeding without one.
type HTTPGeocoder struct {
	baseURL string
	client  *http.Client
}

func NewHTTPGeocoder(baseURL string) *HTTPGeocoder {
	return &HTTPGeocoder{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type reverseResponse struct {
	DisplayName string `json:"display_name"`
}

func (g *HTTPGeocoder) ReverseGeocode(ctx context.Context, latitude, longitude float64) (string, error) {
	url := fmt.Sprintf("%s/reverse?format=jsonv2&lat=%f&lon=%f", g.baseURL, latitude, longitude)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("geocoding error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var apiResp reverseResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", err
	}
	return apiResp.DisplayName, nil
}
