package gps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ProviderTrip is one finished trip as reported by the vehicle tracking
// provider.
type ProviderTrip struct {
	ID                 string    `json:"id"`
	VehicleID          string    `json:"vehicle_id"`
	RegistrationNumber string    `json:"registration_number"`
	DriverEmail        string    `json:"driver_email"`
	DriverName         string    `json:"driver_name"`
	StartTime          time.Time `json:"start_time"`
	EndTime            time.Time `json:"end_time"`
	DistanceKm         float64   `json:"distance_km"`
	DurationMinutes    int       `json:"duration_minutes"`
	StartAddress       string    `json:"start_address"`
	EndAddress         string    `json:"end_address"`
}

// VehiclePosition is a live position sample for one vehicle.
type VehiclePosition struct {
	VehicleID string    `json:"vehicle_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
}

// Provider is the vehicle tracking collaborator.
type Provider interface {
	// TripsSince lists finished trips recorded after the cursor, oldest
	// first. The cursor is the provider trip id of the last imported trip.
	TripsSince(ctx context.Context, cursor string) ([]ProviderTrip, error)
	// Positions returns the current position per vehicle.
	Positions(ctx context.Context) ([]VehiclePosition, error)
}

// Client is the HTTP implementation against the provider's JSON API.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) TripsSince(ctx context.Context, cursor string) ([]ProviderTrip, error) {
	endpoint := c.baseURL + "/v1/trips"
	if cursor != "" {
		endpoint += "?after=" + url.QueryEscape(cursor)
	}

	var trips []ProviderTrip
	if err := c.getJSON(ctx, endpoint, &trips); err != nil {
		return nil, err
	}
	return trips, nil
}

func (c *Client) Positions(ctx context.Context) ([]VehiclePosition, error) {
	var positions []VehiclePosition
	if err := c.getJSON(ctx, c.baseURL+"/v1/positions", &positions); err != nil {
		return nil, err
	}
	return positions, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gps provider error: status %d, body: %s", resp.StatusCode, string(body))
	}
	return json.Unmarshal(body, out)
}
