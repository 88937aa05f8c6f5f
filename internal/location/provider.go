package location

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"safegenie/internal/constants"
)

// Provider yields the device's current position. Implementations must honor
// the context deadline.
type Provider interface {
	Locate(ctx context.Context) (Sample, error)
}

// HTTPProvider queries a JSON geolocation endpoint (ip-api style: a body
// carrying "lat" and "lon").
type HTTPProvider struct {
	client *http.Client
	url    string
}

func NewHTTPProvider(url string) *HTTPProvider {
	return &HTTPProvider{
		client: &http.Client{
			Timeout: constants.DefaultHTTPTimeout,
		},
		url: url,
	}
}

func (p *HTTPProvider) Locate(ctx context.Context) (Sample, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return Sample{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return Sample{}, fmt.Errorf("geolocation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < constants.HTTPStatusOKMin || resp.StatusCode >= constants.HTTPStatusOKMax {
		return Sample{}, fmt.Errorf("geolocation provider returned status: %d", resp.StatusCode)
	}

	var body struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Sample{}, fmt.Errorf("failed to decode geolocation response: %w", err)
	}

	return Sample{
		Timestamp: time.Now(),
		Latitude:  body.Lat,
		Longitude: body.Lon,
	}, nil
}
