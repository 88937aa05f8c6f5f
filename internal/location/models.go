package location

import "time"

// Sample is one geographic position fix. Immutable once created.
type Sample struct {
	Timestamp time.Time `json:"timestamp"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
}
