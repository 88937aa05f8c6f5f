package alert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"safegenie/internal/location"
)

func TestCompose(t *testing.T) {
	now := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)
	current := location.Sample{
		Timestamp: now,
		Latitude:  48.858370,
		Longitude: 2.294481,
	}
	timeline := []location.Sample{
		{Timestamp: now.Add(-6 * time.Minute), Latitude: 48.853000, Longitude: 2.288000},
		{Timestamp: now.Add(-3 * time.Minute), Latitude: 48.855500, Longitude: 2.291200},
		current,
	}

	got := Compose(now, current, timeline)

	want := "\U0001F6A8 SOS Alert - Emergency Location Update\n" +
		"\n" +
		"Current Time: 2025-03-14 15:09:26\n" +
		"Current Location: https://maps.google.com/?q=48.858370,2.294481\n" +
		"\n" +
		"Last 30 min timeline:\n" +
		"1. 2025-03-14 15:03:26 - https://maps.google.com/?q=48.853000,2.288000\n" +
		"2. 2025-03-14 15:06:26 - https://maps.google.com/?q=48.855500,2.291200\n" +
		"3. 2025-03-14 15:09:26 - https://maps.google.com/?q=48.858370,2.294481\n"

	assert.Equal(t, want, got)
}

func TestComposeEmptyTimeline(t *testing.T) {
	now := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)
	current := location.Sample{Timestamp: now, Latitude: 10, Longitude: 20}

	got := Compose(now, current, nil)

	assert.Contains(t, got, "Current Location: https://maps.google.com/?q=10.000000,20.000000")
	assert.Contains(t, got, "Last 30 min timeline:\n")
}
