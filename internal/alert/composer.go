package alert

import (
	"fmt"
	"strings"
	"time"

	"safegenie/internal/constants"
	"safegenie/internal/location"
)

const composeTimeLayout = "2006-01-02 15:04:05"

func mapsLink(s location.Sample) string {
	return fmt.Sprintf("%s%.6f,%.6f", constants.MapsLinkBase, s.Latitude, s.Longitude)
}

// Compose builds the default alert body from the current position and the
// retained timeline. Used when the client sends no message of its own.
func Compose(now time.Time, current location.Sample, timeline []location.Sample) string {
	var b strings.Builder

	b.WriteString(constants.AlertSubject)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Current Time: %s\n", now.Format(composeTimeLayout))
	fmt.Fprintf(&b, "Current Location: %s\n", mapsLink(current))
	b.WriteString("\n")
	b.WriteString("Last 30 min timeline:\n")
	for i, s := range timeline {
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, s.Timestamp.Format(composeTimeLayout), mapsLink(s))
	}

	return b.String()
}
