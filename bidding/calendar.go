package bidding

import (
	"strconv"
	"strings"
	"time"
)

// DateOnly reduces an instant to its calendar date, anchored at UTC
// midnight. Dates from different zones (request payloads parse as UTC,
// the server clock runs local) must compare by calendar day, not by
// instant, or the window boundaries shift by a day near midnight.
func DateOnly(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// NightsBetween returns the number of nights in [checkIn, checkOut).
func NightsBetween(checkIn, checkOut time.Time) int {
	return int(DateOnly(checkOut).Sub(DateOnly(checkIn)).Hours() / 24)
}

// ParseAllowedDays parses a comma separated weekday list ("0,5,6") into a
// set. An empty string means every day is allowed.
func ParseAllowedDays(csv string) map[time.Weekday]bool {
	csv = strings.TrimSpace(csv)
	if csv == "" {
		return nil
	}
	allowed := make(map[time.Weekday]bool)
	for _, part := range strings.Split(csv, ",") {
		day, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || day < 0 || day > 6 {
			continue
		}
		allowed[time.Weekday(day)] = true
	}
	if len(allowed) == 0 {
		return nil
	}
	return allowed
}

// stayNights iterates every night of the stay, [checkIn, checkOut).
func stayNights(checkIn, checkOut time.Time) []time.Time {
	var nights []time.Time
	for d := DateOnly(checkIn); d.Before(DateOnly(checkOut)); d = d.AddDate(0, 0, 1) {
		nights = append(nights, d)
	}
	return nights
}
