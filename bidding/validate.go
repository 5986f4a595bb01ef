package bidding

import (
	"math"
	"time"
)

// DefaultWindowDays is how far ahead of today a check-in may be.
const DefaultWindowDays = 30

// PlaceTerms is the slice of a place the engine needs to judge a bid.
// Handlers build it from the persisted Place row.
type PlaceTerms struct {
	Live               bool
	RetailPrice        float64
	MinimumBid         float64
	AutoAcceptAboveMin bool
	AllowedDaysOfWeek  string // comma separated weekday numbers, empty = all
	BlackoutDates      []time.Time
}

// Submission is a student's untrusted bid input. Totals are always
// recomputed here, never taken from the caller.
type Submission struct {
	CheckInDate  time.Time
	CheckOutDate time.Time
	BidPerNight  float64
}

// ValidateSubmission runs the intake checks in order and returns the first
// failure. hasActiveBid is the caller's duplicate pre-check; the partial
// unique index on bids is the authoritative guard under concurrency.
func ValidateSubmission(sub Submission, place *PlaceTerms, today time.Time, windowDays int, hasActiveBid bool) error {
	if place == nil || !place.Live {
		return ErrPlaceUnavailable
	}

	checkIn := DateOnly(sub.CheckInDate)
	checkOut := DateOnly(sub.CheckOutDate)
	todayDate := DateOnly(today)

	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	windowEnd := todayDate.AddDate(0, 0, windowDays)
	if checkIn.Before(todayDate) || checkIn.After(windowEnd) {
		return ErrDateOutOfWindow
	}

	if !checkOut.After(checkIn) {
		return ErrInvalidDateRange
	}

	if err := checkStayDates(checkIn, checkOut, place); err != nil {
		return err
	}

	if sub.BidPerNight <= 0 || math.IsNaN(sub.BidPerNight) || math.IsInf(sub.BidPerNight, 0) {
		return ErrInvalidBidAmount
	}

	if hasActiveBid {
		return ErrDuplicateBid
	}

	return nil
}

func checkStayDates(checkIn, checkOut time.Time, place *PlaceTerms) error {
	blackouts := make(map[time.Time]bool, len(place.BlackoutDates))
	for _, d := range place.BlackoutDates {
		blackouts[DateOnly(d)] = true
	}
	allowedDays := ParseAllowedDays(place.AllowedDaysOfWeek)

	for _, night := range stayNights(checkIn, checkOut) {
		if blackouts[night] {
			return ErrDateBlocked
		}
		if allowedDays != nil && !allowedDays[night.Weekday()] {
			return ErrDateBlocked
		}
	}
	return nil
}
