package bidding

import (
	"errors"
	"testing"
	"time"

	"github.com/peterldowns/testy/check"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func livePlace() *PlaceTerms {
	return &PlaceTerms{
		Live:               true,
		RetailPrice:        100,
		MinimumBid:         60,
		AutoAcceptAboveMin: true,
	}
}

func TestValidateSubmission(t *testing.T) {
	today := date(2025, time.March, 1)

	tests := []struct {
		name         string
		sub          Submission
		place        *PlaceTerms
		hasActiveBid bool
		expected     error
	}{
		{
			name:     "valid submission passes",
			sub:      Submission{CheckInDate: date(2025, time.March, 10), CheckOutDate: date(2025, time.March, 13), BidPerNight: 70},
			place:    livePlace(),
			expected: nil,
		},
		{
			name:     "missing place",
			sub:      Submission{CheckInDate: date(2025, time.March, 10), CheckOutDate: date(2025, time.March, 13), BidPerNight: 70},
			place:    nil,
			expected: ErrPlaceUnavailable,
		},
		{
			name:     "place not live",
			sub:      Submission{CheckInDate: date(2025, time.March, 10), CheckOutDate: date(2025, time.March, 13), BidPerNight: 70},
			place:    &PlaceTerms{Live: false, MinimumBid: 60},
			expected: ErrPlaceUnavailable,
		},
		{
			name:     "check-in exactly today is accepted",
			sub:      Submission{CheckInDate: date(2025, time.March, 1), CheckOutDate: date(2025, time.March, 2), BidPerNight: 70},
			place:    livePlace(),
			expected: nil,
		},
		{
			name:     "check-in exactly today plus 30 is accepted",
			sub:      Submission{CheckInDate: date(2025, time.March, 31), CheckOutDate: date(2025, time.April, 2), BidPerNight: 70},
			place:    livePlace(),
			expected: nil,
		},
		{
			name:     "check-in at today plus 31 is out of window",
			sub:      Submission{CheckInDate: date(2025, time.April, 1), CheckOutDate: date(2025, time.April, 3), BidPerNight: 70},
			place:    livePlace(),
			expected: ErrDateOutOfWindow,
		},
		{
			name:     "check-in in the past is out of window",
			sub:      Submission{CheckInDate: date(2025, time.February, 28), CheckOutDate: date(2025, time.March, 2), BidPerNight: 70},
			place:    livePlace(),
			expected: ErrDateOutOfWindow,
		},
		{
			name:     "check-out equal to check-in is invalid",
			sub:      Submission{CheckInDate: date(2025, time.March, 10), CheckOutDate: date(2025, time.March, 10), BidPerNight: 70},
			place:    livePlace(),
			expected: ErrInvalidDateRange,
		},
		{
			name:     "check-out before check-in is invalid",
			sub:      Submission{CheckInDate: date(2025, time.March, 10), CheckOutDate: date(2025, time.March, 8), BidPerNight: 70},
			place:    livePlace(),
			expected: ErrInvalidDateRange,
		},
		{
			name: "stay night on blackout date is blocked",
			sub:  Submission{CheckInDate: date(2025, time.March, 10), CheckOutDate: date(2025, time.March, 13), BidPerNight: 70},
			place: &PlaceTerms{
				Live:          true,
				MinimumBid:    60,
				BlackoutDates: []time.Time{date(2025, time.March, 12)},
			},
			expected: ErrDateBlocked,
		},
		{
			name: "check-out date itself may be blacked out",
			sub:  Submission{CheckInDate: date(2025, time.March, 10), CheckOutDate: date(2025, time.March, 13), BidPerNight: 70},
			place: &PlaceTerms{
				Live:          true,
				MinimumBid:    60,
				BlackoutDates: []time.Time{date(2025, time.March, 13)},
			},
			expected: nil,
		},
		{
			name: "stay night on disallowed weekday is blocked",
			sub:  Submission{CheckInDate: date(2025, time.March, 7), CheckOutDate: date(2025, time.March, 9), BidPerNight: 70},
			place: &PlaceTerms{
				Live:              true,
				MinimumBid:        60,
				AllowedDaysOfWeek: "1,2,3,4,5", // 2025-03-08 is a Saturday
			},
			expected: ErrDateBlocked,
		},
		{
			name: "weekday-only stay on allowed days passes",
			sub:  Submission{CheckInDate: date(2025, time.March, 10), CheckOutDate: date(2025, time.March, 14), BidPerNight: 70},
			place: &PlaceTerms{
				Live:              true,
				MinimumBid:        60,
				AllowedDaysOfWeek: "1,2,3,4,5",
			},
			expected: nil,
		},
		{
			name:     "zero bid amount",
			sub:      Submission{CheckInDate: date(2025, time.March, 10), CheckOutDate: date(2025, time.March, 13), BidPerNight: 0},
			place:    livePlace(),
			expected: ErrInvalidBidAmount,
		},
		{
			name:     "negative bid amount",
			sub:      Submission{CheckInDate: date(2025, time.March, 10), CheckOutDate: date(2025, time.March, 13), BidPerNight: -10},
			place:    livePlace(),
			expected: ErrInvalidBidAmount,
		},
		{
			name:         "existing active bid is a duplicate",
			sub:          Submission{CheckInDate: date(2025, time.March, 10), CheckOutDate: date(2025, time.March, 13), BidPerNight: 70},
			place:        livePlace(),
			hasActiveBid: true,
			expected:     ErrDuplicateBid,
		},
		{
			name:         "unavailable place reported before duplicate",
			sub:          Submission{CheckInDate: date(2025, time.March, 10), CheckOutDate: date(2025, time.March, 13), BidPerNight: 70},
			place:        &PlaceTerms{Live: false},
			hasActiveBid: true,
			expected:     ErrPlaceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSubmission(tt.sub, tt.place, today, DefaultWindowDays, tt.hasActiveBid)
			if tt.expected == nil {
				check.Nil(t, err)
			} else {
				check.True(t, errors.Is(err, tt.expected))
			}
		})
	}
}

func TestValidateSubmissionIgnoresTimeOfDay(t *testing.T) {
	// "today" carries a wall-clock time; the window must compare dates only.
	today := time.Date(2025, time.March, 1, 23, 45, 0, 0, time.UTC)
	sub := Submission{
		CheckInDate:  date(2025, time.March, 31),
		CheckOutDate: date(2025, time.April, 1),
		BidPerNight:  70,
	}
	check.Nil(t, ValidateSubmission(sub, livePlace(), today, DefaultWindowDays, false))
}

func TestValidateSubmissionWindowAcrossTimeZones(t *testing.T) {
	// Request dates parse as UTC midnight while the server clock runs in
	// its own zone; the inclusive window boundaries must hold on the
	// calendar date either way.
	tests := []struct {
		name    string
		today   time.Time
		checkIn time.Time
	}{
		{
			name:    "today plus 30 accepted on a server east of UTC",
			today:   time.Date(2025, time.March, 1, 10, 0, 0, 0, time.FixedZone("UTC+2", 2*60*60)),
			checkIn: date(2025, time.March, 31),
		},
		{
			name:    "check-in exactly today accepted on a server west of UTC",
			today:   time.Date(2025, time.March, 1, 10, 0, 0, 0, time.FixedZone("UTC-5", -5*60*60)),
			checkIn: date(2025, time.March, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := Submission{
				CheckInDate:  tt.checkIn,
				CheckOutDate: tt.checkIn.AddDate(0, 0, 2),
				BidPerNight:  70,
			}
			check.Nil(t, ValidateSubmission(sub, livePlace(), tt.today, DefaultWindowDays, false))
		})
	}
}

func TestParseAllowedDays(t *testing.T) {
	tests := []struct {
		name     string
		csv      string
		weekday  time.Weekday
		expected bool
	}{
		{"empty list allows everything", "", time.Sunday, true},
		{"listed day allowed", "0,6", time.Saturday, true},
		{"unlisted day disallowed", "0,6", time.Monday, false},
		{"whitespace tolerated", " 1, 2 ,3", time.Tuesday, true},
		{"garbage entries ignored", "x,9,2", time.Tuesday, true},
		{"all-garbage list allows everything", "x,9", time.Friday, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed := ParseAllowedDays(tt.csv)
			if allowed == nil {
				check.True(t, tt.expected)
				return
			}
			check.Equal(t, tt.expected, allowed[tt.weekday])
		})
	}
}

func TestNightsBetween(t *testing.T) {
	check.Equal(t, 1, NightsBetween(date(2025, time.March, 1), date(2025, time.March, 2)))
	check.Equal(t, 3, NightsBetween(date(2025, time.March, 10), date(2025, time.March, 13)))
	check.Equal(t, 31, NightsBetween(date(2025, time.March, 1), date(2025, time.April, 1)))
}
