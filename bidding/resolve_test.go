package bidding

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/peterldowns/testy/check"
)

func TestResolve(t *testing.T) {
	place := PlaceTerms{
		Live:               true,
		RetailPrice:        100,
		MinimumBid:         60,
		AutoAcceptAboveMin: true,
	}

	tests := []struct {
		name           string
		bidPerNight    float64
		nights         int
		autoAccept     bool
		expectedStatus string
		expectedTotal  float64
		reasonMentions string
	}{
		{
			name:           "above minimum with auto-accept",
			bidPerNight:    70,
			nights:         3,
			autoAccept:     true,
			expectedStatus: StatusAccepted,
			expectedTotal:  210.00,
		},
		{
			name:           "below minimum is rejected",
			bidPerNight:    50,
			nights:         2,
			autoAccept:     true,
			expectedStatus: StatusRejected,
			expectedTotal:  100.00,
			reasonMentions: "60",
		},
		{
			name:           "exactly at minimum meets it",
			bidPerNight:    60,
			nights:         2,
			autoAccept:     true,
			expectedStatus: StatusAccepted,
			expectedTotal:  120.00,
		},
		{
			name:           "above minimum without auto-accept stays pending",
			bidPerNight:    65,
			nights:         2,
			autoAccept:     false,
			expectedStatus: StatusPending,
			expectedTotal:  130.00,
		},
		{
			name:           "a cent below minimum is rejected",
			bidPerNight:    59.99,
			nights:         1,
			autoAccept:     true,
			expectedStatus: StatusRejected,
			expectedTotal:  59.99,
			reasonMentions: "60",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := place
			p.AutoAcceptAboveMin = tt.autoAccept

			checkIn := date(2025, time.March, 10)
			sub := Submission{
				CheckInDate:  checkIn,
				CheckOutDate: checkIn.AddDate(0, 0, tt.nights),
				BidPerNight:  tt.bidPerNight,
			}

			out := Resolve(sub, p)
			check.Equal(t, tt.expectedStatus, out.Status)
			check.Equal(t, tt.nights, out.TotalNights)
			check.Equal(t, tt.expectedTotal, out.TotalAmount)

			if tt.expectedStatus == StatusRejected {
				check.NotEqual(t, "", out.RejectionReason)
				check.True(t, strings.Contains(out.RejectionReason, tt.reasonMentions))
			} else {
				check.Equal(t, "", out.RejectionReason)
			}
		})
	}
}

func TestResolveRecomputesTotal(t *testing.T) {
	// 3 nights at 33.33 rounds once, on the total.
	sub := Submission{
		CheckInDate:  date(2025, time.March, 10),
		CheckOutDate: date(2025, time.March, 13),
		BidPerNight:  33.33,
	}
	out := Resolve(sub, PlaceTerms{Live: true, MinimumBid: 10, AutoAcceptAboveMin: true})
	check.Equal(t, 99.99, out.TotalAmount)
}

func TestCanResolveManually(t *testing.T) {
	check.NoError(t, CanResolveManually(StatusPending))
	check.True(t, errors.Is(CanResolveManually(StatusAccepted), ErrInvalidStateTransition))
	check.True(t, errors.Is(CanResolveManually(StatusRejected), ErrInvalidStateTransition))
}
