package bidding

import (
	"errors"
	"testing"

	"github.com/peterldowns/testy/check"
)

func TestPaymentTransitionAllowed(t *testing.T) {
	tests := []struct {
		name     string
		current  string
		next     string
		expected bool
	}{
		{"pending may require action", PaymentPending, PaymentRequiresAction, true},
		{"pending may authorize directly", PaymentPending, PaymentAuthorized, true},
		{"requires_action may authorize", PaymentRequiresAction, PaymentAuthorized, true},
		{"capture only from authorized", PaymentAuthorized, PaymentCaptured, true},
		{"capture not from pending", PaymentPending, PaymentCaptured, false},
		{"capture not from requires_action", PaymentRequiresAction, PaymentCaptured, false},
		{"authorized hold may expire", PaymentAuthorized, PaymentExpired, true},
		{"authorized hold may fail", PaymentAuthorized, PaymentFailed, true},
		{"authorized hold may be cancelled", PaymentAuthorized, PaymentCancelled, true},
		{"replayed capture is illegal", PaymentCaptured, PaymentCaptured, false},
		{"captured is terminal", PaymentCaptured, PaymentCancelled, false},
		{"failed is terminal", PaymentFailed, PaymentAuthorized, false},
		{"expired is terminal", PaymentExpired, PaymentCaptured, false},
		{"cancelled is terminal", PaymentCancelled, PaymentRequiresAction, false},
		{"unknown target has no priors", PaymentPending, "refunded", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check.Equal(t, tt.expected, PaymentTransitionAllowed(tt.current, tt.next))
		})
	}
}

func TestPriorPaymentStatusesMatchTransitionTable(t *testing.T) {
	// The guarded SQL updates use these lists as their WHERE clause; every
	// listed prior must be a legal transition and nothing terminal may
	// appear in any of them.
	terminal := []string{PaymentCaptured, PaymentCancelled, PaymentFailed, PaymentExpired}
	targets := []string{
		PaymentRequiresAction, PaymentAuthorized, PaymentCaptured,
		PaymentCancelled, PaymentFailed, PaymentExpired,
	}

	for _, next := range targets {
		priors := PriorPaymentStatuses(next)
		check.True(t, len(priors) > 0)
		for _, prior := range priors {
			check.True(t, PaymentTransitionAllowed(prior, next))
			for _, term := range terminal {
				check.NotEqual(t, term, prior)
			}
		}
	}
}

func TestCanRecordPayout(t *testing.T) {
	check.Nil(t, CanRecordPayout(PaymentCaptured))

	for _, status := range []string{
		PaymentPending, PaymentRequiresAction, PaymentAuthorized,
		PaymentCancelled, PaymentFailed, PaymentExpired,
	} {
		check.True(t, errors.Is(CanRecordPayout(status), ErrPaymentNotCaptured))
	}
}

func TestParsePayoutMethod(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{"bank transfer", "bank_transfer", "bank_transfer", false},
		{"manual", "manual", "manual", false},
		{"other", "other", "other", false},
		{"case normalized", "Bank_Transfer", "bank_transfer", false},
		{"whitespace trimmed", "  manual ", "manual", false},
		{"unknown method rejected", "paypal", "", true},
		{"empty rejected", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method, err := ParsePayoutMethod(tt.input)
			if tt.wantErr {
				check.True(t, errors.Is(err, ErrInvalidPayoutMethod))
				return
			}
			check.Nil(t, err)
			check.Equal(t, tt.expected, method)
		})
	}
}
