package bidding

import "strings"

// Payment statuses as persisted. Checkout is a one-way walk: pending →
// requires_action → authorized → captured, with cancelled, failed and
// expired as terminal exits along the way.
const (
	PaymentPending        = "pending"
	PaymentRequiresAction = "requires_action"
	PaymentAuthorized     = "authorized"
	PaymentCaptured       = "captured"
	PaymentCancelled      = "cancelled"
	PaymentFailed         = "failed"
	PaymentExpired        = "expired"
)

// priorStatuses maps each status to the set it may be entered from.
// Guarded updates compare the row against these, so a replayed processor
// event finds no matching row and applies nothing.
var priorStatuses = map[string][]string{
	PaymentRequiresAction: {PaymentPending},
	PaymentAuthorized:     {PaymentPending, PaymentRequiresAction},
	PaymentCaptured:       {PaymentAuthorized},
	PaymentCancelled:      {PaymentPending, PaymentRequiresAction, PaymentAuthorized},
	PaymentFailed:         {PaymentPending, PaymentRequiresAction, PaymentAuthorized},
	PaymentExpired:        {PaymentPending, PaymentRequiresAction, PaymentAuthorized},
}

// PriorPaymentStatuses returns the statuses a payment must currently hold
// for a move to next to be legal. Unknown targets have no legal priors.
func PriorPaymentStatuses(next string) []string {
	return priorStatuses[next]
}

// PaymentTransitionAllowed reports whether a payment in current may move
// to next.
func PaymentTransitionAllowed(current, next string) bool {
	for _, prior := range priorStatuses[next] {
		if prior == current {
			return true
		}
	}
	return false
}

// CanRecordPayout gates payout bookkeeping on the student's money having
// actually been captured.
func CanRecordPayout(paymentStatus string) error {
	if paymentStatus != PaymentCaptured {
		return ErrPaymentNotCaptured
	}
	return nil
}

// Payout methods an operator may record against a settled bid.
var payoutMethods = map[string]bool{
	"bank_transfer": true,
	"manual":        true,
	"other":         true,
}

// ParsePayoutMethod normalizes an operator-supplied payout method and
// rejects anything outside the configured set.
func ParsePayoutMethod(s string) (string, error) {
	method := strings.ToLower(strings.TrimSpace(s))
	if !payoutMethods[method] {
		return "", ErrInvalidPayoutMethod
	}
	return method, nil
}
