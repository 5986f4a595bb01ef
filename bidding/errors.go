package bidding

import "errors"

// Validation and lifecycle failure kinds. Handlers map these to HTTP
// responses; nothing here retries.
var (
	ErrPlaceUnavailable       = errors.New("place does not exist or is not accepting bids")
	ErrDateOutOfWindow        = errors.New("check-in date is outside the bidding window")
	ErrInvalidDateRange       = errors.New("check-out date must be after check-in date")
	ErrDateBlocked            = errors.New("requested dates are not available for this place")
	ErrInvalidBidAmount       = errors.New("bid amount must be a positive number")
	ErrDuplicateBid           = errors.New("an active bid for this place already exists")
	ErrInvalidStateTransition = errors.New("bid is no longer pending and cannot be resolved")
	ErrPaymentNotCaptured     = errors.New("payout cannot be recorded before the payment is captured")
	ErrInvalidPayoutMethod    = errors.New("payout method is not recognized")
)
