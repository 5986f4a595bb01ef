package bidding

import "fmt"

// Bid statuses as persisted. Once a bid leaves pending the status is
// terminal; only payout bookkeeping may change afterwards.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// Outcome is the result of resolving a submission at creation time.
type Outcome struct {
	Status          string
	RejectionReason string
	TotalNights     int
	TotalAmount     float64
}

// Resolve assigns the bid's status. Each bid is judged independently
// against the place's minimum rate; there is no bid-against-bid ranking.
func Resolve(sub Submission, place PlaceTerms) Outcome {
	nights := NightsBetween(sub.CheckInDate, sub.CheckOutDate)
	out := Outcome{
		TotalNights: nights,
		TotalAmount: TotalAmount(sub.BidPerNight, nights),
	}

	if !MeetsMinimum(sub.BidPerNight, place.MinimumBid) {
		out.Status = StatusRejected
		out.RejectionReason = fmt.Sprintf("Bid below minimum acceptable rate of %.2f/night", place.MinimumBid)
		return out
	}

	if place.AutoAcceptAboveMin {
		out.Status = StatusAccepted
		return out
	}

	out.Status = StatusPending
	return out
}

// CanResolveManually guards the operator decision path: a pending bid may
// be resolved exactly once.
func CanResolveManually(currentStatus string) error {
	if currentStatus != StatusPending {
		return ErrInvalidStateTransition
	}
	return nil
}
