package bidding

import (
	"github.com/shopspring/decimal"
)

// DefaultCommissionRate is the platform-wide fallback when no rate is
// configured. The effective rate is injected by the caller so already
// settled bids are never recomputed when it changes.
const DefaultCommissionRate = 0.0666

// Settlement is the money split for an accepted bid.
type Settlement struct {
	PlatformCommission float64
	PayableToHost      float64
}

// Settle splits a bid total between platform and host. The commission is
// rounded to the cent; the host receives the exact remainder so the two
// parts always sum back to the total.
func Settle(totalAmount, commissionRate float64) Settlement {
	total := decimal.NewFromFloat(totalAmount)
	commission := total.Mul(decimal.NewFromFloat(commissionRate)).Round(moneyPrecision)
	payable := total.Sub(commission)

	commissionF, _ := commission.Float64()
	payableF, _ := payable.Float64()
	return Settlement{
		PlatformCommission: commissionF,
		PayableToHost:      payableF,
	}
}
