package bidding

import (
	"github.com/shopspring/decimal"
)

const moneyPrecision int32 = 2

// Round2 rounds a money amount to 2 decimal places, half up. All stored
// amounts pass through here exactly once so displayed and persisted values
// can never disagree.
func Round2(amount float64) float64 {
	rounded, _ := decimal.NewFromFloat(amount).Round(moneyPrecision).Float64()
	return rounded
}

// TotalAmount computes the bid total for a stay. Rounding is applied once,
// on the total, not per night.
func TotalAmount(bidPerNight float64, totalNights int) float64 {
	total := decimal.NewFromFloat(bidPerNight).Mul(decimal.NewFromInt(int64(totalNights)))
	result, _ := total.Round(moneyPrecision).Float64()
	return result
}

// MeetsMinimum reports whether the nightly bid meets or exceeds the place's
// minimum acceptable rate. A bid exactly at the minimum meets it.
func MeetsMinimum(bidPerNight, minimumBid float64) bool {
	bid := decimal.NewFromFloat(bidPerNight).Round(moneyPrecision)
	min := decimal.NewFromFloat(minimumBid).Round(moneyPrecision)
	return bid.GreaterThanOrEqual(min)
}
