package payments

import (
	"fmt"

	"github.com/shopspring/decimal"
	config "github.com/staybid/staybid/configs"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

// InitStripe sets the API key once at startup.
func InitStripe() {
	stripe.Key = config.Config("STRIPE_SECRET_KEY")
}

// amountToCents converts a 2-decimal money amount to Stripe's integer
// minor units without float drift.
func amountToCents(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// CreateIntentForBid opens a manual-capture PaymentIntent for an accepted
// bid. The card is authorized on confirmation and captured separately, so
// the platform controls when the charge lands.
func CreateIntentForBid(amount float64, currency, bidID, paymentID string) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(amountToCents(amount)),
		Currency:      stripe.String(currency),
		CaptureMethod: stripe.String(string(stripe.PaymentIntentCaptureMethodManual)),
	}
	params.AddMetadata("bid_id", bidID)
	params.AddMetadata("payment_id", paymentID)

	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe create intent failed: %w", err)
	}
	return intent, nil
}

// CaptureIntent converts an authorized hold into an actual charge.
func CaptureIntent(intentID string) (*stripe.PaymentIntent, error) {
	intent, err := paymentintent.Capture(intentID, &stripe.PaymentIntentCaptureParams{})
	if err != nil {
		return nil, fmt.Errorf("stripe capture failed: %w", err)
	}
	return intent, nil
}

// GetIntent fetches the current provider-side state of an intent.
func GetIntent(intentID string) (*stripe.PaymentIntent, error) {
	intent, err := paymentintent.Get(intentID, nil)
	if err != nil {
		return nil, fmt.Errorf("stripe get intent failed: %w", err)
	}
	return intent, nil
}

// CancelIntent releases an uncaptured hold.
func CancelIntent(intentID string) (*stripe.PaymentIntent, error) {
	intent, err := paymentintent.Cancel(intentID, nil)
	if err != nil {
		return nil, fmt.Errorf("stripe cancel failed: %w", err)
	}
	return intent, nil
}
