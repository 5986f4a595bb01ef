package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/staybid/staybid/bidding"
	config "github.com/staybid/staybid/configs"
	"github.com/staybid/staybid/database"
	"github.com/staybid/staybid/models"
	"github.com/staybid/staybid/notifications"
	"github.com/staybid/staybid/payments"
	"github.com/staybid/staybid/services"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"gorm.io/gorm"
)

// BeginCheckout opens a manual-capture PaymentIntent for an accepted bid.
// A bid with a live payment cannot open a second one; a bid whose previous
// attempt failed, expired or was cancelled can.
func BeginCheckout(c *fiber.Ctx) error {
	studentID := currentUserID(c)
	bidID := c.Params("bidId")

	var bid models.Bid
	if err := database.DB.First(&bid, "id = ?", bidID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Bid not found"})
	}
	if bid.StudentID != studentID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This is not your bid"})
	}
	if bid.Status != models.BidStatusAccepted {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Checkout is only available for accepted bids"})
	}

	payment := models.Payment{
		BidID:  bid.ID,
		Amount: bid.TotalAmount,
		Status: models.PaymentStatusPending,
	}
	if err := database.DB.Create(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "A payment for this bid is already in progress"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create payment record"})
	}

	currency := config.Config("PAYMENT_CURRENCY")
	if currency == "" {
		currency = "usd"
	}

	intent, err := payments.CreateIntentForBid(bid.TotalAmount, currency, bid.ID.String(), payment.ID.String())
	if err != nil {
		log.Printf("🔥 CRITICAL: Stripe intent creation failed for bid %s: %v", bid.ID, err)
		database.DB.Model(&payment).Update("status", models.PaymentStatusFailed)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Payment could not be initiated, please try again."})
	}

	payment.PaymentIntentID = &intent.ID
	if err := database.DB.Save(&payment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update payment record"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"payment_id":    payment.ID,
		"client_secret": intent.ClientSecret,
	})
}

// transitionPayment is a compare-and-swap on payment status: the row moves
// to next only from one of its legal prior statuses, or not at all.
// Replaying the same external event is therefore a no-op.
func transitionPayment(intentID string, next string, updates map[string]interface{}) (*models.Payment, bool, error) {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = next

	result := database.DB.Model(&models.Payment{}).
		Where("payment_intent_id = ? AND status IN ?", intentID, bidding.PriorPaymentStatuses(next)).
		Updates(updates)
	if result.Error != nil {
		return nil, false, result.Error
	}

	var payment models.Payment
	if err := database.DB.Where("payment_intent_id = ?", intentID).First(&payment).Error; err != nil {
		return nil, false, err
	}
	return &payment, result.RowsAffected > 0, nil
}

// HandleStripeWebhook applies the card processor's lifecycle events as
// idempotent status transitions. Declines and authentication challenges
// are valid transitions here, not errors.
func HandleStripeWebhook(c *fiber.Ctx) error {
	event, err := webhook.ConstructEvent(c.Body(), c.Get("Stripe-Signature"), config.Config("STRIPE_WEBHOOK_SECRET"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid webhook signature"})
	}

	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse webhook payload"})
	}

	var applied bool
	var payment *models.Payment
	now := time.Now()

	switch event.Type {
	case "payment_intent.requires_action":
		payment, applied, err = transitionPayment(intent.ID, models.PaymentStatusRequiresAction, nil)

	case "payment_intent.amount_capturable_updated":
		// The hold is in place: the intent is authorized and awaits capture.
		payment, applied, err = transitionPayment(intent.ID, models.PaymentStatusAuthorized,
			map[string]interface{}{"authorized_at": now})

	case "payment_intent.succeeded":
		payment, applied, err = transitionPayment(intent.ID, models.PaymentStatusCaptured,
			map[string]interface{}{"captured_at": now})

	case "payment_intent.payment_failed":
		reason := "card declined"
		if intent.LastPaymentError != nil {
			reason = intent.LastPaymentError.Msg
		}
		payment, applied, err = transitionPayment(intent.ID, models.PaymentStatusFailed,
			map[string]interface{}{"failure_reason": reason})

	case "payment_intent.canceled":
		payment, applied, err = transitionPayment(intent.ID, models.PaymentStatusCancelled, nil)

	default:
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Event ignored"})
	}

	if err != nil {
		log.Printf("🔥 CRITICAL: Error processing webhook %s for intent %s: %v", event.Type, intent.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process webhook"})
	}
	if !applied {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Webhook already processed"})
	}

	if payment.Status == models.PaymentStatusCaptured {
		go onPaymentCaptured(payment.BidID.String())
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Webhook processed successfully"})
}

func onPaymentCaptured(bidID string) {
	var bid models.Bid
	if err := database.DB.Preload("Place.Owner").Preload("Student").First(&bid, "id = ?", bidID).Error; err != nil {
		return
	}

	go services.GenerateBidReceipt(bid)

	notifications.SendEmail(bid.Student.FullName, bid.Student.Email, "Your Stay is Confirmed!",
		fmt.Sprintf("<h1>Payment Complete</h1><p>Your payment for %s was captured. Your stay from %s is confirmed (ref %s).</p>",
			bid.Place.Title, bid.CheckInDate.Format("January 2, 2006"), bid.Reference))
	notifications.SendEmail(bid.Place.Owner.FullName, bid.Place.Owner.Email, "A Booking Was Paid",
		fmt.Sprintf("<h1>Payment Captured</h1><p>The bid %s for %s has been paid. Payable to you: %.2f.</p>",
			bid.Reference, bid.Place.Title, *bid.PayableToHost))
}

// CapturePayment converts an authorized hold into a charge. Exposed to
// operators; the webhook confirms the resulting transition as well, so the
// local CAS keeps the two paths from double-applying.
func CapturePayment(c *fiber.Ctx) error {
	paymentID := c.Params("paymentId")

	var payment models.Payment
	if err := database.DB.First(&payment, "id = ?", paymentID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payment record not found"})
	}
	if payment.Status != models.PaymentStatusAuthorized || payment.PaymentIntentID == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Only authorized payments can be captured"})
	}

	if _, err := payments.CaptureIntent(*payment.PaymentIntentID); err != nil {
		log.Printf("🔥 Stripe capture failed for payment %s: %v", payment.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Capture failed on the payment provider"})
	}

	updated, applied, err := transitionPayment(*payment.PaymentIntentID, models.PaymentStatusCaptured,
		map[string]interface{}{"captured_at": time.Now()})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record capture"})
	}
	if applied {
		go onPaymentCaptured(updated.BidID.String())
	}

	return c.JSON(fiber.Map{"message": "Payment captured", "payment": updated})
}

// CancelCheckout releases an uncaptured hold at the student's request.
func CancelCheckout(c *fiber.Ctx) error {
	studentID := currentUserID(c)
	paymentID := c.Params("paymentId")

	var payment models.Payment
	if err := database.DB.Preload("Bid").First(&payment, "id = ?", paymentID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payment record not found"})
	}
	if payment.Bid.StudentID != studentID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This is not your payment"})
	}
	if payment.IsTerminal() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "This payment can no longer be cancelled"})
	}

	if payment.PaymentIntentID != nil {
		if _, err := payments.CancelIntent(*payment.PaymentIntentID); err != nil {
			log.Printf("🔥 Stripe cancel failed for payment %s: %v", payment.ID, err)
		}
	}

	result := database.DB.Model(&models.Payment{}).
		Where("id = ? AND status IN ?", payment.ID, bidding.PriorPaymentStatuses(models.PaymentStatusCancelled)).
		Update("status", models.PaymentStatusCancelled)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to cancel payment"})
	}

	return c.JSON(fiber.Map{"message": "Checkout cancelled"})
}
