package jobs

import (
	"log"
	"time"

	"github.com/staybid/staybid/bidding"
	config "github.com/staybid/staybid/configs"
	"github.com/staybid/staybid/database"
	"github.com/staybid/staybid/models"
	"github.com/staybid/staybid/payments"
)

// ExpireStalePayments closes out checkout attempts the student walked
// away from, so the bid becomes payable again through a fresh payment.
func ExpireStalePayments() {
	log.Println("Running job: ExpireStalePayments...")

	expiryMinutes := config.ConfigInt("PAYMENT_EXPIRY_MINUTES", 60)
	deadline := time.Now().Add(-time.Duration(expiryMinutes) * time.Minute)

	// Authorized holds age from the moment of authorization, everything
	// earlier from creation.
	var stalePayments []models.Payment
	err := database.DB.
		Where("(status IN ? AND created_at < ?) OR (status = ? AND authorized_at < ?)",
			[]string{models.PaymentStatusPending, models.PaymentStatusRequiresAction}, deadline,
			models.PaymentStatusAuthorized, deadline).
		Find(&stalePayments).Error
	if err != nil {
		log.Printf("Error checking for stale payments: %v", err)
		return
	}

	if len(stalePayments) == 0 {
		return
	}

	expired := 0
	for _, payment := range stalePayments {
		if payment.PaymentIntentID != nil {
			if _, err := payments.CancelIntent(*payment.PaymentIntentID); err != nil {
				log.Printf("Error cancelling intent %s: %v", *payment.PaymentIntentID, err)
			}
		}

		// Guarded update so a webhook racing this job wins.
		res := database.DB.Model(&models.Payment{}).
			Where("id = ? AND status IN ?", payment.ID, bidding.PriorPaymentStatuses(models.PaymentStatusExpired)).
			Update("status", models.PaymentStatusExpired)
		if res.Error != nil {
			log.Printf("Error expiring payment %s: %v", payment.ID, res.Error)
			continue
		}
		if res.RowsAffected > 0 {
			expired++
		}
	}

	log.Printf("Expired %d stale payment(s).", expired)
}
