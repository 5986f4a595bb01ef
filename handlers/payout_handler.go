package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/staybid/staybid/bidding"
	"github.com/staybid/staybid/database"
	"github.com/staybid/staybid/models"
)

type RecordPayoutRequest struct {
	PayoutMethod  string  `json:"payout_method" validate:"required"`
	IsPaidToHotel bool    `json:"is_paid_to_hotel"`
	PayoutNotes   *string `json:"payout_notes,omitempty"`
}

// RecordPayout books the out-of-band transfer of the host's share. It
// moves no money; it only records that an operator did. Allowed only once
// the student's payment has actually been captured.
func RecordPayout(c *fiber.Ctx) error {
	bidID := c.Params("bidId")

	var req RecordPayoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	method, err := bidding.ParsePayoutMethod(req.PayoutMethod)
	if err != nil {
		return respondBiddingError(c, err)
	}

	var bid models.Bid
	if err := database.DB.First(&bid, "id = ?", bidID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Bid not found"})
	}

	var payment models.Payment
	err = database.DB.
		Where("bid_id = ?", bid.ID).
		Order("created_at desc").
		First(&payment).Error
	if err != nil {
		return respondBiddingError(c, bidding.ErrPaymentNotCaptured)
	}
	if err := bidding.CanRecordPayout(payment.Status); err != nil {
		return respondBiddingError(c, err)
	}

	bid.PayoutMethod = &method
	bid.PayoutNotes = req.PayoutNotes
	bid.IsPaidToHotel = req.IsPaidToHotel
	if req.IsPaidToHotel {
		now := time.Now()
		bid.PaidToHotelAt = &now
	} else {
		// Unsetting the flag supports correcting operator mistakes.
		bid.PaidToHotelAt = nil
	}

	if err := database.DB.Save(&bid).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record payout"})
	}

	return c.JSON(bid)
}

type PayoutSummaryResponse struct {
	TotalPayable   float64      `json:"total_payable"`
	TotalPaid      float64      `json:"total_paid"`
	PendingPayouts []models.Bid `json:"pending_payouts"`
}

// GetMyPayoutSummary shows a host what the platform owes them across
// their captured, unsettled bookings.
func GetMyPayoutSummary(c *fiber.Ctx) error {
	ownerID := currentUserID(c)

	capturedBids := database.DB.Model(&models.Bid{}).
		Select("bids.id").
		Joins("JOIN places ON bids.place_id = places.id").
		Joins("JOIN payments ON payments.bid_id = bids.id AND payments.status = ?", models.PaymentStatusCaptured).
		Where("places.owner_id = ? AND bids.status = ?", ownerID, models.BidStatusAccepted)

	var response PayoutSummaryResponse
	database.DB.Model(&models.Bid{}).
		Where("id IN (?) AND is_paid_to_hotel = ?", capturedBids, false).
		Select("COALESCE(SUM(payable_to_host), 0)").
		Row().Scan(&response.TotalPayable)
	database.DB.Model(&models.Bid{}).
		Where("id IN (?) AND is_paid_to_hotel = ?", capturedBids, true).
		Select("COALESCE(SUM(payable_to_host), 0)").
		Row().Scan(&response.TotalPaid)

	database.DB.Preload("Place").
		Where("id IN (?) AND is_paid_to_hotel = ?", capturedBids, false).
		Order("created_at asc").
		Find(&response.PendingPayouts)

	return c.JSON(response)
}
