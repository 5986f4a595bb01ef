package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/staybid/staybid/bidding"
	config "github.com/staybid/staybid/configs"
	"github.com/staybid/staybid/database"
	"github.com/staybid/staybid/models"
	"github.com/staybid/staybid/notifications"
	"github.com/staybid/staybid/utils"
	"github.com/staybid/staybid/websocket"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreateBidRequest struct {
	PlaceID      string  `json:"place_id" validate:"required,uuid"`
	CheckInDate  string  `json:"check_in_date" validate:"required,datetime=2006-01-02"`
	CheckOutDate string  `json:"check_out_date" validate:"required,datetime=2006-01-02"`
	BidPerNight  float64 `json:"bid_per_night" validate:"required"`
}

func CreateBid(c *fiber.Ctx) error {
	studentID := currentUserID(c)

	var req CreateBidRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	placeID, _ := uuid.Parse(req.PlaceID)
	checkIn, _ := time.Parse("2006-01-02", req.CheckInDate)
	checkOut, _ := time.Parse("2006-01-02", req.CheckOutDate)

	sub := bidding.Submission{
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
		BidPerNight:  req.BidPerNight,
	}
	windowDays := config.ConfigInt("BID_WINDOW_DAYS", bidding.DefaultWindowDays)
	commissionRate := config.ConfigFloat("PLATFORM_COMMISSION_RATE", bidding.DefaultCommissionRate)

	var bid models.Bid
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var place models.Place
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("BlackoutDates").
			First(&place, "id = ?", placeID).Error
		terms := placeTerms(&place, err)

		var activeCount int64
		tx.Model(&models.Bid{}).
			Where("student_id = ? AND place_id = ? AND status <> ?", studentID, placeID, models.BidStatusRejected).
			Count(&activeCount)

		if err := bidding.ValidateSubmission(sub, terms, time.Now(), windowDays, activeCount > 0); err != nil {
			return err
		}

		outcome := bidding.Resolve(sub, *terms)

		reference, err := utils.GenerateUniqueBidReference(tx)
		if err != nil {
			return err
		}

		bid = models.Bid{
			Reference:    reference,
			PlaceID:      placeID,
			StudentID:    studentID,
			CheckInDate:  bidding.DateOnly(checkIn),
			CheckOutDate: bidding.DateOnly(checkOut),
			BidPerNight:  bidding.Round2(req.BidPerNight),
			TotalNights:  outcome.TotalNights,
			TotalAmount:  outcome.TotalAmount,
			Status:       outcome.Status,
		}
		if outcome.Status == models.BidStatusRejected {
			bid.RejectionReason = &outcome.RejectionReason
		}
		if outcome.Status == models.BidStatusAccepted {
			settlement := bidding.Settle(outcome.TotalAmount, commissionRate)
			bid.PlatformCommission = &settlement.PlatformCommission
			bid.PayableToHost = &settlement.PayableToHost
		}

		if err := tx.Create(&bid).Error; err != nil {
			// The partial unique index closes the race the pre-check cannot.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return bidding.ErrDuplicateBid
			}
			return err
		}
		return nil
	})
	if err != nil {
		return respondBiddingError(c, err)
	}

	if bid.Status != models.BidStatusRejected {
		go notifyHostOfBid(bid.ID)
	}

	return c.Status(fiber.StatusCreated).JSON(bid)
}

// placeTerms maps a loaded Place row onto the engine's view of it. A
// lookup error is treated as "no such place".
func placeTerms(place *models.Place, loadErr error) *bidding.PlaceTerms {
	if loadErr != nil {
		return nil
	}
	terms := &bidding.PlaceTerms{
		Live:               place.Status == models.PlaceStatusLive,
		RetailPrice:        place.RetailPrice,
		MinimumBid:         place.MinimumBid,
		AutoAcceptAboveMin: place.AutoAcceptAboveMin,
		AllowedDaysOfWeek:  place.AllowedDaysOfWeek,
	}
	for _, blackout := range place.BlackoutDates {
		terms.BlackoutDates = append(terms.BlackoutDates, blackout.Date)
	}
	return terms
}

func notifyHostOfBid(bidID uuid.UUID) {
	var bid models.Bid
	if err := database.DB.Preload("Place.Owner").Preload("Student").First(&bid, "id = ?", bidID).Error; err != nil {
		return
	}

	websocket.PushBidAlert(bid.Place.OwnerID, &bid)

	subject := "You Have a New Bid!"
	body := fmt.Sprintf("<h1>New Bid</h1><p>%s bid %.2f/night for %d night(s) at %s (ref %s).</p>",
		bid.Student.FullName, bid.BidPerNight, bid.TotalNights, bid.Place.Title, bid.Reference)
	if bid.Status == models.BidStatusAccepted {
		subject = "A Bid Was Auto-Accepted"
		body = fmt.Sprintf("<h1>Bid Accepted</h1><p>A bid of %.2f/night for %d night(s) at %s was accepted automatically (ref %s).</p>",
			bid.BidPerNight, bid.TotalNights, bid.Place.Title, bid.Reference)
	}
	notifications.SendEmail(bid.Place.Owner.FullName, bid.Place.Owner.Email, subject, body)
}

// respondBiddingError maps engine failure kinds to HTTP statuses. Every
// kind is a client error except unknown storage failures.
func respondBiddingError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, bidding.ErrPlaceUnavailable):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, bidding.ErrDuplicateBid):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, bidding.ErrDateOutOfWindow),
		errors.Is(err, bidding.ErrInvalidDateRange),
		errors.Is(err, bidding.ErrDateBlocked),
		errors.Is(err, bidding.ErrInvalidBidAmount),
		errors.Is(err, bidding.ErrInvalidStateTransition),
		errors.Is(err, bidding.ErrPaymentNotCaptured),
		errors.Is(err, bidding.ErrInvalidPayoutMethod):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process bid"})
}

func GetMyBids(c *fiber.Ctx) error {
	studentID := currentUserID(c)

	var bids []models.Bid
	database.DB.
		Preload("Place").
		Where("student_id = ?", studentID).
		Order("created_at desc").
		Find(&bids)

	return c.JSON(bids)
}

func GetBid(c *fiber.Ctx) error {
	bidID := c.Params("bidId")

	var bid models.Bid
	if err := database.DB.
		Preload("Place.Owner").
		Preload("Student").
		First(&bid, "id = ?", bidID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Bid not found"})
	}

	userID := currentUserID(c)
	if bid.StudentID != userID && bid.Place.OwnerID != userID && currentUserRole(c) != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not a party to this bid"})
	}

	var payment models.Payment
	if err := database.DB.Where("bid_id = ?", bid.ID).Order("created_at desc").First(&payment).Error; err == nil {
		return c.JSON(fiber.Map{"bid": bid, "payment": payment})
	}

	return c.JSON(fiber.Map{"bid": bid})
}

func GetPlaceBids(c *fiber.Ctx) error {
	ownerID := currentUserID(c)
	placeID := c.Params("placeId")

	var place models.Place
	if err := database.DB.First(&place, "id = ?", placeID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Place not found"})
	}
	if place.OwnerID != ownerID && currentUserRole(c) != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This is not your listing"})
	}

	query := database.DB.Preload("Student").Where("place_id = ?", place.ID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var bids []models.Bid
	query.Order("created_at desc").Find(&bids)
	return c.JSON(bids)
}

type ResolveBidRequest struct {
	Decision string  `json:"decision" validate:"required,oneof=accepted rejected"`
	Reason   *string `json:"reason,omitempty"`
}

// ResolveBid is the manual decision path for bids left pending at intake.
// A pending bid may be resolved exactly once.
func ResolveBid(c *fiber.Ctx) error {
	operatorID := currentUserID(c)
	bidID := c.Params("bidId")

	var req ResolveBidRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	commissionRate := config.ConfigFloat("PLATFORM_COMMISSION_RATE", bidding.DefaultCommissionRate)

	var bid models.Bid
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Place").
			First(&bid, "id = ?", bidID).Error; err != nil {
			return errors.New("bid not found")
		}
		if bid.Place.OwnerID != operatorID && currentUserRole(c) != models.RoleAdmin {
			return errors.New("not your listing")
		}
		if err := bidding.CanResolveManually(bid.Status); err != nil {
			return err
		}

		bid.Status = req.Decision
		if req.Decision == models.BidStatusRejected {
			reason := "Rejected by the host"
			if req.Reason != nil && *req.Reason != "" {
				reason = *req.Reason
			}
			bid.RejectionReason = &reason
		}
		if req.Decision == models.BidStatusAccepted {
			settlement := bidding.Settle(bid.TotalAmount, commissionRate)
			bid.PlatformCommission = &settlement.PlatformCommission
			bid.PayableToHost = &settlement.PayableToHost
		}

		return tx.Save(&bid).Error
	})
	if err != nil {
		if errors.Is(err, bidding.ErrInvalidStateTransition) {
			return respondBiddingError(c, err)
		}
		if err.Error() == "bid not found" {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Bid not found"})
		}
		if err.Error() == "not your listing" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This is not your listing"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to resolve bid"})
	}

	go notifyStudentOfDecision(bid.ID)

	return c.JSON(bid)
}

func notifyStudentOfDecision(bidID uuid.UUID) {
	var bid models.Bid
	if err := database.DB.Preload("Place").Preload("Student").First(&bid, "id = ?", bidID).Error; err != nil {
		return
	}

	if bid.Status == models.BidStatusAccepted {
		notifications.SendEmail(bid.Student.FullName, bid.Student.Email, "Your Bid Was Accepted!",
			fmt.Sprintf("<h1>Bid Accepted</h1><p>Your bid for %s was accepted. Complete checkout to secure your stay.</p>", bid.Place.Title))
		return
	}

	reason := ""
	if bid.RejectionReason != nil {
		reason = *bid.RejectionReason
	}
	notifications.SendEmail(bid.Student.FullName, bid.Student.Email, "Update on Your Bid",
		fmt.Sprintf("<h1>Bid Rejected</h1><p>Your bid for %s was not accepted. %s</p>", bid.Place.Title, reason))
}
