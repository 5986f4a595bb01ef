package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/staybid/staybid/bidding"
	"github.com/staybid/staybid/database"
	"github.com/staybid/staybid/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PlaceRequest struct {
	Title              string   `json:"title" validate:"required,min=3"`
	Description        *string  `json:"description,omitempty"`
	City               string   `json:"city" validate:"required"`
	Address            *string  `json:"address,omitempty"`
	ImageURLs          []string `json:"image_urls,omitempty" validate:"omitempty,dive,url"`
	RetailPrice        float64  `json:"retail_price" validate:"required,gt=0"`
	MinimumBid         float64  `json:"minimum_bid" validate:"required,gt=0"`
	AutoAcceptAboveMin bool     `json:"auto_accept_above_min"`
	AllowedDaysOfWeek  string   `json:"allowed_days_of_week,omitempty"`
	MaxInventory       int      `json:"max_inventory,omitempty" validate:"omitempty,min=1"`
}

func CreatePlace(c *fiber.Ctx) error {
	ownerID := currentUserID(c)

	var req PlaceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.MinimumBid >= req.RetailPrice {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Minimum bid must be strictly below the retail price"})
	}

	maxInventory := 1
	if req.MaxInventory > 1 {
		maxInventory = req.MaxInventory
	}

	place := models.Place{
		OwnerID:            ownerID,
		Title:              req.Title,
		Description:        req.Description,
		City:               req.City,
		Address:            req.Address,
		RetailPrice:        req.RetailPrice,
		MinimumBid:         req.MinimumBid,
		AutoAcceptAboveMin: req.AutoAcceptAboveMin,
		AllowedDaysOfWeek:  req.AllowedDaysOfWeek,
		Status:             models.PlaceStatusDraft,
		MaxInventory:       maxInventory,
	}
	if len(req.ImageURLs) > 0 {
		joined := strings.Join(req.ImageURLs, ",")
		place.ImageURLs = &joined
	}

	if err := database.DB.Create(&place).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create place"})
	}

	return c.Status(fiber.StatusCreated).JSON(place)
}

func UpdatePlace(c *fiber.Ctx) error {
	ownerID := currentUserID(c)
	placeID := c.Params("placeId")

	var place models.Place
	if err := database.DB.First(&place, "id = ?", placeID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Place not found"})
	}
	if place.OwnerID != ownerID && currentUserRole(c) != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This is not your listing"})
	}

	var req PlaceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.MinimumBid >= req.RetailPrice {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Minimum bid must be strictly below the retail price"})
	}

	// Once a bid has settled against this place, pricing is frozen; only
	// availability fields may still change.
	var settledCount int64
	database.DB.Model(&models.Bid{}).
		Where("place_id = ? AND status = ?", place.ID, models.BidStatusAccepted).
		Count(&settledCount)
	if settledCount > 0 && (req.RetailPrice != place.RetailPrice || req.MinimumBid != place.MinimumBid) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Pricing cannot change after a bid has been accepted; only availability fields may be edited"})
	}

	place.Title = req.Title
	place.Description = req.Description
	place.City = req.City
	place.Address = req.Address
	place.RetailPrice = req.RetailPrice
	place.MinimumBid = req.MinimumBid
	place.AutoAcceptAboveMin = req.AutoAcceptAboveMin
	place.AllowedDaysOfWeek = req.AllowedDaysOfWeek
	if req.MaxInventory >= 1 {
		place.MaxInventory = req.MaxInventory
	}
	if len(req.ImageURLs) > 0 {
		joined := strings.Join(req.ImageURLs, ",")
		place.ImageURLs = &joined
	}

	if err := database.DB.Save(&place).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update place"})
	}

	return c.JSON(place)
}

type PlaceStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft live paused"`
}

func SetPlaceStatus(c *fiber.Ctx) error {
	ownerID := currentUserID(c)
	placeID := c.Params("placeId")

	var req PlaceStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var place models.Place
	if err := database.DB.First(&place, "id = ?", placeID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Place not found"})
	}
	if place.OwnerID != ownerID && currentUserRole(c) != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This is not your listing"})
	}

	place.Status = req.Status
	if err := database.DB.Save(&place).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update status"})
	}

	return c.JSON(fiber.Map{"message": "Place status updated", "status": place.Status})
}

type BlackoutRequest struct {
	Dates []string `json:"dates" validate:"required,min=1,dive,datetime=2006-01-02"`
}

func AddBlackoutDates(c *fiber.Ctx) error {
	ownerID := currentUserID(c)
	placeID, err := uuid.Parse(c.Params("placeId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid place ID"})
	}

	var req BlackoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var place models.Place
	if err := database.DB.First(&place, "id = ?", placeID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Place not found"})
	}
	if place.OwnerID != ownerID && currentUserRole(c) != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This is not your listing"})
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		for _, raw := range req.Dates {
			day, _ := time.Parse("2006-01-02", raw)
			blackout := models.PlaceBlackoutDate{PlaceID: placeID, Date: bidding.DateOnly(day)}
			// Re-adding an existing blackout date is a no-op.
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&blackout).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save blackout dates"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Blackout dates added"})
}

func RemoveBlackoutDate(c *fiber.Ctx) error {
	ownerID := currentUserID(c)
	placeID := c.Params("placeId")
	dateStr := c.Params("date")

	day, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date format. Use YYYY-MM-DD."})
	}

	var place models.Place
	if err := database.DB.First(&place, "id = ?", placeID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Place not found"})
	}
	if place.OwnerID != ownerID && currentUserRole(c) != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This is not your listing"})
	}

	result := database.DB.Delete(&models.PlaceBlackoutDate{}, "place_id = ? AND date = ?", place.ID, bidding.DateOnly(day))
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to remove blackout date"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Blackout date not found"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func GetMyPlaces(c *fiber.Ctx) error {
	ownerID := currentUserID(c)

	var places []models.Place
	database.DB.Preload("BlackoutDates").Where("owner_id = ?", ownerID).Order("created_at desc").Find(&places)
	return c.JSON(places)
}

func ListLivePlaces(c *fiber.Ctx) error {
	query := database.DB.Preload("BlackoutDates").Where("status = ?", models.PlaceStatusLive)

	if city := c.Query("city"); city != "" {
		query = query.Where("LOWER(city) = LOWER(?)", city)
	}
	if maxPrice := c.QueryFloat("max_price"); maxPrice > 0 {
		query = query.Where("retail_price <= ?", maxPrice)
	}

	var places []models.Place
	query.Order("created_at desc").Find(&places)
	return c.JSON(places)
}

func GetPlace(c *fiber.Ctx) error {
	placeID := c.Params("placeId")

	var place models.Place
	if err := database.DB.Preload("BlackoutDates").Preload("Owner").First(&place, "id = ?", placeID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Place not found"})
	}

	return c.JSON(place)
}
