package models

import (
	"time"

	"github.com/google/uuid"
)

type Place struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OwnerID     uuid.UUID `gorm:"not null" json:"owner_id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description *string   `gorm:"type:text" json:"description"`
	City        string    `gorm:"size:100;not null" json:"city"`
	Address     *string   `gorm:"size:255" json:"address"`
	ImageURLs   *string   `gorm:"type:text" json:"image_urls"` // comma separated Cloudinary URLs

	RetailPrice        float64 `gorm:"type:numeric(10,2);not null" json:"retail_price"`
	MinimumBid         float64 `gorm:"type:numeric(10,2);not null" json:"minimum_bid"`
	AutoAcceptAboveMin bool    `gorm:"not null;default:false" json:"auto_accept_above_min"`
	// Comma separated weekday numbers (0=Sunday..6=Saturday). Empty means all days allowed.
	AllowedDaysOfWeek string `gorm:"size:20" json:"allowed_days_of_week"`
	Status            string `gorm:"size:20;not null;default:'draft'" json:"status"`
	MaxInventory      int    `gorm:"not null;default:1" json:"max_inventory"`

	Owner         User                `gorm:"foreignkey:OwnerID" json:"owner,omitempty"`
	BlackoutDates []PlaceBlackoutDate `gorm:"foreignkey:PlaceID" json:"blackout_dates,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	PlaceStatusDraft  = "draft"
	PlaceStatusLive   = "live"
	PlaceStatusPaused = "paused"
)
