package models

import (
	"time"

	"github.com/google/uuid"
)

type PlaceBlackoutDate struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	PlaceID uuid.UUID `gorm:"not null;uniqueIndex:uniq_place_blackout" json:"place_id"`
	Date    time.Time `gorm:"type:date;not null;uniqueIndex:uniq_place_blackout" json:"date"`

	CreatedAt time.Time `json:"-"`
}
