package models

import (
	"time"

	"github.com/google/uuid"
)

type Bid struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Reference string    `gorm:"size:12;not null;unique" json:"reference"`
	PlaceID   uuid.UUID `gorm:"not null;uniqueIndex:uniq_active_bid,where:status <> 'rejected'" json:"place_id"`
	StudentID uuid.UUID `gorm:"not null;uniqueIndex:uniq_active_bid,where:status <> 'rejected'" json:"student_id"`

	CheckInDate  time.Time `gorm:"type:date;not null" json:"check_in_date"`
	CheckOutDate time.Time `gorm:"type:date;not null" json:"check_out_date"`
	BidPerNight  float64   `gorm:"type:numeric(10,2);not null" json:"bid_per_night"`
	TotalNights  int       `gorm:"not null" json:"total_nights"`
	TotalAmount  float64   `gorm:"type:numeric(10,2);not null" json:"total_amount"`

	Status          string  `gorm:"size:20;not null;default:'pending'" json:"status"`
	RejectionReason *string `gorm:"type:text" json:"rejection_reason"`

	// Settlement fields, written once when the bid is accepted.
	PlatformCommission *float64 `gorm:"type:numeric(10,2)" json:"platform_commission"`
	PayableToHost      *float64 `gorm:"type:numeric(10,2)" json:"payable_to_host"`

	ReceiptURL *string `gorm:"size:255" json:"receipt_url"`

	IsPaidToHotel bool       `gorm:"not null;default:false" json:"is_paid_to_hotel"`
	PaidToHotelAt *time.Time `json:"paid_to_hotel_at"`
	PayoutMethod  *string    `gorm:"size:30" json:"payout_method"`
	PayoutNotes   *string    `gorm:"type:text" json:"payout_notes"`

	Place   Place `gorm:"foreignkey:PlaceID" json:"place,omitempty"`
	Student User  `gorm:"foreignkey:StudentID" json:"student,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	BidStatusPending  = "pending"
	BidStatusAccepted = "accepted"
	BidStatusRejected = "rejected"
)
