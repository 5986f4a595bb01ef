package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	FullName string    `gorm:"size:255;not null" json:"full_name"`
	Email    string    `gorm:"size:255;not null;unique" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Role     string    `gorm:"size:20;not null;default:'student'" json:"role"`

	// Students must be approved by an admin before they can place bids.
	ApprovalStatus string  `gorm:"size:20;not null;default:'pending'" json:"approval_status"`
	IDDocumentURL  *string `gorm:"size:255" json:"id_document_url"`

	PhoneNumber       *string `gorm:"size:30" json:"phone_number"`
	University        *string `gorm:"size:255" json:"university"`
	ProfilePictureURL *string `gorm:"size:255" json:"profile_picture_url"`

	ResetPasswordToken          *string    `gorm:"size:255;unique" json:"-"`
	ResetPasswordTokenExpiresAt *time.Time `json:"-"`
	IsActive                    bool       `gorm:"default:true" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	RoleStudent    = "student"
	RoleHotelOwner = "hotel_owner"
	RoleAdmin      = "admin"
)

const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)
