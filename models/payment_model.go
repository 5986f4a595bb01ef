package models

import (
	"time"

	"github.com/google/uuid"
)

type Payment struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	// One live payment per bid. A bid can accumulate failed/cancelled/expired
	// attempts, but only one payment may be in flight or captured at a time.
	BidID  uuid.UUID `gorm:"not null;uniqueIndex:uniq_live_payment,where:status NOT IN ('cancelled','failed','expired')" json:"bid_id"`
	Amount float64   `gorm:"type:numeric(10,2);not null" json:"amount"`

	Status          string  `gorm:"size:20;not null;default:'pending'" json:"status"`
	PaymentIntentID *string `gorm:"size:255;unique" json:"payment_intent_id"`
	FailureReason   *string `gorm:"type:text" json:"failure_reason"`

	AuthorizedAt *time.Time `json:"authorized_at"`
	CapturedAt   *time.Time `json:"captured_at"`

	Bid Bid `gorm:"foreignkey:BidID" json:"bid,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	PaymentStatusPending        = "pending"
	PaymentStatusRequiresAction = "requires_action"
	PaymentStatusAuthorized     = "authorized"
	PaymentStatusCaptured       = "captured"
	PaymentStatusCancelled      = "cancelled"
	PaymentStatusFailed         = "failed"
	PaymentStatusExpired        = "expired"
)

// IsTerminal reports whether a payment status permits no further transition.
func (p *Payment) IsTerminal() bool {
	switch p.Status {
	case PaymentStatusCaptured, PaymentStatusCancelled, PaymentStatusFailed, PaymentStatusExpired:
		return true
	}
	return false
}
