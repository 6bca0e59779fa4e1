package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Status is the settlement state of a purchase attempt.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusRefunded  Status = "refunded"
)

// Terminal reports whether the status can no longer change through
// UpdatePaymentStatus. Refunded is reachable only through a completed refund.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusRefunded
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed, StatusRefunded:
		return true
	default:
		return false
	}
}

// Payment is one purchase attempt. Amounts are minor currency units.
// PaidAt doubles as the completion timestamp: it is set exactly when the
// payment transitions to completed, and every waiting-period and
// refund-window check measures from it.
type Payment struct {
	ID                snowflake.ID `gorm:"primaryKey" json:"id"`
	BuyerID           snowflake.ID `gorm:"not null;index" json:"buyer_id"`
	CourseID          snowflake.ID `gorm:"not null;index" json:"course_id"`
	InstructorID      snowflake.ID `gorm:"not null;index" json:"instructor_id"`
	CourseTitle       string       `gorm:"type:text;not null" json:"course_title"`
	Amount            int64        `gorm:"not null" json:"amount"`
	Currency          string       `gorm:"type:text;not null" json:"currency"`
	Status            Status       `gorm:"type:text;not null;index" json:"status"`
	PaymentMethod     string       `gorm:"type:text;not null" json:"payment_method"`
	GatewaySessionRef *string      `gorm:"type:text" json:"gateway_session_ref,omitempty"`
	PaidAt            *time.Time   `json:"paid_at,omitempty"`
	PaidOutAt         *time.Time   `json:"paid_out_at,omitempty"`
	CreatedAt         time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Payment) TableName() string { return "payments" }

// SessionRef returns the gateway session reference, empty when absent.
func (p *Payment) SessionRef() string {
	if p == nil || p.GatewaySessionRef == nil {
		return ""
	}
	return *p.GatewaySessionRef
}
