package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Status is the approval state of a refund request.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Refund is a request to reverse a completed payment. The unique index on
// payment_id enforces at most one refund per payment even under races.
type Refund struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	PaymentID      snowflake.ID `gorm:"not null;uniqueIndex:ux_refunds_payment_id" json:"payment_id"`
	Amount         int64        `gorm:"not null" json:"amount"`
	Status         Status       `gorm:"type:text;not null;index" json:"status"`
	Reason         string       `gorm:"type:text;not null" json:"reason"`
	RejectedReason *string      `gorm:"type:text" json:"rejected_reason,omitempty"`
	RequestedBy    snowflake.ID `gorm:"not null" json:"requested_by"`
	RequestedAt    time.Time    `gorm:"not null" json:"requested_at"`
	ProcessedAt    *time.Time   `json:"processed_at,omitempty"`
}

func (Refund) TableName() string { return "refunds" }

// Outstanding reports whether the refund still blocks payout: a pending
// request might be approved, and a completed one already reversed the money.
func (r *Refund) Outstanding() bool {
	return r != nil && (r.Status == StatusPending || r.Status == StatusCompleted)
}
