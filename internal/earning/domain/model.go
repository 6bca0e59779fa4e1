package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Status gates the actual release of money to an instructor.
type Status string

const (
	// StatusPending blocks release; a completed refund demotes an earning here.
	StatusPending Status = "pending"
	// StatusAvailable means the earning is cleared for disbursement.
	StatusAvailable Status = "available"
	// StatusPaid means the disbursement process released the money. Paid
	// earnings can never be clawed back through the refund path.
	StatusPaid Status = "paid"
)

// InstructorEarning is the instructor's share of one payment. The unique
// index on payment_id is the payout idempotency gate.
type InstructorEarning struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	InstructorID snowflake.ID `gorm:"not null;index" json:"instructor_id"`
	PaymentID    snowflake.ID `gorm:"not null;uniqueIndex:ux_instructor_earnings_payment_id" json:"payment_id"`
	CourseID     snowflake.ID `gorm:"not null;index" json:"course_id"`
	Amount       int64        `gorm:"not null" json:"amount"`
	Status       Status       `gorm:"type:text;not null;index" json:"status"`
	PaidAt       *time.Time   `json:"paid_at,omitempty"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (InstructorEarning) TableName() string { return "instructor_earnings" }
