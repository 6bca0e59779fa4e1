package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Status of an affiliate commission record. Disbursement is a separate,
// out-of-scope process; this ledger only records what is owed.
type Status string

const (
	StatusPending Status = "pending"
)

// AffiliatePayout is the commission owed to a referrer once the discounted
// purchase was actually paid out. The unique index on discount_usage_id
// keeps retried dispatch tasks from double-firing.
type AffiliatePayout struct {
	ID               snowflake.ID `gorm:"primaryKey" json:"id"`
	DiscountUsageID  snowflake.ID `gorm:"not null;uniqueIndex:ux_affiliate_payouts_usage_id" json:"discount_usage_id"`
	ReferrerID       snowflake.ID `gorm:"not null;index" json:"referrer_id"`
	CommissionAmount int64        `gorm:"not null" json:"commission_amount"`
	RelatedPaymentID snowflake.ID `gorm:"not null;index" json:"related_payment_id"`
	Status           Status       `gorm:"type:text;not null" json:"status"`
	CreatedAt        time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (AffiliatePayout) TableName() string { return "affiliate_payouts" }

type Repository interface {
	// Insert creates the commission record, reporting false when the usage
	// was already commissioned.
	Insert(ctx context.Context, db *gorm.DB, payout *AffiliatePayout) (bool, error)
	FindByPaymentID(ctx context.Context, db *gorm.DB, paymentID snowflake.ID) (*AffiliatePayout, error)
}
