package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Type of a discount code.
type Type string

const (
	TypeReferral Type = "referral"
	TypeCoupon   Type = "coupon"
)

// Usage records that a buyer applied a discount code to a purchase.
type Usage struct {
	ID             snowflake.ID
	DiscountType   Type
	ReferrerID     snowflake.ID
	DiscountAmount int64
}

// Referral reports whether the usage earns its referrer a commission.
func (u Usage) Referral() bool {
	return u.DiscountType == TypeReferral && u.ReferrerID != 0
}

// Store exposes the host system's discount/referral records.
type Store interface {
	FindUsagesFor(ctx context.Context, buyerID, courseID snowflake.ID) ([]Usage, error)
}
