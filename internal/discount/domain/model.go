package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Record is the persisted discount usage row. The table is owned by the
// host platform's checkout flow; settlement only reads it.
type Record struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID         snowflake.ID `gorm:"not null;index:ix_discount_usages_user_course" json:"user_id"`
	CourseID       snowflake.ID `gorm:"not null;index:ix_discount_usages_user_course" json:"course_id"`
	DiscountType   Type         `gorm:"type:text;not null" json:"discount_type"`
	ReferrerID     snowflake.ID `gorm:"index" json:"referrer_id"`
	DiscountAmount int64        `gorm:"not null" json:"discount_amount"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Record) TableName() string { return "discount_usages" }

// Usage converts the row to the read model settlement consumes.
func (r *Record) Usage() Usage {
	return Usage{
		ID:             r.ID,
		DiscountType:   r.DiscountType,
		ReferrerID:     r.ReferrerID,
		DiscountAmount: r.DiscountAmount,
	}
}
