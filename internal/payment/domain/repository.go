package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("payment_not_found")
	ErrInvalidStatus = errors.New("invalid_payment_status")
)

// Repository persists the payment ledger. The *gorm.DB handle is passed per
// call so orchestrator transactions can span several ledgers.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, payment *Payment) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Payment, error)
	// FindCompletedByBuyerAndCourse returns the completed payment a refund
	// request would reverse, or nil when the buyer holds none.
	FindCompletedByBuyerAndCourse(ctx context.Context, db *gorm.DB, buyerID, courseID snowflake.ID) (*Payment, error)
	// TransitionStatus applies a guarded status move and reports whether a
	// row actually changed. The from-status guard in the WHERE clause is the
	// optimistic-concurrency check.
	TransitionStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, from, to Status, paidAt *time.Time, now time.Time) (bool, error)
	// MarkPaidOut stamps paid_out_at, guarded on completed status and a
	// still-null paid_out_at so a payout can never be recorded twice.
	MarkPaidOut(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) (bool, error)
}
