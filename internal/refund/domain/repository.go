package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("refund_not_found")
	ErrConflict = errors.New("refund_already_exists")
)

type Repository interface {
	// Insert creates the refund, reporting false when a refund for the same
	// payment already exists. The unique index is authoritative.
	Insert(ctx context.Context, db *gorm.DB, refund *Refund) (bool, error)
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Refund, error)
	FindByPaymentID(ctx context.Context, db *gorm.DB, paymentID snowflake.ID) (*Refund, error)
	// Transition resolves a pending refund, reporting whether the guarded
	// update changed a row.
	Transition(ctx context.Context, db *gorm.DB, id snowflake.ID, to Status, rejectedReason *string, processedAt time.Time) (bool, error)
}
