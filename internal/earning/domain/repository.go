package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("earning_not_found")
	ErrConflict = errors.New("earning_already_exists")
)

type ListFilter struct {
	InstructorID snowflake.ID
	Cursor       *Cursor
	Limit        int
}

// Cursor is the keyset position for earning listings.
type Cursor struct {
	ID        snowflake.ID
	CreatedAt time.Time
}

type Repository interface {
	// Insert creates the earning, reporting false when one already exists
	// for the payment. The unique index is authoritative under races.
	Insert(ctx context.Context, db *gorm.DB, earning *InstructorEarning) (bool, error)
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*InstructorEarning, error)
	FindByPaymentID(ctx context.Context, db *gorm.DB, paymentID snowflake.ID) (*InstructorEarning, error)
	// Demote moves a not-yet-paid earning back to pending, reporting whether
	// a row changed. Paid earnings are never touched.
	Demote(ctx context.Context, db *gorm.DB, paymentID snowflake.ID) (bool, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]*InstructorEarning, error)
}
