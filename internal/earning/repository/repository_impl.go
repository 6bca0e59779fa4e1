package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/coursekit/eduledger/internal/earning/domain"
	pkgdb "github.com/coursekit/eduledger/pkg/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, earning *domain.InstructorEarning) (bool, error) {
	res := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "payment_id"}},
		DoNothing: true,
	}).Create(earning)
	if res.Error != nil {
		if pkgdb.IsDuplicateKeyErr(res.Error) {
			return false, nil
		}
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.InstructorEarning, error) {
	var item domain.InstructorEarning
	err := db.WithContext(ctx).Raw(
		`SELECT id, instructor_id, payment_id, course_id, amount, status, paid_at, created_at
		 FROM instructor_earnings
		 WHERE id = ?
		 LIMIT 1`,
		id,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) FindByPaymentID(ctx context.Context, db *gorm.DB, paymentID snowflake.ID) (*domain.InstructorEarning, error) {
	var item domain.InstructorEarning
	err := db.WithContext(ctx).Raw(
		`SELECT id, instructor_id, payment_id, course_id, amount, status, paid_at, created_at
		 FROM instructor_earnings
		 WHERE payment_id = ?
		 LIMIT 1`,
		paymentID,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) Demote(ctx context.Context, db *gorm.DB, paymentID snowflake.ID) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE instructor_earnings
		 SET status = ?
		 WHERE payment_id = ? AND status <> ?`,
		domain.StatusPending,
		paymentID,
		domain.StatusPaid,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]*domain.InstructorEarning, error) {
	query := db.WithContext(ctx).
		Model(&domain.InstructorEarning{}).
		Where("instructor_id = ?", filter.InstructorID)

	if filter.Cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			filter.Cursor.CreatedAt,
			filter.Cursor.CreatedAt,
			filter.Cursor.ID,
		)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	var items []*domain.InstructorEarning
	// Over-fetch one row so the caller can detect another page.
	if err := query.Order("created_at DESC, id DESC").Limit(limit + 1).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
