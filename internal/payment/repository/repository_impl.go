package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/coursekit/eduledger/internal/payment/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, payment *domain.Payment) error {
	return db.WithContext(ctx).Create(payment).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Payment, error) {
	var item domain.Payment
	err := db.WithContext(ctx).Raw(
		`SELECT id, buyer_id, course_id, instructor_id, course_title, amount, currency,
			status, payment_method, gateway_session_ref, paid_at, paid_out_at,
			created_at, updated_at
		 FROM payments
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

func (r *repo) FindCompletedByBuyerAndCourse(ctx context.Context, db *gorm.DB, buyerID, courseID snowflake.ID) (*domain.Payment, error) {
	var item domain.Payment
	err := db.WithContext(ctx).Raw(
		`SELECT id, buyer_id, course_id, instructor_id, course_title, amount, currency,
			status, payment_method, gateway_session_ref, paid_at, paid_out_at,
			created_at, updated_at
		 FROM payments
		 WHERE buyer_id = ? AND course_id = ? AND status = ?
		 ORDER BY paid_at DESC
		 LIMIT 1`,
		buyerID,
		courseID,
		domain.StatusCompleted,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) TransitionStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, from, to domain.Status, paidAt *time.Time, now time.Time) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE payments
		 SET status = ?, paid_at = COALESCE(?, paid_at), updated_at = ?
		 WHERE id = ? AND status = ?`,
		to,
		paidAt,
		now,
		id,
		from,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) MarkPaidOut(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE payments
		 SET paid_out_at = ?, updated_at = ?
		 WHERE id = ? AND status = ? AND paid_out_at IS NULL`,
		at,
		at,
		id,
		domain.StatusCompleted,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
