package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/coursekit/eduledger/internal/affiliate/domain"
	pkgdb "github.com/coursekit/eduledger/pkg/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, payout *domain.AffiliatePayout) (bool, error) {
	res := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "discount_usage_id"}},
		DoNothing: true,
	}).Create(payout)
	if res.Error != nil {
		if pkgdb.IsDuplicateKeyErr(res.Error) {
			return false, nil
		}
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) FindByPaymentID(ctx context.Context, db *gorm.DB, paymentID snowflake.ID) (*domain.AffiliatePayout, error) {
	var item domain.AffiliatePayout
	err := db.WithContext(ctx).Raw(
		`SELECT id, discount_usage_id, referrer_id, commission_amount,
			related_payment_id, status, created_at
		 FROM affiliate_payouts
		 WHERE related_payment_id = ?
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
