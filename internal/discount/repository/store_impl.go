package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/coursekit/eduledger/internal/discount/domain"
)

type store struct {
	db *gorm.DB
}

type Params struct {
	fx.In

	DB *gorm.DB
}

func Provide(p Params) domain.Store {
	return &store{db: p.DB}
}

func (s *store) FindUsagesFor(ctx context.Context, buyerID, courseID snowflake.ID) ([]domain.Usage, error) {
	var records []domain.Record
	if err := s.db.WithContext(ctx).
		Raw(`SELECT * FROM discount_usages WHERE user_id = ? AND course_id = ? ORDER BY created_at ASC`, buyerID, courseID).
		Scan(&records).Error; err != nil {
		return nil, err
	}

	usages := make([]domain.Usage, 0, len(records))
	for i := range records {
		usages = append(usages, records[i].Usage())
	}
	return usages, nil
}
