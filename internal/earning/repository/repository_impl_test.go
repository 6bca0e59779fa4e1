package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/coursekit/eduledger/internal/earning/domain"
)

func setup(t *testing.T) (*gorm.DB, *snowflake.Node) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.InstructorEarning{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return db, node
}

func seed(t *testing.T, db *gorm.DB, node *snowflake.Node, mutate func(*domain.InstructorEarning)) *domain.InstructorEarning {
	t.Helper()
	e := &domain.InstructorEarning{
		ID:           node.Generate(),
		InstructorID: node.Generate(),
		PaymentID:    node.Generate(),
		CourseID:     node.Generate(),
		Amount:       70,
		Status:       domain.StatusAvailable,
		CreatedAt:    time.Now().UTC(),
	}
	if mutate != nil {
		mutate(e)
	}
	require.NoError(t, db.Create(e).Error)
	return e
}

func TestInsertUniquePerPayment(t *testing.T) {
	ctx := context.Background()
	db, node := setup(t)
	repo := Provide()

	paymentID := node.Generate()
	first := &domain.InstructorEarning{
		ID:           node.Generate(),
		InstructorID: node.Generate(),
		PaymentID:    paymentID,
		CourseID:     node.Generate(),
		Amount:       70,
		Status:       domain.StatusAvailable,
		CreatedAt:    time.Now().UTC(),
	}
	inserted, err := repo.Insert(ctx, db, first)
	require.NoError(t, err)
	assert.True(t, inserted)

	second := *first
	second.ID = node.Generate()
	inserted, err = repo.Insert(ctx, db, &second)
	require.NoError(t, err)
	assert.False(t, inserted)

	var count int64
	require.NoError(t, db.Model(&domain.InstructorEarning{}).Where("payment_id = ?", paymentID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDemoteSparesPaidEarnings(t *testing.T) {
	ctx := context.Background()
	db, node := setup(t)
	repo := Provide()

	available := seed(t, db, node, nil)
	changed, err := repo.Demote(ctx, db, available.PaymentID)
	require.NoError(t, err)
	assert.True(t, changed)

	found, err := repo.FindByPaymentID(ctx, db, available.PaymentID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, domain.StatusPending, found.Status)

	paid := seed(t, db, node, func(e *domain.InstructorEarning) {
		e.Status = domain.StatusPaid
	})
	changed, err = repo.Demote(ctx, db, paid.PaymentID)
	require.NoError(t, err)
	assert.False(t, changed)

	found, err = repo.FindByPaymentID(ctx, db, paid.PaymentID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, domain.StatusPaid, found.Status)
}

func TestListPagesNewestFirst(t *testing.T) {
	ctx := context.Background()
	db, node := setup(t)
	repo := Provide()

	instructorID := node.Generate()
	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		seed(t, db, node, func(e *domain.InstructorEarning) {
			e.InstructorID = instructorID
			e.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		})
	}
	// Another instructor's earning must not leak in.
	seed(t, db, node, nil)

	items, err := repo.List(ctx, db, domain.ListFilter{InstructorID: instructorID, Limit: 2})
	require.NoError(t, err)
	// Over-fetches one row beyond the limit for page detection.
	require.Len(t, items, 3)
	assert.True(t, items[0].CreatedAt.After(items[1].CreatedAt))

	cursor := &domain.Cursor{ID: items[1].ID, CreatedAt: items[1].CreatedAt}
	next, err := repo.List(ctx, db, domain.ListFilter{InstructorID: instructorID, Cursor: cursor, Limit: 2})
	require.NoError(t, err)
	require.Len(t, next, 1)
	assert.True(t, items[1].CreatedAt.After(next[0].CreatedAt))
}
