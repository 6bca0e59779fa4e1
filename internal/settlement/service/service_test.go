package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	affiliatedomain "github.com/coursekit/eduledger/internal/affiliate/domain"
	affiliaterepo "github.com/coursekit/eduledger/internal/affiliate/repository"
	auditdomain "github.com/coursekit/eduledger/internal/audit/domain"
	auditrepo "github.com/coursekit/eduledger/internal/audit/repository"
	auditservice "github.com/coursekit/eduledger/internal/audit/service"
	"github.com/coursekit/eduledger/internal/clock"
	"github.com/coursekit/eduledger/internal/config"
	discountdomain "github.com/coursekit/eduledger/internal/discount/domain"
	discountrepo "github.com/coursekit/eduledger/internal/discount/repository"
	"github.com/coursekit/eduledger/internal/dispatch"
	earningdomain "github.com/coursekit/eduledger/internal/earning/domain"
	earningrepo "github.com/coursekit/eduledger/internal/earning/repository"
	gatewaydomain "github.com/coursekit/eduledger/internal/gateway/domain"
	notificationdomain "github.com/coursekit/eduledger/internal/notification/domain"
	paymentdomain "github.com/coursekit/eduledger/internal/payment/domain"
	paymentrepo "github.com/coursekit/eduledger/internal/payment/repository"
	refunddomain "github.com/coursekit/eduledger/internal/refund/domain"
	refundrepo "github.com/coursekit/eduledger/internal/refund/repository"
	"github.com/coursekit/eduledger/internal/settlement/domain"
)

type fakeGateway struct {
	details gatewaydomain.SessionDetails
	err     error
	calls   int
}

func (g *fakeGateway) FetchSessionDetails(ctx context.Context, sessionRef string) (gatewaydomain.SessionDetails, error) {
	g.calls++
	if g.err != nil {
		return gatewaydomain.SessionDetails{}, g.err
	}
	return g.details, nil
}

type enrollmentCall struct {
	buyerID  snowflake.ID
	courseID snowflake.ID
}

type fakeEnrollments struct {
	node      *snowflake.Node
	created   []enrollmentCall
	removed   []enrollmentCall
	createErr error
	removeErr error
}

func (e *fakeEnrollments) CreateEnrollment(ctx context.Context, buyerID, courseID, sourceRef snowflake.ID) (snowflake.ID, error) {
	if e.createErr != nil {
		return 0, e.createErr
	}
	e.created = append(e.created, enrollmentCall{buyerID: buyerID, courseID: courseID})
	return e.node.Generate(), nil
}

func (e *fakeEnrollments) RemoveEnrollment(ctx context.Context, buyerID, courseID snowflake.ID) (bool, error) {
	if e.removeErr != nil {
		return false, e.removeErr
	}
	e.removed = append(e.removed, enrollmentCall{buyerID: buyerID, courseID: courseID})
	return true, nil
}

type fakeNotifier struct {
	events []notificationdomain.Event
	err    error
}

func (n *fakeNotifier) Notify(ctx context.Context, event notificationdomain.Event) error {
	if n.err != nil {
		return n.err
	}
	n.events = append(n.events, event)
	return nil
}

func (n *fakeNotifier) eventsOfType(t notificationdomain.EventType) []notificationdomain.Event {
	var out []notificationdomain.Event
	for _, e := range n.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type fakeDirectory struct {
	name string
	err  error
}

func (d *fakeDirectory) InstructorName(ctx context.Context, instructorID snowflake.ID) (string, error) {
	return d.name, d.err
}

// inlineRunner executes side-effect tasks synchronously so tests can
// assert on their results without sleeping.
type inlineRunner struct {
	executed []string
}

func (r *inlineRunner) Enqueue(task dispatch.Task) bool {
	r.executed = append(r.executed, task.Name)
	if task.Run != nil {
		_ = task.Run(context.Background())
	}
	return true
}

type fixture struct {
	db       *gorm.DB
	svc      domain.Service
	clk      *clock.FakeClock
	node     *snowflake.Node
	policy   *config.SettlementConfigHolder
	gateway  *fakeGateway
	enroll   *fakeEnrollments
	notifier *fakeNotifier
	runner   *inlineRunner
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&paymentdomain.Payment{},
		&refunddomain.Refund{},
		&earningdomain.InstructorEarning{},
		&affiliatedomain.AffiliatePayout{},
		&discountdomain.Record{},
		&auditdomain.AuditLog{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	log := zaptest.NewLogger(t)
	clk := clock.NewFakeClock(time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))
	policy := &config.SettlementConfigHolder{}
	policy.Set(config.DefaultSettlementConfig())

	gw := &fakeGateway{err: gatewaydomain.ErrSessionLookupFailed}
	enroll := &fakeEnrollments{node: node}
	notifier := &fakeNotifier{}
	runner := &inlineRunner{}

	audit := auditservice.New(auditservice.Params{
		Log:   log,
		DB:    db,
		Repo:  auditrepo.Provide(auditrepo.Params{}),
		GenID: node,
		Clock: clk,
	})

	svc := New(Params{
		Log:         log,
		DB:          db,
		Policy:      policy,
		Clock:       clk,
		GenID:       node,
		Payments:    paymentrepo.Provide(),
		Refunds:     refundrepo.Provide(),
		Earnings:    earningrepo.Provide(),
		Affiliates:  affiliaterepo.Provide(),
		Gateway:     gw,
		Enrollments: enroll,
		Notifier:    notifier,
		Discounts:   discountrepo.Provide(discountrepo.Params{DB: db}),
		Directory:   &fakeDirectory{name: "Ada Lovelace"},
		Audit:       audit,
		Runner:      runner,
		Metrics:     nil,
	})

	return &fixture{
		db:       db,
		svc:      svc,
		clk:      clk,
		node:     node,
		policy:   policy,
		gateway:  gw,
		enroll:   enroll,
		notifier: notifier,
		runner:   runner,
	}
}

func (f *fixture) seedPayment(t *testing.T, mutate func(*paymentdomain.Payment)) *paymentdomain.Payment {
	t.Helper()
	now := f.clk.Now()
	p := &paymentdomain.Payment{
		ID:            f.node.Generate(),
		BuyerID:       f.node.Generate(),
		CourseID:      f.node.Generate(),
		InstructorID:  f.node.Generate(),
		CourseTitle:   "Distributed Systems 101",
		Amount:        100,
		Currency:      "USD",
		Status:        paymentdomain.StatusPending,
		PaymentMethod: "card",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if mutate != nil {
		mutate(p)
	}
	require.NoError(t, f.db.Create(p).Error)
	return p
}

// seedCompletedPayment backdates completion so waiting-period gates can be
// exercised relative to the fake clock.
func (f *fixture) seedCompletedPayment(t *testing.T, completedAgo time.Duration) *paymentdomain.Payment {
	t.Helper()
	return f.seedPayment(t, func(p *paymentdomain.Payment) {
		paidAt := f.clk.Now().Add(-completedAgo)
		p.Status = paymentdomain.StatusCompleted
		p.PaidAt = &paidAt
	})
}

func (f *fixture) reloadPayment(t *testing.T, id snowflake.ID) *paymentdomain.Payment {
	t.Helper()
	var p paymentdomain.Payment
	require.NoError(t, f.db.First(&p, "id = ?", id).Error)
	return &p
}

func (f *fixture) auditActions(t *testing.T) []string {
	t.Helper()
	var actions []string
	require.NoError(t, f.db.Model(&auditdomain.AuditLog{}).Order("id").Pluck("action", &actions).Error)
	return actions
}

func TestUpdatePaymentStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("completes a pending payment", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedPayment(t, nil)

		summary, err := f.svc.UpdatePaymentStatus(ctx, domain.UpdatePaymentStatusRequest{
			PaymentID: p.ID,
			Status:    paymentdomain.StatusCompleted,
		})
		require.NoError(t, err)
		assert.Equal(t, paymentdomain.StatusCompleted, summary.Status)
		require.NotNil(t, summary.PaidAt)
		assert.Equal(t, f.clk.Now(), summary.PaidAt.UTC())

		stored := f.reloadPayment(t, p.ID)
		assert.Equal(t, paymentdomain.StatusCompleted, stored.Status)
		require.NotNil(t, stored.PaidAt)

		require.Len(t, f.enroll.created, 1)
		assert.Equal(t, p.BuyerID, f.enroll.created[0].buyerID)
		assert.Equal(t, p.CourseID, f.enroll.created[0].courseID)

		assert.Len(t, f.notifier.eventsOfType(notificationdomain.EventPaymentConfirmed), 1)
		assert.Len(t, f.notifier.eventsOfType(notificationdomain.EventPaymentReceived), 1)
		assert.Contains(t, f.auditActions(t), "payment.status_updated")
	})

	t.Run("fails a pending payment without side effects", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedPayment(t, nil)

		summary, err := f.svc.UpdatePaymentStatus(ctx, domain.UpdatePaymentStatusRequest{
			PaymentID: p.ID,
			Status:    paymentdomain.StatusFailed,
		})
		require.NoError(t, err)
		assert.Equal(t, paymentdomain.StatusFailed, summary.Status)
		assert.Nil(t, summary.PaidAt)
		assert.Empty(t, f.enroll.created)
		assert.Empty(t, f.notifier.events)
	})

	t.Run("rejects statuses outside completed/failed", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedPayment(t, nil)

		_, err := f.svc.UpdatePaymentStatus(ctx, domain.UpdatePaymentStatusRequest{
			PaymentID: p.ID,
			Status:    paymentdomain.StatusRefunded,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})

	t.Run("rejects non-pending payments naming the current status", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedCompletedPayment(t, time.Hour)

		_, err := f.svc.UpdatePaymentStatus(ctx, domain.UpdatePaymentStatusRequest{
			PaymentID: p.ID,
			Status:    paymentdomain.StatusCompleted,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
		assert.Contains(t, err.Error(), "completed")
	})

	t.Run("unknown payment", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.UpdatePaymentStatus(ctx, domain.UpdatePaymentStatusRequest{
			PaymentID: f.node.Generate(),
			Status:    paymentdomain.StatusCompleted,
		})
		assert.ErrorIs(t, err, domain.ErrPaymentNotFound)
	})

	t.Run("enrollment failure does not roll back the settlement", func(t *testing.T) {
		f := newFixture(t)
		f.enroll.createErr = errors.New("enrollment service down")
		p := f.seedPayment(t, nil)

		summary, err := f.svc.UpdatePaymentStatus(ctx, domain.UpdatePaymentStatusRequest{
			PaymentID: p.ID,
			Status:    paymentdomain.StatusCompleted,
		})
		require.NoError(t, err)
		assert.Equal(t, paymentdomain.StatusCompleted, summary.Status)
		assert.Equal(t, paymentdomain.StatusCompleted, f.reloadPayment(t, p.ID).Status)
	})
}

func TestPaidOutPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("releases the instructor share after the waiting period", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedCompletedPayment(t, 96*time.Hour)

		summary, err := f.svc.PaidOutPayment(ctx, domain.PaidOutPaymentRequest{PaymentID: p.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(70), summary.Amount)
		assert.Equal(t, domain.PriceBasePaymentAmount, summary.PriceBase)
		assert.Equal(t, p.InstructorID, summary.InstructorID)
		assert.Equal(t, "Ada Lovelace", summary.InstructorName)

		var earning earningdomain.InstructorEarning
		require.NoError(t, f.db.First(&earning, "payment_id = ?", p.ID).Error)
		assert.Equal(t, earningdomain.StatusAvailable, earning.Status)
		assert.Equal(t, int64(70), earning.Amount)

		stored := f.reloadPayment(t, p.ID)
		require.NotNil(t, stored.PaidOutAt)
		assert.Contains(t, f.auditActions(t), "payment.paid_out")
	})

	t.Run("second call reports already paid out and keeps one earning", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedCompletedPayment(t, 96*time.Hour)

		_, err := f.svc.PaidOutPayment(ctx, domain.PaidOutPaymentRequest{PaymentID: p.ID})
		require.NoError(t, err)

		_, err = f.svc.PaidOutPayment(ctx, domain.PaidOutPaymentRequest{PaymentID: p.ID})
		assert.ErrorIs(t, err, domain.ErrAlreadyPaidOut)

		var count int64
		require.NoError(t, f.db.Model(&earningdomain.InstructorEarning{}).Where("payment_id = ?", p.ID).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("waiting period not elapsed states hours remaining", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedCompletedPayment(t, time.Hour)

		_, err := f.svc.PaidOutPayment(ctx, domain.PaidOutPaymentRequest{PaymentID: p.ID})
		assert.ErrorIs(t, err, domain.ErrWindowNotElapsed)
		assert.Contains(t, err.Error(), "71 hours remaining")

		var windowErr *domain.WindowNotElapsedError
		require.ErrorAs(t, err, &windowErr)
		assert.Equal(t, 71*time.Hour, windowErr.Remaining)
	})

	t.Run("succeeds exactly at the boundary", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedCompletedPayment(t, 72*time.Hour)

		_, err := f.svc.PaidOutPayment(ctx, domain.PaidOutPaymentRequest{PaymentID: p.ID})
		assert.NoError(t, err)
	})

	t.Run("outstanding refund blocks the payout", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedCompletedPayment(t, 96*time.Hour)
		require.NoError(t, f.db.Create(&refunddomain.Refund{
			ID:          f.node.Generate(),
			PaymentID:   p.ID,
			Amount:      p.Amount,
			Status:      refunddomain.StatusPending,
			Reason:      "changed my mind",
			RequestedBy: p.BuyerID,
			RequestedAt: f.clk.Now(),
		}).Error)

		_, err := f.svc.PaidOutPayment(ctx, domain.PaidOutPaymentRequest{PaymentID: p.ID})
		assert.ErrorIs(t, err, domain.ErrRefundOutstanding)
	})

	t.Run("failed refund does not block the payout", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedCompletedPayment(t, 96*time.Hour)
		reason := "not eligible"
		require.NoError(t, f.db.Create(&refunddomain.Refund{
			ID:             f.node.Generate(),
			PaymentID:      p.ID,
			Amount:         p.Amount,
			Status:         refunddomain.StatusFailed,
			Reason:         "changed my mind",
			RejectedReason: &reason,
			RequestedBy:    p.BuyerID,
			RequestedAt:    f.clk.Now(),
		}).Error)

		_, err := f.svc.PaidOutPayment(ctx, domain.PaidOutPaymentRequest{PaymentID: p.ID})
		assert.NoError(t, err)
	})

	t.Run("uses the gateway original price when available", func(t *testing.T) {
		f := newFixture(t)
		original := int64(200)
		f.gateway.err = nil
		f.gateway.details = gatewaydomain.SessionDetails{OriginalPrice: &original}

		ref := "cs_test_123"
		p := f.seedPayment(t, func(p *paymentdomain.Payment) {
			paidAt := f.clk.Now().Add(-96 * time.Hour)
			p.Status = paymentdomain.StatusCompleted
			p.PaidAt = &paidAt
			p.GatewaySessionRef = &ref
		})

		summary, err := f.svc.PaidOutPayment(ctx, domain.PaidOutPaymentRequest{PaymentID: p.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(140), summary.Amount)
		assert.Equal(t, domain.PriceBaseGatewayOriginal, summary.PriceBase)
		assert.Equal(t, 1, f.gateway.calls)
	})

	t.Run("gateway failure falls back to the payment amount", func(t *testing.T) {
		f := newFixture(t)
		f.gateway.err = gatewaydomain.ErrSessionLookupFailed

		ref := "cs_test_456"
		p := f.seedPayment(t, func(p *paymentdomain.Payment) {
			paidAt := f.clk.Now().Add(-96 * time.Hour)
			p.Status = paymentdomain.StatusCompleted
			p.PaidAt = &paidAt
			p.GatewaySessionRef = &ref
		})

		summary, err := f.svc.PaidOutPayment(ctx, domain.PaidOutPaymentRequest{PaymentID: p.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(70), summary.Amount)
		assert.Equal(t, domain.PriceBasePaymentAmount, summary.PriceBase)
	})

	t.Run("referral discount usage produces an affiliate payout", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedCompletedPayment(t, 96*time.Hour)

		usage := &discountdomain.Record{
			ID:             f.node.Generate(),
			UserID:         p.BuyerID,
			CourseID:       p.CourseID,
			DiscountType:   discountdomain.TypeReferral,
			ReferrerID:     f.node.Generate(),
			DiscountAmount: 15,
			CreatedAt:      f.clk.Now(),
		}
		require.NoError(t, f.db.Create(usage).Error)

		_, err := f.svc.PaidOutPayment(ctx, domain.PaidOutPaymentRequest{PaymentID: p.ID})
		require.NoError(t, err)
		assert.Contains(t, f.runner.executed, "affiliate.payout")

		var payout affiliatedomain.AffiliatePayout
		require.NoError(t, f.db.First(&payout, "related_payment_id = ?", p.ID).Error)
		assert.Equal(t, usage.ID, payout.DiscountUsageID)
		assert.Equal(t, usage.ReferrerID, payout.ReferrerID)
		assert.Equal(t, int64(15), payout.CommissionAmount)
		assert.Equal(t, affiliatedomain.StatusPending, payout.Status)

		assert.Len(t, f.notifier.eventsOfType(notificationdomain.EventCommissionAvailable), 1)
	})

	t.Run("non-referral discount usage produces nothing", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedCompletedPayment(t, 96*time.Hour)
		require.NoError(t, f.db.Create(&discountdomain.Record{
			ID:             f.node.Generate(),
			UserID:         p.BuyerID,
			CourseID:       p.CourseID,
			DiscountType:   discountdomain.TypeCoupon,
			DiscountAmount: 15,
			CreatedAt:      f.clk.Now(),
		}).Error)

		_, err := f.svc.PaidOutPayment(ctx, domain.PaidOutPaymentRequest{PaymentID: p.ID})
		require.NoError(t, err)

		var count int64
		require.NoError(t, f.db.Model(&affiliatedomain.AffiliatePayout{}).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("pending payment cannot be paid out", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedPayment(t, nil)

		_, err := f.svc.PaidOutPayment(ctx, domain.PaidOutPaymentRequest{PaymentID: p.ID})
		assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	})

	t.Run("unknown payment", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.PaidOutPayment(ctx, domain.PaidOutPaymentRequest{PaymentID: f.node.Generate()})
		assert.ErrorIs(t, err, domain.ErrPaymentNotFound)
	})
}

func TestRequestRefund(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a pending refund inside the window", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedCompletedPayment(t, 48*time.Hour)

		summary, err := f.svc.RequestRefund(ctx, domain.RequestRefundRequest{
			CourseID:    p.CourseID,
			RequestedBy: p.BuyerID,
			Reason:      "course not as described",
		})
		require.NoError(t, err)
		assert.Equal(t, p.ID, summary.PaymentID)
		assert.Equal(t, p.Amount, summary.Amount)
		assert.Equal(t, refunddomain.StatusPending, summary.Status)

		events := f.notifier.eventsOfType(notificationdomain.EventRefundRequested)
		require.Len(t, events, 1)
		assert.Equal(t, p.InstructorID.String(), events[0].RecipientID)
		assert.Contains(t, f.auditActions(t), "refund.requested")
	})

	t.Run("window expired", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedCompletedPayment(t, 96*time.Hour)

		_, err := f.svc.RequestRefund(ctx, domain.RequestRefundRequest{
			CourseID:    p.CourseID,
			RequestedBy: p.BuyerID,
			Reason:      "too late",
		})
		assert.ErrorIs(t, err, domain.ErrRefundWindowExpired)
	})

	t.Run("duplicate refund conflicts", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedCompletedPayment(t, 24*time.Hour)

		_, err := f.svc.RequestRefund(ctx, domain.RequestRefundRequest{
			CourseID:    p.CourseID,
			RequestedBy: p.BuyerID,
			Reason:      "first",
		})
		require.NoError(t, err)

		_, err = f.svc.RequestRefund(ctx, domain.RequestRefundRequest{
			CourseID:    p.CourseID,
			RequestedBy: p.BuyerID,
			Reason:      "second",
		})
		assert.ErrorIs(t, err, domain.ErrRefundConflict)
	})

	t.Run("paid earning blocks the refund", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedCompletedPayment(t, 24*time.Hour)
		require.NoError(t, f.db.Create(&earningdomain.InstructorEarning{
			ID:           f.node.Generate(),
			InstructorID: p.InstructorID,
			PaymentID:    p.ID,
			CourseID:     p.CourseID,
			Amount:       70,
			Status:       earningdomain.StatusPaid,
			CreatedAt:    f.clk.Now(),
		}).Error)

		_, err := f.svc.RequestRefund(ctx, domain.RequestRefundRequest{
			CourseID:    p.CourseID,
			RequestedBy: p.BuyerID,
			Reason:      "after payout",
		})
		assert.ErrorIs(t, err, domain.ErrAlreadyPaidOut)
	})

	t.Run("no completed purchase for the course", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedPayment(t, nil) // still pending

		_, err := f.svc.RequestRefund(ctx, domain.RequestRefundRequest{
			CourseID:    p.CourseID,
			RequestedBy: p.BuyerID,
			Reason:      "never completed",
		})
		assert.ErrorIs(t, err, domain.ErrPaymentNotFound)
	})
}

func TestUpdateRefundStatus(t *testing.T) {
	ctx := context.Background()

	seedRefund := func(t *testing.T, f *fixture, p *paymentdomain.Payment) *refunddomain.Refund {
		t.Helper()
		r := &refunddomain.Refund{
			ID:          f.node.Generate(),
			PaymentID:   p.ID,
			Amount:      p.Amount,
			Status:      refunddomain.StatusPending,
			Reason:      "changed my mind",
			RequestedBy: p.BuyerID,
			RequestedAt: f.clk.Now(),
		}
		require.NoError(t, f.db.Create(r).Error)
		return r
	}

	for _, scope := range []domain.ActorScope{domain.ActorAdmin, domain.ActorInstructor} {
		scope := scope
		t.Run(fmt.Sprintf("completion runs full side effects for %s scope", scope), func(t *testing.T) {
			f := newFixture(t)
			p := f.seedCompletedPayment(t, 24*time.Hour)
			require.NoError(t, f.db.Create(&earningdomain.InstructorEarning{
				ID:           f.node.Generate(),
				InstructorID: p.InstructorID,
				PaymentID:    p.ID,
				CourseID:     p.CourseID,
				Amount:       70,
				Status:       earningdomain.StatusAvailable,
				CreatedAt:    f.clk.Now(),
			}).Error)
			r := seedRefund(t, f, p)

			summary, err := f.svc.UpdateRefundStatus(ctx, domain.UpdateRefundStatusRequest{
				RefundID:   r.ID,
				Status:     refunddomain.StatusCompleted,
				ActorScope: scope,
				ActorID:    f.node.Generate(),
			})
			require.NoError(t, err)
			assert.Equal(t, refunddomain.StatusCompleted, summary.Status)
			require.NotNil(t, summary.ProcessedAt)

			var earning earningdomain.InstructorEarning
			require.NoError(t, f.db.First(&earning, "payment_id = ?", p.ID).Error)
			assert.Equal(t, earningdomain.StatusPending, earning.Status)

			assert.Equal(t, paymentdomain.StatusRefunded, f.reloadPayment(t, p.ID).Status)

			require.Len(t, f.enroll.removed, 1)
			assert.Equal(t, p.BuyerID, f.enroll.removed[0].buyerID)

			assert.Len(t, f.notifier.eventsOfType(notificationdomain.EventRefundResolved), 1)
			assert.Contains(t, f.auditActions(t), "refund.resolved")
		})
	}

	t.Run("failing requires a rejection reason", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedCompletedPayment(t, 24*time.Hour)
		r := seedRefund(t, f, p)

		_, err := f.svc.UpdateRefundStatus(ctx, domain.UpdateRefundStatusRequest{
			RefundID:   r.ID,
			Status:     refunddomain.StatusFailed,
			ActorScope: domain.ActorAdmin,
			ActorID:    f.node.Generate(),
		})
		assert.ErrorIs(t, err, domain.ErrRejectedReasonRequired)
	})

	t.Run("failing keeps the payment completed", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedCompletedPayment(t, 24*time.Hour)
		r := seedRefund(t, f, p)

		reason := "outside policy"
		summary, err := f.svc.UpdateRefundStatus(ctx, domain.UpdateRefundStatusRequest{
			RefundID:       r.ID,
			Status:         refunddomain.StatusFailed,
			RejectedReason: &reason,
			ActorScope:     domain.ActorAdmin,
			ActorID:        f.node.Generate(),
		})
		require.NoError(t, err)
		assert.Equal(t, refunddomain.StatusFailed, summary.Status)
		require.NotNil(t, summary.RejectedReason)
		assert.Equal(t, reason, *summary.RejectedReason)

		assert.Equal(t, paymentdomain.StatusCompleted, f.reloadPayment(t, p.ID).Status)
		assert.Empty(t, f.enroll.removed)
	})

	t.Run("second resolution is an invalid transition", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedCompletedPayment(t, 24*time.Hour)
		r := seedRefund(t, f, p)

		_, err := f.svc.UpdateRefundStatus(ctx, domain.UpdateRefundStatusRequest{
			RefundID:   r.ID,
			Status:     refunddomain.StatusCompleted,
			ActorScope: domain.ActorInstructor,
			ActorID:    f.node.Generate(),
		})
		require.NoError(t, err)

		_, err = f.svc.UpdateRefundStatus(ctx, domain.UpdateRefundStatusRequest{
			RefundID:   r.ID,
			Status:     refunddomain.StatusCompleted,
			ActorScope: domain.ActorInstructor,
			ActorID:    f.node.Generate(),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	})

	t.Run("paid earning can never be clawed back", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedCompletedPayment(t, 24*time.Hour)
		require.NoError(t, f.db.Create(&earningdomain.InstructorEarning{
			ID:           f.node.Generate(),
			InstructorID: p.InstructorID,
			PaymentID:    p.ID,
			CourseID:     p.CourseID,
			Amount:       70,
			Status:       earningdomain.StatusPaid,
			CreatedAt:    f.clk.Now(),
		}).Error)
		r := seedRefund(t, f, p)

		_, err := f.svc.UpdateRefundStatus(ctx, domain.UpdateRefundStatusRequest{
			RefundID:   r.ID,
			Status:     refunddomain.StatusCompleted,
			ActorScope: domain.ActorAdmin,
			ActorID:    f.node.Generate(),
		})
		assert.ErrorIs(t, err, domain.ErrAlreadyPaidOut)
	})

	t.Run("rejects unknown refund", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.UpdateRefundStatus(ctx, domain.UpdateRefundStatusRequest{
			RefundID:   f.node.Generate(),
			Status:     refunddomain.StatusCompleted,
			ActorScope: domain.ActorAdmin,
			ActorID:    f.node.Generate(),
		})
		assert.ErrorIs(t, err, domain.ErrRefundNotFound)
	})

	t.Run("rejects pending as a target status", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedCompletedPayment(t, 24*time.Hour)
		r := seedRefund(t, f, p)

		_, err := f.svc.UpdateRefundStatus(ctx, domain.UpdateRefundStatusRequest{
			RefundID:   r.ID,
			Status:     refunddomain.StatusPending,
			ActorScope: domain.ActorAdmin,
			ActorID:    f.node.Generate(),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})
}

func TestDetailViews(t *testing.T) {
	ctx := context.Background()

	t.Run("payment detail carries gateway enrichment", func(t *testing.T) {
		f := newFixture(t)
		price := int64(250)
		f.gateway.err = nil
		f.gateway.details = gatewaydomain.SessionDetails{
			TransactionID: "pi_123",
			ReceiptURL:    "https://pay.example.com/receipts/pi_123",
			CardBrand:     "visa",
			CardLast4:     "4242",
			CardExpMonth:  12,
			CardExpYear:   2028,
			OriginalPrice: &price,
		}

		ref := "cs_detail_1"
		p := f.seedPayment(t, func(p *paymentdomain.Payment) {
			p.GatewaySessionRef = &ref
		})

		detail, err := f.svc.GetPayment(ctx, p.ID)
		require.NoError(t, err)
		assert.True(t, detail.Gateway.Available)
		assert.Equal(t, "pi_123", detail.Gateway.TransactionID)
		assert.Equal(t, "4242", detail.Gateway.CardLast4)
	})

	t.Run("gateway failure degrades to the basic view", func(t *testing.T) {
		f := newFixture(t)
		f.gateway.err = errors.New("gateway timeout")

		ref := "cs_detail_2"
		p := f.seedPayment(t, func(p *paymentdomain.Payment) {
			p.GatewaySessionRef = &ref
		})

		detail, err := f.svc.GetPayment(ctx, p.ID)
		require.NoError(t, err)
		assert.False(t, detail.Gateway.Available)
		assert.Equal(t, p.ID, detail.ID)
	})

	t.Run("no session ref skips the gateway entirely", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedPayment(t, nil)

		detail, err := f.svc.GetPayment(ctx, p.ID)
		require.NoError(t, err)
		assert.False(t, detail.Gateway.Available)
		assert.Zero(t, f.gateway.calls)
	})

	t.Run("refund detail resolves the payment session", func(t *testing.T) {
		f := newFixture(t)
		f.gateway.err = nil
		f.gateway.details = gatewaydomain.SessionDetails{TransactionID: "pi_refund"}

		ref := "cs_detail_3"
		p := f.seedPayment(t, func(p *paymentdomain.Payment) {
			paidAt := f.clk.Now().Add(-time.Hour)
			p.Status = paymentdomain.StatusCompleted
			p.PaidAt = &paidAt
			p.GatewaySessionRef = &ref
		})
		r := &refunddomain.Refund{
			ID:          f.node.Generate(),
			PaymentID:   p.ID,
			Amount:      p.Amount,
			Status:      refunddomain.StatusPending,
			Reason:      "test",
			RequestedBy: p.BuyerID,
			RequestedAt: f.clk.Now(),
		}
		require.NoError(t, f.db.Create(r).Error)

		detail, err := f.svc.GetRefund(ctx, r.ID)
		require.NoError(t, err)
		assert.True(t, detail.Gateway.Available)
		assert.Equal(t, "pi_refund", detail.Gateway.TransactionID)
	})

	t.Run("unknown ids", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.GetPayment(ctx, f.node.Generate())
		assert.ErrorIs(t, err, domain.ErrPaymentNotFound)
		_, err = f.svc.GetRefund(ctx, f.node.Generate())
		assert.ErrorIs(t, err, domain.ErrRefundNotFound)
		_, err = f.svc.GetEarning(ctx, f.node.Generate())
		assert.ErrorIs(t, err, domain.ErrEarningNotFound)
	})
}

func TestListEarnings(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	instructorID := f.node.Generate()
	base := f.clk.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		require.NoError(t, f.db.Create(&earningdomain.InstructorEarning{
			ID:           f.node.Generate(),
			InstructorID: instructorID,
			PaymentID:    f.node.Generate(),
			CourseID:     f.node.Generate(),
			Amount:       int64(10 * (i + 1)),
			Status:       earningdomain.StatusAvailable,
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}).Error)
	}

	req := domain.ListEarningsRequest{InstructorID: instructorID}
	req.PageSize = 2

	first, err := f.svc.ListEarnings(ctx, req)
	require.NoError(t, err)
	require.Len(t, first.Earnings, 2)
	assert.True(t, first.HasMore)
	require.NotEmpty(t, first.NextPageToken)
	// Newest first.
	assert.True(t, first.Earnings[0].CreatedAt.After(first.Earnings[1].CreatedAt))

	req.PageToken = first.NextPageToken
	second, err := f.svc.ListEarnings(ctx, req)
	require.NoError(t, err)
	require.Len(t, second.Earnings, 2)
	assert.True(t, second.HasMore)
	assert.True(t, first.Earnings[1].CreatedAt.After(second.Earnings[0].CreatedAt))

	req.PageToken = second.NextPageToken
	third, err := f.svc.ListEarnings(ctx, req)
	require.NoError(t, err)
	require.Len(t, third.Earnings, 1)
	assert.False(t, third.HasMore)

	t.Run("bad page token", func(t *testing.T) {
		bad := domain.ListEarningsRequest{InstructorID: instructorID}
		bad.PageToken = "not-base64!"
		_, err := f.svc.ListEarnings(ctx, bad)
		assert.ErrorIs(t, err, domain.ErrInvalidPageToken)
	})
}

func TestEarningAmountRounding(t *testing.T) {
	cases := []struct {
		base int64
		rate float64
		want int64
	}{
		{100, 0.30, 70},
		{99, 0.30, 69},  // 69.3 rounds down
		{95, 0.30, 67},  // 66.5 rounds up
		{1, 0.30, 1},    // 0.7 rounds up
		{100, 0, 100},
		{12345, 0.30, 8642}, // 8641.5 rounds up
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, earningAmount(tc.base, tc.rate), "base=%d rate=%v", tc.base, tc.rate)
	}
}
