package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	affiliatedomain "github.com/coursekit/eduledger/internal/affiliate/domain"
	auditdomain "github.com/coursekit/eduledger/internal/audit/domain"
	"github.com/coursekit/eduledger/internal/clock"
	"github.com/coursekit/eduledger/internal/config"
	discountdomain "github.com/coursekit/eduledger/internal/discount/domain"
	"github.com/coursekit/eduledger/internal/dispatch"
	earningdomain "github.com/coursekit/eduledger/internal/earning/domain"
	enrollmentdomain "github.com/coursekit/eduledger/internal/enrollment/domain"
	gatewaydomain "github.com/coursekit/eduledger/internal/gateway/domain"
	identitydomain "github.com/coursekit/eduledger/internal/identity/domain"
	notificationdomain "github.com/coursekit/eduledger/internal/notification/domain"
	"github.com/coursekit/eduledger/internal/observability/metrics"
	paymentdomain "github.com/coursekit/eduledger/internal/payment/domain"
	refunddomain "github.com/coursekit/eduledger/internal/refund/domain"
	"github.com/coursekit/eduledger/internal/settlement/domain"
	"github.com/coursekit/eduledger/pkg/db/pagination"
)

type Params struct {
	fx.In

	Log         *zap.Logger
	DB          *gorm.DB
	Policy      *config.SettlementConfigHolder
	Clock       clock.Clock
	GenID       *snowflake.Node
	Payments    paymentdomain.Repository
	Refunds     refunddomain.Repository
	Earnings    earningdomain.Repository
	Affiliates  affiliatedomain.Repository
	Gateway     gatewaydomain.Client
	Enrollments enrollmentdomain.Provider
	Notifier    notificationdomain.Dispatcher
	Discounts   discountdomain.Store
	Directory   identitydomain.Directory
	Audit       auditdomain.Service
	Runner      dispatch.Runner
	Metrics     *metrics.Metrics
}

type service struct {
	log         *zap.Logger
	db          *gorm.DB
	policy      *config.SettlementConfigHolder
	clock       clock.Clock
	genID       *snowflake.Node
	payments    paymentdomain.Repository
	refunds     refunddomain.Repository
	earnings    earningdomain.Repository
	affiliates  affiliatedomain.Repository
	gateway     gatewaydomain.Client
	enrollments enrollmentdomain.Provider
	notifier    notificationdomain.Dispatcher
	discounts   discountdomain.Store
	directory   identitydomain.Directory
	audit       auditdomain.Service
	runner      dispatch.Runner
	metrics     *metrics.Metrics
}

func New(p Params) domain.Service {
	return &service{
		log:         p.Log.Named("settlement.service"),
		db:          p.DB,
		policy:      p.Policy,
		clock:       p.Clock,
		genID:       p.GenID,
		payments:    p.Payments,
		refunds:     p.Refunds,
		earnings:    p.Earnings,
		affiliates:  p.Affiliates,
		gateway:     p.Gateway,
		enrollments: p.Enrollments,
		notifier:    p.Notifier,
		discounts:   p.Discounts,
		directory:   p.Directory,
		audit:       p.Audit,
		runner:      p.Runner,
		metrics:     p.Metrics,
	}
}

// UpdatePaymentStatus settles a pending payment as completed or failed.
// Enrollment provisioning runs inside the transaction but is allowed to
// fail without rolling back the transition; an orphaned enrollment is
// repairable, a lost settlement is not.
func (s *service) UpdatePaymentStatus(ctx context.Context, req domain.UpdatePaymentStatusRequest) (domain.PaymentSummary, error) {
	if req.Status != paymentdomain.StatusCompleted && req.Status != paymentdomain.StatusFailed {
		return domain.PaymentSummary{}, domain.ErrInvalidStatus
	}

	now := s.clock.Now()
	var payment *paymentdomain.Payment

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := s.payments.FindByID(ctx, tx, req.PaymentID)
		if err != nil {
			return err
		}
		if found == nil {
			return domain.ErrPaymentNotFound
		}
		if found.Status != paymentdomain.StatusPending {
			return &domain.InvalidStateTransitionError{Entity: "payment", Current: string(found.Status)}
		}

		var paidAt *time.Time
		if req.Status == paymentdomain.StatusCompleted {
			paidAt = &now
		}

		changed, err := s.payments.TransitionStatus(ctx, tx, found.ID, paymentdomain.StatusPending, req.Status, paidAt, now)
		if err != nil {
			return err
		}
		if !changed {
			return &domain.InvalidStateTransitionError{Entity: "payment", Current: string(found.Status)}
		}

		found.Status = req.Status
		found.PaidAt = paidAt
		found.UpdatedAt = now

		if req.Status == paymentdomain.StatusCompleted {
			if _, err := s.enrollments.CreateEnrollment(ctx, found.BuyerID, found.CourseID, found.ID); err != nil {
				s.log.Warn("enrollment provisioning failed, settlement kept",
					zap.Int64("payment_id", int64(found.ID)),
					zap.Int64("buyer_id", int64(found.BuyerID)),
					zap.Int64("course_id", int64(found.CourseID)),
					zap.Error(err),
				)
			}
		}

		payment = found
		return nil
	})
	if err != nil {
		return domain.PaymentSummary{}, err
	}

	s.metrics.RecordPaymentSettled(ctx, string(payment.Status))
	s.audit.Record(ctx, string(domain.ActorSystem), nil, "payment.status_updated", "payment", targetID(payment.ID), map[string]any{
		"from": string(paymentdomain.StatusPending),
		"to":   string(payment.Status),
	})

	if payment.Status == paymentdomain.StatusCompleted {
		s.enqueueNotify(fmt.Sprintf("payment-confirmed:%d", payment.ID), notificationdomain.Event{
			Type:        notificationdomain.EventPaymentConfirmed,
			RecipientID: payment.BuyerID.String(),
			Payload: map[string]any{
				"payment_id":   payment.ID.String(),
				"course_title": payment.CourseTitle,
				"amount":       payment.Amount,
				"currency":     payment.Currency,
			},
		})
		s.enqueueNotify(fmt.Sprintf("payment-received:%d", payment.ID), notificationdomain.Event{
			Type: notificationdomain.EventPaymentReceived,
			Payload: map[string]any{
				"payment_id":   payment.ID.String(),
				"course_title": payment.CourseTitle,
				"amount":       payment.Amount,
				"currency":     payment.Currency,
			},
		})
	}

	return paymentSummary(payment), nil
}

// PaidOutPayment releases an instructor's share of a completed payment.
// The gateway original-price lookup happens before the ledger transaction
// so a slow gateway can never hold a row lock; the unique index on
// instructor_earnings.payment_id is the authoritative race-breaker.
func (s *service) PaidOutPayment(ctx context.Context, req domain.PaidOutPaymentRequest) (domain.PayoutSummary, error) {
	policy := s.policy.Get()
	now := s.clock.Now()

	payment, err := s.payments.FindByID(ctx, s.db, req.PaymentID)
	if err != nil {
		return domain.PayoutSummary{}, err
	}
	if payment == nil {
		return domain.PayoutSummary{}, domain.ErrPaymentNotFound
	}
	if payment.Status != paymentdomain.StatusCompleted {
		return domain.PayoutSummary{}, &domain.InvalidStateTransitionError{Entity: "payment", Current: string(payment.Status)}
	}
	if payment.PaidOutAt != nil {
		return domain.PayoutSummary{}, domain.ErrAlreadyPaidOut
	}
	if payment.PaidAt == nil {
		return domain.PayoutSummary{}, &domain.InvalidStateTransitionError{Entity: "payment", Current: string(payment.Status)}
	}
	if elapsed := now.Sub(*payment.PaidAt); elapsed < policy.PayoutWaitingPeriod {
		return domain.PayoutSummary{}, &domain.WindowNotElapsedError{Remaining: policy.PayoutWaitingPeriod - elapsed}
	}

	base := payment.Amount
	priceBase := domain.PriceBasePaymentAmount
	if ref := payment.SessionRef(); ref != "" {
		if original, ok := s.fetchOriginalPrice(ctx, ref, policy.GatewayTimeout); ok {
			base = original
			priceBase = domain.PriceBaseGatewayOriginal
		}
	}

	earning := &earningdomain.InstructorEarning{
		ID:           s.genID.Generate(),
		InstructorID: payment.InstructorID,
		PaymentID:    payment.ID,
		CourseID:     payment.CourseID,
		Amount:       earningAmount(base, policy.PlatformFeeRate),
		Status:       earningdomain.StatusAvailable,
		CreatedAt:    now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		refund, err := s.refunds.FindByPaymentID(ctx, tx, payment.ID)
		if err != nil {
			return err
		}
		if refund.Outstanding() {
			return domain.ErrRefundOutstanding
		}

		existing, err := s.earnings.FindByPaymentID(ctx, tx, payment.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrAlreadyPaidOut
		}

		inserted, err := s.earnings.Insert(ctx, tx, earning)
		if err != nil {
			return err
		}
		if !inserted {
			return domain.ErrAlreadyPaidOut
		}

		changed, err := s.payments.MarkPaidOut(ctx, tx, payment.ID, now)
		if err != nil {
			return err
		}
		if !changed {
			return domain.ErrAlreadyPaidOut
		}
		return nil
	})
	if err != nil {
		return domain.PayoutSummary{}, err
	}

	s.metrics.RecordPayoutReleased(ctx, string(priceBase))
	s.audit.Record(ctx, string(domain.ActorSystem), nil, "payment.paid_out", "payment", targetID(payment.ID), map[string]any{
		"earning_id": earning.ID.String(),
		"amount":     earning.Amount,
		"price_base": string(priceBase),
	})
	s.enqueueAffiliatePayout(payment, policy.PlatformFeeRate)

	summary := domain.PayoutSummary{
		PaymentID:    payment.ID,
		EarningID:    earning.ID,
		InstructorID: payment.InstructorID,
		Amount:       earning.Amount,
		PriceBase:    priceBase,
		PaidOutAt:    now,
	}
	if name, err := s.directory.InstructorName(ctx, payment.InstructorID); err != nil {
		s.log.Warn("instructor name lookup failed",
			zap.Int64("instructor_id", int64(payment.InstructorID)),
			zap.Error(err),
		)
	} else {
		summary.InstructorName = name
	}
	return summary, nil
}

// RequestRefund opens a pending refund for the requester's completed
// purchase of the course.
func (s *service) RequestRefund(ctx context.Context, req domain.RequestRefundRequest) (domain.RefundSummary, error) {
	policy := s.policy.Get()
	now := s.clock.Now()

	var (
		refund  *refunddomain.Refund
		payment *paymentdomain.Payment
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := s.payments.FindCompletedByBuyerAndCourse(ctx, tx, req.RequestedBy, req.CourseID)
		if err != nil {
			return err
		}
		if found == nil {
			return domain.ErrPaymentNotFound
		}
		if found.PaidAt == nil {
			return &domain.InvalidStateTransitionError{Entity: "payment", Current: string(found.Status)}
		}
		if now.Sub(*found.PaidAt) > policy.RefundWindow {
			return domain.ErrRefundWindowExpired
		}

		earning, err := s.earnings.FindByPaymentID(ctx, tx, found.ID)
		if err != nil {
			return err
		}
		if earning != nil && earning.Status == earningdomain.StatusPaid {
			return domain.ErrAlreadyPaidOut
		}

		created := &refunddomain.Refund{
			ID:          s.genID.Generate(),
			PaymentID:   found.ID,
			Amount:      found.Amount,
			Status:      refunddomain.StatusPending,
			Reason:      req.Reason,
			RequestedBy: req.RequestedBy,
			RequestedAt: now,
		}
		inserted, err := s.refunds.Insert(ctx, tx, created)
		if err != nil {
			return err
		}
		if !inserted {
			return domain.ErrRefundConflict
		}

		refund = created
		payment = found
		return nil
	})
	if err != nil {
		return domain.RefundSummary{}, err
	}

	s.metrics.RecordRefundRequested(ctx)
	s.audit.Record(ctx, string(domain.ActorSystem), nil, "refund.requested", "refund", targetID(refund.ID), map[string]any{
		"payment_id": refund.PaymentID.String(),
		"amount":     refund.Amount,
	})
	s.enqueueNotify(fmt.Sprintf("refund-requested:%d", refund.ID), notificationdomain.Event{
		Type:        notificationdomain.EventRefundRequested,
		RecipientID: payment.InstructorID.String(),
		Payload: map[string]any{
			"refund_id":    refund.ID.String(),
			"payment_id":   refund.PaymentID.String(),
			"course_title": payment.CourseTitle,
			"amount":       refund.Amount,
			"reason":       refund.Reason,
		},
	})

	return refundSummary(refund), nil
}

// UpdateRefundStatus resolves a pending refund as completed or failed.
// Admin and instructor scopes run the same state machine and the same
// side effects; the scope only feeds the audit trail. A paid earning can
// never be clawed back through this path.
func (s *service) UpdateRefundStatus(ctx context.Context, req domain.UpdateRefundStatusRequest) (domain.RefundSummary, error) {
	if req.Status != refunddomain.StatusCompleted && req.Status != refunddomain.StatusFailed {
		return domain.RefundSummary{}, domain.ErrInvalidStatus
	}
	if !req.ActorScope.Valid() {
		return domain.RefundSummary{}, domain.ErrInvalidStatus
	}
	if req.Status == refunddomain.StatusFailed && (req.RejectedReason == nil || *req.RejectedReason == "") {
		return domain.RefundSummary{}, domain.ErrRejectedReasonRequired
	}

	now := s.clock.Now()

	var (
		refund  *refunddomain.Refund
		payment *paymentdomain.Payment
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := s.refunds.FindByID(ctx, tx, req.RefundID)
		if err != nil {
			return err
		}
		if found == nil {
			return domain.ErrRefundNotFound
		}
		if found.Status != refunddomain.StatusPending {
			return &domain.InvalidStateTransitionError{Entity: "refund", Current: string(found.Status)}
		}

		related, err := s.payments.FindByID(ctx, tx, found.PaymentID)
		if err != nil {
			return err
		}
		if related == nil {
			return domain.ErrPaymentNotFound
		}

		earning, err := s.earnings.FindByPaymentID(ctx, tx, found.PaymentID)
		if err != nil {
			return err
		}
		if earning != nil && earning.Status == earningdomain.StatusPaid {
			return domain.ErrAlreadyPaidOut
		}

		changed, err := s.refunds.Transition(ctx, tx, found.ID, req.Status, req.RejectedReason, now)
		if err != nil {
			return err
		}
		if !changed {
			return &domain.InvalidStateTransitionError{Entity: "refund", Current: string(found.Status)}
		}

		if req.Status == refunddomain.StatusCompleted {
			if earning != nil {
				if _, err := s.earnings.Demote(ctx, tx, found.PaymentID); err != nil {
					return err
				}
			}
			refunded, err := s.payments.TransitionStatus(ctx, tx, related.ID, paymentdomain.StatusCompleted, paymentdomain.StatusRefunded, nil, now)
			if err != nil {
				return err
			}
			if !refunded {
				return &domain.InvalidStateTransitionError{Entity: "payment", Current: string(related.Status)}
			}
			related.Status = paymentdomain.StatusRefunded
		}

		found.Status = req.Status
		found.RejectedReason = req.RejectedReason
		found.ProcessedAt = &now

		refund = found
		payment = related
		return nil
	})
	if err != nil {
		return domain.RefundSummary{}, err
	}

	if refund.Status == refunddomain.StatusCompleted {
		if _, err := s.enrollments.RemoveEnrollment(ctx, payment.BuyerID, payment.CourseID); err != nil {
			s.log.Warn("enrollment removal failed, refund kept",
				zap.Int64("payment_id", int64(payment.ID)),
				zap.Int64("buyer_id", int64(payment.BuyerID)),
				zap.Int64("course_id", int64(payment.CourseID)),
				zap.Error(err),
			)
		}
	}

	actorID := req.ActorID.String()
	s.metrics.RecordRefundResolved(ctx, string(refund.Status))
	s.audit.Record(ctx, string(req.ActorScope), &actorID, "refund.resolved", "refund", targetID(refund.ID), map[string]any{
		"payment_id": refund.PaymentID.String(),
		"status":     string(refund.Status),
	})
	s.enqueueNotify(fmt.Sprintf("refund-resolved:%d", refund.ID), notificationdomain.Event{
		Type:        notificationdomain.EventRefundResolved,
		RecipientID: refund.RequestedBy.String(),
		Payload: map[string]any{
			"refund_id":  refund.ID.String(),
			"payment_id": refund.PaymentID.String(),
			"status":     string(refund.Status),
			"amount":     refund.Amount,
		},
	})

	return refundSummary(refund), nil
}

func (s *service) GetPayment(ctx context.Context, id snowflake.ID) (domain.PaymentDetail, error) {
	payment, err := s.payments.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.PaymentDetail{}, err
	}
	if payment == nil {
		return domain.PaymentDetail{}, domain.ErrPaymentNotFound
	}

	return domain.PaymentDetail{
		PaymentSummary: paymentSummary(payment),
		Gateway:        s.enrichGateway(ctx, payment.SessionRef()),
	}, nil
}

func (s *service) GetRefund(ctx context.Context, id snowflake.ID) (domain.RefundDetail, error) {
	refund, err := s.refunds.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.RefundDetail{}, err
	}
	if refund == nil {
		return domain.RefundDetail{}, domain.ErrRefundNotFound
	}

	detail := domain.RefundDetail{RefundSummary: refundSummary(refund)}

	payment, err := s.payments.FindByID(ctx, s.db, refund.PaymentID)
	if err != nil {
		return domain.RefundDetail{}, err
	}
	if payment != nil {
		detail.Gateway = s.enrichGateway(ctx, payment.SessionRef())
	}
	return detail, nil
}

func (s *service) GetEarning(ctx context.Context, id snowflake.ID) (*earningdomain.InstructorEarning, error) {
	earning, err := s.earnings.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if earning == nil {
		return nil, domain.ErrEarningNotFound
	}
	return earning, nil
}

func (s *service) ListEarnings(ctx context.Context, req domain.ListEarningsRequest) (domain.ListEarningsResponse, error) {
	resp := domain.ListEarningsResponse{Earnings: []earningdomain.InstructorEarning{}}

	limit := req.PageSize
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	filter := earningdomain.ListFilter{
		InstructorID: req.InstructorID,
		Limit:        int(limit),
	}
	if req.PageToken != "" {
		cursor, err := pagination.DecodeCursor(req.PageToken)
		if err != nil {
			return resp, domain.ErrInvalidPageToken
		}
		id, err := strconv.ParseInt(cursor.ID, 10, 64)
		if err != nil {
			return resp, domain.ErrInvalidPageToken
		}
		createdAt, err := time.Parse(time.RFC3339Nano, cursor.CreatedAt)
		if err != nil {
			return resp, domain.ErrInvalidPageToken
		}
		filter.Cursor = &earningdomain.Cursor{ID: snowflake.ID(id), CreatedAt: createdAt}
	}

	items, err := s.earnings.List(ctx, s.db, filter)
	if err != nil {
		return resp, err
	}

	pageInfo, items := pagination.BuildCursorPageInfo(items, limit, func(e *earningdomain.InstructorEarning) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        e.ID.String(),
			CreatedAt: e.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})

	resp.PageInfo = pageInfo
	for _, e := range items {
		resp.Earnings = append(resp.Earnings, *e)
	}
	return resp, nil
}

// fetchOriginalPrice asks the gateway for the pre-discount session price.
// Time-bounded and best-effort: any failure falls back to the charged
// amount.
func (s *service) fetchOriginalPrice(ctx context.Context, sessionRef string, timeout time.Duration) (int64, bool) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	details, err := s.gateway.FetchSessionDetails(ctx, sessionRef)
	if err != nil {
		s.metrics.RecordGatewayLookupFailure(ctx)
		s.log.Warn("gateway original price lookup failed, using payment amount",
			zap.String("session_ref", sessionRef),
			zap.Error(err),
		)
		return 0, false
	}
	if details.OriginalPrice == nil || *details.OriginalPrice <= 0 {
		return 0, false
	}
	return *details.OriginalPrice, true
}

// enrichGateway builds the optional gateway view for detail responses.
// Never returns an error: a failed lookup is just Available=false.
func (s *service) enrichGateway(ctx context.Context, sessionRef string) domain.GatewayDetails {
	if sessionRef == "" {
		return domain.GatewayDetails{}
	}

	ctx, cancel := context.WithTimeout(ctx, s.policy.Get().GatewayTimeout)
	defer cancel()

	details, err := s.gateway.FetchSessionDetails(ctx, sessionRef)
	if err != nil {
		s.metrics.RecordGatewayLookupFailure(ctx)
		s.log.Warn("gateway enrichment failed, serving basic view",
			zap.String("session_ref", sessionRef),
			zap.Error(fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)),
		)
		return domain.GatewayDetails{}
	}

	return domain.GatewayDetails{
		Available:     true,
		TransactionID: details.TransactionID,
		ReceiptURL:    details.ReceiptURL,
		CardBrand:     details.CardBrand,
		CardLast4:     details.CardLast4,
		CardExpMonth:  details.CardExpMonth,
		CardExpYear:   details.CardExpYear,
		OriginalPrice: details.OriginalPrice,
	}
}

// enqueueAffiliatePayout records the referrer commission after the payout
// committed. The unique index on discount_usage_id makes a re-dispatched
// task a no-op.
func (s *service) enqueueAffiliatePayout(payment *paymentdomain.Payment, feeRate float64) {
	s.runner.Enqueue(dispatch.Task{
		Key:  fmt.Sprintf("affiliate-payout:%d", payment.ID),
		Name: "affiliate.payout",
		Run: func(ctx context.Context) error {
			usages, err := s.discounts.FindUsagesFor(ctx, payment.BuyerID, payment.CourseID)
			if err != nil {
				return err
			}
			for _, usage := range usages {
				if !usage.Referral() {
					continue
				}
				payout := &affiliatedomain.AffiliatePayout{
					ID:               s.genID.Generate(),
					DiscountUsageID:  usage.ID,
					ReferrerID:       usage.ReferrerID,
					CommissionAmount: usage.DiscountAmount,
					RelatedPaymentID: payment.ID,
					Status:           affiliatedomain.StatusPending,
					CreatedAt:        s.clock.Now(),
				}
				inserted, err := s.affiliates.Insert(ctx, s.db, payout)
				if err != nil {
					return err
				}
				if !inserted {
					continue
				}
				s.metrics.RecordAffiliatePayout(ctx)
				if err := s.notifier.Notify(ctx, notificationdomain.Event{
					Type:        notificationdomain.EventCommissionAvailable,
					RecipientID: usage.ReferrerID.String(),
					Payload: map[string]any{
						"payout_id":         payout.ID.String(),
						"payment_id":        payment.ID.String(),
						"commission_amount": payout.CommissionAmount,
					},
				}); err != nil {
					s.log.Warn("commission notification failed",
						zap.Int64("payout_id", int64(payout.ID)),
						zap.Error(err),
					)
				}
			}
			return nil
		},
	})
}

func (s *service) enqueueNotify(key string, event notificationdomain.Event) {
	s.runner.Enqueue(dispatch.Task{
		Key:  key,
		Name: "notification." + string(event.Type),
		Run: func(ctx context.Context) error {
			return s.notifier.Notify(ctx, event)
		},
	})
}

// earningAmount is the instructor share of the base price after the
// platform fee, rounded to the nearest minor unit.
func earningAmount(base int64, feeRate float64) int64 {
	return int64(math.Round(float64(base) * (1 - feeRate)))
}

func paymentSummary(p *paymentdomain.Payment) domain.PaymentSummary {
	return domain.PaymentSummary{
		ID:           p.ID,
		BuyerID:      p.BuyerID,
		CourseID:     p.CourseID,
		InstructorID: p.InstructorID,
		CourseTitle:  p.CourseTitle,
		Amount:       p.Amount,
		Currency:     p.Currency,
		Status:       p.Status,
		PaidAt:       p.PaidAt,
		PaidOutAt:    p.PaidOutAt,
	}
}

func refundSummary(r *refunddomain.Refund) domain.RefundSummary {
	return domain.RefundSummary{
		ID:             r.ID,
		PaymentID:      r.PaymentID,
		Amount:         r.Amount,
		Status:         r.Status,
		Reason:         r.Reason,
		RejectedReason: r.RejectedReason,
		RequestedBy:    r.RequestedBy,
		RequestedAt:    r.RequestedAt,
		ProcessedAt:    r.ProcessedAt,
	}
}

func targetID(id snowflake.ID) *string {
	v := id.String()
	return &v
}
