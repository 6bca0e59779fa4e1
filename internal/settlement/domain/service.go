package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"

	earningdomain "github.com/coursekit/eduledger/internal/earning/domain"
	paymentdomain "github.com/coursekit/eduledger/internal/payment/domain"
	refunddomain "github.com/coursekit/eduledger/internal/refund/domain"
	"github.com/coursekit/eduledger/pkg/db/pagination"
)

// ActorScope identifies who is driving a refund resolution. Authorization
// happens upstream; the scope here feeds the audit trail. Both scopes run
// the same state machine and the same side effects.
type ActorScope string

const (
	ActorAdmin      ActorScope = "admin"
	ActorInstructor ActorScope = "instructor"
	ActorSystem     ActorScope = "system"
)

func (a ActorScope) Valid() bool {
	switch a {
	case ActorAdmin, ActorInstructor, ActorSystem:
		return true
	default:
		return false
	}
}

// PriceBase names which amount a payout was computed from.
type PriceBase string

const (
	// PriceBaseGatewayOriginal means the pre-discount price fetched from
	// the gateway session.
	PriceBaseGatewayOriginal PriceBase = "gateway_original"
	// PriceBasePaymentAmount means the amount actually charged.
	PriceBasePaymentAmount PriceBase = "payment_amount"
)

type UpdatePaymentStatusRequest struct {
	PaymentID snowflake.ID
	Status    paymentdomain.Status
}

type PaidOutPaymentRequest struct {
	PaymentID snowflake.ID
}

type RequestRefundRequest struct {
	CourseID    snowflake.ID
	RequestedBy snowflake.ID
	Reason      string
}

type UpdateRefundStatusRequest struct {
	RefundID       snowflake.ID
	Status         refunddomain.Status
	RejectedReason *string
	ActorScope     ActorScope
	ActorID        snowflake.ID
}

// PaymentSummary is the post-mutation view of a payment.
type PaymentSummary struct {
	ID           snowflake.ID         `json:"id"`
	BuyerID      snowflake.ID         `json:"buyer_id"`
	CourseID     snowflake.ID         `json:"course_id"`
	InstructorID snowflake.ID         `json:"instructor_id"`
	CourseTitle  string               `json:"course_title"`
	Amount       int64                `json:"amount"`
	Currency     string               `json:"currency"`
	Status       paymentdomain.Status `json:"status"`
	PaidAt       *time.Time           `json:"paid_at,omitempty"`
	PaidOutAt    *time.Time           `json:"paid_out_at,omitempty"`
}

// PayoutSummary describes one released earning. InstructorName is
// best-effort decoration and may be empty.
type PayoutSummary struct {
	PaymentID      snowflake.ID `json:"payment_id"`
	EarningID      snowflake.ID `json:"earning_id"`
	InstructorID   snowflake.ID `json:"instructor_id"`
	InstructorName string       `json:"instructor_name,omitempty"`
	Amount         int64        `json:"amount"`
	PriceBase      PriceBase    `json:"price_base"`
	PaidOutAt      time.Time    `json:"paid_out_at"`
}

type RefundSummary struct {
	ID             snowflake.ID        `json:"id"`
	PaymentID      snowflake.ID        `json:"payment_id"`
	Amount         int64               `json:"amount"`
	Status         refunddomain.Status `json:"status"`
	Reason         string              `json:"reason"`
	RejectedReason *string             `json:"rejected_reason,omitempty"`
	RequestedBy    snowflake.ID        `json:"requested_by"`
	RequestedAt    time.Time           `json:"requested_at"`
	ProcessedAt    *time.Time          `json:"processed_at,omitempty"`
}

// GatewayDetails is optional enrichment from the external processor.
// Available is the explicit degraded-view flag: when false the remaining
// fields are zero and the caller renders the basic view.
type GatewayDetails struct {
	Available     bool   `json:"available"`
	TransactionID string `json:"transaction_id,omitempty"`
	ReceiptURL    string `json:"receipt_url,omitempty"`
	CardBrand     string `json:"card_brand,omitempty"`
	CardLast4     string `json:"card_last4,omitempty"`
	CardExpMonth  int64  `json:"card_exp_month,omitempty"`
	CardExpYear   int64  `json:"card_exp_year,omitempty"`
	OriginalPrice *int64 `json:"original_price,omitempty"`
}

type PaymentDetail struct {
	PaymentSummary
	Gateway GatewayDetails `json:"gateway"`
}

type RefundDetail struct {
	RefundSummary
	Gateway GatewayDetails `json:"gateway"`
}

type ListEarningsRequest struct {
	pagination.Pagination
	InstructorID snowflake.ID
}

type ListEarningsResponse struct {
	pagination.PageInfo
	Earnings []earningdomain.InstructorEarning `json:"earnings"`
}

// Service is the settlement orchestrator: every cross-ledger invariant is
// enforced here, inside one transaction per operation.
type Service interface {
	UpdatePaymentStatus(ctx context.Context, req UpdatePaymentStatusRequest) (PaymentSummary, error)
	PaidOutPayment(ctx context.Context, req PaidOutPaymentRequest) (PayoutSummary, error)
	RequestRefund(ctx context.Context, req RequestRefundRequest) (RefundSummary, error)
	UpdateRefundStatus(ctx context.Context, req UpdateRefundStatusRequest) (RefundSummary, error)

	GetPayment(ctx context.Context, id snowflake.ID) (PaymentDetail, error)
	GetRefund(ctx context.Context, id snowflake.ID) (RefundDetail, error)
	GetEarning(ctx context.Context, id snowflake.ID) (*earningdomain.InstructorEarning, error)
	ListEarnings(ctx context.Context, req ListEarningsRequest) (ListEarningsResponse, error)
}
