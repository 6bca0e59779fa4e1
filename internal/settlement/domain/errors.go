package domain

import (
	"errors"
	"fmt"
	"math"
	"time"

	earningdomain "github.com/coursekit/eduledger/internal/earning/domain"
	paymentdomain "github.com/coursekit/eduledger/internal/payment/domain"
	refunddomain "github.com/coursekit/eduledger/internal/refund/domain"
)

// Ledger sentinels resurfaced at the orchestrator boundary so callers only
// import this package.
var (
	ErrPaymentNotFound = paymentdomain.ErrNotFound
	ErrRefundNotFound  = refunddomain.ErrNotFound
	ErrEarningNotFound = earningdomain.ErrNotFound
	ErrRefundConflict  = refunddomain.ErrConflict
)

var (
	ErrInvalidStatus          = errors.New("invalid_status")
	ErrInvalidPageToken       = errors.New("invalid_page_token")
	ErrRejectedReasonRequired = errors.New("rejected_reason_required")
	ErrRefundWindowExpired    = errors.New("refund_window_expired")
	ErrRefundOutstanding      = errors.New("refund_outstanding")
	ErrAlreadyPaidOut         = errors.New("already_paid_out")
	// ErrGatewayUnavailable marks a degraded detail view in logs; it never
	// fails a ledger operation.
	ErrGatewayUnavailable = errors.New("gateway_unavailable")

	ErrInvalidStateTransition = errors.New("invalid_state_transition")
	ErrWindowNotElapsed       = errors.New("payout_window_not_elapsed")
)

// InvalidStateTransitionError names the entity and the status that blocked
// the requested transition.
type InvalidStateTransitionError struct {
	Entity  string
	Current string
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("invalid_state_transition: %s is %s", e.Entity, e.Current)
}

func (e *InvalidStateTransitionError) Is(target error) bool {
	return target == ErrInvalidStateTransition
}

// WindowNotElapsedError reports how long until a completed payment becomes
// eligible for payout.
type WindowNotElapsedError struct {
	Remaining time.Duration
}

func (e *WindowNotElapsedError) Error() string {
	hours := math.Ceil(e.Remaining.Hours())
	return fmt.Sprintf("payout_window_not_elapsed: %.0f hours remaining", hours)
}

func (e *WindowNotElapsedError) Is(target error) bool {
	return target == ErrWindowNotElapsed
}
