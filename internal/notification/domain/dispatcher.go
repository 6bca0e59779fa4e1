package domain

import (
	"context"
)

// EventType identifies a settlement notification.
type EventType string

const (
	EventPaymentConfirmed    EventType = "payment.confirmed"
	EventPaymentReceived     EventType = "payment.received.admin"
	EventRefundRequested     EventType = "refund.requested"
	EventRefundResolved      EventType = "refund.resolved"
	EventCommissionAvailable EventType = "affiliate.commission_available"
)

// Event is a notification to deliver. RecipientID addresses the user;
// Payload carries the template data.
type Event struct {
	Type        EventType
	RecipientID string
	Payload     map[string]any
}

// Dispatcher delivers notifications. Delivery is owned by the host system
// and is strictly fire-and-forget for settlement: callers log failures and
// never let them affect a ledger transaction.
type Dispatcher interface {
	Notify(ctx context.Context, event Event) error
}
