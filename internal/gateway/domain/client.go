package domain

import (
	"context"
	"errors"
)

var (
	// ErrSessionLookupFailed wraps every gateway failure. Callers treat it
	// as missing enrichment, never as a ledger error.
	ErrSessionLookupFailed = errors.New("gateway_session_lookup_failed")
	ErrMissingSessionRef   = errors.New("gateway_session_ref_required")
)

// SessionDetails is the externally-held metadata for a checkout session.
// Everything is optional decoration; OriginalPrice is the pre-discount
// price in minor units when the gateway knows it.
type SessionDetails struct {
	TransactionID string
	ReceiptURL    string
	CardBrand     string
	CardLast4     string
	CardExpMonth  int64
	CardExpYear   int64
	OriginalPrice *int64
}

// Client reads payment metadata held by the external processor. A pure
// read: no side effects, no caching beyond the request.
type Client interface {
	FetchSessionDetails(ctx context.Context, sessionRef string) (SessionDetails, error)
}
