package stripe

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/coursekit/eduledger/internal/gateway/domain"
	stripeapi "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
)

// Client implements the gateway client on Stripe checkout sessions.
type Client struct {
	apiKey string
}

// Config holds Stripe configuration.
type Config struct {
	APIKey string
}

// New creates a Stripe-backed gateway client.
func New(cfg Config) *Client {
	stripeapi.Key = cfg.APIKey
	return &Client{apiKey: cfg.APIKey}
}

// FetchSessionDetails retrieves the checkout session with its payment intent
// and latest charge expanded, and maps it to the neutral detail view.
func (c *Client) FetchSessionDetails(ctx context.Context, sessionRef string) (domain.SessionDetails, error) {
	sessionRef = strings.TrimSpace(sessionRef)
	if sessionRef == "" {
		return domain.SessionDetails{}, domain.ErrMissingSessionRef
	}

	params := &stripeapi.CheckoutSessionParams{}
	params.Context = ctx
	params.AddExpand("payment_intent.latest_charge")

	sess, err := session.Get(sessionRef, params)
	if err != nil {
		return domain.SessionDetails{}, fmt.Errorf("%w: %v", domain.ErrSessionLookupFailed, err)
	}

	details := domain.SessionDetails{}

	if pi := sess.PaymentIntent; pi != nil {
		details.TransactionID = pi.ID
		if ch := pi.LatestCharge; ch != nil {
			details.ReceiptURL = ch.ReceiptURL
			if ch.PaymentMethodDetails != nil && ch.PaymentMethodDetails.Card != nil {
				card := ch.PaymentMethodDetails.Card
				details.CardBrand = string(card.Brand)
				details.CardLast4 = card.Last4
				details.CardExpMonth = card.ExpMonth
				details.CardExpYear = card.ExpYear
			}
		}
	}

	// Checkout reports the pre-discount subtotal; session metadata is the
	// fallback for sessions created before discounts were itemized.
	if sess.AmountSubtotal > 0 {
		subtotal := sess.AmountSubtotal
		details.OriginalPrice = &subtotal
	} else if raw, ok := sess.Metadata["original_price"]; ok {
		if parsed, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64); err == nil && parsed > 0 {
			details.OriginalPrice = &parsed
		}
	}

	return details, nil
}

var _ domain.Client = (*Client)(nil)
