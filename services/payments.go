package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// MaxWebhookBody matches the limit Stripe recommends for event payloads.
const MaxWebhookBody = 65536

type LineItem struct {
	Name       string
	Currency   string
	UnitAmount int64
	Quantity   int64
}

type CheckoutRequest struct {
	Item       LineItem
	SuccessURL string
	CancelURL  string
	// ClientReference is attached to the session when the buyer is known.
	ClientReference string
}

type CheckoutSession struct {
	ID  string
	URL string
}

// CheckoutProvider opens a hosted payment page.
type CheckoutProvider interface {
	CreateSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
}

type StripeCheckout struct {
	api *client.API
}

func NewStripeCheckout(secretKey string) *StripeCheckout {
	return &StripeCheckout{api: client.New(secretKey, nil)}
}

func (s *StripeCheckout) CreateSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	quantity := req.Item.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(req.Item.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Item.Name),
					},
					UnitAmount: stripe.Int64(req.Item.UnitAmount),
				},
				Quantity: stripe.Int64(quantity),
			},
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	if req.ClientReference != "" {
		params.ClientReferenceID = stripe.String(req.ClientReference)
	}
	params.Context = ctx

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe checkout session: %w", err)
	}
	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

var ErrBadSignature = errors.New("webhook signature verification failed")

// ProviderEvent is the verified subset of a provider notification that the
// receiver acts on.
type ProviderEvent struct {
	ID        string
	Type      string
	SessionID string
}

const EventCheckoutCompleted = "checkout.session.completed"

type WebhookVerifier interface {
	Verify(payload []byte, signatureHeader string) (*ProviderEvent, error)
}

type StripeWebhookVerifier struct {
	secret string
}

func NewStripeWebhookVerifier(secret string) *StripeWebhookVerifier {
	return &StripeWebhookVerifier{secret: secret}
}

func (v *StripeWebhookVerifier) Verify(payload []byte, signatureHeader string) (*ProviderEvent, error) {
	if v.secret == "" {
		return nil, fmt.Errorf("%w: no webhook secret configured", ErrBadSignature)
	}
	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, v.secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSignature, err)
	}

	out := &ProviderEvent{ID: event.ID, Type: string(event.Type)}
	if out.Type == EventCheckoutCompleted && event.Data != nil {
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("decode checkout session: %w", err)
		}
		out.SessionID = sess.ID
	}
	return out, nil
}
