package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/checkout/session"
	"github.com/stripe/stripe-go/v78/webhook"
)

// StripeGateway implements PaymentGateway over Stripe hosted checkout.
type StripeGateway struct {
	webhookSecret string
}

func NewStripeGateway(secretKey, webhookSecret string) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{webhookSecret: webhookSecret}
}

func (g *StripeGateway) CreateSession(ctx context.Context, req *SessionRequest) (*Session, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.LineItems))
	for _, it := range req.LineItems {
		product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name:        stripe.String(it.Name),
			Description: stripe.String(it.Description),
		}
		if len(it.Images) > 0 {
			product.Images = stripe.StringSlice(it.Images)
		}
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(req.Currency),
				ProductData: product,
				UnitAmount:  stripe.Int64(it.UnitAmount),
			},
			Quantity: stripe.Int64(it.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          lineItems,
		SuccessURL:         stripe.String(req.SuccessURL),
		CancelURL:          stripe.String(req.CancelURL),
	}
	params.Context = ctx
	params.AddMetadata("orderId", req.OrderID)

	s, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return fromStripeSession(s), nil
}

func (g *StripeGateway) GetSession(ctx context.Context, id string) (*Session, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	s, err := session.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("retrieve checkout session: %w", err)
	}
	return fromStripeSession(s), nil
}

func fromStripeSession(s *stripe.CheckoutSession) *Session {
	out := &Session{
		ID:            s.ID,
		URL:           s.URL,
		PaymentStatus: string(s.PaymentStatus),
	}
	if s.PaymentIntent != nil {
		out.PaymentIntentID = s.PaymentIntent.ID
	}
	return out
}

// ParseEvent verifies the payload signature when a webhook secret is
// configured. Without one the payload is trusted as-is; that keeps local
// runs working against the Stripe CLI but skips authentication, so
// production deployments must set the secret.
func (g *StripeGateway) ParseEvent(payload []byte, signature string) (*Event, error) {
	var evt stripe.Event
	if g.webhookSecret != "" {
		verified, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
		if err != nil {
			return nil, fmt.Errorf("webhook signature verification failed: %w", err)
		}
		evt = verified
	} else if err := json.Unmarshal(payload, &evt); err != nil {
		return nil, fmt.Errorf("malformed webhook payload: %w", err)
	}

	out := &Event{Type: string(evt.Type)}

	switch out.Type {
	case EventSessionCompleted, EventSessionExpired:
		var s stripe.CheckoutSession
		if err := json.Unmarshal(evt.Data.Raw, &s); err != nil {
			return nil, fmt.Errorf("malformed session payload: %w", err)
		}
		out.SessionID = s.ID
		if s.PaymentIntent != nil {
			out.PaymentIntentID = s.PaymentIntent.ID
		}
	}
	return out, nil
}
