// Package gateway wraps the hosted-checkout payment provider. The rest of
// the backend talks to the PaymentGateway interface; Stripe specifics stay
// behind it.
package gateway

import "context"

// LineItem is one priced line of a checkout session. UnitAmount is in the
// currency's minor unit (paise for INR), as the provider expects.
type LineItem struct {
	Name        string
	Description string
	Images      []string
	UnitAmount  int64
	Quantity    int64
}

type SessionRequest struct {
	Currency   string
	LineItems  []LineItem
	SuccessURL string
	CancelURL  string
	// OrderID is attached as correlation metadata so a session can always
	// be traced back to the order that created it.
	OrderID string
}

// Session is the provider's view of one hosted checkout attempt.
type Session struct {
	ID              string
	URL             string
	PaymentStatus   string
	PaymentIntentID string
}

// Event kinds the reconciler dispatches on. Anything else is a no-op.
const (
	EventSessionCompleted = "checkout.session.completed"
	EventSessionExpired   = "checkout.session.expired"
)

type Event struct {
	Type            string
	SessionID       string
	PaymentIntentID string
}

type PaymentGateway interface {
	CreateSession(ctx context.Context, req *SessionRequest) (*Session, error)
	GetSession(ctx context.Context, id string) (*Session, error)
	// ParseEvent authenticates and decodes a webhook payload. An error
	// means the payload must be rejected; a parsed event is always
	// acknowledged regardless of what reconciliation finds.
	ParseEvent(payload []byte, signature string) (*Event, error)
}
