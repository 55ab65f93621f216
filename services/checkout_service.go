package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"backend/entity"
	"backend/pkg/gateway"
	"backend/repository"
	"backend/utils"
)

var (
	ErrEmptyCart    = errors.New("no items provided")
	ErrInvalidItem  = errors.New("item price and quantity must be positive")
	ErrOrderMissing = errors.New("order not found")
)

const paidOrdersLimit = 50

// OrderStore is the persistence surface the checkout flow needs. The
// mongo-backed repository satisfies it; tests use a fake.
type OrderStore interface {
	Insert(ctx context.Context, o *entity.Order) error
	AttachSession(ctx context.Context, orderID, sessionID string) error
	Delete(ctx context.Context, orderID string) error
	GetBySessionID(ctx context.Context, sessionID string) (*entity.Order, error)
	MarkPaid(ctx context.Context, sessionID, paymentID string) (bool, error)
	MarkExpired(ctx context.Context, sessionID string) (bool, error)
	ListPaid(ctx context.Context, limit int64) ([]entity.Order, error)
	ExpireStalePending(ctx context.Context, olderThan time.Time) (int64, error)
}

// FoodLookup re-prices checkout items from the catalog.
type FoodLookup interface {
	GetByID(ctx context.Context, id string) (*entity.Food, error)
}

type CheckoutService struct {
	Orders      OrderStore
	Foods       FoodLookup
	Gateway     gateway.PaymentGateway
	FrontendURL string
}

func NewCheckoutService(orders OrderStore, foods FoodLookup, gw gateway.PaymentGateway, frontendURL string) *CheckoutService {
	return &CheckoutService{Orders: orders, Foods: foods, Gateway: gw, FrontendURL: frontendURL}
}

type CheckoutItemIn struct {
	ID       string
	Name     string
	Price    float64
	Quantity int
	Category string
	ImageURL string
}

type CheckoutIn struct {
	Items      []CheckoutItemIn
	SuccessURL string
	CancelURL  string
}

type CheckoutOut struct {
	SessionID string
	URL       string
	OrderID   string
}

// CreateSession runs checkout initiation: snapshot the cart into a
// pending order, ask the gateway for a hosted session, then attach the
// session id. The two order writes are not atomic; if the gateway call
// fails the pending order is deleted as compensation, and anything that
// still slips through is picked up by ExpireStale.
func (s *CheckoutService) CreateSession(ctx context.Context, in *CheckoutIn) (*CheckoutOut, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyCart
	}

	items := make([]entity.OrderItem, 0, len(in.Items))
	var total float64
	for _, it := range in.Items {
		price := it.Price
		// Server-side re-price: a known catalog item always checks out at
		// its current catalog price, whatever the client submitted. Items
		// without a catalog match keep the submitted price.
		if it.ID != "" {
			if f, err := s.Foods.GetByID(ctx, it.ID); err == nil {
				price = f.Price
			} else if !errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("look up item %s: %w", it.ID, err)
			}
		}
		if price <= 0 || it.Quantity <= 0 {
			return nil, ErrInvalidItem
		}
		items = append(items, entity.OrderItem{
			ID:       it.ID,
			Name:     it.Name,
			Price:    price,
			Quantity: it.Quantity,
			Category: it.Category,
			ImageURL: it.ImageURL,
		})
		total += price * float64(it.Quantity)
	}

	orderID := utils.NewOrderID()
	now := time.Now()
	order := &entity.Order{
		OrderID:   orderID,
		Items:     items,
		Amount:    total,
		Currency:  entity.DefaultCurrency,
		Status:    entity.OrderPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Orders.Insert(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	sess, err := s.Gateway.CreateSession(ctx, s.sessionRequest(orderID, items, in))
	if err != nil {
		if delErr := s.Orders.Delete(ctx, orderID); delErr != nil {
			log.Printf("cleanup of order %s after gateway failure also failed: %v", orderID, delErr)
		}
		return nil, err
	}

	if err := s.Orders.AttachSession(ctx, orderID, sess.ID); err != nil {
		return nil, fmt.Errorf("attach session to order %s: %w", orderID, err)
	}

	return &CheckoutOut{SessionID: sess.ID, URL: sess.URL, OrderID: orderID}, nil
}

func (s *CheckoutService) sessionRequest(orderID string, items []entity.OrderItem, in *CheckoutIn) *gateway.SessionRequest {
	lineItems := make([]gateway.LineItem, 0, len(items))
	for _, it := range items {
		desc := it.Category
		if desc == "" {
			desc = "Food item"
		}
		var images []string
		if it.ImageURL != "" {
			images = []string{it.ImageURL}
		}
		lineItems = append(lineItems, gateway.LineItem{
			Name:        it.Name,
			Description: desc,
			Images:      images,
			UnitAmount:  int64(math.Round(it.Price * 100)),
			Quantity:    int64(it.Quantity),
		})
	}

	successURL := in.SuccessURL
	if successURL == "" {
		successURL = fmt.Sprintf("%s/orders?success=true&orderId=%s", s.FrontendURL, orderID)
	}
	cancelURL := in.CancelURL
	if cancelURL == "" {
		cancelURL = s.FrontendURL + "/cart?cancelled=true"
	}

	return &gateway.SessionRequest{
		Currency:   "inr",
		LineItems:  lineItems,
		SuccessURL: successURL,
		CancelURL:  cancelURL,
		OrderID:    orderID,
	}
}

// HandleEvent reconciles one webhook delivery. A non-nil error means the
// payload could not be authenticated or parsed and the gateway should see
// a 400; once an event parses it is always acknowledged, even when the
// session matches no order, so the gateway does not redeliver forever.
func (s *CheckoutService) HandleEvent(ctx context.Context, payload []byte, signature string) error {
	evt, err := s.Gateway.ParseEvent(payload, signature)
	if err != nil {
		return err
	}

	switch evt.Type {
	case gateway.EventSessionCompleted:
		matched, err := s.Orders.MarkPaid(ctx, evt.SessionID, evt.PaymentIntentID)
		if err != nil {
			log.Printf("mark paid for session %s failed: %v", evt.SessionID, err)
			return nil
		}
		if !matched {
			log.Printf("warning: completed session %s matches no order", evt.SessionID)
			return nil
		}
		log.Println("payment completed for session:", evt.SessionID)

	case gateway.EventSessionExpired:
		if _, err := s.Orders.MarkExpired(ctx, evt.SessionID); err != nil {
			log.Printf("mark expired for session %s failed: %v", evt.SessionID, err)
		}

	default:
		log.Println("unhandled event type:", evt.Type)
	}
	return nil
}

type VerifyOut struct {
	Paid    bool
	Status  string
	OrderID string
	Order   *entity.Order
}

// Verify re-queries the gateway for a session's status and promotes the
// local order to paid if the webhook has not arrived yet. This closes the
// race where the client lands on the success page before the webhook.
func (s *CheckoutService) Verify(ctx context.Context, sessionID string) (*VerifyOut, error) {
	sess, err := s.Gateway.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	order, err := s.Orders.GetBySessionID(ctx, sessionID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrOrderMissing
	}
	if err != nil {
		return nil, err
	}

	if sess.PaymentStatus == "paid" && order.Status != entity.OrderPaid {
		if _, err := s.Orders.MarkPaid(ctx, sessionID, sess.PaymentIntentID); err != nil {
			return nil, err
		}
		order.Status = entity.OrderPaid
		order.StripePaymentID = sess.PaymentIntentID
	}

	return &VerifyOut{
		Paid:    sess.PaymentStatus == "paid",
		Status:  sess.PaymentStatus,
		OrderID: order.OrderID,
		Order:   order,
	}, nil
}

func (s *CheckoutService) ListPaidOrders(ctx context.Context) ([]entity.Order, error) {
	return s.Orders.ListPaid(ctx, paidOrdersLimit)
}

// ExpireStale sweeps pending orders that never got a session attached.
// Run at startup; 24h is generous next to Stripe's own session expiry.
func (s *CheckoutService) ExpireStale(ctx context.Context) (int64, error) {
	return s.Orders.ExpireStalePending(ctx, time.Now().Add(-24*time.Hour))
}
