package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backend/entity"
	"backend/pkg/gateway"
	"backend/repository"
)

// fakeOrderStore mirrors the guarded-update semantics of the mongo
// repository: MarkPaid sets fixed target values, MarkExpired refuses to
// downgrade paid.
type fakeOrderStore struct {
	orders    map[string]*entity.Order // by orderID
	insertErr error
	attachErr error
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: map[string]*entity.Order{}}
}

func (f *fakeOrderStore) Insert(_ context.Context, o *entity.Order) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	cp := *o
	f.orders[o.OrderID] = &cp
	return nil
}

func (f *fakeOrderStore) AttachSession(_ context.Context, orderID, sessionID string) error {
	if f.attachErr != nil {
		return f.attachErr
	}
	o, ok := f.orders[orderID]
	if !ok {
		return repository.ErrNotFound
	}
	o.StripeSessionID = sessionID
	return nil
}

func (f *fakeOrderStore) Delete(_ context.Context, orderID string) error {
	delete(f.orders, orderID)
	return nil
}

func (f *fakeOrderStore) GetBySessionID(_ context.Context, sessionID string) (*entity.Order, error) {
	if o := f.bySession(sessionID); o != nil {
		cp := *o
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeOrderStore) MarkPaid(_ context.Context, sessionID, paymentID string) (bool, error) {
	o := f.bySession(sessionID)
	if o == nil {
		return false, nil
	}
	o.Status = entity.OrderPaid
	o.StripePaymentID = paymentID
	return true, nil
}

func (f *fakeOrderStore) MarkExpired(_ context.Context, sessionID string) (bool, error) {
	o := f.bySession(sessionID)
	if o == nil || o.Status == entity.OrderPaid {
		return false, nil
	}
	o.Status = entity.OrderExpired
	return true, nil
}

func (f *fakeOrderStore) ListPaid(_ context.Context, limit int64) ([]entity.Order, error) {
	out := []entity.Order{}
	for _, o := range f.orders {
		if o.Status == entity.OrderPaid && int64(len(out)) < limit {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderStore) ExpireStalePending(_ context.Context, olderThan time.Time) (int64, error) {
	var n int64
	for _, o := range f.orders {
		if o.Status == entity.OrderPending && o.StripeSessionID == "" && o.CreatedAt.Before(olderThan) {
			o.Status = entity.OrderExpired
			n++
		}
	}
	return n, nil
}

func (f *fakeOrderStore) bySession(sessionID string) *entity.Order {
	for _, o := range f.orders {
		if o.StripeSessionID == sessionID && sessionID != "" {
			return o
		}
	}
	return nil
}

func (f *fakeOrderStore) single(t *testing.T) *entity.Order {
	t.Helper()
	require.Len(t, f.orders, 1)
	for _, o := range f.orders {
		return o
	}
	return nil
}

type fakeFoods struct {
	byID map[string]*entity.Food
}

func (f *fakeFoods) GetByID(_ context.Context, id string) (*entity.Food, error) {
	if f.byID != nil {
		if food, ok := f.byID[id]; ok {
			return food, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeGateway struct {
	createFunc func(ctx context.Context, req *gateway.SessionRequest) (*gateway.Session, error)
	getFunc    func(ctx context.Context, id string) (*gateway.Session, error)
	parseFunc  func(payload []byte, signature string) (*gateway.Event, error)
	lastCreate *gateway.SessionRequest
}

func (f *fakeGateway) CreateSession(ctx context.Context, req *gateway.SessionRequest) (*gateway.Session, error) {
	f.lastCreate = req
	if f.createFunc != nil {
		return f.createFunc(ctx, req)
	}
	return &gateway.Session{ID: "cs_test_1", URL: "https://pay.example/cs_test_1"}, nil
}

func (f *fakeGateway) GetSession(ctx context.Context, id string) (*gateway.Session, error) {
	if f.getFunc != nil {
		return f.getFunc(ctx, id)
	}
	return &gateway.Session{ID: id, PaymentStatus: "unpaid"}, nil
}

func (f *fakeGateway) ParseEvent(payload []byte, signature string) (*gateway.Event, error) {
	if f.parseFunc != nil {
		return f.parseFunc(payload, signature)
	}
	return &gateway.Event{}, nil
}

func newService(store *fakeOrderStore, foods *fakeFoods, gw *fakeGateway) *CheckoutService {
	if foods == nil {
		foods = &fakeFoods{}
	}
	return NewCheckoutService(store, foods, gw, "http://localhost:5173")
}

func TestCreateSession(t *testing.T) {
	store := newFakeOrderStore()
	gw := &fakeGateway{}
	svc := newService(store, nil, gw)

	out, err := svc.CreateSession(context.Background(), &CheckoutIn{
		Items: []CheckoutItemIn{
			{Name: "Veg Burger", Price: 50, Quantity: 2},
			{Name: "Maggi", Price: 30, Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", out.SessionID)
	assert.Equal(t, "https://pay.example/cs_test_1", out.URL)
	assert.NotEmpty(t, out.OrderID)

	o := store.single(t)
	assert.Equal(t, entity.OrderPending, o.Status)
	assert.Equal(t, 130.0, o.Amount)
	assert.Equal(t, entity.DefaultCurrency, o.Currency)
	assert.Equal(t, "cs_test_1", o.StripeSessionID)
	require.Len(t, o.Items, 2)

	// Gateway sees minor units and the order id as correlation metadata.
	require.NotNil(t, gw.lastCreate)
	assert.Equal(t, out.OrderID, gw.lastCreate.OrderID)
	assert.Equal(t, "inr", gw.lastCreate.Currency)
	require.Len(t, gw.lastCreate.LineItems, 2)
	assert.Equal(t, int64(5000), gw.lastCreate.LineItems[0].UnitAmount)
	assert.Equal(t, int64(2), gw.lastCreate.LineItems[0].Quantity)
	assert.Equal(t, "http://localhost:5173/orders?success=true&orderId="+out.OrderID,
		gw.lastCreate.SuccessURL)
	assert.Equal(t, "http://localhost:5173/cart?cancelled=true", gw.lastCreate.CancelURL)
}

func TestCreateSessionEmptyCart(t *testing.T) {
	store := newFakeOrderStore()
	svc := newService(store, nil, &fakeGateway{})

	_, err := svc.CreateSession(context.Background(), &CheckoutIn{})
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, store.orders, "no order record may be created")
}

func TestCreateSessionInvalidItem(t *testing.T) {
	store := newFakeOrderStore()
	svc := newService(store, nil, &fakeGateway{})

	for _, in := range []CheckoutItemIn{
		{Name: "free lunch", Price: 0, Quantity: 1},
		{Name: "anti burger", Price: -5, Quantity: 1},
		{Name: "nothing", Price: 50, Quantity: 0},
	} {
		_, err := svc.CreateSession(context.Background(), &CheckoutIn{Items: []CheckoutItemIn{in}})
		assert.ErrorIs(t, err, ErrInvalidItem)
	}
	assert.Empty(t, store.orders)
}

func TestCreateSessionRepricesFromCatalog(t *testing.T) {
	store := newFakeOrderStore()
	foods := &fakeFoods{byID: map[string]*entity.Food{
		"f1": {ID: "f1", Name: "Veg Burger", Price: 50},
	}}
	svc := newService(store, foods, &fakeGateway{})

	// Client claims the burger costs 1; the catalog price wins.
	out, err := svc.CreateSession(context.Background(), &CheckoutIn{
		Items: []CheckoutItemIn{{ID: "f1", Name: "Veg Burger", Price: 1, Quantity: 2}},
	})
	require.NoError(t, err)

	o := store.orders[out.OrderID]
	assert.Equal(t, 100.0, o.Amount)
	assert.Equal(t, 50.0, o.Items[0].Price)
}

func TestCreateSessionGatewayFailureCompensates(t *testing.T) {
	store := newFakeOrderStore()
	gw := &fakeGateway{
		createFunc: func(context.Context, *gateway.SessionRequest) (*gateway.Session, error) {
			return nil, errors.New("stripe down")
		},
	}
	svc := newService(store, nil, gw)

	_, err := svc.CreateSession(context.Background(), &CheckoutIn{
		Items: []CheckoutItemIn{{Name: "Maggi", Price: 30, Quantity: 1}},
	})
	require.Error(t, err)
	assert.Empty(t, store.orders, "pending order must be deleted when the gateway call fails")
}

func seedPendingOrder(store *fakeOrderStore, orderID, sessionID string) {
	store.orders[orderID] = &entity.Order{
		OrderID:         orderID,
		StripeSessionID: sessionID,
		Status:          entity.OrderPending,
		Amount:          130,
		Currency:        entity.DefaultCurrency,
		CreatedAt:       time.Now(),
	}
}

func completedEvent(sessionID, paymentID string) func([]byte, string) (*gateway.Event, error) {
	return func([]byte, string) (*gateway.Event, error) {
		return &gateway.Event{
			Type:            gateway.EventSessionCompleted,
			SessionID:       sessionID,
			PaymentIntentID: paymentID,
		}, nil
	}
}

func TestHandleEventSessionCompleted(t *testing.T) {
	store := newFakeOrderStore()
	seedPendingOrder(store, "ORD-1", "cs_1")
	gw := &fakeGateway{parseFunc: completedEvent("cs_1", "pi_1")}
	svc := newService(store, nil, gw)

	require.NoError(t, svc.HandleEvent(context.Background(), []byte("{}"), "sig"))
	assert.Equal(t, entity.OrderPaid, store.orders["ORD-1"].Status)
	assert.Equal(t, "pi_1", store.orders["ORD-1"].StripePaymentID)
}

func TestHandleEventIdempotentRedelivery(t *testing.T) {
	store := newFakeOrderStore()
	seedPendingOrder(store, "ORD-1", "cs_1")
	gw := &fakeGateway{parseFunc: completedEvent("cs_1", "pi_1")}
	svc := newService(store, nil, gw)

	require.NoError(t, svc.HandleEvent(context.Background(), []byte("{}"), "sig"))
	require.NoError(t, svc.HandleEvent(context.Background(), []byte("{}"), "sig"))

	assert.Equal(t, entity.OrderPaid, store.orders["ORD-1"].Status)
	assert.Equal(t, "pi_1", store.orders["ORD-1"].StripePaymentID)
}

func TestHandleEventExpiredDoesNotDowngradePaid(t *testing.T) {
	store := newFakeOrderStore()
	seedPendingOrder(store, "ORD-1", "cs_1")
	store.orders["ORD-1"].Status = entity.OrderPaid

	gw := &fakeGateway{parseFunc: func([]byte, string) (*gateway.Event, error) {
		return &gateway.Event{Type: gateway.EventSessionExpired, SessionID: "cs_1"}, nil
	}}
	svc := newService(store, nil, gw)

	require.NoError(t, svc.HandleEvent(context.Background(), []byte("{}"), "sig"))
	assert.Equal(t, entity.OrderPaid, store.orders["ORD-1"].Status)
}

func TestHandleEventExpiredPendingOrder(t *testing.T) {
	store := newFakeOrderStore()
	seedPendingOrder(store, "ORD-1", "cs_1")
	gw := &fakeGateway{parseFunc: func([]byte, string) (*gateway.Event, error) {
		return &gateway.Event{Type: gateway.EventSessionExpired, SessionID: "cs_1"}, nil
	}}
	svc := newService(store, nil, gw)

	require.NoError(t, svc.HandleEvent(context.Background(), []byte("{}"), "sig"))
	assert.Equal(t, entity.OrderExpired, store.orders["ORD-1"].Status)
}

func TestHandleEventUnknownSessionAcknowledged(t *testing.T) {
	store := newFakeOrderStore()
	gw := &fakeGateway{parseFunc: completedEvent("cs_ghost", "pi_1")}
	svc := newService(store, nil, gw)

	// No matching order is not an error; the gateway must not redeliver.
	assert.NoError(t, svc.HandleEvent(context.Background(), []byte("{}"), "sig"))
}

func TestHandleEventUnknownKindNoop(t *testing.T) {
	store := newFakeOrderStore()
	seedPendingOrder(store, "ORD-1", "cs_1")
	gw := &fakeGateway{parseFunc: func([]byte, string) (*gateway.Event, error) {
		return &gateway.Event{Type: "invoice.created"}, nil
	}}
	svc := newService(store, nil, gw)

	require.NoError(t, svc.HandleEvent(context.Background(), []byte("{}"), "sig"))
	assert.Equal(t, entity.OrderPending, store.orders["ORD-1"].Status)
}

func TestHandleEventBadSignature(t *testing.T) {
	gw := &fakeGateway{parseFunc: func([]byte, string) (*gateway.Event, error) {
		return nil, errors.New("signature mismatch")
	}}
	svc := newService(newFakeOrderStore(), nil, gw)

	assert.Error(t, svc.HandleEvent(context.Background(), []byte("{}"), "bad"))
}

func TestVerifyPromotesPendingToPaid(t *testing.T) {
	store := newFakeOrderStore()
	seedPendingOrder(store, "ORD-1", "cs_1")
	gw := &fakeGateway{getFunc: func(_ context.Context, id string) (*gateway.Session, error) {
		return &gateway.Session{ID: id, PaymentStatus: "paid", PaymentIntentID: "pi_9"}, nil
	}}
	svc := newService(store, nil, gw)

	out, err := svc.Verify(context.Background(), "cs_1")
	require.NoError(t, err)
	assert.True(t, out.Paid)
	assert.Equal(t, "paid", out.Status)
	assert.Equal(t, "ORD-1", out.OrderID)
	assert.Equal(t, entity.OrderPaid, out.Order.Status)
	assert.Equal(t, "pi_9", out.Order.StripePaymentID)

	// Stored record reconciled too.
	assert.Equal(t, entity.OrderPaid, store.orders["ORD-1"].Status)
}

func TestVerifyUnpaidSession(t *testing.T) {
	store := newFakeOrderStore()
	seedPendingOrder(store, "ORD-1", "cs_1")
	svc := newService(store, nil, &fakeGateway{})

	out, err := svc.Verify(context.Background(), "cs_1")
	require.NoError(t, err)
	assert.False(t, out.Paid)
	assert.Equal(t, entity.OrderPending, store.orders["ORD-1"].Status)
}

func TestVerifyUnknownSession(t *testing.T) {
	store := newFakeOrderStore()
	svc := newService(store, nil, &fakeGateway{})

	_, err := svc.Verify(context.Background(), "cs_missing")
	assert.ErrorIs(t, err, ErrOrderMissing)
	assert.Empty(t, store.orders, "verification must not create records")
}

func TestExpireStale(t *testing.T) {
	store := newFakeOrderStore()
	store.orders["ORD-old"] = &entity.Order{
		OrderID:   "ORD-old",
		Status:    entity.OrderPending,
		CreatedAt: time.Now().Add(-48 * time.Hour),
	}
	store.orders["ORD-new"] = &entity.Order{
		OrderID:   "ORD-new",
		Status:    entity.OrderPending,
		CreatedAt: time.Now(),
	}
	svc := newService(store, nil, &fakeGateway{})

	n, err := svc.ExpireStale(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, entity.OrderExpired, store.orders["ORD-old"].Status)
	assert.Equal(t, entity.OrderPending, store.orders["ORD-new"].Status)
}
