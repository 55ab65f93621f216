package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/entity"
)

type OrderRepository struct {
	Coll *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{Coll: db.Collection("orders")}
}

func (r *OrderRepository) Insert(ctx context.Context, o *entity.Order) error {
	_, err := r.Coll.InsertOne(ctx, o)
	return err
}

// AttachSession stores the gateway session id on a freshly created order.
// This is the second half of the non-atomic checkout write; the caller
// compensates by deleting the order when the gateway call fails.
func (r *OrderRepository) AttachSession(ctx context.Context, orderID, sessionID string) error {
	res, err := r.Coll.UpdateOne(ctx,
		bson.M{"orderId": orderID},
		bson.M{"$set": bson.M{"stripeSessionId": sessionID, "updatedAt": time.Now()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *OrderRepository) Delete(ctx context.Context, orderID string) error {
	_, err := r.Coll.DeleteOne(ctx, bson.M{"orderId": orderID})
	return err
}

func (r *OrderRepository) GetBySessionID(ctx context.Context, sessionID string) (*entity.Order, error) {
	var o entity.Order
	err := r.Coll.FindOne(ctx, bson.M{"stripeSessionId": sessionID}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// MarkPaid sets the terminal paid status and the gateway transaction id.
// It sets fixed target values, so redelivered webhooks apply cleanly.
// Returns false when no order carries the session id.
func (r *OrderRepository) MarkPaid(ctx context.Context, sessionID, paymentID string) (bool, error) {
	res, err := r.Coll.UpdateOne(ctx,
		bson.M{"stripeSessionId": sessionID},
		bson.M{"$set": bson.M{
			"status":          entity.OrderPaid,
			"stripePaymentId": paymentID,
			"updatedAt":       time.Now(),
		}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// MarkExpired transitions an order to expired unless it is already paid;
// paid is terminal and a late expiry event must not downgrade it.
func (r *OrderRepository) MarkExpired(ctx context.Context, sessionID string) (bool, error) {
	res, err := r.Coll.UpdateOne(ctx,
		bson.M{"stripeSessionId": sessionID, "status": bson.M{"$ne": entity.OrderPaid}},
		bson.M{"$set": bson.M{"status": entity.OrderExpired, "updatedAt": time.Now()}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *OrderRepository) ListPaid(ctx context.Context, limit int64) ([]entity.Order, error) {
	cur, err := r.Coll.Find(ctx, bson.M{"status": entity.OrderPaid},
		options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	orders := []entity.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// ExpireStalePending sweeps orders that were created but never got a
// gateway session attached (a crash between the two checkout writes).
func (r *OrderRepository) ExpireStalePending(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := r.Coll.UpdateMany(ctx,
		bson.M{
			"status":          entity.OrderPending,
			"stripeSessionId": bson.M{"$exists": false},
			"createdAt":       bson.M{"$lt": olderThan},
		},
		bson.M{"$set": bson.M{"status": entity.OrderExpired, "updatedAt": time.Now()}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
