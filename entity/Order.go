package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderItem is a snapshot of one cart line taken at checkout time.
// It deliberately copies the food fields instead of referencing the
// catalog, so later catalog edits never change a historical order.
type OrderItem struct {
	ID       string  `bson:"id,omitempty" json:"id,omitempty"`
	Name     string  `bson:"name" json:"name"`
	Price    float64 `bson:"price" json:"price"`
	Quantity int     `bson:"quantity" json:"quantity"`
	Category string  `bson:"category,omitempty" json:"category,omitempty"`
	ImageURL string  `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
}

// Order records one checkout attempt. StripeSessionID is absent until the
// gateway accepts the session and is the join key for reconciliation.
type Order struct {
	ObjectID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	OrderID         string             `bson:"orderId" json:"orderId"`
	StripeSessionID string             `bson:"stripeSessionId,omitempty" json:"stripeSessionId,omitempty"`
	StripePaymentID string             `bson:"stripePaymentId,omitempty" json:"stripePaymentId,omitempty"`
	Items           []OrderItem        `bson:"items" json:"items"`
	Amount          float64            `bson:"amount" json:"amount"`
	Currency        string             `bson:"currency" json:"currency"`
	Status          OrderStatus        `bson:"status" json:"status"`
	CustomerName    string             `bson:"customerName,omitempty" json:"customerName,omitempty"`
	CustomerEmail   string             `bson:"customerEmail,omitempty" json:"customerEmail,omitempty"`
	CustomerPhone   string             `bson:"customerPhone,omitempty" json:"customerPhone,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

const DefaultCurrency = "INR"
