package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"backend/pkg/resp"
	"backend/services"
)

type PaymentController struct {
	Checkout *services.CheckoutService
}

func NewPaymentController(checkout *services.CheckoutService) *PaymentController {
	return &PaymentController{Checkout: checkout}
}

type checkoutItemReq struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Category string  `json:"category"`
	ImageURL string  `json:"imageUrl"`
}

type checkoutReq struct {
	Items      []checkoutItemReq `json:"items"`
	SuccessURL string            `json:"successUrl"`
	CancelURL  string            `json:"cancelUrl"`
}

// POST /api/payment/create-checkout-session
func (ctl *PaymentController) CreateCheckoutSession(c *gin.Context) {
	var req checkoutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, "Invalid request body")
		return
	}
	if len(req.Items) == 0 {
		resp.BadRequest(c, "No items provided")
		return
	}

	in := &services.CheckoutIn{SuccessURL: req.SuccessURL, CancelURL: req.CancelURL}
	for _, it := range req.Items {
		in.Items = append(in.Items, services.CheckoutItemIn{
			ID:       it.ID,
			Name:     it.Name,
			Price:    it.Price,
			Quantity: it.Quantity,
			Category: it.Category,
			ImageURL: it.ImageURL,
		})
	}

	out, err := ctl.Checkout.CreateSession(c.Request.Context(), in)
	switch {
	case errors.Is(err, services.ErrEmptyCart), errors.Is(err, services.ErrInvalidItem):
		resp.BadRequest(c, err.Error())
		return
	case err != nil:
		log.Printf("create checkout session: %v", err)
		resp.ServerError(c, "Failed to create checkout session")
		return
	}

	resp.OK(c, gin.H{
		"success":   true,
		"sessionId": out.SessionID,
		"url":       out.URL,
		"orderId":   out.OrderID,
	})
}

// POST /api/payment/webhook
//
// The raw body is handed to the gateway for signature verification; once
// an event parses we always acknowledge, whatever reconciliation found.
func (ctl *PaymentController) Webhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		c.String(http.StatusBadRequest, "Webhook Error: %v", err)
		return
	}

	sig := c.GetHeader("Stripe-Signature")
	if err := ctl.Checkout.HandleEvent(c.Request.Context(), payload, sig); err != nil {
		log.Printf("webhook rejected: %v", err)
		c.String(http.StatusBadRequest, "Webhook Error: %v", err)
		return
	}

	resp.OK(c, gin.H{"received": true})
}

// GET /api/payment/verify/:sessionId
func (ctl *PaymentController) Verify(c *gin.Context) {
	out, err := ctl.Checkout.Verify(c.Request.Context(), c.Param("sessionId"))
	if errors.Is(err, services.ErrOrderMissing) {
		resp.NotFound(c, "Order not found")
		return
	}
	if err != nil {
		log.Printf("verify payment: %v", err)
		resp.ServerError(c, "Failed to verify payment")
		return
	}

	resp.OK(c, gin.H{
		"success": out.Paid,
		"status":  out.Status,
		"orderId": out.OrderID,
		"order":   out.Order,
	})
}

// GET /api/payment/orders
func (ctl *PaymentController) ListPaidOrders(c *gin.Context) {
	orders, err := ctl.Checkout.ListPaidOrders(c.Request.Context())
	if err != nil {
		log.Printf("list paid orders: %v", err)
		resp.ServerError(c, "Failed to fetch orders")
		return
	}
	resp.OK(c, orders)
}
