package billing

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// API exposes order creation and payment verification over HTTP.
type API struct {
	Gateway *Gateway
	Store   *Store
}

type orderRequest struct {
	Amount   int64  `json:"amount" binding:"required,gt=0"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

func (a *API) CreateOrder(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid amount"})
		return
	}
	if req.Currency == "" {
		req.Currency = "INR"
	}

	order, err := a.Gateway.CreateOrder(req.Amount, req.Currency, req.Receipt)
	if err != nil {
		log.Error().Err(err).Str("module", "billing").Msg("order creation")
		c.JSON(http.StatusBadGateway, gin.H{"error": "order creation failed"})
		return
	}
	c.JSON(http.StatusOK, order)
}

type verifyRequest struct {
	OrderID   string `json:"orderId" binding:"required"`
	PaymentID string `json:"paymentId" binding:"required"`
	Signature string `json:"signature" binding:"required"`
	UserID    string `json:"userId" binding:"required"`
	PlanID    string `json:"planId" binding:"required"`
}

func (a *API) VerifyPayment(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing fields"})
		return
	}

	if !a.Gateway.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		log.Warn().Str("module", "billing").Str("order", req.OrderID).Msg("signature mismatch")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	sub, err := a.Store.InsertSubscription(c.Request.Context(), req.UserID, req.PlanID, req.PaymentID)
	if err != nil {
		log.Error().Err(err).Str("module", "billing").Msg("subscription insert")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "subscription not recorded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "active", "subscription": sub})
}
