// Package billing is the payment boundary. The relay core never depends
// on it; when gateway credentials are absent the server runs without it.
package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// Gateway wraps the payment provider SDK. Amounts are in the currency's
// smallest unit (paise for INR).
type Gateway struct {
	client *razorpay.Client
	secret string
}

func NewGateway(key, secret string) *Gateway {
	return &Gateway{client: razorpay.NewClient(key, secret), secret: secret}
}

type Order struct {
	ID       string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func (g *Gateway) CreateOrder(amount int64, currency, receipt string) (Order, error) {
	data := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	}
	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return Order{}, fmt.Errorf("create order: %w", err)
	}
	id, _ := body["id"].(string)
	if id == "" {
		return Order{}, fmt.Errorf("create order: gateway returned no id")
	}
	return Order{ID: id, Amount: amount, Currency: currency}, nil
}

// VerifySignature checks the gateway's HMAC-SHA256 over
// orderID + "|" + paymentID in constant time.
func (g *Gateway) VerifySignature(orderID, paymentID, signature string) bool {
	return verifySignature(g.secret, orderID, paymentID, signature)
}

func verifySignature(secret, orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
