package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	const secret = "test-secret"

	for name, tc := range map[string]struct {
		orderID, paymentID, signature string
		want                          bool
	}{
		"valid":            {"order_1", "pay_1", sign(secret, "order_1", "pay_1"), true},
		"tampered order":   {"order_2", "pay_1", sign(secret, "order_1", "pay_1"), false},
		"tampered payment": {"order_1", "pay_2", sign(secret, "order_1", "pay_1"), false},
		"wrong secret":     {"order_1", "pay_1", sign("other", "order_1", "pay_1"), false},
		"empty signature":  {"order_1", "pay_1", "", false},
	} {
		t.Run(name, func(t *testing.T) {
			if got := verifySignature(secret, tc.orderID, tc.paymentID, tc.signature); got != tc.want {
				t.Fatalf("verifySignature = %v, want %v", got, tc.want)
			}
		})
	}
}
