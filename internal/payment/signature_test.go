package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func sign(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyGatewaySignature(t *testing.T) {
	secret := "gw_secret"
	sig := sign("order_1", "pay_1", secret)

	if !VerifyGatewaySignature("order_1", "pay_1", sig, secret) {
		t.Fatalf("expected valid signature to verify")
	}
	if VerifyGatewaySignature("order_1", "pay_2", sig, secret) {
		t.Fatalf("signature bound to another payment id must not verify")
	}
	if VerifyGatewaySignature("order_1", "pay_1", sig, "other_secret") {
		t.Fatalf("wrong secret must not verify")
	}
	if VerifyGatewaySignature("order_1", "pay_1", "", secret) {
		t.Fatalf("empty signature must not verify")
	}
	if VerifyGatewaySignature("order_1", "pay_1", sig, "") {
		t.Fatalf("empty secret must not verify")
	}
}
