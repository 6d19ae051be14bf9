// simgateway posts a signed payment callback to a local server, standing in
// for the real gateway during development.
package main

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

func main() {
	var (
		url       = flag.String("url", "", "callback endpoint url (defaults to http://localhost<HTTP_ADDR>/v1/payments/callback)")
		bookingID = flag.Int64("booking", 0, "booking id")
		orderID   = flag.String("order", "order_dev_1", "gateway order id")
		paymentID = flag.String("payment", "pay_dev_1", "gateway payment id")
		amount    = flag.String("amount", "", "captured amount, e.g. 12500.00")
		secret    = flag.String("secret", "", "GATEWAY_KEY_SECRET")
		tamper    = flag.Bool("tamper", false, "send a deliberately bad signature")
	)
	flag.Parse()

	if *url == "" {
		httpAddr := os.Getenv("HTTP_ADDR")
		if httpAddr == "" {
			httpAddr = ":8081"
		}
		if len(httpAddr) > 0 && httpAddr[0] == ':' {
			*url = "http://localhost" + httpAddr + "/v1/payments/callback"
		} else {
			*url = "http://localhost:8081/v1/payments/callback"
		}
	}

	if *secret == "" {
		fmt.Fprintln(os.Stderr, "missing -secret")
		os.Exit(2)
	}
	if *bookingID == 0 || *amount == "" {
		fmt.Fprintln(os.Stderr, "missing -booking or -amount")
		os.Exit(2)
	}

	sig := sign(*orderID, *paymentID, *secret)
	if *tamper {
		sig = sign(*orderID, *paymentID, *secret+"x")
	}

	body, _ := json.Marshal(map[string]any{
		"bookingId":        *bookingID,
		"gatewayOrderId":   *orderID,
		"gatewayPaymentId": *paymentID,
		"signature":        sig,
		"amount":           *amount,
	})

	c := &http.Client{Timeout: 10 * time.Second}
	resp, err := c.Post(*url, "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Fprintf(os.Stderr, "post: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	out, _ := io.ReadAll(resp.Body)
	fmt.Printf("status=%d\n%s\n", resp.StatusCode, string(out))
}

func sign(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
