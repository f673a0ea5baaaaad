// Package payment talks to the external payment gateway: creating remote
// payment intents and verifying the signature the gateway hands back after
// the client completes a payment.
package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

type Client struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
}

func NewClient(baseURL, keyID, keySecret string) *Client {
	return &Client{
		baseURL:   baseURL,
		keyID:     keyID,
		keySecret: keySecret,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type createIntentRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type createIntentResponse struct {
	ID string `json:"id"`
}

// CreateIntent registers a payment intent for the amount and returns the
// gateway-assigned identifier. The gateway wants the amount in minor units
// (paise for INR), so the decimal is scaled by 100 before the call.
func (c *Client) CreateIntent(ctx context.Context, amount decimal.Decimal, currency, receipt string) (string, error) {
	body := createIntentRequest{
		Amount:   amount.Mul(decimal.NewFromInt(100)).IntPart(),
		Currency: currency,
		Receipt:  receipt,
	}

	buf, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encode intent request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(buf))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	var result createIntentResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if result.ID == "" {
		return "", fmt.Errorf("gateway returned empty intent id")
	}

	return result.ID, nil
}

// VerifySignature recomputes HMAC-SHA256 over "orderID|paymentID" with the
// shared secret and compares in constant time.
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Sign produces the signature the gateway would send for the pair; used by
// tests and local tooling.
func (c *Client) Sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
