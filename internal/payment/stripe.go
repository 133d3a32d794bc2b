// Package payment предоставляет клиент платёжного шлюза Stripe.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmeshcher/orderdesk/internal/model"
)

// DefaultBaseURL задаёт адрес API Stripe по умолчанию.
const DefaultBaseURL = "https://api.stripe.com"

// ErrNotConfigured возвращается, если не задан секретный ключ.
var ErrNotConfigured = errors.New("payment gateway not configured")

// StripeClient списывает деньги через Charges API Stripe.
type StripeClient struct {
	baseURL    string
	secretKey  string
	currency   string
	httpClient *http.Client
}

type chargeResponse struct {
	ID   string `json:"id"`
	Paid bool   `json:"paid"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewStripeClient создаёт клиент Stripe. Пустой baseURL означает DefaultBaseURL.
func NewStripeClient(baseURL, secretKey string) *StripeClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &StripeClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
		currency:  "usd",
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// Charge выполняет списание. Amount передаётся в минимальных единицах валюты.
func (c *StripeClient) Charge(ctx context.Context, charge model.Charge) (*model.ChargeResult, error) {
	if c == nil || c.secretKey == "" {
		return nil, ErrNotConfigured
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(charge.Amount, 10))
	form.Set("currency", c.currency)
	form.Set("source", charge.Source)
	form.Set("description", charge.Description)
	form.Set("metadata[orderId]", charge.OrderID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/charges", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(c.secretKey, "")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Idempotency-Key", charge.OrderID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var e errorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&e); decodeErr == nil && e.Error.Message != "" {
			return nil, fmt.Errorf("unexpected status: %d: %s", resp.StatusCode, e.Error.Message)
		}
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result chargeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &model.ChargeResult{
		TransactionID: result.ID,
		Paid:          result.Paid,
	}, nil
}
