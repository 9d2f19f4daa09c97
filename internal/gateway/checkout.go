package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Статусы оплаты checkout-сессии.
const (
	PaymentStatusPaid   = "paid"
	PaymentStatusUnpaid = "unpaid"
)

// ErrGateway возвращается при любой ошибке общения с платёжным шлюзом:
// сетевой сбой, таймаут или код ответа >= 400.
var ErrGateway = errors.New("payment gateway error")

// Session описывает созданную checkout-сессию платёжного шлюза.
type Session struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	PaymentStatus string `json:"payment_status"`
}

// CheckoutClient — клиент Stripe Checkout API. Суммы передаются
// в минимальных единицах валюты (копейки/центы).
type CheckoutClient struct {
	baseURL    string
	apiKey     string
	currency   string
	httpClient *http.Client
}

// NewCheckoutClient создаёт клиент шлюза.
func NewCheckoutClient(apiKey string, timeout time.Duration) *CheckoutClient {
	return &CheckoutClient{
		baseURL:  "https://api.stripe.com/v1",
		apiKey:   apiKey,
		currency: "usd",
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// CreateSession создаёт checkout-сессию на указанную сумму и возвращает
// её идентификатор и URL для редиректа пользователя.
func (c *CheckoutClient) CreateSession(ctx context.Context, amount decimal.Decimal, successURL, cancelURL string) (*Session, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", successURL)
	form.Set("cancel_url", cancelURL)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", c.currency)
	form.Set("line_items[0][price_data][product_data][name]", "Пополнение баланса")
	form.Set("line_items[0][price_data][unit_amount]", minorUnits(amount))

	return c.do(ctx, http.MethodPost, "/checkout/sessions", form)
}

// GetSession возвращает состояние checkout-сессии.
func (c *CheckoutClient) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	return c.do(ctx, http.MethodGet, "/checkout/sessions/"+url.PathEscape(sessionID), nil)
}

func (c *CheckoutClient) do(ctx context.Context, method, path string, form url.Values) (*Session, error) {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("gateway: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway: %w: %w", ErrGateway, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errorBody struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errorBody)
		return nil, fmt.Errorf("gateway: %w: код ответа %d: %s", ErrGateway, resp.StatusCode, errorBody.Error.Message)
	}

	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("gateway: %w: %w", ErrGateway, err)
	}
	return &session, nil
}

func minorUnits(amount decimal.Decimal) string {
	return amount.Shift(2).Truncate(0).String()
}
