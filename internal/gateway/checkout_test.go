package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testClient(serverURL string) *CheckoutClient {
	c := NewCheckoutClient("sk_test_key", 5*time.Second)
	c.baseURL = serverURL
	return c
}

func TestCheckoutClient_CreateSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/checkout/sessions", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "payment", r.PostForm.Get("mode"))
		assert.Equal(t, "https://app.example.com/ok", r.PostForm.Get("success_url"))
		// 125.50 передаётся в минимальных единицах.
		assert.Equal(t, "12550", r.PostForm.Get("line_items[0][price_data][unit_amount]"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_test_1","url":"https://checkout.stripe.com/pay/cs_test_1","payment_status":"unpaid"}`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	session, err := client.CreateSession(context.Background(), decimal.NewFromFloat(125.50), "https://app.example.com/ok", "https://app.example.com/cancel")
	assert.NoError(t, err)
	assert.Equal(t, "cs_test_1", session.ID)
	assert.Equal(t, "https://checkout.stripe.com/pay/cs_test_1", session.URL)
	assert.Equal(t, PaymentStatusUnpaid, session.PaymentStatus)
}

func TestCheckoutClient_GetSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/checkout/sessions/cs_test_2", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_test_2","payment_status":"paid"}`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	session, err := client.GetSession(context.Background(), "cs_test_2")
	assert.NoError(t, err)
	assert.Equal(t, PaymentStatusPaid, session.PaymentStatus)
}

func TestCheckoutClient_ErrorResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":{"message":"Your card was declined."}}`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.GetSession(context.Background(), "cs_declined")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrGateway))
	assert.Contains(t, err.Error(), "Your card was declined.")
}

func TestCheckoutClient_NetworkError(t *testing.T) {
	client := testClient("http://127.0.0.1:1")

	_, err := client.GetSession(context.Background(), "cs_any")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrGateway))
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, "100050", minorUnits(decimal.NewFromFloat(1000.50)))
	assert.Equal(t, "100", minorUnits(decimal.NewFromInt(1)))
	assert.Equal(t, "1234", minorUnits(decimal.NewFromFloat(12.34)))
}
