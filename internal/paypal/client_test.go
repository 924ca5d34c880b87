package paypal

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type providerFixture struct {
	srv         *httptest.Server
	tokenCalls  int
	lastCreate  map[string]any
	lastExecute map[string]any
}

func newProviderFixture(t *testing.T) *providerFixture {
	t.Helper()

	f := &providerFixture{}
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls++

		user, pass, ok := r.BasicAuth()
		if !ok || user != "client-id" || pass != "client-secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		require.NoError(t, r.ParseForm())
		require.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "test-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})

	mux.HandleFunc("POST /v1/payments/payment", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&f.lastCreate))

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":    "PAY-1",
			"state": "created",
			"links": []map[string]string{
				{"rel": "self", "href": "https://provider/payment/PAY-1"},
				{"rel": "approval_url", "href": "https://provider/pay/PAY-1"},
			},
		})
	})

	mux.HandleFunc("POST /v1/payments/payment/{id}/execute", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&f.lastExecute))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":    r.PathValue("id"),
			"state": "approved",
		})
	})

	mux.HandleFunc("GET /v1/payments/payment/{id}", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":    r.PathValue("id"),
			"state": "created",
			"transactions": []map[string]any{
				{"amount": map[string]string{"currency": "USD", "total": "19.99"}},
			},
		})
	})

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *providerFixture) client() *Client {
	return NewClient(Config{
		BaseURL:      f.srv.URL,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		HTTPClient:   f.srv.Client(),
	})
}

func TestAccessToken_MissingClientID(t *testing.T) {
	c := NewClient(Config{
		BaseURL:      "https://provider",
		ClientSecret: "client-secret",
	})

	_, err := c.AccessToken(t.Context())
	require.ErrorIs(t, err, ErrMissingCredentials)
}

func TestAccessToken_MissingClientSecret(t *testing.T) {
	c := NewClient(Config{
		BaseURL:  "https://provider",
		ClientID: "client-id",
	})

	_, err := c.AccessToken(t.Context())
	require.ErrorIs(t, err, ErrMissingCredentials)
}

func TestAccessToken_ExchangeRejected(t *testing.T) {
	f := newProviderFixture(t)

	c := NewClient(Config{
		BaseURL:      f.srv.URL,
		ClientID:     "client-id",
		ClientSecret: "wrong-secret",
		HTTPClient:   f.srv.Client(),
	})

	_, err := c.AccessToken(t.Context())
	require.ErrorIs(t, err, ErrAuthFailed)
}

func TestAccessToken_CachedAcrossCalls(t *testing.T) {
	f := newProviderFixture(t)
	c := f.client()

	tok, err := c.AccessToken(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "test-token", tok)

	_, err = c.AccessToken(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, f.tokenCalls)
}

func TestCreatePayment(t *testing.T) {
	f := newProviderFixture(t)
	c := f.client()

	p, err := c.CreatePayment(t.Context(), CreatePaymentRequest{
		Amount:      decimal.RequireFromString("19.99"),
		Currency:    "USD",
		Description: "test order",
		CancelURL:   "https://shop/cancel",
		SuccessURL:  "https://shop/success",
	})
	require.NoError(t, err)

	assert.Equal(t, "PAY-1", p.ID)
	assert.Equal(t, "created", p.State)

	url, ok := p.ApprovalURL()
	require.True(t, ok)
	assert.Equal(t, "https://provider/pay/PAY-1", url)

	assert.Equal(t, "sale", f.lastCreate["intent"])
	txs := f.lastCreate["transactions"].([]any)
	require.Len(t, txs, 1)
	amount := txs[0].(map[string]any)["amount"].(map[string]any)
	assert.Equal(t, "19.99", amount["total"])
	assert.Equal(t, "USD", amount["currency"])
	redirect := f.lastCreate["redirect_urls"].(map[string]any)
	assert.Equal(t, "https://shop/cancel", redirect["cancel_url"])
	assert.Equal(t, "https://shop/success", redirect["return_url"])
}

func TestCreatePayment_RoundsAmountToTwoDecimals(t *testing.T) {
	f := newProviderFixture(t)
	c := f.client()

	_, err := c.CreatePayment(t.Context(), CreatePaymentRequest{
		Amount:   decimal.RequireFromString("20"),
		Currency: "USD",
	})
	require.NoError(t, err)

	txs := f.lastCreate["transactions"].([]any)
	amount := txs[0].(map[string]any)["amount"].(map[string]any)
	assert.Equal(t, "20.00", amount["total"])
}

func TestExecutePayment(t *testing.T) {
	f := newProviderFixture(t)
	c := f.client()

	p, err := c.ExecutePayment(t.Context(), "PAY-1", "PAYER-9")
	require.NoError(t, err)

	assert.Equal(t, "approved", p.State)
	assert.Equal(t, "PAYER-9", f.lastExecute["payer_id"])
}

func TestGetPayment(t *testing.T) {
	f := newProviderFixture(t)
	c := f.client()

	p, err := c.GetPayment(t.Context(), "PAY-1")
	require.NoError(t, err)

	assert.Equal(t, "PAY-1", p.ID)
	assert.Equal(t, "created", p.State)
	require.Len(t, p.Transactions, 1)
	assert.Equal(t, "19.99", p.Transactions[0].Amount.Total)
}

func TestWebhookVerifyURL(t *testing.T) {
	c := NewClient(Config{BaseURL: "https://provider/"})
	assert.Equal(t, "https://provider/v1/notifications/verify-webhook-signature", c.WebhookVerifyURL())
	assert.Equal(t, "https://provider", c.BaseURL())
}
