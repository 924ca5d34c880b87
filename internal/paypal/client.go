// Package paypal is a minimal client for the PayPal payments v1 REST API:
// client-credentials token exchange plus payment create/execute/get.
package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

var (
	ErrMissingCredentials = errors.New("paypal credentials are not configured")
	ErrAuthFailed         = errors.New("paypal token exchange failed")
)

type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration

	// HTTPClient overrides the default client; used by tests.
	HTTPClient *http.Client
}

type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client

	// Single-slot token cache. The reuse token source behind it tracks
	// expiry and re-exchanges credentials when the token goes stale.
	mu     sync.Mutex
	tokens oauth2.TokenSource
}

func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:      strings.TrimSuffix(cfg.BaseURL, "/"),
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		httpClient:   httpClient,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) WebhookVerifyURL() string {
	return c.baseURL + "/v1/notifications/verify-webhook-signature"
}

// AccessToken returns a bearer token for the provider API, performing the
// client-credentials exchange when no valid token is cached.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	ts, err := c.tokenSource()
	if err != nil {
		return "", err
	}

	tok, err := ts.Token()
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) {
			return "", fmt.Errorf("%w: %v", ErrAuthFailed, err)
		}

		return "", fmt.Errorf("fetch access token: %w", err)
	}

	return tok.AccessToken, nil
}

func (c *Client) tokenSource() (oauth2.TokenSource, error) {
	if strings.TrimSpace(c.clientID) == "" {
		return nil, fmt.Errorf("%w: client id", ErrMissingCredentials)
	}
	if strings.TrimSpace(c.clientSecret) == "" {
		return nil, fmt.Errorf("%w: client secret", ErrMissingCredentials)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.tokens == nil {
		cfg := &clientcredentials.Config{
			ClientID:     c.clientID,
			ClientSecret: c.clientSecret,
			TokenURL:     c.baseURL + "/v1/oauth2/token",
			AuthStyle:    oauth2.AuthStyleInHeader,
		}

		tctx := context.WithValue(context.Background(), oauth2.HTTPClient, c.httpClient)
		c.tokens = cfg.TokenSource(tctx)
	}

	return c.tokens, nil
}

// CreatePayment creates a sale payment and returns the provider's payment
// object, including the links the payer must follow for approval.
func (c *Client) CreatePayment(ctx context.Context, r CreatePaymentRequest) (Payment, error) {
	payload := createPaymentPayload{
		Intent: "sale",
		Payer:  payer{PaymentMethod: "paypal"},
		Transactions: []Transaction{{
			Amount: Amount{
				Currency: r.Currency,
				Total:    r.Amount.StringFixed(2),
			},
			Description: r.Description,
		}},
		RedirectURLs: redirectURLs{
			CancelURL: r.CancelURL,
			ReturnURL: r.SuccessURL,
		},
	}

	var p Payment
	if err := c.do(ctx, http.MethodPost, "/v1/payments/payment", payload, http.StatusCreated, &p); err != nil {
		return Payment{}, fmt.Errorf("create payment: %w", err)
	}

	return p, nil
}

// ExecutePayment confirms a payer-approved payment.
func (c *Client) ExecutePayment(ctx context.Context, paymentID, payerID string) (Payment, error) {
	payload := executePaymentPayload{PayerID: payerID}

	var p Payment
	path := fmt.Sprintf("/v1/payments/payment/%s/execute", paymentID)
	if err := c.do(ctx, http.MethodPost, path, payload, http.StatusOK, &p); err != nil {
		return Payment{}, fmt.Errorf("execute payment %s: %w", paymentID, err)
	}

	return p, nil
}

// GetPayment fetches the provider's current view of a payment.
func (c *Client) GetPayment(ctx context.Context, paymentID string) (Payment, error) {
	var p Payment
	path := fmt.Sprintf("/v1/payments/payment/%s", paymentID)
	if err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK, &p); err != nil {
		return Payment{}, fmt.Errorf("get payment %s: %w", paymentID, err)
	}

	return p, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, wantStatus int, out any) error {
	tok, err := c.AccessToken(ctx)
	if err != nil {
		return err
	}

	var reqBody io.Reader
	if body != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return fmt.Errorf("encode payload: %w", err)
		}
		reqBody = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
