package rest

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/secureflow/payment-gateway/internal/httpx"
	"github.com/secureflow/payment-gateway/internal/middleware"
	"github.com/secureflow/payment-gateway/internal/service"
	"github.com/secureflow/payment-gateway/internal/store"
	"github.com/secureflow/payment-gateway/internal/token"
	"github.com/shopspring/decimal"
)

type usersService interface {
	Register(ctx context.Context, r service.RegisterRequest) error
	Login(ctx context.Context, r service.LoginRequest) (service.LoginResponse, error)
	ValidateToken(raw string) (token.UserClaims, error)
}

type paymentsService interface {
	Create(ctx context.Context, username string, r service.CreatePaymentRequest) (service.CreatePaymentResponse, error)
	Execute(ctx context.Context, paymentID, payerID string) error
	Cancel(paymentID string)
}

type tokenValidator interface {
	Validate(raw string) (token.UserClaims, error)
}

type API struct {
	users    usersService
	payments paymentsService
	mux      *http.ServeMux
}

func NewAPI(users usersService, payments paymentsService, tokens tokenValidator) *API {
	api := &API{
		users:    users,
		payments: payments,
		mux:      http.NewServeMux(),
	}
	api.mount(tokens)
	return api
}

func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mux.ServeHTTP(w, r)
}

func (a *API) mount(tokens tokenValidator) {
	a.mux.HandleFunc("POST /auth/register", a.handleRegister)
	a.mux.HandleFunc("POST /auth/login", a.handleLogin)
	a.mux.HandleFunc("GET /auth/validate-test", a.handleValidateToken)
	a.mux.Handle("POST /payment/create", middleware.Auth(tokens)(http.HandlerFunc(a.handleCreatePayment)))
	a.mux.HandleFunc("GET /payment/success", a.handlePaymentSuccess)
	a.mux.HandleFunc("GET /payment/cancel", a.handlePaymentCancel)
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type registerResponse struct {
	Message string `json:"message"`
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.ReadJSON(r, &req); err != nil {
		httpx.HandleErr(w, r, fmt.Errorf("read request json: %w", err))
		return
	}

	err := a.users.Register(r.Context(), service.RegisterRequest{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Role:     store.Role(req.Role),
	})
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	err = httpx.WriteJSON(w, http.StatusOK, registerResponse{
		Message: "user registered successfully",
	})
	if err != nil {
		httpx.HandleErr(w, r, fmt.Errorf("write response json: %w", err))
		return
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.ReadJSON(r, &req); err != nil {
		httpx.HandleErr(w, r, fmt.Errorf("read request json: %w", err))
		return
	}

	resp, err := a.users.Login(r.Context(), service.LoginRequest{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	err = httpx.WriteJSON(w, http.StatusOK, loginResponse{
		Token:    resp.Token,
		Username: resp.Username,
		Role:     string(resp.Role),
	})
	if err != nil {
		httpx.HandleErr(w, r, fmt.Errorf("write response json: %w", err))
		return
	}
}

type validateTokenResponse struct {
	Username  string `json:"username"`
	Role      string `json:"role"`
	ExpiresAt string `json:"expires_at"`
}

func (a *API) handleValidateToken(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

	claims, err := a.users.ValidateToken(raw)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	resp := validateTokenResponse{
		Username: claims.Subject,
		Role:     claims.Role,
	}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.UTC().Format(time.RFC3339)
	}

	if err := httpx.WriteJSON(w, http.StatusOK, resp); err != nil {
		httpx.HandleErr(w, r, fmt.Errorf("write response json: %w", err))
		return
	}
}

type createPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
	CancelURL   string          `json:"cancelUrl"`
	SuccessURL  string          `json:"successUrl"`
}

type createPaymentResponse struct {
	Status      string `json:"status"`
	ApprovalURL string `json:"approval_url,omitempty"`
	Message     string `json:"message,omitempty"`
}

// handleCreatePayment reports failures as a 200-style JSON envelope with a
// 500 status and the raw error text in the message field; clients depend on
// seeing the underlying cause here.
func (a *API) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	var req createPaymentRequest
	if err := httpx.ReadJSON(r, &req); err != nil {
		httpx.HandleErr(w, r, fmt.Errorf("read request json: %w", err))
		return
	}

	principal := middleware.PrincipalFromContext(r.Context())

	resp, err := a.payments.Create(r.Context(), principal.Username, service.CreatePaymentRequest{
		Amount:         req.Amount,
		Currency:       req.Currency,
		Description:    req.Description,
		CancelURL:      req.CancelURL,
		SuccessURL:     req.SuccessURL,
		IdempotencyKey: r.Header.Get("Idempotency-Key"),
	})
	if err != nil {
		writeErr := httpx.WriteJSON(w, http.StatusInternalServerError, createPaymentResponse{
			Status:  "error",
			Message: err.Error(),
		})
		if writeErr != nil {
			httpx.HandleErr(w, r, fmt.Errorf("write response json: %w", writeErr))
		}
		return
	}

	err = httpx.WriteJSON(w, http.StatusOK, createPaymentResponse{
		Status:      "created",
		ApprovalURL: resp.ApprovalURL,
	})
	if err != nil {
		httpx.HandleErr(w, r, fmt.Errorf("write response json: %w", err))
		return
	}
}

type executePaymentResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	PaymentID string `json:"paymentId,omitempty"`
}

func (a *API) handlePaymentSuccess(w http.ResponseWriter, r *http.Request) {
	paymentID := r.URL.Query().Get("paymentId")
	payerID := r.URL.Query().Get("PayerID")

	err := a.payments.Execute(r.Context(), paymentID, payerID)
	if err != nil {
		writeErr := httpx.WriteJSON(w, http.StatusInternalServerError, executePaymentResponse{
			Status:  "error",
			Message: err.Error(),
		})
		if writeErr != nil {
			httpx.HandleErr(w, r, fmt.Errorf("write response json: %w", writeErr))
		}
		return
	}

	err = httpx.WriteJSON(w, http.StatusOK, executePaymentResponse{
		Status:    "success",
		Message:   "payment completed successfully",
		PaymentID: paymentID,
	})
	if err != nil {
		httpx.HandleErr(w, r, fmt.Errorf("write response json: %w", err))
		return
	}
}

func (a *API) handlePaymentCancel(w http.ResponseWriter, r *http.Request) {
	a.payments.Cancel(r.URL.Query().Get("paymentId"))

	err := httpx.WriteJSON(w, http.StatusOK, executePaymentResponse{
		Status:  "cancelled",
		Message: "payment cancelled by user",
	})
	if err != nil {
		httpx.HandleErr(w, r, fmt.Errorf("write response json: %w", err))
		return
	}
}
