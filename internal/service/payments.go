package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/secureflow/payment-gateway/internal/idem"
	"github.com/secureflow/payment-gateway/internal/paypal"
	"github.com/secureflow/payment-gateway/internal/store"
	"github.com/shopspring/decimal"
)

var (
	ErrPaymentCreation  = errors.New("payment creation failed")
	ErrPaymentExecution = errors.New("payment execution failed")
	ErrPaymentQuery     = errors.New("payment query failed")
)

// providerClient defines the interface for the payment provider API
type providerClient interface {
	CreatePayment(ctx context.Context, r paypal.CreatePaymentRequest) (paypal.Payment, error)
	ExecutePayment(ctx context.Context, paymentID, payerID string) (paypal.Payment, error)
	GetPayment(ctx context.Context, paymentID string) (paypal.Payment, error)
}

// idempotencyStore defines the interface for replaying payment creation
// results keyed by a client-supplied idempotency key
type idempotencyStore interface {
	Save(ctx context.Context, key string, p idem.CreatedPayment) error
	Load(ctx context.Context, key string) (idem.CreatedPayment, error)
}

// Payments orchestrates payment creation and execution against the provider
// and keeps the local payment records in step with the provider's state.
type Payments struct {
	provider providerClient
	store    store.Store
	idem     idempotencyStore
}

// PaymentsOption defines a functional option for configuring the Payments service
type PaymentsOption func(*Payments) *Payments

func WithProvider(p providerClient) PaymentsOption {
	return func(s *Payments) *Payments {
		s.provider = p
		return s
	}
}

func WithStore(st store.Store) PaymentsOption {
	return func(s *Payments) *Payments {
		s.store = st
		return s
	}
}

// WithIdempotency enables idempotency-key replay; without it duplicate
// create calls open duplicate provider payments.
func WithIdempotency(is idempotencyStore) PaymentsOption {
	return func(s *Payments) *Payments {
		s.idem = is
		return s
	}
}

// NewPayments creates a new Payments service with the provided options
func NewPayments(opts ...PaymentsOption) *Payments {
	s := &Payments{}
	for _, opt := range opts {
		s = opt(s)
	}

	if s.provider == nil {
		panic("provider client is required")
	}

	if s.store == nil {
		panic("store is required")
	}

	return s
}

type CreatePaymentRequest struct {
	Amount         decimal.Decimal
	Currency       string
	Description    string
	CancelURL      string
	SuccessURL     string
	IdempotencyKey string
}

type CreatePaymentResponse struct {
	PaymentID   string
	ApprovalURL string
}

// Create creates a payment with the provider, persists one record owned by
// the named caller and returns the approval URL the payer must visit. The
// caller is passed in explicitly; nothing is read from ambient state. The
// record is only written when the provider response carries an approval
// link; any failure surfaces as ErrPaymentCreation with its cause.
func (s *Payments) Create(ctx context.Context, username string, r CreatePaymentRequest) (CreatePaymentResponse, error) {
	if s.idem != nil && r.IdempotencyKey != "" {
		prev, err := s.idem.Load(ctx, r.IdempotencyKey)
		if err == nil {
			slog.Info("replaying payment creation for idempotency key",
				"payment_id", prev.ProviderID)
			return CreatePaymentResponse{
				PaymentID:   prev.ProviderID,
				ApprovalURL: prev.ApprovalURL,
			}, nil
		}
		if !errors.Is(err, idem.ErrNotFound) {
			return CreatePaymentResponse{}, fmt.Errorf("%w: %v", ErrPaymentCreation, err)
		}
	}

	usr, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return CreatePaymentResponse{}, fmt.Errorf("%w: %v", ErrPaymentCreation, err)
	}

	p, err := s.provider.CreatePayment(ctx, paypal.CreatePaymentRequest{
		Amount:      r.Amount,
		Currency:    r.Currency,
		Description: r.Description,
		CancelURL:   r.CancelURL,
		SuccessURL:  r.SuccessURL,
	})
	if err != nil {
		return CreatePaymentResponse{}, fmt.Errorf("%w: %v", ErrPaymentCreation, err)
	}

	approvalURL, ok := p.ApprovalURL()
	if !ok {
		return CreatePaymentResponse{}, fmt.Errorf("%w: approval url not found", ErrPaymentCreation)
	}

	err = s.store.WithTx(ctx, func(tx store.Store) error {
		_, err := tx.CreatePayment(ctx, store.CreatePaymentRequest{
			ProviderID: p.ID,
			Status:     p.State,
			Amount:     r.Amount,
			Currency:   r.Currency,
			UserID:     usr.ID,
		})
		return err
	})
	if err != nil {
		return CreatePaymentResponse{}, fmt.Errorf("%w: %v", ErrPaymentCreation, err)
	}

	slog.Info("payment created", "payment_id", p.ID, "state", p.State)

	if s.idem != nil && r.IdempotencyKey != "" {
		if err := s.idem.Save(ctx, r.IdempotencyKey, idem.CreatedPayment{
			ProviderID:  p.ID,
			ApprovalURL: approvalURL,
		}); err != nil {
			// The payment exists either way; a failed replay write only
			// loses dedup for this key.
			slog.Warn("failed to store idempotency key", "error", err, "payment_id", p.ID)
		}
	}

	return CreatePaymentResponse{
		PaymentID:   p.ID,
		ApprovalURL: approvalURL,
	}, nil
}

// Execute confirms a payer-approved payment and mirrors the provider's
// reported state onto the local record. A missing local record is logged
// and ignored; provider failures surface as ErrPaymentExecution.
func (s *Payments) Execute(ctx context.Context, paymentID, payerID string) error {
	p, err := s.provider.ExecutePayment(ctx, paymentID, payerID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPaymentExecution, err)
	}

	err = s.store.WithTx(ctx, func(tx store.Store) error {
		return tx.UpdatePaymentStatus(ctx, store.UpdatePaymentStatusRequest{
			ProviderID: paymentID,
			Status:     p.State,
		})
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slog.Warn("no local record for executed payment", "payment_id", paymentID)
			return nil
		}

		return fmt.Errorf("%w: %v", ErrPaymentExecution, err)
	}

	slog.Info("payment executed", "payment_id", paymentID, "state", p.State)
	return nil
}

// Completed reports whether the stored record's status equals "approved",
// ignoring case. A payment with no record is not completed.
func (s *Payments) Completed(ctx context.Context, paymentID string) (bool, error) {
	p, err := s.store.GetPaymentByProviderID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}

		return false, fmt.Errorf("get payment: %w", err)
	}

	return strings.EqualFold(p.Status, "approved"), nil
}

// Cancel is a no-op: the provider API offers no cancel operation for
// payments, so there is nothing to call. Kept to document the limitation.
func (s *Payments) Cancel(paymentID string) {
	slog.Warn("provider API does not support cancelling a payment", "payment_id", paymentID)
}

// Details proxies the provider's view of a payment.
func (s *Payments) Details(ctx context.Context, paymentID string) (paypal.Payment, error) {
	p, err := s.provider.GetPayment(ctx, paymentID)
	if err != nil {
		return paypal.Payment{}, fmt.Errorf("%w: %v", ErrPaymentQuery, err)
	}

	return p, nil
}
