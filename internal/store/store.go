package store

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("not found")
)

type Store interface {
	CreateUser(ctx context.Context, r CreateUserRequest) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	CreatePayment(ctx context.Context, r CreatePaymentRequest) (Payment, error)
	GetPaymentByProviderID(ctx context.Context, providerID string) (Payment, error)
	UpdatePaymentStatus(ctx context.Context, r UpdatePaymentStatusRequest) error
	WithTx(ctx context.Context, fn func(tx Store) error) error
}

type CreateUserRequest struct {
	Username     string
	PasswordHash string
	Email        string
	Role         Role
}

type CreatePaymentRequest struct {
	ProviderID string
	Status     string
	Amount     decimal.Decimal
	Currency   string
	UserID     int64
}

type UpdatePaymentStatusRequest struct {
	ProviderID string
	Status     string
}
