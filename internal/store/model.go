package store

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type Model struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

type User struct {
	Model
	ID           int64
	UID          string
	Username     string
	PasswordHash string
	Email        string
	Role         Role
}

// Payment is one payment attempt against the provider. Status mirrors the
// provider's state vocabulary verbatim ("created", "approved", ...).
type Payment struct {
	Model
	ID         int64
	ProviderID string
	Status     string
	Amount     decimal.Decimal
	Currency   string
	UserID     int64
}
