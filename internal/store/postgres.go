package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

// dbtx defines the interface for database and transactions
type dbtx interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// PostgresConfig holds the configuration for connecting to a Postgres database
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DB       string
}

// PostgresStore implements the Store interface using a Postgres database
type PostgresStore struct {
	db dbtx
}

// NewPostgresDB creates a new Postgres database connection
func NewPostgresDB(cfg PostgresConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.DB))
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}

// NewPostgresStore creates a new PostgresStore instance
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// CreateUser inserts a new user and returns the stored row
func (s *PostgresStore) CreateUser(ctx context.Context, r CreateUserRequest) (User, error) {
	usr := User{
		UID:          uuid.NewString(),
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		Email:        r.Email,
		Role:         r.Role,
	}

	row := s.db.QueryRowContext(ctx,
		`INSERT INTO users (uid, username, password_hash, email, role)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		usr.UID, usr.Username, usr.PasswordHash, usr.Email, usr.Role)

	if err := row.Scan(&usr.ID, &usr.CreatedAt, &usr.UpdatedAt); err != nil {
		return User{}, fmt.Errorf("insert user: %w", err)
	}

	return usr, nil
}

// GetUserByUsername retrieves a user by username
func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, uid, username, password_hash, email, role, created_at, updated_at
		 FROM users
		 WHERE username=$1`, username)

	var usr User
	err := row.Scan(
		&usr.ID,
		&usr.UID,
		&usr.Username,
		&usr.PasswordHash,
		&usr.Email,
		&usr.Role,
		&usr.CreatedAt,
		&usr.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}

		return User{}, fmt.Errorf("scan: %w", err)
	}

	return usr, nil
}

// UsernameTaken reports whether a user with the given username exists
func (s *PostgresStore) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var taken bool
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM users WHERE username=$1)", username).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("scan: %w", err)
	}

	return taken, nil
}

// EmailTaken reports whether a user with the given email exists
func (s *PostgresStore) EmailTaken(ctx context.Context, email string) (bool, error) {
	var taken bool
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM users WHERE email=$1)", email).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("scan: %w", err)
	}

	return taken, nil
}

// CreatePayment inserts a new payment record and returns the stored row
func (s *PostgresStore) CreatePayment(ctx context.Context, r CreatePaymentRequest) (Payment, error) {
	p := Payment{
		ProviderID: r.ProviderID,
		Status:     r.Status,
		Amount:     r.Amount,
		Currency:   r.Currency,
		UserID:     r.UserID,
	}

	row := s.db.QueryRowContext(ctx,
		`INSERT INTO payments (payment_id, status, amount, currency, user_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		p.ProviderID, p.Status, p.Amount, p.Currency, p.UserID)

	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return Payment{}, fmt.Errorf("insert payment: %w", err)
	}

	return p, nil
}

// GetPaymentByProviderID retrieves a payment record by the provider-assigned id
func (s *PostgresStore) GetPaymentByProviderID(ctx context.Context, providerID string) (Payment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, payment_id, status, amount, currency, user_id, created_at, updated_at
		 FROM payments
		 WHERE payment_id=$1`, providerID)

	var p Payment
	err := row.Scan(
		&p.ID,
		&p.ProviderID,
		&p.Status,
		&p.Amount,
		&p.Currency,
		&p.UserID,
		&p.CreatedAt,
		&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Payment{}, ErrNotFound
		}

		return Payment{}, fmt.Errorf("scan: %w", err)
	}

	return p, nil
}

// UpdatePaymentStatus sets the status of the payment record matching the
// provider-assigned id. Returns ErrNotFound when no record matches.
func (s *PostgresStore) UpdatePaymentStatus(ctx context.Context, r UpdatePaymentStatusRequest) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE payments SET status=$1, updated_at=now() WHERE payment_id=$2",
		r.Status, r.ProviderID)
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// WithTx executes the given function within a database transaction
func (s *PostgresStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	db, ok := s.db.(*sql.DB)
	if !ok {
		return errors.New("already in transaction")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	sx := &PostgresStore{db: tx}
	if err = fn(sx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback: %v after: %w", rbErr, err)
		}

		return fmt.Errorf("transaction: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}
