package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/secureflow/payment-gateway/internal/serr"
	"github.com/secureflow/payment-gateway/internal/store"
	"github.com/secureflow/payment-gateway/internal/token"
	"golang.org/x/crypto/bcrypt"
)

// tokenIssuer defines the interface for issuing and validating login tokens
type tokenIssuer interface {
	Issue(claims token.UserClaims) (string, error)
	Validate(raw string) (token.UserClaims, error)
}

// Users handles registration and credential authentication
type Users struct {
	store  store.Store
	tokens tokenIssuer
}

func NewUsers(st store.Store, tokens tokenIssuer) *Users {
	return &Users{
		store:  st,
		tokens: tokens,
	}
}

type RegisterRequest struct {
	Username string
	Password string
	Email    string
	Role     store.Role
}

// Register creates a new user with a hashed password. Duplicate usernames
// and emails are rejected with a 409 without touching the store; the check
// and the insert share one transaction.
func (s *Users) Register(ctx context.Context, r RegisterRequest) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(r.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	role := r.Role
	if role == "" {
		role = store.RoleUser
	}

	err = s.store.WithTx(ctx, func(tx store.Store) error {
		taken, err := tx.UsernameTaken(ctx, r.Username)
		if err != nil {
			return fmt.Errorf("check username: %w", err)
		}
		if taken {
			se := serr.NewServiceError(nil, http.StatusConflict, "username already exists")
			se.Env["username"] = r.Username
			return se
		}

		taken, err = tx.EmailTaken(ctx, r.Email)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if taken {
			se := serr.NewServiceError(nil, http.StatusConflict, "email already exists")
			se.Env["email"] = r.Email
			return se
		}

		if _, err := tx.CreateUser(ctx, store.CreateUserRequest{
			Username:     r.Username,
			PasswordHash: string(hash),
			Email:        r.Email,
			Role:         role,
		}); err != nil {
			return fmt.Errorf("create user: %w", err)
		}

		return nil
	})
	if err != nil {
		var se *serr.ServiceError
		if errors.As(err, &se) {
			return se
		}

		return fmt.Errorf("register user: %w", err)
	}

	return nil
}

type LoginRequest struct {
	Username string
	Password string
}

type LoginResponse struct {
	Token    string
	Username string
	Role     store.Role
}

// Login verifies the credentials and issues a signed token. The failure
// message never says whether the username or the password was wrong.
func (s *Users) Login(ctx context.Context, r LoginRequest) (LoginResponse, error) {
	usr, err := s.store.GetUserByUsername(ctx, r.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return LoginResponse{}, serr.NewServiceError(err, http.StatusUnauthorized, "invalid username or password")
		}

		return LoginResponse{}, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(r.Password)); err != nil {
		return LoginResponse{}, serr.NewServiceError(err, http.StatusUnauthorized, "invalid username or password")
	}

	tk, err := s.tokens.Issue(token.UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: usr.Username},
		Role:             string(usr.Role),
	})
	if err != nil {
		return LoginResponse{}, fmt.Errorf("issue token: %w", err)
	}

	return LoginResponse{
		Token:    tk,
		Username: usr.Username,
		Role:     usr.Role,
	}, nil
}

// ValidateToken decodes and verifies a raw bearer token, returning its
// claims. Invalid tokens map to a 400 carrying the parse error text.
func (s *Users) ValidateToken(raw string) (token.UserClaims, error) {
	claims, err := s.tokens.Validate(raw)
	if err != nil {
		return token.UserClaims{}, serr.NewServiceError(err, http.StatusBadRequest, fmt.Sprintf("invalid token: %v", err))
	}

	return claims, nil
}
