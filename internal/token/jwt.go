package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserClaims are the claims carried by a login token: the subject is the
// username, Role mirrors the user's stored role.
type UserClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

type JwtIssuer struct {
	secret secretProvider
	issuer string
	ttl    time.Duration
}

type JwtConfig struct {
	Secret secretProvider
	Issuer string
	TTL    time.Duration
}

func NewJWTIssuer(cfg JwtConfig) *JwtIssuer {
	return &JwtIssuer{
		secret: cfg.Secret,
		issuer: cfg.Issuer,
		ttl:    cfg.TTL,
	}
}

func (ti *JwtIssuer) Issue(claims UserClaims) (string, error) {
	now := time.Now()
	claims.Issuer = ti.issuer
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ti.ttl))

	tk, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret.Get())
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return tk, nil
}

func (ti *JwtIssuer) Validate(raw string) (UserClaims, error) {
	var claims UserClaims
	tk, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return ti.secret.Get(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		return UserClaims{}, fmt.Errorf("parse token: %w", err)
	}
	if !tk.Valid {
		return UserClaims{}, fmt.Errorf("invalid token")
	}

	return claims, nil
}
