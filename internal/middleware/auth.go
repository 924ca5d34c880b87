package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/secureflow/payment-gateway/internal/router"
	"github.com/secureflow/payment-gateway/internal/token"
)

type ctxKey struct{}

var principalKey ctxKey

// Principal is the authenticated caller as decoded from the bearer token.
type Principal struct {
	Username string
	Role     string
}

type tokenValidator interface {
	Validate(raw string) (token.UserClaims, error)
}

// Auth rejects requests without a valid bearer token and stores the
// decoded principal in the request context.
func Auth(tokens tokenValidator) router.Middleware {
	return func(next http.Handler) http.Handler {
		return authMiddleware(next, tokens)
	}
}

func authMiddleware(next http.Handler, tokens tokenValidator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		raw := strings.TrimPrefix(header, "Bearer ")
		if raw == header {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		claims, err := tokens.Validate(raw)
		if err != nil {
			authError("failed to validate bearer token", w, r, err)
			return
		}

		if claims.Subject == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), principalKey, Principal{
			Username: claims.Subject,
			Role:     claims.Role,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func authError(msg string, w http.ResponseWriter, r *http.Request, err error) {
	slog.Error(msg,
		"error", err,
		"method", r.Method,
		"url", r.URL.String(),
		"remote_addr", r.RemoteAddr,
	)
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
}

func PrincipalFromContext(ctx context.Context) Principal {
	p, _ := ctx.Value(principalKey).(Principal)
	return p
}
