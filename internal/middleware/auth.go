package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/perchfin/lending-engine/internal/config"
	"github.com/perchfin/lending-engine/pkg/response"
)

type contextKey string

const accountIDKey contextKey = "account_id"

// IssueToken signs a JWT for an account.
func IssueToken(cfg config.AuthConfig, accountID uuid.UUID, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   accountID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// Auth validates the bearer token and stores the account id in the request
// context.
func Auth(cfg config.AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				response.Unauthorized(w, "missing bearer token")
				return
			}

			token, err := jwt.ParseWithClaims(
				strings.TrimPrefix(header, "Bearer "),
				&jwt.RegisteredClaims{},
				func(t *jwt.Token) (interface{}, error) {
					return []byte(cfg.JWTSecret), nil
				},
				jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			)
			if err != nil || !token.Valid {
				response.Unauthorized(w, "invalid token")
				return
			}

			claims, ok := token.Claims.(*jwt.RegisteredClaims)
			if !ok {
				response.Unauthorized(w, "invalid token claims")
				return
			}
			accountID, err := uuid.Parse(claims.Subject)
			if err != nil {
				response.Unauthorized(w, "invalid token subject")
				return
			}

			ctx := context.WithValue(r.Context(), accountIDKey, accountID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccountID extracts the authenticated account id from the request context.
func AccountID(r *http.Request) (uuid.UUID, bool) {
	id, ok := r.Context().Value(accountIDKey).(uuid.UUID)
	return id, ok
}
