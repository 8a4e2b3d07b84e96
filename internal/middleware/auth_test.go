package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perchfin/lending-engine/internal/config"
)

var authCfg = config.AuthConfig{
	JWTSecret: "test-secret",
	TokenTTL:  time.Hour,
}

func TestAuthRoundTrip(t *testing.T) {
	accountID := uuid.New()
	token, err := IssueToken(authCfg, accountID, time.Now())
	require.NoError(t, err)

	var gotID uuid.UUID
	var gotOK bool
	handler := Auth(authCfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, gotOK = AccountID(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/schedule", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, gotOK)
	assert.Equal(t, accountID, gotID)
}

func TestAuthMissingToken(t *testing.T) {
	handler := Auth(authCfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/schedule", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRejectsExpiredToken(t *testing.T) {
	accountID := uuid.New()
	token, err := IssueToken(authCfg, accountID, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	handler := Auth(authCfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/schedule", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRejectsForgedToken(t *testing.T) {
	other := config.AuthConfig{JWTSecret: "other-secret", TokenTTL: time.Hour}
	token, err := IssueToken(other, uuid.New(), time.Now())
	require.NoError(t, err)

	handler := Auth(authCfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/schedule", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
