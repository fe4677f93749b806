package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchara/installment-service/internal/config"
)

func signToken(t *testing.T, secret, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}

	var operator string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		operator, _ = r.Context().Value("operator").(string)
	})

	req := httptest.NewRequest("GET", "/plans", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "test-secret", "narin"))
	rec := httptest.NewRecorder()

	AuthMiddleware(cfg)(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "narin", operator)
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	})

	req := httptest.NewRequest("GET", "/plans", nil)
	rec := httptest.NewRecorder()

	AuthMiddleware(cfg)(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	})

	req := httptest.NewRequest("GET", "/plans", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "other-secret", "narin"))
	rec := httptest.NewRecorder()

	AuthMiddleware(cfg)(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
