package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func TestIssueAndParseToken(t *testing.T) {
	tok, err := IssueToken("user-1", secret, time.Hour)
	require.NoError(t, err)

	userID, err := ParseToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	_, err = ParseToken(tok, "other-secret")
	assert.Error(t, err)

	expired, err := IssueToken("user-1", secret, -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(expired, secret)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestAuthMiddleware(t *testing.T) {
	var gotUser string
	h := AuthMiddleware(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = UserID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	exp := jwt.NewNumericDate(time.Now().Add(time.Hour))

	valid, err := IssueToken("user-1", secret, time.Hour)
	require.NoError(t, err)
	expired, err := IssueToken("user-1", secret, -time.Hour)
	require.NoError(t, err)
	otherKey := sign(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"user_id": "user-1", "exp": exp})
	noUser := sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": "user-1", "exp": exp})
	noExpiry := sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"user_id": "user-1"})
	hs512 := sign(t, jwt.SigningMethodHS512, []byte(secret), jwt.MapClaims{"user_id": "user-1", "exp": exp})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", "Bearer " + valid, http.StatusNoContent},
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong key", "Bearer " + otherKey, http.StatusUnauthorized},
		{"no user claim", "Bearer " + noUser, http.StatusUnauthorized},
		{"no expiry", "Bearer " + noExpiry, http.StatusUnauthorized},
		{"other hmac alg", "Bearer " + hs512, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUser = ""
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusNoContent {
				assert.Equal(t, "user-1", gotUser)
			}
		})
	}
}
