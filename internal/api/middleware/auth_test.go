package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"trustguard/internal/config"
)

func authedRequest(key string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	if key != "" {
		r.Header.Set("Authorization", "Bearer "+key)
	}
	return r
}

func TestAPIKeyAuth(t *testing.T) {
	cfg := config.AuthConfig{
		APIKeys:   []string{"client-key"},
		AdminKeys: []string{"admin-key"},
	}

	var gotKey string
	var gotAdmin bool
	handler := APIKeyAuth(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = GetAPIKey(r.Context())
		gotAdmin = IsAdmin(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		key        string
		wantStatus int
		wantAdmin  bool
	}{
		{"client key accepted", "client-key", http.StatusOK, false},
		{"admin key accepted", "admin-key", http.StatusOK, true},
		{"unknown key rejected", "wrong-key", http.StatusUnauthorized, false},
		{"missing header rejected", "", http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotKey, gotAdmin = "", false
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, authedRequest(tt.key))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.key, gotKey)
				assert.Equal(t, tt.wantAdmin, gotAdmin)
			}
		})
	}
}

func TestAPIKeyAuthMalformedHeader(t *testing.T) {
	cfg := config.AuthConfig{APIKeys: []string{"client-key"}}
	handler := APIKeyAuth(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	r := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	r.Header.Set("Authorization", "client-key")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminAuth(t *testing.T) {
	cfg := config.AuthConfig{
		APIKeys:   []string{"client-key"},
		AdminKeys: []string{"admin-key"},
	}
	handler := APIKeyAuth(cfg)(AdminAuth()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest("admin-key"))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest("client-key"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
