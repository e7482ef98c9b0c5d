package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"parish-app-go/internal/config"
	staffdomain "parish-app-go/internal/domain/staff"
	"parish-app-go/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecorder struct {
	err    error
	logins []string
}

func (f *fakeRecorder) RecordLogin(_ context.Context, userID, email, name string) (*staffdomain.Account, error) {
	f.logins = append(f.logins, userID+"|"+email+"|"+name)
	return &staffdomain.Account{UserID: userID}, f.err
}

func newIdentityServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("apikey") != "test-key" || r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":            "user-1",
			"email":         "clerk@parish.org",
			"user_metadata": map[string]interface{}{"full_name": "Parish Clerk"},
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func protected(t *testing.T, auth *StaffAuth) http.Handler {
	t.Helper()
	return auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		require.True(t, ok)
		id, ok := UserIDFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, user.ID, id)
		w.WriteHeader(http.StatusNoContent)
	}))
}

func TestStaffAuthValidToken(t *testing.T) {
	server := newIdentityServer(t)
	recorder := &fakeRecorder{}
	auth := NewStaffAuth(config.AuthConfig{URL: server.URL + "/", APIKey: "test-key"}, recorder, logger.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/members", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	protected(t, auth).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"user-1|clerk@parish.org|Parish Clerk"}, recorder.logins)
}

func TestStaffAuthRejectsBadTokens(t *testing.T) {
	server := newIdentityServer(t)
	auth := NewStaffAuth(config.AuthConfig{URL: server.URL, APIKey: "test-key"}, nil, nil)

	for _, header := range []string{"", "Bearer", "Basic good", "Bearer bad"} {
		req := httptest.NewRequest(http.MethodGet, "/api/members", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		protected(t, auth).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
	}
}

func TestStaffAuthDisabledAccount(t *testing.T) {
	recorder := &fakeRecorder{err: staffdomain.ErrAccountInactive}
	auth := NewStaffAuth(config.AuthConfig{SkipAuth: true, MockUserID: "mock"}, recorder, nil)

	rec := httptest.NewRecorder()
	protected(t, auth).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/members", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "account_disabled")
}

func TestStaffAuthRecordFailure(t *testing.T) {
	recorder := &fakeRecorder{err: errors.New("db down")}

	lenient := NewStaffAuth(config.AuthConfig{SkipAuth: true, MockUserID: "mock"}, recorder, nil)
	rec := httptest.NewRecorder()
	protected(t, lenient).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	strict := NewStaffAuth(config.AuthConfig{SkipAuth: true, MockUserID: "mock", RequireAccount: true}, recorder, nil)
	rec = httptest.NewRecorder()
	protected(t, strict).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestStaffAuthNotConfigured(t *testing.T) {
	auth := NewStaffAuth(config.AuthConfig{SkipAuth: true}, nil, nil)
	rec := httptest.NewRecorder()
	protected(t, auth).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	auth = NewStaffAuth(config.AuthConfig{}, nil, nil)
	rec = httptest.NewRecorder()
	protected(t, auth).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
