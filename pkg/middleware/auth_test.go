package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akajrolkar2644/Assessment/pkg/httputil"
	"github.com/akajrolkar2644/Assessment/pkg/logger"
)

func staticValidator(valid string, claims *Claims) TokenValidator {
	return func(token string) (*Claims, error) {
		if token != valid {
			return nil, errors.New("bad token")
		}
		return claims, nil
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) *httputil.ErrorResponse {
	t.Helper()
	var resp httputil.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.Error)
	return resp.Error
}

func TestAuth_RejectsMissingOrMalformedHeader(t *testing.T) {
	mw := Auth(staticValidator("good", &Claims{Subject: "admin", Role: "admin"}))
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	for _, header := range []string{"", "good", "Basic good", "Bearer bad"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/reviews", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
		assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
		assert.Equal(t, "UNAUTHORIZED", decodeError(t, rec).Code)
	}
}

func TestAuth_StoresClaimsInContext(t *testing.T) {
	mw := Auth(staticValidator("good", &Claims{Subject: "admin", Role: "admin"}))

	var subject, role, actor string
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject = SubjectFromContext(r.Context())
		role = RoleFromContext(r.Context())
		actor = logger.ActorFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer good")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "admin", subject)
	assert.Equal(t, "admin", role)
	assert.Equal(t, "admin", actor)
}

func TestRequireRole(t *testing.T) {
	chain := func(claims *Claims) http.Handler {
		return Auth(staticValidator("tok", claims))(RequireRole("admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})))
	}

	t.Run("allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer tok")
		rec := httptest.NewRecorder()
		chain(&Claims{Subject: "a", Role: "admin"}).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("wrong role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer tok")
		rec := httptest.NewRecorder()
		chain(&Claims{Subject: "a", Role: "viewer"}).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "FORBIDDEN", decodeError(t, rec).Code)
	})
}

func TestContextAccessors_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, SubjectFromContext(req.Context()))
	assert.Empty(t, RoleFromContext(req.Context()))
}
