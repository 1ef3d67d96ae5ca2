package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/upb/spaces-control-plane/internal/auth"
	"github.com/upb/spaces-control-plane/models"
	"github.com/upb/spaces-control-plane/services"
	"github.com/upb/spaces-control-plane/utils"
)

// MockAuthorizer is a mock implementation of Authorizer
type MockAuthorizer struct {
	mock.Mock
}

func (m *MockAuthorizer) Authorize(routeID, bearerToken string) auth.Decision {
	args := m.Called(routeID, bearerToken)
	return args.Get(0).(auth.Decision)
}

func adminClaims(sub string) *auth.AccessClaims {
	c := &auth.AccessClaims{
		User:    auth.UserClaims{Name: "Ana", Email: "ana@example.com"},
		Profile: auth.ProfileClaims{Name: "Administrators", Role: models.RoleAdmin},
	}
	c.Subject = sub
	return c
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) utils.ErrorResponse {
	t.Helper()
	var resp utils.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestEnforce(t *testing.T) {
	logger := zap.NewNop()
	route := auth.RouteID(http.MethodPost, "/api/v1/areas")

	t.Run("allowed request carries claims", func(t *testing.T) {
		gate := new(MockAuthorizer)
		sub := uuid.New()
		claims := adminClaims(sub.String())
		gate.On("Authorize", route, "valid-token").
			Return(auth.Decision{Outcome: auth.OutcomeAllow, Claims: claims})

		handler := NewAuthMiddleware(gate, logger).Enforce(route)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Same(t, claims, GetClaimsFromContext(r.Context()))

			id, ok := GetUserIDFromContext(r.Context())
			assert.True(t, ok)
			assert.Equal(t, sub, id)
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/areas", nil)
		req.Header.Set("Authorization", "Bearer valid-token")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		gate.AssertExpectations(t)
	})

	t.Run("public allow has no claims", func(t *testing.T) {
		gate := new(MockAuthorizer)
		gate.On("Authorize", route, "").Return(auth.Decision{Outcome: auth.OutcomeAllow})

		called := false
		handler := NewAuthMiddleware(gate, logger).Enforce(route)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			assert.Nil(t, GetClaimsFromContext(r.Context()))
			_, ok := GetUserIDFromContext(r.Context())
			assert.False(t, ok)
		}))

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/areas", nil))

		assert.True(t, called)
	})

	tests := []struct {
		name         string
		header       string
		token        string
		decision     auth.Decision
		expectedCode int
		expectedErr  string
	}{
		{
			name:         "missing token",
			decision:     auth.Decision{Outcome: auth.OutcomeUnauthorized, Reason: auth.ErrTokenMissing},
			expectedCode: http.StatusUnauthorized,
			expectedErr:  services.ErrTokenMissing.Code,
		},
		{
			name:         "non-bearer scheme is treated as missing",
			header:       "Basic dXNlcjpwYXNz",
			decision:     auth.Decision{Outcome: auth.OutcomeUnauthorized, Reason: auth.ErrTokenMissing},
			expectedCode: http.StatusUnauthorized,
			expectedErr:  services.ErrTokenMissing.Code,
		},
		{
			name:   "expired token",
			header: "Bearer expired",
			token:  "expired",
			decision: auth.Decision{
				Outcome: auth.OutcomeUnauthorized,
				Reason:  fmt.Errorf("%w: %w", auth.ErrTokenInvalid, auth.ErrTokenExpired),
			},
			expectedCode: http.StatusUnauthorized,
			expectedErr:  services.ErrTokenInvalid.Code,
		},
		{
			name:   "role not permitted",
			header: "Bearer scheduler",
			token:  "scheduler",
			decision: auth.Decision{
				Outcome: auth.OutcomeDeny,
				Reason:  auth.ErrRoleNotPermitted,
				Claims:  adminClaims("u"),
			},
			expectedCode: http.StatusForbidden,
			expectedErr:  services.ErrRoleNotPermitted.Code,
		},
		{
			name:         "unregistered route",
			header:       "bearer tok",
			token:        "tok",
			decision:     auth.Decision{Outcome: auth.OutcomeDeny, Reason: auth.ErrRouteNotRegistered},
			expectedCode: http.StatusForbidden,
			expectedErr:  "forbidden",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := new(MockAuthorizer)
			gate.On("Authorize", route, tt.token).Return(tt.decision)

			handler := NewAuthMiddleware(gate, logger).Enforce(route)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("handler should not be called")
			}))

			req := httptest.NewRequest(http.MethodPost, "/api/v1/areas", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)
			assert.Equal(t, tt.expectedErr, decodeError(t, w).Error)
			gate.AssertExpectations(t)
		})
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected string
	}{
		{name: "valid bearer token", header: "Bearer abc123", expected: "abc123"},
		{name: "case insensitive scheme", header: "BEARER abc123", expected: "abc123"},
		{name: "surrounding whitespace trimmed", header: "Bearer   abc123  ", expected: "abc123"},
		{name: "missing header", header: "", expected: ""},
		{name: "wrong scheme", header: "Basic abc123", expected: ""},
		{name: "no token", header: "Bearer", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.expected, extractBearerToken(req))
		})
	}
}

func TestRequestMeta(t *testing.T) {
	var got services.RequestMeta
	var gotID string

	handler := chimiddleware.RequestID(RequestMeta(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = services.RequestMetaFromContext(r.Context())
		gotID = GetRequestIDFromContext(r.Context())
	})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set(chimiddleware.RequestIDHeader, "req-42")

	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "req-42", got.RequestID)
	assert.Equal(t, "req-42", gotID)
	assert.Equal(t, "10.1.2.3", got.IPAddress)
	assert.Equal(t, "test-agent", got.UserAgent)
}

func TestClientIP(t *testing.T) {
	assert.Equal(t, "192.168.0.1", clientIP("192.168.0.1:8080"))
	assert.Equal(t, "::1", clientIP("[::1]:8080"))
	assert.Equal(t, "not-an-addr", clientIP("not-an-addr"))
}
