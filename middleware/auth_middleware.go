package middleware

import (
	"errors"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/upb/spaces-control-plane/internal/auth"
	"github.com/upb/spaces-control-plane/internal/observability"
	"github.com/upb/spaces-control-plane/services"
	"github.com/upb/spaces-control-plane/utils"
)

var gateDecisions metric.Int64Counter

func init() {
	m := observability.Meter("middleware")

	var err error
	gateDecisions, err = m.Int64Counter("auth_gate_decisions_total",
		metric.WithDescription("Route authorization decisions, by outcome and reason"))
	if err != nil {
		panic(err)
	}
}

// Authorizer decides whether a bearer token may call a route
type Authorizer interface {
	Authorize(routeID, bearerToken string) auth.Decision
}

// AuthMiddleware translates gate decisions into HTTP responses
type AuthMiddleware struct {
	gate   Authorizer
	logger *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(gate Authorizer, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		gate:   gate,
		logger: logger,
	}
}

// Enforce returns a middleware that applies the policy registered for routeID.
// Allowed requests continue with the verified claims in their context.
func (m *AuthMiddleware) Enforce(routeID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := GetRequestIDFromContext(ctx)

			decision := m.gate.Authorize(routeID, extractBearerToken(r))
			reason := auth.Reason(decision.Reason)

			gateDecisions.Add(ctx, 1, metric.WithAttributes(
				attribute.String("outcome", decision.Outcome.String()),
				attribute.String("reason", reason),
			))

			switch decision.Outcome {
			case auth.OutcomeAllow:
				if decision.Claims != nil {
					ctx = WithClaims(ctx, decision.Claims)
					m.logger.Debug("request authorized",
						zap.String("request_id", requestID),
						zap.String("route", routeID),
						zap.String("sub", decision.Claims.Subject),
						zap.String("role", string(decision.Claims.Role())))
				}
				next.ServeHTTP(w, r.WithContext(ctx))

			case auth.OutcomeUnauthorized:
				m.logger.Warn("request unauthenticated",
					zap.String("request_id", requestID),
					zap.String("route", routeID),
					zap.String("reason", reason))
				if errors.Is(decision.Reason, auth.ErrTokenMissing) {
					_ = utils.WriteErrorCode(w, http.StatusUnauthorized,
						services.ErrTokenMissing.Code, "Missing or invalid authorization", nil)
					return
				}
				_ = utils.WriteErrorCode(w, http.StatusUnauthorized,
					services.ErrTokenInvalid.Code, "Invalid or expired token", nil)

			default:
				fields := []zap.Field{
					zap.String("request_id", requestID),
					zap.String("route", routeID),
					zap.String("reason", reason),
				}
				if decision.Claims != nil {
					fields = append(fields,
						zap.String("sub", decision.Claims.Subject),
						zap.String("role", string(decision.Claims.Role())))
				}
				m.logger.Warn("insufficient permissions", fields...)

				if errors.Is(decision.Reason, auth.ErrRoleNotPermitted) {
					_ = utils.WriteErrorCode(w, http.StatusForbidden,
						services.ErrRoleNotPermitted.Code, "Insufficient permissions", nil)
					return
				}
				_ = utils.WriteForbidden(w, "Insufficient permissions")
			}
		})
	}
}

// extractBearerToken extracts the Bearer token from the Authorization header
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	// Check if it starts with "Bearer "
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
