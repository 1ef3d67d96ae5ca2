package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/upb/spaces-control-plane/internal/auth"
	"github.com/upb/spaces-control-plane/middleware"
	"github.com/upb/spaces-control-plane/models"
	"github.com/upb/spaces-control-plane/services"
	"github.com/upb/spaces-control-plane/utils"
)

// SignInRequest is the body of POST /auth/sign-in
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest is the body of POST /auth/refresh and POST /auth/sign-out.
// An empty token is rejected by the service as token_missing.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// CurrentUserResponse describes the caller as seen in its access token
type CurrentUserResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Profile   string      `json:"profile"`
	Role      models.Role `json:"role"`
	ExpiresAt string      `json:"expires_at,omitempty"`
}

// AuthService defines the authentication operations the handler needs
type AuthService interface {
	SignIn(ctx context.Context, email, password string) (*auth.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error)
	SignOut(ctx context.Context, refreshToken string) error
}

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	service AuthService
	logger  *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger,
	}
}

// HandleSignIn handles POST /api/v1/auth/sign-in
func (h *AuthHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SignInRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Debug("sign-in request rejected",
			zap.String("request_id", middleware.GetRequestIDFromContext(ctx)),
			zap.Error(err))
		HandleValidationError(w, err, h.logger)
		return
	}

	pair, err := h.service.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, pair)
}

// HandleRefresh handles POST /api/v1/auth/refresh
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	pair, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, pair)
}

// HandleSignOut handles POST /api/v1/auth/sign-out
func (h *AuthHandler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	if err := h.service.SignOut(r.Context(), req.RefreshToken); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	utils.WriteNoContent(w)
}

// HandleMe handles GET /api/v1/auth/me
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r.Context())
	if claims == nil {
		HandleServiceError(w, services.ErrTokenMissing, h.logger)
		return
	}

	resp := CurrentUserResponse{
		ID:      claims.Subject,
		Name:    claims.User.Name,
		Email:   claims.User.Email,
		Profile: claims.Profile.Name,
		Role:    claims.Role(),
	}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.UTC().Format(time.RFC3339)
	}

	_ = utils.WriteOK(w, resp)
}
