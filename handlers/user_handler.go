package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/upb/spaces-control-plane/models"
	"github.com/upb/spaces-control-plane/utils"
)

// CreateUserRequest represents a request to register a user
type CreateUserRequest struct {
	Name      string    `json:"name" validate:"required,max=120"`
	Email     string    `json:"email" validate:"required,email"`
	Password  string    `json:"password" validate:"required,min=8,max=72"`
	ProfileID uuid.UUID `json:"profile_id" validate:"required"`
}

// UserService defines the user and profile operations the handler needs
type UserService interface {
	Create(ctx context.Context, name, email, password string, profileID uuid.UUID) (*models.User, error)
	ListProfiles(ctx context.Context, limit, offset int) ([]*models.Profile, error)
}

// UserHandler handles user and profile HTTP requests
type UserHandler struct {
	service UserService
	logger  *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(service UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger,
	}
}

// HandleCreate handles POST /api/v1/users
func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	user, err := h.service.Create(r.Context(), req.Name, req.Email, req.Password, req.ProfileID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteCreated(w, user)
}

// HandleListProfiles handles GET /api/v1/profiles
func (h *UserHandler) HandleListProfiles(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := pageParams(r)
	if err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	profiles, err := h.service.ListProfiles(r.Context(), limit, offset)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, profiles)
}
