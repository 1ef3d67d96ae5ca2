package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/upb/spaces-control-plane/models"
	"github.com/upb/spaces-control-plane/utils"
)

// CreateAreaRequest represents a request to create an area
type CreateAreaRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description" validate:"max=500"`
}

// AreaService defines the area operations the handler needs
type AreaService interface {
	Create(ctx context.Context, name, description string) (*models.Area, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Area, error)
	List(ctx context.Context, limit, offset int) ([]*models.Area, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AreaHandler handles area HTTP requests
type AreaHandler struct {
	service AreaService
	logger  *zap.Logger
}

// NewAreaHandler creates a new AreaHandler
func NewAreaHandler(service AreaService, logger *zap.Logger) *AreaHandler {
	return &AreaHandler{
		service: service,
		logger:  logger,
	}
}

// HandleCreate handles POST /api/v1/areas
func (h *AreaHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateAreaRequest
	if err := decodeJSON(w, r, &req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	area, err := h.service.Create(r.Context(), req.Name, req.Description)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteCreated(w, area)
}

// HandleList handles GET /api/v1/areas
func (h *AreaHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := pageParams(r)
	if err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	areas, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, areas)
}

// HandleGet handles GET /api/v1/areas/{id}
func (h *AreaHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	area, err := h.service.Get(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, area)
}

// HandleDelete handles DELETE /api/v1/areas/{id}
func (h *AreaHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	utils.WriteNoContent(w)
}
