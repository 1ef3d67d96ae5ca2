package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/upb/spaces-control-plane/models"
	"github.com/upb/spaces-control-plane/utils"
)

// CreateRoomRequest represents a request to create a room
type CreateRoomRequest struct {
	AreaID   uuid.UUID `json:"area_id" validate:"required"`
	Name     string    `json:"name" validate:"required,max=120"`
	Capacity int       `json:"capacity" validate:"gte=0"`
}

// RoomService defines the room operations the handler needs
type RoomService interface {
	Create(ctx context.Context, areaID uuid.UUID, name string, capacity int) (*models.Room, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Room, error)
	List(ctx context.Context, areaID *uuid.UUID, limit, offset int) ([]*models.Room, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// RoomHandler handles room HTTP requests
type RoomHandler struct {
	service RoomService
	logger  *zap.Logger
}

// NewRoomHandler creates a new RoomHandler
func NewRoomHandler(service RoomService, logger *zap.Logger) *RoomHandler {
	return &RoomHandler{
		service: service,
		logger:  logger,
	}
}

// HandleCreate handles POST /api/v1/rooms
func (h *RoomHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateRoomRequest
	if err := decodeJSON(w, r, &req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	room, err := h.service.Create(r.Context(), req.AreaID, req.Name, req.Capacity)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteCreated(w, room)
}

// HandleList handles GET /api/v1/rooms, optionally filtered by ?area_id=
func (h *RoomHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := pageParams(r)
	if err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	var areaID *uuid.UUID
	if raw := r.URL.Query().Get("area_id"); raw != "" {
		id, err := utils.ParseUUID(raw, "area_id")
		if err != nil {
			HandleValidationError(w, err, h.logger)
			return
		}
		areaID = &id
	}

	rooms, err := h.service.List(r.Context(), areaID, limit, offset)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, rooms)
}

// HandleGet handles GET /api/v1/rooms/{id}
func (h *RoomHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	room, err := h.service.Get(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, room)
}

// HandleDelete handles DELETE /api/v1/rooms/{id}
func (h *RoomHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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
