package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/upb/spaces-control-plane/models"
	"github.com/upb/spaces-control-plane/services"
)

func TestAreaHandler(t *testing.T) {
	logger := zap.NewNop()

	t.Run("create", func(t *testing.T) {
		svc := new(MockAreaService)
		area := models.NewArea("North Wing", "Second floor")
		svc.On("Create", mock.Anything, "North Wing", "Second floor").Return(area, nil)

		req := jsonRequest(t, http.MethodPost, "/api/v1/areas",
			CreateAreaRequest{Name: "North Wing", Description: "Second floor"})
		w := httptest.NewRecorder()

		NewAreaHandler(svc, logger).HandleCreate(w, req)

		require.Equal(t, http.StatusCreated, w.Code)

		var body struct {
			Data models.Area `json:"data"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, area.ID, body.Data.ID)
	})

	t.Run("create duplicate", func(t *testing.T) {
		svc := new(MockAreaService)
		svc.On("Create", mock.Anything, "North Wing", "").Return(nil, services.ErrDuplicateArea)

		req := jsonRequest(t, http.MethodPost, "/api/v1/areas", CreateAreaRequest{Name: "North Wing"})
		w := httptest.NewRecorder()

		NewAreaHandler(svc, logger).HandleCreate(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "duplicate_area", decodeErrorResponse(t, w).Error)
	})

	t.Run("list passes pagination", func(t *testing.T) {
		svc := new(MockAreaService)
		svc.On("List", mock.Anything, 10, 20).Return([]*models.Area{models.NewArea("A", "")}, nil)

		w := httptest.NewRecorder()
		NewAreaHandler(svc, logger).HandleList(w, httptest.NewRequest(http.MethodGet, "/api/v1/areas?limit=10&offset=20", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("list rejects bad pagination", func(t *testing.T) {
		svc := new(MockAreaService)

		w := httptest.NewRecorder()
		NewAreaHandler(svc, logger).HandleList(w, httptest.NewRequest(http.MethodGet, "/api/v1/areas?limit=-1", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeErrorResponse(t, w).Details, "limit")
	})

	t.Run("get not found", func(t *testing.T) {
		svc := new(MockAreaService)
		id := uuid.New()
		svc.On("Get", mock.Anything, id).Return(nil, services.ErrAreaNotFound)

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/areas/"+id.String(), nil), "id", id.String())
		w := httptest.NewRecorder()

		NewAreaHandler(svc, logger).HandleGet(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "area_not_found", decodeErrorResponse(t, w).Error)
	})

	t.Run("get with invalid id", func(t *testing.T) {
		svc := new(MockAreaService)

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/areas/nope", nil), "id", "nope")
		w := httptest.NewRecorder()

		NewAreaHandler(svc, logger).HandleGet(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("delete", func(t *testing.T) {
		svc := new(MockAreaService)
		id := uuid.New()
		svc.On("Delete", mock.Anything, id).Return(nil)

		req := withURLParam(httptest.NewRequest(http.MethodDelete, "/api/v1/areas/"+id.String(), nil), "id", id.String())
		w := httptest.NewRecorder()

		NewAreaHandler(svc, logger).HandleDelete(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestRoomHandler(t *testing.T) {
	logger := zap.NewNop()
	areaID := uuid.New()

	t.Run("create", func(t *testing.T) {
		svc := new(MockRoomService)
		room := models.NewRoom(areaID, "R-101", 12)
		svc.On("Create", mock.Anything, areaID, "R-101", 12).Return(room, nil)

		req := jsonRequest(t, http.MethodPost, "/api/v1/rooms",
			CreateRoomRequest{AreaID: areaID, Name: "R-101", Capacity: 12})
		w := httptest.NewRecorder()

		NewRoomHandler(svc, logger).HandleCreate(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("create requires area", func(t *testing.T) {
		svc := new(MockRoomService)

		req := jsonRequest(t, http.MethodPost, "/api/v1/rooms", CreateRoomRequest{Name: "R-101"})
		w := httptest.NewRecorder()

		NewRoomHandler(svc, logger).HandleCreate(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeErrorResponse(t, w).Details, "area_id")
	})

	t.Run("create in missing area", func(t *testing.T) {
		svc := new(MockRoomService)
		svc.On("Create", mock.Anything, areaID, "R-101", 4).Return(nil, services.ErrAreaNotFound)

		req := jsonRequest(t, http.MethodPost, "/api/v1/rooms",
			CreateRoomRequest{AreaID: areaID, Name: "R-101", Capacity: 4})
		w := httptest.NewRecorder()

		NewRoomHandler(svc, logger).HandleCreate(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("list filtered by area", func(t *testing.T) {
		svc := new(MockRoomService)
		svc.On("List", mock.Anything, mock.MatchedBy(func(id *uuid.UUID) bool {
			return id != nil && *id == areaID
		}), 0, 0).Return([]*models.Room{}, nil)

		w := httptest.NewRecorder()
		NewRoomHandler(svc, logger).HandleList(w, httptest.NewRequest(http.MethodGet, "/api/v1/rooms?area_id="+areaID.String(), nil))

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("list unfiltered", func(t *testing.T) {
		svc := new(MockRoomService)
		svc.On("List", mock.Anything, (*uuid.UUID)(nil), 0, 0).Return([]*models.Room{}, nil)

		w := httptest.NewRecorder()
		NewRoomHandler(svc, logger).HandleList(w, httptest.NewRequest(http.MethodGet, "/api/v1/rooms", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("list with invalid area filter", func(t *testing.T) {
		svc := new(MockRoomService)

		w := httptest.NewRecorder()
		NewRoomHandler(svc, logger).HandleList(w, httptest.NewRequest(http.MethodGet, "/api/v1/rooms?area_id=x", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("delete not found", func(t *testing.T) {
		svc := new(MockRoomService)
		id := uuid.New()
		svc.On("Delete", mock.Anything, id).Return(services.ErrRoomNotFound)

		req := withURLParam(httptest.NewRequest(http.MethodDelete, "/api/v1/rooms/"+id.String(), nil), "id", id.String())
		w := httptest.NewRecorder()

		NewRoomHandler(svc, logger).HandleDelete(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "room_not_found", decodeErrorResponse(t, w).Error)
	})

	t.Run("get", func(t *testing.T) {
		svc := new(MockRoomService)
		room := models.NewRoom(areaID, "R-1", 2)
		svc.On("Get", mock.Anything, room.ID).Return(room, nil)

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/rooms/"+room.ID.String(), nil), "id", room.ID.String())
		w := httptest.NewRecorder()

		NewRoomHandler(svc, logger).HandleGet(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestUserHandler(t *testing.T) {
	logger := zap.NewNop()
	profileID := uuid.New()

	t.Run("create hides the password hash", func(t *testing.T) {
		svc := new(MockUserService)
		user := models.NewUser("Ana", "ana@example.com", "$2a$10$hash", profileID)
		svc.On("Create", mock.Anything, "Ana", "ana@example.com", "long-password", profileID).Return(user, nil)

		req := jsonRequest(t, http.MethodPost, "/api/v1/users", CreateUserRequest{
			Name: "Ana", Email: "ana@example.com", Password: "long-password", ProfileID: profileID,
		})
		w := httptest.NewRecorder()

		NewUserHandler(svc, logger).HandleCreate(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		assert.NotContains(t, w.Body.String(), "$2a$10$hash")
		assert.NotContains(t, w.Body.String(), "password")
	})

	t.Run("short password", func(t *testing.T) {
		svc := new(MockUserService)

		req := jsonRequest(t, http.MethodPost, "/api/v1/users", CreateUserRequest{
			Name: "Ana", Email: "ana@example.com", Password: "short", ProfileID: profileID,
		})
		w := httptest.NewRecorder()

		NewUserHandler(svc, logger).HandleCreate(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeErrorResponse(t, w).Details, "password")
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, profileID).
			Return(nil, services.ErrDuplicateEmail)

		req := jsonRequest(t, http.MethodPost, "/api/v1/users", CreateUserRequest{
			Name: "Ana", Email: "ana@example.com", Password: "long-password", ProfileID: profileID,
		})
		w := httptest.NewRecorder()

		NewUserHandler(svc, logger).HandleCreate(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "duplicate_email", decodeErrorResponse(t, w).Error)
	})

	t.Run("list profiles", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("ListProfiles", mock.Anything, 5, 0).
			Return([]*models.Profile{models.NewProfile("Admins", models.RoleAdmin, "")}, nil)

		w := httptest.NewRecorder()
		NewUserHandler(svc, logger).HandleListProfiles(w, httptest.NewRequest(http.MethodGet, "/api/v1/profiles?limit=5", nil))

		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Data []models.Profile `json:"data"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		require.Len(t, body.Data, 1)
		assert.Equal(t, models.RoleAdmin, body.Data[0].Role)
	})
}
