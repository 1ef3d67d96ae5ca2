package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/upb/spaces-control-plane/models"
	"github.com/upb/spaces-control-plane/repositories"
)

// RoomService manages rooms
type RoomService struct {
	txMgr  repositories.TransactionManager
	areas  repositories.AreaRepository
	rooms  repositories.RoomRepository
	logger *zap.Logger
}

// NewRoomService creates a new RoomService
func NewRoomService(txMgr repositories.TransactionManager, areas repositories.AreaRepository, rooms repositories.RoomRepository, logger *zap.Logger) *RoomService {
	return &RoomService{
		txMgr:  txMgr,
		areas:  areas,
		rooms:  rooms,
		logger: logger,
	}
}

// createRoomTx runs the area check and the room insert as one serializable
// unit, so an area deleted concurrently fails the commit.
var createRoomTx = repositories.TxOptions{Serializable: true}

// Create adds a room to an existing area. The area check and the insert
// share one transaction.
func (s *RoomService) Create(ctx context.Context, areaID uuid.UUID, name string, capacity int) (*models.Room, error) {
	if capacity < 0 {
		return nil, NewDomainError(ErrorTypeValidation, "capacity must not be negative", nil).
			WithDetail("capacity", capacity)
	}

	room, err := WithTransactionResult(ctx, s.txMgr, createRoomTx, func(ctx context.Context, tx repositories.Transaction) (*models.Room, error) {
		if _, err := s.areas.WithTx(tx).GetByID(ctx, areaID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrAreaNotFound
			}
			return nil, WrapInternal("failed to get area", err)
		}

		room := models.NewRoom(areaID, name, capacity)
		if err := s.rooms.WithTx(tx).Create(ctx, room); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return nil, ErrDuplicateRoom.Wrap(err)
			}
			return nil, WrapInternal("failed to create room", err)
		}
		return room, nil
	})
	if err != nil {
		var domainErr *DomainError
		if !errors.As(err, &domainErr) {
			return nil, WrapInternal("room transaction failed", err)
		}
		return nil, err
	}

	s.logger.Info("room created",
		zap.String("room_id", room.ID.String()),
		zap.String("area_id", areaID.String()))
	return room, nil
}

// Get returns a room by id
func (s *RoomService) Get(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, WrapInternal("failed to get room", err)
	}
	return room, nil
}

// List returns a page of rooms, optionally within one area
func (s *RoomService) List(ctx context.Context, areaID *uuid.UUID, limit, offset int) ([]*models.Room, error) {
	limit, offset = normalizePage(limit, offset)
	rooms, err := s.rooms.List(ctx, areaID, limit, offset)
	if err != nil {
		return nil, WrapInternal("failed to list rooms", err)
	}
	return rooms, nil
}

// Delete removes a room
func (s *RoomService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.rooms.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrRoomNotFound
		}
		return WrapInternal("failed to delete room", err)
	}

	s.logger.Info("room deleted", zap.String("room_id", id.String()))
	return nil
}
