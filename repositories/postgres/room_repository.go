package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/upb/spaces-control-plane/models"
	"github.com/upb/spaces-control-plane/repositories"
	"go.uber.org/zap"
)

// RoomRepository implements the repositories.RoomRepository interface
type RoomRepository struct {
	db     *DB
	tx     *Transaction
	logger *zap.Logger
}

// NewRoomRepository creates a new room repository
func NewRoomRepository(db *DB, logger *zap.Logger) repositories.RoomRepository {
	return &RoomRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new room
func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	query := `
		INSERT INTO rooms (id, area_id, name, capacity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	executor := GetExecutor(r.db, r.tx)
	_, err := executor.ExecContext(ctx, query,
		room.ID,
		room.AreaID,
		room.Name,
		room.Capacity,
		room.CreatedAt,
		room.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("room %q in area %s: %w", room.Name, room.AreaID, repositories.ErrDuplicate)
		}
		return fmt.Errorf("failed to create room: %w", err)
	}

	r.logger.Debug("room created",
		zap.String("id", room.ID.String()),
		zap.String("area_id", room.AreaID.String()),
	)
	return nil
}

// GetByID retrieves a room by ID
func (r *RoomRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	query := `
		SELECT id, area_id, name, capacity, created_at, updated_at
		FROM rooms
		WHERE id = $1
	`

	executor := GetExecutor(r.db, r.tx)
	room := &models.Room{}

	err := executor.QueryRowContext(ctx, query, id).Scan(
		&room.ID,
		&room.AreaID,
		&room.Name,
		&room.Capacity,
		&room.CreatedAt,
		&room.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("room %s: %w", id, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	return room, nil
}

// List retrieves rooms with pagination. A nil areaID lists every area.
func (r *RoomRepository) List(ctx context.Context, areaID *uuid.UUID, limit, offset int) ([]*models.Room, error) {
	query := `
		SELECT id, area_id, name, capacity, created_at, updated_at
		FROM rooms
		ORDER BY name ASC
		LIMIT $1 OFFSET $2
	`
	args := []interface{}{limit, offset}

	if areaID != nil {
		query = `
			SELECT id, area_id, name, capacity, created_at, updated_at
			FROM rooms
			WHERE area_id = $1
			ORDER BY name ASC
			LIMIT $2 OFFSET $3
		`
		args = []interface{}{*areaID, limit, offset}
	}

	executor := GetExecutor(r.db, r.tx)
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer rows.Close()

	var rooms []*models.Room
	for rows.Next() {
		room := &models.Room{}
		if err := rows.Scan(
			&room.ID,
			&room.AreaID,
			&room.Name,
			&room.Capacity,
			&room.CreatedAt,
			&room.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		rooms = append(rooms, room)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating room rows: %w", err)
	}

	return rooms, nil
}

// Delete deletes a room
func (r *RoomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM rooms WHERE id = $1`

	executor := GetExecutor(r.db, r.tx)
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("room %s: %w", id, repositories.ErrNotFound)
	}

	r.logger.Debug("room deleted", zap.String("id", id.String()))
	return nil
}

// WithTx returns a new repository instance bound to the transaction
func (r *RoomRepository) WithTx(tx repositories.Transaction) repositories.RoomRepository {
	return &RoomRepository{
		db:     r.db,
		tx:     asTransaction(tx),
		logger: r.logger,
	}
}
