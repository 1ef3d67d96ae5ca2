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

// AreaRepository implements the repositories.AreaRepository interface
type AreaRepository struct {
	db     *DB
	tx     *Transaction
	logger *zap.Logger
}

// NewAreaRepository creates a new area repository
func NewAreaRepository(db *DB, logger *zap.Logger) repositories.AreaRepository {
	return &AreaRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new area
func (r *AreaRepository) Create(ctx context.Context, area *models.Area) error {
	query := `
		INSERT INTO areas (id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	executor := GetExecutor(r.db, r.tx)
	_, err := executor.ExecContext(ctx, query,
		area.ID,
		area.Name,
		area.Description,
		area.CreatedAt,
		area.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("area %q: %w", area.Name, repositories.ErrDuplicate)
		}
		return fmt.Errorf("failed to create area: %w", err)
	}

	r.logger.Debug("area created", zap.String("id", area.ID.String()), zap.String("name", area.Name))
	return nil
}

// GetByID retrieves an area by ID
func (r *AreaRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Area, error) {
	query := `
		SELECT id, name, description, created_at, updated_at
		FROM areas
		WHERE id = $1
	`

	executor := GetExecutor(r.db, r.tx)
	area := &models.Area{}

	err := executor.QueryRowContext(ctx, query, id).Scan(
		&area.ID,
		&area.Name,
		&area.Description,
		&area.CreatedAt,
		&area.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("area %s: %w", id, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get area: %w", err)
	}

	return area, nil
}

// List retrieves areas with pagination
func (r *AreaRepository) List(ctx context.Context, limit, offset int) ([]*models.Area, error) {
	query := `
		SELECT id, name, description, created_at, updated_at
		FROM areas
		ORDER BY name ASC
		LIMIT $1 OFFSET $2
	`

	executor := GetExecutor(r.db, r.tx)
	rows, err := executor.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list areas: %w", err)
	}
	defer rows.Close()

	var areas []*models.Area
	for rows.Next() {
		area := &models.Area{}
		if err := rows.Scan(
			&area.ID,
			&area.Name,
			&area.Description,
			&area.CreatedAt,
			&area.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan area: %w", err)
		}
		areas = append(areas, area)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating area rows: %w", err)
	}

	return areas, nil
}

// Delete deletes an area and, through the foreign key, its rooms
func (r *AreaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM areas WHERE id = $1`

	executor := GetExecutor(r.db, r.tx)
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete area: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("area %s: %w", id, repositories.ErrNotFound)
	}

	r.logger.Debug("area deleted", zap.String("id", id.String()))
	return nil
}

// WithTx returns a new repository instance bound to the transaction
func (r *AreaRepository) WithTx(tx repositories.Transaction) repositories.AreaRepository {
	return &AreaRepository{
		db:     r.db,
		tx:     asTransaction(tx),
		logger: r.logger,
	}
}
