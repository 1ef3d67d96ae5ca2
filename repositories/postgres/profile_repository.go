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

// ProfileRepository implements the repositories.ProfileRepository interface
type ProfileRepository struct {
	db     *DB
	tx     *Transaction
	logger *zap.Logger
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *DB, logger *zap.Logger) repositories.ProfileRepository {
	return &ProfileRepository{
		db:     db,
		logger: logger,
	}
}

// GetByID retrieves a profile by ID
func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	query := `
		SELECT id, name, role, description, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`

	executor := GetExecutor(r.db, r.tx)
	profile := &models.Profile{}

	err := executor.QueryRowContext(ctx, query, id).Scan(
		&profile.ID,
		&profile.Name,
		&profile.Role,
		&profile.Description,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("profile %s: %w", id, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return profile, nil
}

// List retrieves profiles with pagination
func (r *ProfileRepository) List(ctx context.Context, limit, offset int) ([]*models.Profile, error) {
	query := `
		SELECT id, name, role, description, created_at, updated_at
		FROM profiles
		ORDER BY name ASC
		LIMIT $1 OFFSET $2
	`

	executor := GetExecutor(r.db, r.tx)
	rows, err := executor.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*models.Profile
	for rows.Next() {
		profile := &models.Profile{}
		if err := rows.Scan(
			&profile.ID,
			&profile.Name,
			&profile.Role,
			&profile.Description,
			&profile.CreatedAt,
			&profile.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profile rows: %w", err)
	}

	return profiles, nil
}

// WithTx returns a new repository instance bound to the transaction
func (r *ProfileRepository) WithTx(tx repositories.Transaction) repositories.ProfileRepository {
	return &ProfileRepository{
		db:     r.db,
		tx:     asTransaction(tx),
		logger: r.logger,
	}
}
