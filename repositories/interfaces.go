package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/upb/spaces-control-plane/models"
)

// ErrNotFound is returned by repositories when no row matches
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a unique constraint is violated
var ErrDuplicate = errors.New("record already exists")

// TxOptions configures a transaction. The zero value uses the database defaults.
type TxOptions struct {
	// Serializable makes concurrent transactions behave as if run one after
	// another; conflicting commits fail instead of interleaving.
	Serializable bool
	ReadOnly     bool
}

// TransactionManager manages database transactions
type TransactionManager interface {
	// Begin starts a new transaction
	Begin(ctx context.Context, opts TxOptions) (Transaction, error)
}

// Transaction represents a database transaction. Repositories join it
// through their WithTx method.
type Transaction interface {
	Commit() error
	Rollback() error
}

// UserRepository is the principal half of the identity store
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// WithTx returns a new repository instance bound to the transaction
	WithTx(tx Transaction) UserRepository
}

// ProfileRepository is the role half of the identity store
type ProfileRepository interface {
	// GetByID retrieves a profile by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)

	// List retrieves profiles with pagination
	List(ctx context.Context, limit, offset int) ([]*models.Profile, error)

	// WithTx returns a new repository instance bound to the transaction
	WithTx(tx Transaction) ProfileRepository
}

// AreaRepository handles area data operations
type AreaRepository interface {
	Create(ctx context.Context, area *models.Area) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Area, error)
	List(ctx context.Context, limit, offset int) ([]*models.Area, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new repository instance bound to the transaction
	WithTx(tx Transaction) AreaRepository
}

// RoomRepository handles room data operations
type RoomRepository interface {
	Create(ctx context.Context, room *models.Room) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error)

	// List retrieves rooms, optionally restricted to one area
	List(ctx context.Context, areaID *uuid.UUID, limit, offset int) ([]*models.Room, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new repository instance bound to the transaction
	WithTx(tx Transaction) RoomRepository
}

// AuditRepository persists the authentication audit trail
type AuditRepository interface {
	// Insert inserts a new audit log entry
	Insert(ctx context.Context, log *models.AuditLog) error

	// GetByUserID retrieves audit logs for a user with pagination
	GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.AuditLog, error)

	// GetByDateRange retrieves audit logs within a date range
	GetByDateRange(ctx context.Context, start, end time.Time, limit, offset int) ([]*models.AuditLog, error)
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	Users     UserRepository
	Profiles  ProfileRepository
	Areas     AreaRepository
	Rooms     RoomRepository
	AuditLogs AuditRepository
}
