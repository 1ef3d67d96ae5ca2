package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/upb/spaces-control-plane/models"
	"github.com/upb/spaces-control-plane/repositories"
)

// MockTransactionManager is a mock implementation of TransactionManager
type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) Begin(ctx context.Context, opts repositories.TxOptions) (repositories.Transaction, error) {
	args := m.Called(ctx, opts)
	if tx := args.Get(0); tx != nil {
		return tx.(repositories.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockTransaction is a mock implementation of Transaction
type MockTransaction struct {
	mock.Mock
}

func (m *MockTransaction) Commit() error {
	return m.Called().Error(0)
}

func (m *MockTransaction) Rollback() error {
	return m.Called().Error(0)
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) WithTx(tx repositories.Transaction) repositories.UserRepository {
	return m
}

// MockProfileRepository is a mock implementation of ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*models.Profile), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProfileRepository) List(ctx context.Context, limit, offset int) ([]*models.Profile, error) {
	args := m.Called(ctx, limit, offset)
	if p := args.Get(0); p != nil {
		return p.([]*models.Profile), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProfileRepository) WithTx(tx repositories.Transaction) repositories.ProfileRepository {
	return m
}

// MockAreaRepository is a mock implementation of AreaRepository
type MockAreaRepository struct {
	mock.Mock
}

func (m *MockAreaRepository) Create(ctx context.Context, area *models.Area) error {
	return m.Called(ctx, area).Error(0)
}

func (m *MockAreaRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Area, error) {
	args := m.Called(ctx, id)
	if a := args.Get(0); a != nil {
		return a.(*models.Area), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAreaRepository) List(ctx context.Context, limit, offset int) ([]*models.Area, error) {
	args := m.Called(ctx, limit, offset)
	if a := args.Get(0); a != nil {
		return a.([]*models.Area), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAreaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAreaRepository) WithTx(tx repositories.Transaction) repositories.AreaRepository {
	return m
}

// MockRoomRepository is a mock implementation of RoomRepository
type MockRoomRepository struct {
	mock.Mock
}

func (m *MockRoomRepository) Create(ctx context.Context, room *models.Room) error {
	return m.Called(ctx, room).Error(0)
}

func (m *MockRoomRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	args := m.Called(ctx, id)
	if r := args.Get(0); r != nil {
		return r.(*models.Room), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRoomRepository) List(ctx context.Context, areaID *uuid.UUID, limit, offset int) ([]*models.Room, error) {
	args := m.Called(ctx, areaID, limit, offset)
	if r := args.Get(0); r != nil {
		return r.([]*models.Room), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRoomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRoomRepository) WithTx(tx repositories.Transaction) repositories.RoomRepository {
	return m
}

// MockRevocationList is a mock implementation of auth.RevocationList
type MockRevocationList struct {
	mock.Mock
}

func (m *MockRevocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	args := m.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}

func (m *MockRevocationList) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	return m.Called(ctx, jti, ttl).Error(0)
}

// recordingAudit collects audit events in memory
type recordingAudit struct {
	mu   sync.Mutex
	logs []*models.AuditLog
}

func (r *recordingAudit) LogAuthEvent(log *models.AuditLog) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, log)
}

func (r *recordingAudit) actions() []models.AuditAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.AuditAction, 0, len(r.logs))
	for _, l := range r.logs {
		out = append(out, l.Action)
	}
	return out
}

func (r *recordingAudit) last() *models.AuditLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.logs) == 0 {
		return nil
	}
	return r.logs[len(r.logs)-1]
}
