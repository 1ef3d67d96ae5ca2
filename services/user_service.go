package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/upb/spaces-control-plane/models"
	"github.com/upb/spaces-control-plane/repositories"
)

// PasswordHasher produces password hashes for storage
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// UserService manages principals and lists profiles
type UserService struct {
	txMgr    repositories.TransactionManager
	users    repositories.UserRepository
	profiles repositories.ProfileRepository
	hasher   PasswordHasher
	logger   *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(txMgr repositories.TransactionManager, users repositories.UserRepository, profiles repositories.ProfileRepository, hasher PasswordHasher, logger *zap.Logger) *UserService {
	return &UserService{
		txMgr:    txMgr,
		users:    users,
		profiles: profiles,
		hasher:   hasher,
		logger:   logger,
	}
}

// Create registers a user under an existing profile. The password is
// hashed before it reaches the store.
func (s *UserService) Create(ctx context.Context, name, email, password string, profileID uuid.UUID) (*models.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, NewDomainError(ErrorTypeValidation, "invalid password", err)
	}

	user := models.NewUser(name, strings.ToLower(strings.TrimSpace(email)), hash, profileID)

	err = WithTransaction(ctx, s.txMgr, repositories.TxOptions{}, func(ctx context.Context, tx repositories.Transaction) error {
		if _, err := s.profiles.WithTx(tx).GetByID(ctx, profileID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrProfileNotFound
			}
			return WrapInternal("failed to get profile", err)
		}

		if err := s.users.WithTx(tx).Create(ctx, user); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return ErrDuplicateEmail.Wrap(err)
			}
			return WrapInternal("failed to create user", err)
		}
		return nil
	})
	if err != nil {
		var domainErr *DomainError
		if !errors.As(err, &domainErr) {
			return nil, WrapInternal("user transaction failed", err)
		}
		return nil, err
	}

	s.logger.Info("user created",
		zap.String("user_id", user.ID.String()),
		zap.String("profile_id", profileID.String()))
	return user, nil
}

// ListProfiles returns a page of profiles
func (s *UserService) ListProfiles(ctx context.Context, limit, offset int) ([]*models.Profile, error) {
	limit, offset = normalizePage(limit, offset)
	profiles, err := s.profiles.List(ctx, limit, offset)
	if err != nil {
		return nil, WrapInternal("failed to list profiles", err)
	}
	return profiles, nil
}
