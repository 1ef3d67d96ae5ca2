package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/upb/spaces-control-plane/internal/auth"
	"github.com/upb/spaces-control-plane/models"
	"github.com/upb/spaces-control-plane/repositories"
)

// PasswordComparer checks a password against a stored hash
type PasswordComparer interface {
	Compare(password, hash string) error
	CompareDummy(password string)
}

// CredentialVerifier resolves an email and password to a principal and its
// profile. Unknown emails and wrong passwords fail the same way.
type CredentialVerifier struct {
	users    repositories.UserRepository
	profiles repositories.ProfileRepository
	hasher   PasswordComparer
	logger   *zap.Logger
}

// NewCredentialVerifier creates a new CredentialVerifier
func NewCredentialVerifier(users repositories.UserRepository, profiles repositories.ProfileRepository, hasher PasswordComparer, logger *zap.Logger) *CredentialVerifier {
	return &CredentialVerifier{
		users:    users,
		profiles: profiles,
		hasher:   hasher,
		logger:   logger,
	}
}

// Verify returns the user and profile for valid credentials.
//
// Errors: ErrInvalidCredentials for an unknown email or wrong password,
// ErrProfileNotFound when the user's profile is gone, ErrUnexpected for
// anything else.
func (v *CredentialVerifier) Verify(ctx context.Context, email, password string) (*models.User, *models.Profile, error) {
	user, err := v.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			v.hasher.CompareDummy(password)
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, ErrUnexpected.Wrap(err)
	}

	if err := v.hasher.Compare(password, user.PasswordHash); err != nil {
		if errors.Is(err, auth.ErrMismatchedHashAndPassword) {
			return nil, nil, ErrInvalidCredentials
		}
		v.logger.Error("stored password hash is unusable",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
		return nil, nil, ErrUnexpected.Wrap(err)
	}

	profile, err := v.profiles.GetByID(ctx, user.ProfileID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			v.logger.Warn("user references a missing profile",
				zap.String("user_id", user.ID.String()),
				zap.String("profile_id", user.ProfileID.String()))
			return nil, nil, ErrProfileNotFound.Wrap(err)
		}
		return nil, nil, ErrUnexpected.Wrap(err)
	}

	return user, profile, nil
}
