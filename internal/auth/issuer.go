package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/upb/spaces-control-plane/internal/clock"
	"github.com/upb/spaces-control-plane/models"
)

const (
	// DefaultAccessTTL is the access token lifetime when none is configured.
	DefaultAccessTTL = 4 * time.Hour

	// DefaultRefreshTTL is the refresh token lifetime when none is configured.
	DefaultRefreshTTL = 7 * 24 * time.Hour

	tokenTypeBearer = "Bearer"
)

// IssuedToken is a signed token together with the identifiers needed to
// audit or revoke it.
type IssuedToken struct {
	Token     string
	JTI       string
	ExpiresAt time.Time
}

// Issuer creates signed access and refresh tokens. It has no side effects.
type Issuer struct {
	keys          *KeyPair
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
	clock         clock.Clock
}

// IssuerConfig holds configuration for creating an Issuer.
type IssuerConfig struct {
	Keys          *KeyPair
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
	Clock         clock.Clock
}

// NewIssuer creates a new token issuer.
func NewIssuer(cfg IssuerConfig) (*Issuer, error) {
	if cfg.Keys == nil || cfg.Keys.Private == nil {
		return nil, errors.New("access signing key is required")
	}
	if len(cfg.RefreshSecret) == 0 {
		return nil, errors.New("refresh secret is required")
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = DefaultRefreshTTL
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.RealClock{}
	}

	return &Issuer{
		keys:          cfg.Keys,
		refreshSecret: cfg.RefreshSecret,
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		issuer:        cfg.Issuer,
		clock:         cfg.Clock,
	}, nil
}

// IssueAccessToken signs an RS256 access token embedding the user's identity
// and the profile's role as they are right now.
func (i *Issuer) IssueAccessToken(user *models.User, profile *models.Profile) (IssuedToken, error) {
	now := i.clock.Now().UTC()
	expiresAt := now.Add(i.accessTTL)
	jti := uuid.NewString()

	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        jti,
		},
		User: UserClaims{
			Name:  user.Name,
			Email: user.Email,
		},
		Profile: ProfileClaims{
			Name:        profile.Name,
			Role:        profile.Role,
			Description: profile.Description,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, &claims).SignedString(i.keys.Private)
	if err != nil {
		return IssuedToken{}, fmt.Errorf("sign access token: %w", err)
	}

	return IssuedToken{Token: signed, JTI: jti, ExpiresAt: expiresAt}, nil
}

// IssueRefreshToken signs an HS256 refresh token with the refresh secret.
// Only the subject is embedded.
func (i *Issuer) IssueRefreshToken(userID uuid.UUID) (IssuedToken, error) {
	now := i.clock.Now().UTC()
	expiresAt := now.Add(i.refreshTTL)
	jti := uuid.NewString()

	claims := RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        jti,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims).SignedString(i.refreshSecret)
	if err != nil {
		return IssuedToken{}, fmt.Errorf("sign refresh token: %w", err)
	}

	return IssuedToken{Token: signed, JTI: jti, ExpiresAt: expiresAt}, nil
}

// IssuePair issues a fresh access and refresh token for the user.
func (i *Issuer) IssuePair(user *models.User, profile *models.Profile) (*TokenPair, error) {
	access, err := i.IssueAccessToken(user, profile)
	if err != nil {
		return nil, err
	}
	refresh, err := i.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:      access.Token,
		RefreshToken:     refresh.Token,
		TokenType:        tokenTypeBearer,
		AccessExpiresAt:  access.ExpiresAt,
		RefreshExpiresAt: refresh.ExpiresAt,
	}, nil
}
