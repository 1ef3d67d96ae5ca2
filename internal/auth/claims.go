package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/upb/spaces-control-plane/models"
)

// UserClaims is the identity snapshot embedded in an access token.
type UserClaims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ProfileClaims is the role snapshot embedded in an access token.
type ProfileClaims struct {
	Name        string      `json:"name"`
	Role        models.Role `json:"role"`
	Description string      `json:"description"`
}

// AccessClaims are the claims of an access token. Authorization decisions
// are made from these claims alone; the identity store is not consulted.
type AccessClaims struct {
	jwt.RegisteredClaims
	User    UserClaims    `json:"user"`
	Profile ProfileClaims `json:"profile"`
}

// Role returns the role granted at issuance time.
func (c *AccessClaims) Role() models.Role {
	return c.Profile.Role
}

// RefreshClaims are the claims of a refresh token. They carry no role so
// that a refresh always re-reads the current one.
type RefreshClaims struct {
	jwt.RegisteredClaims
}

// TokenPair is returned by sign-in and refresh. It is never stored.
type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	TokenType        string    `json:"token_type"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}
