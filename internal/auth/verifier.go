package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/upb/spaces-control-plane/internal/clock"
)

// ErrTokenInvalid is wrapped by every verification failure. The reason
// sentinels below are joined with it so callers can tell them apart with
// errors.Is while transport code only needs to check ErrTokenInvalid.
var ErrTokenInvalid = errors.New("token invalid")

var (
	ErrTokenMalformed         = errors.New("token malformed")
	ErrTokenSignatureInvalid  = errors.New("token signature invalid")
	ErrTokenExpired           = errors.New("token expired")
	ErrTokenAlgorithmMismatch = errors.New("token algorithm mismatch")
	ErrTokenClaimsInvalid     = errors.New("token claims invalid")
)

// Verifier validates access and refresh tokens. It performs no I/O.
type Verifier struct {
	publicKey     *rsa.PublicKey
	refreshSecret []byte
	issuer        string
	clock         clock.Clock
}

// VerifierConfig holds configuration for creating a Verifier.
type VerifierConfig struct {
	PublicKey     *rsa.PublicKey
	RefreshSecret []byte
	Issuer        string
	Clock         clock.Clock
}

// NewVerifier creates a new token verifier.
func NewVerifier(cfg VerifierConfig) *Verifier {
	if cfg.Clock == nil {
		cfg.Clock = clock.RealClock{}
	}
	return &Verifier{
		publicKey:     cfg.PublicKey,
		refreshSecret: cfg.RefreshSecret,
		issuer:        cfg.Issuer,
		clock:         cfg.Clock,
	}
}

// VerifyAccessToken checks an RS256 access token against the public key.
func (v *Verifier) VerifyAccessToken(tokenString string) (*AccessClaims, error) {
	var claims AccessClaims
	if err := v.verify(tokenString, &claims, jwt.SigningMethodRS256, v.publicKey); err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: %w: missing sub", ErrTokenInvalid, ErrTokenClaimsInvalid)
	}
	return &claims, nil
}

// VerifyRefreshToken checks an HS256 refresh token against the refresh
// secret. A missing subject is not an error here; the refresh flow reports
// it separately.
func (v *Verifier) VerifyRefreshToken(tokenString string) (*RefreshClaims, error) {
	var claims RefreshClaims
	if err := v.verify(tokenString, &claims, jwt.SigningMethodHS256, v.refreshSecret); err != nil {
		return nil, err
	}
	return &claims, nil
}

func (v *Verifier) verify(tokenString string, claims jwt.Claims, method jwt.SigningMethod, key any) error {
	opts := []jwt.ParserOption{
		jwt.WithTimeFunc(v.clock.Now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	// The algorithm is checked inside the keyfunc rather than with
	// WithValidMethods so that a mismatch keeps its own reason.
	keyFunc := func(token *jwt.Token) (any, error) {
		if token.Method == nil || token.Method.Alg() != method.Alg() {
			return nil, ErrTokenAlgorithmMismatch
		}
		return key, nil
	}

	if _, err := jwt.ParseWithClaims(tokenString, claims, keyFunc, opts...); err != nil {
		return fmt.Errorf("%w: %w", ErrTokenInvalid, classify(err))
	}
	return nil
}

// classify reduces a jwt parse error to one of the reason sentinels.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrTokenMalformed
	case errors.Is(err, ErrTokenAlgorithmMismatch):
		return ErrTokenAlgorithmMismatch
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		// unknown alg header values fail before the keyfunc runs
		return ErrTokenAlgorithmMismatch
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrTokenSignatureInvalid
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	default:
		return ErrTokenClaimsInvalid
	}
}

// Reason returns a short label for a verification failure, suitable for
// logs and metric attributes.
func Reason(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrTokenMissing):
		return "missing"
	case errors.Is(err, ErrTokenMalformed):
		return "malformed"
	case errors.Is(err, ErrTokenAlgorithmMismatch):
		return "algorithm_mismatch"
	case errors.Is(err, ErrTokenSignatureInvalid):
		return "signature_invalid"
	case errors.Is(err, ErrTokenExpired):
		return "expired"
	case errors.Is(err, ErrTokenClaimsInvalid):
		return "claims_invalid"
	case errors.Is(err, ErrRoleNotPermitted):
		return "role_not_permitted"
	case errors.Is(err, ErrRouteNotRegistered):
		return "route_not_registered"
	default:
		return "unknown"
	}
}
