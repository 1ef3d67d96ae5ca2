package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/upb/spaces-control-plane/internal/auth"
	"github.com/upb/spaces-control-plane/internal/clock"
	"github.com/upb/spaces-control-plane/internal/observability"
	"github.com/upb/spaces-control-plane/models"
	"github.com/upb/spaces-control-plane/repositories"
)

// DefaultIdentityLookupTimeout bounds identity store reads when no timeout is configured
const DefaultIdentityLookupTimeout = 3 * time.Second

var (
	tracer = observability.Tracer("auth")

	signInTotal  metric.Int64Counter
	refreshTotal metric.Int64Counter
	tokensIssued metric.Int64Counter
)

func init() {
	m := observability.Meter("auth")

	var err error
	signInTotal, err = m.Int64Counter("auth_sign_in_total",
		metric.WithDescription("Sign-in attempts, by result"))
	if err != nil {
		panic(err)
	}
	refreshTotal, err = m.Int64Counter("auth_refresh_total",
		metric.WithDescription("Token refresh attempts, by result"))
	if err != nil {
		panic(err)
	}
	tokensIssued, err = m.Int64Counter("auth_tokens_issued_total",
		metric.WithDescription("Tokens issued, by type"))
	if err != nil {
		panic(err)
	}
}

// TokenIssuer issues a fresh token pair for a principal
type TokenIssuer interface {
	IssuePair(user *models.User, profile *models.Profile) (*auth.TokenPair, error)
}

// RefreshTokenVerifier verifies refresh tokens
type RefreshTokenVerifier interface {
	VerifyRefreshToken(token string) (*auth.RefreshClaims, error)
}

// AuditLogger receives authentication events. Implementations must not block.
type AuditLogger interface {
	LogAuthEvent(log *models.AuditLog)
}

type nopAuditLogger struct{}

func (nopAuditLogger) LogAuthEvent(*models.AuditLog) {}

// refreshState tracks progress through a refresh
type refreshState int

const (
	refreshAwaitingVerification refreshState = iota
	refreshAwaitingReissue
	refreshDone
)

func (s refreshState) String() string {
	switch s {
	case refreshAwaitingVerification:
		return "awaiting_verification"
	case refreshAwaitingReissue:
		return "awaiting_reissue"
	case refreshDone:
		return "done"
	default:
		return "unknown"
	}
}

// AuthServiceConfig holds the collaborators of an AuthService
type AuthServiceConfig struct {
	Users       repositories.UserRepository
	Profiles    repositories.ProfileRepository
	Hasher      PasswordComparer
	Issuer      TokenIssuer
	Verifier    RefreshTokenVerifier
	Revocations auth.RevocationList // Optional, defaults to auth.NopRevocationList
	Audit       AuditLogger         // Optional
	Clock       clock.Clock         // Optional, defaults to clock.RealClock

	// IdentityLookupTimeout bounds the identity store reads of one sign-in or refresh
	IdentityLookupTimeout time.Duration
	Logger                *zap.Logger
}

// AuthService implements sign-in, token refresh, and sign-out. Every error
// it returns is one of the package's auth DomainErrors.
type AuthService struct {
	credentials   *CredentialVerifier
	users         repositories.UserRepository
	profiles      repositories.ProfileRepository
	issuer        TokenIssuer
	verifier      RefreshTokenVerifier
	revocations   auth.RevocationList
	audit         AuditLogger
	clock         clock.Clock
	lookupTimeout time.Duration
	logger        *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(cfg AuthServiceConfig) *AuthService {
	if cfg.Revocations == nil {
		cfg.Revocations = auth.NopRevocationList{}
	}
	if cfg.Audit == nil {
		cfg.Audit = nopAuditLogger{}
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.RealClock{}
	}
	if cfg.IdentityLookupTimeout <= 0 {
		cfg.IdentityLookupTimeout = DefaultIdentityLookupTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &AuthService{
		credentials:   NewCredentialVerifier(cfg.Users, cfg.Profiles, cfg.Hasher, cfg.Logger),
		users:         cfg.Users,
		profiles:      cfg.Profiles,
		issuer:        cfg.Issuer,
		verifier:      cfg.Verifier,
		revocations:   cfg.Revocations,
		audit:         cfg.Audit,
		clock:         cfg.Clock,
		lookupTimeout: cfg.IdentityLookupTimeout,
		logger:        cfg.Logger,
	}
}

// SignIn exchanges an email and password for a token pair
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*auth.TokenPair, error) {
	ctx, span := tracer.Start(ctx, "auth.sign_in")
	defer span.End()

	meta := RequestMetaFromContext(ctx)

	lookupCtx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	user, profile, err := s.credentials.Verify(lookupCtx, email, password)
	cancel()
	if err != nil {
		result := GetErrorCode(err)
		s.recordSignIn(ctx, result)
		span.SetStatus(codes.Error, result)

		if errors.Is(err, ErrUnexpected) {
			s.logger.Error("sign-in failed", zap.String("request_id", meta.RequestID), zap.Error(err))
		}
		s.audit.LogAuthEvent(meta.apply(models.NewAuditLog(models.AuditActionSignInFailed).
			WithEmail(email).
			WithReason(result)))
		return nil, err
	}

	pair, err := s.issue(user, profile)
	if err != nil {
		s.recordSignIn(ctx, GetErrorCode(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "issue")
		s.logger.Error("failed to issue tokens", zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil, err
	}

	s.recordSignIn(ctx, "success")
	span.SetAttributes(attribute.String("user.id", user.ID.String()), attribute.String("user.role", string(profile.Role)))
	s.audit.LogAuthEvent(meta.apply(models.NewAuditLog(models.AuditActionSignInSucceeded).
		WithUser(user.ID).
		WithEmail(user.Email)))

	s.logger.Info("user signed in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(profile.Role)),
		zap.String("request_id", meta.RequestID))

	return pair, nil
}

// Refresh verifies a refresh token and issues a new pair from the current
// state of the principal and its profile. The presented refresh token stays
// valid until it expires unless it is revoked.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	ctx, span := tracer.Start(ctx, "auth.refresh")
	defer span.End()

	meta := RequestMetaFromContext(ctx)
	state := refreshAwaitingVerification

	fail := func(err error, userID *uuid.UUID) (*auth.TokenPair, error) {
		result := GetErrorCode(err)
		refreshTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
		span.SetAttributes(attribute.String("auth.refresh.failed_in", state.String()))
		span.SetStatus(codes.Error, result)

		log := models.NewAuditLog(models.AuditActionRefreshRejected).WithReason(result)
		if userID != nil {
			log.WithUser(*userID)
		}
		s.audit.LogAuthEvent(meta.apply(log))
		return nil, err
	}

	userID, err := s.verifyRefreshToken(ctx, refreshToken)
	if err != nil {
		return fail(err, nil)
	}
	state = refreshAwaitingReissue
	span.AddEvent(state.String())

	lookupCtx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	user, profile, err := s.lookupIdentity(lookupCtx, userID)
	cancel()
	if err != nil {
		if errors.Is(err, ErrUnexpected) {
			s.logger.Error("identity lookup failed during refresh",
				zap.String("user_id", userID.String()),
				zap.Error(err))
		}
		return fail(err, &userID)
	}

	pair, err := s.issue(user, profile)
	if err != nil {
		s.logger.Error("failed to issue tokens", zap.String("user_id", user.ID.String()), zap.Error(err))
		return fail(err, &userID)
	}
	state = refreshDone
	span.AddEvent(state.String())

	refreshTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("result", "success")))
	s.audit.LogAuthEvent(meta.apply(models.NewAuditLog(models.AuditActionTokenRefreshed).
		WithUser(user.ID).
		WithEmail(user.Email)))

	return pair, nil
}

// SignOut revokes a refresh token for the rest of its lifetime. With the
// default revocation list this only validates the token.
func (s *AuthService) SignOut(ctx context.Context, refreshToken string) error {
	ctx, span := tracer.Start(ctx, "auth.sign_out")
	defer span.End()

	if refreshToken == "" {
		return ErrTokenMissing
	}

	claims, err := s.verifier.VerifyRefreshToken(refreshToken)
	if err != nil {
		span.SetStatus(codes.Error, auth.Reason(err))
		return ErrTokenInvalid.Wrap(err)
	}
	if claims.ID == "" || claims.ExpiresAt == nil {
		return ErrRefreshTokenMalformed
	}

	ttl := claims.ExpiresAt.Time.Sub(s.clock.Now())
	if err := s.revocations.Revoke(ctx, claims.ID, ttl); err != nil {
		span.RecordError(err)
		s.logger.Error("failed to revoke refresh token", zap.Error(err))
		return ErrUnexpected.Wrap(err)
	}

	log := models.NewAuditLog(models.AuditActionSignedOut)
	if userID, err := uuid.Parse(claims.Subject); err == nil {
		log.WithUser(userID)
	}
	s.audit.LogAuthEvent(RequestMetaFromContext(ctx).apply(log))

	return nil
}

// verifyRefreshToken checks signature, expiry, revocation and the subject
// claim, returning the principal id.
func (s *AuthService) verifyRefreshToken(ctx context.Context, token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, ErrTokenMissing
	}

	claims, err := s.verifier.VerifyRefreshToken(token)
	if err != nil {
		s.logger.Debug("refresh token rejected", zap.String("reason", auth.Reason(err)))
		return uuid.Nil, ErrTokenInvalid.Wrap(err)
	}

	if claims.Subject == "" {
		return uuid.Nil, ErrRefreshTokenMalformed
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrRefreshTokenMalformed.Wrap(err)
	}

	if claims.ID != "" {
		revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			return uuid.Nil, ErrUnexpected.Wrap(fmt.Errorf("check revocation: %w", err))
		}
		if revoked {
			return uuid.Nil, ErrTokenInvalid.Wrap(errors.New("refresh token revoked"))
		}
	}

	return userID, nil
}

// lookupIdentity re-reads the principal and its profile
func (s *AuthService) lookupIdentity(ctx context.Context, userID uuid.UUID) (*models.User, *models.Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, ErrPrincipalNotFound.Wrap(err)
		}
		return nil, nil, ErrUnexpected.Wrap(err)
	}

	profile, err := s.profiles.GetByID(ctx, user.ProfileID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, ErrProfileNotFound.Wrap(err)
		}
		return nil, nil, ErrUnexpected.Wrap(err)
	}

	return user, profile, nil
}

func (s *AuthService) issue(user *models.User, profile *models.Profile) (*auth.TokenPair, error) {
	pair, err := s.issuer.IssuePair(user, profile)
	if err != nil {
		return nil, ErrUnexpected.Wrap(err)
	}
	ctx := context.Background()
	tokensIssued.Add(ctx, 1, metric.WithAttributes(attribute.String("type", "access")))
	tokensIssued.Add(ctx, 1, metric.WithAttributes(attribute.String("type", "refresh")))
	return pair, nil
}

func (s *AuthService) recordSignIn(ctx context.Context, result string) {
	signInTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}
