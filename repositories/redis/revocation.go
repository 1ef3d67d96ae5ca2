package redis

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/upb/spaces-control-plane/internal/auth"
	"github.com/upb/spaces-control-plane/internal/observability"
)

// revokedJTIPrefix is the key prefix for revoked refresh token ids.
// Key pattern: revoked_jti:{jti}
const revokedJTIPrefix = "revoked_jti:"

var tracer = observability.Tracer("redis")

var _ auth.RevocationList = (*RevocationRepository)(nil)

// RevocationRepository stores revoked refresh token ids in Redis. Reads fail
// closed: a Redis error reports the token as revoked.
type RevocationRepository struct {
	cmd Cmdable
}

// NewRevocationRepository creates a RevocationRepository on top of cmd
func NewRevocationRepository(cmd Cmdable) *RevocationRepository {
	return &RevocationRepository{cmd: cmd}
}

// Revoke marks jti as revoked for ttl, which callers set to the remaining
// lifetime of the token. A non-positive ttl means the token has already
// expired and nothing is written.
func (r *RevocationRepository) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	ctx, span := tracer.Start(ctx, "redis.revocation.revoke")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "redis"),
		attribute.String("db.operation", "SET"),
	)

	if err := r.cmd.Set(ctx, revokedJTIPrefix+jti, "1", ttl).Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("revoke jti %q: %w", jti, err)
	}
	return nil
}

// IsRevoked reports whether jti has been revoked
func (r *RevocationRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	ctx, span := tracer.Start(ctx, "redis.revocation.is_revoked")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "redis"),
		attribute.String("db.operation", "EXISTS"),
	)

	n, err := r.cmd.Exists(ctx, revokedJTIPrefix+jti).Result()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return true, fmt.Errorf("check revocation %q: %w", jti, err)
	}
	return n > 0, nil
}
