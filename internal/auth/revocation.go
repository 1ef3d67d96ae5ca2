package auth

import (
	"context"
	"time"
)

// RevocationList records refresh token identifiers (jti) that must no
// longer be honoured. Implementations should fail closed: when the backing
// store cannot answer, IsRevoked reports true together with the error.
type RevocationList interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
}

// NopRevocationList never revokes anything. It is the default, which
// keeps refresh tokens valid until they expire.
type NopRevocationList struct{}

// IsRevoked always reports false.
func (NopRevocationList) IsRevoked(context.Context, string) (bool, error) {
	return false, nil
}

// Revoke is a no-op.
func (NopRevocationList) Revoke(context.Context, string, time.Duration) error {
	return nil
}

var _ RevocationList = NopRevocationList{}
