package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/upb/spaces-control-plane/internal/auth"
)

func TestPasswordHasher(t *testing.T) {
	hasher, err := auth.NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)

	t.Run("hash then compare", func(t *testing.T) {
		hash, err := hasher.Hash("correct horse")
		require.NoError(t, err)
		assert.NotEqual(t, "correct horse", hash)

		assert.NoError(t, hasher.Compare("correct horse", hash))
	})

	t.Run("mismatch", func(t *testing.T) {
		hash, err := hasher.Hash("correct horse")
		require.NoError(t, err)

		err = hasher.Compare("battery staple", hash)
		assert.ErrorIs(t, err, auth.ErrMismatchedHashAndPassword)
	})

	t.Run("empty password cannot be hashed", func(t *testing.T) {
		_, err := hasher.Hash("")
		assert.ErrorIs(t, err, auth.ErrEmptyPassword)
	})

	t.Run("corrupt hash is an error but not a mismatch", func(t *testing.T) {
		err := hasher.Compare("anything", "not-a-bcrypt-hash")
		require.Error(t, err)
		assert.NotErrorIs(t, err, auth.ErrMismatchedHashAndPassword)
	})

	t.Run("dummy compare is safe to call", func(t *testing.T) {
		assert.NotPanics(t, func() { hasher.CompareDummy("whatever") })
	})
}

func TestNewPasswordHasher_OutOfRangeCost(t *testing.T) {
	hasher, err := auth.NewPasswordHasher(0)
	require.NoError(t, err)

	hash, err := hasher.Hash("pw")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
