package auth_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/upb/spaces-control-plane/internal/auth"
	"github.com/upb/spaces-control-plane/internal/clock/clocktest"
	"github.com/upb/spaces-control-plane/models"
)

const (
	testIssuer        = "spaces-control-plane"
	testRefreshSecret = "refresh-secret-with-at-least-32-bytes!!"
)

var (
	keysOnce   sync.Once
	sharedKeys *auth.KeyPair
	keysErr    error
)

// testKeyPair returns one RSA key pair shared by the whole package; key
// generation dominates test time otherwise.
func testKeyPair(t *testing.T) *auth.KeyPair {
	t.Helper()
	keysOnce.Do(func() {
		sharedKeys, keysErr = auth.GenerateKeyPair(2048)
	})
	require.NoError(t, keysErr)
	return sharedKeys
}

func newTestIssuerAndVerifier(t *testing.T) (*auth.Issuer, *auth.Verifier, *clocktest.FakeClock) {
	t.Helper()
	keys := testKeyPair(t)
	fc := clocktest.NewFakeClock(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))

	issuer, err := auth.NewIssuer(auth.IssuerConfig{
		Keys:          keys,
		RefreshSecret: []byte(testRefreshSecret),
		Issuer:        testIssuer,
		Clock:         fc,
	})
	require.NoError(t, err)

	verifier := auth.NewVerifier(auth.VerifierConfig{
		PublicKey:     keys.Public,
		RefreshSecret: []byte(testRefreshSecret),
		Issuer:        testIssuer,
		Clock:         fc,
	})

	return issuer, verifier, fc
}

func testUserAndProfile(role models.Role) (*models.User, *models.Profile) {
	profile := models.NewProfile(string(role)+" profile", role, "test profile")
	user := models.NewUser("Grace Hopper", "grace@example.com", "", profile.ID)
	return user, profile
}

func mustIssueAccess(t *testing.T, issuer *auth.Issuer, role models.Role) (string, *models.User) {
	t.Helper()
	user, profile := testUserAndProfile(role)
	tok, err := issuer.IssueAccessToken(user, profile)
	require.NoError(t, err)
	return tok.Token, user
}
