package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xyzesther/CommunityAssist/internal/config"
)

func newVerifier(namespace string) *TokenVerifier {
	return NewTokenVerifier(config.AuthConfig{
		JWTSecret:       "test-secret",
		ClaimsNamespace: namespace,
	})
}

func TestVerify_RoundTrip(t *testing.T) {
	verifier := newVerifier("")

	token, _, err := verifier.Issue("auth0|alice", "Alice", "alice@example.com", time.Hour)
	require.NoError(t, err)

	identity, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "auth0|alice", identity.Subject)
	assert.Equal(t, "Alice", identity.Name)
	assert.Equal(t, "alice@example.com", identity.Email)
}

func TestVerify_NamespacedClaims(t *testing.T) {
	verifier := newVerifier("https://communityassist.example.com")

	token, _, err := verifier.Issue("auth0|bob", "Bob", "bob@example.com", time.Hour)
	require.NoError(t, err)

	identity, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "auth0|bob", identity.Subject)
	assert.Equal(t, "Bob", identity.Name)
	assert.Equal(t, "bob@example.com", identity.Email)
}

func TestVerify_WrongSecret(t *testing.T) {
	token, _, err := newVerifier("").Issue("auth0|alice", "Alice", "alice@example.com", time.Hour)
	require.NoError(t, err)

	other := NewTokenVerifier(config.AuthConfig{JWTSecret: "different-secret"})
	_, err = other.Verify(token)
	require.Error(t, err)
}

func TestVerify_Expired(t *testing.T) {
	verifier := newVerifier("")

	token, _, err := verifier.Issue("auth0|alice", "Alice", "alice@example.com", -time.Minute)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err)
}

func TestVerify_Garbage(t *testing.T) {
	_, err := newVerifier("").Verify("not-a-token")
	require.Error(t, err)
}
