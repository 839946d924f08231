package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogwire/blogwire/api"
)

func TestTokenFileRoundTrip(t *testing.T) {
	tokens := NewTokenFile(filepath.Join(t.TempDir(), "nested", "token"))

	// Missing file reads as the zero credential.
	cred, err := tokens.Load()
	require.NoError(t, err)
	assert.True(t, cred.IsZero())

	require.NoError(t, tokens.Save("tok-abc"))

	cred, err = tokens.Load()
	require.NoError(t, err)
	assert.Equal(t, api.Credential("tok-abc"), cred)

	// Owner-only: the token is a secret.
	info, err := os.Stat(tokens.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	require.NoError(t, tokens.Clear())
	cred, err = tokens.Load()
	require.NoError(t, err)
	assert.True(t, cred.IsZero())

	// Clearing an absent token is fine.
	require.NoError(t, tokens.Clear())
}

func TestTokenFileTrimsWhitespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("  tok-abc\n\n"), 0600))

	cred, err := NewTokenFile(path).Load()
	require.NoError(t, err)
	assert.Equal(t, api.Credential("tok-abc"), cred)
}

func TestClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	iat := time.Now().Truncate(time.Second)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"iat": iat.Unix(),
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("server-secret"))
	require.NoError(t, err)

	claims, err := Claims(api.Credential(signed))
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.True(t, claims.ExpiresAt.Equal(exp))
	assert.True(t, claims.IssuedAt.Equal(iat))
	assert.False(t, claims.Expired(time.Now()))
	assert.True(t, claims.Expired(exp.Add(time.Minute)))
}

func TestClaimsRejectsOpaqueToken(t *testing.T) {
	_, err := Claims("not-a-jwt")
	assert.Error(t, err)
}

func TestClaimsWithoutExpiryNeverExpires(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1"})
	signed, err := token.SignedString([]byte("server-secret"))
	require.NoError(t, err)

	claims, err := Claims(api.Credential(signed))
	require.NoError(t, err)
	assert.False(t, claims.Expired(time.Now().Add(100*365*24*time.Hour)))
}
