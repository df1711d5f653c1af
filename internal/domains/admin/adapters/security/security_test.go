package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/admin/domain"
)

func testSession(now time.Time) domain.Session {
	return domain.Session{
		ID:        "sess-1",
		AdminID:   "admin-1",
		Email:     "admin@matrixshop.com",
		Role:      domain.RoleAdmin,
		IssuedAt:  now,
		ExpiresAt: now.Add(time.Hour),
	}
}

func TestJWTIssuer_RoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	issuer, err := NewJWTIssuer("top-secret")
	require.NoError(t, err)

	signed, err := issuer.Sign(testSession(now))
	require.NoError(t, err)

	session, err := issuer.Parse(signed)
	require.NoError(t, err)
	require.Equal(t, testSession(now), session)
}

func TestJWTIssuer_RejectsOtherSecretAndExpiry(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	issuer, err := NewJWTIssuer("top-secret")
	require.NoError(t, err)
	signed, err := issuer.Sign(testSession(now))
	require.NoError(t, err)

	other, err := NewJWTIssuer("another-secret")
	require.NoError(t, err)
	_, err = other.Parse(signed)
	require.Error(t, err)

	later, err := NewJWTIssuer("top-secret", WithTimeFunc(func() time.Time { return now.Add(2 * time.Hour) }))
	require.NoError(t, err)
	_, err = later.Parse(signed)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTIssuer_RejectsUnsignedTokens(t *testing.T) {
	issuer, err := NewJWTIssuer("top-secret")
	require.NoError(t, err)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sid": "sess-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = issuer.Parse(raw)
	require.Error(t, err)
}

func TestNewJWTIssuer_RequiresSecret(t *testing.T) {
	_, err := NewJWTIssuer("")
	require.Error(t, err)
}

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("secret1")
	require.NoError(t, err)
	require.NotEqual(t, "secret1", hash)

	require.NoError(t, hasher.Compare(hash, "secret1"))
	require.Error(t, hasher.Compare(hash, "secret2"))
}
