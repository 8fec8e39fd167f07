package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	signed, err := svc.Issue("68a1f2e4b7c9d0a1b2c3d4e5")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	sess, err := svc.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "68a1f2e4b7c9d0a1b2c3d4e5", sess.UserID)
	assert.WithinDuration(t, time.Now(), sess.IssuedAt, 5*time.Second)
	assert.Equal(t, sess.IssuedAt, sess.IssuedAt.Truncate(time.Second))
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	signed, err := NewService("secret-one", time.Hour).Issue("user-1")
	require.NoError(t, err)

	_, err = NewService("secret-two", time.Hour).Verify(signed)
	assert.Error(t, err)
}

func TestVerifyRejectsExpired(t *testing.T) {
	svc := NewService("test-secret", -time.Minute)

	signed, err := svc.Issue("user-1")
	require.NoError(t, err)

	_, err = svc.Verify(signed)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	for _, raw := range []string{"", "not-a-token", "aaaa.bbbb.cccc"} {
		_, err := svc.Verify(raw)
		assert.Error(t, err, "input %q", raw)
	}
}

func TestVerifyRejectsUnsignedToken(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:  "user-1",
		IssuedAt: jwt.NewNumericDate(time.Now()),
	})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Verify(raw)
	assert.Error(t, err)
}

func TestVerifyRejectsMissingSubject(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	claims := jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.Verify(raw)
	assert.Error(t, err)
}

func TestGenerateResetSecret(t *testing.T) {
	raw, digest, expires, err := GenerateResetSecret()
	require.NoError(t, err)

	assert.Len(t, raw, 64)
	assert.Len(t, digest, 64)
	assert.NotEqual(t, raw, digest)
	assert.Equal(t, HashResetSecret(raw), digest)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), expires, 5*time.Second)

	raw2, digest2, _, err := GenerateResetSecret()
	require.NoError(t, err)
	assert.NotEqual(t, raw, raw2)
	assert.NotEqual(t, digest, digest2)
}
