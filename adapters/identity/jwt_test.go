package identity

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify(t *testing.T) {
	v, err := NewVerifier("secret", "janus-auth", "janus")
	require.NoError(t, err)

	token, err := v.Sign("user-42", jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	require.NoError(t, err)

	uid, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", uid)
}

func TestVerify_SubjectFallback(t *testing.T) {
	v, err := NewVerifier("secret", "", "")
	require.NoError(t, err)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "sub-1"}).
		SignedString([]byte("secret"))
	require.NoError(t, err)

	uid, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "sub-1", uid)
}

func TestVerify_Rejects(t *testing.T) {
	v, err := NewVerifier("secret", "janus-auth", "")
	require.NoError(t, err)

	expired, err := v.Sign("u", jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	})
	require.NoError(t, err)

	other, err := NewVerifier("other-secret", "janus-auth", "")
	require.NoError(t, err)
	wrongKey, err := other.Sign("u", jwt.RegisteredClaims{})
	require.NoError(t, err)

	wrongIssuer, err := v.Sign("u", jwt.RegisteredClaims{Issuer: "someone-else"})
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Issuer: "janus-auth"}).
		SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"empty", "", ErrInvalidToken},
		{"garbage", "not.a.jwt", ErrInvalidToken},
		{"expired", expired, ErrInvalidToken},
		{"wrong key", wrongKey, ErrInvalidToken},
		{"wrong issuer", wrongIssuer, ErrInvalidToken},
		{"no subject", noSubject, ErrMissingSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewVerifier_RequiresSecret(t *testing.T) {
	_, err := NewVerifier("", "", "")
	assert.Error(t, err)
}
