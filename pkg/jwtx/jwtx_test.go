package jwtx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHS256Verifier(t *testing.T) {
	t.Parallel()

	secret := []byte("test-service-secret")
	v := &HS256Verifier{Secret: secret, Issuer: "myailandlord"}

	t.Run("round trip", func(t *testing.T) {
		raw, err := SignHS256(secret, "myailandlord", "user-1", []string{"invites:write", "invites:read"}, time.Minute)
		require.NoError(t, err)

		claims, err := v.Verify(raw)
		require.NoError(t, err)
		require.Equal(t, "user-1", claims.Subject)
		require.Equal(t, []string{"invites:write", "invites:read"}, claims.Scopes)
		require.WithinDuration(t, time.Now().Add(time.Minute), claims.ExpiresAt, 5*time.Second)
	})

	t.Run("rejects wrong secret", func(t *testing.T) {
		raw, err := SignHS256([]byte("other-secret"), "myailandlord", "user-1", nil, time.Minute)
		require.NoError(t, err)

		_, err = v.Verify(raw)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects wrong issuer", func(t *testing.T) {
		raw, err := SignHS256(secret, "someone-else", "user-1", nil, time.Minute)
		require.NoError(t, err)

		_, err = v.Verify(raw)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		raw, err := SignHS256(secret, "myailandlord", "user-1", nil, -time.Minute)
		require.NoError(t, err)

		_, err = v.Verify(raw)
		require.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := v.Verify("not.a.jwt")
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}
