package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func baseInvite(now time.Time) Invite {
	return Invite{
		ID:         "inv-1",
		PropertyID: "prop-1",
		MaxUses:    1,
		UseCount:   0,
		ExpiresAt:  now.Add(48 * time.Hour),
		CreatedAt:  now,
	}
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)

	t.Run("fresh invite accepts", func(t *testing.T) {
		d := Evaluate(baseInvite(now), now)
		require.True(t, d.Accept)
		require.Empty(t, d.Reason)
	})

	t.Run("accepts one second before expiry", func(t *testing.T) {
		inv := baseInvite(now)
		inv.ExpiresAt = now.Add(7 * 24 * time.Hour)

		d := Evaluate(inv, inv.ExpiresAt.Add(-time.Second))
		require.True(t, d.Accept)
	})

	t.Run("rejects at and after expiry", func(t *testing.T) {
		inv := baseInvite(now)

		d := Evaluate(inv, inv.ExpiresAt)
		require.False(t, d.Accept)
		require.Equal(t, ReasonExpired, d.Reason)

		d = Evaluate(inv, inv.ExpiresAt.Add(time.Second))
		require.Equal(t, ReasonExpired, d.Reason)
	})

	t.Run("rejects exhausted", func(t *testing.T) {
		inv := baseInvite(now)
		inv.UseCount = inv.MaxUses

		d := Evaluate(inv, now)
		require.Equal(t, ReasonExhausted, d.Reason)
	})

	t.Run("rejects revoked", func(t *testing.T) {
		inv := baseInvite(now)
		revokedAt := now.Add(-time.Minute)
		inv.RevokedAt = &revokedAt

		d := Evaluate(inv, now)
		require.Equal(t, ReasonRevoked, d.Reason)
	})

	t.Run("revoked wins over expired and exhausted", func(t *testing.T) {
		inv := baseInvite(now)
		revokedAt := now.Add(-time.Hour)
		inv.RevokedAt = &revokedAt
		inv.ExpiresAt = now.Add(-time.Minute)
		inv.UseCount = inv.MaxUses

		d := Evaluate(inv, now)
		require.Equal(t, ReasonRevoked, d.Reason)
	})

	t.Run("expired wins over exhausted", func(t *testing.T) {
		inv := baseInvite(now)
		inv.ExpiresAt = now.Add(-time.Minute)
		inv.UseCount = inv.MaxUses

		d := Evaluate(inv, now)
		require.Equal(t, ReasonExpired, d.Reason)
	})
}

func TestStatusAt(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)

	inv := baseInvite(now)
	require.Equal(t, StatusActive, inv.StatusAt(now))

	inv.UseCount = 1
	require.Equal(t, StatusExhausted, inv.StatusAt(now))

	inv.ExpiresAt = now.Add(-time.Second)
	require.Equal(t, StatusExpired, inv.StatusAt(now))

	revokedAt := now
	inv.RevokedAt = &revokedAt
	require.Equal(t, StatusRevoked, inv.StatusAt(now))
}
