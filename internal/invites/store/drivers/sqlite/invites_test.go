package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dougsimpsoncodes/myailandlord/internal/invites/domain"
	"github.com/dougsimpsoncodes/myailandlord/internal/invites/store"
	"github.com/dougsimpsoncodes/myailandlord/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)",
		filepath.Join(t.TempDir(), "invites_test.db"))

	s, err := NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func seedProperty(t *testing.T, s *Store) domain.Property {
	t.Helper()

	now := time.Now().UTC()
	p := domain.Property{
		ID:          idx.New().String(),
		Name:        "12 Acacia Court",
		AddressLine: "12 Acacia Ct, Springfield",
		CreatedBy:   "landlord-1",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, s.Properties().UpsertProperty(context.Background(), p))
	return p
}

func seedInvite(t *testing.T, s *Store, propertyID string, mutate func(*domain.Invite)) domain.Invite {
	t.Helper()

	now := time.Now().UTC()
	inv := domain.Invite{
		ID:               idx.New().String(),
		PropertyID:       propertyID,
		CreatedBy:        "landlord-1",
		TokenFingerprint: idx.New().String(), // uniqueness is all the store cares about
		TokenDigest:      "digest",
		TokenSalt:        []byte("0123456789abcdef"),
		DeliveryMethod:   domain.DeliveryCode,
		MaxUses:          1,
		ExpiresAt:        now.Add(48 * time.Hour),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if mutate != nil {
		mutate(&inv)
	}
	require.NoError(t, s.Invites().CreateInvite(context.Background(), inv))
	return inv
}

func TestCreateInviteDuplicateFingerprint(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	p := seedProperty(t, s)
	inv := seedInvite(t, s, p.ID, nil)

	dup := inv
	dup.ID = idx.New().String()
	err := s.Invites().CreateInvite(context.Background(), dup)
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestGetInviteByFingerprint(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)
	p := seedProperty(t, s)
	inv := seedInvite(t, s, p.ID, func(i *domain.Invite) {
		i.IntendedRecipient = "tenant@example.com"
		i.DeliveryMethod = domain.DeliveryEmail
	})

	got, err := s.Invites().GetInviteByFingerprint(ctx, inv.TokenFingerprint)
	require.NoError(t, err)
	require.Equal(t, inv.ID, got.ID)
	require.Equal(t, inv.PropertyID, got.PropertyID)
	require.Equal(t, inv.TokenSalt, got.TokenSalt)
	require.Equal(t, "tenant@example.com", got.IntendedRecipient)
	require.Equal(t, domain.DeliveryEmail, got.DeliveryMethod)
	require.Nil(t, got.RevokedAt)
	require.WithinDuration(t, inv.ExpiresAt, got.ExpiresAt, time.Second)

	_, err = s.Invites().GetInviteByFingerprint(ctx, "no-such-fingerprint")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestTryConsume(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("increments while preconditions hold", func(t *testing.T) {
		s := newTestStore(t)
		p := seedProperty(t, s)
		inv := seedInvite(t, s, p.ID, func(i *domain.Invite) { i.MaxUses = 2 })

		require.NoError(t, s.Invites().TryConsume(ctx, inv.ID, 0, now))
		require.NoError(t, s.Invites().TryConsume(ctx, inv.ID, 1, now))

		got, err := s.Invites().GetInviteByID(ctx, inv.ID)
		require.NoError(t, err)
		require.Equal(t, 2, got.UseCount)

		require.ErrorIs(t, s.Invites().TryConsume(ctx, inv.ID, 2, now), store.ErrConflict)
	})

	t.Run("stale expected count loses", func(t *testing.T) {
		s := newTestStore(t)
		p := seedProperty(t, s)
		inv := seedInvite(t, s, p.ID, nil)

		require.NoError(t, s.Invites().TryConsume(ctx, inv.ID, 0, now))
		require.ErrorIs(t, s.Invites().TryConsume(ctx, inv.ID, 0, now), store.ErrConflict)

		got, err := s.Invites().GetInviteByID(ctx, inv.ID)
		require.NoError(t, err)
		require.Equal(t, 1, got.UseCount)
	})

	t.Run("rejects expired", func(t *testing.T) {
		s := newTestStore(t)
		p := seedProperty(t, s)
		inv := seedInvite(t, s, p.ID, nil)

		err := s.Invites().TryConsume(ctx, inv.ID, 0, inv.ExpiresAt.Add(time.Second))
		require.ErrorIs(t, err, store.ErrConflict)
	})

	t.Run("rejects revoked", func(t *testing.T) {
		s := newTestStore(t)
		p := seedProperty(t, s)
		inv := seedInvite(t, s, p.ID, nil)

		require.NoError(t, s.Invites().RevokeInvite(ctx, inv.ID, "landlord-1", now))
		require.ErrorIs(t, s.Invites().TryConsume(ctx, inv.ID, 0, now), store.ErrConflict)
	})

	t.Run("missing record", func(t *testing.T) {
		s := newTestStore(t)
		require.ErrorIs(t, s.Invites().TryConsume(ctx, "missing", 0, now), store.ErrNotFound)
	})

	t.Run("concurrent racers produce exactly one winner", func(t *testing.T) {
		s := newTestStore(t)
		p := seedProperty(t, s)
		inv := seedInvite(t, s, p.ID, nil)

		const racers = 8
		var wg sync.WaitGroup
		errs := make([]error, racers)

		for i := range racers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs[i] = s.Invites().TryConsume(ctx, inv.ID, 0, now)
			}()
		}
		wg.Wait()

		var wins int
		for _, err := range errs {
			if err == nil {
				wins++
			} else {
				require.ErrorIs(t, err, store.ErrConflict)
			}
		}
		require.Equal(t, 1, wins)

		got, err := s.Invites().GetInviteByID(ctx, inv.ID)
		require.NoError(t, err)
		require.Equal(t, 1, got.UseCount)
	})
}

func TestRevokeInvite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Now().UTC()

	s := newTestStore(t)
	p := seedProperty(t, s)
	inv := seedInvite(t, s, p.ID, nil)

	require.NoError(t, s.Invites().RevokeInvite(ctx, inv.ID, "landlord-1", now))

	got, err := s.Invites().GetInviteByID(ctx, inv.ID)
	require.NoError(t, err)
	require.NotNil(t, got.RevokedAt)
	require.Equal(t, "landlord-1", got.RevokedBy)

	// Revocation is write-once; the original revoker stands.
	err = s.Invites().RevokeInvite(ctx, inv.ID, "someone-else", now.Add(time.Minute))
	require.ErrorIs(t, err, store.ErrAlreadyRevoked)

	got, err = s.Invites().GetInviteByID(ctx, inv.ID)
	require.NoError(t, err)
	require.Equal(t, "landlord-1", got.RevokedBy)

	require.ErrorIs(t, s.Invites().RevokeInvite(ctx, "missing", "x", now), store.ErrNotFound)
}

func TestListPropertyInvites(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)
	p := seedProperty(t, s)

	first := seedInvite(t, s, p.ID, func(i *domain.Invite) {
		i.CreatedAt = time.Now().UTC().Add(-time.Hour)
	})
	second := seedInvite(t, s, p.ID, nil)

	invites, err := s.Invites().ListPropertyInvites(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, invites, 2)
	require.Equal(t, second.ID, invites[0].ID)
	require.Equal(t, first.ID, invites[1].ID)
}

func TestDeleteInvitesExpiredBefore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Now().UTC()
	s := newTestStore(t)
	p := seedProperty(t, s)

	stale := seedInvite(t, s, p.ID, func(i *domain.Invite) {
		i.ExpiresAt = now.Add(-30 * 24 * time.Hour)
	})
	fresh := seedInvite(t, s, p.ID, nil)

	deleted, err := s.Invites().DeleteInvitesExpiredBefore(ctx, now.Add(-7*24*time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 1, deleted)

	_, err = s.Invites().GetInviteByID(ctx, stale.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Invites().GetInviteByID(ctx, fresh.ID)
	require.NoError(t, err)
}

func TestTenancies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Now().UTC()
	s := newTestStore(t)
	p := seedProperty(t, s)
	inv := seedInvite(t, s, p.ID, nil)

	tenancy := domain.Tenancy{
		ID:         idx.New().String(),
		PropertyID: p.ID,
		TenantID:   "tenant-1",
		InviteID:   inv.ID,
		CreatedAt:  now,
	}
	require.NoError(t, s.Tenancies().CreateTenancy(ctx, tenancy))

	// Same tenant cannot be linked to the same property twice.
	dup := tenancy
	dup.ID = idx.New().String()
	require.ErrorIs(t, s.Tenancies().CreateTenancy(ctx, dup), store.ErrAlreadyExists)

	listed, err := s.Tenancies().ListPropertyTenancies(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, "tenant-1", listed[0].TenantID)
}
