package store

import (
	"context"
	"errors"
	"time"

	"github.com/dougsimpsoncodes/myailandlord/internal/invites/domain"
)

var (
	ErrNotFound       = errors.New("store: not found")
	ErrAlreadyExists  = errors.New("store: already exists")
	ErrConflict       = errors.New("store: conflict")
	ErrAlreadyRevoked = errors.New("store: already revoked")
)

// Store is the root data access interface. Concrete drivers (sqlite for
// now) implement this. Sub-repositories keep concerns tidy and make it
// obvious which operations participate in a transaction.
type Store interface {
	Invites() Invites
	Properties() Properties
	Tenancies() Tenancies

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error
	// the transaction is rolled back, otherwise it is committed. This
	// is the recommended way to run multi-step atomic operations such
	// as consume-and-link during acceptance.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It exposes the same repos plus
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Invites interface {
	// CreateInvite inserts a new invite. Returns ErrAlreadyExists when
	// another record already carries the same token fingerprint; the
	// caller regenerates the code and retries.
	CreateInvite(ctx context.Context, inv domain.Invite) error

	// GetInviteByID fetches an invite regardless of state.
	GetInviteByID(ctx context.Context, id string) (domain.Invite, error)

	// GetInviteByFingerprint is the validation read path. It returns
	// the record whatever its state; deciding expired/revoked/exhausted
	// is the evaluator's job, not the query's.
	GetInviteByFingerprint(ctx context.Context, fingerprint string) (domain.Invite, error)

	// TryConsume increments use_count by exactly one, but only while
	// the record is unrevoked, unexpired, below max_uses and still at
	// expectedUseCount. The check and increment execute as a single
	// conditional UPDATE so concurrent acceptors cannot both win the
	// last use. Returns ErrConflict when the precondition no longer
	// holds and ErrNotFound when no such record exists.
	TryConsume(ctx context.Context, id string, expectedUseCount int, now time.Time) error

	// RevokeInvite sets revoked_at/revoked_by exactly once. A second
	// call returns ErrAlreadyRevoked and leaves the original revoker
	// untouched.
	RevokeInvite(ctx context.Context, id, revokedBy string, now time.Time) error

	// ListPropertyInvites returns all invites for a property, newest
	// first.
	ListPropertyInvites(ctx context.Context, propertyID string) ([]domain.Invite, error)

	// DeleteInvitesExpiredBefore removes invites whose expiry lies
	// before the cutoff. Housekeeping only; the lifecycle itself never
	// deletes records.
	DeleteInvitesExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type Properties interface {
	// UpsertProperty creates or refreshes the mirrored property record.
	UpsertProperty(ctx context.Context, p domain.Property) error

	// GetPropertyByID fetches a mirrored property.
	GetPropertyByID(ctx context.Context, id string) (domain.Property, error)
}

type Tenancies interface {
	// CreateTenancy links a tenant to a property. Returns
	// ErrAlreadyExists when the pair is already linked.
	CreateTenancy(ctx context.Context, t domain.Tenancy) error

	// ListPropertyTenancies returns tenancies for a property, newest
	// first.
	ListPropertyTenancies(ctx context.Context, propertyID string) ([]domain.Tenancy, error)
}
