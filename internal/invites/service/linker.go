package service

import (
	"context"
	"time"

	"github.com/dougsimpsoncodes/myailandlord/internal/invites/domain"
	"github.com/dougsimpsoncodes/myailandlord/internal/invites/store"
	"github.com/dougsimpsoncodes/myailandlord/pkg/idx"
)

// Linker creates the tenant-property relationship when an invite is
// accepted. It runs inside the acceptance transaction: returning an
// error rolls the consumed use back with it.
type Linker interface {
	Link(ctx context.Context, tx store.Tx, tenantID string, inv domain.Invite) (domain.Tenancy, error)
}

// TenancyLinker is the default Linker; it records the link as a
// tenancies row in the same database.
type TenancyLinker struct {
	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

func (l *TenancyLinker) Link(
	ctx context.Context,
	tx store.Tx,
	tenantID string,
	inv domain.Invite,
) (domain.Tenancy, error) {
	now := time.Now().UTC()
	if l.Now != nil {
		now = l.Now().UTC()
	}

	tenancy := domain.Tenancy{
		ID:         idx.New().String(),
		PropertyID: inv.PropertyID,
		TenantID:   tenantID,
		InviteID:   inv.ID,
		CreatedAt:  now,
	}
	if err := tx.Tenancies().CreateTenancy(ctx, tenancy); err != nil {
		return domain.Tenancy{}, err
	}
	return tenancy, nil
}
