package sqlite

import (
	"context"

	"github.com/dougsimpsoncodes/myailandlord/internal/invites/domain"
)

type tenanciesRepo struct {
	db dbtx
}

func (r *tenanciesRepo) CreateTenancy(ctx context.Context, t domain.Tenancy) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tenancies (id, property_id, tenant_id, invite_id, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		t.ID, t.PropertyID, t.TenantID, t.InviteID, utc(t.CreatedAt),
	)
	if err != nil {
		return mapConstraint(err)
	}
	return nil
}

func (r *tenanciesRepo) ListPropertyTenancies(
	ctx context.Context,
	propertyID string,
) ([]domain.Tenancy, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, property_id, tenant_id, invite_id, created_at
		FROM tenancies
		WHERE property_id = ?
		ORDER BY created_at DESC`, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenancies []domain.Tenancy
	for rows.Next() {
		var t domain.Tenancy
		if err := rows.Scan(&t.ID, &t.PropertyID, &t.TenantID, &t.InviteID, &t.CreatedAt); err != nil {
			return nil, err
		}
		tenancies = append(tenancies, t)
	}
	return tenancies, rows.Err()
}
