package sqlite

import (
	"context"

	"github.com/dougsimpsoncodes/myailandlord/internal/invites/domain"
)

type propertiesRepo struct {
	db dbtx
}

func (r *propertiesRepo) UpsertProperty(ctx context.Context, p domain.Property) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO properties (id, name, address_line, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			address_line = excluded.address_line,
			updated_at = excluded.updated_at`,
		p.ID, p.Name, p.AddressLine, p.CreatedBy, utc(p.CreatedAt), utc(p.UpdatedAt),
	)
	return err
}

func (r *propertiesRepo) GetPropertyByID(ctx context.Context, id string) (domain.Property, error) {
	var p domain.Property
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, address_line, created_by, created_at, updated_at
		FROM properties WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.AddressLine, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Property{}, mapNotFound(err)
	}
	return p, nil
}
