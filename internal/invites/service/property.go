package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dougsimpsoncodes/myailandlord/internal/invites/domain"
	"github.com/dougsimpsoncodes/myailandlord/internal/invites/store"
	"github.com/dougsimpsoncodes/myailandlord/pkg/slogx"
)

var ErrInvalidProperty = errors.New("invalid property")

// PropertyService maintains the mirrored property records the host
// platform pushes over. The platform owns the real asset model; this
// mirror only exists for previews and referential integrity.
type PropertyService struct {
	Store store.Store

	Now func() time.Time
}

func (s *PropertyService) UpsertProperty(ctx context.Context, p domain.Property) error {
	log := slogx.FromContext(ctx)

	if p.ID == "" || p.Name == "" {
		return ErrInvalidProperty
	}

	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now().UTC()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	if err := s.Store.Properties().UpsertProperty(ctx, p); err != nil {
		log.Error("failed to upsert property",
			slog.String("property_id", p.ID),
			slog.Any("error", err),
		)
		return err
	}

	log.Debug("property synced", slog.String("property_id", p.ID))
	return nil
}

func (s *PropertyService) GetProperty(ctx context.Context, id string) (domain.Property, error) {
	p, err := s.Store.Properties().GetPropertyByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Property{}, ErrPropertyNotFound
	}
	return p, err
}
