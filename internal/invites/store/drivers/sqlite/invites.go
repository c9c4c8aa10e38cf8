package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dougsimpsoncodes/myailandlord/internal/invites/domain"
	"github.com/dougsimpsoncodes/myailandlord/internal/invites/store"
)

type invitesRepo struct {
	db dbtx
}

const inviteColumns = `id, property_id, created_by, token_fingerprint, token_digest, token_salt,
	delivery_method, intended_recipient, max_uses, use_count, expires_at,
	revoked_at, revoked_by, created_at, updated_at`

func (r *invitesRepo) CreateInvite(ctx context.Context, inv domain.Invite) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO invites (`+inviteColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL, NULL, ?, ?)`,
		inv.ID,
		inv.PropertyID,
		inv.CreatedBy,
		inv.TokenFingerprint,
		inv.TokenDigest,
		inv.TokenSalt,
		string(inv.DeliveryMethod),
		mapStringNull(inv.IntendedRecipient),
		inv.MaxUses,
		inv.UseCount,
		utc(inv.ExpiresAt),
		utc(inv.CreatedAt),
		utc(inv.UpdatedAt),
	)
	if err != nil {
		return mapConstraint(err)
	}
	return nil
}

func (r *invitesRepo) GetInviteByID(ctx context.Context, id string) (domain.Invite, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+inviteColumns+` FROM invites WHERE id = ?`, id)
	return scanInvite(row)
}

func (r *invitesRepo) GetInviteByFingerprint(
	ctx context.Context,
	fingerprint string,
) (domain.Invite, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+inviteColumns+` FROM invites WHERE token_fingerprint = ?`, fingerprint)
	return scanInvite(row)
}

// TryConsume is the single atomic step of acceptance. The WHERE clause
// re-checks every precondition and the use_count compare-and-swap in
// the same statement, so when two acceptors race on the last remaining
// use exactly one UPDATE matches.
func (r *invitesRepo) TryConsume(
	ctx context.Context,
	id string,
	expectedUseCount int,
	now time.Time,
) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE invites
		SET use_count = use_count + 1, updated_at = ?
		WHERE id = ?
		  AND use_count = ?
		  AND use_count < max_uses
		  AND revoked_at IS NULL
		  AND expires_at > ?`,
		utc(now), id, expectedUseCount, utc(now),
	)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}

	// Nothing matched: either the record is gone or the precondition
	// changed underneath us.
	if _, err := r.GetInviteByID(ctx, id); errors.Is(err, store.ErrNotFound) {
		return store.ErrNotFound
	} else if err != nil {
		return err
	}
	return store.ErrConflict
}

func (r *invitesRepo) RevokeInvite(ctx context.Context, id, revokedBy string, now time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE invites
		SET revoked_at = ?, revoked_by = ?, updated_at = ?
		WHERE id = ? AND revoked_at IS NULL`,
		utc(now), revokedBy, utc(now), id,
	)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}

	if _, err := r.GetInviteByID(ctx, id); errors.Is(err, store.ErrNotFound) {
		return store.ErrNotFound
	} else if err != nil {
		return err
	}
	return store.ErrAlreadyRevoked
}

func (r *invitesRepo) ListPropertyInvites(
	ctx context.Context,
	propertyID string,
) ([]domain.Invite, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+inviteColumns+` FROM invites
		WHERE property_id = ?
		ORDER BY created_at DESC`, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invites []domain.Invite
	for rows.Next() {
		inv, err := scanInvite(rows)
		if err != nil {
			return nil, err
		}
		invites = append(invites, inv)
	}
	return invites, rows.Err()
}

func (r *invitesRepo) DeleteInvitesExpiredBefore(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM invites WHERE expires_at < ?`, utc(cutoff))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanInvite(s scanner) (domain.Invite, error) {
	var (
		inv               domain.Invite
		deliveryMethod    string
		intendedRecipient sql.NullString
		revokedAt         sql.NullTime
		revokedBy         sql.NullString
	)

	err := s.Scan(
		&inv.ID,
		&inv.PropertyID,
		&inv.CreatedBy,
		&inv.TokenFingerprint,
		&inv.TokenDigest,
		&inv.TokenSalt,
		&deliveryMethod,
		&intendedRecipient,
		&inv.MaxUses,
		&inv.UseCount,
		&inv.ExpiresAt,
		&revokedAt,
		&revokedBy,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	)
	if err != nil {
		return domain.Invite{}, mapNotFound(err)
	}

	inv.DeliveryMethod = domain.DeliveryMethod(deliveryMethod)
	inv.IntendedRecipient = mapNullString(intendedRecipient)
	inv.RevokedAt = mapNullTimePtr(revokedAt)
	inv.RevokedBy = mapNullString(revokedBy)
	return inv, nil
}
