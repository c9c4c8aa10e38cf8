package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dougsimpsoncodes/myailandlord/internal/invites/domain"
	"github.com/dougsimpsoncodes/myailandlord/internal/invites/store"
	"github.com/dougsimpsoncodes/myailandlord/pkg/cryptox"
	"github.com/dougsimpsoncodes/myailandlord/pkg/idx"
	"github.com/dougsimpsoncodes/myailandlord/pkg/slogx"
)

var (
	ErrInvalidMintRequest   = errors.New("invalid invite mint request")
	ErrPropertyNotFound     = errors.New("property not found")
	ErrInviteNotFound       = errors.New("invite not found")
	ErrInviteAlreadyRevoked = errors.New("invite already revoked")
)

// mintRetries bounds the regenerate-and-retry loop on a fingerprint
// collision. Collisions are astronomically unlikely but not ignorable.
const mintRetries = 3

// Config carries every tunable the coordinator uses. No defaults hide
// inside the logic; the app layer decides them all.
type Config struct {
	DefaultTTL     time.Duration
	MaxTTL         time.Duration
	DefaultMaxUses int
}

// MintParams describes one invite to create.
type MintParams struct {
	PropertyID        string
	CreatedBy         string
	DeliveryMethod    domain.DeliveryMethod
	IntendedRecipient string
	TTL               time.Duration // 0 means Config.DefaultTTL
	MaxUses           int           // 0 means Config.DefaultMaxUses
}

// MintResult returns the plaintext code exactly once, alongside the
// stored record. The code is the caller's to deliver; it cannot be
// re-derived afterwards.
type MintResult struct {
	Code   string
	Invite domain.Invite
}

// ValidationResult is the uniform outcome of a read-only validation.
// Only the reason varies between failure modes; no internal identifiers
// leak beyond what a preview screen needs.
type ValidationResult struct {
	Decision domain.Decision
	Invite   domain.Invite   // zero value unless accepted
	Property domain.Property // zero value unless accepted
}

// AcceptResult is the outcome of a redemption attempt.
type AcceptResult struct {
	Decision   domain.Decision
	PropertyID string
	TenancyID  string
}

// InviteService coordinates the invite lifecycle against the store:
// mint, validate, accept, revoke. It owns the security policy (hashed
// storage, uniform responses, no plaintext in logs); atomicity of the
// consume step lives in the store.
type InviteService struct {
	Store  store.Store
	Linker Linker
	Config Config

	// Now is the clock; nil means time.Now. Swappable in tests.
	Now func() time.Time
}

func (s *InviteService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// MintInvite creates a new invite for a property and returns the
// plaintext code to the caller.
func (s *InviteService) MintInvite(ctx context.Context, p MintParams) (MintResult, error) {
	log := slogx.FromContext(ctx)
	now := s.now()

	// 1. Validate the request.
	if p.PropertyID == "" || p.CreatedBy == "" {
		log.Warn("invite mint missing required fields")
		return MintResult{}, ErrInvalidMintRequest
	}
	switch p.DeliveryMethod {
	case domain.DeliveryCode, domain.DeliveryEmail:
	default:
		log.Warn("invite mint with unknown delivery method",
			slog.String("delivery_method", string(p.DeliveryMethod)),
		)
		return MintResult{}, ErrInvalidMintRequest
	}

	ttl := p.TTL
	if ttl == 0 {
		ttl = s.Config.DefaultTTL
	}
	if ttl < 0 || (s.Config.MaxTTL > 0 && ttl > s.Config.MaxTTL) {
		log.Warn("invite mint with out-of-range ttl", slog.Duration("ttl", ttl))
		return MintResult{}, ErrInvalidMintRequest
	}

	maxUses := p.MaxUses
	if maxUses == 0 {
		maxUses = s.Config.DefaultMaxUses
	}
	if maxUses < 1 {
		return MintResult{}, ErrInvalidMintRequest
	}

	// 2. The target property must be mirrored here already.
	if _, err := s.Store.Properties().GetPropertyByID(ctx, p.PropertyID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("invite mint for unknown property",
				slog.String("property_id", p.PropertyID),
			)
			return MintResult{}, ErrPropertyNotFound
		}
		log.Error("failed to fetch property", slog.Any("error", err))
		return MintResult{}, err
	}

	// 3. Generate, hash and store. A unique-fingerprint collision means
	// another record already owns this code; regenerate and retry.
	for attempt := 0; attempt < mintRetries; attempt++ {
		code, err := cryptox.GenerateInviteCode()
		if err != nil {
			log.Error("failed to generate invite code", slog.Any("error", err))
			return MintResult{}, err
		}
		salt, err := cryptox.GenerateSalt()
		if err != nil {
			log.Error("failed to generate salt", slog.Any("error", err))
			return MintResult{}, err
		}

		inv := domain.Invite{
			ID:                idx.New().String(),
			PropertyID:        p.PropertyID,
			CreatedBy:         p.CreatedBy,
			TokenFingerprint:  cryptox.FingerprintInviteCode(code),
			TokenDigest:       cryptox.DigestInviteCode(code, salt),
			TokenSalt:         salt,
			DeliveryMethod:    p.DeliveryMethod,
			IntendedRecipient: p.IntendedRecipient,
			MaxUses:           maxUses,
			UseCount:          0,
			ExpiresAt:         now.Add(ttl),
			CreatedAt:         now,
			UpdatedAt:         now,
		}

		err = s.Store.Invites().CreateInvite(ctx, inv)
		if errors.Is(err, store.ErrAlreadyExists) {
			log.Warn("invite code fingerprint collision, regenerating",
				slog.String("property_id", p.PropertyID),
				slog.Int("attempt", attempt+1),
			)
			continue
		}
		if err != nil {
			log.Error("failed to create invite",
				slog.String("invite_id", inv.ID),
				slog.Any("error", err),
			)
			return MintResult{}, err
		}

		log.Debug("invite minted",
			slog.String("invite_id", inv.ID),
			slog.String("property_id", inv.PropertyID),
			slog.String("delivery_method", string(inv.DeliveryMethod)),
			slog.Int("max_uses", inv.MaxUses),
			slog.Time("expires_at", inv.ExpiresAt),
		)

		// Only the return value ever carries the plaintext code.
		return MintResult{Code: code, Invite: inv}, nil
	}

	return MintResult{}, errors.New("invite code collision retries exhausted")
}

// ValidateInvite checks a candidate code without consuming it. Safe to
// call repeatedly; never mutates state.
//
// Every path computes the fingerprint and performs the store lookup,
// including malformed input, so response shape and timing do not reveal
// how far validation proceeded.
func (s *InviteService) ValidateInvite(ctx context.Context, candidate string) (ValidationResult, error) {
	log := slogx.FromContext(ctx)
	now := s.now()

	code := cryptox.NormalizeInviteCode(candidate)
	fingerprint := cryptox.FingerprintInviteCode(code)

	inv, lookupErr := s.Store.Invites().GetInviteByFingerprint(ctx, fingerprint)

	if !cryptox.IsWellFormedInviteCode(code) {
		return ValidationResult{Decision: domain.Decision{Reason: domain.ReasonMalformed}}, nil
	}
	if errors.Is(lookupErr, store.ErrNotFound) {
		return ValidationResult{Decision: domain.Decision{Reason: domain.ReasonNotFound}}, nil
	}
	if lookupErr != nil {
		log.Error("failed to fetch invite", slog.Any("error", lookupErr))
		return ValidationResult{}, lookupErr
	}

	// The salted digest is the authoritative check; the fingerprint is
	// only a lookup key.
	if !cryptox.VerifyInviteCode(code, inv.TokenSalt, inv.TokenDigest) {
		log.Warn("invite digest mismatch for fingerprint match",
			slog.String("invite_id", inv.ID),
		)
		return ValidationResult{Decision: domain.Decision{Reason: domain.ReasonNotFound}}, nil
	}

	decision := domain.Evaluate(inv, now)
	if !decision.Accept {
		return ValidationResult{Decision: decision}, nil
	}

	property, err := s.Store.Properties().GetPropertyByID(ctx, inv.PropertyID)
	if err != nil {
		log.Error("failed to fetch property for preview",
			slog.String("invite_id", inv.ID),
			slog.Any("error", err),
		)
		return ValidationResult{}, err
	}

	return ValidationResult{Decision: decision, Invite: inv, Property: property}, nil
}

// AcceptInvite redeems a candidate code for the accepting tenant. It
// re-validates from scratch (earlier Validate results may be stale),
// then consumes one use and creates the tenancy link inside a single
// transaction; if linking fails the consumption rolls back with it.
func (s *InviteService) AcceptInvite(
	ctx context.Context,
	candidate string,
	acceptingTenantID string,
) (AcceptResult, error) {
	log := slogx.FromContext(ctx)
	now := s.now()

	if acceptingTenantID == "" {
		return AcceptResult{Decision: domain.Decision{Reason: domain.ReasonMalformed}}, nil
	}

	validation, err := s.ValidateInvite(ctx, candidate)
	if err != nil {
		return AcceptResult{}, err
	}
	if !validation.Decision.Accept {
		return AcceptResult{Decision: validation.Decision}, nil
	}
	inv := validation.Invite

	var tenancy domain.Tenancy
	txErr := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Invites().TryConsume(ctx, inv.ID, inv.UseCount, now); err != nil {
			return err
		}

		linked, err := s.Linker.Link(ctx, tx, acceptingTenantID, inv)
		if err != nil {
			return errLinking{err}
		}
		tenancy = linked
		return nil
	})

	switch {
	case txErr == nil:
	case errors.Is(txErr, store.ErrConflict):
		// Lost the race between validation and consumption. Logged as a
		// conflict for diagnostics; callers present it as exhausted.
		log.Warn("invite consumption conflict",
			slog.String("invite_id", inv.ID),
		)
		return AcceptResult{Decision: domain.Decision{Reason: domain.ReasonConflict}}, nil
	case errors.Is(txErr, store.ErrNotFound):
		return AcceptResult{Decision: domain.Decision{Reason: domain.ReasonNotFound}}, nil
	default:
		var le errLinking
		if errors.As(txErr, &le) {
			log.Error("tenancy linking failed, consumption rolled back",
				slog.String("invite_id", inv.ID),
				slog.Any("error", le.err),
			)
			return AcceptResult{Decision: domain.Decision{Reason: domain.ReasonLinkingFailed}}, nil
		}
		log.Error("invite acceptance failed", slog.Any("error", txErr))
		return AcceptResult{}, txErr
	}

	log.Info("invite accepted",
		slog.String("invite_id", inv.ID),
		slog.String("property_id", inv.PropertyID),
		slog.String("tenancy_id", tenancy.ID),
	)

	return AcceptResult{
		Decision:   domain.Decision{Accept: true},
		PropertyID: inv.PropertyID,
		TenancyID:  tenancy.ID,
	}, nil
}

// RevokeInvite permanently disables an invite. Revocation happens at
// most once; there is no un-revoke.
func (s *InviteService) RevokeInvite(ctx context.Context, inviteID, revokedBy string) error {
	log := slogx.FromContext(ctx)

	err := s.Store.Invites().RevokeInvite(ctx, inviteID, revokedBy, s.now())
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrInviteNotFound
	case errors.Is(err, store.ErrAlreadyRevoked):
		return ErrInviteAlreadyRevoked
	case err != nil:
		log.Error("failed to revoke invite",
			slog.String("invite_id", inviteID),
			slog.Any("error", err),
		)
		return err
	}

	log.Info("invite revoked",
		slog.String("invite_id", inviteID),
		slog.String("revoked_by", revokedBy),
	)
	return nil
}

// ListPropertyInvites returns a property's invites for the landlord
// dashboard, newest first. Statuses are derived by the caller via
// StatusAt; nothing here mutates records.
func (s *InviteService) ListPropertyInvites(
	ctx context.Context,
	propertyID string,
) ([]domain.Invite, error) {
	if _, err := s.Store.Properties().GetPropertyByID(ctx, propertyID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return s.Store.Invites().ListPropertyInvites(ctx, propertyID)
}

// errLinking wraps collaborator failures so the transaction error path
// can tell them apart from store failures.
type errLinking struct{ err error }

func (e errLinking) Error() string { return "linking failed: " + e.err.Error() }
func (e errLinking) Unwrap() error { return e.err }
