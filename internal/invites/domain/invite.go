package domain

import "time"

// DeliveryMethod records how the landlord intends to hand the code
// over. Informational only; validation never branches on it.
type DeliveryMethod string

const (
	DeliveryCode  DeliveryMethod = "code"
	DeliveryEmail DeliveryMethod = "email"
)

// Invite is the persisted record of one issued invite code. The
// plaintext code itself is never stored; only the lookup fingerprint
// and the salted digest survive creation.
type Invite struct {
	ID         string
	PropertyID string
	CreatedBy  string

	TokenFingerprint string // deterministic SHA-256 lookup key
	TokenDigest      string // salted Argon2id digest, verified on use
	TokenSalt        []byte

	DeliveryMethod    DeliveryMethod
	IntendedRecipient string // audit hint only, never an access-control input

	MaxUses  int
	UseCount int

	ExpiresAt time.Time
	RevokedAt *time.Time
	RevokedBy string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Status is the derived lifecycle state of an invite. It is computed on
// read, never stored.
type Status string

const (
	StatusActive    Status = "active"
	StatusExhausted Status = "exhausted"
	StatusExpired   Status = "expired"
	StatusRevoked   Status = "revoked"
)

// StatusAt reports the invite's state at the given instant. When
// several states apply the reporting priority is
// revoked > expired > exhausted > active.
func (inv Invite) StatusAt(now time.Time) Status {
	switch {
	case inv.RevokedAt != nil:
		return StatusRevoked
	case !now.Before(inv.ExpiresAt):
		return StatusExpired
	case inv.UseCount >= inv.MaxUses:
		return StatusExhausted
	default:
		return StatusActive
	}
}
