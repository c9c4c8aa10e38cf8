package domain

import "time"

// Reason explains why an invite code was rejected. The full taxonomy
// also covers failures that happen before a record is loaded
// (malformed, not_found) and during acceptance (conflict,
// linking_failed); Evaluate itself only produces the record-level ones.
type Reason string

const (
	ReasonMalformed     Reason = "malformed"
	ReasonNotFound      Reason = "not_found"
	ReasonRevoked       Reason = "revoked"
	ReasonExpired       Reason = "expired"
	ReasonExhausted     Reason = "exhausted"
	ReasonConflict      Reason = "conflict"
	ReasonLinkingFailed Reason = "linking_failed"
)

// Decision is the outcome of evaluating a loaded invite record.
type Decision struct {
	Accept bool
	Reason Reason // empty when Accept is true
}

// Evaluate decides whether a loaded invite record is redeemable at the
// given instant. First match wins: revoked, then expired, then
// exhausted. An operator's explicit revoke or natural expiry is
// reported ahead of "someone else already used it" so the holder gets
// the clearer explanation. Expiry is inclusive: a record is expired at
// exactly ExpiresAt.
func Evaluate(inv Invite, now time.Time) Decision {
	switch {
	case inv.RevokedAt != nil:
		return Decision{Reason: ReasonRevoked}
	case !now.Before(inv.ExpiresAt):
		return Decision{Reason: ReasonExpired}
	case inv.UseCount >= inv.MaxUses:
		return Decision{Reason: ReasonExhausted}
	default:
		return Decision{Accept: true}
	}
}
