package http

import (
	"time"

	"github.com/dougsimpsoncodes/myailandlord/internal/invites/domain"
	"github.com/dougsimpsoncodes/myailandlord/pkg/invitesdk"
)

// statusFromReason maps internal rejection reasons onto the public
// status vocabulary. Malformed and unknown codes collapse to "invalid",
// and a lost consumption race reads as "exhausted"; the distinction
// only exists in logs.
func statusFromReason(r domain.Reason) string {
	switch r {
	case domain.ReasonMalformed, domain.ReasonNotFound:
		return invitesdk.StatusInvalid
	case domain.ReasonRevoked:
		return invitesdk.StatusRevoked
	case domain.ReasonExpired:
		return invitesdk.StatusExpired
	case domain.ReasonExhausted, domain.ReasonConflict:
		return invitesdk.StatusExhausted
	case domain.ReasonLinkingFailed:
		return invitesdk.StatusLinkingFailed
	default:
		return invitesdk.StatusInvalid
	}
}

func inviteSummary(inv domain.Invite, now time.Time) invitesdk.InviteSummary {
	s := invitesdk.InviteSummary{
		ID:                inv.ID,
		PropertyID:        inv.PropertyID,
		DeliveryMethod:    string(inv.DeliveryMethod),
		IntendedRecipient: inv.IntendedRecipient,
		MaxUses:           inv.MaxUses,
		UseCount:          inv.UseCount,
		Status:            string(inv.StatusAt(now)),
		ExpiresAt:         inv.ExpiresAt.UTC().Format(time.RFC3339),
		CreatedAt:         inv.CreatedAt.UTC().Format(time.RFC3339),
	}
	if inv.RevokedAt != nil {
		s.RevokedAt = inv.RevokedAt.UTC().Format(time.RFC3339)
	}
	return s
}

func propertyPreview(p domain.Property) *invitesdk.PropertyPreview {
	return &invitesdk.PropertyPreview{
		ID:          p.ID,
		Name:        p.Name,
		AddressLine: p.AddressLine,
	}
}
