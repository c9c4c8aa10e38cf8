package invitesdk

// Status values returned by validate and accept. "invalid" covers both
// malformed input and codes that were never issued, so callers cannot
// probe which of the two they hit.
const (
	StatusOK            = "ok"
	StatusInvalid       = "invalid"
	StatusExpired       = "expired"
	StatusRevoked       = "revoked"
	StatusExhausted     = "exhausted"
	StatusLinkingFailed = "linking_failed"
)

// MintInviteRequest creates a new invite for a property.
type MintInviteRequest struct {
	PropertyID        string `json:"property_id"`
	DeliveryMethod    string `json:"delivery_method"` // "code" or "email"
	IntendedRecipient string `json:"intended_recipient,omitempty"`
	TTLSeconds        int64  `json:"ttl_seconds,omitempty"` // 0 means server default
	MaxUses           int    `json:"max_uses,omitempty"`    // 0 means server default
}

// InviteSummary describes a stored invite. The plaintext code is never
// part of a summary; it only appears in MintInviteResponse.Code.
type InviteSummary struct {
	ID                string `json:"id"`
	PropertyID        string `json:"property_id"`
	DeliveryMethod    string `json:"delivery_method"`
	IntendedRecipient string `json:"intended_recipient,omitempty"`
	MaxUses           int    `json:"max_uses"`
	UseCount          int    `json:"use_count"`
	Status            string `json:"status"`
	ExpiresAt         string `json:"expires_at"` // RFC 3339
	CreatedAt         string `json:"created_at"` // RFC 3339
	RevokedAt         string `json:"revoked_at,omitempty"`
}

// MintInviteResponse carries the plaintext code exactly once.
type MintInviteResponse struct {
	Code   string        `json:"code"`
	Invite InviteSummary `json:"invite"`
}

// ValidateInviteRequest checks a candidate code without consuming it.
type ValidateInviteRequest struct {
	Code string `json:"code"`
}

// PropertyPreview is the safe subset of a property shown to a tenant
// before they accept.
type PropertyPreview struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AddressLine string `json:"address_line,omitempty"`
}

// ValidateInviteResponse has the same shape for every outcome; only
// Status varies, and Property is present only when Status is "ok".
type ValidateInviteResponse struct {
	Status   string           `json:"status"`
	Property *PropertyPreview `json:"property,omitempty"`
}

// AcceptInviteRequest redeems a code for the authenticated tenant.
type AcceptInviteRequest struct {
	Code string `json:"code"`
}

// AcceptInviteResponse reports the redemption outcome.
type AcceptInviteResponse struct {
	Status     string `json:"status"`
	PropertyID string `json:"property_id,omitempty"`
	TenancyID  string `json:"tenancy_id,omitempty"`
}

// RevokeInviteResponse confirms a revocation.
type RevokeInviteResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// ListInvitesResponse is the landlord dashboard listing.
type ListInvitesResponse struct {
	Invites []InviteSummary `json:"invites"`
}

// SyncPropertyRequest mirrors a host-platform property record.
type SyncPropertyRequest struct {
	Name        string `json:"name"`
	AddressLine string `json:"address_line,omitempty"`
}

// HealthChecks reports per-dependency health in readyz responses.
type HealthChecks struct {
	Database string `json:"database"`
}

// HealthResponse is returned by the livez and readyz probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// ErrorResponse is the error body every endpoint uses.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}
