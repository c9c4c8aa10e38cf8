package domain

import "time"

// Property is a thin mirror of the host platform's property record,
// synced here so invite previews and tenancy links have something real
// to reference.
type Property struct {
	ID          string
	Name        string
	AddressLine string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Tenancy links an accepted tenant to a property. Written only inside
// the accept transaction, alongside the invite consumption.
type Tenancy struct {
	ID         string
	PropertyID string
	TenantID   string
	InviteID   string
	CreatedAt  time.Time
}
