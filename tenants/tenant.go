package tenants

import "time"

// Tenant is an isolated organisation namespace. Every user belongs to exactly one tenant.
type Tenant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Domain    string    `json:"domain,omitempty"`
	Settings  Settings  `json:"settings"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Settings holds per-tenant invoicing preferences.
type Settings struct {
	InvoicePrefix string  `json:"invoicePrefix"`
	TaxRate       float64 `json:"taxRate"`
	Currency      string  `json:"currency"`
}

// DefaultSettings are applied to tenants created through signup.
func DefaultSettings() Settings {
	return Settings{
		InvoicePrefix: "INV",
		TaxRate:       0,
		Currency:      "USD",
	}
}

// New returns a tenant with default settings.
func New(name string) *Tenant {
	return &Tenant{
		Name:     name,
		Settings: DefaultSettings(),
	}
}
