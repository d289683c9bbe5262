package tenants

import "context"

// Repo stores tenants. Signup is the only writer.
type Repo interface {
	Create(ctx context.Context, tenant *Tenant) error
	Get(ctx context.Context, tenantID string) (*Tenant, error)
}
