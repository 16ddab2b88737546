package entity

import "time"

// Tenant representa una organización aislada del sistema (multi-tenant).
// Todas las entidades se particionan por TenantID.
type Tenant struct {
	ID        string
	Name      string
	TaxID     string // NIF/CIF de la organización
	Address   string
	Phone     string
	Email     string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
