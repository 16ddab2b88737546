package entity

import "time"

// Client representa un cliente del tenant (receptor de facturas).
type Client struct {
	ID        string
	TenantID  string
	Name      string
	TaxID     string // NIF o documento fiscal
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
