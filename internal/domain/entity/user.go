package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"    // aprueba, paga y revierte documentos
	RoleEmployee = "employee" // crea y envía sus propios borradores
)

// User representa un usuario del sistema (pertenece a un Tenant).
type User struct {
	ID           string
	TenantID     string
	Email        string
	PasswordHash string // hash bcrypt, nunca en claro después de persistir
	Name         string
	Role         string // admin, employee
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
