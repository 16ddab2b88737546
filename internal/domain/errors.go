package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrProductNotFound    = errors.New("producto no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto de concurrencia, reintentar")
	ErrInvalidTransition  = errors.New("transición de estado no permitida")
)

// TransitionError detalla una transición rechazada: operación solicitada
// y estado actual del documento. Envuelve ErrInvalidTransition para que los
// callers puedan usar errors.Is sin conocer el tipo concreto.
type TransitionError struct {
	Op     string // submit, approve, mark-paid, ...
	Status string // estado actual del documento
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("no se puede aplicar %q sobre un documento en estado %s", e.Op, e.Status)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// NewTransitionError construye el error de transición rechazada.
func NewTransitionError(op, status string) error {
	return &TransitionError{Op: op, Status: status}
}
