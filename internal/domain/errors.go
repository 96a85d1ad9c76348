package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas). Los handlers HTTP los
// traducen a códigos de estado; acá solo importa la categoría.
var (
	// Autenticación
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrAccountDisabled    = errors.New("cuenta desactivada")
	ErrAccountLocked      = errors.New("cuenta bloqueada temporalmente")
	ErrTokenExpired       = errors.New("token expirado")
	ErrTokenInvalid       = errors.New("token inválido")

	// Autorización
	ErrPermissionDenied   = errors.New("no tenés permisos para esta acción")
	ErrTenantAccessDenied = errors.New("usuario sin empresa asignada")

	// Validación
	ErrUnknownOperationType = errors.New("tipo de operación desconocido")
	ErrMalformedID          = errors.New("identificador inválido")
	ErrInvalidInput         = errors.New("entrada inválida")

	// Recursos
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrConflict           = errors.New("conflicto con el estado actual")
)

// FieldError describe el rechazo de un campo concreto durante la validación.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// FieldErrors acumula rechazos de validación de payload. Implementa error
// para propagarse por las mismas vías que los sentinels.
type FieldErrors []FieldError

// Add agrega un rechazo; el formato del motivo admite fmt.Sprintf.
func (fe *FieldErrors) Add(field, format string, args ...interface{}) {
	*fe = append(*fe, FieldError{Field: field, Reason: fmt.Sprintf(format, args...)})
}

// Empty indica si no hubo rechazos.
func (fe FieldErrors) Empty() bool { return len(fe) == 0 }

// AsError devuelve nil si no hay rechazos, o self como error.
func (fe FieldErrors) AsError() error {
	if fe.Empty() {
		return nil
	}
	return fe
}

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for _, e := range fe {
		parts = append(parts, e.Field+": "+e.Reason)
	}
	return "validación: " + strings.Join(parts, "; ")
}
