package auth

import (
	"github.com/tu-usuario/voonda-api/internal/domain"
	"github.com/tu-usuario/voonda-api/internal/domain/entity"
)

// Identity caller autenticado con su estado vivo: siempre se construye
// re-resolviendo el usuario desde el store, nunca solo desde claims del
// token (la revocación/desactivación debe pegar antes del expiry de 24h).
type Identity struct {
	UserID    string
	Email     string
	CompanyID *string
	Role      *entity.Role
}

// IsSystemAdmin indica si el identity pertenece al administrador general.
func (i Identity) IsSystemAdmin() bool {
	return i.Role.IsSystemAdmin()
}

// Authorize decide allow/deny para (identity, recurso, acción). Función pura
// de la matriz de permisos: el administrador general siempre pasa; para el
// resto, cualquier entrada ausente deniega.
func Authorize(id Identity, resource string, action entity.Action) error {
	if id.IsSystemAdmin() {
		return nil
	}
	if id.Role == nil || !id.Role.Permissions.Allows(resource, action) {
		return domain.ErrPermissionDenied
	}
	return nil
}

// ScopeFor deriva el predicado de empresa del identity. El administrador
// general obtiene scope global; cualquier otro rol, el predicado fijo de su
// empresa. Un no-admin sin empresa es un estado de cuenta inconsistente y
// falla con ErrTenantAccessDenied.
func ScopeFor(id Identity) (domain.TenantScope, error) {
	if id.IsSystemAdmin() {
		return domain.GlobalScope(), nil
	}
	if id.CompanyID == nil || *id.CompanyID == "" {
		return domain.TenantScope{}, domain.ErrTenantAccessDenied
	}
	return domain.CompanyScope(*id.CompanyID), nil
}
