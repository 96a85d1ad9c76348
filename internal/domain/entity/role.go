package entity

import "time"

// Nombres de rol del sistema.
const (
	RoleSystemAdmin  = "system_admin" // administrador general, sin empresa, acceso total
	RoleTenantAdmin  = "tenant_admin" // administrador de empresa
	RoleCollaborator = "collaborator" // colaborador con permisos acotados
)

// Action acciones posibles sobre un recurso.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// ActionSet conjunto fijo de acciones permitidas sobre un recurso.
// Se materializa una vez al cargar el rol, nunca se interpreta ad hoc.
type ActionSet struct {
	Create bool `json:"create"`
	Read   bool `json:"read"`
	Update bool `json:"update"`
	Delete bool `json:"delete"`
}

// Allows indica si la acción está permitida en el conjunto.
func (s ActionSet) Allows(a Action) bool {
	switch a {
	case ActionCreate:
		return s.Create
	case ActionRead:
		return s.Read
	case ActionUpdate:
		return s.Update
	case ActionDelete:
		return s.Delete
	default:
		return false
	}
}

// PermissionMatrix mapa recurso → acciones permitidas.
// Un recurso ausente deniega todas las acciones.
type PermissionMatrix map[string]ActionSet

// Allows indica si el recurso admite la acción. Entrada faltante = denegado.
func (m PermissionMatrix) Allows(resource string, action Action) bool {
	set, ok := m[resource]
	if !ok {
		return false
	}
	return set.Allows(action)
}

// Role rol con su matriz de permisos. El administrador general ignora
// la matriz por completo (bypass en el evaluador, no acá).
type Role struct {
	ID          string
	Name        string
	Description string
	Permissions PermissionMatrix
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsSystemAdmin indica si el rol es el administrador general.
func (r *Role) IsSystemAdmin() bool {
	return r != nil && r.Name == RoleSystemAdmin
}
