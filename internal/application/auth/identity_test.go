package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/voonda-api/internal/application/auth"
	"github.com/tu-usuario/voonda-api/internal/domain"
	"github.com/tu-usuario/voonda-api/internal/domain/entity"
)

func adminIdentity() auth.Identity {
	return auth.Identity{
		UserID: "admin",
		Role:   &entity.Role{Name: entity.RoleSystemAdmin},
	}
}

func collabIdentity(companyID string) auth.Identity {
	cid := companyID
	return auth.Identity{
		UserID:    "collab",
		CompanyID: &cid,
		Role: &entity.Role{
			Name: entity.RoleCollaborator,
			Permissions: entity.PermissionMatrix{
				"operations": {Create: true, Read: true},
			},
		},
	}
}

// El administrador general pasa siempre, incluso sin matriz de permisos.
func TestAuthorize_AdminBypass(t *testing.T) {
	admin := adminIdentity()

	assert.NoError(t, auth.Authorize(admin, "operations", entity.ActionDelete))
	assert.NoError(t, auth.Authorize(admin, "recurso-inexistente", entity.ActionUpdate))
}

func TestAuthorize_MatrizParcial(t *testing.T) {
	collab := collabIdentity("company-1")

	assert.NoError(t, auth.Authorize(collab, "operations", entity.ActionRead))
	assert.NoError(t, auth.Authorize(collab, "operations", entity.ActionCreate))
	assert.ErrorIs(t, auth.Authorize(collab, "operations", entity.ActionDelete), domain.ErrPermissionDenied)
	assert.ErrorIs(t, auth.Authorize(collab, "operations", entity.ActionUpdate), domain.ErrPermissionDenied)
}

// Recurso ausente en la matriz deniega todo: no hay default permisivo.
func TestAuthorize_RecursoAusenteDeniega(t *testing.T) {
	collab := collabIdentity("company-1")

	assert.ErrorIs(t, auth.Authorize(collab, "users", entity.ActionRead), domain.ErrPermissionDenied)
}

func TestScopeFor_AdminObtieneScopeGlobal(t *testing.T) {
	scope, err := auth.ScopeFor(adminIdentity())
	require.NoError(t, err)
	assert.True(t, scope.Global())
	assert.True(t, scope.Matches("cualquier-empresa"))
}

func TestScopeFor_ColaboradorObtienePredicadoDeSuEmpresa(t *testing.T) {
	scope, err := auth.ScopeFor(collabIdentity("company-1"))
	require.NoError(t, err)
	assert.False(t, scope.Global())
	assert.True(t, scope.Matches("company-1"))
	assert.False(t, scope.Matches("company-2"))
}

// Un no-admin sin empresa es una cuenta inconsistente: nunca degrada a
// scope global.
func TestScopeFor_NoAdminSinEmpresa(t *testing.T) {
	id := auth.Identity{
		UserID: "huerfano",
		Role:   &entity.Role{Name: entity.RoleCollaborator},
	}

	_, err := auth.ScopeFor(id)
	assert.ErrorIs(t, err, domain.ErrTenantAccessDenied)
}
