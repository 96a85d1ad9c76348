package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/voonda-api/internal/application/auth"
	"github.com/tu-usuario/voonda-api/internal/application/dto"
	"github.com/tu-usuario/voonda-api/internal/domain"
	"github.com/tu-usuario/voonda-api/internal/domain/entity"
)

type fakeVerifier struct {
	identity auth.Identity
	err      error
}

func (f fakeVerifier) Verify(token string) (auth.Identity, error) {
	return f.identity, f.err
}

func identidadColaborador() auth.Identity {
	cid := "company-1"
	return auth.Identity{
		UserID:    "user-1",
		Email:     "ana@empresa.com",
		CompanyID: &cid,
		Role: &entity.Role{
			Name: entity.RoleCollaborator,
			Permissions: entity.PermissionMatrix{
				"operations": {Read: true},
			},
		},
	}
}

func identidadAdmin() auth.Identity {
	return auth.Identity{
		UserID: "admin-1",
		Email:  "root@voonda.com",
		Role:   &entity.Role{Name: entity.RoleSystemAdmin},
	}
}

func appConVerifier(v identityVerifier) *fiber.App {
	errs := errorMapper{dev: true}
	app := fiber.New()
	app.Get("/protegido", AuthMiddleware(v, errs), func(c *fiber.Ctx) error {
		id, ok := GetIdentity(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.JSON(fiber.Map{"email": id.Email})
	})
	app.Delete("/operaciones", AuthMiddleware(v, errs),
		RequirePermission(ResourceOperations, entity.ActionDelete, errs),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path, authHeader string) (*http.Response, dto.ErrorResponse) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	var body dto.ErrorResponse
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = json.Unmarshal(raw, &body)
	return resp, body
}

func TestAuthMiddleware_SinHeader(t *testing.T) {
	app := appConVerifier(fakeVerifier{identity: identidadColaborador()})

	resp, body := doRequest(t, app, fiber.MethodGet, "/protegido", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", body.Code)
}

func TestAuthMiddleware_EsquemaIncorrecto(t *testing.T) {
	app := appConVerifier(fakeVerifier{identity: identidadColaborador()})

	resp, body := doRequest(t, app, fiber.MethodGet, "/protegido", "Basic abc123")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "TOKEN_INVALID", body.Code)
}

func TestAuthMiddleware_BearerCaseInsensitive(t *testing.T) {
	app := appConVerifier(fakeVerifier{identity: identidadColaborador()})

	resp, _ := doRequest(t, app, fiber.MethodGet, "/protegido", "bearer un-token")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthMiddleware_TokenExpirado(t *testing.T) {
	app := appConVerifier(fakeVerifier{err: domain.ErrTokenExpired})

	resp, body := doRequest(t, app, fiber.MethodGet, "/protegido", "Bearer vencido")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "TOKEN_EXPIRED", body.Code)
}

// La revocación en vivo pega en el middleware: una cuenta bloqueada con token
// vigente recibe 423, una desactivada 401.
func TestAuthMiddleware_EstadoDeCuentaVivo(t *testing.T) {
	app := appConVerifier(fakeVerifier{err: domain.ErrAccountLocked})
	resp, body := doRequest(t, app, fiber.MethodGet, "/protegido", "Bearer valido")
	assert.Equal(t, fiber.StatusLocked, resp.StatusCode)
	assert.Equal(t, "ACCOUNT_LOCKED", body.Code)

	app = appConVerifier(fakeVerifier{err: domain.ErrAccountDisabled})
	resp, body = doRequest(t, app, fiber.MethodGet, "/protegido", "Bearer valido")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "ACCOUNT_DISABLED", body.Code)
}

func TestAuthMiddleware_TokenValido_DejaIdentityEnContexto(t *testing.T) {
	app := appConVerifier(fakeVerifier{identity: identidadColaborador()})

	req := httptest.NewRequest(fiber.MethodGet, "/protegido", nil)
	req.Header.Set("Authorization", "Bearer un-token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"ana@empresa.com"}`, string(raw))
}

func TestRequirePermission_AccionNoPermitida(t *testing.T) {
	app := appConVerifier(fakeVerifier{identity: identidadColaborador()})

	resp, body := doRequest(t, app, fiber.MethodDelete, "/operaciones", "Bearer un-token")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "PERMISSION_DENIED", body.Code)
}

func TestRequirePermission_AdminBypass(t *testing.T) {
	app := appConVerifier(fakeVerifier{identity: identidadAdmin()})

	resp, _ := doRequest(t, app, fiber.MethodDelete, "/operaciones", "Bearer un-token")
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

// ─── errorMapper ────────────────────────────────────────────────────────────

func TestErrorMapper_FieldErrorsConDetalle(t *testing.T) {
	errs := errorMapper{dev: true}
	app := fiber.New()
	app.Get("/falla", func(c *fiber.Ctx) error {
		var fe domain.FieldErrors
		fe.Add("amount", "no puede ser negativo")
		return errs.respond(c, fe)
	})

	resp, body := doRequest(t, app, fiber.MethodGet, "/falla", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body.Code)
	require.Len(t, body.Details, 1)
	assert.Equal(t, "amount", body.Details[0].Field)
}

// Fuera de development el detalle de errores inesperados se retiene.
func TestErrorMapper_InternoOcultoEnProduccion(t *testing.T) {
	errs := errorMapper{dev: false}
	app := fiber.New()
	app.Get("/falla", func(c *fiber.Ctx) error {
		return errs.respond(c, assert.AnError)
	})

	resp, body := doRequest(t, app, fiber.MethodGet, "/falla", "")
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "INTERNAL", body.Code)
	assert.NotContains(t, body.Message, assert.AnError.Error())
}

func TestErrorMapper_NotFoundYConflict(t *testing.T) {
	errs := errorMapper{dev: true}
	app := fiber.New()
	app.Get("/notfound", func(c *fiber.Ctx) error { return errs.respond(c, domain.ErrNotFound) })
	app.Get("/conflict", func(c *fiber.Ctx) error { return errs.respond(c, domain.ErrEmailAlreadyExists) })

	resp, body := doRequest(t, app, fiber.MethodGet, "/notfound", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body.Code)

	resp, body = doRequest(t, app, fiber.MethodGet, "/conflict", "")
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", body.Code)
}
