package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/voonda-api/internal/application/auth"
	"github.com/tu-usuario/voonda-api/internal/application/dto"
	"github.com/tu-usuario/voonda-api/internal/domain/entity"
)

// Local key del identity en Fiber.
const localIdentity = "identity"

// identityVerifier contrato mínimo del middleware: valida el token Y
// re-resuelve el estado vivo de la cuenta. Lo implementa *auth.AuthUseCase;
// la interfaz permite fakes en tests.
type identityVerifier interface {
	Verify(token string) (auth.Identity, error)
}

// AuthMiddleware valida el Bearer Token y deja el Identity vivo en c.Locals.
// Una cuenta desactivada o bloqueada después de emitido el token queda
// afuera acá, antes del expiry de 24 horas.
func AuthMiddleware(verifier identityVerifier, errs errorMapper) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "TOKEN_INVALID", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		identity, err := verifier.Verify(tokenString)
		if err != nil {
			return errs.respond(c, err)
		}
		c.Locals(localIdentity, identity)
		return c.Next()
	}
}

// GetIdentity devuelve el Identity del contexto (después del middleware de auth).
func GetIdentity(c *fiber.Ctx) (auth.Identity, bool) {
	id, ok := c.Locals(localIdentity).(auth.Identity)
	return id, ok
}

// RequirePermission middleware de autorización por recurso/acción sobre la
// matriz del rol. Debe usarse DESPUÉS de AuthMiddleware. El administrador
// general pasa siempre; entrada ausente en la matriz deniega.
func RequirePermission(resource string, action entity.Action, errs errorMapper) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := GetIdentity(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "identidad no resuelta"})
		}
		if err := auth.Authorize(identity, resource, action); err != nil {
			return errs.respond(c, err)
		}
		return c.Next()
	}
}
