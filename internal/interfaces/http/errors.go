package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/voonda-api/internal/application/dto"
	"github.com/tu-usuario/voonda-api/internal/domain"
)

// errorMapper traduce errores de dominio al taxónomo HTTP. El detalle de
// errores internos solo se expone en development.
type errorMapper struct {
	dev bool
}

func (m errorMapper) respond(c *fiber.Ctx, err error) error {
	var fe domain.FieldErrors
	if errors.As(err, &fe) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: "error de validación",
			Details: fe,
		})
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return m.status(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", err)
	case errors.Is(err, domain.ErrAccountDisabled):
		return m.status(c, fiber.StatusUnauthorized, "ACCOUNT_DISABLED", err)
	case errors.Is(err, domain.ErrAccountLocked):
		return m.status(c, fiber.StatusLocked, "ACCOUNT_LOCKED", err)
	case errors.Is(err, domain.ErrTokenExpired):
		return m.status(c, fiber.StatusUnauthorized, "TOKEN_EXPIRED", err)
	case errors.Is(err, domain.ErrTokenInvalid):
		return m.status(c, fiber.StatusUnauthorized, "TOKEN_INVALID", err)
	case errors.Is(err, domain.ErrPermissionDenied):
		return m.status(c, fiber.StatusForbidden, "PERMISSION_DENIED", err)
	case errors.Is(err, domain.ErrTenantAccessDenied):
		return m.status(c, fiber.StatusForbidden, "ACCESS_DENIED", err)
	case errors.Is(err, domain.ErrUnknownOperationType):
		return m.status(c, fiber.StatusBadRequest, "UNKNOWN_OPERATION_TYPE", err)
	case errors.Is(err, domain.ErrMalformedID), errors.Is(err, domain.ErrInvalidInput):
		return m.status(c, fiber.StatusBadRequest, "VALIDATION", err)
	case errors.Is(err, domain.ErrNotFound):
		return m.status(c, fiber.StatusNotFound, "NOT_FOUND", err)
	case errors.Is(err, domain.ErrEmailAlreadyExists), errors.Is(err, domain.ErrConflict):
		return m.status(c, fiber.StatusConflict, "CONFLICT", err)
	}

	// Error inesperado: mensaje genérico salvo en development.
	msg := "error interno"
	if m.dev {
		msg = err.Error()
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: msg})
}

func (m errorMapper) status(c *fiber.Ctx, code int, errCode string, err error) error {
	return c.Status(code).JSON(dto.ErrorResponse{Code: errCode, Message: err.Error()})
}
