package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/voonda-api/internal/application/auth"
	"github.com/tu-usuario/voonda-api/internal/application/dto"
)

// AuthHandler maneja login, logout, me, registro privilegiado y desbloqueo.
type AuthHandler struct {
	uc   *auth.AuthUseCase
	errs errorMapper
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, errs errorMapper) *AuthHandler {
	return &AuthHandler{uc: uc, errs: errs}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      423   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Email == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "email y password son requeridos"})
	}
	out, err := h.uc.Login(in.Email, in.Password)
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(dto.LoginResponse{
		Token: out.Token,
		User:  dto.ToUserResponse(out.User, out.Identity.Role.Name),
	})
}

// Logout godoc
// @Summary      Cerrar sesión
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]bool
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	// Stateless: no hay lista de revocación server-side (limitación conocida);
	// el cliente descarta el token.
	return c.JSON(fiber.Map{"success": true})
}

// Me godoc
// @Summary      Usuario autenticado
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity, ok := GetIdentity(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "identidad no resuelta"})
	}
	user, err := h.uc.Me(identity)
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(dto.ToUserResponse(user, identity.Role.Name))
}

// Register godoc
// @Summary      Registrar usuario (privilegiado)
// @Tags         auth
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "datos del usuario"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	user, err := h.uc.Register(auth.RegisterInput{
		Email:     in.Email,
		Password:  in.Password,
		Name:      in.Name,
		Phone:     in.Phone,
		CompanyID: in.CompanyID,
		RoleID:    in.RoleID,
	})
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToUserResponse(user, ""))
}

// Unlock godoc
// @Summary      Desbloquear cuenta (solo administrador general)
// @Tags         auth
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UnlockRequest  true  "user_id"
// @Success      200   {object}  map[string]bool
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/auth/unlock [post]
func (h *AuthHandler) Unlock(c *fiber.Ctx) error {
	identity, ok := GetIdentity(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "identidad no resuelta"})
	}
	var in dto.UnlockRequest
	if err := c.BodyParser(&in); err != nil || in.UserID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "user_id es requerido"})
	}
	if err := h.uc.Unlock(identity, in.UserID); err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
