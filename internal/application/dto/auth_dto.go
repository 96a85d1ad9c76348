package dto

import (
	"time"

	"github.com/tu-usuario/voonda-api/internal/domain/entity"
)

// LoginRequest credenciales de login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse usuario sin campos sensibles (nunca incluye el hash).
type UserResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Phone       string     `json:"phone,omitempty"`
	CompanyID   *string    `json:"company_id"`
	RoleID      string     `json:"role_id"`
	RoleName    string     `json:"role_name,omitempty"`
	Active      bool       `json:"active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// LoginResponse token emitido más el usuario autenticado.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// RegisterRequest alta privilegiada de usuario.
type RegisterRequest struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	Name      string  `json:"name"`
	Phone     string  `json:"phone"`
	CompanyID *string `json:"company_id"`
	RoleID    string  `json:"role_id"`
}

// UnlockRequest desbloqueo administrativo de una cuenta.
type UnlockRequest struct {
	UserID string `json:"user_id"`
}

// ToUserResponse mapea la entidad a su representación pública.
func ToUserResponse(u *entity.User, roleName string) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Phone:       u.Phone,
		CompanyID:   u.CompanyID,
		RoleID:      u.RoleID,
		RoleName:    roleName,
		Active:      u.Active,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}
