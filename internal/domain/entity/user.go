package entity

import "time"

// User representa un usuario del sistema. CompanyID es nil únicamente para
// el administrador general (rol sin empresa); todo otro rol exige empresa.
// Los usuarios nunca se eliminan físicamente: se desactivan (Active=false).
type User struct {
	ID           string
	CompanyID    *string
	RoleID       string
	Email        string // único, almacenado case-folded
	PasswordHash string // bcrypt, nunca plano en dominio después de persistir
	Name         string
	Phone        string
	Active       bool
	// Estado de bloqueo por intentos fallidos. El contador se persiste y se
	// incrementa de forma atómica en el store, no en memoria.
	FailedAttempts int
	LockedUntil    *time.Time
	LastLoginAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// LockedAt indica si la cuenta está bloqueada al instante dado.
func (u *User) LockedAt(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}
