package repository

import (
	"time"

	"github.com/tu-usuario/voonda-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los métodos devuelven (nil, nil) cuando el registro no existe.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	// GetByEmail busca por email ya case-folded por el caller.
	GetByEmail(email string) (*entity.User, error)
	Update(user *entity.User) error

	// RegisterFailedAttempt incrementa el contador de intentos fallidos de
	// forma atómica (un solo UPDATE increment-and-check, nunca read-then-write)
	// y fija locked_until = now + lockFor cuando el contador alcanza el
	// umbral. El contador sigue subiendo durante un bloqueo activo pero la
	// ventana no se extiende (bloqueo no escalante).
	RegisterFailedAttempt(id string, threshold int, lockFor time.Duration) error

	// ResetLockout pone el contador en cero, limpia el bloqueo y estampa
	// last_login_at (login exitoso).
	ResetLockout(id string, lastLogin time.Time) error

	// Unlock limpia contador y bloqueo sin tocar last_login_at
	// (desbloqueo administrativo).
	Unlock(id string) error
}
