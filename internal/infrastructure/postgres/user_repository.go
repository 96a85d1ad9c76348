package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/voonda-api/internal/domain"
	"github.com/tu-usuario/voonda-api/internal/domain/entity"
	"github.com/tu-usuario/voonda-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, company_id, role_id, email, password_hash, name, phone, active,
		failed_attempts, locked_until, last_login_at, created_at, updated_at`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	pool *pgxpool.Pool
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// Create persiste un nuevo usuario. Email duplicado → ErrEmailAlreadyExists.
func (r *UserRepo) Create(user *entity.User) error {
	query := `
		INSERT INTO users (id, company_id, role_id, email, password_hash, name, phone, active,
			failed_attempts, locked_until, last_login_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.pool.Exec(context.Background(), query,
		user.ID, user.CompanyID, user.RoleID, user.Email, user.PasswordHash, user.Name, user.Phone,
		user.Active, user.FailedAttempts, user.LockedUntil, user.LastLoginAt,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID; (nil, nil) si no existe.
func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(query, id)
}

// GetByEmail obtiene un usuario por email (ya case-folded por el caller).
func (r *UserRepo) GetByEmail(email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 LIMIT 1`
	return r.scanOne(query, email)
}

// Update actualiza los campos editables de un usuario.
func (r *UserRepo) Update(user *entity.User) error {
	query := `
		UPDATE users SET email = $2, password_hash = $3, name = $4, phone = $5, role_id = $6,
			company_id = $7, active = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.pool.Exec(context.Background(), query,
		user.ID, user.Email, user.PasswordHash, user.Name, user.Phone, user.RoleID,
		user.CompanyID, user.Active, user.UpdatedAt,
	)
	if err != nil {
		return translateWriteError(fmt.Errorf("update user: %w", err))
	}
	return nil
}

// RegisterFailedAttempt incrementa el contador en un solo UPDATE
// increment-and-check: dos procesos concurrentes nunca sub-cuentan. El lock
// se fija solo al cruzar el umbral sin bloqueo activo; una ventana vigente
// no se extiende (lockout no escalante).
func (r *UserRepo) RegisterFailedAttempt(id string, threshold int, lockFor time.Duration) error {
	query := `
		UPDATE users SET
			failed_attempts = failed_attempts + 1,
			locked_until = CASE
				WHEN failed_attempts + 1 >= $2 AND (locked_until IS NULL OR locked_until <= now())
					THEN now() + make_interval(secs => $3)
				ELSE locked_until
			END,
			updated_at = now()
		WHERE id = $1`
	_, err := r.pool.Exec(context.Background(), query, id, threshold, lockFor.Seconds())
	if err != nil {
		return fmt.Errorf("register failed attempt: %w", err)
	}
	return nil
}

// ResetLockout limpia contador y bloqueo y estampa el último login.
func (r *UserRepo) ResetLockout(id string, lastLogin time.Time) error {
	query := `
		UPDATE users SET failed_attempts = 0, locked_until = NULL, last_login_at = $2, updated_at = now()
		WHERE id = $1`
	_, err := r.pool.Exec(context.Background(), query, id, lastLogin)
	if err != nil {
		return fmt.Errorf("reset lockout: %w", err)
	}
	return nil
}

// Unlock limpia contador y bloqueo sin tocar last_login (acción administrativa).
func (r *UserRepo) Unlock(id string) error {
	query := `
		UPDATE users SET failed_attempts = 0, locked_until = NULL, updated_at = now()
		WHERE id = $1`
	_, err := r.pool.Exec(context.Background(), query, id)
	if err != nil {
		return fmt.Errorf("unlock user: %w", err)
	}
	return nil
}

func (r *UserRepo) scanOne(query string, args ...interface{}) (*entity.User, error) {
	var u entity.User
	err := r.pool.QueryRow(context.Background(), query, args...).Scan(
		&u.ID, &u.CompanyID, &u.RoleID, &u.Email, &u.PasswordHash, &u.Name, &u.Phone, &u.Active,
		&u.FailedAttempts, &u.LockedUntil, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}
