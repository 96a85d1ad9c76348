package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/voonda-api/internal/domain/entity"
	"github.com/tu-usuario/voonda-api/internal/domain/repository"
)

var _ repository.RoleRepository = (*RoleRepo)(nil)

// RoleRepo implementación del puerto RoleRepository sobre PostgreSQL.
// La matriz de permisos vive como JSONB y se materializa tipada acá, una
// sola vez por carga; aguas arriba nadie vuelve a interpretar JSON.
type RoleRepo struct {
	pool *pgxpool.Pool
}

// NewRoleRepository construye el adaptador de persistencia para roles.
func NewRoleRepository(pool *pgxpool.Pool) *RoleRepo {
	return &RoleRepo{pool: pool}
}

// GetByID obtiene un rol por ID; (nil, nil) si no existe.
func (r *RoleRepo) GetByID(id string) (*entity.Role, error) {
	query := `SELECT id, name, description, permissions, created_at, updated_at FROM roles WHERE id = $1`
	return r.scanOne(query, id)
}

// GetByName obtiene un rol por nombre.
func (r *RoleRepo) GetByName(name string) (*entity.Role, error) {
	query := `SELECT id, name, description, permissions, created_at, updated_at FROM roles WHERE name = $1`
	return r.scanOne(query, name)
}

// List devuelve todos los roles.
func (r *RoleRepo) List() ([]*entity.Role, error) {
	query := `SELECT id, name, description, permissions, created_at, updated_at FROM roles ORDER BY name`
	rows, err := r.pool.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()
	var list []*entity.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, role)
	}
	return list, rows.Err()
}

func (r *RoleRepo) scanOne(query string, args ...interface{}) (*entity.Role, error) {
	row := r.pool.QueryRow(context.Background(), query, args...)
	role, err := scanRole(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return role, nil
}

func scanRole(row pgx.Row) (*entity.Role, error) {
	var role entity.Role
	var permissions []byte
	if err := row.Scan(&role.ID, &role.Name, &role.Description, &permissions, &role.CreatedAt, &role.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan role: %w", err)
	}
	role.Permissions = entity.PermissionMatrix{}
	if len(permissions) > 0 {
		if err := json.Unmarshal(permissions, &role.Permissions); err != nil {
			return nil, fmt.Errorf("decode role permissions: %w", err)
		}
	}
	return &role, nil
}
