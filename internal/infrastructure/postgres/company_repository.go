package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/voonda-api/internal/domain"
	"github.com/tu-usuario/voonda-api/internal/domain/entity"
	"github.com/tu-usuario/voonda-api/internal/domain/repository"
)

var (
	_ repository.CompanyRepository   = (*CompanyRepo)(nil)
	_ repository.ItemRepository      = (*ItemRepo)(nil)
	_ repository.ItemStateRepository = (*ItemStateRepo)(nil)
)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	pool *pgxpool.Pool
}

// NewCompanyRepository construye el adaptador de persistencia para empresas.
func NewCompanyRepository(pool *pgxpool.Pool) *CompanyRepo {
	return &CompanyRepo{pool: pool}
}

// GetByID obtiene una empresa por ID; (nil, nil) si no existe.
func (r *CompanyRepo) GetByID(id string) (*entity.Company, error) {
	query := `SELECT id, name, active, created_at, updated_at FROM companies WHERE id = $1`
	var c entity.Company
	err := r.pool.QueryRow(context.Background(), query, id).Scan(
		&c.ID, &c.Name, &c.Active, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company by id: %w", err)
	}
	return &c, nil
}

// ItemRepo lookup scoped de ítems de inventario.
type ItemRepo struct {
	pool *pgxpool.Pool
}

// NewItemRepository construye el adaptador de persistencia para ítems.
func NewItemRepository(pool *pgxpool.Pool) *ItemRepo {
	return &ItemRepo{pool: pool}
}

// GetByID obtiene un ítem por ID intersectando el scope de empresa: una
// fila ajena al scope devuelve (nil, nil), igual que la ausencia real.
func (r *ItemRepo) GetByID(id string, scope domain.TenantScope) (*entity.Item, error) {
	query := `
		SELECT id, company_id, label, state_id, created_at, updated_at
		FROM items
		WHERE id = $1 AND ($2::uuid IS NULL OR company_id = $2)`
	var it entity.Item
	err := r.pool.QueryRow(context.Background(), query, id, scopeArg(scope)).Scan(
		&it.ID, &it.CompanyID, &it.Label, &it.StateID, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item by id: %w", err)
	}
	return &it, nil
}

// ItemStateRepo catálogo de estados de ítems (read-mostly, cacheado arriba).
type ItemStateRepo struct {
	pool *pgxpool.Pool
}

// NewItemStateRepository construye el adaptador del catálogo de estados.
func NewItemStateRepository(pool *pgxpool.Pool) *ItemStateRepo {
	return &ItemStateRepo{pool: pool}
}

// List devuelve el catálogo completo ordenado por código.
func (r *ItemStateRepo) List() ([]*entity.ItemState, error) {
	query := `SELECT id, code, name FROM item_states ORDER BY code`
	rows, err := r.pool.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list item states: %w", err)
	}
	defer rows.Close()
	var list []*entity.ItemState
	for rows.Next() {
		var st entity.ItemState
		if err := rows.Scan(&st.ID, &st.Code, &st.Name); err != nil {
			return nil, fmt.Errorf("scan item state: %w", err)
		}
		list = append(list, &st)
	}
	return list, rows.Err()
}
