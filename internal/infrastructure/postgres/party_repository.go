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

var _ repository.PartyRepository = (*PartyRepo)(nil)

// PartyRepo lookup scoped de vendedores y compradores.
type PartyRepo struct {
	pool *pgxpool.Pool
}

// NewPartyRepository construye el adaptador de persistencia para partes.
func NewPartyRepository(pool *pgxpool.Pool) *PartyRepo {
	return &PartyRepo{pool: pool}
}

// GetSellerByID obtiene un vendedor por ID intersectando el scope.
func (r *PartyRepo) GetSellerByID(id string, scope domain.TenantScope) (*entity.Seller, error) {
	query := `
		SELECT id, company_id, name, last_name, email, phone, created_at, updated_at
		FROM sellers
		WHERE id = $1 AND ($2::uuid IS NULL OR company_id = $2)`
	var s entity.Seller
	err := r.pool.QueryRow(context.Background(), query, id, scopeArg(scope)).Scan(
		&s.ID, &s.CompanyID, &s.Name, &s.LastName, &s.Email, &s.Phone, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get seller by id: %w", err)
	}
	return &s, nil
}

// GetBuyerByID obtiene un comprador por ID intersectando el scope.
func (r *PartyRepo) GetBuyerByID(id string, scope domain.TenantScope) (*entity.Buyer, error) {
	query := `
		SELECT id, company_id, name, last_name, email, phone, created_at, updated_at
		FROM buyers
		WHERE id = $1 AND ($2::uuid IS NULL OR company_id = $2)`
	var b entity.Buyer
	err := r.pool.QueryRow(context.Background(), query, id, scopeArg(scope)).Scan(
		&b.ID, &b.CompanyID, &b.Name, &b.LastName, &b.Email, &b.Phone, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get buyer by id: %w", err)
	}
	return &b, nil
}
