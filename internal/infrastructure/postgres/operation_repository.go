package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/voonda-api/internal/domain"
	"github.com/tu-usuario/voonda-api/internal/domain/entity"
	"github.com/tu-usuario/voonda-api/internal/domain/repository"
)

var _ repository.OperationRepository = (*OperationRepo)(nil)

const operationColumns = `id, company_id, item_id, type, date, amount, currency, state,
		seller_id, buyer_id, notes, payload, created_at, updated_at`

// OperationRepo implementación del puerto OperationRepository sobre PostgreSQL.
type OperationRepo struct {
	pool *pgxpool.Pool
}

// NewOperationRepository construye el adaptador de persistencia para operaciones.
func NewOperationRepository(pool *pgxpool.Pool) *OperationRepo {
	return &OperationRepo{pool: pool}
}

// Create persiste una operación ya validada.
func (r *OperationRepo) Create(op *entity.Operation) error {
	query := `
		INSERT INTO operations (id, company_id, item_id, type, date, amount, currency, state,
			seller_id, buyer_id, notes, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.pool.Exec(context.Background(), query,
		op.ID, op.CompanyID, op.ItemID, op.Type, op.Date, op.Amount, op.Currency, op.State,
		op.SellerID, op.BuyerID, op.Notes, op.Payload, op.CreatedAt, op.UpdatedAt,
	)
	if err != nil {
		return translateWriteError(fmt.Errorf("insert operation: %w", err))
	}
	return nil
}

// GetByID obtiene una operación por ID intersectando el scope; fuera de
// scope y ausencia real son el mismo (nil, nil).
func (r *OperationRepo) GetByID(id string, scope domain.TenantScope) (*entity.Operation, error) {
	query := `SELECT ` + operationColumns + `
		FROM operations
		WHERE id = $1 AND ($2::uuid IS NULL OR company_id = $2)`
	var op entity.Operation
	err := r.pool.QueryRow(context.Background(), query, id, scopeArg(scope)).Scan(
		&op.ID, &op.CompanyID, &op.ItemID, &op.Type, &op.Date, &op.Amount, &op.Currency, &op.State,
		&op.SellerID, &op.BuyerID, &op.Notes, &op.Payload, &op.CreatedAt, &op.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get operation by id: %w", err)
	}
	return &op, nil
}

// Update persiste el merge ya re-validado. La empresa nunca cambia en update.
func (r *OperationRepo) Update(op *entity.Operation) error {
	query := `
		UPDATE operations SET type = $2, date = $3, amount = $4, currency = $5, state = $6,
			seller_id = $7, buyer_id = $8, notes = $9, payload = $10, updated_at = $11
		WHERE id = $1`
	_, err := r.pool.Exec(context.Background(), query,
		op.ID, op.Type, op.Date, op.Amount, op.Currency, op.State,
		op.SellerID, op.BuyerID, op.Notes, op.Payload, op.UpdatedAt,
	)
	if err != nil {
		return translateWriteError(fmt.Errorf("update operation: %w", err))
	}
	return nil
}

// Delete eliminación física (las operaciones no tienen soft delete).
func (r *OperationRepo) Delete(id string) error {
	_, err := r.pool.Exec(context.Background(), `DELETE FROM operations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete operation: %w", err)
	}
	return nil
}

// List devuelve la página filtrada y el total. El campo de orden ya viene
// validado contra la whitelist del puerto; nunca se interpola input libre.
func (r *OperationRepo) List(filter repository.OperationFilter, scope domain.TenantScope) ([]*entity.Operation, int64, error) {
	where, args := buildOperationWhere(filter, scope)

	countQuery := `SELECT COUNT(*) FROM operations ` + where
	var total int64
	if err := r.pool.QueryRow(context.Background(), countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count operations: %w", err)
	}

	dir := "DESC"
	if filter.SortDir == "asc" {
		dir = "ASC"
	}
	offset := (filter.Page - 1) * filter.PageSize
	listQuery := fmt.Sprintf(`SELECT `+operationColumns+`
		FROM operations %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d`, where, filter.SortBy, dir, len(args)+1, len(args)+2)
	args = append(args, filter.PageSize, offset)

	rows, err := r.pool.Query(context.Background(), listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list operations: %w", err)
	}
	defer rows.Close()

	var list []*entity.Operation
	for rows.Next() {
		var op entity.Operation
		if err := rows.Scan(
			&op.ID, &op.CompanyID, &op.ItemID, &op.Type, &op.Date, &op.Amount, &op.Currency, &op.State,
			&op.SellerID, &op.BuyerID, &op.Notes, &op.Payload, &op.CreatedAt, &op.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan operation: %w", err)
		}
		list = append(list, &op)
	}
	return list, total, rows.Err()
}

// SummarizeByType agrupa por tag de tipo: cantidad, suma y promedio de monto.
func (r *OperationRepo) SummarizeByType(scope domain.TenantScope, from, to *time.Time) ([]repository.TypeSummary, error) {
	filter := repository.OperationFilter{DateFrom: from, DateTo: to}
	where, args := buildOperationWhere(filter, scope)

	query := `
		SELECT type, COUNT(*), COALESCE(SUM(amount), 0), COALESCE(AVG(amount), 0)
		FROM operations ` + where + `
		GROUP BY type
		ORDER BY type`
	rows, err := r.pool.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("summarize operations: %w", err)
	}
	defer rows.Close()

	var out []repository.TypeSummary
	for rows.Next() {
		var s repository.TypeSummary
		if err := rows.Scan(&s.Type, &s.Count, &s.Sum, &s.Average); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// buildOperationWhere arma el WHERE parametrizado. El predicado de empresa
// va siempre primero: NULL lo desactiva (scope global).
func buildOperationWhere(filter repository.OperationFilter, scope domain.TenantScope) (string, []interface{}) {
	conds := []string{"($1::uuid IS NULL OR company_id = $1)"}
	args := []interface{}{scopeArg(scope)}

	add := func(cond string, value interface{}) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.Type != "" {
		add("type = $%d", filter.Type)
	}
	if filter.State != "" {
		add("state = $%d", filter.State)
	}
	if filter.DateFrom != nil {
		add("date >= $%d", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		add("date <= $%d", *filter.DateTo)
	}
	if filter.ItemID != "" {
		add("item_id = $%d", filter.ItemID)
	}
	if filter.SellerID != "" {
		add("seller_id = $%d", filter.SellerID)
	}
	if filter.BuyerID != "" {
		add("buyer_id = $%d", filter.BuyerID)
	}
	if filter.Search != "" {
		add("notes ILIKE $%d", "%"+filter.Search+"%")
	}

	return "WHERE " + strings.Join(conds, " AND "), args
}
