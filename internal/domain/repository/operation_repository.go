package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/voonda-api/internal/domain"
	"github.com/tu-usuario/voonda-api/internal/domain/entity"
)

// Campos de ordenamiento admitidos en listados de operaciones (whitelist).
var OperationSortFields = map[string]bool{
	"date":       true,
	"amount":     true,
	"type":       true,
	"state":      true,
	"created_at": true,
}

// OperationFilter filtros de listado. Los campos nil/vacíos no filtran.
type OperationFilter struct {
	Type     string
	State    string
	DateFrom *time.Time
	DateTo   *time.Time
	ItemID   string
	SellerID string
	BuyerID  string
	Search   string // substring case-insensitive sobre notes

	Page     int    // 1-based
	PageSize int    // 1..100
	SortBy   string // ver OperationSortFields
	SortDir  string // asc | desc
}

// TypeSummary agregado por tag de tipo: cantidad, suma y promedio de monto.
type TypeSummary struct {
	Type    string
	Count   int64
	Sum     decimal.Decimal
	Average decimal.Decimal
}

// OperationRepository puerto de persistencia para Operation. Toda lectura
// intersecta con el TenantScope recibido; GetByID devuelve (nil, nil) tanto
// para ausencia real como para filas fuera de scope.
type OperationRepository interface {
	Create(op *entity.Operation) error
	GetByID(id string, scope domain.TenantScope) (*entity.Operation, error)
	Update(op *entity.Operation) error
	Delete(id string) error
	List(filter OperationFilter, scope domain.TenantScope) ([]*entity.Operation, int64, error)
	SummarizeByType(scope domain.TenantScope, from, to *time.Time) ([]TypeSummary, error)
}
