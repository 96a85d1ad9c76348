package repository

import (
	"github.com/tu-usuario/voonda-api/internal/domain"
	"github.com/tu-usuario/voonda-api/internal/domain/entity"
)

// PartyRepository puerto mínimo sobre vendedores y compradores. Como con los
// ítems, el CRUD completo vive fuera; acá solo importa el lookup con scope
// para validar referencias al escribir operaciones.
type PartyRepository interface {
	// GetSellerByID devuelve (nil, nil) si el vendedor no existe o queda
	// fuera del scope.
	GetSellerByID(id string, scope domain.TenantScope) (*entity.Seller, error)
	// GetBuyerByID ídem para compradores.
	GetBuyerByID(id string, scope domain.TenantScope) (*entity.Buyer, error)
}
