package repository

import (
	"github.com/tu-usuario/voonda-api/internal/domain"
	"github.com/tu-usuario/voonda-api/internal/domain/entity"
)

// ItemRepository puerto mínimo sobre ítems de inventario. El CRUD completo
// vive en otro servicio; este core solo necesita el lookup con scope.
type ItemRepository interface {
	// GetByID devuelve (nil, nil) si el ítem no existe o queda fuera del
	// scope — ambos casos son indistinguibles para el caller.
	GetByID(id string, scope domain.TenantScope) (*entity.Item, error)
}

// ItemStateRepository puerto del catálogo de estados (read-mostly).
type ItemStateRepository interface {
	List() ([]*entity.ItemState, error)
}
