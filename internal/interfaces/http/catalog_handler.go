package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/voonda-api/internal/application/catalog"
	"github.com/tu-usuario/voonda-api/internal/application/dto"
)

// CatalogHandler expone el catálogo de estados de ítems (solo lectura,
// servido desde el cache con TTL del StateService).
type CatalogHandler struct {
	states *catalog.StateService
	errs   errorMapper
}

// NewCatalogHandler construye el handler del catálogo.
func NewCatalogHandler(states *catalog.StateService, errs errorMapper) *CatalogHandler {
	return &CatalogHandler{states: states, errs: errs}
}

// ListItemStates godoc
// @Summary      Listar estados de ítems
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ItemStateResponse
// @Router       /api/catalog/item-states [get]
func (h *CatalogHandler) ListItemStates(c *fiber.Ctx) error {
	states, err := h.states.States()
	if err != nil {
		return h.errs.respond(c, err)
	}
	out := make([]dto.ItemStateResponse, 0, len(states))
	for _, st := range states {
		out = append(out, dto.ItemStateResponse{ID: st.ID, Code: st.Code, Name: st.Name})
	}
	return c.JSON(out)
}
