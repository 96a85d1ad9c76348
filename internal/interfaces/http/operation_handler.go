package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/tu-usuario/voonda-api/internal/application/auth"
	"github.com/tu-usuario/voonda-api/internal/application/dto"
	appoperation "github.com/tu-usuario/voonda-api/internal/application/operation"
	"github.com/tu-usuario/voonda-api/internal/domain"
	"github.com/tu-usuario/voonda-api/internal/domain/repository"
)

// OperationHandler maneja las peticiones HTTP para operaciones (protegido).
// El scope de empresa se resuelve por request desde el identity: los
// endpoints estrechan resultados a la empresa del caller de forma
// transparente, salvo administrador general.
type OperationHandler struct {
	uc   *appoperation.UseCase
	errs errorMapper
}

// NewOperationHandler construye el handler.
func NewOperationHandler(uc *appoperation.UseCase, errs errorMapper) *OperationHandler {
	return &OperationHandler{uc: uc, errs: errs}
}

// List godoc
// @Summary      Listar operaciones
// @Tags         operations
// @Security     Bearer
// @Produce      json
// @Param        type        query  string  false  "tag de tipo"
// @Param        state       query  string  false  "estado"
// @Param        date_from   query  string  false  "fecha desde (RFC3339 o YYYY-MM-DD)"
// @Param        date_to     query  string  false  "fecha hasta"
// @Param        item_id     query  string  false  "ítem"
// @Param        seller_id   query  string  false  "vendedor"
// @Param        buyer_id    query  string  false  "comprador"
// @Param        search      query  string  false  "búsqueda en notas"
// @Param        page        query  int     false  "página"          default(1)
// @Param        page_size   query  int     false  "tamaño de página" default(12)
// @Param        sort_field  query  string  false  "campo de orden"   default(date)
// @Param        sort_dir    query  string  false  "asc|desc"         default(desc)
// @Success      200  {object}  dto.OperationListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/operations [get]
func (h *OperationHandler) List(c *fiber.Ctx) error {
	scope, err := h.scope(c)
	if err != nil {
		return h.errs.respond(c, err)
	}

	filter := repository.OperationFilter{
		Type:     c.Query("type"),
		State:    c.Query("state"),
		ItemID:   c.Query("item_id"),
		SellerID: c.Query("seller_id"),
		BuyerID:  c.Query("buyer_id"),
		Search:   c.Query("search"),
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 12),
		SortBy:   c.Query("sort_field"),
		SortDir:  c.Query("sort_dir"),
	}
	filter.DateFrom, err = parseDateQuery(c.Query("date_from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date_from inválida"})
	}
	filter.DateTo, err = parseDateQuery(c.Query("date_to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date_to inválida"})
	}

	ops, total, err := h.uc.List(filter, scope)
	if err != nil {
		return h.errs.respond(c, err)
	}
	items := make([]dto.OperationResponse, 0, len(ops))
	for _, op := range ops {
		items = append(items, dto.ToOperationResponse(op))
	}
	page, pageSize := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 12
	}
	return c.JSON(dto.OperationListResponse{
		Items:      items,
		Pagination: dto.NewPagination(total, page, pageSize),
	})
}

// GetByID godoc
// @Summary      Obtener operación por ID
// @Tags         operations
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la operación"
// @Success      200  {object}  dto.OperationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/operations/{id} [get]
func (h *OperationHandler) GetByID(c *fiber.Ctx) error {
	scope, err := h.scope(c)
	if err != nil {
		return h.errs.respond(c, err)
	}
	id, err := pathID(c)
	if err != nil {
		return h.errs.respond(c, err)
	}
	op, err := h.uc.Get(id, scope)
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(dto.ToOperationResponse(op))
}

// Create godoc
// @Summary      Crear operación
// @Tags         operations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOperationRequest  true  "datos de la operación"
// @Success      201   {object}  dto.OperationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/operations [post]
func (h *OperationHandler) Create(c *fiber.Ctx) error {
	scope, err := h.scope(c)
	if err != nil {
		return h.errs.respond(c, err)
	}
	var in dto.CreateOperationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	op, err := h.uc.Create(scope, appoperation.CreateInput{
		CompanyID: in.CompanyID,
		ItemID:    in.ItemID,
		Type:      in.Type,
		Date:      in.Date,
		Amount:    in.Amount,
		Currency:  in.Currency,
		State:     in.State,
		SellerID:  in.SellerID,
		BuyerID:   in.BuyerID,
		Notes:     in.Notes,
		Payload:   in.Payload,
	})
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToOperationResponse(op))
}

// Update godoc
// @Summary      Actualizar operación (merge y re-validación)
// @Tags         operations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la operación"
// @Param        body  body  dto.UpdateOperationRequest  true  "campos a actualizar"
// @Success      200   {object}  dto.OperationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/operations/{id} [put]
func (h *OperationHandler) Update(c *fiber.Ctx) error {
	scope, err := h.scope(c)
	if err != nil {
		return h.errs.respond(c, err)
	}
	id, err := pathID(c)
	if err != nil {
		return h.errs.respond(c, err)
	}
	var in dto.UpdateOperationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	op, err := h.uc.Update(id, scope, appoperation.UpdateInput{
		Type:     in.Type,
		Date:     in.Date,
		Amount:   in.Amount,
		Currency: in.Currency,
		State:    in.State,
		SellerID: in.SellerID.Ref(),
		BuyerID:  in.BuyerID.Ref(),
		Notes:    in.Notes,
		Payload:  in.Payload,
	})
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(dto.ToOperationResponse(op))
}

// Delete godoc
// @Summary      Eliminar operación (borrado físico)
// @Tags         operations
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la operación"
// @Success      200  {object}  map[string]bool
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/operations/{id} [delete]
func (h *OperationHandler) Delete(c *fiber.Ctx) error {
	scope, err := h.scope(c)
	if err != nil {
		return h.errs.respond(c, err)
	}
	id, err := pathID(c)
	if err != nil {
		return h.errs.respond(c, err)
	}
	if err := h.uc.Delete(id, scope); err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// Summary godoc
// @Summary      Resumen de operaciones por tipo
// @Tags         operations
// @Security     Bearer
// @Produce      json
// @Param        date_from  query  string  false  "fecha desde"
// @Param        date_to    query  string  false  "fecha hasta"
// @Success      200  {object}  dto.SummaryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/operations/summary [get]
func (h *OperationHandler) Summary(c *fiber.Ctx) error {
	scope, err := h.scope(c)
	if err != nil {
		return h.errs.respond(c, err)
	}
	from, err := parseDateQuery(c.Query("date_from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date_from inválida"})
	}
	to, err := parseDateQuery(c.Query("date_to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date_to inválida"})
	}
	rows, err := h.uc.Summarize(scope, from, to)
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(dto.ToSummaryResponse(rows))
}

func (h *OperationHandler) scope(c *fiber.Ctx) (domain.TenantScope, error) {
	identity, ok := GetIdentity(c)
	if !ok {
		return domain.TenantScope{}, domain.ErrTokenInvalid
	}
	return auth.ScopeFor(identity)
}

// pathID valida el :id de la ruta como UUID; formato inválido es un 400,
// nunca un 404 (el 404 queda reservado para ausencia bajo scope).
func pathID(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", domain.ErrMalformedID
	}
	return id, nil
}

// parseDateQuery acepta RFC3339 o fecha simple YYYY-MM-DD.
func parseDateQuery(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
