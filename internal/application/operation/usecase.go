package operation

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/voonda-api/internal/domain"
	"github.com/tu-usuario/voonda-api/internal/domain/entity"
	opdomain "github.com/tu-usuario/voonda-api/internal/domain/operation"
	"github.com/tu-usuario/voonda-api/internal/domain/repository"
)

const maxNotesLen = 1000

// UseCase servicio de operaciones: valida, aplica scope de empresa y
// persiste operaciones polimórficas; calcula agregados por tipo.
//
// La autorización por recurso/acción ocurre antes, en el middleware HTTP; acá
// llega el TenantScope ya resuelto y toda lectura lo intersecta. Validación y
// chequeos de pertenencia completan SIEMPRE antes de cualquier escritura: un
// fallo nunca deja una escritura parcial.
type UseCase struct {
	ops     repository.OperationRepository
	items   repository.ItemRepository
	parties repository.PartyRepository
	now     func() time.Time
}

// NewUseCase construye el servicio de operaciones.
func NewUseCase(ops repository.OperationRepository, items repository.ItemRepository, parties repository.PartyRepository) *UseCase {
	return &UseCase{ops: ops, items: items, parties: parties, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// CreateInput datos de alta de una operación. CompanyID solo se usa cuando
// el scope es global (administrador general); para el resto la empresa sale
// del scope y el valor del body se ignora.
type CreateInput struct {
	CompanyID string
	ItemID    string
	Type      string
	Date      time.Time
	Amount    *decimal.Decimal
	Currency  string
	State     string
	SellerID  *string
	BuyerID   *string
	Notes     string
	Payload   json.RawMessage
}

// Create valida y persiste una operación nueva.
//
// Orden de chequeos: campos base (tipo conocido, fecha, estado, moneda,
// monto no negativo) → pertenencia del ítem a la empresa (un ítem ajeno se
// rechaza ANTES de validar el payload, y como NotFound, no como Forbidden) →
// payload contra el schema del tipo → persistencia.
func (uc *UseCase) Create(scope domain.TenantScope, in CreateInput) (*entity.Operation, error) {
	companyID := in.CompanyID
	if !scope.Global() {
		companyID = *scope.CompanyID
	}

	var fe domain.FieldErrors
	if companyID == "" {
		fe.Add("company_id", "es requerido")
	}
	if in.ItemID == "" {
		fe.Add("item_id", "es requerido")
	}
	if in.Type == "" {
		fe.Add("type", "es requerido")
	} else if !opdomain.Known(opdomain.Type(in.Type)) {
		return nil, domain.ErrUnknownOperationType
	}
	if in.Date.IsZero() {
		fe.Add("date", "es requerida")
	}
	state := in.State
	if state == "" {
		state = entity.OperationStatePending
	} else if !entity.OperationStates[state] {
		fe.Add("state", "estado '%s' fuera del conjunto permitido", state)
	}
	currency := in.Currency
	if currency == "" {
		currency = entity.DefaultCurrency
	} else if !entity.OperationCurrencies[currency] {
		fe.Add("currency", "moneda '%s' no soportada", currency)
	}
	if in.Amount != nil && in.Amount.Sign() < 0 {
		fe.Add("amount", "no puede ser negativo")
	}
	if len([]rune(in.Notes)) > maxNotesLen {
		fe.Add("notes", "no pueden exceder %d caracteres", maxNotesLen)
	}
	if !fe.Empty() {
		return nil, fe
	}

	// Pertenencia del ítem: lookup con scope. Fuera de scope o inexistente
	// son el mismo NotFound. Para el admin global se exige además que el
	// ítem pertenezca a la empresa destino de la operación.
	item, err := uc.items.GetByID(in.ItemID, scope)
	if err != nil {
		return nil, err
	}
	if item == nil || item.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}

	sellerID := normalizeRef(in.SellerID)
	buyerID := normalizeRef(in.BuyerID)
	if err := uc.checkRefs(scope, companyID, sellerID, buyerID); err != nil {
		return nil, err
	}

	payload, err := opdomain.ValidatePayload(opdomain.Type(in.Type), in.Payload)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	op := &entity.Operation{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		ItemID:    in.ItemID,
		Type:      in.Type,
		Date:      in.Date,
		Amount:    in.Amount,
		Currency:  currency,
		State:     state,
		SellerID:  sellerID,
		BuyerID:   buyerID,
		Notes:     strings.TrimSpace(in.Notes),
		Payload:   payload,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.ops.Create(op); err != nil {
		return nil, err
	}
	return op, nil
}

// UpdateInput patch parcial: nil = campo sin tocar. SellerID/BuyerID usan
// doble puntero para distinguir "no tocar" de "poner en null".
type UpdateInput struct {
	Type     *string
	Date     *time.Time
	Amount   *decimal.Decimal
	Currency *string
	State    *string
	SellerID **string
	BuyerID  **string
	Notes    *string
	Payload  json.RawMessage
}

func (in UpdateInput) empty() bool {
	return in.Type == nil && in.Date == nil && in.Amount == nil && in.Currency == nil &&
		in.State == nil && in.SellerID == nil && in.BuyerID == nil && in.Notes == nil &&
		in.Payload == nil
}

// Update hace merge del patch sobre la operación existente y re-valida cada
// campo tocado con las mismas reglas del alta. El lookup es scoped: ausencia
// y mismatch de empresa devuelven el mismo ErrNotFound.
//
// El modelo de estados heredado no declara transiciones: cualquier estado
// puede pasar a cualquier otro (completed → pending incluido).
func (uc *UseCase) Update(id string, scope domain.TenantScope, in UpdateInput) (*entity.Operation, error) {
	if in.empty() {
		var fe domain.FieldErrors
		fe.Add("body", "se requiere al menos un campo para actualizar")
		return nil, fe
	}

	op, err := uc.ops.GetByID(id, scope)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, domain.ErrNotFound
	}

	var fe domain.FieldErrors
	if in.Type != nil {
		if !opdomain.Known(opdomain.Type(*in.Type)) {
			return nil, domain.ErrUnknownOperationType
		}
		op.Type = *in.Type
	}
	if in.Date != nil {
		if in.Date.IsZero() {
			fe.Add("date", "debe ser válida")
		} else {
			op.Date = *in.Date
		}
	}
	if in.Amount != nil {
		if in.Amount.Sign() < 0 {
			fe.Add("amount", "no puede ser negativo")
		} else {
			op.Amount = in.Amount
		}
	}
	if in.Currency != nil {
		if !entity.OperationCurrencies[*in.Currency] {
			fe.Add("currency", "moneda '%s' no soportada", *in.Currency)
		} else {
			op.Currency = *in.Currency
		}
	}
	if in.State != nil {
		if !entity.OperationStates[*in.State] {
			fe.Add("state", "estado '%s' fuera del conjunto permitido", *in.State)
		} else {
			op.State = *in.State
		}
	}
	if in.SellerID != nil {
		op.SellerID = normalizeRef(*in.SellerID)
	}
	if in.BuyerID != nil {
		op.BuyerID = normalizeRef(*in.BuyerID)
	}
	if in.Notes != nil {
		if len([]rune(*in.Notes)) > maxNotesLen {
			fe.Add("notes", "no pueden exceder %d caracteres", maxNotesLen)
		} else {
			op.Notes = strings.TrimSpace(*in.Notes)
		}
	}
	if !fe.Empty() {
		return nil, fe
	}

	// Referencias tocadas con valor nuevo: validar existencia y pertenencia.
	var sellerRef, buyerRef *string
	if in.SellerID != nil {
		sellerRef = op.SellerID
	}
	if in.BuyerID != nil {
		buyerRef = op.BuyerID
	}
	if sellerRef != nil || buyerRef != nil {
		if err := uc.checkRefs(scope, op.CompanyID, sellerRef, buyerRef); err != nil {
			return nil, err
		}
	}

	// Si cambió el tipo o llegó payload nuevo, el payload vigente se
	// re-valida contra el schema del tipo post-merge.
	if in.Payload != nil || in.Type != nil {
		raw := in.Payload
		if raw == nil {
			raw = op.Payload
		}
		payload, err := opdomain.ValidatePayload(opdomain.Type(op.Type), raw)
		if err != nil {
			return nil, err
		}
		op.Payload = payload
	}

	op.UpdatedAt = uc.now()
	if err := uc.ops.Update(op); err != nil {
		return nil, err
	}
	return op, nil
}

// Get devuelve la operación por id bajo el scope, o ErrNotFound.
func (uc *UseCase) Get(id string, scope domain.TenantScope) (*entity.Operation, error) {
	op, err := uc.ops.GetByID(id, scope)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, domain.ErrNotFound
	}
	return op, nil
}

// Delete elimina físicamente la operación tras el mismo chequeo scoped de
// existencia (a diferencia de usuarios, las operaciones no tienen soft delete).
func (uc *UseCase) Delete(id string, scope domain.TenantScope) error {
	op, err := uc.ops.GetByID(id, scope)
	if err != nil {
		return err
	}
	if op == nil {
		return domain.ErrNotFound
	}
	return uc.ops.Delete(op.ID)
}

// List lista operaciones con filtros, paginación y orden. Devuelve las filas
// de la página y el total que matchea el filtro.
func (uc *UseCase) List(filter repository.OperationFilter, scope domain.TenantScope) ([]*entity.Operation, int64, error) {
	var fe domain.FieldErrors
	if filter.Type != "" && !opdomain.Known(opdomain.Type(filter.Type)) {
		fe.Add("type", "tipo '%s' desconocido", filter.Type)
	}
	if filter.State != "" && !entity.OperationStates[filter.State] {
		fe.Add("state", "estado '%s' fuera del conjunto permitido", filter.State)
	}
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateTo.Before(*filter.DateFrom) {
		fe.Add("date_to", "debe ser mayor o igual a date_from")
	}
	if filter.SortBy != "" && !repository.OperationSortFields[filter.SortBy] {
		fe.Add("sort_field", "campo de orden '%s' no admitido", filter.SortBy)
	}
	if !fe.Empty() {
		return nil, 0, fe
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 12
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}
	if filter.SortBy == "" {
		filter.SortBy = "date"
	}
	if filter.SortDir != "asc" {
		filter.SortDir = "desc"
	}
	return uc.ops.List(filter, scope)
}

// Summarize agrega operaciones por tipo en el rango de fechas dado:
// cantidad, suma y promedio de monto por tag.
func (uc *UseCase) Summarize(scope domain.TenantScope, from, to *time.Time) ([]repository.TypeSummary, error) {
	if from != nil && to != nil && to.Before(*from) {
		var fe domain.FieldErrors
		fe.Add("date_to", "debe ser mayor o igual a date_from")
		return nil, fe
	}
	return uc.ops.SummarizeByType(scope, from, to)
}

// checkRefs valida que las referencias a vendedor/comprador existan bajo el
// scope y pertenezcan a la empresa de la operación. Ausencia real y
// pertenencia ajena comparten el mismo rechazo.
func (uc *UseCase) checkRefs(scope domain.TenantScope, companyID string, sellerID, buyerID *string) error {
	var fe domain.FieldErrors
	if sellerID != nil {
		seller, err := uc.parties.GetSellerByID(*sellerID, scope)
		if err != nil {
			return err
		}
		if seller == nil || seller.CompanyID != companyID {
			fe.Add("seller_id", "vendedor inexistente")
		}
	}
	if buyerID != nil {
		buyer, err := uc.parties.GetBuyerByID(*buyerID, scope)
		if err != nil {
			return err
		}
		if buyer == nil || buyer.CompanyID != companyID {
			fe.Add("buyer_id", "comprador inexistente")
		}
	}
	return fe.AsError()
}

func normalizeRef(ref *string) *string {
	if ref == nil || *ref == "" {
		return nil
	}
	return ref
}
