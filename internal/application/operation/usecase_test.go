package operation_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appop "github.com/tu-usuario/voonda-api/internal/application/operation"
	"github.com/tu-usuario/voonda-api/internal/domain"
	"github.com/tu-usuario/voonda-api/internal/domain/entity"
	opdomain "github.com/tu-usuario/voonda-api/internal/domain/operation"
	"github.com/tu-usuario/voonda-api/internal/domain/repository"
)

// ─── fakes en memoria ───────────────────────────────────────────────────────

type fakeOperationRepo struct {
	ops        map[string]*entity.Operation
	lastFilter repository.OperationFilter
	summaries  []repository.TypeSummary
}

func newFakeOperationRepo() *fakeOperationRepo {
	return &fakeOperationRepo{ops: map[string]*entity.Operation{}}
}

func (f *fakeOperationRepo) Create(op *entity.Operation) error {
	f.ops[op.ID] = op
	return nil
}

func (f *fakeOperationRepo) GetByID(id string, scope domain.TenantScope) (*entity.Operation, error) {
	op, ok := f.ops[id]
	if !ok || !scope.Matches(op.CompanyID) {
		return nil, nil
	}
	return op, nil
}

func (f *fakeOperationRepo) Update(op *entity.Operation) error {
	f.ops[op.ID] = op
	return nil
}

func (f *fakeOperationRepo) Delete(id string) error {
	delete(f.ops, id)
	return nil
}

func (f *fakeOperationRepo) List(filter repository.OperationFilter, scope domain.TenantScope) ([]*entity.Operation, int64, error) {
	f.lastFilter = filter
	var out []*entity.Operation
	for _, op := range f.ops {
		if scope.Matches(op.CompanyID) {
			out = append(out, op)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeOperationRepo) SummarizeByType(scope domain.TenantScope, from, to *time.Time) ([]repository.TypeSummary, error) {
	return f.summaries, nil
}

type fakeItemRepo struct{ items map[string]*entity.Item }

func (f *fakeItemRepo) GetByID(id string, scope domain.TenantScope) (*entity.Item, error) {
	item, ok := f.items[id]
	if !ok || !scope.Matches(item.CompanyID) {
		return nil, nil
	}
	return item, nil
}

type fakePartyRepo struct {
	sellers map[string]*entity.Seller
	buyers  map[string]*entity.Buyer
}

func (f *fakePartyRepo) GetSellerByID(id string, scope domain.TenantScope) (*entity.Seller, error) {
	s, ok := f.sellers[id]
	if !ok || !scope.Matches(s.CompanyID) {
		return nil, nil
	}
	return s, nil
}

func (f *fakePartyRepo) GetBuyerByID(id string, scope domain.TenantScope) (*entity.Buyer, error) {
	b, ok := f.buyers[id]
	if !ok || !scope.Matches(b.CompanyID) {
		return nil, nil
	}
	return b, nil
}

// ─── fixture ────────────────────────────────────────────────────────────────

const (
	empresaA = "company-a"
	empresaB = "company-b"
	itemA    = "item-a"
	itemB    = "item-b"
)

var fechaTest = time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

type opEnv struct {
	ops   *fakeOperationRepo
	items *fakeItemRepo
	uc    *appop.UseCase
}

func newOpEnv(t *testing.T) *opEnv {
	t.Helper()
	ops := newFakeOperationRepo()
	items := &fakeItemRepo{items: map[string]*entity.Item{
		itemA: {ID: itemA, CompanyID: empresaA, Label: "ABC-123"},
		itemB: {ID: itemB, CompanyID: empresaB, Label: "XYZ-789"},
	}}
	parties := &fakePartyRepo{
		sellers: map[string]*entity.Seller{
			"seller-1": {ID: "seller-1", CompanyID: empresaA, Name: "Juan"},
			"seller-b": {ID: "seller-b", CompanyID: empresaB, Name: "Pedro"},
		},
		buyers: map[string]*entity.Buyer{
			"buyer-1": {ID: "buyer-1", CompanyID: empresaA, Name: "María"},
			"buyer-b": {ID: "buyer-b", CompanyID: empresaB, Name: "Lucía"},
		},
	}
	uc := appop.NewUseCase(ops, items, parties).WithClock(func() time.Time { return fechaTest })
	return &opEnv{ops: ops, items: items, uc: uc}
}

func scopeA() domain.TenantScope { return domain.CompanyScope(empresaA) }

func ventaValida() appop.CreateInput {
	amount := decimal.NewFromInt(150000)
	buyer := "buyer-1"
	return appop.CreateInput{
		ItemID:  itemA,
		Type:    string(opdomain.TypeSale),
		Date:    fechaTest,
		Amount:  &amount,
		BuyerID: &buyer,
		Payload: json.RawMessage(`{"list_price":180000,"delivery_method":"immediate"}`),
	}
}

// ─── create ─────────────────────────────────────────────────────────────────

func TestCreate_VentaConDefaults(t *testing.T) {
	env := newOpEnv(t)

	op, err := env.uc.Create(scopeA(), ventaValida())
	require.NoError(t, err)

	assert.NotEmpty(t, op.ID)
	assert.Equal(t, empresaA, op.CompanyID)
	assert.Equal(t, entity.OperationStatePending, op.State)
	assert.Equal(t, entity.DefaultCurrency, op.Currency)
	require.NotNil(t, op.BuyerID)
	assert.Equal(t, "buyer-1", *op.BuyerID)
	assert.Nil(t, op.SellerID)
	assert.JSONEq(t, `{"list_price":"180000","delivery_method":"immediate"}`, string(op.Payload))
}

// La empresa del body se ignora para scopes de empresa: la operación siempre
// cae en la empresa del caller.
func TestCreate_ScopeDeEmpresaIgnoraCompanyDelBody(t *testing.T) {
	env := newOpEnv(t)
	in := ventaValida()
	in.CompanyID = empresaB

	op, err := env.uc.Create(scopeA(), in)
	require.NoError(t, err)
	assert.Equal(t, empresaA, op.CompanyID)
}

func TestCreate_AdminGlobalEligeEmpresa(t *testing.T) {
	env := newOpEnv(t)
	in := ventaValida()
	in.CompanyID = empresaB
	in.ItemID = itemB
	buyer := "buyer-b"
	in.BuyerID = &buyer

	op, err := env.uc.Create(domain.GlobalScope(), in)
	require.NoError(t, err)
	assert.Equal(t, empresaB, op.CompanyID)
}

// El admin global también debe respetar la coherencia ítem/empresa: un ítem
// de otra empresa que la destino se rechaza como NotFound.
func TestCreate_AdminGlobal_ItemDeOtraEmpresa(t *testing.T) {
	env := newOpEnv(t)
	in := ventaValida()
	in.CompanyID = empresaB
	in.ItemID = itemA

	_, err := env.uc.Create(domain.GlobalScope(), in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_TipoDesconocido(t *testing.T) {
	env := newOpEnv(t)
	in := ventaValida()
	in.Type = "donacion"

	_, err := env.uc.Create(scopeA(), in)
	assert.ErrorIs(t, err, domain.ErrUnknownOperationType)
}

func TestCreate_MontoNegativoRechazado_CeroPermitido(t *testing.T) {
	env := newOpEnv(t)

	in := ventaValida()
	neg := decimal.NewFromInt(-100)
	in.Amount = &neg
	_, err := env.uc.Create(scopeA(), in)
	var fe domain.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "amount", fe[0].Field)

	in = ventaValida()
	zero := decimal.Zero
	in.Amount = &zero
	_, err = env.uc.Create(scopeA(), in)
	assert.NoError(t, err)
}

func TestCreate_EstadoYMonedaInvalidos(t *testing.T) {
	env := newOpEnv(t)
	in := ventaValida()
	in.State = "archivada"
	in.Currency = "GBP"

	_, err := env.uc.Create(scopeA(), in)

	var fe domain.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Len(t, fe, 2)
}

// El ítem de otra empresa se rechaza como NotFound, nunca como Forbidden:
// la existencia de recursos ajenos no se revela. Y el rechazo ocurre ANTES
// de validar el payload: un payload roto no cambia la respuesta.
func TestCreate_ItemDeOtraEmpresa_NotFoundAntesDelPayload(t *testing.T) {
	env := newOpEnv(t)
	in := ventaValida()
	in.ItemID = itemB
	in.Payload = json.RawMessage(`{"campo_inexistente":true}`)

	_, err := env.uc.Create(scopeA(), in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Referencias a vendedor/comprador inexistentes o de otra empresa comparten
// el mismo rechazo por campo.
func TestCreate_ReferenciasInvalidas(t *testing.T) {
	env := newOpEnv(t)

	in := ventaValida()
	buyer := "buyer-fantasma"
	in.BuyerID = &buyer
	_, err := env.uc.Create(scopeA(), in)
	var fe domain.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "buyer_id", fe[0].Field)

	in = ventaValida()
	seller := "seller-b" // pertenece a otra empresa
	in.SellerID = &seller
	_, err = env.uc.Create(scopeA(), in)
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "seller_id", fe[0].Field)
}

func TestCreate_ItemInexistente(t *testing.T) {
	env := newOpEnv(t)
	in := ventaValida()
	in.ItemID = "item-fantasma"

	_, err := env.uc.Create(scopeA(), in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_PayloadInvalido(t *testing.T) {
	env := newOpEnv(t)
	in := ventaValida()
	in.Payload = json.RawMessage(`{"delivery_method":"paloma"}`)

	_, err := env.uc.Create(scopeA(), in)

	var fe domain.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "delivery_method", fe[0].Field)
}

func TestCreate_ValidacionFallida_NoPersisteNada(t *testing.T) {
	env := newOpEnv(t)
	in := ventaValida()
	in.Payload = json.RawMessage(`{"delivery_method":"paloma"}`)

	_, err := env.uc.Create(scopeA(), in)
	require.Error(t, err)
	assert.Empty(t, env.ops.ops)
}

// ─── update ─────────────────────────────────────────────────────────────────

func TestUpdate_PatchVacioRechazado(t *testing.T) {
	env := newOpEnv(t)

	_, err := env.uc.Update("cualquiera", scopeA(), appop.UpdateInput{})

	var fe domain.FieldErrors
	require.ErrorAs(t, err, &fe)
}

// El modelo heredado no restringe transiciones de estado: completed puede
// volver a pending.
func TestUpdate_TransicionLibreDeEstado(t *testing.T) {
	env := newOpEnv(t)
	completada := entity.OperationStateCompleted
	in := ventaValida()
	in.State = completada
	op, err := env.uc.Create(scopeA(), in)
	require.NoError(t, err)

	pendiente := entity.OperationStatePending
	got, err := env.uc.Update(op.ID, scopeA(), appop.UpdateInput{State: &pendiente})
	require.NoError(t, err)
	assert.Equal(t, entity.OperationStatePending, got.State)
}

// Cambiar el tipo re-valida el payload vigente contra el schema nuevo:
// un payload de venta no sobrevive a un cambio a transferencia.
func TestUpdate_CambioDeTipo_RevalidaPayloadVigente(t *testing.T) {
	env := newOpEnv(t)
	op, err := env.uc.Create(scopeA(), ventaValida())
	require.NoError(t, err)

	nuevo := string(opdomain.TypeTransfer)
	_, err = env.uc.Update(op.ID, scopeA(), appop.UpdateInput{Type: &nuevo})

	var fe domain.FieldErrors
	require.ErrorAs(t, err, &fe)
}

func TestUpdate_CambioDeTipoConPayloadNuevo(t *testing.T) {
	env := newOpEnv(t)
	op, err := env.uc.Create(scopeA(), ventaValida())
	require.NoError(t, err)

	nuevo := string(opdomain.TypeTransfer)
	got, err := env.uc.Update(op.ID, scopeA(), appop.UpdateInput{
		Type:    &nuevo,
		Payload: json.RawMessage(`{"source_bank":"Banco Nación","reference_number":"TRF-001"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, string(opdomain.TypeTransfer), got.Type)
	assert.JSONEq(t, `{"source_bank":"Banco Nación","reference_number":"TRF-001"}`, string(got.Payload))
}

// Doble puntero en las referencias: distinguir "no tocar" de "poner en null".
func TestUpdate_ReferenciaANull(t *testing.T) {
	env := newOpEnv(t)
	op, err := env.uc.Create(scopeA(), ventaValida())
	require.NoError(t, err)
	require.NotNil(t, op.BuyerID)

	var nulo *string
	got, err := env.uc.Update(op.ID, scopeA(), appop.UpdateInput{BuyerID: &nulo})
	require.NoError(t, err)
	assert.Nil(t, got.BuyerID)
}

func TestUpdate_ReferenciaNueva_SeValida(t *testing.T) {
	env := newOpEnv(t)
	op, err := env.uc.Create(scopeA(), ventaValida())
	require.NoError(t, err)

	seller := "seller-1"
	ref := &seller
	got, err := env.uc.Update(op.ID, scopeA(), appop.UpdateInput{SellerID: &ref})
	require.NoError(t, err)
	require.NotNil(t, got.SellerID)
	assert.Equal(t, "seller-1", *got.SellerID)

	ajeno := "seller-b"
	ref = &ajeno
	_, err = env.uc.Update(op.ID, scopeA(), appop.UpdateInput{SellerID: &ref})
	var fe domain.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "seller_id", fe[0].Field)
}

func TestUpdate_FueraDeScope_NotFound(t *testing.T) {
	env := newOpEnv(t)
	op, err := env.uc.Create(scopeA(), ventaValida())
	require.NoError(t, err)

	monto := decimal.NewFromInt(999)
	_, err = env.uc.Update(op.ID, domain.CompanyScope(empresaB), appop.UpdateInput{Amount: &monto})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ─── get / delete ───────────────────────────────────────────────────────────

func TestGet_ScopedNotFound(t *testing.T) {
	env := newOpEnv(t)
	op, err := env.uc.Create(scopeA(), ventaValida())
	require.NoError(t, err)

	got, err := env.uc.Get(op.ID, scopeA())
	require.NoError(t, err)
	assert.Equal(t, op.ID, got.ID)

	_, err = env.uc.Get(op.ID, domain.CompanyScope(empresaB))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_ScopedYFisico(t *testing.T) {
	env := newOpEnv(t)
	op, err := env.uc.Create(scopeA(), ventaValida())
	require.NoError(t, err)

	err = env.uc.Delete(op.ID, domain.CompanyScope(empresaB))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, env.ops.ops, op.ID)

	require.NoError(t, env.uc.Delete(op.ID, scopeA()))
	assert.NotContains(t, env.ops.ops, op.ID)
}

// ─── list / summarize ───────────────────────────────────────────────────────

func TestList_AplicaDefaults(t *testing.T) {
	env := newOpEnv(t)

	_, _, err := env.uc.List(repository.OperationFilter{}, scopeA())
	require.NoError(t, err)

	assert.Equal(t, 1, env.ops.lastFilter.Page)
	assert.Equal(t, 12, env.ops.lastFilter.PageSize)
	assert.Equal(t, "date", env.ops.lastFilter.SortBy)
	assert.Equal(t, "desc", env.ops.lastFilter.SortDir)
}

func TestList_AcotaPageSize(t *testing.T) {
	env := newOpEnv(t)

	_, _, err := env.uc.List(repository.OperationFilter{PageSize: 5000}, scopeA())
	require.NoError(t, err)
	assert.Equal(t, 100, env.ops.lastFilter.PageSize)
}

func TestList_CampoDeOrdenNoAdmitido(t *testing.T) {
	env := newOpEnv(t)

	_, _, err := env.uc.List(repository.OperationFilter{SortBy: "password_hash"}, scopeA())

	var fe domain.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "sort_field", fe[0].Field)
}

func TestList_FiltrosInvalidos(t *testing.T) {
	env := newOpEnv(t)
	from := fechaTest
	to := fechaTest.Add(-24 * time.Hour)

	_, _, err := env.uc.List(repository.OperationFilter{
		Type:     "donacion",
		State:    "archivada",
		DateFrom: &from,
		DateTo:   &to,
	}, scopeA())

	var fe domain.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Len(t, fe, 3)
}

func TestSummarize_RangoInvalido(t *testing.T) {
	env := newOpEnv(t)
	from := fechaTest
	to := fechaTest.Add(-time.Hour)

	_, err := env.uc.Summarize(scopeA(), &from, &to)

	var fe domain.FieldErrors
	require.ErrorAs(t, err, &fe)
}

func TestSummarize_DelegaAlRepositorio(t *testing.T) {
	env := newOpEnv(t)
	env.ops.summaries = []repository.TypeSummary{
		{Type: string(opdomain.TypeSale), Count: 3, Sum: decimal.NewFromInt(450000), Average: decimal.NewFromInt(150000)},
	}

	got, err := env.uc.Summarize(scopeA(), nil, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].Count)
	assert.True(t, got[0].Sum.Equal(decimal.NewFromInt(450000)))
}
