package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/voonda-api/internal/domain/entity"
	"github.com/tu-usuario/voonda-api/internal/domain/repository"
)

// CreateOperationRequest alta de operación. company_id solo lo honra el
// administrador general; para el resto la empresa sale del token.
type CreateOperationRequest struct {
	CompanyID string           `json:"company_id,omitempty"`
	ItemID    string           `json:"item_id"`
	Type      string           `json:"type"`
	Date      time.Time        `json:"date"`
	Amount    *decimal.Decimal `json:"amount,omitempty"`
	Currency  string           `json:"currency,omitempty"`
	State     string           `json:"state,omitempty"`
	SellerID  *string          `json:"seller_id,omitempty"`
	BuyerID   *string          `json:"buyer_id,omitempty"`
	Notes     string           `json:"notes,omitempty"`
	Payload   json.RawMessage  `json:"payload,omitempty"`
}

// NullableString distingue "clave ausente" (Set=false) de "null explícito"
// (Set=true, Value=nil): un puntero simple colapsa ambos casos al decodificar.
type NullableString struct {
	Set   bool
	Value *string
}

// UnmarshalJSON solo corre cuando la clave está presente en el body; null
// explícito queda como Value=nil con Set=true.
func (n *NullableString) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		n.Value = nil
		return nil
	}
	return json.Unmarshal(b, &n.Value)
}

// Ref devuelve la referencia en el formato del patch de aplicación:
// nil = sin tocar, puntero a nil = desasociar.
func (n NullableString) Ref() **string {
	if !n.Set {
		return nil
	}
	v := n.Value
	return &v
}

// UpdateOperationRequest patch parcial; campo ausente = sin tocar.
// seller_id/buyer_id admiten null explícito para desasociar.
type UpdateOperationRequest struct {
	Type     *string          `json:"type,omitempty"`
	Date     *time.Time       `json:"date,omitempty"`
	Amount   *decimal.Decimal `json:"amount,omitempty"`
	Currency *string          `json:"currency,omitempty"`
	State    *string          `json:"state,omitempty"`
	SellerID NullableString   `json:"seller_id,omitempty"`
	BuyerID  NullableString   `json:"buyer_id,omitempty"`
	Notes    *string          `json:"notes,omitempty"`
	Payload  json.RawMessage  `json:"payload,omitempty"`
}

// OperationResponse representación pública de una operación.
type OperationResponse struct {
	ID        string           `json:"id"`
	CompanyID string           `json:"company_id"`
	ItemID    string           `json:"item_id"`
	Type      string           `json:"type"`
	Date      time.Time        `json:"date"`
	Amount    *decimal.Decimal `json:"amount"`
	Currency  string           `json:"currency"`
	State     string           `json:"state"`
	SellerID  *string          `json:"seller_id"`
	BuyerID   *string          `json:"buyer_id"`
	Notes     string           `json:"notes,omitempty"`
	Payload   json.RawMessage  `json:"payload,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// OperationListResponse página de operaciones.
type OperationListResponse struct {
	Items      []OperationResponse `json:"items"`
	Pagination Pagination          `json:"pagination"`
}

// TypeSummaryResponse agregado de un tag de tipo.
type TypeSummaryResponse struct {
	Type    string          `json:"type"`
	Count   int64           `json:"count"`
	Sum     decimal.Decimal `json:"sum"`
	Average decimal.Decimal `json:"average"`
}

// SummaryResponse resumen por tipo.
type SummaryResponse struct {
	PerType []TypeSummaryResponse `json:"per_type"`
}

// ToOperationResponse mapea la entidad a su representación pública.
func ToOperationResponse(op *entity.Operation) OperationResponse {
	return OperationResponse{
		ID:        op.ID,
		CompanyID: op.CompanyID,
		ItemID:    op.ItemID,
		Type:      op.Type,
		Date:      op.Date,
		Amount:    op.Amount,
		Currency:  op.Currency,
		State:     op.State,
		SellerID:  op.SellerID,
		BuyerID:   op.BuyerID,
		Notes:     op.Notes,
		Payload:   op.Payload,
		CreatedAt: op.CreatedAt,
		UpdatedAt: op.UpdatedAt,
	}
}

// ToSummaryResponse mapea los agregados del repositorio.
func ToSummaryResponse(rows []repository.TypeSummary) SummaryResponse {
	out := SummaryResponse{PerType: make([]TypeSummaryResponse, 0, len(rows))}
	for _, r := range rows {
		out.PerType = append(out.PerType, TypeSummaryResponse{
			Type:    r.Type,
			Count:   r.Count,
			Sum:     r.Sum,
			Average: r.Average,
		})
	}
	return out
}

// ItemStateResponse estado del catálogo.
type ItemStateResponse struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}
