package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Estados de operación. El modelo heredado no declara tabla de transiciones:
// cualquier estado puede pasar a cualquier otro vía update.
const (
	OperationStatePending    = "pending"
	OperationStateInProgress = "in_progress"
	OperationStateCompleted  = "completed"
	OperationStateCancelled  = "cancelled"
	OperationStateSuspended  = "suspended"
)

// OperationStates conjunto válido de estados.
var OperationStates = map[string]bool{
	OperationStatePending:    true,
	OperationStateInProgress: true,
	OperationStateCompleted:  true,
	OperationStateCancelled:  true,
	OperationStateSuspended:  true,
}

// Monedas aceptadas para operaciones.
var OperationCurrencies = map[string]bool{
	"ARS": true,
	"USD": true,
	"EUR": true,
	"BRL": true,
}

// DefaultCurrency moneda por defecto cuando no se indica.
const DefaultCurrency = "ARS"

// Operation registro polimórfico de transacción de negocio: una entidad
// única cuyo payload y reglas dependen del tag de tipo en runtime.
// Semántica de Seller/Buyer según el tipo (en una venta el comprador es el
// cliente; en una compra el vendedor es el tercero que entrega el ítem).
type Operation struct {
	ID        string
	CompanyID string
	ItemID    string
	Type      string // tag de tipo, ver internal/domain/operation
	Date      time.Time
	Amount    *decimal.Decimal // nil permitido; no negativo cuando presente
	Currency  string
	State     string
	SellerID  *string
	BuyerID   *string
	Notes     string
	Payload   json.RawMessage // validado contra el schema del tipo en cada escritura
	CreatedAt time.Time
	UpdatedAt time.Time
}
