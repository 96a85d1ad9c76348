package operation

import (
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/voonda-api/internal/domain"
)

// Cada tipo de operación tiene su payload tipado. Todos los campos son
// opcionales dentro del payload (punteros + omitempty) pero los presentes
// se validan; campos desconocidos se rechazan al decodificar.

// PurchasePayload datos específicos de una compra.
type PurchasePayload struct {
	PaymentMethod         *string          `json:"payment_method,omitempty"` // cash, transfer, check, financed
	DiscountPct           *decimal.Decimal `json:"discount_pct,omitempty"`   // 0..100
	WarrantyMonths        *int             `json:"warranty_months,omitempty"`
	DocumentationComplete *bool            `json:"documentation_complete,omitempty"`
	FinalPrice            *decimal.Decimal `json:"final_price,omitempty"`
}

func (p PurchasePayload) validate() domain.FieldErrors {
	var fe domain.FieldErrors
	checkOneOf(&fe, "payment_method", p.PaymentMethod, "cash", "transfer", "check", "financed")
	checkRange(&fe, "discount_pct", p.DiscountPct, decimal.Zero, decimal.NewFromInt(100))
	if p.WarrantyMonths != nil && *p.WarrantyMonths < 0 {
		fe.Add("warranty_months", "no puede ser negativo")
	}
	checkPositive(&fe, "final_price", p.FinalPrice)
	return fe
}

// SalePayload datos específicos de una venta.
type SalePayload struct {
	SellerCommission     *decimal.Decimal `json:"seller_commission,omitempty"`
	ListPrice            *decimal.Decimal `json:"list_price,omitempty"`
	DiscountGranted      *decimal.Decimal `json:"discount_granted,omitempty"`
	DeliveryMethod       *string          `json:"delivery_method,omitempty"` // immediate, scheduled, shipping
	DeliveryDate         *time.Time       `json:"delivery_date,omitempty"`
	DocumentsTransferred *bool            `json:"documents_transferred,omitempty"`
}

func (p SalePayload) validate() domain.FieldErrors {
	var fe domain.FieldErrors
	checkNonNegative(&fe, "seller_commission", p.SellerCommission)
	checkPositive(&fe, "list_price", p.ListPrice)
	checkNonNegative(&fe, "discount_granted", p.DiscountGranted)
	checkOneOf(&fe, "delivery_method", p.DeliveryMethod, "immediate", "scheduled", "shipping")
	return fe
}

// DepositPayload datos específicos de una seña.
type DepositPayload struct {
	TotalAgreedAmount  *decimal.Decimal `json:"total_agreed_amount,omitempty"`
	OutstandingBalance *decimal.Decimal `json:"outstanding_balance,omitempty"`
	DueDate            *time.Time       `json:"due_date,omitempty"`
	SpecialConditions  *string          `json:"special_conditions,omitempty"`
}

func (p DepositPayload) validate() domain.FieldErrors {
	var fe domain.FieldErrors
	checkPositive(&fe, "total_agreed_amount", p.TotalAgreedAmount)
	checkNonNegative(&fe, "outstanding_balance", p.OutstandingBalance)
	checkMaxLen(&fe, "special_conditions", p.SpecialConditions, 500)
	return fe
}

// TransferPayload datos específicos de una transferencia bancaria.
type TransferPayload struct {
	SourceBank      *string `json:"source_bank,omitempty"`
	DestinationBank *string `json:"destination_bank,omitempty"`
	ReferenceNumber *string `json:"reference_number,omitempty"`
	ReceiptURL      *string `json:"receipt_url,omitempty"`
}

func (p TransferPayload) validate() domain.FieldErrors {
	var fe domain.FieldErrors
	checkMaxLen(&fe, "source_bank", p.SourceBank, 100)
	checkMaxLen(&fe, "destination_bank", p.DestinationBank, 100)
	checkMaxLen(&fe, "reference_number", p.ReferenceNumber, 100)
	if p.ReceiptURL != nil {
		if u, err := url.ParseRequestURI(*p.ReceiptURL); err != nil || u.Scheme == "" || u.Host == "" {
			fe.Add("receipt_url", "debe ser una URL válida")
		}
	}
	return fe
}

// IntakePayload datos específicos de un ingreso al inventario.
type IntakePayload struct {
	Origin                *string          `json:"origin,omitempty"`
	Condition             *string          `json:"condition,omitempty"` // new, used, repair
	DocumentationReceived *bool            `json:"documentation_received,omitempty"`
	InitialValuation      *decimal.Decimal `json:"initial_valuation,omitempty"`
}

func (p IntakePayload) validate() domain.FieldErrors {
	var fe domain.FieldErrors
	checkMaxLen(&fe, "origin", p.Origin, 200)
	checkOneOf(&fe, "condition", p.Condition, "new", "used", "repair")
	checkPositive(&fe, "initial_valuation", p.InitialValuation)
	return fe
}

// DeliveryPayload datos específicos de una entrega.
type DeliveryPayload struct {
	ReceiverName  *string    `json:"receiver_name,omitempty"`
	ReceiverTaxID *string    `json:"receiver_tax_id,omitempty"`
	Place         *string    `json:"place,omitempty"`
	DeliveredAt   *time.Time `json:"delivered_at,omitempty"`
	Confirmed     *bool      `json:"confirmed,omitempty"`
}

func (p DeliveryPayload) validate() domain.FieldErrors {
	var fe domain.FieldErrors
	checkMaxLen(&fe, "receiver_name", p.ReceiverName, 100)
	checkMaxLen(&fe, "receiver_tax_id", p.ReceiverTaxID, 20)
	checkMaxLen(&fe, "place", p.Place, 200)
	return fe
}

// ReturnPayload datos específicos de una devolución.
type ReturnPayload struct {
	Reason        *string          `json:"reason,omitempty"`
	ItemCondition *string          `json:"item_condition,omitempty"` // perfect, good, damaged
	RefundAmount  *decimal.Decimal `json:"refund_amount,omitempty"`
	ReturnedAt    *time.Time       `json:"returned_at,omitempty"`
}

func (p ReturnPayload) validate() domain.FieldErrors {
	var fe domain.FieldErrors
	checkMaxLen(&fe, "reason", p.Reason, 500)
	checkOneOf(&fe, "item_condition", p.ItemCondition, "perfect", "good", "damaged")
	checkNonNegative(&fe, "refund_amount", p.RefundAmount)
	return fe
}

// helpers de validación compartidos

func checkOneOf(fe *domain.FieldErrors, field string, v *string, allowed ...string) {
	if v == nil {
		return
	}
	for _, a := range allowed {
		if *v == a {
			return
		}
	}
	fe.Add(field, "valor '%s' fuera del conjunto permitido", *v)
}

func checkMaxLen(fe *domain.FieldErrors, field string, v *string, max int) {
	if v != nil && len([]rune(*v)) > max {
		fe.Add(field, "no puede exceder %d caracteres", max)
	}
}

func checkPositive(fe *domain.FieldErrors, field string, v *decimal.Decimal) {
	if v != nil && v.Sign() <= 0 {
		fe.Add(field, "debe ser mayor a cero")
	}
}

func checkNonNegative(fe *domain.FieldErrors, field string, v *decimal.Decimal) {
	if v != nil && v.Sign() < 0 {
		fe.Add(field, "no puede ser negativo")
	}
}

func checkRange(fe *domain.FieldErrors, field string, v *decimal.Decimal, min, max decimal.Decimal) {
	if v == nil {
		return
	}
	if v.LessThan(min) || v.GreaterThan(max) {
		fe.Add(field, "debe estar entre %s y %s", min.String(), max.String())
	}
}
