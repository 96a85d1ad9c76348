package operation

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/tu-usuario/voonda-api/internal/domain"
)

// payload contrato interno de los payloads tipados.
type payload interface {
	validate() domain.FieldErrors
}

// Schema decodifica y valida el payload de un tipo de operación.
type Schema struct {
	decode func(raw json.RawMessage) (payload, error)
}

// schemas registro compilado tag → schema. Agregar un tipo nuevo exige
// declarar su payload acá; no hay fallback para tags fuera del mapa.
var schemas = map[Type]Schema{
	TypePurchase: schemaFor[PurchasePayload](),
	TypeSale:     schemaFor[SalePayload](),
	TypeDeposit:  schemaFor[DepositPayload](),
	TypeTransfer: schemaFor[TransferPayload](),
	TypeIntake:   schemaFor[IntakePayload](),
	TypeDelivery: schemaFor[DeliveryPayload](),
	TypeReturn:   schemaFor[ReturnPayload](),
}

func schemaFor[T payload]() Schema {
	return Schema{
		decode: func(raw json.RawMessage) (payload, error) {
			var p T
			dec := json.NewDecoder(bytes.NewReader(raw))
			dec.DisallowUnknownFields()
			if err := dec.Decode(&p); err != nil {
				return nil, decodeError(err)
			}
			return p, nil
		},
	}
}

// ResolveSchema devuelve el schema registrado para el tag, o
// ErrUnknownOperationType si no existe.
func ResolveSchema(t Type) (Schema, error) {
	s, ok := schemas[t]
	if !ok {
		return Schema{}, domain.ErrUnknownOperationType
	}
	return s, nil
}

// ValidatePayload decodifica y valida el payload crudo contra el schema del
// tag y devuelve la forma normalizada (campos tipados re-serializados).
// La normalización es idempotente: validar lo ya validado devuelve lo mismo.
// Tag desconocido falla cerrado con ErrUnknownOperationType.
func ValidatePayload(t Type, raw json.RawMessage) (json.RawMessage, error) {
	s, err := ResolveSchema(t)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return json.RawMessage(`{}`), nil
	}
	p, err := s.decode(raw)
	if err != nil {
		return nil, err
	}
	if fe := p.validate(); !fe.Empty() {
		return nil, fe
	}
	normalized, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return normalized, nil
}

// decodeError traduce errores de json a FieldErrors con campo identificado
// cuando es posible (tipo incompatible o campo desconocido).
func decodeError(err error) error {
	var fe domain.FieldErrors
	switch e := err.(type) {
	case *json.UnmarshalTypeError:
		field := e.Field
		if field == "" {
			field = "payload"
		}
		fe.Add(field, "tipo inválido, se esperaba %s", e.Type.String())
	default:
		msg := err.Error()
		if strings.Contains(msg, "unknown field") {
			// json: unknown field "xyz"
			name := msg[strings.Index(msg, `"`)+1 : strings.LastIndex(msg, `"`)]
			fe.Add(name, "campo no reconocido para este tipo de operación")
		} else {
			fe.Add("payload", "JSON inválido: %s", msg)
		}
	}
	return fe
}
