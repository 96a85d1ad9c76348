package operation

// Type tag discriminador de una operación: selecciona schema de payload y
// semántica de negocio. Enumeración fija pero abierta a extensión: agregar
// un tipo es agregar la constante, su payload y la entrada en el registro.
type Type string

const (
	TypePurchase Type = "purchase" // compra de un ítem a un tercero
	TypeSale     Type = "sale"     // venta a un comprador
	TypeDeposit  Type = "deposit"  // seña: reserva con pago parcial
	TypeTransfer Type = "transfer" // transferencia bancaria asociada
	TypeIntake   Type = "intake"   // ingreso del ítem al inventario
	TypeDelivery Type = "delivery" // entrega física al receptor
	TypeReturn   Type = "return"   // devolución
)

// Types lista los tags registrados en orden estable.
func Types() []Type {
	return []Type{TypePurchase, TypeSale, TypeDeposit, TypeTransfer, TypeIntake, TypeDelivery, TypeReturn}
}

// Known indica si el tag está registrado. Todo call site de escritura debe
// rechazar tags desconocidos (fail-closed); no existe el passthrough.
func Known(t Type) bool {
	_, ok := schemas[t]
	return ok
}
