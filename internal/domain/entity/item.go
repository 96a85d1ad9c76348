package entity

import "time"

// Item representa un ítem de inventario (pertenece a una Company).
// Su CRUD completo vive fuera de este core; acá solo importa la búsqueda
// por ID con scope de empresa que exige el servicio de operaciones.
type Item struct {
	ID        string
	CompanyID string
	Label     string // identificación visible (ej. patente o código interno)
	StateID   string // referencia al catálogo ItemState
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ItemState código de estado del catálogo (read-mostly, cacheado con TTL).
type ItemState struct {
	ID   string
	Code string // ej. "salon", "taller", "vendido"
	Name string
}
