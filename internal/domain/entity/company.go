package entity

import "time"

// Company representa una empresa/tenant del sistema. Toda entidad de negocio
// (usuarios, ítems, vendedores, compradores, operaciones) se particiona por
// empresa salvo para el administrador general.
type Company struct {
	ID        string
	Name      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
