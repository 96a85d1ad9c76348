package entity

import "time"

// Seller vendedor asociado a una empresa. Referenciado por operaciones;
// su CRUD no forma parte de este core.
type Seller struct {
	ID        string
	CompanyID string
	Name      string
	LastName  string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Buyer comprador asociado a una empresa.
type Buyer struct {
	ID        string
	CompanyID string
	Name      string
	LastName  string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
