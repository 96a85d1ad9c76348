package repository

import "github.com/tu-usuario/voonda-api/internal/domain/entity"

// RoleRepository puerto de persistencia para Role. La matriz de permisos se
// materializa tipada al cargar, nunca se interpreta como JSON crudo aguas
// arriba.
type RoleRepository interface {
	GetByID(id string) (*entity.Role, error)
	GetByName(name string) (*entity.Role, error)
	List() ([]*entity.Role, error)
}

// CompanyRepository puerto de persistencia para Company.
type CompanyRepository interface {
	GetByID(id string) (*entity.Company, error)
}
