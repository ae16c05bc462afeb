package repository

import "github.com/jhoicas/kardex-api/internal/domain/entity"

// CompanyRepository define el puerto de persistencia de empresas.
type CompanyRepository interface {
	Create(company *entity.Company) error
	GetByID(id string) (*entity.Company, error)
	List() ([]*entity.Company, error)
}
