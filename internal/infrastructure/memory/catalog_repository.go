package memory

import (
	"time"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var (
	_ repository.CompanyRepository          = (*CompanyRepo)(nil)
	_ repository.ProductRepository          = (*ProductRepo)(nil)
	_ repository.WarehouseRepository        = (*WarehouseRepo)(nil)
	_ repository.AccountingPeriodRepository = (*AccountingPeriodRepo)(nil)
)

// CompanyRepo implementación en memoria de empresas.
type CompanyRepo struct{ store *Store }

// NewCompanyRepository construye el adaptador.
func NewCompanyRepository(store *Store) *CompanyRepo { return &CompanyRepo{store: store} }

func (r *CompanyRepo) Create(company *entity.Company) error {
	r.store.companies[company.ID] = *company
	return nil
}

func (r *CompanyRepo) GetByID(id string) (*entity.Company, error) {
	company, ok := r.store.companies[id]
	if !ok {
		return nil, nil
	}
	return &company, nil
}

func (r *CompanyRepo) List() ([]*entity.Company, error) {
	out := make([]*entity.Company, 0, len(r.store.companies))
	for id := range r.store.companies {
		company := r.store.companies[id]
		out = append(out, &company)
	}
	return out, nil
}

// ProductRepo implementación en memoria de productos.
type ProductRepo struct{ store *Store }

// NewProductRepository construye el adaptador.
func NewProductRepository(store *Store) *ProductRepo { return &ProductRepo{store: store} }

func (r *ProductRepo) Create(product *entity.Product) error {
	r.store.products[product.ID] = *product
	return nil
}

func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	product, ok := r.store.products[id]
	if !ok {
		return nil, nil
	}
	return &product, nil
}

func (r *ProductRepo) ListByCompany(companyID string) ([]*entity.Product, error) {
	var out []*entity.Product
	for id := range r.store.products {
		if r.store.products[id].CompanyID == companyID {
			product := r.store.products[id]
			out = append(out, &product)
		}
	}
	return out, nil
}

// WarehouseRepo implementación en memoria de bodegas.
type WarehouseRepo struct{ store *Store }

// NewWarehouseRepository construye el adaptador.
func NewWarehouseRepository(store *Store) *WarehouseRepo { return &WarehouseRepo{store: store} }

func (r *WarehouseRepo) Create(warehouse *entity.Warehouse) error {
	r.store.warehouses[warehouse.ID] = *warehouse
	return nil
}

func (r *WarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	warehouse, ok := r.store.warehouses[id]
	if !ok {
		return nil, nil
	}
	return &warehouse, nil
}

func (r *WarehouseRepo) ListByCompany(companyID string) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	for id := range r.store.warehouses {
		if r.store.warehouses[id].CompanyID == companyID {
			warehouse := r.store.warehouses[id]
			out = append(out, &warehouse)
		}
	}
	return out, nil
}

// AccountingPeriodRepo implementación en memoria de períodos contables.
type AccountingPeriodRepo struct{ store *Store }

// NewAccountingPeriodRepository construye el adaptador.
func NewAccountingPeriodRepository(store *Store) *AccountingPeriodRepo {
	return &AccountingPeriodRepo{store: store}
}

func (r *AccountingPeriodRepo) Get(companyID string, year int, month time.Month) (*entity.AccountingPeriod, error) {
	period, ok := r.store.periods[periodKey(companyID, year, month)]
	if !ok {
		return nil, nil
	}
	return &period, nil
}

func (r *AccountingPeriodRepo) Upsert(period *entity.AccountingPeriod) error {
	r.store.periods[periodKey(period.CompanyID, period.Year, period.Month)] = *period
	return nil
}

// IsOpen: un período sin registro se considera abierto.
func (r *AccountingPeriodRepo) IsOpen(companyID string, date time.Time) (bool, error) {
	period, ok := r.store.periods[periodKey(companyID, date.Year(), date.Month())]
	if !ok {
		return true, nil
	}
	return !period.Closed, nil
}
