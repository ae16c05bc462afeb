// Package memory implementa los puertos de persistencia sobre estructuras en
// memoria. Se usa en pruebas y en modo demo; el comportamiento transaccional
// (commit/rollback) se emula con instantáneas del estado completo.
package memory

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// Store contiene todo el estado en memoria. Los repositorios son vistas sobre
// él; el mutex serializa el acceso entre unidades de trabajo.
type Store struct {
	mu  sync.Mutex
	seq int64

	companies  map[string]entity.Company
	products   map[string]entity.Product
	warehouses map[string]entity.Warehouse
	periods    map[string]entity.AccountingPeriod
	documents  map[string]entity.Document
	lines      map[string]entity.DocumentLine
	movements  []entity.StockMovement
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		companies:  map[string]entity.Company{},
		products:   map[string]entity.Product{},
		warehouses: map[string]entity.Warehouse{},
		periods:    map[string]entity.AccountingPeriod{},
		documents:  map[string]entity.Document{},
		lines:      map[string]entity.DocumentLine{},
	}
}

func periodKey(companyID string, year int, month time.Month) string {
	return fmt.Sprintf("%s|%d|%d", companyID, year, int(month))
}

// nextSeq devuelve el siguiente consecutivo de inserción.
func (s *Store) nextSeq() int64 {
	s.seq++
	return s.seq
}

// snapshot copia el estado completo para poder revertir una unidad de trabajo.
func (s *Store) snapshot() *Store {
	snap := &Store{
		seq:        s.seq,
		companies:  make(map[string]entity.Company, len(s.companies)),
		products:   make(map[string]entity.Product, len(s.products)),
		warehouses: make(map[string]entity.Warehouse, len(s.warehouses)),
		periods:    make(map[string]entity.AccountingPeriod, len(s.periods)),
		documents:  make(map[string]entity.Document, len(s.documents)),
		lines:      make(map[string]entity.DocumentLine, len(s.lines)),
		movements:  make([]entity.StockMovement, len(s.movements)),
	}
	for k, v := range s.companies {
		snap.companies[k] = v
	}
	for k, v := range s.products {
		snap.products[k] = v
	}
	for k, v := range s.warehouses {
		snap.warehouses[k] = v
	}
	for k, v := range s.periods {
		snap.periods[k] = v
	}
	for k, v := range s.documents {
		snap.documents[k] = v
	}
	for k, v := range s.lines {
		snap.lines[k] = v
	}
	copy(snap.movements, s.movements)
	return snap
}

// restore repone el estado desde una instantánea (rollback).
func (s *Store) restore(snap *Store) {
	s.seq = snap.seq
	s.companies = snap.companies
	s.products = snap.products
	s.warehouses = snap.warehouses
	s.periods = snap.periods
	s.documents = snap.documents
	s.lines = snap.lines
	s.movements = snap.movements
}

// sortTotalOrder ordena movimientos por el orden total del kardex: (fecha,
// consecutivo).
func sortTotalOrder(movements []entity.StockMovement) {
	sort.SliceStable(movements, func(i, j int) bool {
		if !movements[i].Date.Equal(movements[j].Date) {
			return movements[i].Date.Before(movements[j].Date)
		}
		return movements[i].Seq < movements[j].Seq
	})
}
