package repository

import "github.com/jhoicas/kardex-api/internal/domain/entity"

// DocumentRepository define el puerto de persistencia de documentos de
// negocio (compra, venta, ajuste) y sus líneas.
type DocumentRepository interface {
	Create(doc *entity.Document) error
	GetByID(id string) (*entity.Document, error)
	Update(doc *entity.Document) error
	Delete(id string) error

	CreateLine(line *entity.DocumentLine) error
	ListLines(documentID string) ([]*entity.DocumentLine, error)
	UpdateLine(line *entity.DocumentLine) error
	DeleteLine(id string) error
}
