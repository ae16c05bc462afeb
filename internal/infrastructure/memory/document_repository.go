package memory

import (
	"sort"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo implementación en memoria de documentos y líneas.
type DocumentRepo struct {
	store *Store
}

// NewDocumentRepository construye el adaptador.
func NewDocumentRepository(store *Store) *DocumentRepo {
	return &DocumentRepo{store: store}
}

func (r *DocumentRepo) Create(doc *entity.Document) error {
	r.store.documents[doc.ID] = *doc
	return nil
}

func (r *DocumentRepo) GetByID(id string) (*entity.Document, error) {
	doc, ok := r.store.documents[id]
	if !ok {
		return nil, nil
	}
	return &doc, nil
}

func (r *DocumentRepo) Update(doc *entity.Document) error {
	if _, ok := r.store.documents[doc.ID]; !ok {
		return domain.ErrNotFound
	}
	r.store.documents[doc.ID] = *doc
	return nil
}

func (r *DocumentRepo) Delete(id string) error {
	if _, ok := r.store.documents[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.store.documents, id)
	return nil
}

func (r *DocumentRepo) CreateLine(line *entity.DocumentLine) error {
	r.store.lines[line.ID] = *line
	return nil
}

// ListLines devuelve las líneas del documento en orden estable de creación.
func (r *DocumentRepo) ListLines(documentID string) ([]*entity.DocumentLine, error) {
	var out []*entity.DocumentLine
	for id := range r.store.lines {
		if r.store.lines[id].DocumentID == documentID {
			line := r.store.lines[id]
			out = append(out, &line)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *DocumentRepo) UpdateLine(line *entity.DocumentLine) error {
	if _, ok := r.store.lines[line.ID]; !ok {
		return domain.ErrNotFound
	}
	r.store.lines[line.ID] = *line
	return nil
}

func (r *DocumentRepo) DeleteLine(id string) error {
	if _, ok := r.store.lines[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.store.lines, id)
	return nil
}
