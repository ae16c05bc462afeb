package document

import (
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// LineChange es una línea presente en ambos conjuntos con el mismo producto y
// bodega: se reconcilia con un movimiento delta, nunca con un reemplazo.
// Index apunta a la línea correspondiente del conjunto enviado.
type LineChange struct {
	Old   *entity.DocumentLine
	Index int
}

// LineDiff es el resultado de comparar las líneas persistidas contra el
// conjunto completo enviado en una edición. Added contiene índices del
// conjunto enviado.
type LineDiff struct {
	Added    []int
	Removed  []*entity.DocumentLine
	Modified []LineChange
}

// DiffLines calcula el diff de tres vías sobre identificadores estables de
// línea. Función pura, independiente de cualquier widget de UI:
//
//   - Removed: líneas persistidas cuyo id no aparece en el conjunto nuevo.
//   - Added: líneas nuevas sin referencia persistida.
//   - Modified: líneas con referencia presente en ambos conjuntos. Si cambió
//     el producto o la bodega, la línea se trata como remoción de la pareja
//     vieja más adición en la nueva (el delta no tiene sentido entre parejas).
func DiffLines(persisted []*entity.DocumentLine, submitted []dto.DocumentLineInput) LineDiff {
	byID := make(map[string]*entity.DocumentLine, len(persisted))
	for _, line := range persisted {
		byID[line.ID] = line
	}

	var diff LineDiff
	seen := make(map[string]bool, len(submitted))

	for i, in := range submitted {
		old, ok := byID[in.LineID]
		if in.LineID == "" || !ok {
			diff.Added = append(diff.Added, i)
			continue
		}
		seen[in.LineID] = true
		if old.ProductID != in.ProductID || old.WarehouseID != in.WarehouseID {
			diff.Removed = append(diff.Removed, old)
			diff.Added = append(diff.Added, i)
			continue
		}
		diff.Modified = append(diff.Modified, LineChange{Old: old, Index: i})
	}

	for _, line := range persisted {
		if !seen[line.ID] {
			diff.Removed = append(diff.Removed, line)
		}
	}

	return diff
}
