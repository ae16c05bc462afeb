package entity

// Pair identifica una pareja (producto, bodega) afectada por una operación.
// Es la unidad de trabajo del recálculo: cada pareja se reproduce de forma
// independiente.
type Pair struct {
	ProductID   string
	WarehouseID string
}

// PairSet acumula parejas sin duplicados (orden de inserción no garantizado).
type PairSet map[Pair]struct{}

// Add agrega la pareja al conjunto.
func (s PairSet) Add(productID, warehouseID string) {
	s[Pair{ProductID: productID, WarehouseID: warehouseID}] = struct{}{}
}

// Pairs devuelve las parejas del conjunto como slice.
func (s PairSet) Pairs() []Pair {
	out := make([]Pair, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	return out
}
