package valuation

import "github.com/shopspring/decimal"

// Lot es una capa de inventario: una cantidad que entró a un costo unitario
// conocido. FIFO y LIFO consumen lotes; promedio ponderado no los necesita.
type Lot struct {
	Quantity decimal.Decimal
	UnitCost decimal.Decimal
}

// cloneLots copia el slice de lotes para no compartir estado entre cortes.
func cloneLots(lots []Lot) []Lot {
	if len(lots) == 0 {
		return nil
	}
	out := make([]Lot, len(lots))
	copy(out, lots)
	return out
}

// lotsQuantity suma las cantidades restantes de los lotes.
func lotsQuantity(lots []Lot) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lots {
		total = total.Add(l.Quantity)
	}
	return total
}

// lotsValue suma el valor exacto (cantidad × costo) de los lotes, sin redondear.
func lotsValue(lots []Lot) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lots {
		total = total.Add(l.Quantity.Mul(l.UnitCost))
	}
	return total
}

// removeLotAt retira de los lotes la capa que una reversa cancela: qty al
// costo unitario unit. Descuenta primero de los lotes a ese costo exacto,
// recorriendo en el orden de consumo de la política; si no alcanzan (historia
// degenerada), el resto sale de los demás lotes en orden de política.
// Devuelve los lotes restantes y el faltante si todos se agotan.
func removeLotAt(lots []Lot, qty, unit decimal.Decimal, fromFront bool) (remaining []Lot, shortfall decimal.Decimal) {
	work := cloneLots(lots)
	need := qty

	for pass := 0; pass < 2 && need.IsPositive(); pass++ {
		for n := 0; n < len(work) && need.IsPositive(); n++ {
			i := n
			if !fromFront {
				i = len(work) - 1 - n
			}
			if pass == 0 && !work[i].UnitCost.Equal(unit) {
				continue
			}
			take := work[i].Quantity
			if take.GreaterThan(need) {
				take = need
			}
			work[i].Quantity = work[i].Quantity.Sub(take)
			need = need.Sub(take)
		}
	}

	for _, l := range work {
		if l.Quantity.IsPositive() {
			remaining = append(remaining, l)
		}
	}
	return remaining, need
}

// consumeLots extrae qty de los lotes, desde el frente (FIFO) o desde el
// final (LIFO), partiendo el último lote consumido si es más grande que lo
// que falta. Devuelve el costo exacto de las porciones consumidas, los lotes
// restantes y el faltante si los lotes se agotan antes de cubrir qty.
func consumeLots(lots []Lot, qty decimal.Decimal, fromFront bool) (cost decimal.Decimal, remaining []Lot, shortfall decimal.Decimal) {
	cost = decimal.Zero
	remaining = cloneLots(lots)
	need := qty

	for need.IsPositive() && len(remaining) > 0 {
		idx := 0
		if !fromFront {
			idx = len(remaining) - 1
		}
		lot := remaining[idx]

		if lot.Quantity.LessThanOrEqual(need) {
			cost = cost.Add(lot.Quantity.Mul(lot.UnitCost))
			need = need.Sub(lot.Quantity)
			if fromFront {
				remaining = remaining[1:]
			} else {
				remaining = remaining[:len(remaining)-1]
			}
			continue
		}

		// El lote cubre lo que falta: se parte.
		cost = cost.Add(need.Mul(lot.UnitCost))
		remaining[idx].Quantity = lot.Quantity.Sub(need)
		need = decimal.Zero
	}

	return cost, remaining, need
}
