package valuation

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// Escalas de redondeo del motor. Cantidades y dinero a 2 decimales; el costo
// unitario intermedio conserva 6 para no degradar el prorrateo ni el promedio.
// El redondeo (mitad hacia arriba) se aplica una sola vez por movimiento.
const (
	QuantityScale = 2
	MoneyScale    = 2
	UnitCostScale = 6
)

// State es el estado de valuación de una pareja (producto, bodega) en un
// punto del kardex: existencia, valor y lotes vivos. Es el estado de apertura
// de un corte y el de cierre del corte anterior.
type State struct {
	Quantity decimal.Decimal
	Value    decimal.Decimal
	Lots     []Lot
}

// Clone copia el estado (los lotes no se comparten).
func (s State) Clone() State {
	return State{Quantity: s.Quantity, Value: s.Value, Lots: cloneLots(s.Lots)}
}

// Razones de advertencia de costeo degenerado.
const (
	WarnZeroBalanceOutflow = "ZERO_BALANCE_OUTFLOW" // salida con existencia cero o negativa
	WarnLotShortfall       = "LOT_SHORTFALL"        // lotes agotados antes de cubrir la salida
)

// Warning señala una salida costeada (total o parcialmente) a costo cero por
// falta de existencia registrada. No es un error: la historia del sistema
// origen lo permite; se registra en el log y se reporta al llamador.
type Warning struct {
	MovementID string
	Seq        int64
	Reason     string
	Quantity   decimal.Decimal // cantidad que quedó costeada a cero
}

// Valuate reproduce movements (ya ordenados por el orden total del kardex)
// partiendo de opening, anota en cada movimiento su costo unitario, costo
// total y saldos resultantes, y devuelve el estado de cierre para encadenar
// el siguiente corte.
//
// Entradas: el costo unitario es autoritativo (viene del documento origen) y
// se agrega un lote. Salidas: el costo se deriva según la política y se
// reescribe en cada recálculo; nunca lo aporta el llamador. Reversas: el costo
// es autoritativo en ambas direcciones, re-acreditan o re-debitan exactamente
// lo que el movimiento reversado registró.
func Valuate(policy string, movements []*entity.StockMovement, opening State) (State, []Warning) {
	state := opening.Clone()
	var warnings []Warning
	applied := make(map[string]appliedCost)

	for _, m := range movements {
		refreshReversalCost(m, applied)
		if m.IsInflow() {
			applyInflow(&state, m, policy)
		} else if w := applyOutflow(&state, m, policy); w != nil {
			warnings = append(warnings, *w)
		}
		applied[m.ID] = appliedCost{unit: m.UnitCost, total: m.TotalCost}
	}

	return state, warnings
}

// Seed reproduce movements solo para reconstruir el estado (en particular las
// colas de lotes FIFO/LIFO) sin tocar las anotaciones persistidas. Lo usa el
// recálculo para obtener el estado de apertura en una fecha de corte.
func Seed(policy string, movements []*entity.StockMovement, opening State) State {
	state := opening.Clone()
	applied := make(map[string]appliedCost)
	for _, m := range movements {
		copia := *m
		refreshReversalCost(&copia, applied)
		if copia.IsInflow() {
			applyInflow(&state, &copia, policy)
		} else {
			applyOutflow(&state, &copia, policy)
		}
		applied[copia.ID] = appliedCost{unit: copia.UnitCost, total: copia.TotalCost}
	}
	return state
}

// appliedCost es el costo anotado a un movimiento ya procesado en el corte.
type appliedCost struct {
	unit  decimal.Decimal
	total decimal.Decimal
}

// refreshReversalCost alinea el costo de una reversa con el costo recién
// calculado del movimiento que cancela, cuando ambos caen en el mismo corte.
// Si el movimiento reversado quedó antes del corte, vale el costo persistido
// en la reversa al momento de crearla.
func refreshReversalCost(m *entity.StockMovement, applied map[string]appliedCost) {
	if m.ReversalOfID == "" {
		return
	}
	if c, ok := applied[m.ReversalOfID]; ok {
		m.UnitCost = c.unit
		m.TotalCost = c.total
	}
}

// applyInflow agrega la entrada al estado y anota el movimiento.
func applyInflow(state *State, m *entity.StockMovement, policy string) {
	qty := m.QuantityIn.Round(QuantityScale)
	unit := m.UnitCost.Round(UnitCostScale)

	// El costo total de una entrada es autoritativo si el documento lo trae;
	// si no, se deriva del unitario.
	value := m.TotalCost.Round(MoneyScale)
	if value.IsZero() && !qty.IsZero() {
		value = qty.Mul(unit).Round(MoneyScale)
	}

	state.Quantity = state.Quantity.Add(qty)
	state.Value = state.Value.Add(value)
	if policy != entity.PolicyWeightedAverage {
		state.Lots = append(state.Lots, Lot{Quantity: qty, UnitCost: unit})
	}
	clamp(state)

	m.QuantityIn = qty
	m.UnitCost = unit
	m.TotalCost = value
	m.BalanceQuantity = state.Quantity
	m.BalanceValue = state.Value
}

// applyOutflow descuenta la salida del estado según la política, anota el
// movimiento y devuelve la advertencia de costeo degenerado si aplica.
func applyOutflow(state *State, m *entity.StockMovement, policy string) *Warning {
	if m.ReversalOfID != "" {
		return applyReversalOutflow(state, m, policy)
	}

	qty := m.QuantityOut.Round(QuantityScale)

	var unit, total decimal.Decimal
	var warning *Warning

	switch policy {
	case entity.PolicyFIFO, entity.PolicyLIFO:
		cost, remaining, shortfall := consumeLots(state.Lots, qty, policy == entity.PolicyFIFO)
		total = cost.Round(MoneyScale)
		if !qty.IsZero() {
			unit = total.DivRound(qty, UnitCostScale)
		}
		// Los totales se recalculan desde los lotes restantes, no por resta
		// directa, para evitar deriva acumulada.
		state.Lots = remaining
		state.Quantity = lotsQuantity(remaining)
		state.Value = lotsValue(remaining).Round(MoneyScale)
		if shortfall.IsPositive() {
			warning = &Warning{MovementID: m.ID, Seq: m.Seq, Reason: WarnLotShortfall, Quantity: shortfall}
		}

	default: // promedio ponderado
		if state.Quantity.IsPositive() {
			unit = state.Value.DivRound(state.Quantity, UnitCostScale)
		} else {
			// Salida contra existencia cero o negativa: costo cero.
			warning = &Warning{MovementID: m.ID, Seq: m.Seq, Reason: WarnZeroBalanceOutflow, Quantity: qty}
		}
		total = qty.Mul(unit).Round(MoneyScale)
		state.Quantity = state.Quantity.Sub(qty)
		state.Value = state.Value.Sub(total)
	}

	clamp(state)

	m.QuantityOut = qty
	m.UnitCost = unit
	m.TotalCost = total
	m.BalanceQuantity = state.Quantity
	m.BalanceValue = state.Value
	return warning
}

// applyReversalOutflow descuenta la reversa de una entrada. El costo no se
// deriva por política: la reversa re-acredita exactamente lo que la entrada
// reversada debitó. En FIFO/LIFO se retira el lote a ese costo unitario, no
// el del frente de consumo.
func applyReversalOutflow(state *State, m *entity.StockMovement, policy string) *Warning {
	qty := m.QuantityOut.Round(QuantityScale)
	unit := m.UnitCost.Round(UnitCostScale)
	total := m.TotalCost.Round(MoneyScale)
	if total.IsZero() && !qty.IsZero() {
		total = qty.Mul(unit).Round(MoneyScale)
	}

	var warning *Warning

	switch policy {
	case entity.PolicyFIFO, entity.PolicyLIFO:
		remaining, shortfall := removeLotAt(state.Lots, qty, unit, policy == entity.PolicyFIFO)
		state.Lots = remaining
		state.Quantity = lotsQuantity(remaining)
		state.Value = lotsValue(remaining).Round(MoneyScale)
		if shortfall.IsPositive() {
			warning = &Warning{MovementID: m.ID, Seq: m.Seq, Reason: WarnLotShortfall, Quantity: shortfall}
		}

	default: // promedio ponderado
		if !state.Quantity.IsPositive() {
			warning = &Warning{MovementID: m.ID, Seq: m.Seq, Reason: WarnZeroBalanceOutflow, Quantity: qty}
		}
		state.Quantity = state.Quantity.Sub(qty)
		state.Value = state.Value.Sub(total)
	}

	clamp(state)

	m.QuantityOut = qty
	m.UnitCost = unit
	m.TotalCost = total
	m.BalanceQuantity = state.Quantity
	m.BalanceValue = state.Value
	return warning
}

// clamp fuerza a cero los saldos negativos. Política documental heredada del
// sistema origen: la evidencia de inventario negativo se descarta en el saldo
// (la advertencia de costeo queda como rastro).
func clamp(state *State) {
	if state.Quantity.IsNegative() {
		state.Quantity = decimal.Zero
	}
	if state.Value.IsNegative() {
		state.Value = decimal.Zero
	}
}
