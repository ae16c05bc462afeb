package document

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain/valuation"
)

// PricedLine es el resultado del costeo de una línea: precio sin IVA,
// subtotal, prorrateo de costo adicional y costo unitario efectivo.
type PricedLine struct {
	Input             dto.DocumentLineInput
	NetUnitPrice      decimal.Decimal // precio sin IVA, 6 decimales
	Subtotal          decimal.Decimal // cantidad × precio neto, 2 decimales
	ProratedShare     decimal.Decimal // porción del costo adicional, 2 decimales
	TotalCost         decimal.Decimal // subtotal + prorrateo, 2 decimales
	EffectiveUnitCost decimal.Decimal // costo total / cantidad, 6 decimales
}

var one = decimal.NewFromInt(1)

// PriceLines calcula los montos de las líneas de un documento.
//
// El precio sin impuesto sale de dividir el digitado entre (1 + tasa) cuando
// los precios traen IVA incluido, o se usa directo en caso contrario. El costo
// adicional del documento (fletes, aduana...) se distribuye en proporción al
// subtotal de cada línea; la base del prorrateo se fija una sola vez sobre el
// conjunto final de líneas y la última línea absorbe el residuo de redondeo
// para que las porciones sumen exactamente el costo adicional.
func PriceLines(lines []dto.DocumentLineInput, pricesIncludeTax bool, additionalCost decimal.Decimal) []PricedLine {
	priced := make([]PricedLine, len(lines))
	base := decimal.Zero

	for i, in := range lines {
		net := in.UnitPrice
		if pricesIncludeTax {
			net = in.UnitPrice.DivRound(one.Add(in.TaxRate), valuation.UnitCostScale)
		} else {
			net = net.Round(valuation.UnitCostScale)
		}
		qty := in.Quantity.Round(valuation.QuantityScale)
		subtotal := qty.Mul(net).Round(valuation.MoneyScale)

		priced[i] = PricedLine{Input: in, NetUnitPrice: net, Subtotal: subtotal}
		base = base.Add(subtotal)
	}

	assigned := decimal.Zero
	for i := range priced {
		share := decimal.Zero
		if additionalCost.IsPositive() && base.IsPositive() {
			if i == len(priced)-1 {
				share = additionalCost.Sub(assigned)
			} else {
				share = additionalCost.Mul(priced[i].Subtotal).DivRound(base, valuation.MoneyScale)
				assigned = assigned.Add(share)
			}
		}
		priced[i].ProratedShare = share
		priced[i].TotalCost = priced[i].Subtotal.Add(share)

		qty := priced[i].Input.Quantity.Round(valuation.QuantityScale)
		if qty.IsPositive() {
			priced[i].EffectiveUnitCost = priced[i].TotalCost.DivRound(qty, valuation.UnitCostScale)
		}
	}

	return priced
}
