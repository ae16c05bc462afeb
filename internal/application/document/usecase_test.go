package document_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/document"
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/ledger"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/infrastructure/memory"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture sobre la infraestructura en memoria
// ──────────────────────────────────────────────────────────────────────────────

var docDate = time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)

type fixture struct {
	store       *memory.Store
	uc          *document.UseCase
	companyRepo *memory.CompanyRepo
	movements   *memory.StockMovementRepo
	periods     *memory.AccountingPeriodRepo
	txRunner    *memory.TxRunner

	companyID   string
	productID   string
	product2ID  string
	warehouseID string
}

func newFixture(t *testing.T, policy string) *fixture {
	t.Helper()
	store := memory.NewStore()
	companyRepo := memory.NewCompanyRepository(store)
	productRepo := memory.NewProductRepository(store)
	warehouseRepo := memory.NewWarehouseRepository(store)

	f := &fixture{
		store:       store,
		companyRepo: companyRepo,
		movements:   memory.NewStockMovementRepository(store),
		periods:     memory.NewAccountingPeriodRepository(store),
		txRunner:    memory.NewTxRunner(store),
		companyID:   "co-1",
		productID:   "prod-1",
		product2ID:  "prod-2",
		warehouseID: "wh-1",
	}

	require.NoError(t, companyRepo.Create(&entity.Company{
		ID: f.companyID, Name: "Comercial Andina", NIT: "900123456", ValuationPolicy: policy,
	}))
	require.NoError(t, productRepo.Create(&entity.Product{
		ID: f.productID, CompanyID: f.companyID, SKU: "SKU-1", Name: "Tornillo",
	}))
	require.NoError(t, productRepo.Create(&entity.Product{
		ID: f.product2ID, CompanyID: f.companyID, SKU: "SKU-2", Name: "Tuerca",
	}))
	require.NoError(t, warehouseRepo.Create(&entity.Warehouse{
		ID: f.warehouseID, CompanyID: f.companyID, Name: "Principal",
	}))

	recalc := ledger.NewRecalculator(logger.Nop())
	f.uc = document.NewUseCase(f.txRunner, companyRepo, productRepo, warehouseRepo, recalc, logger.Nop())
	return f
}

// purchase registra una compra de una línea y devuelve la respuesta.
func (f *fixture) purchase(t *testing.T, number, qty, price string, day int) *dto.CommittedDocumentResponse {
	t.Helper()
	resp, err := f.uc.PostPurchase(context.Background(), dto.PostDocumentRequest{
		CompanyID: f.companyID,
		Number:    number,
		Date:      docDate.AddDate(0, 0, day),
		Lines: []dto.DocumentLineInput{{
			ProductID: f.productID, WarehouseID: f.warehouseID,
			Quantity: dec(qty), UnitPrice: dec(price),
		}},
	})
	require.NoError(t, err)
	return resp
}

// sale registra una venta de una línea.
func (f *fixture) sale(t *testing.T, number, qty string, day int) *dto.CommittedDocumentResponse {
	t.Helper()
	resp, err := f.uc.PostSale(context.Background(), dto.PostDocumentRequest{
		CompanyID: f.companyID,
		Number:    number,
		Date:      docDate.AddDate(0, 0, day),
		Lines: []dto.DocumentLineInput{{
			ProductID: f.productID, WarehouseID: f.warehouseID,
			Quantity: dec(qty), UnitPrice: dec("20"),
		}},
	})
	require.NoError(t, err)
	return resp
}

// kardex devuelve los movimientos de la pareja principal en orden total.
func (f *fixture) kardex(t *testing.T) []*entity.StockMovement {
	t.Helper()
	movs, err := f.movements.ListForReplay(f.companyID, f.productID, f.warehouseID, time.Time{})
	require.NoError(t, err)
	return movs
}

// closePeriod cierra el período del día dado.
func (f *fixture) closePeriod(t *testing.T, day int) {
	t.Helper()
	date := docDate.AddDate(0, 0, day)
	require.NoError(t, f.periods.Upsert(&entity.AccountingPeriod{
		ID: "per-1", CompanyID: f.companyID, Year: date.Year(), Month: date.Month(), Closed: true,
	}))
}

// ──────────────────────────────────────────────────────────────────────────────
// Compras
// ──────────────────────────────────────────────────────────────────────────────

func TestPostPurchaseAnnotatesKardex(t *testing.T) {
	f := newFixture(t, entity.PolicyWeightedAverage)

	resp := f.purchase(t, "FC-1", "10", "10", 0)
	require.Len(t, resp.Lines, 1)
	assertDec(t, "100", resp.Total)
	assertDec(t, "10", resp.Lines[0].EffectiveUnitCost)
	assert.Empty(t, resp.Warnings)

	movs := f.kardex(t)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementKindPurchase, movs[0].Kind)
	assertDec(t, "10", movs[0].BalanceQuantity)
	assertDec(t, "100", movs[0].BalanceValue)
}

// El prorrateo y el precio sin IVA quedan reflejados en las líneas y en los
// costos unitarios de los movimientos de entrada.
func TestPostPurchaseProrationAndTax(t *testing.T) {
	f := newFixture(t, entity.PolicyWeightedAverage)

	resp, err := f.uc.PostPurchase(context.Background(), dto.PostDocumentRequest{
		CompanyID:        f.companyID,
		Number:           "FC-2",
		Date:             docDate,
		PricesIncludeTax: true,
		AdditionalCost:   dec("8"),
		Lines: []dto.DocumentLineInput{
			{ProductID: f.productID, WarehouseID: f.warehouseID, Quantity: dec("1"), UnitPrice: dec("35.70"), TaxRate: dec("0.19")},
			{ProductID: f.product2ID, WarehouseID: f.warehouseID, Quantity: dec("1"), UnitPrice: dec("11.90"), TaxRate: dec("0.19")},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Lines, 2)

	// Netos 30 y 10; el costo adicional de 8 se reparte 6 y 2.
	assertDec(t, "36", resp.Lines[0].TotalCost)
	assertDec(t, "12", resp.Lines[1].TotalCost)
	assertDec(t, "48", resp.Total)

	movs := f.kardex(t)
	require.Len(t, movs, 1)
	assertDec(t, "36", movs[0].TotalCost, "el movimiento hereda el costo con prorrateo")
}

func TestPostPurchasePeriodClosed(t *testing.T) {
	f := newFixture(t, entity.PolicyWeightedAverage)
	f.closePeriod(t, 0)

	_, err := f.uc.PostPurchase(context.Background(), dto.PostDocumentRequest{
		CompanyID: f.companyID,
		Number:    "FC-3",
		Date:      docDate,
		Lines: []dto.DocumentLineInput{{
			ProductID: f.productID, WarehouseID: f.warehouseID, Quantity: dec("1"), UnitPrice: dec("10"),
		}},
	})
	require.ErrorIs(t, err, domain.ErrPeriodClosed)
	assert.Empty(t, f.kardex(t), "la transacción debe revertirse completa")
}

func TestPostPurchaseUnknownProduct(t *testing.T) {
	f := newFixture(t, entity.PolicyWeightedAverage)

	_, err := f.uc.PostPurchase(context.Background(), dto.PostDocumentRequest{
		CompanyID: f.companyID,
		Number:    "FC-4",
		Date:      docDate,
		Lines: []dto.DocumentLineInput{{
			ProductID: "prod-fantasma", WarehouseID: f.warehouseID, Quantity: dec("1"), UnitPrice: dec("10"),
		}},
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventas
// ──────────────────────────────────────────────────────────────────────────────

// Escenario promedio ponderado de punta a punta: compra 10@10, compra 5@13,
// venta 6 a costo 11.00.
func TestDocumentFlowWeightedAverage(t *testing.T) {
	f := newFixture(t, entity.PolicyWeightedAverage)

	f.purchase(t, "FC-1", "10", "10", 0)
	f.purchase(t, "FC-2", "5", "13", 1)
	f.sale(t, "FV-1", "6", 2)

	movs := f.kardex(t)
	require.Len(t, movs, 3)
	assertDec(t, "165", movs[1].BalanceValue)
	assertDec(t, "11", movs[2].UnitCost)
	assertDec(t, "66", movs[2].TotalCost)
	assertDec(t, "9", movs[2].BalanceQuantity)
	assertDec(t, "99", movs[2].BalanceValue)
}

func TestDocumentFlowFIFO(t *testing.T) {
	f := newFixture(t, entity.PolicyFIFO)

	f.purchase(t, "FC-1", "10", "10", 0)
	f.purchase(t, "FC-2", "5", "13", 1)
	f.sale(t, "FV-1", "6", 2)

	movs := f.kardex(t)
	require.Len(t, movs, 3)
	assertDec(t, "60", movs[2].TotalCost, "FIFO consume el lote más antiguo")
	assertDec(t, "105", movs[2].BalanceValue)
}

func TestDocumentFlowLIFO(t *testing.T) {
	f := newFixture(t, entity.PolicyLIFO)

	f.purchase(t, "FC-1", "10", "10", 0)
	f.purchase(t, "FC-2", "5", "13", 1)
	f.sale(t, "FV-1", "6", 2)

	movs := f.kardex(t)
	require.Len(t, movs, 3)
	assertDec(t, "75", movs[2].TotalCost, "LIFO consume el lote más reciente primero")
	assertDec(t, "90", movs[2].BalanceValue)
}

// El documento completo se rechaza si una sola línea excede la existencia.
func TestPostSaleInsufficientStock(t *testing.T) {
	f := newFixture(t, entity.PolicyWeightedAverage)
	f.purchase(t, "FC-1", "10", "10", 0)

	_, err := f.uc.PostSale(context.Background(), dto.PostDocumentRequest{
		CompanyID: f.companyID,
		Number:    "FV-1",
		Date:      docDate.AddDate(0, 0, 1),
		Lines: []dto.DocumentLineInput{
			{ProductID: f.productID, WarehouseID: f.warehouseID, Quantity: dec("4"), UnitPrice: dec("20")},
			{ProductID: f.productID, WarehouseID: f.warehouseID, Quantity: dec("7"), UnitPrice: dec("20")},
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock,
		"las cantidades de la misma pareja se agregan antes de comparar")

	assert.Len(t, f.kardex(t), 1, "no debe quedar rastro de la venta rechazada")
}

// La suficiencia se evalúa a la fecha del documento, no a hoy.
func TestPostSaleBackdatedInsufficientStock(t *testing.T) {
	f := newFixture(t, entity.PolicyWeightedAverage)
	f.purchase(t, "FC-1", "10", "10", 5)

	_, err := f.uc.PostSale(context.Background(), dto.PostDocumentRequest{
		CompanyID: f.companyID,
		Number:    "FV-1",
		Date:      docDate, // antes de la compra
		Lines: []dto.DocumentLineInput{{
			ProductID: f.productID, WarehouseID: f.warehouseID, Quantity: dec("1"), UnitPrice: dec("20"),
		}},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ajustes
// ──────────────────────────────────────────────────────────────────────────────

func TestPostAdjustment(t *testing.T) {
	f := newFixture(t, entity.PolicyWeightedAverage)

	_, err := f.uc.PostAdjustment(context.Background(), dto.PostAdjustmentRequest{
		CompanyID: f.companyID, Number: "AJ-1", Date: docDate,
		ProductID: f.productID, WarehouseID: f.warehouseID,
		Quantity: dec("5"), UnitCost: dec("8"),
	})
	require.NoError(t, err)

	_, err = f.uc.PostAdjustment(context.Background(), dto.PostAdjustmentRequest{
		CompanyID: f.companyID, Number: "AJ-2", Date: docDate.AddDate(0, 0, 1),
		ProductID: f.productID, WarehouseID: f.warehouseID,
		Quantity: dec("-3"),
	})
	require.NoError(t, err)

	movs := f.kardex(t)
	require.Len(t, movs, 2)
	assert.Equal(t, entity.MovementKindAdjustmentIn, movs[0].Kind)
	assert.Equal(t, entity.MovementKindAdjustmentOut, movs[1].Kind)

	// La salida se costea al promedio vigente (8.00).
	assertDec(t, "24", movs[1].TotalCost)
	assertDec(t, "2", movs[1].BalanceQuantity)
	assertDec(t, "16", movs[1].BalanceValue)
}

func TestPostAdjustmentZeroQuantity(t *testing.T) {
	f := newFixture(t, entity.PolicyWeightedAverage)

	_, err := f.uc.PostAdjustment(context.Background(), dto.PostAdjustmentRequest{
		CompanyID: f.companyID, Number: "AJ-1", Date: docDate,
		ProductID: f.productID, WarehouseID: f.warehouseID,
		Quantity: decimal.Zero,
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Edición de documentos
// ──────────────────────────────────────────────────────────────────────────────

// Aumentar la cantidad de una línea de compra produce un delta de entrada con
// exactamente la diferencia, y el kardex termina como si la compra hubiera
// sido por la cantidad nueva.
func TestEditPurchaseIncreaseQuantity(t *testing.T) {
	f := newFixture(t, entity.PolicyWeightedAverage)

	created := f.purchase(t, "FC-1", "10", "10", 0)
	lineID := created.Lines[0].LineID

	resp, err := f.uc.EditDocument(context.Background(), created.DocumentID, dto.EditDocumentRequest{
		Lines: []dto.DocumentLineInput{{
			LineID:    lineID,
			ProductID: f.productID, WarehouseID: f.warehouseID,
			Quantity: dec("15"), UnitPrice: dec("10"),
		}},
	})
	require.NoError(t, err)
	require.Len(t, resp.Lines, 1)
	assertDec(t, "150", resp.Total)

	movs := f.kardex(t)
	require.Len(t, movs, 2)
	assert.Equal(t, entity.MovementKindAdjustmentIn, movs[1].Kind)
	assertDec(t, "5", movs[1].QuantityIn)
	assertDec(t, "50", movs[1].TotalCost)
	assertDec(t, "15", movs[1].BalanceQuantity)
	assertDec(t, "150", movs[1].BalanceValue)
}

func TestEditPurchaseDecreaseQuantity(t *testing.T) {
	f := newFixture(t, entity.PolicyWeightedAverage)

	created := f.purchase(t, "FC-1", "10", "10", 0)

	_, err := f.uc.EditDocument(context.Background(), created.DocumentID, dto.EditDocumentRequest{
		Lines: []dto.DocumentLineInput{{
			LineID:    created.Lines[0].LineID,
			ProductID: f.productID, WarehouseID: f.warehouseID,
			Quantity: dec("7"), UnitPrice: dec("10"),
		}},
	})
	require.NoError(t, err)

	movs := f.kardex(t)
	require.Len(t, movs, 2)
	assert.Equal(t, entity.MovementKindAdjustmentOut, movs[1].Kind)
	assertDec(t, "3", movs[1].QuantityOut)
	assertDec(t, "7", movs[1].BalanceQuantity)
	assertDec(t, "70", movs[1].BalanceValue)
}

// Una línea removida se reversa, nunca se borra su movimiento original.
func TestEditPurchaseRemoveLine(t *testing.T) {
	f := newFixture(t, entity.PolicyWeightedAverage)

	created, err := f.uc.PostPurchase(context.Background(), dto.PostDocumentRequest{
		CompanyID: f.companyID,
		Number:    "FC-1",
		Date:      docDate,
		Lines: []dto.DocumentLineInput{
			{ProductID: f.productID, WarehouseID: f.warehouseID, Quantity: dec("10"), UnitPrice: dec("10")},
			{ProductID: f.product2ID, WarehouseID: f.warehouseID, Quantity: dec("4"), UnitPrice: dec("5")},
		},
	})
	require.NoError(t, err)

	keep := created.Lines[0]
	_, err = f.uc.EditDocument(context.Background(), created.DocumentID, dto.EditDocumentRequest{
		Lines: []dto.DocumentLineInput{{
			LineID:    keep.LineID,
			ProductID: f.productID, WarehouseID: f.warehouseID,
			Quantity: dec("10"), UnitPrice: dec("10"),
		}},
	})
	require.NoError(t, err)

	// La pareja del producto removido queda en cero vía reversa.
	removed, err := f.movements.ListForReplay(f.companyID, f.product2ID, f.warehouseID, time.Time{})
	require.NoError(t, err)
	require.Len(t, removed, 2, "movimiento original más su reversa")
	assert.Equal(t, entity.MovementKindPurchaseReturn, removed[1].Kind)
	assert.True(t, removed[1].BalanceQuantity.IsZero())
	assert.True(t, removed[1].BalanceValue.IsZero())
}

// Cambiar la bodega de una línea es remoción en la pareja vieja más adición en
// la nueva.
func TestEditSaleIncreaseBeyondStock(t *testing.T) {
	f := newFixture(t, entity.PolicyWeightedAverage)

	f.purchase(t, "FC-1", "10", "10", 0)
	created := f.sale(t, "FV-1", "6", 1)

	_, err := f.uc.EditDocument(context.Background(), created.DocumentID, dto.EditDocumentRequest{
		Lines: []dto.DocumentLineInput{{
			LineID:    created.Lines[0].LineID,
			ProductID: f.productID, WarehouseID: f.warehouseID,
			Quantity: dec("11"), UnitPrice: dec("20"),
		}},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock,
		"solo el incremento neto se compara contra la existencia")
}

func TestEditSaleDecreaseQuantity(t *testing.T) {
	f := newFixture(t, entity.PolicyWeightedAverage)

	f.purchase(t, "FC-1", "10", "10", 0)
	created := f.sale(t, "FV-1", "6", 1)

	_, err := f.uc.EditDocument(context.Background(), created.DocumentID, dto.EditDocumentRequest{
		Lines: []dto.DocumentLineInput{{
			LineID:    created.Lines[0].LineID,
			ProductID: f.productID, WarehouseID: f.warehouseID,
			Quantity: dec("4"), UnitPrice: dec("20"),
		}},
	})
	require.NoError(t, err)

	movs := f.kardex(t)
	require.Len(t, movs, 3)
	assert.Equal(t, entity.MovementKindAdjustmentIn, movs[2].Kind)
	assertDec(t, "2", movs[2].QuantityIn)

	// Efecto neto: 10 compradas menos 4 vendidas.
	assertDec(t, "6", movs[2].BalanceQuantity)
	assertDec(t, "60", movs[2].BalanceValue)
}

func TestEditAdjustmentRejected(t *testing.T) {
	f := newFixture(t, entity.PolicyWeightedAverage)

	resp, err := f.uc.PostAdjustment(context.Background(), dto.PostAdjustmentRequest{
		CompanyID: f.companyID, Number: "AJ-1", Date: docDate,
		ProductID: f.productID, WarehouseID: f.warehouseID,
		Quantity: dec("5"), UnitCost: dec("8"),
	})
	require.NoError(t, err)

	_, err = f.uc.EditDocument(context.Background(), resp.DocumentID, dto.EditDocumentRequest{
		Lines: []dto.DocumentLineInput{{
			ProductID: f.productID, WarehouseID: f.warehouseID, Quantity: dec("2"), UnitPrice: dec("8"),
		}},
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput,
		"los ajustes se corrigen eliminando y re-registrando")
}

// ──────────────────────────────────────────────────────────────────────────────
// Eliminación de documentos
// ──────────────────────────────────────────────────────────────────────────────

func TestDeleteDocumentReversesHistory(t *testing.T) {
	f := newFixture(t, entity.PolicyWeightedAverage)

	created := f.purchase(t, "FC-1", "10", "10", 0)
	require.NoError(t, f.uc.DeleteDocument(context.Background(), created.DocumentID))

	movs := f.kardex(t)
	require.Len(t, movs, 2, "la historia se cancela con reversas, no se borra")
	assert.Equal(t, entity.MovementKindPurchaseReturn, movs[1].Kind)
	assert.True(t, movs[1].BalanceQuantity.IsZero())
	assert.True(t, movs[1].BalanceValue.IsZero())

	docRepo := memory.NewDocumentRepository(f.store)
	doc, err := docRepo.GetByID(created.DocumentID)
	require.NoError(t, err)
	assert.Nil(t, doc, "el encabezado sí se elimina")
}

// Anular una compra con existencia previa a otro costo re-acredita exactamente
// lo que esa compra debitó: el resto del inventario conserva su valor.
func TestDeleteDocumentMixedCostStock(t *testing.T) {
	for _, policy := range []string{entity.PolicyWeightedAverage, entity.PolicyFIFO, entity.PolicyLIFO} {
		t.Run(policy, func(t *testing.T) {
			f := newFixture(t, policy)

			f.purchase(t, "FC-1", "5", "20", 0)
			second := f.purchase(t, "FC-2", "10", "10", 1)
			require.NoError(t, f.uc.DeleteDocument(context.Background(), second.DocumentID))

			movs := f.kardex(t)
			require.Len(t, movs, 3)

			reversal := movs[2]
			assert.Equal(t, entity.MovementKindPurchaseReturn, reversal.Kind)
			assertDec(t, "100", reversal.TotalCost, "la reversa sale al costo de la compra anulada")
			assertDec(t, "5", reversal.BalanceQuantity)
			assertDec(t, "100", reversal.BalanceValue)

			// La compra que queda no se tocó.
			assertDec(t, "5", movs[0].BalanceQuantity)
			assertDec(t, "100", movs[0].BalanceValue)
		})
	}
}

func TestDeleteDocumentPeriodClosed(t *testing.T) {
	f := newFixture(t, entity.PolicyWeightedAverage)

	created := f.purchase(t, "FC-1", "10", "10", 0)
	f.closePeriod(t, 0)

	err := f.uc.DeleteDocument(context.Background(), created.DocumentID)
	require.ErrorIs(t, err, domain.ErrPeriodClosed)
	assert.Len(t, f.kardex(t), 1)
}

func TestDeleteDocumentNotFound(t *testing.T) {
	f := newFixture(t, entity.PolicyWeightedAverage)
	err := f.uc.DeleteDocument(context.Background(), "doc-fantasma")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Recálculo histórico
// ──────────────────────────────────────────────────────────────────────────────

// Escenario de inserción retroactiva: una compra fechada antes de movimientos
// existentes deja intactos los anteriores a su fecha y reescribe los
// posteriores.
func TestBackdatedPurchaseRecalculates(t *testing.T) {
	f := newFixture(t, entity.PolicyWeightedAverage)

	f.purchase(t, "FC-1", "10", "10", 0)
	f.sale(t, "FV-1", "6", 4)

	// Antes de la inserción la venta sale a 10.00.
	movs := f.kardex(t)
	assertDec(t, "60", movs[1].TotalCost)

	// Compra retroactiva entre ambas.
	f.purchase(t, "FC-2", "5", "13", 2)

	movs = f.kardex(t)
	require.Len(t, movs, 3)

	// El movimiento anterior a la fecha insertada queda intacto.
	assertDec(t, "10", movs[0].BalanceQuantity)
	assertDec(t, "100", movs[0].BalanceValue)

	// La compra insertada y la venta posterior quedan reescritas.
	assertDec(t, "165", movs[1].BalanceValue)
	assertDec(t, "11", movs[2].UnitCost)
	assertDec(t, "66", movs[2].TotalCost)
	assertDec(t, "99", movs[2].BalanceValue)
}

// La inserción retroactiva reconstruye también las colas de lotes FIFO.
func TestBackdatedPurchaseRecalculatesFIFO(t *testing.T) {
	f := newFixture(t, entity.PolicyFIFO)

	f.purchase(t, "FC-1", "5", "13", 2)
	f.sale(t, "FV-1", "4", 4)

	movs := f.kardex(t)
	assertDec(t, "52", movs[1].TotalCost)

	// La compra retroactiva pasa a ser el lote más antiguo: la venta debe
	// recostearse contra él.
	f.purchase(t, "FC-2", "10", "10", 0)

	movs = f.kardex(t)
	require.Len(t, movs, 3)
	assertDec(t, "40", movs[2].TotalCost, "la venta consume ahora el lote de 10.00")
	assertDec(t, "11", movs[2].BalanceQuantity)
	assertDec(t, "125", movs[2].BalanceValue)
}

// El recálculo global es idempotente y coincide con el incremental.
func TestRecalculateCompanyIdempotent(t *testing.T) {
	for _, policy := range []string{entity.PolicyWeightedAverage, entity.PolicyFIFO, entity.PolicyLIFO} {
		t.Run(policy, func(t *testing.T) {
			f := newFixture(t, policy)

			f.purchase(t, "FC-1", "10", "10", 0)
			f.purchase(t, "FC-2", "5", "13", 1)
			f.sale(t, "FV-1", "6", 2)

			before := snapshotCosting(f.kardex(t))

			recalcUC := ledger.NewRecalculateCompanyUseCase(
				f.txRunner, f.companyRepo, ledger.NewRecalculator(logger.Nop()), logger.Nop(),
			)
			_, err := recalcUC.Execute(context.Background(), f.companyID)
			require.NoError(t, err)
			assert.Equal(t, before, snapshotCosting(f.kardex(t)),
				"el recálculo global no debe alterar un kardex consistente")

			_, err = recalcUC.Execute(context.Background(), f.companyID)
			require.NoError(t, err)
			assert.Equal(t, before, snapshotCosting(f.kardex(t)), "dos corridas, mismos campos")
		})
	}
}

// snapshotCosting captura los campos de costeo para comparar corridas.
func snapshotCosting(movs []*entity.StockMovement) []string {
	out := make([]string, 0, len(movs))
	for _, m := range movs {
		out = append(out, m.ID+"|"+m.UnitCost.String()+"|"+m.TotalCost.String()+
			"|"+m.BalanceQuantity.String()+"|"+m.BalanceValue.String())
	}
	return out
}
