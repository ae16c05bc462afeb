package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/document"
	"github.com/jhoicas/kardex-api/internal/application/ledger"
	"github.com/jhoicas/kardex-api/internal/application/usecase"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/kardex-api/internal/interfaces/http"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testCompanyID   = "00000000-0000-0000-0000-000000000001"
	testProductID   = "00000000-0000-0000-0000-000000000002"
	testWarehouseID = "00000000-0000-0000-0000-000000000003"
)

// buildTestApp arma la aplicación completa sobre la infraestructura en
// memoria, con catálogo mínimo sembrado.
func buildTestApp(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	companyRepo := memory.NewCompanyRepository(store)
	productRepo := memory.NewProductRepository(store)
	warehouseRepo := memory.NewWarehouseRepository(store)
	periodRepo := memory.NewAccountingPeriodRepository(store)
	movementRepo := memory.NewStockMovementRepository(store)
	txRunner := memory.NewTxRunner(store)

	require.NoError(t, companyRepo.Create(&entity.Company{
		ID: testCompanyID, Name: "Demo", NIT: "900000000", ValuationPolicy: entity.PolicyWeightedAverage,
	}))
	require.NoError(t, productRepo.Create(&entity.Product{
		ID: testProductID, CompanyID: testCompanyID, SKU: "SKU-1", Name: "Demo",
	}))
	require.NoError(t, warehouseRepo.Create(&entity.Warehouse{
		ID: testWarehouseID, CompanyID: testCompanyID, Name: "Principal",
	}))

	log := logger.Nop()
	recalc := ledger.NewRecalculator(log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		CompanyUC:   usecase.NewCompanyUseCase(companyRepo),
		PeriodUC:    usecase.NewPeriodUseCase(companyRepo, periodRepo),
		ProductUC:   usecase.NewProductUseCase(productRepo),
		WarehouseUC: usecase.NewWarehouseUseCase(warehouseRepo),
		DocumentUC:  document.NewUseCase(txRunner, companyRepo, productRepo, warehouseRepo, recalc, log),
		LedgerUC:    ledger.NewQueryUseCase(movementRepo, productRepo, warehouseRepo),
		RecalcUC:    ledger.NewRecalculateCompanyUseCase(txRunner, companyRepo, recalc, log),
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp, decoded
}

func purchaseBody(qty, price string) map[string]any {
	return map[string]any{
		"company_id": testCompanyID,
		"number":     "FC-" + qty,
		"date":       time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC),
		"lines": []map[string]any{{
			"product_id":   testProductID,
			"warehouse_id": testWarehouseID,
			"quantity":     qty,
			"unit_price":   price,
		}},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Rutas de documentos
// ──────────────────────────────────────────────────────────────────────────────

func TestPostPurchaseEndpoint(t *testing.T) {
	app := buildTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/api/documents/purchases", purchaseBody("10", "10"))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, body["document_id"])
	assert.Equal(t, "PURCHASE", body["kind"])
}

func TestPostSaleInsufficientStockEndpoint(t *testing.T) {
	app := buildTestApp(t)

	saleBody := map[string]any{
		"company_id": testCompanyID,
		"number":     "FV-1",
		"date":       time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC),
		"lines": []map[string]any{{
			"product_id":   testProductID,
			"warehouse_id": testWarehouseID,
			"quantity":     "5",
			"unit_price":   "20",
		}},
	}
	resp, body := doJSON(t, app, http.MethodPost, "/api/documents/sales", saleBody)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])
}

func TestPostPurchasePeriodClosedEndpoint(t *testing.T) {
	app := buildTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPut, "/api/companies/"+testCompanyID+"/periods", map[string]any{
		"year": 2025, "month": 5, "closed": true,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodPost, "/api/documents/purchases", purchaseBody("10", "10"))
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "PERIOD_CLOSED", body["code"])
}

func TestDeleteDocumentNotFoundEndpoint(t *testing.T) {
	app := buildTestApp(t)

	resp, body := doJSON(t, app, http.MethodDelete, "/api/documents/doc-fantasma", nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Kardex y recálculo
// ──────────────────────────────────────────────────────────────────────────────

func TestLedgerEndpoint(t *testing.T) {
	app := buildTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/documents/purchases", purchaseBody("10", "10"))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet,
		"/api/ledger?company_id="+testCompanyID+"&product_id="+testProductID+"&warehouse_id="+testWarehouseID, nil)
	res, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, res.StatusCode)

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal(raw, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "PURCHASE", rows[0]["kind"])
}

func TestLedgerEndpointBadDate(t *testing.T) {
	app := buildTestApp(t)

	req := httptest.NewRequest(http.MethodGet,
		"/api/ledger?company_id=x&product_id=y&warehouse_id=z&date_from=ayer", nil)
	res, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
}

func TestRecalculateEndpoint(t *testing.T) {
	app := buildTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/documents/purchases", purchaseBody("10", "10"))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodPost, "/api/companies/"+testCompanyID+"/recalculate", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	_, hasWarnings := body["warnings"]
	assert.True(t, hasWarnings)
}

func TestCreateCompanyInvalidPolicy(t *testing.T) {
	app := buildTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/api/companies/", map[string]any{
		"name": "Nueva", "nit": "901", "valuation_policy": "PROMEDIO",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body["code"])
}
