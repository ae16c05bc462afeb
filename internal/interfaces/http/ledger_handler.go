package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/ledger"
)

// LedgerHandler expone la consulta del kardex anotado.
type LedgerHandler struct {
	uc *ledger.QueryUseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(uc *ledger.QueryUseCase) *LedgerHandler {
	return &LedgerHandler{uc: uc}
}

// GetSlice devuelve los movimientos de una pareja producto-bodega en un rango
// de fechas. Fechas en formato YYYY-MM-DD; vacías significan sin límite.
func (h *LedgerHandler) GetSlice(c *fiber.Ctx) error {
	req := dto.LedgerSliceRequest{
		CompanyID:   c.Query("company_id"),
		ProductID:   c.Query("product_id"),
		WarehouseID: c.Query("warehouse_id"),
	}

	var err error
	if req.DateFrom, err = parseDate(c.Query("date_from")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date_from inválido, use YYYY-MM-DD"})
	}
	if req.DateTo, err = parseDate(c.Query("date_to")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date_to inválido, use YYYY-MM-DD"})
	}

	out, err := h.uc.GetLedgerSlice(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// parseDate acepta YYYY-MM-DD o RFC3339; vacío devuelve el cero de time.Time.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
