package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/ledger"
	"github.com/jhoicas/kardex-api/internal/application/usecase"
)

// CompanyHandler maneja las peticiones HTTP para Company.
type CompanyHandler struct {
	uc       *usecase.CompanyUseCase
	periodUC *usecase.PeriodUseCase
	recalcUC *ledger.RecalculateCompanyUseCase
}

// NewCompanyHandler construye el handler.
func NewCompanyHandler(uc *usecase.CompanyUseCase, periodUC *usecase.PeriodUseCase, recalcUC *ledger.RecalculateCompanyUseCase) *CompanyHandler {
	return &CompanyHandler{uc: uc, periodUC: periodUC, recalcUC: recalcUC}
}

// Create crea una empresa con su política de valuación.
func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID obtiene una empresa por ID.
func (h *CompanyHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	out, err := h.uc.GetByID(id)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "empresa no encontrada"})
	}
	return c.JSON(out)
}

// List lista empresas.
func (h *CompanyHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SetPeriod abre o cierra un período contable de la empresa.
func (h *CompanyHandler) SetPeriod(c *fiber.Ctx) error {
	companyID := c.Params("id")
	var in dto.SetPeriodRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.periodUC.Set(companyID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Recalculate reconstruye costos y saldos de todo el kardex de la empresa.
// Operación idempotente; puede tardar en empresas con mucho historial.
func (h *CompanyHandler) Recalculate(c *fiber.Ctx) error {
	companyID := c.Params("id")
	warnings, err := h.recalcUC.Execute(c.UserContext(), companyID)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.CostWarningDTO, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, dto.CostWarningDTO{MovementID: w.MovementID, Reason: w.Reason, Quantity: w.Quantity})
	}
	return c.JSON(fiber.Map{"warnings": out})
}
