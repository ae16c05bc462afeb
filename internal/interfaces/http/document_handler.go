package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/kardex-api/internal/application/document"
	"github.com/jhoicas/kardex-api/internal/application/dto"
)

// DocumentHandler maneja compras, ventas, ajustes y la edición y anulación de
// documentos. Toda mutación recalcula los costos de los pares afectados dentro
// de la misma transacción; la respuesta incluye las advertencias de costeo.
type DocumentHandler struct {
	uc *document.UseCase
}

// NewDocumentHandler construye el handler.
func NewDocumentHandler(uc *document.UseCase) *DocumentHandler {
	return &DocumentHandler{uc: uc}
}

// PostPurchase registra una compra (entradas de inventario).
func (h *DocumentHandler) PostPurchase(c *fiber.Ctx) error {
	var in dto.PostDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.PostPurchase(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// PostSale registra una venta (salidas de inventario, costo derivado).
func (h *DocumentHandler) PostSale(c *fiber.Ctx) error {
	var in dto.PostDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.PostSale(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// PostAdjustment registra un ajuste manual de una línea. El signo de la
// cantidad define la dirección.
func (h *DocumentHandler) PostAdjustment(c *fiber.Ctx) error {
	var in dto.PostAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.PostAdjustment(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Edit reemplaza el conjunto de líneas de un documento. Las diferencias se
// materializan como reversas, adiciones o ajustes delta en el kardex.
func (h *DocumentHandler) Edit(c *fiber.Ctx) error {
	var in dto.EditDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.EditDocument(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete anula un documento reversando todos sus movimientos. El historial del
// kardex conserva tanto los movimientos originales como sus reversas.
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteDocument(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
