package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/codecai/factu-core/internal/application/billing"
	"github.com/codecai/factu-core/internal/application/dto"
)

// BillHandler facturas (cabecera) y su PDF.
type BillHandler struct {
	uc  *billing.BillUseCase
	pdf *billing.PDFUseCase
}

// NewBillHandler construye el handler.
func NewBillHandler(uc *billing.BillUseCase, pdf *billing.PDFUseCase) *BillHandler {
	return &BillHandler{uc: uc, pdf: pdf}
}

// Create godoc
// @Summary      Crear factura
// @Tags         bill
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBillRequest  true  "billNumber, date, userId, grandTotal opcional"
// @Success      201   {object}  dto.BillResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /bill [post]
func (h *BillHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBillRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /bill, más recientes primero.
func (h *BillHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(list)
}

// ListByUser GET /bill/user/:userId
func (h *BillHandler) ListByUser(c *fiber.Ctx) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return err
	}
	list, err := h.uc.ListByUser(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(list)
}

// GetByNumber GET /bill/bill-number/:billNumber
func (h *BillHandler) GetByNumber(c *fiber.Ctx) error {
	out, err := h.uc.GetByNumber(c.UserContext(), c.Params("billNumber"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetByID GET /bill/:id
func (h *BillHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update PATCH /bill/:id. grandTotal no es editable.
func (h *BillHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in dto.UpdateBillRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete DELETE /bill/:id (borra también sus detalles)
func (h *BillHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "factura eliminada correctamente"})
}

// DownloadPDF godoc
// @Summary      Descargar PDF de la factura
// @Tags         bill
// @Produce      application/pdf
// @Param        id   path  int  true  "ID de la factura"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /bill/{id}/pdf [get]
func (h *BillHandler) DownloadPDF(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	pdfBytes, filename, err := h.pdf.DownloadBillPDF(c.UserContext(), id)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdfBytes)
}
