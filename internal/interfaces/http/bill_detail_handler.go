package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/codecai/factu-core/internal/application/billing"
	"github.com/codecai/factu-core/internal/application/dto"
)

// BillDetailHandler líneas de factura. Toda mutación recalcula el grandTotal.
type BillDetailHandler struct {
	uc *billing.BillDetailUseCase
}

// NewBillDetailHandler construye el handler.
func NewBillDetailHandler(uc *billing.BillDetailUseCase) *BillDetailHandler {
	return &BillDetailHandler{uc: uc}
}

// Create godoc
// @Summary      Crear línea de factura
// @Description  totalItem es opcional; por defecto amount * itemPrice. Recalcula el grandTotal de la factura.
// @Tags         bill-details
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBillDetailRequest  true  "línea"
// @Success      201   {object}  dto.BillDetailResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /bill-details [post]
func (h *BillDetailHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBillDetailRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *BillDetailHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(list)
}

// ListByBill GET /bill-details/bill/:billId
func (h *BillDetailHandler) ListByBill(c *fiber.Ctx) error {
	billID, err := paramID(c, "billId")
	if err != nil {
		return err
	}
	list, err := h.uc.ListByBill(c.UserContext(), billID)
	if err != nil {
		return err
	}
	return c.JSON(list)
}

func (h *BillDetailHandler) GetByID(c *fiber.Ctx) error {
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

// Update PATCH /bill-details/:id. Si cambia billId se recalculan ambas facturas.
func (h *BillDetailHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in dto.UpdateBillDetailRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (h *BillDetailHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "detalle eliminado correctamente"})
}
