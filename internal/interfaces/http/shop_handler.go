package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/codecai/factu-core/internal/application/dto"
	"github.com/codecai/factu-core/internal/application/usecase"
)

// ShopHandler tiendas y asignación de usuarios.
type ShopHandler struct {
	uc *usecase.ShopUseCase
}

// NewShopHandler construye el handler.
func NewShopHandler(uc *usecase.ShopUseCase) *ShopHandler {
	return &ShopHandler{uc: uc}
}

// Create godoc
// @Summary      Crear tienda (opcionalmente con usuarios asignados)
// @Tags         shops
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateShopRequest  true  "datos de la tienda"
// @Success      201   {object}  dto.ShopResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /shops [post]
func (h *ShopHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateShopRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /shops (solo activas)
func (h *ShopHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(list)
}

// Mine GET /shops/my-shops
func (h *ShopHandler) Mine(c *fiber.Ctx) error {
	list, err := h.uc.ListByUser(c.UserContext(), GetPrincipal(c).UserID)
	if err != nil {
		return err
	}
	return c.JSON(list)
}

// GetByID GET /shops/:id (con usuarios asignados)
func (h *ShopHandler) GetByID(c *fiber.Ctx) error {
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

// Update PATCH /shops/:id
func (h *ShopHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in dto.UpdateShopRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// AssignUsers POST /shops/:id/assign-users: reemplaza el conjunto completo.
func (h *ShopHandler) AssignUsers(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in dto.AssignUsersRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.AssignUsers(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// RemoveUser DELETE /shops/:shopId/users/:userId
func (h *ShopHandler) RemoveUser(c *fiber.Ctx) error {
	shopID, err := paramID(c, "shopId")
	if err != nil {
		return err
	}
	userID, err := paramID(c, "userId")
	if err != nil {
		return err
	}
	if err := h.uc.RemoveUser(c.UserContext(), shopID, userID); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "usuario removido de la tienda correctamente"})
}

// SoftDelete DELETE /shops/:id
func (h *ShopHandler) SoftDelete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.uc.SoftDelete(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "tienda desactivada correctamente"})
}

// HardDelete DELETE /shops/:id/permanent
func (h *ShopHandler) HardDelete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.uc.HardDelete(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "tienda eliminada permanentemente"})
}
