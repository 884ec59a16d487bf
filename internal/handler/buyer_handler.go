package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Antriksh1305/kunal-telecom-shop-backend/internal/model"
	"github.com/Antriksh1305/kunal-telecom-shop-backend/internal/service"
)

type BuyerHandler struct {
	buyers service.BuyerService
}

func NewBuyerHandler(buyers service.BuyerService) *BuyerHandler {
	return &BuyerHandler{buyers: buyers}
}

func (h *BuyerHandler) CreateBuyer(c *fiber.Ctx) error {
	var buyer model.Buyer
	if err := c.BodyParser(&buyer); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.buyers.CreateBuyer(&buyer, getUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Buyer created successfully", "buyer_id": buyer.ID})
}

func (h *BuyerHandler) UpdateBuyer(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("buyerId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid buyer ID"})
	}

	var update service.BuyerUpdate
	if err := c.BodyParser(&update); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.buyers.UpdateBuyer(id, update, getUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Buyer updated successfully"})
}

func (h *BuyerHandler) ToggleActive(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("buyerId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid buyer ID"})
	}

	if err := h.buyers.ToggleActive(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Buyer status updated successfully"})
}

func (h *BuyerHandler) GetBuyer(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("buyerId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid buyer ID"})
	}

	buyer, err := h.buyers.GetBuyer(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(buyer)
}

func (h *BuyerHandler) GetActiveBuyers(c *fiber.Ctx) error {
	buyers, err := h.buyers.ListBuyersByActive(true)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"buyers": buyers})
}

func (h *BuyerHandler) GetInactiveBuyers(c *fiber.Ctx) error {
	buyers, err := h.buyers.ListBuyersByActive(false)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"buyers": buyers})
}

func (h *BuyerHandler) GetAllBuyers(c *fiber.Ctx) error {
	buyers, err := h.buyers.ListBuyers()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"buyers": buyers})
}
