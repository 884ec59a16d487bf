package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/Antriksh1305/kunal-telecom-shop-backend/internal/model"
	"github.com/Antriksh1305/kunal-telecom-shop-backend/internal/repository"
	"github.com/Antriksh1305/kunal-telecom-shop-backend/internal/service"
)

type AccessoryHandler struct {
	catalog service.CatalogService
}

func NewAccessoryHandler(catalog service.CatalogService) *AccessoryHandler {
	return &AccessoryHandler{catalog: catalog}
}

func (h *AccessoryHandler) CreateAccessory(c *fiber.Ctx) error {
	var accessory model.Accessory
	if err := c.BodyParser(&accessory); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.catalog.CreateAccessory(&accessory, getUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Accessory created", "data": accessory})
}

func (h *AccessoryHandler) UpdateAccessory(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid accessory ID"})
	}

	var accessory model.Accessory
	if err := c.BodyParser(&accessory); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.catalog.UpdateAccessory(id, &accessory, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Accessory updated", "data": updated})
}

func (h *AccessoryHandler) DeleteAccessory(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid accessory ID"})
	}

	if err := h.catalog.DeleteAccessory(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Accessory deleted"})
}

func (h *AccessoryHandler) GetAccessory(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid accessory ID"})
	}

	accessory, err := h.catalog.GetAccessory(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(accessory)
}

func (h *AccessoryHandler) GetAccessories(c *fiber.Ctx) error {
	filter := repository.AccessoryFilter{
		Page:         c.QueryInt("page", 1),
		Limit:        c.QueryInt("limit", 10),
		Name:         c.Query("name"),
		HinglishName: c.Query("hinglish_name"),
	}
	if categoryID := c.Query("category_id"); categoryID != "" {
		if id, err := parseUUID(categoryID); err == nil {
			filter.CategoryID = &id
		}
	}
	if minPrice := c.Query("min_price"); minPrice != "" {
		if d, err := decimal.NewFromString(minPrice); err == nil {
			filter.MinPrice = &d
		}
	}
	if maxPrice := c.Query("max_price"); maxPrice != "" {
		if d, err := decimal.NewFromString(maxPrice); err == nil {
			filter.MaxPrice = &d
		}
	}
	if available := c.QueryInt("available", -1); available >= 0 {
		filter.MinAvailable = &available
	}
	if colors := c.Query("color"); colors != "" {
		filter.Colors = strings.Split(colors, ",")
	}

	accessories, total, err := h.catalog.ListAccessories(filter)
	if err != nil {
		return respondError(c, err)
	}

	totalPages := total / int64(filter.Limit)
	if total%int64(filter.Limit) != 0 {
		totalPages++
	}
	return c.JSON(fiber.Map{
		"accessories":  accessories,
		"total":        total,
		"total_pages":  totalPages,
		"current_page": filter.Page,
	})
}
