package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Antriksh1305/kunal-telecom-shop-backend/internal/model"
	"github.com/Antriksh1305/kunal-telecom-shop-backend/internal/service"
)

type CategoryHandler struct {
	catalog service.CatalogService
}

func NewCategoryHandler(catalog service.CatalogService) *CategoryHandler {
	return &CategoryHandler{catalog: catalog}
}

func (h *CategoryHandler) CreateProductCategory(c *fiber.Ctx) error {
	var category model.ProductCategory
	if err := c.BodyParser(&category); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.catalog.CreateProductCategory(&category, getUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Category created", "data": category})
}

func (h *CategoryHandler) DeleteProductCategory(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid category ID"})
	}

	if err := h.catalog.DeleteProductCategory(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Category and its products deleted"})
}

func (h *CategoryHandler) GetProductCategories(c *fiber.Ctx) error {
	categories, err := h.catalog.ListProductCategories()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"categories": categories})
}

func (h *CategoryHandler) CreateAccessoryCategory(c *fiber.Ctx) error {
	var category model.AccessoryCategory
	if err := c.BodyParser(&category); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.catalog.CreateAccessoryCategory(&category, getUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Category created", "data": category})
}

func (h *CategoryHandler) DeleteAccessoryCategory(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid category ID"})
	}

	if err := h.catalog.DeleteAccessoryCategory(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Category and its accessories deleted"})
}

func (h *CategoryHandler) GetAccessoryCategories(c *fiber.Ctx) error {
	categories, err := h.catalog.ListAccessoryCategories()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"categories": categories})
}
