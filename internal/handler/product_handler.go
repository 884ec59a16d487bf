package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/Antriksh1305/kunal-telecom-shop-backend/internal/model"
	"github.com/Antriksh1305/kunal-telecom-shop-backend/internal/repository"
	"github.com/Antriksh1305/kunal-telecom-shop-backend/internal/service"
)

type ProductHandler struct {
	catalog service.CatalogService
}

func NewProductHandler(catalog service.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.catalog.CreateProduct(&product, getUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.catalog.UpdateProduct(id, &product, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": updated})
}

func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	if err := h.catalog.DeleteProduct(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	product, err := h.catalog.GetProduct(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	filter := repository.ProductFilter{
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
	if variants := c.Query("variant"); variants != "" {
		filter.Variants = strings.Split(variants, ",")
	}

	products, total, err := h.catalog.ListProducts(filter)
	if err != nil {
		return respondError(c, err)
	}

	totalPages := total / int64(filter.Limit)
	if total%int64(filter.Limit) != 0 {
		totalPages++
	}
	return c.JSON(fiber.Map{
		"products":     products,
		"total":        total,
		"total_pages":  totalPages,
		"current_page": filter.Page,
	})
}
