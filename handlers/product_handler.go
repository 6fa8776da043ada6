package handlers

import (
	"math"
	"strconv"
	"strings"

	"github.com/voyago/travel_commerce/database"
	"github.com/voyago/travel_commerce/models"
	"github.com/gofiber/fiber/v2"
)

// The product catalog is read-only from this service's point of view:
// bundles reference it, nothing here writes to it.

func ListProducts(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := database.DB.Model(&models.Product{})
	countQuery := database.DB.Model(&models.Product{})

	if productType := c.Query("type"); productType != "" {
		query = query.Where("type = ?", productType)
		countQuery = countQuery.Where("type = ?", productType)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		searchTerm := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ?", searchTerm)
		countQuery = countQuery.Where("LOWER(name) LIKE ?", searchTerm)
	}

	var products []models.Product
	var totalProducts int64

	countQuery.Count(&totalProducts)
	if err := query.Offset(offset).Limit(limit).Order("id").Find(&products).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch products"})
	}

	return c.JSON(fiber.Map{
		"data": products,
		"meta": fiber.Map{
			"total_products": totalProducts,
			"total_pages":    int(math.Ceil(float64(totalProducts) / float64(limit))),
			"current_page":   page,
		},
	})
}

func GetProduct(c *fiber.Ctx) error {
	productID := c.Params("productId")
	var product models.Product
	if err := database.DB.First(&product, "id = ?", productID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
	}
	return c.JSON(product)
}
