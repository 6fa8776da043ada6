package handlers

import (
	"log"

	"github.com/voyago/travel_commerce/database"
	"github.com/voyago/travel_commerce/models"
	"github.com/voyago/travel_commerce/services"
	"github.com/gofiber/fiber/v2"
)

func GenerateBundleBrochure(c *fiber.Ctx) error {
	bundleID := c.Params("bundleId")
	var bundle models.Bundle
	if err := database.DB.Preload("Products").First(&bundle, "id = ?", bundleID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Bundle not found"})
	}

	brochureURL, err := services.GenerateBundleBrochure(bundle)
	if err != nil {
		log.Printf("🔥 Brochure generation failed for bundle %d: %v", bundle.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate brochure"})
	}

	return c.JSON(fiber.Map{"brochure_url": brochureURL})
}
