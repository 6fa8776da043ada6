package handlers

import (
	"bytes"
	"errors"
	"strconv"
	"strings"

	"github.com/voyago/travel_commerce/database"
	"github.com/voyago/travel_commerce/models"
	"github.com/voyago/travel_commerce/websocket"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type BundleRequest struct {
	Name        string    `json:"name" validate:"required,min=3"`
	Type        string    `json:"type" validate:"required,oneof=Silver Gold Platinum"`
	Description string    `json:"description" validate:"required,min=10"`
	Price       float64   `json:"price" validate:"required,gt=0"`
	Active      *flexBool `json:"active"`
	ProductIDs  []uint    `json:"product_ids" validate:"required,min=1"`
}

type BundleUpdateRequest struct {
	Name        *string   `json:"name" validate:"omitempty,min=3"`
	Type        *string   `json:"type" validate:"omitempty,oneof=Silver Gold Platinum"`
	Description *string   `json:"description" validate:"omitempty,min=10"`
	Price       *float64  `json:"price" validate:"omitempty,gt=0"`
	Active      *flexBool `json:"active"`
	IsActive    *flexBool `json:"is_active"` // historical alias, same column
	ProductIDs  *[]uint   `json:"product_ids"`
}

// flexBool accepts true/false as well as the 0/1 integers older clients
// send for the active flag.
type flexBool bool

func (f *flexBool) UnmarshalJSON(b []byte) error {
	switch string(bytes.TrimSpace(b)) {
	case "true", "1":
		*f = true
	case "false", "0", "null":
		*f = false
	default:
		return errors.New("invalid boolean value for active flag")
	}
	return nil
}

// resolveBundleProducts deduplicates the requested ids and loads the matching
// products. Ids with no catalog row come back in missing so the caller can
// reject the whole write before anything is persisted.
func resolveBundleProducts(db *gorm.DB, ids []uint) ([]models.Product, []uint, error) {
	seen := make(map[uint]struct{}, len(ids))
	unique := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	products := make([]models.Product, 0, len(unique))
	if len(unique) == 0 {
		return products, nil, nil
	}
	if err := db.Where("id IN ?", unique).Find(&products).Error; err != nil {
		return nil, nil, err
	}

	for _, p := range products {
		delete(seen, p.ID)
	}
	var missing []uint
	for _, id := range unique {
		if _, stillMissing := seen[id]; stillMissing {
			missing = append(missing, id)
		}
	}
	return products, missing, nil
}

func ListBundles(c *fiber.Ctx) error {
	query := database.DB.Model(&models.Bundle{}).Preload("Products")

	if c.Query("public") == "true" {
		query = query.Where("active = ?", true)
	} else if raw := c.Query("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid active filter"})
		}
		query = query.Where("active = ?", active)
	}

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var bundles []models.Bundle
	if err := query.Order("created_at desc").Find(&bundles).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch bundles"})
	}

	for i := range bundles {
		bundles[i].ResolveProductIDs()
		bundles[i].Products = nil // list rows carry ids only, detail carries products
	}
	return c.JSON(bundles)
}

// ListPublicBundles is the unauthenticated storefront listing. Only active
// bundles are visible.
func ListPublicBundles(c *fiber.Ctx) error {
	var bundles []models.Bundle
	err := database.DB.Preload("Products").
		Where("active = ?", true).
		Order("created_at desc").
		Find(&bundles).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch bundles"})
	}
	for i := range bundles {
		bundles[i].ResolveProductIDs()
		bundles[i].Products = nil
	}
	return c.JSON(bundles)
}

func GetPublicBundle(c *fiber.Ctx) error {
	bundleID := c.Params("bundleId")
	var bundle models.Bundle
	err := database.DB.Preload("Products").
		First(&bundle, "id = ? AND active = ?", bundleID, true).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Bundle not found"})
	}
	bundle.ResolveProductIDs()
	return c.JSON(bundle)
}

func GetBundle(c *fiber.Ctx) error {
	bundleID := c.Params("bundleId")
	var bundle models.Bundle
	if err := database.DB.Preload("Products").First(&bundle, "id = ?", bundleID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Bundle not found"})
	}
	bundle.ResolveProductIDs()
	return c.JSON(bundle)
}

func CreateBundle(c *fiber.Ctx) error {
	var req BundleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	products, missing, err := resolveBundleProducts(database.DB, req.ProductIDs)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to verify products"})
	}
	if len(missing) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":               "Unknown product ids",
			"invalid_product_ids": missing,
		})
	}

	active := true
	if req.Active != nil {
		active = bool(*req.Active)
	}

	bundle := models.Bundle{
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
		Price:       req.Price,
		Active:      active,
		Products:    products,
	}

	// bundle row and membership rows land in the same transaction
	if err := database.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&bundle).Error
	}); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create bundle"})
	}

	bundle.ResolveProductIDs()
	websocket.PublishBundleEvent("created", &bundle)
	return c.Status(fiber.StatusCreated).JSON(bundle)
}

func UpdateBundle(c *fiber.Ctx) error {
	bundleID := c.Params("bundleId")
	var bundle models.Bundle
	if err := database.DB.First(&bundle, "id = ?", bundleID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Bundle not found"})
	}

	var req BundleUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var products []models.Product
	if req.ProductIDs != nil {
		var missing []uint
		var err error
		products, missing, err = resolveBundleProducts(database.DB, *req.ProductIDs)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to verify products"})
		}
		if len(missing) > 0 {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":               "Unknown product ids",
				"invalid_product_ids": missing,
			})
		}
	}

	if req.Name != nil {
		bundle.Name = *req.Name
	}
	if req.Type != nil {
		bundle.Type = *req.Type
	}
	if req.Description != nil {
		bundle.Description = *req.Description
	}
	if req.Price != nil {
		bundle.Price = *req.Price
	}
	if req.Active != nil {
		bundle.Active = bool(*req.Active)
	} else if req.IsActive != nil {
		bundle.Active = bool(*req.IsActive)
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Products").Save(&bundle).Error; err != nil {
			return err
		}
		if req.ProductIDs != nil {
			// full-set sync: the requested set replaces membership entirely
			if err := tx.Model(&bundle).Association("Products").Replace(products); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update bundle"})
	}

	if err := database.DB.Preload("Products").First(&bundle, "id = ?", bundle.ID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to reload bundle"})
	}
	bundle.ResolveProductIDs()
	websocket.PublishBundleEvent("updated", &bundle)
	return c.JSON(bundle)
}

func DeleteBundle(c *fiber.Ctx) error {
	bundleID := c.Params("bundleId")
	var bundle models.Bundle
	if err := database.DB.First(&bundle, "id = ?", bundleID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Bundle not found"})
	}

	// membership rows go first so no association ever references a deleted bundle
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&bundle).Association("Products").Clear(); err != nil {
			return err
		}
		return tx.Delete(&bundle).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete bundle"})
	}

	websocket.PublishBundleEvent("deleted", &bundle)
	return c.JSON(fiber.Map{"message": "Bundle deleted successfully"})
}

// ToggleBundleStatus sets the active flag to the requested value rather than
// flipping it, so repeating the same call is harmless. Both spellings of the
// flag are accepted.
func ToggleBundleStatus(c *fiber.Ctx) error {
	bundleID := c.Params("bundleId")
	type Request struct {
		Active   *flexBool `json:"active"`
		IsActive *flexBool `json:"is_active"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	var target bool
	switch {
	case req.Active != nil:
		target = bool(*req.Active)
	case req.IsActive != nil:
		target = bool(*req.IsActive)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing active flag"})
	}

	var bundle models.Bundle
	if err := database.DB.First(&bundle, "id = ?", bundleID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Bundle not found"})
	}

	if err := database.DB.Model(&bundle).Update("active", target).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update bundle status"})
	}

	if err := database.DB.Preload("Products").First(&bundle, "id = ?", bundle.ID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to reload bundle"})
	}
	bundle.ResolveProductIDs()
	websocket.PublishBundleEvent("status_changed", &bundle)
	return c.JSON(bundle)
}
