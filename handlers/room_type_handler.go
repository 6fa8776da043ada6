package handlers

import (
	"github.com/voyago/travel_commerce/database"
	"github.com/voyago/travel_commerce/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type RoomTypeRequest struct {
	Name        string  `json:"name" validate:"required,min=3"`
	Description string  `json:"description"`
	BasePrice   float64 `json:"base_price" validate:"required,gt=0"`
	Capacity    int     `json:"capacity" validate:"omitempty,gt=0"`
	AmenityIDs  []uint  `json:"amenity_ids"`
}

func resolveAmenities(db *gorm.DB, ids []uint) ([]models.RoomAmenity, []uint, error) {
	seen := make(map[uint]struct{}, len(ids))
	unique := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	amenities := make([]models.RoomAmenity, 0, len(unique))
	if len(unique) == 0 {
		return amenities, nil, nil
	}
	if err := db.Where("id IN ?", unique).Find(&amenities).Error; err != nil {
		return nil, nil, err
	}
	for _, a := range amenities {
		delete(seen, a.ID)
	}
	var missing []uint
	for _, id := range unique {
		if _, stillMissing := seen[id]; stillMissing {
			missing = append(missing, id)
		}
	}
	return amenities, missing, nil
}

func ListRoomTypes(c *fiber.Ctx) error {
	var roomTypes []models.RoomType
	if err := database.DB.Preload("Amenities").Order("id").Find(&roomTypes).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch room types"})
	}
	for i := range roomTypes {
		roomTypes[i].ResolveAmenityIDs()
	}
	return c.JSON(roomTypes)
}

func GetRoomType(c *fiber.Ctx) error {
	roomTypeID := c.Params("roomTypeId")
	var roomType models.RoomType
	if err := database.DB.Preload("Amenities").First(&roomType, "id = ?", roomTypeID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Room type not found"})
	}
	roomType.ResolveAmenityIDs()
	return c.JSON(roomType)
}

func CreateRoomType(c *fiber.Ctx) error {
	var req RoomTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	amenities, missing, err := resolveAmenities(database.DB, req.AmenityIDs)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to verify amenities"})
	}
	if len(missing) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":               "Unknown amenity ids",
			"invalid_amenity_ids": missing,
		})
	}

	capacity := req.Capacity
	if capacity == 0 {
		capacity = 2
	}

	roomType := models.RoomType{
		Name:        req.Name,
		Description: req.Description,
		BasePrice:   req.BasePrice,
		Capacity:    capacity,
		Amenities:   amenities,
	}
	if err := database.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&roomType).Error
	}); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create room type"})
	}

	roomType.ResolveAmenityIDs()
	return c.Status(fiber.StatusCreated).JSON(roomType)
}

func UpdateRoomType(c *fiber.Ctx) error {
	roomTypeID := c.Params("roomTypeId")
	var roomType models.RoomType
	if err := database.DB.First(&roomType, "id = ?", roomTypeID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Room type not found"})
	}

	var req RoomTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	amenities, missing, err := resolveAmenities(database.DB, req.AmenityIDs)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to verify amenities"})
	}
	if len(missing) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":               "Unknown amenity ids",
			"invalid_amenity_ids": missing,
		})
	}

	roomType.Name = req.Name
	roomType.Description = req.Description
	roomType.BasePrice = req.BasePrice
	if req.Capacity > 0 {
		roomType.Capacity = req.Capacity
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Amenities").Save(&roomType).Error; err != nil {
			return err
		}
		return tx.Model(&roomType).Association("Amenities").Replace(amenities)
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update room type"})
	}

	if err := database.DB.Preload("Amenities").First(&roomType, "id = ?", roomType.ID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to reload room type"})
	}
	roomType.ResolveAmenityIDs()
	return c.JSON(roomType)
}

func DeleteRoomType(c *fiber.Ctx) error {
	roomTypeID := c.Params("roomTypeId")
	var roomType models.RoomType
	if err := database.DB.First(&roomType, "id = ?", roomTypeID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Room type not found"})
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&roomType).Association("Amenities").Clear(); err != nil {
			return err
		}
		return tx.Delete(&roomType).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete room type"})
	}

	return c.JSON(fiber.Map{"message": "Room type deleted successfully"})
}
