package routes

import (
	"github.com/voyago/travel_commerce/handlers"
	"github.com/voyago/travel_commerce/middleware"
	"github.com/gofiber/fiber/v2"
)

func RoomRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	roomTypes := api.Group("/room-types")
	roomTypes.Get("", handlers.ListRoomTypes)
	roomTypes.Get("/:roomTypeId", handlers.GetRoomType)

	roomTypes.Post("", middleware.Protected(), middleware.AdminRequired(), handlers.CreateRoomType)
	roomTypes.Put("/:roomTypeId", middleware.Protected(), middleware.AdminRequired(), handlers.UpdateRoomType)
	roomTypes.Delete("/:roomTypeId", middleware.Protected(), middleware.AdminRequired(), handlers.DeleteRoomType)
}
