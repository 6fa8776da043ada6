package routes

import (
	"github.com/voyago/travel_commerce/handlers"
	"github.com/voyago/travel_commerce/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())

	users := admin.Group("/users")
	users.Get("", handlers.GetAllUsers)
	users.Put("/:userId/status", handlers.ToggleUserStatus)
	users.Delete("/:userId", handlers.AdminDeleteUser)

	admin.Get("/uploads/signature", handlers.GenerateUploadSignature)
}
