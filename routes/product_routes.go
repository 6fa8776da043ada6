package routes

import (
	"github.com/voyago/travel_commerce/handlers"
	"github.com/gofiber/fiber/v2"
)

func ProductRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	products := api.Group("/products")
	products.Get("", handlers.ListProducts)
	products.Get("/:productId", handlers.GetProduct)
}
