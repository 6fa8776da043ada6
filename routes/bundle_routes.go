package routes

import (
	"github.com/voyago/travel_commerce/handlers"
	"github.com/voyago/travel_commerce/middleware"
	"github.com/gofiber/fiber/v2"
)

func BundleRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// storefront variant: no auth, active bundles only
	api.Get("/bundles-client", handlers.ListPublicBundles)
	api.Get("/bundles-client/:bundleId", handlers.GetPublicBundle)

	bundles := api.Group("/bundles")
	bundles.Get("", middleware.ProtectedUnlessPublic(), handlers.ListBundles)
	bundles.Get("/:bundleId", middleware.Protected(), handlers.GetBundle)

	bundles.Post("", middleware.Protected(), middleware.AdminRequired(), handlers.CreateBundle)
	bundles.Put("/:bundleId", middleware.Protected(), middleware.AdminRequired(), handlers.UpdateBundle)
	bundles.Delete("/:bundleId", middleware.Protected(), middleware.AdminRequired(), handlers.DeleteBundle)
	bundles.Post("/:bundleId/toggle-status", middleware.Protected(), middleware.AdminRequired(), handlers.ToggleBundleStatus)
	bundles.Post("/:bundleId/brochure", middleware.Protected(), middleware.AdminRequired(), handlers.GenerateBundleBrochure)
}
