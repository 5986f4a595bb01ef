package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/staybid/staybid/handlers"
	"github.com/staybid/staybid/middleware"
)

func PlaceRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// Browsing is open; only live listings come back.
	api.Get("/places", handlers.ListLivePlaces)
	api.Get("/places/:placeId", handlers.GetPlace)

	host := api.Group("/host", middleware.Protected(), middleware.HostRequired())
	host.Get("/places", handlers.GetMyPlaces)
	host.Post("/places", handlers.CreatePlace)
	host.Put("/places/:placeId", handlers.UpdatePlace)
	host.Put("/places/:placeId/status", handlers.SetPlaceStatus)
	host.Post("/places/:placeId/blackout-dates", handlers.AddBlackoutDates)
	host.Delete("/places/:placeId/blackout-dates/:date", handlers.RemoveBlackoutDate)
}
