package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/staybid/staybid/handlers"
	"github.com/staybid/staybid/middleware"
)

func BidRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	bids := api.Group("/bids", middleware.Protected())
	bids.Post("", middleware.ApprovedStudentRequired(), handlers.CreateBid)
	bids.Get("/my-bids", handlers.GetMyBids)
	bids.Get("/:bidId", handlers.GetBid)

	host := api.Group("/host", middleware.Protected(), middleware.HostRequired())
	host.Get("/places/:placeId/bids", handlers.GetPlaceBids)
	host.Put("/bids/:bidId/resolve", handlers.ResolveBid)
	host.Get("/payout-summary", handlers.GetMyPayoutSummary)
}
