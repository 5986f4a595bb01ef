package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/staybid/staybid/handlers"
	"github.com/staybid/staybid/middleware"
)

func PaymentRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// Stripe calls this; authentication is the webhook signature.
	api.Post("/payments/webhook", handlers.HandleStripeWebhook)

	payments := api.Group("/payments", middleware.Protected())
	payments.Post("/checkout/:bidId", handlers.BeginCheckout)
	payments.Post("/:paymentId/cancel", handlers.CancelCheckout)
}
