package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/staybid/staybid/handlers"
	"github.com/staybid/staybid/middleware"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())

	admin.Get("/students/pending", handlers.ListPendingStudents)
	admin.Put("/students/:userId/approval", handlers.ManageStudentApproval)
	admin.Put("/places/:placeId/moderate", handlers.ModeratePlace)
	admin.Get("/dashboard-analytics", handlers.GetDashboardAnalytics)

	admin.Get("/bids", handlers.AdminGetAllBids)
	admin.Get("/payments", handlers.AdminGetPayments)
	admin.Post("/payments/:paymentId/capture", handlers.CapturePayment)
	admin.Post("/bids/:bidId/payout", handlers.RecordPayout)

	reports := admin.Group("/reports")
	reports.Get("/transactions", handlers.GenerateTransactionReport)

	users := admin.Group("/users")
	users.Get("", handlers.GetAllUsers)
	users.Put("/:userId/status", handlers.ToggleUserStatus)
}
