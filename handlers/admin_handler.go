package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/staybid/staybid/database"
	"github.com/staybid/staybid/models"
	"github.com/staybid/staybid/notifications"
)

func ListPendingStudents(c *fiber.Ctx) error {
	var students []models.User
	if err := database.DB.
		Where("role = ? AND approval_status = ?", models.RoleStudent, models.ApprovalPending).
		Order("created_at asc").
		Find(&students).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(students)
}

type ApprovalRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

// ManageStudentApproval is the admin identity check gate: a student may
// not bid until approved.
func ManageStudentApproval(c *fiber.Ctx) error {
	var req ApprovalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var student models.User
	if err := database.DB.Where("id = ? AND role = ?", c.Params("userId"), models.RoleStudent).First(&student).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
	}

	student.ApprovalStatus = req.Status
	if err := database.DB.Save(&student).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update approval status"})
	}

	switch req.Status {
	case models.ApprovalApproved:
		go notifications.SendEmail(student.FullName, student.Email, "Your Identity Has Been Approved!",
			"<h1>You're Approved</h1><p>Your student identity has been verified. You can now place bids on any live listing.</p>")
	case models.ApprovalRejected:
		go notifications.SendEmail(student.FullName, student.Email, "Update on Your Identity Verification",
			"<h1>Verification Update</h1><p>We could not verify your identity document. Please upload a clearer document and try again.</p>")
	}

	return c.JSON(fiber.Map{"message": "Approval status updated successfully"})
}

// ModeratePlace lets an admin pull a listing off the market.
func ModeratePlace(c *fiber.Ctx) error {
	type ModerateRequest struct {
		Status string  `json:"status" validate:"required,oneof=live paused"`
		Reason *string `json:"reason,omitempty"`
	}
	var req ModerateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var place models.Place
	if err := database.DB.Preload("Owner").First(&place, "id = ?", c.Params("placeId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Place not found"})
	}

	place.Status = req.Status
	if err := database.DB.Save(&place).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update place"})
	}

	if req.Status == models.PlaceStatusPaused {
		reason := "It does not meet our listing guidelines."
		if req.Reason != nil && *req.Reason != "" {
			reason = *req.Reason
		}
		go notifications.SendEmail(place.Owner.FullName, place.Owner.Email, "Your Listing Was Paused",
			fmt.Sprintf("<h1>Listing Paused</h1><p>Your listing '%s' has been paused by our moderation team. %s</p>", place.Title, reason))
	}

	return c.JSON(fiber.Map{"message": "Place moderated successfully", "status": place.Status})
}

func AdminGetAllBids(c *fiber.Ctx) error {
	query := database.DB.Preload("Place").Preload("Student")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if placeID := c.Query("place_id"); placeID != "" {
		query = query.Where("place_id = ?", placeID)
	}

	var bids []models.Bid
	query.Order("created_at desc").Find(&bids)
	return c.JSON(bids)
}

func AdminGetPayments(c *fiber.Ctx) error {
	query := database.DB.Preload("Bid.Place").Preload("Bid.Student")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var pmts []models.Payment
	query.Order("created_at desc").Find(&pmts)
	return c.JSON(pmts)
}

func GetAllUsers(c *fiber.Ctx) error {
	query := database.DB.Order("created_at desc")
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	var users []models.User
	query.Find(&users)
	return c.JSON(users)
}

func ToggleUserStatus(c *fiber.Ctx) error {
	var user models.User
	if err := database.DB.First(&user, "id = ?", c.Params("userId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	user.IsActive = !user.IsActive
	if err := database.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update user"})
	}

	return c.JSON(fiber.Map{"message": "User status updated", "is_active": user.IsActive})
}

type DashboardAnalyticsResponse struct {
	TotalStudents      int64        `json:"total_students"`
	TotalHosts         int64        `json:"total_hosts"`
	TotalLivePlaces    int64        `json:"total_live_places"`
	PendingApprovals   int64        `json:"pending_approvals"`
	PendingBids        int64        `json:"pending_bids"`
	TotalCommission    float64      `json:"total_commission"`
	OutstandingPayouts float64      `json:"outstanding_payouts"`
	BidsLast30Days     int64        `json:"bids_last_30_days"`
	RecentBids         []models.Bid `json:"recent_bids"`
}

func GetDashboardAnalytics(c *fiber.Ctx) error {
	var response DashboardAnalyticsResponse

	database.DB.Model(&models.User{}).Where("role = ?", models.RoleStudent).Count(&response.TotalStudents)
	database.DB.Model(&models.User{}).Where("role = ?", models.RoleHotelOwner).Count(&response.TotalHosts)
	database.DB.Model(&models.Place{}).Where("status = ?", models.PlaceStatusLive).Count(&response.TotalLivePlaces)
	database.DB.Model(&models.User{}).Where("role = ? AND approval_status = ?", models.RoleStudent, models.ApprovalPending).Count(&response.PendingApprovals)
	database.DB.Model(&models.Bid{}).Where("status = ?", models.BidStatusPending).Count(&response.PendingBids)

	capturedBids := database.DB.Model(&models.Payment{}).
		Select("bid_id").
		Where("status = ?", models.PaymentStatusCaptured)
	database.DB.Model(&models.Bid{}).
		Where("id IN (?)", capturedBids).
		Select("COALESCE(SUM(platform_commission), 0)").Row().Scan(&response.TotalCommission)
	database.DB.Model(&models.Bid{}).
		Where("id IN (?) AND is_paid_to_hotel = ?", capturedBids, false).
		Select("COALESCE(SUM(payable_to_host), 0)").Row().Scan(&response.OutstandingPayouts)

	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	database.DB.Model(&models.Bid{}).Where("created_at > ?", thirtyDaysAgo).Count(&response.BidsLast30Days)

	database.DB.Order("created_at desc").Limit(5).Preload("Place").Preload("Student").Find(&response.RecentBids)

	return c.JSON(response)
}

func GenerateTransactionReport(c *fiber.Ctx) error {
	startDateStr := c.Query("start_date", time.Now().AddDate(0, -1, 0).Format("2006-01-02"))
	endDateStr := c.Query("end_date", time.Now().Format("2006-01-02"))

	startDate, err := time.Parse("2006-01-02", startDateStr)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid start_date format. Use YYYY-MM-DD."})
	}
	endDate, err := time.Parse("2006-01-02", endDateStr)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid end_date format. Use YYYY-MM-DD."})
	}
	endDate = endDate.Add(23*time.Hour + 59*time.Minute + 59*time.Second)

	var pmts []models.Payment
	database.DB.
		Preload("Bid.Place").
		Preload("Bid.Student").
		Where("status = ? AND captured_at BETWEEN ? AND ?", models.PaymentStatusCaptured, startDate, endDate).
		Order("captured_at desc").
		Find(&pmts)

	b := new(bytes.Buffer)
	w := csv.NewWriter(b)

	headers := []string{"Payment ID", "Captured At", "Bid Reference", "Student", "Place", "Amount", "Commission", "Payable To Host", "Paid To Host"}
	if err := w.Write(headers); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to write CSV header"})
	}

	for _, p := range pmts {
		commission, payable := 0.0, 0.0
		if p.Bid.PlatformCommission != nil {
			commission = *p.Bid.PlatformCommission
		}
		if p.Bid.PayableToHost != nil {
			payable = *p.Bid.PayableToHost
		}

		row := []string{
			p.ID.String(),
			p.CapturedAt.Format("2006-01-02 15:04"),
			p.Bid.Reference,
			p.Bid.Student.FullName,
			p.Bid.Place.Title,
			fmt.Sprintf("%.2f", p.Amount),
			fmt.Sprintf("%.2f", commission),
			fmt.Sprintf("%.2f", payable),
			fmt.Sprintf("%t", p.Bid.IsPaidToHotel),
		}
		if err := w.Write(row); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to write CSV row"})
		}
	}
	w.Flush()

	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s_to_%s.csv\"", startDate.Format("2006-01-02"), endDate.Format("2006-01-02")))

	return c.Send(b.Bytes())
}
