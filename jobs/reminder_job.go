package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/staybid/staybid/database"
	"github.com/staybid/staybid/models"
	"github.com/staybid/staybid/notifications"
)

// SendCheckInReminders emails both parties of every paid stay that
// starts tomorrow.
func SendCheckInReminders() {
	log.Println("Running job: SendCheckInReminders...")

	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	var upcomingBids []models.Bid
	err := database.DB.
		Preload("Student").
		Preload("Place.Owner").
		Joins("JOIN payments ON payments.bid_id = bids.id AND payments.status = ?", models.PaymentStatusCaptured).
		Where("bids.status = ? AND bids.check_in_date = ?", models.BidStatusAccepted, tomorrow).
		Find(&upcomingBids).Error
	if err != nil {
		log.Printf("Error checking for upcoming check-ins: %v", err)
		return
	}

	if len(upcomingBids) == 0 {
		return
	}

	for _, bid := range upcomingBids {
		log.Printf("Sending check-in reminder for bid: %s", bid.Reference)

		checkIn := bid.CheckInDate.Format("Monday, January 2")
		studentBody := fmt.Sprintf(
			"<h1>Check-In Reminder</h1><p>Hi %s,</p><p>Your stay at <b>%s</b> starts tomorrow, %s. Your booking reference is %s.</p>",
			bid.Student.FullName, bid.Place.Title, checkIn, bid.Reference,
		)
		hostBody := fmt.Sprintf(
			"<h1>Guest Arriving Tomorrow</h1><p>Hi %s,</p><p>%s checks in to <b>%s</b> tomorrow, %s (booking %s).</p>",
			bid.Place.Owner.FullName, bid.Student.FullName, bid.Place.Title, checkIn, bid.Reference,
		)

		go notifications.SendEmail(bid.Student.FullName, bid.Student.Email, "Reminder: Your Stay Starts Tomorrow!", studentBody)
		go notifications.SendEmail(bid.Place.Owner.FullName, bid.Place.Owner.Email, "Reminder: Your Guest Arrives Tomorrow", hostBody)
	}
}
