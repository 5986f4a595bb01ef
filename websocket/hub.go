package websocket

import (
	"log"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"github.com/staybid/staybid/models"
)

type Client struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
}

// BidAlert is what connected hosts receive when a new bid lands on one
// of their places.
type BidAlert struct {
	Type         string    `json:"type"`
	BidID        uuid.UUID `json:"bid_id"`
	Reference    string    `json:"reference"`
	PlaceID      uuid.UUID `json:"place_id"`
	PlaceTitle   string    `json:"place_title"`
	Status       string    `json:"status"`
	BidPerNight  float64   `json:"bid_per_night"`
	TotalAmount  float64   `json:"total_amount"`
	CheckInDate  time.Time `json:"check_in_date"`
	CheckOutDate time.Time `json:"check_out_date"`
}

type alert struct {
	userID  uuid.UUID
	payload *BidAlert
}

var clients = make(map[uuid.UUID]*websocket.Conn)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)
var alerts = make(chan *alert, 16)

// PushBidAlert notifies the place owner over their live connection, if
// they have one. Callers that need guaranteed delivery should pair this
// with email.
func PushBidAlert(ownerID uuid.UUID, bid *models.Bid) {
	alerts <- &alert{
		userID: ownerID,
		payload: &BidAlert{
			Type:         "new_bid",
			BidID:        bid.ID,
			Reference:    bid.Reference,
			PlaceID:      bid.PlaceID,
			PlaceTitle:   bid.Place.Title,
			Status:       bid.Status,
			BidPerNight:  bid.BidPerNight,
			TotalAmount:  bid.TotalAmount,
			CheckInDate:  bid.CheckInDate,
			CheckOutDate: bid.CheckOutDate,
		},
	}
}

func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Printf("Client registered: %s", client.UserID)
			clientsMu.Lock()
			clients[client.UserID] = client.Conn
			clientsMu.Unlock()
		case client := <-Unregister:
			log.Printf("Client unregistered: %s", client.UserID)
			clientsMu.Lock()
			if conn, ok := clients[client.UserID]; ok && conn == client.Conn {
				delete(clients, client.UserID)
			}
			clientsMu.Unlock()
		case a := <-alerts:
			clientsMu.RLock()
			conn, ok := clients[a.userID]
			clientsMu.RUnlock()
			if !ok {
				continue
			}
			if err := conn.WriteJSON(a.payload); err != nil {
				log.Printf("Error sending alert to client %s: %v", a.userID, err)
				conn.Close()
				clientsMu.Lock()
				if cur, ok := clients[a.userID]; ok && cur == conn {
					delete(clients, a.userID)
				}
				clientsMu.Unlock()
			}
		}
	}
}
