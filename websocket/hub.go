package websocket

import (
	"log"
	"sync"

	"github.com/voyago/travel_commerce/models"
	"github.com/gofiber/contrib/websocket"
)

// The hub feeds the admin dashboard: every bundle mutation is broadcast to
// connected operators so open list views stay current.

type Client struct {
	Conn *websocket.Conn
}

type BundleEvent struct {
	Action     string `json:"action"` // created, updated, deleted, status_changed
	BundleID   uint   `json:"bundle_id"`
	BundleName string `json:"bundle_name"`
	Active     bool   `json:"active"`
}

var clients = make(map[*websocket.Conn]struct{})
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)
var Broadcast = make(chan BundleEvent, 64)

// PublishBundleEvent queues an event without blocking the request path; a
// full buffer drops the event rather than stalling the handler.
func PublishBundleEvent(action string, bundle *models.Bundle) {
	event := BundleEvent{
		Action:     action,
		BundleID:   bundle.ID,
		BundleName: bundle.Name,
		Active:     bundle.Active,
	}
	select {
	case Broadcast <- event:
	default:
		log.Printf("Event feed buffer full, dropping %s event for bundle %d", action, bundle.ID)
	}
}

func RunHub() {
	for {
		select {
		case client := <-Register:
			clientsMu.Lock()
			clients[client.Conn] = struct{}{}
			clientsMu.Unlock()
			log.Printf("Dashboard client connected (%d total)", len(clients))
		case client := <-Unregister:
			clientsMu.Lock()
			delete(clients, client.Conn)
			clientsMu.Unlock()
		case event := <-Broadcast:
			clientsMu.RLock()
			var dead []*websocket.Conn
			for conn := range clients {
				if err := conn.WriteJSON(event); err != nil {
					log.Printf("Error sending event to dashboard client: %v", err)
					conn.Close()
					dead = append(dead, conn)
				}
			}
			clientsMu.RUnlock()
			if len(dead) > 0 {
				clientsMu.Lock()
				for _, conn := range dead {
					delete(clients, conn)
				}
				clientsMu.Unlock()
			}
		}
	}
}

// FeedHandler upgrades the connection and parks it until the client leaves.
func FeedHandler(c *websocket.Conn) {
	client := &Client{Conn: c}
	Register <- client
	defer func() {
		Unregister <- client
		c.Close()
	}()

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
}
