package websocket

import (
	"context"
	"encoding/json"

	"github.com/joelyk/maison-du-parfum/internal/events"
	"github.com/joelyk/maison-du-parfum/pkg/logger"
)

// Client is one connected back-office screen.
type Client struct {
	Hub       *Hub
	Conn      *Conn
	SessionID string
	Send      chan []byte
}

func NewClient(hub *Hub, conn *Conn, sessionID string) *Client {
	return &Client{
		Hub:       hub,
		Conn:      conn,
		SessionID: sessionID,
		Send:      make(chan []byte, 64),
	}
}

// Hub fans order notifications out to every connected admin client.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 16),
		unregister: make(chan *Client, 16),
		broadcast:  make(chan []byte, 256),
	}
}

// Run owns the client set until stop is closed.
func (h *Hub) Run(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			for client := range h.clients {
				close(client.Send)
				delete(h.clients, client)
			}
			return

		case client := <-h.register:
			h.clients[client] = true
			logger.Info("Admin feed client registered", logger.Fields{
				"clients": len(h.clients),
			})

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			logger.Info("Admin feed client unregistered", logger.Fields{
				"clients": len(h.clients),
			})

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					// slow reader
					delete(h.clients, client)
					close(client.Send)
					logger.Warn("Admin feed client send buffer full, disconnecting")
				}
			}
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// PublishOrderPlaced queues the event for connected admins. A full queue drops it.
func (h *Hub) PublishOrderPlaced(_ context.Context, event events.OrderPlaced) error {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal order event", err)
		return err
	}

	select {
	case h.broadcast <- data:
	default:
		logger.Warn("Admin feed broadcast channel full, event dropped", logger.Fields{
			"order_id": event.OrderID,
		})
	}
	return nil
}
