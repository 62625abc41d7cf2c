package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
)

type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	mutex      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			log.Println("New WS Client Connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// PublishJSON marshals the payload and fans it out without blocking the
// caller. Writes to stock happen inside DB transactions; the broadcast runs
// after commit on its own goroutine.
func (h *Hub) PublishJSON(payload map[string]interface{}) {
	go func() {
		msg, err := json.Marshal(payload)
		if err != nil {
			log.Printf("ws: marshal broadcast payload: %v", err)
			return
		}
		h.Broadcast <- msg
	}()
}

// PublishStockUpdate tells connected clients which movement just landed so
// open stock views can refresh.
func (h *Hub) PublishStockUpdate(action, sku, itemName, username, message string) {
	h.PublishJSON(map[string]interface{}{
		"type":   "stock_update",
		"action": action,
		"item": map[string]interface{}{
			"sku":  sku,
			"name": itemName,
		},
		"user":    username,
		"message": message,
	})
}

// PublishImportProgress streams row-level progress of a running catalog import.
func (h *Hub) PublishImportProgress(processed, total, inserted, updated, skipped int, done bool) {
	h.PublishJSON(map[string]interface{}{
		"type":      "import_progress",
		"processed": processed,
		"total":     total,
		"inserted":  inserted,
		"updated":   updated,
		"skipped":   skipped,
		"done":      done,
	})
}

// PublishUserStatus announces login/logout so clients can show who is online.
func (h *Hub) PublishUserStatus(username, status string) {
	h.PublishJSON(map[string]interface{}{
		"type":     "user_status",
		"username": username,
		"status":   status,
	})
}
