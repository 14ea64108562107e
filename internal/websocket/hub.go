package websocket

import (
	"encoding/json"
	"sync"

	"github.com/minhngo/birdnest-backend/pkg/logger"
)

// Client một phiên kết nối WebSocket của người dùng.
type Client struct {
	Hub     *Hub
	Conn    *Conn
	UserID  uint
	IsAdmin bool
	Send    chan []byte
}

// Hub quản lý các kết nối WebSocket, hỗ trợ nhiều thiết bị cùng lúc.
type Hub struct {
	clients map[uint][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint][]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"user_id":        client.UserID,
				"is_admin":       client.IsAdmin,
				"total_sessions": len(h.clients[client.UserID]),
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if clientList, ok := h.clients[client.UserID]; ok {
				newList := make([]*Client, 0, len(clientList))
				for _, c := range clientList {
					if c != client {
						newList = append(newList, c)
					}
				}
				if len(newList) == 0 {
					delete(h.clients, client.UserID)
				} else {
					h.clients[client.UserID] = newList
				}
				close(client.Send)
			}
			h.mu.Unlock()
			logger.Info("WebSocket client unregistered", map[string]interface{}{
				"user_id": client.UserID,
			})
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// SendToUser gửi thông báo đến mọi phiên của một người dùng.
func (h *Hub) SendToUser(userID uint, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		logger.Error("Failed to marshal websocket message", err, nil)
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients[userID] {
		select {
		case client.Send <- data:
		default:
			// Buffer đầy thì ngắt kết nối, không chặn luồng gửi.
			go h.Unregister(client)
			logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
				"user_id": userID,
			})
		}
	}
	return nil
}

// BroadcastToAdmins gửi thông báo đến mọi phiên admin đang kết nối.
func (h *Hub) BroadcastToAdmins(message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		logger.Error("Failed to marshal websocket message", err, nil)
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, clientList := range h.clients {
		for _, client := range clientList {
			if !client.IsAdmin {
				continue
			}
			select {
			case client.Send <- data:
			default:
				go h.Unregister(client)
				logger.Warn("Admin client send buffer full, disconnecting", map[string]interface{}{
					"user_id": client.UserID,
				})
			}
		}
	}
	return nil
}

// IsUserOnline kiểm tra người dùng còn phiên kết nối nào không.
func (h *Hub) IsUserOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}
