package ws

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/amirfagh/justeat/entity"
	"github.com/amirfagh/justeat/services"
	"github.com/amirfagh/justeat/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"
)

// StatusHub fans order status changes out to websocket subscribers of each order.
type StatusHub struct {
	clients    map[string]map[*websocket.Conn]bool // orderID -> connections
	broadcast  chan StatusMessage
	register   chan Subscription
	unregister chan Subscription
	mu         sync.Mutex
	orders     *services.OrderService
}

type Subscription struct {
	Conn    *websocket.Conn
	OrderID string
	UserID  string
}

type StatusMessage struct {
	OrderID string             `json:"orderId"`
	Status  entity.OrderStatus `json:"status"`
	Message string             `json:"message"`
}

func NewStatusHub(orders *services.OrderService) *StatusHub {
	return &StatusHub{
		clients:    make(map[string]map[*websocket.Conn]bool),
		broadcast:  make(chan StatusMessage, 64),
		register:   make(chan Subscription),
		unregister: make(chan Subscription),
		orders:     orders,
	}
}

// Run serves register/unregister/broadcast until the process exits.
func (h *StatusHub) Run() {
	for {
		select {
		case sub := <-h.register:
			// the status is read here, after any broadcast already taken by this loop
			h.mu.Lock()
			if err := h.sendCurrent(sub); err != nil {
				slog.Warn("ws initial status failed", "orderId", sub.OrderID, "err", err)
				sub.Conn.Close()
				h.mu.Unlock()
				continue
			}
			if h.clients[sub.OrderID] == nil {
				h.clients[sub.OrderID] = make(map[*websocket.Conn]bool)
			}
			h.clients[sub.OrderID][sub.Conn] = true
			h.mu.Unlock()

		case sub := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[sub.OrderID][sub.Conn]; ok {
				delete(h.clients[sub.OrderID], sub.Conn)
				if len(h.clients[sub.OrderID]) == 0 {
					delete(h.clients, sub.OrderID)
				}
				sub.Conn.Close()
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients[msg.OrderID] {
				if err := conn.WriteJSON(msg); err != nil {
					slog.Warn("ws write error", "orderId", msg.OrderID, "err", err)
					conn.Close()
					delete(h.clients[msg.OrderID], conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *StatusHub) sendCurrent(sub Subscription) error {
	o, err := h.orders.Repo.GetOrder(context.Background(), sub.OrderID)
	if err != nil {
		return err
	}
	return sub.Conn.WriteJSON(StatusMessage{OrderID: o.ID, Status: o.Status, Message: services.StatusMessage(o.Status)})
}

// NotifyStatus never blocks the caller; when the hub is saturated the update is dropped
// and subscribers catch up on their next read of the order.
func (h *StatusHub) NotifyStatus(orderID string, status entity.OrderStatus) {
	msg := StatusMessage{OrderID: orderID, Status: status, Message: services.StatusMessage(status)}
	select {
	case h.broadcast <- msg:
	default:
		slog.Warn("status hub saturated, dropping update", "orderId", orderID)
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// GET /ws/orders/:id
func (h *StatusHub) HandleWebSocket(c *gin.Context) {
	userID := utils.CurrentUserID(c)

	order, err := h.orders.Get(c.Request.Context(), userID, utils.CurrentRole(c), c.Param("id"))
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "order not found"})
		return
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "no access"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("ws upgrade error", "err", err)
		return
	}

	sub := Subscription{Conn: conn, OrderID: order.ID, UserID: userID}
	h.register <- sub

	go h.listen(sub)
}

// listen only watches for the client going away; subscribers never send data.
func (h *StatusHub) listen(sub Subscription) {
	defer func() { h.unregister <- sub }()
	for {
		if _, _, err := sub.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
