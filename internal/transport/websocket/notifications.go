package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"cosecdesk/config"
	"cosecdesk/internal/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 4096
	sendBuffer     = 32
	deliverBuffer  = 256
)

// Client is one websocket connection of a dashboard user.
type Client struct {
	Key  string
	Conn *websocket.Conn
	Send chan []byte
	Hub  *NotificationHub
}

// NotificationHub fans transient toasts out to every connection of the
// user they belong to. Delivery never blocks the caller.
type NotificationHub struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	deliver    chan domain.Notification
	done       chan struct{}

	upgrader   websocket.Upgrader
	identities *domain.IdentityParser
	logger     *zap.Logger
	mutex    sync.RWMutex
}

func NewNotificationHub(cfg config.NotificationsConfig, identities *domain.IdentityParser, logger *zap.Logger) *NotificationHub {
	h := &NotificationHub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		deliver:    make(chan domain.Notification, deliverBuffer),
		done:       make(chan struct{}),
		identities: identities,
		logger:     logger,
	}
	h.upgrader = websocket.Upgrader{
		CheckOrigin:     checkOrigin(cfg.AllowedOrigins),
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
	}
	return h
}

func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || strings.EqualFold(a, origin) {
				return true
			}
		}
		return false
	}
}

// Run serves register, unregister and delivery until ctx is done.
func (h *NotificationHub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			return

		case client := <-h.register:
			h.mutex.Lock()
			if h.clients[client.Key] == nil {
				h.clients[client.Key] = make(map[*Client]struct{})
			}
			h.clients[client.Key][client] = struct{}{}
			h.mutex.Unlock()
			h.logger.Debug("Клиент уведомлений подключен")

		case client := <-h.unregister:
			h.remove(client)

		case n := <-h.deliver:
			h.dispatch(n)
		}
	}
}

// Notify queues a notification; it is dropped when the queue is full.
func (h *NotificationHub) Notify(_ context.Context, n domain.Notification) {
	select {
	case h.deliver <- n:
	default:
		h.logger.Warn("Очередь уведомлений переполнена, уведомление отброшено",
			zap.String("level", string(n.Level)),
			zap.String("entity", n.Entity))
	}
}

func (h *NotificationHub) dispatch(n domain.Notification) {
	message, err := json.Marshal(n)
	if err != nil {
		h.logger.Error("Ошибка сериализации уведомления", zap.Error(err))
		return
	}

	h.mutex.RLock()
	targets := make([]*Client, 0, len(h.clients[n.Subject]))
	for client := range h.clients[n.Subject] {
		targets = append(targets, client)
	}
	h.mutex.RUnlock()

	for _, client := range targets {
		select {
		case client.Send <- message:
		default:
			h.logger.Warn("Клиент не успевает читать уведомления, соединение закрыто")
			h.remove(client)
		}
	}
}

func (h *NotificationHub) remove(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	conns, ok := h.clients[client.Key]
	if !ok {
		return
	}
	if _, ok := conns[client]; !ok {
		return
	}
	delete(conns, client)
	close(client.Send)
	if len(conns) == 0 {
		delete(h.clients, client.Key)
	}
}

func (h *NotificationHub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for key, conns := range h.clients {
		for client := range conns {
			close(client.Send)
		}
		delete(h.clients, key)
	}
}

// Connections reports how many sockets are open for a user.
func (h *NotificationHub) Connections(key string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients[key])
}

// ServeWS upgrades the request. Browsers cannot set headers on websocket
// requests, so the token may also come from the "token" query parameter.
func (h *NotificationHub) ServeWS(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if token == "" {
		token = c.Query("token")
	}

	identity, err := h.identities.Parse(token)
	if err == nil {
		err = identity.Ready()
	}
	if err != nil {
		h.logger.Warn("Отказано в подключении к уведомлениям", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Ошибка установки WebSocket соединения", zap.Error(err))
		return
	}

	client := &Client{
		Key:  identity.Key(),
		Conn: conn,
		Send: make(chan []byte, sendBuffer),
		Hub:  h,
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// readPump only drains control frames; the channel is server-to-client.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.Hub.unregister <- c:
		case <-c.Hub.done:
		}
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("Ошибка WebSocket соединения", zap.Error(err))
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.Hub.logger.Warn("Ошибка отправки уведомления", zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
