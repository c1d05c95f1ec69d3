package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/norseabelito-rgb/lzhub-demo-sub001/pkg/logger"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/utils"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	sendBuffer      = 32
	broadcastBuffer = 256
)

// Event is the JSON frame pushed to every connected client.
type Event struct {
	Type string    `json:"type"`
	Data any       `json:"data"`
	At   time.Time `json:"at"`
}

type client struct {
	conn   *websocket.Conn
	userID uint
	role   string
	send   chan []byte
}

// outbound is a queued frame and who may receive it. Empty roles and users means everyone.
type outbound struct {
	payload []byte
	roles   []string
	userIDs []uint
}

func (o outbound) allows(c *client) bool {
	if len(o.roles) == 0 && len(o.userIDs) == 0 {
		return true
	}
	return slices.Contains(o.roles, c.role) || slices.Contains(o.userIDs, c.userID)
}

// LiveHub fans out domain events to connected staff. Run owns the client set.
type LiveHub struct {
	clients    map[*client]bool
	broadcast  chan outbound
	register   chan *client
	unregister chan *client
	done       chan struct{}
	mu         sync.Mutex
	upgrader   websocket.Upgrader
}

func NewLiveHub(allowedOrigins []string) *LiveHub {
	h := &LiveHub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan outbound, broadcastBuffer),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin)
		},
	}
	return h
}

// Run serves register/unregister/broadcast until ctx is cancelled, then closes every client.
func (h *LiveHub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				if !msg.allows(c) {
					continue
				}
				select {
				case c.send <- msg.payload:
				default:
					// slow consumer
					logger.L().Warn("ws client dropped", zap.Uint("user_id", c.userID))
					delete(h.clients, c)
					close(c.send)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish queues an event for every connected client. It never blocks request handlers.
func (h *LiveHub) Publish(eventType string, data any) {
	h.PublishTo(eventType, data, nil)
}

// PublishTo queues an event only for clients holding one of roles or listed in userIDs.
// With neither set it reaches everyone, like Publish.
func (h *LiveHub) PublishTo(eventType string, data any, roles []string, userIDs ...uint) {
	payload, err := json.Marshal(Event{Type: eventType, Data: data, At: time.Now().UTC()})
	if err != nil {
		logger.L().Error("ws marshal event", zap.String("type", eventType), zap.Error(err))
		return
	}
	select {
	case h.broadcast <- outbound{payload: payload, roles: roles, userIDs: userIDs}:
	case <-h.done:
	default:
		logger.L().Warn("ws broadcast queue full, event dropped", zap.String("type", eventType))
	}
}

// Clients reports how many connections are registered.
func (h *LiveHub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// WS route: /ws/live
func (h *LiveHub) HandleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.FromGin(c).Warn("ws upgrade failed", zap.Error(err))
		return
	}

	cl := &client{
		conn:   conn,
		userID: utils.CurrentUserID(c),
		role:   utils.CurrentRole(c),
		send:   make(chan []byte, sendBuffer),
	}
	select {
	case h.register <- cl:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go h.writePump(cl)
	go h.readPump(cl)
}

// readPump only drains control frames; client messages are ignored.
func (h *LiveHub) readPump(cl *client) {
	defer func() {
		select {
		case h.unregister <- cl:
		case <-h.done:
		}
		_ = cl.conn.Close()
	}()

	cl.conn.SetReadLimit(4096)
	_ = cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.L().Debug("ws read", zap.Uint("user_id", cl.userID), zap.Error(err))
			}
			return
		}
	}
}

func (h *LiveHub) writePump(cl *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = cl.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-cl.send:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = cl.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := cl.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.L().Debug("ws write", zap.Uint("user_id", cl.userID), zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
