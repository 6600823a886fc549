package ws

import (
	"carsurvey/internal/service"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Dashboards authenticate with a token; origin is not checked
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades host dashboard connections
type Handler struct {
	hub      *Hub
	authSvc  *service.AuthService
	statsSvc *service.StatisticsService
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, authSvc *service.AuthService, statsSvc *service.StatisticsService) *Handler {
	return &Handler{
		hub:      hub,
		authSvc:  authSvc,
		statsSvc: statsSvc,
	}
}

// DashboardWS handles GET /v1/ws/dashboard?token=
func (h *Handler) DashboardWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	claims, err := h.authSvc.ValidateHostToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Dashboard upgrade for host %s failed: %v", claims.HostID, err)
		return
	}

	c := &dashboardClient{
		ws: ws,
		conn: &Connection{
			HostID: claims.HostID,
			Send:   make(chan []byte, sendBuffer),
			Hub:    h.hub,
		},
	}
	h.hub.Register(c.conn)
	c.conn.Send <- h.snapshot(r, claims.HostID)

	go c.writeLoop()
	go c.readLoop()
}

// snapshot encodes the current figures so a new dashboard does not wait
// for the next response
func (h *Handler) snapshot(r *http.Request, hostID string) []byte {
	stats, err := h.statsSvc.Compute(r.Context())
	if err != nil {
		log.Printf("Initial statistics for host %s failed: %v", hostID, err)
		msg, _ := encode(MsgError, map[string]string{"error": "statistics unavailable"})
		return msg
	}
	msg, err := encode(MsgStatsUpdate, stats)
	if err != nil {
		log.Printf("Initial statistics for host %s: encode: %v", hostID, err)
		msg, _ = encode(MsgError, map[string]string{"error": "statistics unavailable"})
	}
	return msg
}

type dashboardClient struct {
	ws   *websocket.Conn
	conn *Connection
}

// readLoop only services control frames; dashboards never send data.
// It unregisters the connection when the peer goes away.
func (c *dashboardClient) readLoop() {
	defer func() {
		c.conn.Hub.Unregister(c.conn)
		c.ws.Close()
	}()

	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.ws.NextReader(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Dashboard %s read error: %v", c.conn.HostID, err)
			}
			return
		}
	}
}

func (c *dashboardClient) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case msg, ok := <-c.conn.Send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
