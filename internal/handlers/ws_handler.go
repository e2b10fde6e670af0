package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"job-portal-api/internal/cache"
	"job-portal-api/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	wsWriteWait  = 5 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 30 * time.Second
)

// wsClient implements realtime.Client over a websocket connection.
// Broadcasts may arrive concurrently, and gorilla allows one writer at a time.
type wsClient struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsClient) Send(message []byte) bool {
	if c == nil || c.conn == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return c.conn.WriteMessage(websocket.TextMessage, message) == nil
}

func (c *wsClient) Close() {
	if c != nil && c.conn != nil {
		_ = c.conn.Close()
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CORS is handled at the gin level
	CheckOrigin: func(r *http.Request) bool { return true },
}

// statsSnapshot is the first frame a dashboard receives.
type statsSnapshot struct {
	Type  string      `json:"type"`
	Stats cache.Stats `json:"stats"`
	At    time.Time   `json:"at"`
}

// CacheEvents handles GET /api/admin/cache/events
// Streams cache invalidation events, starting with a snapshot of the store's
// stats. The token may come as ?token= since browsers cannot set headers here.
func (h *Handler) CacheEvents(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserID)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Log.Warn().Err(err).Str("user_id", userID).Msg("websocket upgrade")
		return
	}

	client := &wsClient{conn: conn}
	first, _ := json.Marshal(statsSnapshot{Type: "cache_stats", Stats: h.Invalidator.Stats(), At: time.Now()})
	if !client.Send(first) {
		client.Close()
		return
	}

	h.subscribe(cache.EventsTopic, client)
	h.Log.Debug().Str("user_id", userID).Msg("cache events unsubscribed")
}

// subscribe registers client on topic and blocks until the peer goes away.
func (h *Handler) subscribe(topic string, client *wsClient) {
	conn := client.conn
	h.Hub.Register(topic, client)

	done := make(chan struct{})
	defer func() {
		close(done)
		h.Hub.Unregister(topic, client)
		client.Close()
	}()

	go func() {
		ticker := time.NewTicker(wsPingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				// the read deadline ends the reader once pings stop getting through
				if conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)) != nil {
					return
				}
			}
		}
	}()

	// The feed is one-way; client frames are read only to process pongs and closes.
	conn.SetReadLimit(1024)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
