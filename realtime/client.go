// File: /realtime/client.go
package realtime

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"

	"fitpulse-api/utils"
)

const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	timeSyncInterval = 15 * time.Second
	maxMessageSize   = 4096
)

// Envelope is the named-event frame used in both directions
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type startTrackingData struct {
	Position  []float64  `json:"position"` // [lat, lng]
	StartTime *time.Time `json:"start_time,omitempty"`
}

type locationUpdateData struct {
	Position []float64 `json:"position"` // [lat, lng]
}

type timeSyncData struct {
	ServerTime int64 `json:"server_time_ms"`
}

type errorData struct {
	Message string `json:"message"`
}

// Server upgrades authenticated connections and speaks the tracking protocol
type Server struct {
	hub       *Hub
	jwtSecret string
	upgrader  websocket.Upgrader
}

func NewServer(hub *Hub, jwtSecret string) *Server {
	return &Server{
		hub:       hub,
		jwtSecret: jwtSecret,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Client is one authenticated websocket connection
type Client struct {
	server *Server
	conn   *websocket.Conn
	userID string
	send   chan []byte
	done   chan struct{}

	syncMu   sync.Mutex
	syncStop chan struct{}
}

// HandleConnection authenticates the handshake and runs the connection. A
// missing or invalid credential rejects the connection before any event is
// delivered.
func (s *Server) HandleConnection(c *gin.Context) {
	userID, err := s.authenticate(c)
	if err != nil {
		utils.SendError(c, http.StatusUnauthorized, "Invalid or missing token")
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Websocket upgrade failed for user %s: %v", userID, err)
		return
	}

	client := &Client{
		server: s,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, 32),
		done:   make(chan struct{}),
	}

	go client.writePump()
	client.readPump()
}

func (s *Server) authenticate(c *gin.Context) (string, error) {
	tokenString := c.Query("token")
	if tokenString == "" {
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			tokenString = strings.TrimPrefix(header, "Bearer ")
		}
	}
	if tokenString == "" {
		return "", errors.New("missing token")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return "", errors.New("missing user_id claim")
	}
	return userID, nil
}

func (c *Client) readPump() {
	// Disconnect tears down only the connection and its time-sync ticker.
	// The registry entry and the persisted session stay active so the same
	// logical session survives transient network loss; the cleanup job
	// eventually expires abandoned ones.
	defer func() {
		c.stopTimeSync()
		close(c.done)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Websocket read error for user %s: %v", c.userID, err)
			}
			return
		}

		var envelope Envelope
		if err := json.Unmarshal(message, &envelope); err != nil {
			c.sendError("malformed message")
			continue
		}
		c.handleEvent(envelope)
	}
}

func (c *Client) handleEvent(envelope Envelope) {
	switch envelope.Event {
	case "start_tracking":
		var data startTrackingData
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			c.sendError("malformed start_tracking data")
			return
		}
		stats, err := c.server.hub.StartTracking(c.userID, data.Position, data.StartTime)
		if err != nil {
			c.sendError(err.Error())
			return
		}
		c.startTimeSync()
		c.sendEvent("tracking_started", stats)

	case "location_update":
		var data locationUpdateData
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			c.sendError("malformed location_update data")
			return
		}
		stats, err := c.server.hub.LocationUpdate(c.userID, data.Position)
		if err != nil {
			c.sendError(err.Error())
			return
		}
		c.sendEvent("location_ack", stats)

	case "end_tracking":
		stats, err := c.server.hub.EndTracking(c.userID)
		if err != nil {
			c.sendError(err.Error())
			return
		}
		c.stopTimeSync()
		c.sendEvent("tracking_ended", stats)

	default:
		c.sendError("unknown event: " + envelope.Event)
	}
}

// startTimeSync begins the periodic clock-reconciliation push. It is owned
// by the connection and cancelled on end_tracking and on every disconnect
// path, so tickers never outlive their connection.
func (c *Client) startTimeSync() {
	c.syncMu.Lock()
	defer c.syncMu.Unlock()
	if c.syncStop != nil {
		return
	}
	stop := make(chan struct{})
	c.syncStop = stop

	go func() {
		ticker := time.NewTicker(timeSyncInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.sendEvent("time_sync", timeSyncData{ServerTime: time.Now().UnixMilli()})
			case <-stop:
				return
			}
		}
	}()
}

func (c *Client) stopTimeSync() {
	c.syncMu.Lock()
	defer c.syncMu.Unlock()
	if c.syncStop != nil {
		close(c.syncStop)
		c.syncStop = nil
	}
}

func (c *Client) sendEvent(event string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", event, err)
		return
	}
	message, err := json.Marshal(Envelope{Event: event, Data: payload})
	if err != nil {
		return
	}
	select {
	case <-c.done:
	case c.send <- message:
	default:
		// Slow consumer; drop rather than block the tracking path
	}
}

func (c *Client) sendError(message string) {
	c.sendEvent("error", errorData{Message: message})
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
