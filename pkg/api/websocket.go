package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
	wsMaxMessage = 64 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS policy is applied by the server middleware
	},
}

// WSMessage is a generic WebSocket message.
type WSMessage struct {
	Type    string          `json:"type"`    // Message type: "moves", "summary", "ping"
	ID      string          `json:"id"`      // Request ID for correlating responses
	Payload json.RawMessage `json:"payload"` // Type-specific payload
}

// WSResponse is a generic WebSocket response.
type WSResponse struct {
	Type    string      `json:"type"`              // Response type: "result", "error", "pong"
	ID      string      `json:"id,omitempty"`      // Request ID
	Payload interface{} `json:"payload,omitempty"` // Response data
	Error   string      `json:"error,omitempty"`   // Error message if any
	Code    string      `json:"code,omitempty"`    // Error code if any
}

// WSClient represents a connected WebSocket client.
type WSClient struct {
	conn     *websocket.Conn
	handlers *Handlers
	sendChan chan WSResponse
	ctx      context.Context
}

// WebSocket handles WebSocket connections for interactive play lookup.
// Requests on one connection are answered in order.
func (h *Handlers) WebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("websocket upgrade failed")
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := &WSClient{conn: conn, handlers: h, sendChan: make(chan WSResponse, 256), ctx: ctx}
	log.Debug().Str("remote", r.RemoteAddr).Msg("websocket connected")
	go client.writePump()
	client.readPump()
	log.Debug().Str("remote", r.RemoteAddr).Msg("websocket closed")
}

func (c *WSClient) writePump() {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.sendChan:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *WSClient) readPump() {
	defer func() { close(c.sendChan) }()
	c.conn.SetReadLimit(wsMaxMessage)
	c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		var msg WSMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}
		c.sendChan <- c.handleMessage(msg)
	}
}

func (c *WSClient) handleMessage(msg WSMessage) WSResponse {
	switch msg.Type {
	case "moves":
		var req MovesRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return WSResponse{Type: "error", ID: msg.ID, Error: "invalid payload", Code: "INVALID_JSON"}
		}
		resp, err := c.handlers.moves(c.ctx, req)
		return wsResult(msg.ID, resp, err)
	case "summary":
		var req SummaryRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return WSResponse{Type: "error", ID: msg.ID, Error: "invalid payload", Code: "INVALID_JSON"}
		}
		resp, err := c.handlers.summarize(c.ctx, req)
		return wsResult(msg.ID, resp, err)
	case "ping":
		return WSResponse{Type: "pong", ID: msg.ID}
	}
	return WSResponse{Type: "error", ID: msg.ID, Error: "unknown message type", Code: "UNKNOWN_TYPE"}
}

func wsResult(id string, payload interface{}, err error) WSResponse {
	if err != nil {
		resp := WSResponse{Type: "error", ID: id, Error: err.Error(), Code: "INTERNAL"}
		if re, ok := err.(*requestError); ok {
			resp.Code = re.code
		}
		return resp
	}
	return WSResponse{Type: "result", ID: id, Payload: payload}
}
