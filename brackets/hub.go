package brackets

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Update types pushed to tournament rooms.
const (
	UpdateMatchStatus = "MATCH_STATUS"
	UpdateMatchScore  = "MATCH_SCORE"
	UpdateEvent       = "MATCH_EVENT"
	UpdateStandings   = "STANDINGS"
	UpdateBracket     = "BRACKET_ADVANCED"
	UpdateSchedule    = "SCHEDULE_REGENERATED"
)

// UpdateMessage is the envelope pushed to subscribers of a tournament room.
type UpdateMessage struct {
	Type         string      `json:"type"`
	TournamentID int         `json:"tournament_id"`
	Payload      interface{} `json:"payload"`
}

type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	room string
}

// Hub fans live tournament updates out to websocket subscribers. One room per
// tournament; clients only ever receive, inbound frames are discarded.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	rooms      map[string]map[*Client]bool
	mu         sync.RWMutex
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.rooms[client.room]; !ok {
				h.rooms[client.room] = make(map[*Client]bool)
			}
			h.rooms[client.room][client] = true
			h.logger.Debug("websocket client registered",
				slog.String("room", client.room),
				slog.Int("room_size", len(h.rooms[client.room])))
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.room]; ok {
				if _, present := clients[client]; present {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.rooms, client.room)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// NewClient attaches an upgraded connection to a tournament room and starts
// its pumps.
func (h *Hub) NewClient(conn *websocket.Conn, tournamentID int) *Client {
	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 256),
		room: roomID(tournamentID),
	}
	h.register <- client
	go client.writePump()
	go client.readPump()
	return client
}

// Publish pushes an update to every subscriber of the tournament's room.
// Slow clients are skipped rather than blocking the caller.
func (h *Hub) Publish(tournamentID int, updateType string, payload interface{}) {
	msg := UpdateMessage{
		Type:         updateType,
		TournamentID: tournamentID,
		Payload:      payload,
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("failed to marshal websocket update", slog.Any("error", err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.rooms[roomID(tournamentID)] {
		select {
		case client.send <- raw:
		default:
			h.logger.Warn("dropping update for slow websocket client",
				slog.Int("tournament_id", tournamentID))
		}
	}
}

func roomID(tournamentID int) string {
	return "tournament_" + strconv.Itoa(tournamentID)
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
		// Inbound frames are ignored; the hub is one-way.
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
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
