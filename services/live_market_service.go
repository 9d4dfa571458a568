package services

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"nivesh_pathshala/services/marketdata"
)

// Constants for service configuration
const (
	MaxWebSocketClients   = 100 // Maximum concurrent WebSocket clients
	WebSocketWriteTimeout = 10 * time.Second
	WebSocketPongTimeout  = 60 * time.Second
	WebSocketPingInterval = 30 * time.Second
	LiveBroadcastInterval = 15 * time.Second
)

// WebSocketMessage is the envelope broadcast to clients.
type WebSocketMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
	Time string      `json:"time"`
}

// wsClient is one connected WebSocket peer.
type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// LiveMarketService streams the live index and stock basket over
// WebSocket. Quotes come from the shared quote service so the hub
// rides the same cache and fallback chain as the REST endpoints.
type LiveMarketService struct {
	quotes *marketdata.QuoteService

	clients    map[*wsClient]bool
	broadcast  chan WebSocketMessage
	register   chan *wsClient
	unregister chan *wsClient
	shutdown   chan struct{}
	mu         sync.RWMutex
	upgrader   websocket.Upgrader

	isRunning bool
	stopChan  chan struct{}
}

// Global live market service
var GlobalLiveMarket *LiveMarketService

// InitLiveMarketService initializes the hub and starts it.
func InitLiveMarketService(quotes *marketdata.QuoteService) {
	GlobalLiveMarket = &LiveMarketService{
		quotes:     quotes,
		clients:    make(map[*wsClient]bool),
		broadcast:  make(chan WebSocketMessage, 256),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		shutdown:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		stopChan: make(chan struct{}),
	}

	go GlobalLiveMarket.run()

	log.Println("Live market service initialized")
}

// Shutdown stops broadcasting and closes every connection.
func (s *LiveMarketService) Shutdown() {
	s.StopBroadcasting()
	close(s.shutdown)

	s.mu.Lock()
	for client := range s.clients {
		close(client.send)
		client.conn.Close()
	}
	s.clients = make(map[*wsClient]bool)
	s.mu.Unlock()

	log.Println("Live market service shutdown complete")
}

// run is the hub loop.
func (s *LiveMarketService) run() {
	for {
		select {
		case <-s.shutdown:
			return

		case client := <-s.register:
			s.mu.Lock()
			if len(s.clients) >= MaxWebSocketClients {
				s.mu.Unlock()
				client.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "Server at capacity"))
				client.conn.Close()
				log.Printf("WebSocket client rejected: max clients reached (%d)", MaxWebSocketClients)
				continue
			}
			s.clients[client] = true
			clientCount := len(s.clients)
			s.mu.Unlock()
			log.Printf("WebSocket client connected. Total clients: %d", clientCount)

		case client := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.clients[client]; ok {
				delete(s.clients, client)
				close(client.send)
			}
			clientCount := len(s.clients)
			s.mu.Unlock()
			log.Printf("WebSocket client disconnected. Total clients: %d", clientCount)

		case message := <-s.broadcast:
			data, err := json.Marshal(message)
			if err != nil {
				log.Printf("Error marshaling broadcast message: %v", err)
				continue
			}

			s.mu.Lock()
			deadClients := make([]*wsClient, 0)
			for client := range s.clients {
				select {
				case client.send <- data:
				default:
					// Client buffer full, mark for removal
					deadClients = append(deadClients, client)
				}
			}
			for _, client := range deadClients {
				delete(s.clients, client)
				close(client.send)
			}
			s.mu.Unlock()
		}
	}
}

// HandleWebSocket upgrades the connection and registers the client.
func (s *LiveMarketService) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	atCapacity := len(s.clients) >= MaxWebSocketClients
	s.mu.RUnlock()

	if atCapacity {
		http.Error(w, "Server at capacity", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := &wsClient{
		conn: conn,
		send: make(chan []byte, 256),
	}

	s.register <- client

	go client.writePump()
	go client.readPump(s)

	// New clients get the current basket immediately instead of
	// waiting for the next tick.
	go s.sendLiveToClient(client)
}

// writePump writes messages to the WebSocket connection.
func (c *wsClient) writePump() {
	ticker := time.NewTicker(WebSocketPingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(WebSocketWriteTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(WebSocketWriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump reads messages from the WebSocket connection.
func (c *wsClient) readPump(s *LiveMarketService) {
	defer func() {
		s.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(WebSocketPongTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(WebSocketPongTimeout))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			break
		}

		var cmd struct {
			Action string `json:"action"`
		}
		if err := json.Unmarshal(message, &cmd); err != nil {
			continue
		}

		switch cmd.Action {
		case "get_live":
			s.sendLiveToClient(c)
		}
	}
}

// StartBroadcasting begins the periodic live basket push.
func (s *LiveMarketService) StartBroadcasting() {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.mu.Unlock()

	go s.broadcastLoop()
	log.Printf("Live market broadcasting started (interval: %v)", LiveBroadcastInterval)
}

// StopBroadcasting stops the periodic push.
func (s *LiveMarketService) StopBroadcasting() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}
	close(s.stopChan)
	s.isRunning = false
	log.Println("Live market broadcasting stopped")
}

func (s *LiveMarketService) broadcastLoop() {
	ticker := time.NewTicker(LiveBroadcastInterval)
	defer ticker.Stop()

	s.broadcastLive()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.broadcastLive()
		}
	}
}

// broadcastLive pushes the live basket to every client. Skipped when
// nobody is listening so idle servers stay quiet.
func (s *LiveMarketService) broadcastLive() {
	s.mu.RLock()
	clientCount := len(s.clients)
	s.mu.RUnlock()
	if clientCount == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	quotes := s.quotes.Live(ctx)
	s.broadcast <- WebSocketMessage{
		Type: "live",
		Data: quotes,
		Time: time.Now().Format(time.RFC3339),
	}
}

// sendLiveToClient pushes the current basket to one client.
func (s *LiveMarketService) sendLiveToClient(c *wsClient) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	quotes := s.quotes.Live(ctx)
	msg := WebSocketMessage{
		Type: "live",
		Data: quotes,
		Time: time.Now().Format(time.RFC3339),
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	select {
	case c.send <- data:
	default:
		// Client buffer full, skip
	}
}

// GetClientCount returns the number of connected clients.
func (s *LiveMarketService) GetClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// GetStatus returns service status info.
func (s *LiveMarketService) GetStatus() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"is_broadcasting":    s.isRunning,
		"client_count":       len(s.clients),
		"max_clients":        MaxWebSocketClients,
		"broadcast_interval": LiveBroadcastInterval.String(),
	}
}
