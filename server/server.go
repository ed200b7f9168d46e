package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/lazharichir/cardcounter/cards"
	"github.com/lazharichir/cardcounter/events"
	"github.com/lazharichir/cardcounter/game"
	"github.com/lazharichir/cardcounter/server/connection"
	serverevents "github.com/lazharichir/cardcounter/server/events"
	"github.com/lazharichir/cardcounter/server/handlers"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // the trainer is served to a single local browser
	},
}

// Server exposes one game to presentation clients over REST and websocket
type Server struct {
	session    *handlers.Session
	connMgr    *connection.Manager
	cmdRouter  *handlers.CommandRouter
	dispatcher *serverevents.Dispatcher
	recent     *events.RecentDraws
	router     *gin.Engine
}

// Hello is sent to every client as it connects
type Hello struct {
	ClientID    string        `json:"clientId"`
	Snapshot    game.Snapshot `json:"snapshot"`
	RecentDraws []cards.Card  `json:"recentDraws"`
}

// NewServer creates a server around session and starts its connection
// manager. Game events must be routed to HandleEvent so they reach
// connected clients. Call Close when done.
func NewServer(session *handlers.Session, recent *events.RecentDraws, debug bool) *Server {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	connMgr := connection.NewManager()
	s := &Server{
		session:    session,
		connMgr:    connMgr,
		cmdRouter:  handlers.NewCommandRouter(session, connMgr),
		dispatcher: serverevents.NewDispatcher(connMgr, debug),
		recent:     recent,
	}

	router := gin.New()
	router.Use(gin.Recovery(), corsMiddleware())
	if debug {
		router.Use(gin.Logger())
	}

	router.GET("/ws", s.handleWebSocket)
	api := router.Group("/api")
	api.GET("/snapshot", s.handleGetSnapshot)
	api.POST("/draw", s.handleDraw)
	api.POST("/reshuffle", s.handleReshuffle)
	api.GET("/recent", s.handleGetRecent)
	api.GET("/settings", s.handleGetSettings)
	api.PUT("/settings", s.handleUpdateSettings)
	api.POST("/settings/reload", s.handleReloadSettings)

	s.router = router
	go connMgr.Start()
	return s
}

// Close disconnects every client
func (s *Server) Close() {
	s.connMgr.Stop()
}

// HandleEvent forwards a game event to every connected client
func (s *Server) HandleEvent(event events.Event) {
	s.dispatcher.HandleEvent(event)
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on port until ctx is cancelled
func (s *Server) Start(ctx context.Context, port string) error {
	defer s.Close()

	srv := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on port %s", port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Println("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// corsMiddleware adds CORS headers to all responses
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight requests
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}

// handleWebSocket handles incoming WebSocket connections
func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Error upgrading to WebSocket: %v", err)
		return
	}

	client := connection.NewClient(uuid.NewString(), conn)
	log.Printf("New client connected: %s with ID: %s", c.Request.RemoteAddr, client.ID)

	// queued before registering so it is always the first message
	s.sendHello(client)
	if !s.connMgr.Join(client) {
		log.Printf("Refusing client %s: server is shutting down", client.ID)
		conn.Close()
		return
	}

	go s.readPump(client)
	go s.writePump(client)
}

// readPump reads commands from the WebSocket connection
func (s *Server) readPump(client *connection.Client) {
	defer func() {
		s.connMgr.Leave(client)
		client.Conn.Close()
	}()

	for {
		_, message, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Error: %v", err)
			}
			break
		}

		if err := s.cmdRouter.HandleCommand(context.Background(), client, message); err != nil {
			log.Printf("Error handling command: %v", err)
		}
	}
}

// writePump sends queued messages to the WebSocket connection
func (s *Server) writePump(client *connection.Client) {
	defer func() {
		client.Conn.Close()
	}()

	for message := range client.Send {
		if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("Error writing message: %v", err)
			return
		}
	}
	client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}

func (s *Server) sendHello(client *connection.Client) {
	data, err := serverevents.Encode("HELLO", Hello{
		ClientID:    client.ID,
		Snapshot:    s.session.Snapshot(),
		RecentDraws: s.recentCards(),
	})
	if err != nil {
		log.Printf("Error encoding HELLO: %v", err)
		return
	}
	client.Send <- data
}

func (s *Server) recentCards() []cards.Card {
	recent := []cards.Card{}
	for _, e := range s.recent.Events() {
		if drawn, ok := e.(events.CardDrawn); ok {
			recent = append(recent, drawn.Card)
		}
	}
	return recent
}

func (s *Server) handleGetSnapshot(c *gin.Context) {
	c.JSON(http.StatusOK, s.session.Snapshot())
}

func (s *Server) handleDraw(c *gin.Context) {
	card, snapshot, err := s.session.Draw(c.Request.Context())
	if errors.Is(err, cards.ErrShoeEmpty) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "snapshot": snapshot})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, handlers.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, handlers.DrawResult{Card: &card, Snapshot: snapshot})
}

func (s *Server) handleReshuffle(c *gin.Context) {
	c.JSON(http.StatusOK, s.session.Reshuffle(c.Request.Context()))
}

func (s *Server) handleGetRecent(c *gin.Context) {
	c.JSON(http.StatusOK, s.recentCards())
}

func (s *Server) handleGetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, s.session.Settings())
}

func (s *Server) handleUpdateSettings(c *gin.Context) {
	var cmd handlers.UpdateSettings
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, handlers.ErrorResponse{Error: err.Error()})
		return
	}

	settings, err := cmd.ToSettings()
	if err != nil {
		c.JSON(http.StatusBadRequest, handlers.ErrorResponse{Error: err.Error()})
		return
	}

	snapshot, err := s.session.UpdateSettings(c.Request.Context(), settings)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, handlers.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (s *Server) handleReloadSettings(c *gin.Context) {
	c.JSON(http.StatusOK, s.session.ReloadSettings(c.Request.Context()))
}
