package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
)

const (
	shutdownTimeout = 5 * time.Second
	closeTimeout    = time.Second
)

type gameManager interface {
	CreateGame(ctx context.Context) (*entity.GameView, error)
	GetGame(ctx context.Context, id string) (*entity.GameView, error)
	Play(ctx context.Context, id string, cell int) (*entity.GameView, error)
	JumpTo(ctx context.Context, id string, move int) (*entity.GameView, error)
	ToggleSortOrder(ctx context.Context, id string) (*entity.GameView, error)
	DestroyGame(ctx context.Context, id string) error
}

type handlerFunc func(ctx context.Context, payload *Payload) (*entity.GameView, error)

type Server struct {
	logger      *slog.Logger
	gameManager gameManager
	upgrader    websocket.Upgrader

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, gameManager gameManager) *Server {
	server := &Server{
		logger:      logger.With("component", "websocket"),
		gameManager: gameManager,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[ActionNewGame] = server.handleNewGame
	server.handlers[ActionGetGame] = server.handleGetGame
	server.handlers[ActionPlay] = server.handlePlay
	server.handlers[ActionJump] = server.handleJump
	server.handlers[ActionSort] = server.handleSort
	server.handlers[ActionCloseGame] = server.handleCloseGame

	return server
}

// Handler - returns the http handler serving the /ws endpoint.
func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	return mux
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     that.Handler(ctx),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection to WebSocket.
func (that *Server) upgradeToWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeConnection")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	defer conn.Close()

	log.Info("WebSocket connection established")

	if err = that.handleMessages(ctx, conn); err != nil {
		log.Error("error handling messages", "error", err)
	}
}

// handleMessages - processes messages from the client until it disconnects or ctx is done.
func (that *Server) handleMessages(ctx context.Context, conn *websocket.Conn) error {
	log := that.logger.With("method", "handleMessages")

	stop := context.AfterFunc(ctx, func() {
		closeMessage := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown")
		_ = conn.WriteControl(websocket.CloseMessage, closeMessage, time.Now().Add(closeTimeout))
		_ = conn.Close()
	})
	defer stop()

	for {
		var message Message
		if err := conn.ReadJSON(&message); err != nil {
			if ctx.Err() != nil {
				log.Info("connection closed on shutdown")
				return nil
			}

			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}

			return fmt.Errorf("failed to read message: %w", err)
		}

		response := that.processMessage(ctx, &message)

		if err := conn.WriteJSON(response); err != nil {
			return fmt.Errorf("failed to write message: %w", err)
		}

		if response.Payload.Error != "" {
			log.Debug("action rejected", "action", message.Action, "error", response.Payload.Error)
		}
	}
}
