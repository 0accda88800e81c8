package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/dotsandboxes-backend/internal/apperror"
	"github.com/rocketscienceinc/dotsandboxes-backend/internal/entity"
	"github.com/rocketscienceinc/dotsandboxes-backend/internal/usecase"
)

const (
	shutdownTimeout = 5 * time.Second
	writeTimeout    = 10 * time.Second
)

type gameUseCase interface {
	GetGame(ctx context.Context, id string) (*entity.Game, error)
	Touch(ctx context.Context, id string, x, y float64) (*usecase.TouchResult, error)
}

type handlerFunc func(ctx context.Context, conn *websocket.Conn, gameID string, msg *Message) error

type Server struct {
	logger   *slog.Logger
	games    gameUseCase
	upgrader websocket.Upgrader

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, games gameUseCase) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		games:  games,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionState] = server.handleState
	server.handlers[actionTouch] = server.handleTouch

	return server
}

func (that *Server) RegisterRoutes(r chi.Router) {
	r.Get("/ws/{id}", that.upgrade)
}

// Start - starts WebSocket server and stops it when ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	r := chi.NewRouter()
	that.RegisterRoutes(r)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgrade - upgrades the connection and streams touches of one game.
func (that *Server) upgrade(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")
	log := that.logger.With("method", "upgrade", "gameID", gameID)

	if _, err := that.games.GetGame(r.Context(), gameID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, apperror.ErrGameNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	log.Info("WebSocket connection established")

	ctx := r.Context()
	if err = that.handleState(ctx, conn, gameID, &Message{Action: actionState}); err != nil {
		log.Error("failed to send initial state", "error", err)
		return
	}

	if err = that.handleMessages(ctx, conn, gameID); err != nil {
		log.Info("connection closed", "reason", err)
	}
}

// handleMessages - processes messages from the client until it disconnects.
func (that *Server) handleMessages(ctx context.Context, conn *websocket.Conn, gameID string) error {
	log := that.logger.With("method", "handleMessages", "gameID", gameID)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var msg Message
		if err = json.Unmarshal(data, &msg); err != nil {
			log.Warn("malformed message", "error", err)
			if err = that.sendError(conn, actionError, "malformed message", ""); err != nil {
				return err
			}
			continue
		}

		handler, ok := that.handlers[msg.Action]
		if !ok {
			log.Warn("unknown action", "action", msg.Action)
			if err = that.sendError(conn, actionError, fmt.Sprintf("unknown action %q", msg.Action), ""); err != nil {
				return err
			}
			continue
		}

		if err = handler(ctx, conn, gameID, &msg); err != nil {
			return err
		}
	}
}

func (that *Server) handleState(ctx context.Context, conn *websocket.Conn, gameID string, msg *Message) error {
	game, err := that.games.GetGame(ctx, gameID)
	if err != nil {
		return that.sendError(conn, msg.Action, err.Error(), apperror.Reason(err))
	}

	return that.sendMessage(conn, msg.Action, Payload{Game: game})
}

func (that *Server) handleTouch(ctx context.Context, conn *websocket.Conn, gameID string, msg *Message) error {
	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil || payloadReq.Touch == nil {
		return that.sendError(conn, msg.Action, "touch is required", "")
	}

	result, err := that.games.Touch(ctx, gameID, payloadReq.Touch.X, payloadReq.Touch.Y)
	if err != nil {
		payload := Payload{Error: err.Error(), Reason: apperror.Reason(err)}
		if result != nil {
			payload.Game = result.Game
		}

		if payload.Reason == "" {
			that.logger.Error("failed to apply touch", "gameID", gameID, "error", err)
			payload.Error = "internal error"
		}

		return that.sendMessage(conn, msg.Action, payload)
	}

	return that.sendMessage(conn, msg.Action, Payload{Game: result.Game, Placement: &result.Placement})
}

func (that *Server) sendError(conn *websocket.Conn, action, text, reason string) error {
	return that.sendMessage(conn, action, Payload{Error: text, Reason: reason})
}

func (that *Server) sendMessage(conn *websocket.Conn, action string, payload Payload) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	if err = conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err = conn.WriteJSON(Message{Action: action, Payload: payloadJSON}); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}
