// Package websocket serves the same text protocol over websocket: one text
// frame in is one command line, one text frame out is one message.
package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/forzalabs/connectfour-backend/internal/transport/session"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type Server struct {
	logger  *slog.Logger
	handler *session.Handler
}

func New(logger *slog.Logger, handler *session.Handler) *Server {
	return &Server{
		logger:  logger.With("component", "websocket"),
		handler: handler,
	}
}

// Start serves /ws until ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveWS(ctx, w, r)
	})

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 0, // a player may hold up a game indefinitely
		IdleTimeout: 0,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) serveWS(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		that.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	that.logger.Info("websocket connection established", "remote", wsConn.RemoteAddr().String())

	that.handler.Handle(ctx, &conn{ws: wsConn})
}

// conn adapts a websocket connection to session.Conn. gorilla allows one
// concurrent writer, so writes are serialized behind a mutex.
type conn struct {
	ws *websocket.Conn

	writeMu sync.Mutex
}

func (that *conn) ReadLine() (string, error) {
	for {
		messageType, payload, err := that.ws.ReadMessage()
		if err != nil {
			return "", fmt.Errorf("failed to read message: %w", err)
		}

		if messageType != websocket.TextMessage {
			continue
		}

		return string(payload), nil
	}
}

func (that *conn) WriteString(s string) error {
	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	_ = that.ws.SetWriteDeadline(time.Now().Add(writeWait))

	if err := that.ws.WriteMessage(websocket.TextMessage, []byte(s)); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *conn) Close() error {
	return that.ws.Close()
}
