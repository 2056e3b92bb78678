package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/forzalabs/connectfour-backend/internal/config"
	"github.com/forzalabs/connectfour-backend/internal/registry"
	"github.com/forzalabs/connectfour-backend/internal/repository"
	"github.com/forzalabs/connectfour-backend/internal/repository/storage"
	"github.com/forzalabs/connectfour-backend/internal/transport/session"
	"github.com/forzalabs/connectfour-backend/internal/transport/telnet"
	"github.com/forzalabs/connectfour-backend/internal/transport/websocket"
	"github.com/forzalabs/connectfour-backend/internal/usecase"
	"github.com/forzalabs/connectfour-backend/transport/rest"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	// The archive is optional; without redis the server runs standalone
	// and finished games are simply not recorded.
	var archive repository.ArchiveRepository

	if addr := conf.Redis.GetRedisAddr(); addr != "" {
		redisClient, err := storage.New(ctx, addr)
		if err != nil {
			return fmt.Errorf("could not connect to redis storage: %w", err)
		}

		defer func() {
			if err = redisClient.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		archive = repository.NewArchiveRepository(redisClient)
	} else {
		log.Info("redis not configured, game archive disabled")
	}

	clients := registry.NewClientRegistry(conf.MaxClients)
	games := registry.NewGameRegistry(conf.MaxGames)

	table := session.NewTable()
	lobby := usecase.NewLobby(logger, clients, games, table, archive)
	handler := session.New(logger, lobby, table)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.Start(conf.HTTPPort, lobby); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run WebSocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, handler)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	// run telnet server
	telnetErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting telnet server", "port", conf.TelnetPort)
		telnetServer := telnet.New(logger, handler)
		if telnetErr := telnetServer.Start(ctx, conf.TelnetPort); telnetErr != nil {
			log.Error("telnet server error", "error", telnetErr)
			telnetErrCh <- telnetErr
		}
	}()

	select {
	case err := <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err := <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case err := <-telnetErrCh:
		return fmt.Errorf("telnet server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
