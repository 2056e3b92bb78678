package rest

import (
	"fmt"
	"net/http"
	"time"

	"github.com/forzalabs/connectfour-backend/internal/usecase"
)

func Start(port string, lobby *usecase.Lobby) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", pingHandler)
	mux.HandleFunc("/games", gamesHandler(lobby))

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
