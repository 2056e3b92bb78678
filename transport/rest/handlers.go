package rest

import (
	"encoding/json"
	"net/http"

	"github.com/forzalabs/connectfour-backend/internal/usecase"
)

func pingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

type gameListing struct {
	ID      int    `json:"id"`
	Creator string `json:"creator"`
	Status  string `json:"status"`
}

// gamesHandler exposes a read-only view of the lobby.
func gamesHandler(lobby *usecase.Lobby) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		listings := lobby.List()

		games := make([]gameListing, 0, len(listings))
		for _, listing := range listings {
			games = append(games, gameListing{
				ID:      listing.ID,
				Creator: listing.Creator,
				Status:  listing.Status,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(games); err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
	}
}
