package httpapi

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"math/big"
	randv2 "math/rand/v2"
	"net/http"

	"go.uber.org/zap"

	"github.com/RyanMcMahon/BoardGameStar-sub000/internal/catalog"
)

func GenerateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, 6)
	for i := 0; i < 6; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

type createLobbyRequest struct {
	GameID     string `json:"gameId"`
	SendAssets *bool  `json:"sendAssets,omitempty"`
}

type createLobbyResponse struct {
	Code string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// CreateLobby hosts a catalog game under a fresh six-character code.
func CreateLobby(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createLobbyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.GameID == "" {
			http.Error(w, "gameId required", http.StatusBadRequest)
			return
		}

		game, err := d.Catalog.Get(r.Context(), req.GameID)
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			http.Error(w, "game not found", http.StatusNotFound)
			return
		case err != nil:
			zap.L().Error("load game", zap.String("game", req.GameID), zap.Error(err))
			http.Error(w, "failed to load game", http.StatusInternalServerError)
			return
		}
		if game.MaxPlayers <= 0 {
			game.MaxPlayers = d.MaxPlayers
		}

		opts := d.Lobby
		if req.SendAssets != nil {
			opts.SendAssets = *req.SendAssets
		}
		opts.Seed = randv2.Uint64()

		var code string
		for {
			c, err := GenerateCode()
			if err != nil {
				http.Error(w, "failed to generate code", http.StatusInternalServerError)
				return
			}
			if d.Hub.Lookup(r.Context(), c) == nil {
				code = c
				break
			}
			zap.L().Debug("collision on code, regenerating", zap.String("code", c))
		}

		if _, err := d.Hub.Create(r.Context(), code, game, opts); err != nil {
			zap.L().Error("create lobby", zap.String("game", req.GameID), zap.Error(err))
			http.Error(w, "failed to create lobby", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, createLobbyResponse{Code: code})
	}
}

// ListGames serves the catalog. Games that fail to load are logged and left
// out rather than failing the listing.
func ListGames(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		games, err := store.List(r.Context())
		if err != nil {
			zap.L().Warn("catalog listing incomplete", zap.Error(err))
			if games == nil {
				http.Error(w, "catalog unavailable", http.StatusInternalServerError)
				return
			}
		}
		if games == nil {
			games = []catalog.Summary{}
		}
		writeJSON(w, http.StatusOK, games)
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
