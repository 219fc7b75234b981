package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/RyanMcMahon/BoardGameStar-sub000/internal/catalog"
	"github.com/RyanMcMahon/BoardGameStar-sub000/internal/hub"
	"github.com/RyanMcMahon/BoardGameStar-sub000/internal/lobby"
	"github.com/RyanMcMahon/BoardGameStar-sub000/internal/ws"
)

type Deps struct {
	Hub     *hub.Hub
	Catalog catalog.Store
	// Lobby holds the defaults for every hosted game; a create request may
	// still ask for assets to be pushed.
	Lobby      lobby.Options
	MaxPlayers int
	WS         ws.Options
}

func SetupRoutes(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	// Public routes
	r.Get("/healthz", Healthz)
	r.Get("/games", ListGames(d.Catalog))
	r.Post("/lobbies", CreateLobby(d))
	r.Get("/ws", ws.Handler(d.Hub, d.WS))
	return r
}
