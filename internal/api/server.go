package api

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/chessarena/server/internal/broadcast"
	"github.com/chessarena/server/internal/repository"
	"github.com/chessarena/server/internal/services"
)

type Server struct {
	DB            *sql.DB
	GameService   services.GameService
	PlayerService services.PlayerService
	TimeControls  repository.TimeControlRepository
	Hub           *broadcast.Hub
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Get("/time-controls", s.handleTimeControls)

	r.Post("/players", s.handleCreatePlayer)
	r.Get("/players", s.handleListPlayers)
	r.Get("/players/{id}", s.handleGetPlayer)

	r.Post("/games", s.handleCreateGame)
	r.Get("/games", s.handleListGames)
	r.Get("/games/{id}", s.handleGetGame)
	r.Post("/games/{id}/join", s.handleJoinGame)
	r.Post("/games/{id}/moves", s.handleMove)
	r.Post("/games/{id}/capitulate", s.handleCapitulate)
	r.Post("/games/{id}/claim-draw", s.handleClaimDraw)
	r.Post("/games/{id}/agree-draw", s.handleAgreeDraw)
	r.Post("/games/{id}/repeat", s.handleRepeat)
	r.Get("/games/{id}/pgn", s.handlePGN)
	r.Get("/games/{id}/clock", s.handleClock)
	r.Get("/games/{id}/ws", s.handleSubscribe)

	return r
}
