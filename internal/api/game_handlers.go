package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/chessarena/server/internal/logger"
	"github.com/chessarena/server/internal/repository"
)

type createGameRequest struct {
	TimeControlID int64  `json:"time_control_id"`
	BroadcastType string `json:"broadcast_type"`
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	game, err := s.GameService.CreateGame(r.Context(), req.TimeControlID, req.BroadcastType)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, game)
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := repository.GameFilter{Limit: 25}
	if v := q.Get("player_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			handleError(w, r, errBadParam("player_id", v))
			return
		}
		filter.PlayerID = &id
	}
	if v := q.Get("finished"); v != "" {
		finished, err := strconv.ParseBool(v)
		if err != nil {
			handleError(w, r, errBadParam("finished", v))
			return
		}
		filter.Finished = &finished
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			filter.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			filter.Offset = n
		}
	}

	games, err := s.GameService.ListGames(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"games": games})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.GameService.Snapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, snapshot)
}

type joinGameRequest struct {
	PlayerID       int64  `json:"player_id"`
	PreferredColor string `json:"preferred_color"`
}

func (s *Server) handleJoinGame(w http.ResponseWriter, r *http.Request) {
	var req joinGameRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	color, err := s.GameService.AssignColor(r.Context(), chi.URLParam(r, "id"), req.PlayerID, req.PreferredColor)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"color": color.String()})
}

type moveRequest struct {
	PlayerID  int64  `json:"player_id"`
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion"`
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	move, err := s.GameService.Move(r.Context(), chi.URLParam(r, "id"), req.PlayerID, req.From, req.To, req.Promotion)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, move)
}

type playerActionRequest struct {
	PlayerID int64 `json:"player_id"`
}

func (s *Server) handleCapitulate(w http.ResponseWriter, r *http.Request) {
	var req playerActionRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.GameService.Capitulate(r.Context(), chi.URLParam(r, "id"), req.PlayerID); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClaimDraw(w http.ResponseWriter, r *http.Request) {
	var req playerActionRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	claimed, err := s.GameService.ClaimDraw(r.Context(), chi.URLParam(r, "id"), req.PlayerID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"claimed": claimed})
}

func (s *Server) handleAgreeDraw(w http.ResponseWriter, r *http.Request) {
	var req playerActionRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	agreed, err := s.GameService.AgreeDraw(r.Context(), chi.URLParam(r, "id"), req.PlayerID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"agreed": agreed})
}

func (s *Server) handleRepeat(w http.ResponseWriter, r *http.Request) {
	game, err := s.GameService.Repeat(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, game)
}

func (s *Server) handlePGN(w http.ResponseWriter, r *http.Request) {
	pgn, err := s.GameService.PGN(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/x-chess-pgn")
	w.Write([]byte(pgn))
}

func (s *Server) handleClock(w http.ResponseWriter, r *http.Request) {
	white, black, err := s.GameService.RemainingTime(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{
		"white_remaining_seconds": white,
		"black_remaining_seconds": black,
	})
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")

	snapshot, err := s.GameService.Snapshot(r.Context(), gameID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.Hub.Subscribe(w, r, gameID, *snapshot); err != nil {
		logger.FromContext(r.Context()).Warn("subscription for game %s ended: %v", gameID, err)
	}
}

func (s *Server) handleTimeControls(w http.ResponseWriter, r *http.Request) {
	timeControls, err := s.TimeControls.List(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"time_controls": timeControls})
}
