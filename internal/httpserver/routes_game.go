// internal/httpserver/routes_game.go
//
// HTTP routes for free play. Every mutation goes through store.Update, so a
// session is never touched by two requests at once.
//   - POST /game/new                → create a session (default or requested size)
//   - GET  /game/{id}               → current state
//   - POST /game/click              → toggle a queen at row/column
//   - POST /game/reset              → empty the board, keep the size
//   - POST /game/size               → switch to another board size
//   - POST /game/choose-size        → ask the client to open size selection
//   - POST /game/conflicts-shown    → acknowledge the conflicts of a rejected click
//   - POST /game/feedback-consumed  → acknowledge the feedback cue
//
// Each round of a session (the first board, then every reset or resize) is
// recorded as one row in the games table; user stats move when a round ends.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/hamomel/queens/server/internal/auth"
	"github.com/hamomel/queens/server/internal/board"
	"github.com/hamomel/queens/server/internal/game"
	"github.com/hamomel/queens/server/internal/metrics"
	"github.com/hamomel/queens/server/internal/results"
	"github.com/hamomel/queens/server/internal/store"
)

const modeClassic = "classic"

// mountGame registers all /game routes.
func (s *Server) mountGame(r chi.Router) {
	r.Route("/game", func(r chi.Router) {
		r.Post("/new", s.handleNewGame)
		r.Get("/{id}", s.handleGetGame)
		r.Post("/click", s.handleClick)
		r.Post("/reset", s.handleSimple(func(g *game.Session) error { g.Reset(); return nil }))
		r.Post("/size", s.handleChangeSize)
		r.Post("/choose-size", s.handleSimple(func(g *game.Session) error { g.ChooseBoardSize(); return nil }))
		r.Post("/conflicts-shown", s.handleSimple(func(g *game.Session) error { g.ConflictsShown(); return nil }))
		r.Post("/feedback-consumed", s.handleSimple(func(g *game.Session) error { g.FeedbackConsumed(); return nil }))
	})
}

// gameRes is the common response of every /game route.
type gameRes struct {
	GameID string         `json:"gameId"`
	Size   int            `json:"size"`
	State  game.ViewState `json:"state"`
	Events []game.Event   `json:"events"`
}

type newGameReq struct {
	Size int `json:"size"` // 0 selects the default size
}

type gameIDReq struct {
	GameID string `json:"gameId"`
}

type clickReq struct {
	GameID string `json:"gameId"`
	Row    int    `json:"row"`
	Column int    `json:"column"`
}

type sizeReq struct {
	GameID string `json:"gameId"`
	Size   int    `json:"size"`
}

// roundInfo is what the results store needs to know about a session's round.
type roundInfo struct {
	round     int
	size      int
	moves     int
	queens    int
	won       bool
	startedAt time.Time
}

func roundOf(g *game.Session) roundInfo {
	return roundInfo{
		round:     g.Round(),
		size:      g.Size(),
		moves:     g.Moves(),
		queens:    g.Queens(),
		won:       g.Won(),
		startedAt: g.StartedAt,
	}
}

// gameRowID names the games row of a round.
func gameRowID(sessionID string, round int) string {
	if round == 0 {
		return sessionID
	}
	return fmt.Sprintf("%s.%d", sessionID, round)
}

func snapshot(g *game.Session) gameRes {
	return gameRes{GameID: g.ID, Size: g.Size(), State: g.State(), Events: g.DrainEvents()}
}

// owner returns the logged-in user or the anonymous cookie id (set if missing).
func (s *Server) owner(w http.ResponseWriter, r *http.Request) results.Owner {
	if me := auth.FromContext(r.Context()); me != nil {
		return results.Owner{UserID: me.ID}
	}
	return results.Owner{AnonymousID: s.auth.Cookies.EnsureAnonID(w, r)}
}

// writeSessionError maps session and store errors to HTTP statuses.
func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, board.ErrOutOfBounds), errors.Is(err, board.ErrInvalidSize), errors.Is(err, game.ErrBoardSize):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Error().Err(err).Msg("session update")
		writeError(w, http.StatusInternalServerError, "server_error")
	}
}

// mutate applies fn to the session under the store lock and captures the
// round before and after along with the response snapshot.
func (s *Server) mutate(ctx context.Context, id string, fn func(*game.Session) error) (before, after roundInfo, res gameRes, err error) {
	err = s.sessions.Update(ctx, id, func(g *game.Session) error {
		before = roundOf(g)
		if err := fn(g); err != nil {
			return err
		}
		after = roundOf(g)
		res = snapshot(g)
		return nil
	})
	return before, after, res, err
}

// recordRound persists round transitions: a finished round is closed (won or
// abandoned) and a restart opens a new row. Failures are logged, not returned.
func (s *Server) recordRound(ctx context.Context, owner results.Owner, id string, before, after roundInfo) {
	switch {
	case after.round != before.round:
		if !before.won {
			s.finishRound(ctx, owner, gameRowID(id, before.round), results.StatusAbandoned, before)
		}
		if err := s.results.StartGame(ctx, gameRowID(id, after.round), owner, after.size, after.startedAt); err != nil {
			log.Warn().Err(err).Str("gameId", id).Msg("start round")
		}
	case after.won && !before.won:
		s.metrics.Win(after.size)
		s.finishRound(ctx, owner, gameRowID(id, after.round), results.StatusWon, after)
	}
}

func (s *Server) finishRound(ctx context.Context, owner results.Owner, rowID, status string, info roundInfo) {
	finished, err := s.results.FinishGame(ctx, rowID, owner, status, info.moves)
	if err != nil {
		log.Warn().Err(err).Str("gameId", rowID).Msg("finish game")
		return
	}
	// stats follow the row: another player's game or a closed round moves nothing
	if !finished {
		return
	}
	// untouched boards do not count against a streak
	if owner.UserID == "" || (status == results.StatusAbandoned && info.moves == 0) {
		return
	}
	if err := s.results.BumpStats(ctx, owner.UserID, status == results.StatusWon); err != nil {
		log.Warn().Err(err).Str("user", owner.UserID).Msg("bump stats")
	}
}

// handleNewGame creates a session and records its first round.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_json")
			return
		}
	}
	g, err := game.New(s.engine, req.Size)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	if err := s.sessions.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	owner := s.owner(w, r)
	if err := s.results.StartGame(r.Context(), g.ID, owner, g.Size(), g.StartedAt); err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("insert game row")
	}
	s.metrics.GameStarted(modeClassic, g.Size())
	writeJSON(w, http.StatusOK, snapshot(g))
}

// handleGetGame returns the current state without draining events.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	var res gameRes
	err := s.sessions.Update(r.Context(), chi.URLParam(r, "id"), func(g *game.Session) error {
		res = gameRes{GameID: g.ID, Size: g.Size(), State: g.State(), Events: []game.Event{}}
		return nil
	})
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleClick toggles a queen and records a win.
func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	var req clickReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	before, after, res, err := s.mutate(r.Context(), req.GameID, func(g *game.Session) error {
		return g.Click(board.Pos(req.Row, req.Column))
	})
	if err != nil {
		writeSessionError(w, err)
		return
	}
	s.metrics.Click(clickOutcome(before, after))
	s.recordRound(r.Context(), s.owner(w, r), req.GameID, before, after)
	writeJSON(w, http.StatusOK, res)
}

func clickOutcome(before, after roundInfo) string {
	switch {
	case after.queens > before.queens:
		return metrics.OutcomePlaced
	case after.queens < before.queens:
		return metrics.OutcomeRemoved
	case before.won:
		return metrics.OutcomeIgnored
	default:
		return metrics.OutcomeRejected
	}
}

// handleChangeSize switches the board size of a session.
func (s *Server) handleChangeSize(w http.ResponseWriter, r *http.Request) {
	var req sizeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	before, after, res, err := s.mutate(r.Context(), req.GameID, func(g *game.Session) error {
		return g.ChangeSize(req.Size)
	})
	if err != nil {
		writeSessionError(w, err)
		return
	}
	if after.round != before.round {
		s.metrics.GameStarted(modeClassic, after.size)
	}
	s.recordRound(r.Context(), s.owner(w, r), req.GameID, before, after)
	writeJSON(w, http.StatusOK, res)
}

// handleSimple wraps session operations that take only a game id.
func (s *Server) handleSimple(fn func(*game.Session) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req gameIDReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_json")
			return
		}
		before, after, res, err := s.mutate(r.Context(), req.GameID, fn)
		if err != nil {
			writeSessionError(w, err)
			return
		}
		if after.round != before.round {
			s.metrics.GameStarted(modeClassic, after.size)
		}
		s.recordRound(r.Context(), s.owner(w, r), req.GameID, before, after)
		writeJSON(w, http.StatusOK, res)
	}
}
