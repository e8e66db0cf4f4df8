// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start a daily board (creates or reuses session)
//   - POST /daily/click       → toggle a queen on today's board
//   - GET  /daily/leaderboard → fetch top 20 results for today (or a given date)
//
// Each player can solve the daily board once per day (enforced by DB + in-memory session).
// Daily sessions live in their own store so /game routes cannot resize them.
// A solved board is dropped at once; sessions of past days are evicted on the
// next /daily/new and by the server's pruning loop.
// The board size is derived from date + salt.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/hamomel/queens/server/internal/board"
	"github.com/hamomel/queens/server/internal/daily"
	"github.com/hamomel/queens/server/internal/game"
	"github.com/hamomel/queens/server/internal/store"
)

const modeDaily = "daily"

// Daily click states.
const (
	dailyInProgress = "in_progress"
	dailyWon        = "won"
	dailyLocked     = "locked"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	boards   store.Store
	now      func() time.Time         // guarded by mu
	sessions map[string]*dailySession // active sessions keyed by playerID|date
	mu       sync.Mutex               // guards now, sessions and their Finished flag
}

// dailySession tracks an in-progress daily board.
type dailySession struct {
	GameID   string
	PlayerID string
	Date     string
	Start    time.Time
	Finished bool
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		boards:   store.NewMemoryStore(),
		now:      time.Now,
		sessions: make(map[string]*dailySession),
	}
	s.daily = dd
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/click", dd.handleClick)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

func (d *dailyServer) clock() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.now()
}

func (d *dailyServer) setClock(now func() time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.now = now
}

// today returns today's date key and board size.
func (d *dailyServer) today() (date string, size int) {
	now := d.clock()
	cfg := d.srv.cfg.Daily
	return daily.DateKey(now), daily.BoardSize(now, cfg.Salt, cfg.MinSize, cfg.MaxSize)
}

// evictStale drops sessions (and their boards) that belong to a past day.
func (d *dailyServer) evictStale(ctx context.Context) int {
	date, _ := d.today()
	d.mu.Lock()
	var stale []string
	for key, sess := range d.sessions {
		if sess.Date != date {
			stale = append(stale, sess.GameID)
			delete(d.sessions, key)
		}
	}
	d.mu.Unlock()

	for _, id := range stale {
		if err := d.boards.Delete(ctx, id); err != nil {
			log.Warn().Err(err).Str("gameId", id).Msg("delete daily board")
		}
	}
	return len(stale)
}

// claimAnon hands a guest's daily results and open sessions to userID.
// An open guest session is dropped when the user already has one that day.
func (d *dailyServer) claimAnon(ctx context.Context, anonID, userID string) {
	if anonID == "" || userID == "" {
		return
	}
	if err := d.store.ClaimAnon(ctx, anonID, userID); err != nil {
		log.Warn().Err(err).Msg("claim anon daily results")
	}

	d.mu.Lock()
	var dropped []string
	for key, sess := range d.sessions {
		if sess.PlayerID != anonID {
			continue
		}
		delete(d.sessions, key)
		userKey := userID + "|" + sess.Date
		if _, taken := d.sessions[userKey]; taken {
			dropped = append(dropped, sess.GameID)
			continue
		}
		sess.PlayerID = userID
		d.sessions[userKey] = sess
	}
	d.mu.Unlock()

	for _, id := range dropped {
		_ = d.boards.Delete(ctx, id)
	}
}

// playerID returns the authenticated user ID if logged in,
// otherwise the anonymous cookie id.
func (d *dailyServer) playerID(w http.ResponseWriter, r *http.Request) string {
	o := d.srv.owner(w, r)
	if o.UserID != "" {
		return o.UserID
	}
	return o.AnonymousID
}

// -----------------------------------------------------------------------------
// /daily/new

// dailyNewRes is returned by /daily/new.
type dailyNewRes struct {
	GameID string          `json:"gameId"`
	Date   string          `json:"date"`
	Size   int             `json:"size"`
	Played bool            `json:"played"`
	State  *game.ViewState `json:"state,omitempty"`
}

// handleNew creates or reuses a daily session for the current date.
//   - If the player already has a DB row for today → Played=true.
//   - Otherwise create/reuse an in-memory session and return its state.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	pid := d.playerID(w, r)
	d.evictStale(r.Context())
	date, size := d.today()

	if played, err := d.store.AlreadyPlayed(r.Context(), pid, date); err != nil {
		log.Warn().Err(err).Msg("daily already played")
	} else if played {
		writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Size: size, Played: true})
		return
	}

	key := pid + "|" + date
	d.mu.Lock()
	sess, ok := d.sessions[key]
	if !ok {
		g, err := game.New(d.srv.engine, size)
		if err != nil {
			d.mu.Unlock()
			writeSessionError(w, err)
			return
		}
		if err := d.boards.Save(r.Context(), g); err != nil {
			d.mu.Unlock()
			writeError(w, http.StatusInternalServerError, "save_failed")
			return
		}
		sess = &dailySession{GameID: g.ID, PlayerID: pid, Date: date, Start: d.now()}
		d.sessions[key] = sess
		d.srv.metrics.GameStarted(modeDaily, size)
	}
	finished := sess.Finished
	d.mu.Unlock()
	if finished {
		writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Size: size, Played: true})
		return
	}

	var st game.ViewState
	if err := d.boards.Update(r.Context(), sess.GameID, func(g *game.Session) error {
		st = g.State()
		return nil
	}); err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dailyNewRes{GameID: sess.GameID, Date: date, Size: size, State: &st})
}

// -----------------------------------------------------------------------------
// /daily/click

// dailyClickRes is the response payload for /daily/click.
type dailyClickRes struct {
	Status string         `json:"status"` // in_progress | won | locked
	State  game.ViewState `json:"state"`
	Events []game.Event   `json:"events"`
}

// handleClick applies a click to today's daily board.
//   - Rejects unknown sessions or sessions of another player/date.
//   - A finished session is locked.
//   - On win the result (moves, elapsed) is persisted once.
func (d *dailyServer) handleClick(w http.ResponseWriter, r *http.Request) {
	pid := d.playerID(w, r)

	var p clickReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	date, size := d.today()

	d.mu.Lock()
	sess, ok := d.sessions[pid+"|"+date]
	d.mu.Unlock()
	if !ok || sess.GameID != p.GameID {
		writeError(w, http.StatusConflict, "no_session")
		return
	}

	d.mu.Lock()
	finished := sess.Finished
	d.mu.Unlock()
	if finished {
		writeJSON(w, http.StatusOK, dailyClickRes{Status: dailyLocked, Events: []game.Event{}})
		return
	}

	var (
		res   dailyClickRes
		won   bool
		moves int
	)
	err := d.boards.Update(r.Context(), sess.GameID, func(g *game.Session) error {
		if err := g.Click(board.Pos(p.Row, p.Column)); err != nil {
			return err
		}
		won, moves = g.Won(), g.Moves()
		res = dailyClickRes{Status: dailyInProgress, State: g.State(), Events: g.DrainEvents()}
		if won {
			res.Status = dailyWon
			d.mu.Lock()
			sess.Finished = true
			d.mu.Unlock()
		}
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		// solved by a concurrent click and already dropped
		writeJSON(w, http.StatusOK, dailyClickRes{Status: dailyLocked, Events: []game.Event{}})
		return
	}
	if err != nil {
		writeSessionError(w, err)
		return
	}

	if won {
		elapsed := int(d.clock().Sub(sess.Start).Milliseconds())
		if err := d.store.InsertResult(r.Context(), daily.Result{
			UserID: pid, Date: date, BoardSize: size, Moves: moves, ElapsedMs: elapsed,
		}); err != nil {
			log.Warn().Err(err).Str("player", pid).Msg("insert daily result")
		}
		// the Finished marker stays until the day rolls over; the board is done
		if err := d.boards.Delete(r.Context(), sess.GameID); err != nil {
			log.Warn().Err(err).Str("gameId", sess.GameID).Msg("delete daily board")
		}
		d.srv.metrics.DailySolved()
		d.srv.metrics.Win(size)
	}
	writeJSON(w, http.StatusOK, res)
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date, _ = d.today()
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		log.Error().Err(err).Msg("daily leaderboard")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
