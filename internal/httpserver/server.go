// internal/httpserver/server.go
//
// HTTP server wiring for the Queens backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health", metrics, "/sizes".
//   - Game endpoints (optional auth): mounted under /game (routes_game.go).
//   - Daily Challenge endpoints (optional auth): mounted under /daily (routes_daily.go).
//   - Auth + profile/stat endpoints: /auth/*, /stats/me, /games/mine (routes_auth.go).
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Sessions live in a store.Store; the database only records results.

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/hamomel/queens/server/internal/auth"
	"github.com/hamomel/queens/server/internal/config"
	"github.com/hamomel/queens/server/internal/game"
	"github.com/hamomel/queens/server/internal/metrics"
	"github.com/hamomel/queens/server/internal/results"
	"github.com/hamomel/queens/server/internal/rules"
	"github.com/hamomel/queens/server/internal/store"
)

// Server bundles the router, session store, result stores, and auth.
type Server struct {
	r        *chi.Mux
	cfg      *config.Config
	sessions store.Store
	engine   rules.Engine
	results  *results.Store
	auth     *auth.Authenticator
	metrics  *metrics.Metrics
	daily    *dailyServer
	db       *sql.DB
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg *config.Config, st store.Store, db *sql.DB) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		cfg:      cfg,
		sessions: st,
		engine:   rules.New(),
		results:  results.NewStore(db),
		auth: &auth.Authenticator{
			Users:   auth.NewUsers(db),
			Tokens:  auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
			Cookies: auth.Cookies{Name: cfg.Auth.CookieName, Secure: cfg.Production()},
		},
		metrics: metrics.New(),
		db:      db,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                       // add X-Request-ID
	s.r.Use(chimw.RealIP)                          // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)                         // zerolog access log
	s.r.Use(chimw.Recoverer)                       // recover from panics
	s.r.Use(chimw.Timeout(cfg.HTTP.RequestTimeout)) // bound handler time
	s.r.Use(jsonContentType)                       // default JSON responses
	s.r.Use(cors(cfg.HTTP.ClientOrigin))           // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"queens-go","endpoints":["/health","/sizes","/game/*","/daily/*","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := s.db.PingContext(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "db_unavailable")
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Method(http.MethodGet, cfg.HTTP.MetricsPath, s.metrics.Handler())
	s.r.Get("/sizes", s.handleSizes)

	// Game endpoints: OPTIONAL AUTH (guests can play)
	s.mountGame(s.r.With(s.auth.Optional))

	// Daily Challenge: OPTIONAL AUTH (guests can play; result persisted on win)
	s.mountDaily(s.r.With(s.auth.Optional))

	// Auth + profile/stats
	s.mountAuthRoutes()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Handler exposes the router (useful for tests and http.Server).
func (s *Server) Handler() http.Handler { return s.r }

// Run serves HTTP on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go s.pruneSessions(ctx)

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("starting webserver")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("stopping webserver")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// pruneSessions drops idle sessions until ctx is cancelled.
func (s *Server) pruneSessions(ctx context.Context) {
	every := max(s.cfg.Sessions.IdleTTL/4, time.Minute)
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.sweep(ctx)
		}
	}
}

// sweep runs one pruning pass over free-play and daily sessions.
func (s *Server) sweep(ctx context.Context) {
	n := s.sessions.Prune(ctx, s.cfg.Sessions.IdleTTL)
	d := s.daily.evictStale(ctx)
	if n > 0 || d > 0 {
		log.Info().Int("sessions", n).Int("daily", d).Msg("pruned idle sessions")
	}
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger writes one zerolog line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			log.Debug().
				Str("requestId", chimw.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("http request")
		}()
		next.ServeHTTP(ww, r)
	})
}

// ------------------------------- helpers -----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// sizesRes is returned by GET /sizes.
type sizesRes struct {
	Min     int `json:"min"`
	Max     int `json:"max"`
	Default int `json:"default"`
	Fit     int `json:"fit,omitempty"`
}

// handleSizes reports the allowed board sizes; with width/height (and an
// optional density) it also reports the largest board that fits the screen.
func (s *Server) handleSizes(w http.ResponseWriter, r *http.Request) {
	res := sizesRes{Min: game.MinBoardSize, Max: game.MaxBoardSize, Default: game.DefaultBoardSize}
	q := r.URL.Query()
	if q.Get("width") != "" || q.Get("height") != "" {
		width, errW := strconv.Atoi(q.Get("width"))
		height, errH := strconv.Atoi(q.Get("height"))
		if errW != nil || errH != nil || width <= 0 || height <= 0 {
			writeError(w, http.StatusBadRequest, "width and height must be positive integers")
			return
		}
		density := 1.0
		if d := q.Get("density"); d != "" {
			v, err := strconv.ParseFloat(d, 64)
			if err != nil || v <= 0 {
				writeError(w, http.StatusBadRequest, "density must be a positive number")
				return
			}
			density = v
		}
		res.Fit = game.MaxBoardSizeFor(width, height, density)
	}
	writeJSON(w, http.StatusOK, res)
}
