// internal/httpserver/server.go
//
// HTTP server wiring for the Minesweeper backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs,
//     request logging).
//   - Public endpoints: "/", "/health", "/presets".
//   - Game endpoints: mounted under /games (see routes_game.go).
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so the game cookie works).
//   - The server renders nothing; it returns the game view as JSON for a
//     browser front end to draw.

package httpserver

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/minesweeper/internal/game"
	"github.com/robalobadob/minesweeper/internal/store"
)

// Config carries the settings main reads from the environment.
type Config struct {
	ClientOrigin  string        // CORS origin, default http://localhost:5173
	TokenSecret   string        // HS256 key for game tokens
	TokenTTL      time.Duration // game token lifetime, default 24h
	DailySalt     string        // salt for daily board seeds
	DefaultPreset string        // preset used when a request names none
	Production    bool          // Secure + SameSite=None cookies

	// Clock drives session timers; nil means the system clock.
	Clock game.Clock
}

func (c *Config) defaults() {
	if c.ClientOrigin == "" {
		c.ClientOrigin = "http://localhost:5173"
	}
	if c.TokenSecret == "" {
		c.TokenSecret = "dev_secret_change_me"
	}
	if c.TokenTTL <= 0 {
		c.TokenTTL = 24 * time.Hour
	}
	if c.DailySalt == "" {
		c.DailySalt = "local_dev_salt"
	}
	if _, ok := game.PresetByName(c.DefaultPreset); !ok {
		c.DefaultPreset = game.Beginner.Name
	}
}

// Server bundles router, session store and settings.
type Server struct {
	r     *chi.Mux
	store store.Store
	cfg   Config
	now   func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, cfg Config) *Server {
	cfg.defaults()
	s := &Server{r: chi.NewRouter(), store: st, cfg: cfg, now: time.Now}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)                   // one zerolog line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(s.cors)                          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"minesweeper-go","endpoints":["/health","/presets","POST /games","POST /games/daily","POST /games/import","GET /games/{id}","POST /games/{id}/click","GET /games/{id}/snapshot","DELETE /games/{id}"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "games": s.store.Len()})
	})
	s.r.Get("/presets", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"presets": game.Presets(), "default": s.cfg.DefaultPreset})
	})

	s.mountGames(s.r)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs method, path, status, bytes and duration.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		log.Debug().
			Str("reqId", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("dur", time.Since(start)).
			Msg("http")
	})
}

// ------------------------------- small util --------------------------------

// writeError writes {"error": code} with the given status.
func writeError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// ConfigFromEnv reads server settings from the environment.
func ConfigFromEnv() Config {
	ttl, err := time.ParseDuration(getEnv("GAME_TOKEN_TTL", "24h"))
	if err != nil {
		log.Warn().Err(err).Msg("bad GAME_TOKEN_TTL, using 24h")
		ttl = 24 * time.Hour
	}
	return Config{
		ClientOrigin:  getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		TokenSecret:   getEnv("GAME_TOKEN_SECRET", "dev_secret_change_me"),
		TokenTTL:      ttl,
		DailySalt:     getEnv("DAILY_SALT", "local_dev_salt"),
		DefaultPreset: getEnv("DEFAULT_PRESET", game.Beginner.Name),
		Production:    os.Getenv("APP_ENV") == "production",
	}
}
