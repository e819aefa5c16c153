// internal/httpserver/routes_game.go
//
// HTTP routes for playing a game.
//   - POST   /games               → start a game on a preset
//   - POST   /games/import        → replay the layout of a YAML snapshot, or
//                                    resume it as saved with ?mode=resume
//   - GET    /games/{id}          → current view
//   - POST   /games/{id}/click    → apply (row, col, button), return the view
//   - GET    /games/{id}/snapshot → YAML snapshot, finished games only (not
//                                    today's daily board)
//   - DELETE /games/{id}          → abandon the game and stop its timer
//
// Every /games/{id} route requires the game token handed out on creation.

package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/minesweeper/internal/game"
)

const (
	maxSnapshotBytes = 1 << 20
	maxClickBytes    = 1 << 10
)

// mountGames registers all /games routes.
func (s *Server) mountGames(r chi.Router) {
	r.Route("/games", func(r chi.Router) {
		r.Post("/", s.handleNewGame)
		r.Post("/daily", s.handleDaily)
		r.Post("/import", s.handleImport)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(s.withGame)
			r.Get("/", s.handleView)
			r.Post("/click", s.handleClick)
			r.Get("/snapshot", s.handleSnapshot)
			r.Delete("/", s.handleDelete)
		})
	})
}

// sessionOpts returns the options every new session gets.
func (s *Server) sessionOpts(extra ...game.Option) []game.Option {
	var opts []game.Option
	if s.cfg.Clock != nil {
		opts = append(opts, game.WithClock(s.cfg.Clock))
	}
	return append(opts, extra...)
}

// -----------------------------------------------------------------------------
// POST /games

// newGameReq/Res payloads for POST /games.
type newGameReq struct {
	Preset string  `json:"preset"` // beginner | intermediate | expert
	Seed   *uint64 `json:"seed"`   // optional fixed seed (testing, sharing)
}
type newGameRes struct {
	GameID string    `json:"gameId"`
	Token  string    `json:"token"`
	Date   string    `json:"date,omitempty"`
	View   game.View `json:"view"`
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	cfg, ok := s.preset(req.Preset)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown_preset")
		return
	}
	var extra []game.Option
	if req.Seed != nil {
		extra = append(extra, game.WithSeed(*req.Seed))
	}
	g, err := game.NewSession(cfg, s.sessionOpts(extra...)...)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_config")
		return
	}
	s.startGame(w, r, g, "")
}

func (s *Server) preset(name string) (game.Config, bool) {
	if name == "" {
		name = s.cfg.DefaultPreset
	}
	return game.PresetByName(name)
}

// startGame stores g, issues its token and writes the 201 response.
func (s *Server) startGame(w http.ResponseWriter, r *http.Request, g *game.Session, date string) {
	if err := s.store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	tok, exp, err := s.signToken(g.ID)
	if err != nil {
		log.Error().Err(err).Str("gameId", g.ID).Msg("sign game token")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	s.setTokenCookie(w, g.ID, tok, exp)
	log.Info().Str("gameId", g.ID).Str("preset", g.Config.Name).Str("date", date).Msg("game created")

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(newGameRes{GameID: g.ID, Token: tok, Date: date, View: g.View()})
}

// -----------------------------------------------------------------------------
// POST /games/import

// handleImport starts a game from a posted snapshot. The default mode replays
// the mine layout from a fresh start; mode=resume restores the board, state
// and elapsed time under a new id.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("mode")
	if mode != "" && mode != "replay" && mode != "resume" {
		writeError(w, http.StatusBadRequest, "unknown_mode")
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSnapshotBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "snapshot_too_large")
		return
	}
	snap, err := game.ParseSnapshot(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_yaml")
		return
	}
	var g *game.Session
	if mode == "resume" {
		g, err = snap.Restore(s.sessionOpts(game.WithID(uuid.NewString()))...)
	} else {
		g, err = snap.Replay(s.sessionOpts()...)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_snapshot")
		return
	}
	s.startGame(w, r, g, "")
}

// -----------------------------------------------------------------------------
// /games/{id}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(gameFrom(r).View())
}

// clickReq is the request payload for /games/{id}/click.
type clickReq struct {
	Row    *int   `json:"row"`
	Col    *int   `json:"col"`
	Button string `json:"button"` // left | right | chord
}

// handleClick applies one click. Out-of-range coordinates and clicks on a
// finished game return the unchanged view.
func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	var req clickReq
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxClickBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if req.Row == nil || req.Col == nil {
		writeError(w, http.StatusBadRequest, "missing_coordinates")
		return
	}
	btn, err := game.ParseButton(req.Button)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown_button")
		return
	}

	g := gameFrom(r)
	before := g.State()
	v := g.HandleClick(*req.Row, *req.Col, btn)
	if v.State != before && v.State.Terminal() {
		log.Info().
			Str("gameId", g.ID).
			Str("state", v.State.String()).
			Int("elapsed", v.ElapsedSeconds).
			Msg("game finished")
	}
	_ = json.NewEncoder(w).Encode(v)
}

// handleSnapshot returns the YAML snapshot of a finished game. Running games
// and today's daily board are refused so the layout can't be peeked.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	g := gameFrom(r)
	if !g.State().Terminal() {
		writeError(w, http.StatusConflict, "game_in_progress")
		return
	}
	if s.dailyIsLive(g) {
		writeError(w, http.StatusConflict, "daily_in_progress")
		return
	}
	data, err := g.Snapshot()
	if err != nil {
		log.Error().Err(err).Str("gameId", g.ID).Msg("snapshot")
		writeError(w, http.StatusInternalServerError, "snapshot_failed")
		return
	}
	w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
	_, _ = w.Write(data)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	g := gameFrom(r)
	if err := s.store.Delete(r.Context(), g.ID); err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
