// internal/httpserver/routes_daily.go
//
// HTTP route for the daily board.
//   - POST /games/daily → start today's board for a preset
//
// Every player gets the same seed for a given UTC date and preset, so the
// same first click yields the same layout. Nothing is recorded about who
// played, and snapshots of a daily board are refused until the date rolls
// over.

package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/robalobadob/minesweeper/internal/daily"
	"github.com/robalobadob/minesweeper/internal/game"
)

// dailyReq is the request payload for /games/daily.
type dailyReq struct {
	Preset string `json:"preset"`
}

// handleDaily creates a session seeded from today's date.
func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	var req dailyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	cfg, ok := s.preset(req.Preset)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown_preset")
		return
	}

	now := s.now()
	date := daily.DateKey(now)
	seed := daily.Seed(now, s.cfg.DailySalt, cfg.Name)
	g, err := game.NewSession(cfg, s.sessionOpts(game.WithSeed(seed), game.WithDaily(date))...)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_config")
		return
	}
	s.startGame(w, r, g, date)
}

// dailyIsLive reports whether g is today's daily board, whose layout must not
// leak while others can still play it.
func (s *Server) dailyIsLive(g *game.Session) bool {
	return g.Daily != "" && g.Daily == daily.DateKey(s.now())
}
