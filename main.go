// main.go
//
// Entry point for the Minesweeper Go server.
// Responsibilities:
//   - Load .env in development and set the zerolog level.
//   - Build the in-memory session store and start its idle sweeper.
//   - Start the HTTP server on PORT (default 5175).

package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/minesweeper/internal/httpserver"
	"github.com/robalobadob/minesweeper/internal/store"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	ttl, err := time.ParseDuration(getEnv("SESSION_TTL", "2h"))
	if err != nil {
		log.Fatal().Err(err).Msg("bad SESSION_TTL")
	}

	mem := store.NewMemoryStore(ttl)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go mem.Run(ctx, time.Minute)

	srv := httpserver.New(mem, httpserver.ConfigFromEnv())
	port := getEnv("PORT", "5175")
	log.Info().Str("port", port).Dur("sessionTTL", ttl).Msg("starting minesweeper server")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
