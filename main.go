// main.go
//
// Entry point for the Hangman server.
// Responsibilities:
//   - Load .env and configuration, set up zerolog.
//   - Build the session store (memory or SQLite) and its janitor.
//   - Build the word source chain and the game engine.
//   - Serve HTTP until SIGINT/SIGTERM, then shut down gracefully.

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/internal/config"
	"github.com/robalobadob/hangman/internal/game"
	"github.com/robalobadob/hangman/internal/httpserver"
	"github.com/robalobadob/hangman/internal/session"
	"github.com/robalobadob/hangman/internal/words"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	setupLogging(cfg)

	store, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.SessionStore).Msg("failed to open session store")
	}
	sessions := session.NewManager(store)
	sessions.StartJanitor(cfg.SweepInterval)

	src, err := wordSource(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up word source")
	}

	srv := httpserver.New(game.NewEngine(src), sessions, httpserver.Options{
		CookieName:    cfg.CookieName,
		SessionSecret: cfg.SessionSecret,
		ClientOrigin:  cfg.ClientOrigin,
	})
	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.SessionStore).
			Str("words", cfg.WordSource).Dur("idle", cfg.IdleTimeout).Msg("starting hangman server")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server exited")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := sessions.Close(); err != nil {
		log.Error().Err(err).Msg("close session store")
	}
}

// setupLogging applies LOG_LEVEL and LOG_FORMAT to the global logger.
func setupLogging(cfg *config.Config) {
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		log.Warn().Str("level", cfg.LogLevel).Msg("unknown LOG_LEVEL, keeping default")
	}
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

// openStore builds the configured session store.
func openStore(cfg *config.Config) (session.Store, error) {
	if cfg.SessionStore == "sqlite" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		st, err := session.OpenSQLite(ctx, cfg.DatabasePath, cfg.IdleTimeout)
		if err != nil {
			return nil, err
		}
		return st, nil
	}
	return session.NewMemoryStore(cfg.IdleTimeout), nil
}

// wordSource builds the word source chain selected by WORD_SOURCE.
func wordSource(cfg *config.Config) (words.Source, error) {
	api := words.NewAPISource(cfg.WordAPIURL, cfg.WordAPITimeout)
	list, err := words.LoadList(cfg.WordsFile)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("words", list.Len()).Str("file", cfg.WordsFile).Msg("word list loaded")
	return words.Select(cfg.WordSource, api, list)
}
