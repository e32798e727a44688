// internal/httpserver/routes_game.go
//
// Game endpoints, mounted under /game with withSession:
//   GET  /game        -> current state (may finish a game and start the next)
//   POST /game/guess  -> apply one letter, then current state
//   POST /game/new    -> abandon the current game and start another
//
// Every handler resolves through the engine, commits the session and then
// writes stateRes. Guess problems (bad letter, repeat) keep the state and
// add an error string with a 4xx status.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/internal/game"
)

const (
	msgInvalidLetter = "Please enter a letter from A-Z."
	msgDuplicate     = "You already guessed that letter."
	msgStale         = "No word found in session. Starting new game."
)

// stateRes is the JSON view of a game.
type stateRes struct {
	Word             string `json:"word"`             // e.g. "C _ T"
	IncorrectGuesses string `json:"incorrectGuesses"` // e.g. "XQ"
	Remaining        int    `json:"remaining"`
	GameEnd          bool   `json:"gameEnd"`
	GameWin          bool   `json:"gameWin"`
	Message          string `json:"message,omitempty"`
	Error            string `json:"error,omitempty"`
}

// guessReq is the JSON body for POST /game/guess.
type guessReq struct {
	Letter string `json:"letter"`
}

// handleState returns the current state.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, http.StatusOK, stateRes{})
}

// handleGuess validates and applies one letter.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	letter, ok := readLetter(r)
	if !ok {
		s.respond(w, r, http.StatusBadRequest, stateRes{Error: msgInvalidLetter})
		return
	}

	sess := sessionFrom(r)
	switch err := s.engine.ApplyGuess(sess, letter); {
	case err == nil:
		s.respond(w, r, http.StatusOK, stateRes{})
	case errors.Is(err, game.ErrGameOver):
		// the pending end message is what the player needs to see
		s.respond(w, r, http.StatusOK, stateRes{})
	case errors.Is(err, game.ErrInvalidLetter):
		s.respond(w, r, http.StatusBadRequest, stateRes{Error: msgInvalidLetter})
	case errors.Is(err, game.ErrDuplicateGuess):
		s.respond(w, r, http.StatusConflict, stateRes{Error: msgDuplicate})
	case errors.Is(err, game.ErrStaleSession):
		log.Info().Str("session", sess.ID()).Msg("guess on expired session, starting new game")
		s.respond(w, r, http.StatusConflict, stateRes{Message: msgStale})
	default:
		log.Error().Err(err).Str("session", sess.ID()).Msg("apply guess")
		http.Error(w, `{"error":"guess_failed"}`, http.StatusInternalServerError)
	}
}

// handleNewGame replaces the current game with a fresh one.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if err := s.engine.NewGame(r.Context(), sess); err != nil {
		log.Error().Err(err).Str("session", sess.ID()).Msg("new game")
		http.Error(w, `{"error":"word_source_unavailable"}`, http.StatusBadGateway)
		return
	}
	s.respond(w, r, http.StatusOK, stateRes{})
}

// respond resolves the session's game, commits the session and writes the
// state with status. extra supplies Message/Error overrides.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, status int, extra stateRes) {
	sess := sessionFrom(r)
	d, resolveErr := s.engine.Resolve(r.Context(), sess)

	// commit even when resolving failed: an applied guess must survive
	if err := sess.Commit(r.Context()); err != nil {
		log.Error().Err(err).Str("session", sess.ID()).Msg("commit session")
		http.Error(w, `{"error":"session_unavailable"}`, http.StatusInternalServerError)
		return
	}
	if resolveErr != nil {
		log.Error().Err(resolveErr).Str("session", sess.ID()).Msg("resolve game")
		http.Error(w, `{"error":"word_source_unavailable"}`, http.StatusBadGateway)
		return
	}

	res := stateRes{
		Word:             strings.TrimRight(d.Pattern, " "),
		IncorrectGuesses: d.Incorrect,
		Remaining:        d.Remaining,
		GameEnd:          d.Ended,
		GameWin:          d.Won,
		Message:          d.Message,
		Error:            extra.Error,
	}
	if res.Message == "" {
		res.Message = extra.Message
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(res)
}

// readLetter extracts a single A-Z letter from a JSON body ({"letter":"a"})
// or a form field ("guess" or "letter").
func readLetter(r *http.Request) (rune, bool) {
	var raw string
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req guessReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return 0, false
		}
		raw = req.Letter
	} else {
		raw = r.FormValue("guess")
		if raw == "" {
			raw = r.FormValue("letter")
		}
	}

	raw = strings.TrimSpace(raw)
	if utf8.RuneCountInString(raw) != 1 {
		return 0, false
	}
	c, _ := utf8.DecodeRuneInString(raw)
	if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
		return 0, false
	}
	return c, true
}
