// internal/game/types.go
//
// Core type definitions for the Hangman game engine.
// Defines:
//   - Status: outcome of the current game (Ongoing/Win/Defeat).
//   - Session: the key/value capability the engine reads and writes.
//   - WordSource: supplier of fresh secret words.
//   - Display: snapshot returned to callers for rendering.
//   - Sentinel errors for the engine's failure modes.

package game

import (
	"context"
	"errors"
	"strings"
)

// MaxGuesses is the number of wrong guesses a player may make and still be
// in the game. Defeat is declared once this count is exceeded, i.e. on the
// seventh wrong letter.
const MaxGuesses = 6

// Session keys. Each one is an independent string value in the store.
const (
	KeyWord      = "RandomWord"
	KeyStatus    = "GameStatus"
	KeyCorrect   = "CorrectGuesses"
	KeyIncorrect = "IncorrectGuesses"
)

// Status is the outcome of the current game, persisted as a string.
type Status string

const (
	StatusOngoing Status = "Ongoing"
	StatusWin     Status = "Win"
	StatusDefeat  Status = "Defeat"
)

// ParseStatus maps a stored value back to a Status, ignoring case.
// Absent or unknown values read as StatusOngoing.
func ParseStatus(s string) Status {
	switch {
	case strings.EqualFold(s, string(StatusWin)):
		return StatusWin
	case strings.EqualFold(s, string(StatusDefeat)):
		return StatusDefeat
	default:
		return StatusOngoing
	}
}

// Session is the per-user key/value state the engine operates on.
// Get returns "" for absent keys. Clear removes every key.
//
// Implementations canonicalise values to upper case, so the engine can
// compare what it reads without normalising again.
type Session interface {
	Get(key string) string
	Set(key, value string)
	Clear()
}

// WordSource supplies a new secret word on demand.
type WordSource interface {
	FetchWord(ctx context.Context) (string, error)
}

// Display is what a caller needs to render the current game.
type Display struct {
	Pattern   string // one letter or "_" per position, each followed by a space
	Incorrect string // wrong letters guessed so far
	Remaining int    // wrong guesses left before the next one ends the game
	Ended     bool   // a game finished on this read
	Won       bool   // the finished game was won
	Message   string // end-of-game narrative, empty while ongoing
}

var (
	// ErrStaleSession means a guess arrived for a session that has no word,
	// usually because the store expired it while the player was idle.
	ErrStaleSession = errors.New("no word found in session; session likely timed out")

	// ErrDuplicateGuess means the letter was already guessed, right or wrong.
	ErrDuplicateGuess = errors.New("you already guessed that letter")

	// ErrGameOver means the current game already ended and has not been
	// resolved into a new one yet.
	ErrGameOver = errors.New("game is over")

	// ErrInvalidLetter means the guess was not a single letter A-Z.
	ErrInvalidLetter = errors.New("please enter a letter from A-Z")

	// ErrWordSource wraps any failure to obtain a new word.
	ErrWordSource = errors.New("word source unavailable")
)
