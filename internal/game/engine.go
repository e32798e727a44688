// internal/game/engine.go
//
// Core game engine for a single Hangman session.
// Responsibilities:
//   - Resolve the current display state, ending finished games and starting
//     new ones (fetching a word) as a side effect.
//   - Validate and apply single-letter guesses.
//   - Track state transitions: Ongoing → Win/Defeat → (cleared) Ongoing.
//
// Notes:
//   - The engine holds no per-player state; everything lives in the Session
//     passed to each call. Callers serialize calls for one session.
//   - Failed operations leave the session exactly as they found it.
package game

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	winMessage    = "Congratulations! You've found the word: "
	defeatMessage = "Alas, you failed to guess: "
	goAgain       = ". Let's try again!"
)

// Engine applies the game rules to sessions. It is safe for concurrent use
// across different sessions.
type Engine struct {
	words WordSource
}

// NewEngine constructs an engine that draws new words from src.
func NewEngine(src WordSource) *Engine {
	return &Engine{words: src}
}

// Resolve reports what should be displayed for the session right now.
//
// If the previous guess finished the game, the returned Display carries the
// end message and the session is reset to a fresh game before returning, so
// the next read already sees a new word. A session with no word (first visit
// or idle expiry) gets one.
//
// Errors wrap ErrWordSource; the session is unchanged when one is returned.
func (e *Engine) Resolve(ctx context.Context, s Session) (Display, error) {
	var d Display

	switch ParseStatus(s.Get(KeyStatus)) {
	case StatusWin:
		d.Ended, d.Won = true, true
		d.Message = winMessage + s.Get(KeyWord) + goAgain
		if err := e.restart(ctx, s); err != nil {
			return Display{}, err
		}
	case StatusDefeat:
		d.Ended = true
		d.Message = defeatMessage + s.Get(KeyWord) + goAgain
		if err := e.restart(ctx, s); err != nil {
			return Display{}, err
		}
	}

	word := s.Get(KeyWord)
	if strings.TrimSpace(word) == "" {
		w, err := e.fetch(ctx)
		if err != nil {
			return Display{}, err
		}
		s.Set(KeyWord, w)
		word = s.Get(KeyWord)
	}

	correct := s.Get(KeyCorrect)
	incorrect := s.Get(KeyIncorrect)

	d.Pattern = Reveal(word, correct)
	d.Incorrect = incorrect
	d.Remaining = remaining(incorrect)
	return d, nil
}

// ApplyGuess records one letter against the session's current word and
// updates the game status. It never starts a new game.
//
// Returns ErrInvalidLetter, ErrStaleSession, ErrGameOver or ErrDuplicateGuess
// without touching the session.
func (e *Engine) ApplyGuess(s Session, letter rune) error {
	letter = toUpper(letter)
	if letter < 'A' || letter > 'Z' {
		return ErrInvalidLetter
	}

	word := s.Get(KeyWord)
	if strings.TrimSpace(word) == "" {
		return ErrStaleSession
	}
	if ParseStatus(s.Get(KeyStatus)) != StatusOngoing {
		return ErrGameOver
	}

	correct := s.Get(KeyCorrect)
	incorrect := s.Get(KeyIncorrect)
	if strings.ContainsRune(correct, letter) || strings.ContainsRune(incorrect, letter) {
		return ErrDuplicateGuess
	}

	if strings.ContainsRune(word, letter) {
		correct += string(letter)
	} else {
		incorrect += string(letter)
	}

	status := StatusOngoing
	switch {
	case allFound(word, correct):
		status = StatusWin
		log.Debug().Str("word", word).Str("correct", correct).Str("incorrect", incorrect).Msg("game won")
	case len(incorrect) > MaxGuesses:
		status = StatusDefeat
		log.Info().Str("word", word).Str("correct", correct).Str("incorrect", incorrect).Msg("game failed")
	default:
		log.Debug().Str("word", word).Str("correct", correct).Str("incorrect", incorrect).
			Int("remaining", remaining(incorrect)).Msg("game ongoing")
	}

	s.Set(KeyCorrect, correct)
	s.Set(KeyIncorrect, incorrect)
	s.Set(KeyStatus, string(status))
	return nil
}

// NewGame abandons whatever game the session holds and starts a fresh one.
// On error the session is unchanged.
func (e *Engine) NewGame(ctx context.Context, s Session) error {
	return e.restart(ctx, s)
}

// restart replaces the session's game with a fresh one. The word is fetched
// before anything is cleared.
func (e *Engine) restart(ctx context.Context, s Session) error {
	w, err := e.fetch(ctx)
	if err != nil {
		return err
	}
	s.Clear()
	s.Set(KeyWord, w)
	return nil
}

// fetch asks the word source for a word and rejects blank results.
func (e *Engine) fetch(ctx context.Context) (string, error) {
	w, err := e.words.FetchWord(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to retrieve new word")
		return "", fmt.Errorf("%w: %w", ErrWordSource, err)
	}
	w = strings.ToUpper(strings.TrimSpace(w))
	if w == "" {
		return "", fmt.Errorf("%w: empty word", ErrWordSource)
	}
	return w, nil
}

// Reveal renders word with unguessed letters masked: each position becomes
// the letter (if present in guessed, ignoring case) or "_", followed by a
// single space.
func Reveal(word, guessed string) string {
	guessed = strings.ToUpper(guessed)
	var b strings.Builder
	b.Grow(2 * len(word))
	for _, c := range strings.ToUpper(word) {
		if strings.ContainsRune(guessed, c) {
			b.WriteRune(c)
		} else {
			b.WriteByte('_')
		}
		b.WriteByte(' ')
	}
	return b.String()
}

// allFound reports whether every letter of word appears in guessed.
func allFound(word, guessed string) bool {
	for _, c := range word {
		if !strings.ContainsRune(guessed, c) {
			return false
		}
	}
	return true
}

// remaining is how many more wrong guesses fit under MaxGuesses.
func remaining(incorrect string) int {
	if n := MaxGuesses - len(incorrect); n > 0 {
		return n
	}
	return 0
}

func toUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - 'a' + 'A'
	}
	return r
}
