// internal/words/words.go
//
// Word sources for new Hangman games.
//
// Sources:
//   - APISource (api.go): fetches a random word from an HTTP+JSON word API.
//   - ListSource (list.go): picks a random word from a word list file or the
//     embedded default list.
//   - FallbackSource (below): tries one source, then another.
//
// Every source returns a single uppercase A–Z word, or a *SourceError.
// Select builds the source named by the WORD_SOURCE setting.

package words

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// Source supplies one new word per call.
type Source interface {
	FetchWord(ctx context.Context) (string, error)
}

// SourceError reports a failed fetch from a named source.
type SourceError struct {
	Source string // "api", "list", "fallback"
	Err    error
}

func (e *SourceError) Error() string {
	return "words: " + e.Source + ": " + e.Err.Error()
}

func (e *SourceError) Unwrap() error { return e.Err }

var errNoUsableWord = errors.New("no usable word")

// FallbackSource asks Primary first and Secondary only if Primary fails.
type FallbackSource struct {
	Primary   Source
	Secondary Source
}

// FetchWord implements Source.
func (f *FallbackSource) FetchWord(ctx context.Context) (string, error) {
	w, err := f.Primary.FetchWord(ctx)
	if err == nil {
		return w, nil
	}
	log.Warn().Err(err).Msg("primary word source failed, using fallback")

	w, err2 := f.Secondary.FetchWord(ctx)
	if err2 != nil {
		return "", &SourceError{Source: "fallback", Err: errors.Join(err, err2)}
	}
	return w, nil
}

// Select returns the source for mode: "api", "list" or "api+list".
func Select(mode string, api *APISource, list *ListSource) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "api", "":
		return api, nil
	case "list":
		return list, nil
	case "api+list":
		return &FallbackSource{Primary: api, Secondary: list}, nil
	default:
		return nil, fmt.Errorf("words: unknown word source %q", mode)
	}
}

// normalize trims and upper-cases w, returning "" unless it is all A–Z.
func normalize(w string) string {
	w = strings.ToUpper(strings.TrimSpace(w))
	if w == "" || !isAlpha(w) {
		return ""
	}
	return w
}

// isAlpha reports whether s is all uppercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
