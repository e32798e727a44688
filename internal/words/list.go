// internal/words/list.go
//
// ListSource: random words from a local list.
//
// Loading (LoadList):
//   1. If a path is given (WORDS_FILE), read one word per line from it.
//   2. Otherwise use the embedded assets/words.txt.
//
// Lines are trimmed and upper-cased; blank lines, '#' comments and anything
// that is not purely alphabetic are dropped. An empty result is an error.

package words

import (
	"bufio"
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"os"
	"strings"

	"github.com/robalobadob/hangman/assets"
)

// ListSource picks a cryptographically random word from a fixed list.
type ListSource struct {
	words []string
}

// NewListSource builds a source from raw words, keeping only usable ones.
func NewListSource(raw []string) (*ListSource, error) {
	var list []string
	for _, w := range raw {
		if strings.HasPrefix(strings.TrimSpace(w), "#") {
			continue
		}
		if n := normalize(w); n != "" {
			list = append(list, n)
		}
	}
	if len(list) == 0 {
		return nil, errors.New("words: word list is empty")
	}
	return &ListSource{words: list}, nil
}

// LoadList reads the list at path, or the embedded default when path is "".
func LoadList(path string) (*ListSource, error) {
	if path == "" {
		raw, err := assets.WordList()
		if err != nil {
			return nil, err
		}
		return NewListSource(raw)
	}
	raw, err := readWordFile(path)
	if err != nil {
		return nil, err
	}
	return NewListSource(raw)
}

// readWordFile loads one entry per line from a file.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		out = append(out, sc.Text())
	}
	return out, sc.Err()
}

// FetchWord implements Source.
func (l *ListSource) FetchWord(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &SourceError{Source: "list", Err: err}
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(l.words))))
	if err != nil {
		return "", &SourceError{Source: "list", Err: err}
	}
	return l.words[n.Int64()], nil
}

// Len reports how many words the list holds.
func (l *ListSource) Len() int { return len(l.words) }
