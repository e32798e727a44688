// internal/words/api.go
//
// APISource: random words from an HTTP word list service.
//
// Expected response: 200 with a JSON array of strings, e.g. ["gizmo"].
// The first element is trimmed and upper-cased. Anything else (transport
// error, non-2xx status, undecodable body, empty array, non-alphabetic word)
// is returned as a *SourceError.

package words

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultAPIURL is the public random word API.
const DefaultAPIURL = "https://random-word-api.herokuapp.com/word"

// APISource fetches words over HTTP.
type APISource struct {
	url    string
	client *http.Client
}

// NewAPISource targets url with a client that gives up after timeout.
func NewAPISource(url string, timeout time.Duration) *APISource {
	if url == "" {
		url = DefaultAPIURL
	}
	return &APISource{url: url, client: &http.Client{Timeout: timeout}}
}

// FetchWord implements Source.
func (a *APISource) FetchWord(ctx context.Context) (string, error) {
	start := time.Now()
	defer func() {
		log.Debug().Dur("took", time.Since(start)).Str("url", a.url).Msg("word api call")
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.url, nil)
	if err != nil {
		return "", &SourceError{Source: "api", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	res, err := a.client.Do(req)
	if err != nil {
		return "", &SourceError{Source: "api", Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, res.Body)
		return "", &SourceError{Source: "api", Err: fmt.Errorf("unexpected status %d", res.StatusCode)}
	}

	var list []string
	if err := json.NewDecoder(res.Body).Decode(&list); err != nil {
		return "", &SourceError{Source: "api", Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(list) == 0 {
		return "", &SourceError{Source: "api", Err: errNoUsableWord}
	}
	w := normalize(list[0])
	if w == "" {
		return "", &SourceError{Source: "api", Err: fmt.Errorf("%w: %q", errNoUsableWord, list[0])}
	}
	return w, nil
}
