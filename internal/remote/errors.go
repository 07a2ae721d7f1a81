// Package remote holds the HTTP clients for optional external collaborators:
// the OpenFoodFacts product database and a recipe suggestion API. Callers
// treat every failure as recoverable and fall back to local data.
package remote

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrNotFound reports that the remote service answered but had no match.
var ErrNotFound = errors.New("remote: not found")

// FetchError wraps a failed call to an external API.
type FetchError struct {
	Source     string // "openfoodfacts", "recipes"
	StatusCode int    // 0 when the request never got a response
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Source, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

const defaultTimeout = 12 * time.Second

func httpClientOrDefault(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return &http.Client{Timeout: defaultTimeout}
}
