package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var (
	// ErrValidation marks requests rejected locally, before any network
	// call is made.
	ErrValidation = errors.New("validation")

	// ErrUnauthorized marks a 401 from a protected endpoint. Callers
	// must drop the local session when they see it.
	ErrUnauthorized = errors.New("unauthorized")
)

// responseError turns a non-OK response into an error. When the body
// parses as JSON with a message field that message is surfaced,
// otherwise the raw body text, otherwise a generic status line.
func responseError(resp *http.Response) error {
	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: status 401", ErrUnauthorized)
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var env struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &env); err == nil && env.Message != "" {
		return errors.New(env.Message)
	}
	if len(body) > 0 {
		return errors.New(string(body))
	}
	return fmt.Errorf("request failed with status %d", resp.StatusCode)
}
