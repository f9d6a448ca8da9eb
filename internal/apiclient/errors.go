package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var (
	// ErrUnauthorized matches any APIError carrying a 401.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden matches any APIError carrying a 403.
	ErrForbidden = errors.New("forbidden")
	// ErrMissingToken is returned when a login response yields no token.
	ErrMissingToken = errors.New("login response carried no token")
)

const maxErrorBody = 64 << 10

// APIError is a non-2xx backend response.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Code != "" {
		return fmt.Sprintf("backend %d %s: %s", e.Status, e.Code, msg)
	}
	return fmt.Sprintf("backend %d: %s", e.Status, msg)
}

// Is lets errors.Is match the status sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	default:
		return false
	}
}

// errorBody covers both backend error shapes: {"error": "<text>"} and
// {"error": "<code>", "message": "<text>"}.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func newAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{Status: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return apiErr
	}

	var body errorBody
	if json.Unmarshal(raw, &body) != nil {
		apiErr.Message = strings.TrimSpace(string(raw))
		return apiErr
	}
	if body.Message != "" {
		apiErr.Code = body.Error
		apiErr.Message = body.Message
	} else {
		apiErr.Message = body.Error
	}
	return apiErr
}
