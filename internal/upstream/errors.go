package upstream

import (
	"errors"
	"fmt"
	"net/http"
)

// FallbackMessage is shown when an error carries no server message.
const FallbackMessage = "Đã xảy ra lỗi không xác định"

// ErrUnauthorized is matched (errors.Is) by any 401 answer from the backend.
var ErrUnauthorized = errors.New("upstream: unauthorized")

// APIError is a non-successful answer from the kiosk backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream: status %d", e.Status)
	}
	return fmt.Sprintf("upstream: status %d: %s", e.Status, e.Message)
}

// Unwrap lets errors.Is(err, ErrUnauthorized) see 401 answers.
func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// Message maps err to a user-facing message: the server-provided message
// when there is one, FallbackMessage otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return FallbackMessage
}
