package client

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MacaulyV/foodbridge/internal/common"
)

var (
	ErrUnavailable       = errors.New("server unavailable")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrBadCredentials    = errors.New("invalid email or password")
	ErrNotFound          = errors.New("resource not found")
	ErrConflict          = errors.New("conflict")
	ErrServer            = errors.New("server error")
	ErrRequest           = errors.New("request rejected")
	ErrMalformedResponse = errors.New("malformed response")
)

// APIError is a failed API call. StatusCode is 0 when no response arrived.
type APIError struct {
	Message    string
	StatusCode int
	Details    string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%v: %s", e.Err, e.Message)
	}
	return fmt.Sprintf("%v (%d): %s", e.Err, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

func sentinelForStatus(status int) error {
	switch {
	case status == 401 || status == 403:
		return ErrUnauthorized
	case status == 404:
		return ErrNotFound
	case status == 409:
		return ErrConflict
	case status >= 500:
		return ErrServer
	default:
		return ErrRequest
	}
}

const (
	msgConnection   = "Could not reach the server. Check your connection and try again."
	msgCredentials  = "Incorrect email or password."
	msgSession      = "Your session has ended. Please log in again."
	msgForbidden    = "You are not allowed to do that."
	msgEmailTaken   = "This email is already registered."
	msgNotFound     = "This item is no longer available."
	msgImage        = "One of the images could not be uploaded."
	msgValidation   = "Please review the form fields."
	msgServer       = "The server had a problem. Please try again later."
	msgUnclassified = "Something went wrong. Please try again."
)

// serverTextRules classify failures from the text the server sent when no
// structured cause applies. Order matters: the first match wins.
var serverTextRules = []struct {
	needles []string
	message string
}{
	{[]string{"network error", "connection refused", "no such host", "timeout", "timed out"}, msgConnection},
	{[]string{"já cadastrado", "já existe", "already exists", "already registered", "duplicate"}, msgEmailTaken},
	{[]string{"senha incorreta", "credenciais", "invalid credentials", "wrong password"}, msgCredentials},
	{[]string{"não encontrad", "nao encontrad", "not found"}, msgNotFound},
	{[]string{"imagem", "image", "arquivo", "file too large"}, msgImage},
}

// Classify maps err to a short user-facing message. Structured causes are
// checked first; server text is substring-matched only as a fallback.
func Classify(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, common.ErrValidation):
		return msgValidation
	case errors.Is(err, ErrBadCredentials):
		return msgCredentials
	case errors.Is(err, ErrUnavailable):
		return msgConnection
	case errors.Is(err, common.ErrNoSession), errors.Is(err, common.ErrSessionExpired):
		return msgSession
	}

	text := strings.ToLower(err.Error())
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		text = strings.ToLower(apiErr.Message + " " + apiErr.Details)
	}
	for _, rule := range serverTextRules {
		for _, n := range rule.needles {
			if strings.Contains(text, n) {
				return rule.message
			}
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized):
		return msgForbidden
	case errors.Is(err, ErrConflict):
		return msgEmailTaken
	case errors.Is(err, ErrNotFound), errors.Is(err, common.ErrNotFound):
		return msgNotFound
	case errors.Is(err, ErrServer):
		return msgServer
	}
	return msgUnclassified
}
