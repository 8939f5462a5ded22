package client

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/MacaulyV/foodbridge/internal/client/models"
	"github.com/tidwall/gjson"
)

var (
	tokenPaths    = []string{"token", "accessToken", "data.token"}
	userPaths     = []string{"user", "usuario", "data.user", "data.usuario"}
	donationPaths = []string{"doacao", "donation", "data", "@this"}
	listPaths     = []string{"@this", "doacoes", "donations", "data"}
	messagePaths  = []string{"message", "erro", "error", "mensagem"}
)

// firstString returns the first path that resolves to a JSON string.
func firstString(body []byte, paths []string) (gjson.Result, bool) {
	for _, p := range paths {
		r := gjson.GetBytes(body, p)
		if r.Type == gjson.String {
			return r, true
		}
	}
	return gjson.Result{}, false
}

func firstObject(body []byte, paths []string) (gjson.Result, bool) {
	for _, p := range paths {
		r := gjson.GetBytes(body, p)
		if r.IsObject() {
			return r, true
		}
	}
	return gjson.Result{}, false
}

func firstArray(body []byte, paths []string) (gjson.Result, bool) {
	for _, p := range paths {
		r := gjson.GetBytes(body, p)
		if r.IsArray() {
			return r, true
		}
	}
	return gjson.Result{}, false
}

// isAck reports whether a 2xx body carries no JSON object, as with 204
// answers or plain-text acknowledgements.
func isAck(body []byte) bool {
	return !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject()
}

func parseAuth(body []byte) (*AuthResult, error) {
	tok, ok := firstString(body, tokenPaths)
	if !ok || tok.String() == "" {
		return nil, fmt.Errorf("%w: no token in response", ErrMalformedResponse)
	}

	res := &AuthResult{Token: tok.String()}
	if raw, ok := firstObject(body, userPaths); ok {
		var u models.APIUser
		if err := json.Unmarshal([]byte(raw.Raw), &u); err != nil {
			return nil, fmt.Errorf("%w: user: %v", ErrMalformedResponse, err)
		}
		res.User = &u
	}
	return res, nil
}

// parseUser accepts the user either wrapped or at the top level.
func parseUser(body []byte) (*models.APIUser, error) {
	raw := body
	if r, ok := firstObject(body, userPaths); ok {
		raw = []byte(r.Raw)
	}
	var u models.APIUser
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("%w: user: %v", ErrMalformedResponse, err)
	}
	return &u, nil
}

func parseDonation(body []byte) (*models.Donation, error) {
	r, ok := firstObject(body, donationPaths)
	if !ok {
		return nil, fmt.Errorf("%w: no donation in response", ErrMalformedResponse)
	}
	var d models.Donation
	if err := json.Unmarshal([]byte(r.Raw), &d); err != nil {
		return nil, fmt.Errorf("%w: donation: %v", ErrMalformedResponse, err)
	}
	return &d, nil
}

func parseDonations(body []byte) ([]models.Donation, error) {
	r, ok := firstArray(body, listPaths)
	if !ok {
		return nil, fmt.Errorf("%w: no donation list in response", ErrMalformedResponse)
	}
	out := make([]models.Donation, 0, len(r.Array()))
	if err := json.Unmarshal([]byte(r.Raw), &out); err != nil {
		return nil, fmt.Errorf("%w: donations: %v", ErrMalformedResponse, err)
	}
	return out, nil
}

const maxDetails = 512

// newAPIError builds the error for a non-2xx response.
func newAPIError(status int, body []byte) *APIError {
	msg := ""
	if gjson.ValidBytes(body) {
		if r, ok := firstString(body, messagePaths); ok {
			msg = r.String()
		}
	}
	details := strings.TrimSpace(string(body))
	details = truncate(details, maxDetails)
	if msg == "" {
		msg = details
	}
	return &APIError{Message: msg, StatusCode: status, Details: details, Err: sentinelForStatus(status)}
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
