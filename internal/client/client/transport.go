package client

import (
	"net/http"
	"time"

	"github.com/MacaulyV/foodbridge/internal/common"
	"github.com/MacaulyV/foodbridge/internal/logging"
)

// bearerTransport attaches the stored token to every outgoing request.
type bearerTransport struct {
	next   http.RoundTripper
	tokens TokenSource
	log    logging.Logger
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.tokens == nil || req.Header.Get(common.AuthorizationHeaderName) != "" {
		return t.next.RoundTrip(req)
	}

	token, err := t.tokens(req.Context())
	if err != nil {
		// a broken store must not block unauthenticated endpoints
		t.log.Warn(req.Context(), "read token", "error", err)
	}
	if token == "" {
		return t.next.RoundTrip(req)
	}

	r := req.Clone(req.Context())
	r.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	return t.next.RoundTrip(r)
}

// loggingTransport logs each exchange at debug level. Bodies are not
// logged; they carry passwords.
type loggingTransport struct {
	next http.RoundTripper
	log  logging.Logger
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	t.log.Debug(req.Context(), "api request", "method", req.Method, "url", req.URL.String())

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		t.log.Debug(req.Context(), "api request failed",
			"method", req.Method, "url", req.URL.String(), "error", err, "latency", time.Since(start))
		return nil, err
	}

	t.log.Debug(req.Context(), "api response",
		"method", req.Method, "url", req.URL.String(), "status", resp.StatusCode, "latency", time.Since(start))
	return resp, nil
}
