package client

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// probePaths are tried in order by CheckConnection.
var probePaths = []string{"/users/login", "/health", "/"}

// CheckConnection reports the first probe endpoint that answers below 500.
// It is meant for diagnostics; callers must not gate retries on it.
func (c *HTTPClient) CheckConnection(ctx context.Context) ConnectionReport {
	var last ConnectionReport
	for _, p := range probePaths {
		start := time.Now()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+p, nil)
		if err != nil {
			return ConnectionReport{Endpoint: p, Err: err}
		}

		resp, err := c.http.Do(req)
		latency := time.Since(start)
		if err != nil {
			last = ConnectionReport{Endpoint: p, Latency: latency, Err: &APIError{Message: err.Error(), Err: ErrUnavailable}}
			if ctx.Err() != nil {
				return last
			}
			continue
		}
		resp.Body.Close()

		if resp.StatusCode < 500 {
			c.log.Debug(ctx, "connection ok", "endpoint", p, "status", resp.StatusCode, "latency", latency)
			return ConnectionReport{OK: true, Endpoint: p, Status: resp.StatusCode, Latency: latency}
		}
		last = ConnectionReport{
			Endpoint: p,
			Status:   resp.StatusCode,
			Latency:  latency,
			Err:      &APIError{Message: fmt.Sprintf("probe %s", p), StatusCode: resp.StatusCode, Err: ErrServer},
		}
	}
	return last
}

// Ping returns nil when CheckConnection succeeds.
func (c *HTTPClient) Ping(ctx context.Context) error {
	rep := c.CheckConnection(ctx)
	if rep.OK {
		return nil
	}
	return rep.Err
}
