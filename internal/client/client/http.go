package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MacaulyV/foodbridge/internal/client/models"
	"github.com/MacaulyV/foodbridge/internal/logging"
	"github.com/MacaulyV/foodbridge/internal/netx"
)

// DefaultTimeout bounds every API call.
const DefaultTimeout = 10 * time.Second

// Options configure an HTTPClient.
type Options struct {
	BaseURL string
	Timeout time.Duration
	// Debug enables request/response logging.
	Debug  bool
	Tokens TokenSource
	Logger logging.Logger
	// Transport replaces http.DefaultTransport, mainly in tests.
	Transport http.RoundTripper
}

// HTTPClient implements Client over the FoodBridge REST API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	log     logging.Logger
}

var _ Client = (*HTTPClient)(nil)

func New(opts Options) (*HTTPClient, error) {
	u, err := url.Parse(opts.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", opts.BaseURL)
	}

	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	var rt http.RoundTripper = http.DefaultTransport
	if opts.Transport != nil {
		rt = opts.Transport
	}
	if opts.Debug {
		rt = &loggingTransport{next: rt, log: log}
	}
	rt = &bearerTransport{next: rt, tokens: opts.Tokens, log: log}

	return &HTTPClient{
		baseURL: strings.TrimRight(u.String(), "/"),
		http:    &http.Client{Timeout: timeout, Transport: rt},
		log:     log,
	}, nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// do sends one request and returns the body of a 2xx response. Anything
// else becomes an *APIError.
func (c *HTTPClient) do(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &APIError{Message: err.Error(), Err: ErrUnavailable}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Message: err.Error(), StatusCode: resp.StatusCode, Err: ErrUnavailable}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(resp.StatusCode, data)
	}
	return data, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, in any) ([]byte, error) {
	if in == nil {
		return c.do(ctx, method, path, nil, "")
	}
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("encode %s body: %w", path, err)
	}
	return c.do(ctx, method, path, bytes.NewReader(payload), "application/json")
}

func (c *HTTPClient) doForm(ctx context.Context, method, path string, form *netx.Form) ([]byte, error) {
	body, contentType, err := form.Encode()
	if err != nil {
		return nil, fmt.Errorf("encode %s form: %w", path, err)
	}
	return c.do(ctx, method, path, body, contentType)
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	body, err := c.doJSON(ctx, http.MethodPost, "/users/login", map[string]string{
		"email": email,
		"senha": password,
	})
	if err != nil {
		return nil, err
	}
	return parseAuth(body)
}

func (c *HTTPClient) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	body, err := c.doJSON(ctx, http.MethodPost, "/users", req)
	if err != nil {
		return nil, err
	}
	// some deployments answer register without a token; the caller logs in
	if _, ok := firstString(body, tokenPaths); !ok {
		res := &AuthResult{}
		if u, err := parseUser(body); err == nil && u.HasIdentity() {
			res.User = u
		}
		return res, nil
	}
	return parseAuth(body)
}

func (c *HTTPClient) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*models.APIUser, error) {
	body, err := c.doJSON(ctx, http.MethodPut, "/users/"+url.PathEscape(id), req)
	if err != nil {
		return nil, err
	}
	if isAck(body) {
		return nil, nil
	}
	return parseUser(body)
}

func (c *HTTPClient) DeleteUser(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), nil, "")
	return err
}

func (c *HTTPClient) GetUserComplete(ctx context.Context, id string) (*models.APIUserComplete, error) {
	body, err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(id)+"/completo", nil, "")
	if err != nil {
		return nil, err
	}

	raw := body
	if r, ok := firstObject(body, userPaths); ok {
		raw = []byte(r.Raw)
	}
	var out models.APIUserComplete
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: complete user: %v", ErrMalformedResponse, err)
	}
	return &out, nil
}

func (c *HTTPClient) CreateDonation(ctx context.Context, form *netx.Form) (*models.Donation, error) {
	body, err := c.doForm(ctx, http.MethodPost, "/donations", form)
	if err != nil {
		return nil, err
	}
	if isAck(body) {
		return &models.Donation{}, nil
	}
	return parseDonation(body)
}

func (c *HTTPClient) ListDonations(ctx context.Context) ([]models.Donation, error) {
	body, err := c.do(ctx, http.MethodGet, "/donations", nil, "")
	if err != nil {
		return nil, err
	}
	return parseDonations(body)
}

func (c *HTTPClient) ListUserDonations(ctx context.Context, userID string) ([]models.Donation, error) {
	body, err := c.do(ctx, http.MethodGet, "/donations/user/"+url.PathEscape(userID), nil, "")
	if err != nil {
		return nil, err
	}
	return parseDonations(body)
}

func (c *HTTPClient) UpdateDonation(ctx context.Context, id string, form *netx.Form) (*models.Donation, error) {
	body, err := c.doForm(ctx, http.MethodPut, "/donations/"+url.PathEscape(id), form)
	if err != nil {
		return nil, err
	}
	if isAck(body) {
		return &models.Donation{}, nil
	}
	return parseDonation(body)
}

func (c *HTTPClient) DeleteDonation(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/donations/"+url.PathEscape(id), nil, "")
	return err
}
