package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	apperrors "eatfit/internal/errors"
	"eatfit/internal/model"
)

const defaultTimeout = 30 * time.Second

// Client talks to the EatFit backend. It holds the in-memory copy of the
// bearer token; persisting the token is the auth manager's job, never the
// client's.
type Client struct {
	baseURL    string
	httpClient *http.Client
	validate   *validator.Validate

	mu    sync.RWMutex
	token string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying transport, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the transport-wide request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// New creates a client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		validate:   validator.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken attaches a bearer token to all subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// ClearToken removes the attached bearer token.
func (c *Client) ClearToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
}

// Token returns the currently attached bearer token, if any.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Login exchanges credentials for a bearer token. The endpoint speaks
// OAuth2 password form encoding: the email travels as "username".
func (c *Client) Login(ctx context.Context, creds model.Credentials) (model.Token, error) {
	if err := c.validate.Struct(creds); err != nil {
		return model.Token{}, &apperrors.APIError{StatusCode: 0, Detail: err.Error(), Kind: apperrors.KindValidation}
	}

	form := url.Values{}
	form.Set("username", creds.Email)
	form.Set("password", creds.Password)

	req, err := c.newRequest(ctx, http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	if err != nil {
		return model.Token{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var tok model.Token
	if err := c.do(req, &tok); err != nil {
		return model.Token{}, err
	}
	return tok, nil
}

// Signup creates a new account and returns the created profile. It does not
// log the user in; callers chain a Login with the same credentials.
func (c *Client) Signup(ctx context.Context, input model.SignupInput) (*model.UserProfile, error) {
	if err := c.validate.Struct(input); err != nil {
		return nil, &apperrors.APIError{StatusCode: 0, Detail: err.Error(), Kind: apperrors.KindValidation}
	}

	req, err := c.newJSONRequest(ctx, http.MethodPost, "/users/", input)
	if err != nil {
		return nil, err
	}

	var profile model.UserProfile
	if err := c.do(req, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// CurrentUser fetches the authenticated user's profile.
func (c *Client) CurrentUser(ctx context.Context) (*model.UserProfile, error) {
	if c.Token() == "" {
		return nil, apperrors.FromStatus(http.StatusUnauthorized, "no bearer token attached")
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/users/me", nil)
	if err != nil {
		return nil, err
	}

	var profile model.UserProfile
	if err := c.do(req, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateCurrentUser applies a partial update; only non-nil fields change on
// the server, which returns the full updated profile.
func (c *Client) UpdateCurrentUser(ctx context.Context, patch model.ProfileUpdate) (*model.UserProfile, error) {
	if err := c.validate.Struct(patch); err != nil {
		return nil, &apperrors.APIError{StatusCode: 0, Detail: err.Error(), Kind: apperrors.KindValidation}
	}
	if c.Token() == "" {
		return nil, apperrors.FromStatus(http.StatusUnauthorized, "no bearer token attached")
	}

	req, err := c.newJSONRequest(ctx, http.MethodPatch, "/users/me", patch)
	if err != nil {
		return nil, err
	}

	var profile model.UserProfile
	if err := c.do(req, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) newJSONRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	req, err := c.newRequest(ctx, method, path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-Request-ID", uuid.New().String())
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	return req, nil
}

// do executes the request once, with no retry, and decodes the response into
// out. Non-2xx responses become APIErrors carrying the server detail.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperrors.FromStatus(resp.StatusCode, apperrors.DecodeDetail(body))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
