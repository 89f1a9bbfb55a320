// Package skinclient is the Go client of the skinvault HTTP API.
package skinclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"skinvault/pkg/httpx"
	"skinvault/pkg/rest"
	"skinvault/pkg/retry"
)

const defaultTimeout = 10 * time.Second

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// APIError is a non-2xx answer of the API.
type APIError struct {
	StatusCode int
	Code       rest.ErrorCode
	Message    string
	SupportID  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("skinclient: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

type Options struct {
	Timeout   time.Duration
	Transport http.RoundTripper
}

// Client binds every call to the caller's context. Calls that need a session
// go through the bearer round tripper and fail with ErrUnauthenticated while
// signed out.
type Client struct {
	baseURL string
	state   *State
	public  *http.Client
	private *http.Client
}

func New(baseURL string, state *State, opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = defaultTimeout
	}

	if opts.Transport == nil {
		opts.Transport = http.DefaultTransport
	}

	transport := httpx.NewRetryRoundTripper(opts.Transport, retry.Once())

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		state:   state,
		public:  &http.Client{Timeout: opts.Timeout, Transport: transport},
		private: &http.Client{
			Timeout:   opts.Timeout,
			Transport: httpx.NewAuthBearerRoundTripper(transport, state),
		},
	}
}

func (c *Client) State() *State {
	return c.state
}

func (c *Client) SignUp(ctx context.Context, email, password string) (rest.Session, error) {
	return c.authenticate(ctx, "/v1/auth/sign-up", email, password)
}

func (c *Client) SignIn(ctx context.Context, email, password string) (rest.Session, error) {
	return c.authenticate(ctx, "/v1/auth/sign-in", email, password)
}

// SignOut drops the local session. Tokens are stateless, so the server is not
// involved.
func (c *Client) SignOut() {
	c.state.clear()
}

// Portfolio returns the demo portfolio while signed out.
func (c *Client) Portfolio(ctx context.Context) (rest.Portfolio, error) {
	var result rest.Portfolio

	httpClient := c.public
	if _, ok := c.state.Session(); ok {
		httpClient = c.private
	}

	if err := c.do(ctx, httpClient, http.MethodGet, "/v1/portfolio", nil, &result); err != nil {
		return rest.Portfolio{}, err
	}

	return result, nil
}

func (c *Client) ListSkins(ctx context.Context) ([]rest.Skin, error) {
	var result []rest.Skin

	if err := c.do(ctx, c.private, http.MethodGet, "/v1/skins", nil, &result); err != nil {
		return nil, err
	}

	return result, nil
}

func (c *Client) GetSkin(ctx context.Context, id int64) (rest.Skin, error) {
	var result rest.Skin

	if err := c.do(ctx, c.private, http.MethodGet, skinPath(id, ""), nil, &result); err != nil {
		return rest.Skin{}, err
	}

	return result, nil
}

func (c *Client) AddSkin(ctx context.Context, skin rest.SkinCreate) (rest.Skin, error) {
	var result rest.Skin

	if err := c.do(ctx, c.private, http.MethodPost, "/v1/skins", skin, &result); err != nil {
		return rest.Skin{}, err
	}

	return result, nil
}

func (c *Client) UpdateSkin(ctx context.Context, id int64, patch rest.SkinPatch) (rest.Skin, error) {
	var result rest.Skin

	if err := c.do(ctx, c.private, http.MethodPatch, skinPath(id, ""), patch, &result); err != nil {
		return rest.Skin{}, err
	}

	return result, nil
}

func (c *Client) DeleteSkin(ctx context.Context, id int64) error {
	return c.do(ctx, c.private, http.MethodDelete, skinPath(id, ""), nil, nil)
}

func (c *Client) SellSkin(ctx context.Context, id int64, sale rest.SellRequest) (rest.Transaction, error) {
	var result rest.SellResponse

	if err := c.do(ctx, c.private, http.MethodPost, skinPath(id, "/sell"), sale, &result); err != nil {
		return rest.Transaction{}, err
	}

	return result.Transaction, nil
}

func (c *Client) RefreshSkin(ctx context.Context, id int64) (rest.Skin, error) {
	var result rest.Skin

	if err := c.do(ctx, c.private, http.MethodPost, skinPath(id, "/refresh"), struct{}{}, &result); err != nil {
		return rest.Skin{}, err
	}

	return result, nil
}

// ListTransactions returns the newest transactions first. A zero limit uses
// the server default.
func (c *Client) ListTransactions(ctx context.Context, limit int) ([]rest.Transaction, error) {
	path := "/v1/transactions"
	if limit != 0 {
		path += "?" + url.Values{"limit": []string{strconv.Itoa(limit)}}.Encode()
	}

	var result []rest.Transaction

	if err := c.do(ctx, c.private, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}

	return result, nil
}

func (c *Client) EvaluateTrade(ctx context.Context, request rest.TradeEvaluateRequest) (rest.TradeEvaluation, error) {
	var result rest.TradeEvaluation

	if err := c.do(ctx, c.public, http.MethodPost, "/v1/trade/evaluate", request, &result); err != nil {
		return rest.TradeEvaluation{}, err
	}

	return result, nil
}

func (c *Client) authenticate(ctx context.Context, path, email, password string) (rest.Session, error) {
	var session rest.Session

	err := c.do(ctx, c.public, http.MethodPost, path, rest.Credentials{Email: email, Password: password}, &session)
	if err != nil {
		return rest.Session{}, err
	}

	c.state.set(session)

	return session, nil
}

func (c *Client) do(ctx context.Context, httpClient *http.Client, method, path string, body, dest any) error {
	var payload io.Reader = http.NoBody

	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("json.Marshal: %w", err)
		}

		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		if errors.Is(err, ErrUnauthenticated) {
			return ErrUnauthenticated
		}

		return fmt.Errorf("httpClient.Do: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return c.apiError(resp, httpClient == c.private)
	}

	if dest == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err = json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("json.Decode: %w", err)
	}

	return nil
}

// apiError decodes the error model. A rejected session is dropped.
func (c *Client) apiError(resp *http.Response, authenticated bool) error {
	var body rest.Error

	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Message == "" {
		body.Message = http.StatusText(resp.StatusCode)
	}

	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Code:       body.Code,
		Message:    body.Message,
		SupportID:  body.SupportID,
	}

	if resp.StatusCode == http.StatusUnauthorized && authenticated {
		c.state.clear()
		return fmt.Errorf("%w: %w", ErrUnauthenticated, apiErr)
	}

	return apiErr
}

func skinPath(id int64, suffix string) string {
	return "/v1/skins/" + strconv.FormatInt(id, 10) + suffix
}
