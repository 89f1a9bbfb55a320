// Package pricing talks to the external market pricing API.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"

	"skinvault/internal/domain"
	"skinvault/pkg/errcodes"
	"skinvault/pkg/logx"
	"skinvault/pkg/retry"
)

const (
	defaultTimeout = 5 * time.Second
	userAgent      = "skinvault/1.0"
)

var errUpstreamStatus = errors.New("unexpected upstream status")

type Options struct {
	BaseURL   string
	APIKey    string
	PricePath string
	AppID     int
	Timeout   time.Duration
	CacheTTL  time.Duration
	Cache     Cache
	// HTTPClient overrides the default fasthttp client.
	HTTPClient *fasthttp.Client
	Retry      *retry.Policy
}

type Client struct {
	http        *fasthttp.Client
	baseURL     string
	apiKey      string
	pricePath   string
	appID       int
	timeout     time.Duration
	cacheTTL    time.Duration
	cache       Cache
	retryPolicy retry.Policy
	masker      interface{ Mask([]byte) []byte }
}

func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &fasthttp.Client{
			//nolint:exhaustruct
			Name:                     userAgent,
			ReadTimeout:              opts.Timeout,
			WriteTimeout:             opts.Timeout,
			MaxIdleConnDuration:      time.Minute,
			NoDefaultUserAgentHeader: true,
		}
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	retryPolicy := retry.Once()
	if opts.Retry != nil {
		retryPolicy = *opts.Retry
	}

	return &Client{
		http:        httpClient,
		baseURL:     opts.BaseURL,
		apiKey:      opts.APIKey,
		pricePath:   opts.PricePath,
		appID:       opts.AppID,
		timeout:     timeout,
		cacheTTL:    opts.CacheTTL,
		cache:       opts.Cache,
		retryPolicy: retryPolicy,
		masker:      logx.NewSensitiveDataMasker(),
	}
}

// Item returns the upstream JSON of one market item verbatim.
func (c *Client) Item(ctx context.Context, appID int, marketName string) ([]byte, error) {
	if marketName == "" {
		return nil, domain.Validation(errcodes.InvalidMarketName, "market name is required")
	}

	if appID == 0 {
		appID = c.appID
	}

	key := strconv.Itoa(appID) + "/" + marketName

	if c.cache != nil {
		if body, ok := c.cache.Get(ctx, key); ok {
			return body, nil
		}
	}

	var body []byte

	err := retry.Do(ctx, c.retryPolicy, func() error {
		var err error
		body, err = c.fetch(ctx, c.itemURL(appID, marketName))

		return err
	})
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if c.cache != nil && c.cacheTTL > 0 {
		c.cache.Set(ctx, key, body, c.cacheTTL)
	}

	return body, nil
}

// MarketPrice looks the item up under the default app id and extracts its
// price.
func (c *Client) MarketPrice(ctx context.Context, marketName string) (decimal.Decimal, error) {
	body, err := c.Item(ctx, c.appID, marketName)
	if err != nil {
		return decimal.Zero, fmt.Errorf("pricing.Item: %w", err)
	}

	price, err := ExtractPrice(body, c.pricePath)
	if err != nil {
		return decimal.Zero, domain.WrapError(err, domain.KindUpstream, errcodes.PriceUnavailable, "price is not available")
	}

	return price, nil
}

// fetch performs one GET. Client errors are permanent, server and transport
// errors are retried.
func (c *Client) fetch(ctx context.Context, uri string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, retry.Permanent(err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()

	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(uri)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	start := time.Now()
	err := c.http.DoDeadline(req, resp, deadline)

	logger(ctx).Debug("pricing request",
		slog.String(logx.FieldURL, string(c.masker.Mask([]byte(uri)))),
		slog.Int(logx.FieldResponseStatus, resp.StatusCode()),
		slog.Int64(logx.FieldDurationMs, time.Since(start).Milliseconds()),
		logx.Error(err),
	)

	if err != nil {
		return nil, domain.Upstream(err, "pricing api unavailable")
	}

	status := resp.StatusCode()

	switch {
	case status == fasthttp.StatusNotFound:
		return nil, retry.Permanent(domain.NotFound(errcodes.PriceUnavailable, "item not found on the market"))
	case status >= fasthttp.StatusInternalServerError:
		return nil, domain.Upstream(fmt.Errorf("%w: %d", errUpstreamStatus, status), "pricing api unavailable")
	case status < fasthttp.StatusOK || status >= fasthttp.StatusMultipleChoices:
		return nil, retry.Permanent(domain.Upstream(fmt.Errorf("%w: %d", errUpstreamStatus, status), "pricing api rejected the request"))
	}

	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())

	return body, nil
}

func (c *Client) itemURL(appID int, marketName string) string {
	query := url.Values{}
	if c.apiKey != "" {
		query.Set("api_key", c.apiKey)
	}

	uri := c.baseURL + "/market/item/" + strconv.Itoa(appID) + "/" + url.PathEscape(marketName)
	if len(query) > 0 {
		uri += "?" + query.Encode()
	}

	return uri
}
