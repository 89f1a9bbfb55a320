// Package proxyclient calls the steam-api price proxy to evaluate trades
// remotely.
package proxyclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"

	"skinvault/internal/domain/entity"
	"skinvault/pkg/httpx"
	"skinvault/pkg/logx"
	"skinvault/pkg/lox"
	"skinvault/pkg/rest"
	"skinvault/pkg/retry"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const (
	actionEvaluateTrade = "evaluateTrade"
	maxResponseSize     = 1 << 20
	logFieldMaxLen      = 4096
)

var (
	ErrStatus          = errors.New("unexpected proxy status")
	ErrEmptyEvaluation = errors.New("empty evaluation")
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New builds a client whose transport logs masked dumps and retries transport
// errors and 5xx responses once.
func New(baseURL, apiKey string, timeout time.Duration, transport http.RoundTripper) *Client {
	if transport == nil {
		transport = http.DefaultTransport
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: httpx.NewLoggingRoundTripper(
				httpx.NewRetryRoundTripper(transport, retry.Once()),
				httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
				httpx.WithLogFieldMaxLen(logFieldMaxLen),
			),
		},
	}
}

func (c *Client) EvaluateTrade(ctx context.Context, your, their []entity.TradeItem) (string, error) {
	body, err := json.Marshal(rest.SteamAPIRequest{
		Action:     actionEvaluateTrade,
		YourItems:  lox.Map(your, toRESTItem),
		TheirItems: lox.Map(their, toRESTItem),
	})
	if err != nil {
		return "", fmt.Errorf("json.Marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/steam-api", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	if c.apiKey != "" {
		req.Header.Set("Apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("httpClient.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}

	var response rest.TradeEvaluationResponse
	if err = json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&response); err != nil {
		return "", fmt.Errorf("json.Decode: %w", err)
	}

	if response.Evaluation == "" {
		return "", ErrEmptyEvaluation
	}

	return response.Evaluation, nil
}

func toRESTItem(item entity.TradeItem) rest.TradeItem {
	return rest.TradeItem{
		ID:          item.ID,
		Name:        item.Name,
		Image:       item.Image,
		Value:       item.Value,
		MarketTrend: item.MarketTrend,
		Popularity:  item.Popularity,
	}
}
