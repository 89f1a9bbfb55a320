package httpx

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"skinvault/pkg/logx"
	"skinvault/pkg/retry"
)

var errBodyNotRewindable = errors.New("request body cannot be replayed")

// RetryRoundTripper repeats requests that failed on the transport level or
// returned a 5xx status, according to the retry policy.
type RetryRoundTripper struct {
	next   http.RoundTripper
	policy retry.Policy
}

func NewRetryRoundTripper(next http.RoundTripper, policy retry.Policy) RetryRoundTripper {
	return RetryRoundTripper{
		next:   next,
		policy: policy,
	}
}

func (rt RetryRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	var (
		resp    *http.Response
		attempt int
	)

	err := retry.Do(req.Context(), rt.policy, func() error {
		attemptReq, err := rt.prepare(req, attempt)
		if err != nil {
			return retry.Permanent(err)
		}

		attempt++

		res, err := rt.next.RoundTrip(attemptReq)
		if err != nil {
			logger(req.Context()).Warn("round trip failed", slog.Int("attempt", attempt), logx.Error(err))
			return fmt.Errorf("next.RoundTrip: %w", err)
		}

		if res.StatusCode >= http.StatusInternalServerError && attempt <= rt.policy.Retries {
			res.Body.Close()
			return fmt.Errorf("upstream status %d", res.StatusCode) //nolint:err113
		}

		resp = res

		return nil
	})
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	return resp, nil
}

func (rt RetryRoundTripper) prepare(req *http.Request, attempt int) (*http.Request, error) {
	if attempt == 0 {
		return req, nil
	}

	return rewind(req)
}

// rewind clones req with a fresh copy of its body.
func rewind(req *http.Request) (*http.Request, error) {
	clone := req.Clone(req.Context())

	if req.Body == nil || req.Body == http.NoBody {
		return clone, nil
	}

	if req.GetBody == nil {
		return nil, errBodyNotRewindable
	}

	body, err := req.GetBody()
	if err != nil {
		return nil, fmt.Errorf("req.GetBody: %w", err)
	}

	clone.Body = body

	return clone, nil
}
