// Package retry runs an operation with a bounded number of retries and
// exponential backoff between attempts.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

type Policy struct {
	Retries         int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// Once is the policy used for network-facing calls: a single retry.
func Once() Policy {
	return Policy{
		Retries:         1,
		InitialInterval: 200 * time.Millisecond, //nolint:mnd // skip
		MaxInterval:     2 * time.Second,        //nolint:mnd // skip
	}
}

// Do calls op until it succeeds, returns a Permanent error, the retries are
// exhausted or ctx is done. The last error of op is returned.
func Do(ctx context.Context, p Policy, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.MaxInterval = p.MaxInterval

	retries := p.Retries
	if retries < 0 {
		retries = 0
	}

	return backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, uint64(retries)), ctx)) //nolint:wrapcheck
}

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	return backoff.Permanent(err)
}
