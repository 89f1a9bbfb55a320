package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"skinvault/pkg/retry"
)

var errTest = errors.New("test error")

func testPolicy(retries int) retry.Policy {
	return retry.Policy{
		Retries:         retries,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
	}
}

func TestDo(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name      string
		retries   int
		failTimes int
		permanent bool
		calls     int
		wantErr   bool
	}{
		{
			name:  "Success on first call",
			calls: 1,
		},
		{
			name:      "Success after one retry",
			retries:   1,
			failTimes: 1,
			calls:     2,
		},
		{
			name:      "Retries exhausted",
			retries:   1,
			failTimes: 5,
			calls:     2,
			wantErr:   true,
		},
		{
			name:      "Permanent error is not retried",
			retries:   3,
			failTimes: 5,
			permanent: true,
			calls:     1,
			wantErr:   true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			calls := 0

			err := retry.Do(context.Background(), testPolicy(tc.retries), func() error {
				calls++
				if calls <= tc.failTimes {
					if tc.permanent {
						return retry.Permanent(errTest)
					}

					return errTest
				}

				return nil
			})

			rq.Equal(tc.calls, calls)

			if tc.wantErr {
				rq.ErrorIs(err, errTest)
			} else {
				rq.NoError(err)
			}
		})
	}
}

func TestDoCanceledContext(t *testing.T) {
	rq := require.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0

	err := retry.Do(ctx, testPolicy(3), func() error {
		calls++
		return errTest
	})

	rq.Error(err)
	rq.LessOrEqual(calls, 1)
}
