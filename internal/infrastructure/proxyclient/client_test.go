package proxyclient_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"skinvault/internal/domain/entity"
	"skinvault/internal/infrastructure/proxyclient"
	"skinvault/pkg/rest"
)

func TestEvaluateTrade(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name     string
		failures int32
		status   int
		body     string
		want     string
		calls    int32
		wantErr  error
	}{
		{name: "Success", body: `{"evaluation":"Looks fair."}`, want: "Looks fair.", calls: 1},
		{name: "Retried once on 502", failures: 1, body: `{"evaluation":"Looks fair."}`, want: "Looks fair.", calls: 2},
		{name: "Bad request", status: http.StatusBadRequest, body: `{"error":"bad"}`, calls: 1, wantErr: proxyclient.ErrStatus},
		{name: "Empty evaluation", body: `{"evaluation":""}`, calls: 1, wantErr: proxyclient.ErrEmptyEvaluation},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			var calls atomic.Int32

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := calls.Add(1)

				rq.Equal("/steam-api", r.URL.Path)
				rq.Equal("proxy-key", r.Header.Get("Apikey"))

				b, err := io.ReadAll(r.Body)
				rq.NoError(err)

				var request rest.SteamAPIRequest
				rq.NoError(jsoniter.Unmarshal(b, &request))
				rq.Equal("evaluateTrade", request.Action)
				rq.Len(request.YourItems, 1)
				rq.Len(request.TheirItems, 2)

				if n <= tc.failures {
					w.WriteHeader(http.StatusBadGateway)
					return
				}

				if tc.status != 0 {
					w.WriteHeader(tc.status)
				}

				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client := proxyclient.New(server.URL, "proxy-key", time.Second, nil)

			got, err := client.EvaluateTrade(context.Background(),
				[]entity.TradeItem{{ID: "1", Value: decimal.NewFromInt(100)}},
				[]entity.TradeItem{{ID: "2", Value: decimal.NewFromInt(50)}, {ID: "3", Value: decimal.NewFromInt(30)}},
			)
			rq.Equal(tc.calls, calls.Load())

			if tc.wantErr != nil {
				rq.ErrorIs(err, tc.wantErr)
				return
			}

			rq.NoError(err)
			rq.Equal(tc.want, got)
		})
	}
}
