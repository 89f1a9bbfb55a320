package pricing_test

import (
	"context"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"

	"skinvault/internal/domain"
	"skinvault/internal/infrastructure/pricing"
	"skinvault/pkg/retry"
)

const itemJSON = `{"market_hash_name":"AK-47 | Redline (Field-Tested)","prices":{"safe":12.34,"latest":"12.10"}}`

type upstream struct {
	calls    atomic.Int32
	failures int32
	status   int
	lastPath atomic.Value
	lastKey  atomic.Value
}

func (u *upstream) handle(ctx *fasthttp.RequestCtx) {
	n := u.calls.Add(1)
	u.lastPath.Store(string(ctx.Path()))
	u.lastKey.Store(string(ctx.QueryArgs().Peek("api_key")))

	if n <= u.failures {
		ctx.SetStatusCode(fasthttp.StatusBadGateway)
		return
	}

	if u.status != 0 {
		ctx.SetStatusCode(u.status)
		return
	}

	ctx.SetContentType("application/json")
	ctx.SetBodyString(itemJSON)
}

func newClient(t *testing.T, u *upstream, cache pricing.Cache) *pricing.Client {
	t.Helper()

	ln := fasthttputil.NewInmemoryListener()
	server := &fasthttp.Server{Handler: u.handle}

	go func() { _ = server.Serve(ln) }()

	t.Cleanup(func() { _ = ln.Close() })

	return pricing.NewClient(pricing.Options{
		BaseURL:   "http://pricing.test",
		APIKey:    "secret-key",
		PricePath: "$.prices.safe",
		AppID:     730,
		Timeout:   time.Second,
		CacheTTL:  time.Minute,
		Cache:     cache,
		HTTPClient: &fasthttp.Client{
			Dial: func(string) (net.Conn, error) { return ln.Dial() },
		},
		Retry: &retry.Policy{Retries: 1, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond},
	})
}

func TestClientItem(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	testCases := []struct {
		name     string
		failures int32
		status   int
		calls    int32
		kind     domain.Kind
		wantErr  bool
	}{
		{name: "Success", calls: 1},
		{name: "Retried once", failures: 1, calls: 2},
		{name: "Retries exhausted", failures: 2, calls: 2, wantErr: true, kind: domain.KindUpstream},
		{name: "Not found is not retried", status: fasthttp.StatusNotFound, calls: 1, wantErr: true, kind: domain.KindNotFound},
		{name: "Client error is not retried", status: fasthttp.StatusForbidden, calls: 1, wantErr: true, kind: domain.KindUpstream},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			u := &upstream{failures: tc.failures, status: tc.status}
			client := newClient(t, u, nil)

			body, err := client.Item(ctx, 0, "AK-47 | Redline (Field-Tested)")
			rq.Equal(tc.calls, u.calls.Load())

			if tc.wantErr {
				rq.Error(err)
				rq.Equal(tc.kind, domain.KindOf(err))
				return
			}

			rq.NoError(err)
			rq.JSONEq(itemJSON, string(body))
			rq.Equal("/market/item/730/AK-47 | Redline (Field-Tested)", u.lastPath.Load())
			rq.Equal("secret-key", u.lastKey.Load())
		})
	}
}

func TestClientCache(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	u := &upstream{}
	client := newClient(t, u, pricing.NewMemoryCache(time.Minute))

	for range 3 {
		_, err := client.Item(ctx, 730, "AWP | Asiimov")
		rq.NoError(err)
	}

	rq.Equal(int32(1), u.calls.Load())

	_, err := client.Item(ctx, 570, "AWP | Asiimov")
	rq.NoError(err)
	rq.Equal(int32(2), u.calls.Load())
}

func TestClientMarketPrice(t *testing.T) {
	rq := require.New(t)

	client := newClient(t, &upstream{}, nil)

	price, err := client.MarketPrice(context.Background(), "AK-47 | Redline (Field-Tested)")
	rq.NoError(err)
	rq.True(price.Equal(decimal.RequireFromString("12.34")))

	_, err = client.MarketPrice(context.Background(), "")
	rq.True(domain.IsKind(err, domain.KindValidation))
}

func TestExtractPrice(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name    string
		body    string
		path    string
		want    string
		wantErr bool
	}{
		{name: "Number", body: itemJSON, path: "$.prices.safe", want: "12.34"},
		{name: "String", body: itemJSON, path: "$.prices.latest", want: "12.1"},
		{name: "Dollar string", body: `{"lowest_price":"$3.07"}`, path: "$.lowest_price", want: "3.07"},
		{name: "List", body: `{"history":[{"price":1.5},{"price":2}]}`, path: "$.history[*].price", want: "1.5"},
		{name: "Missing", body: itemJSON, path: "$.prices.median", wantErr: true},
		{name: "Not a number", body: `{"price":"n/a"}`, path: "$.price", wantErr: true},
		{name: "Invalid JSON", body: `{`, path: "$.price", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			got, err := pricing.ExtractPrice([]byte(tc.body), tc.path)
			if tc.wantErr {
				rq.Error(err)
				return
			}

			rq.NoError(err)
			rq.True(got.Equal(decimal.RequireFromString(tc.want)), got.String())
		})
	}
}
