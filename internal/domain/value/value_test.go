package value_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"skinvault/internal/domain/value"
)

func TestParseWear(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name    string
		input   string
		want    value.Wear
		wantErr bool
	}{
		{name: "Empty defaults to factory new", input: "", want: value.WearFactoryNew},
		{name: "Exact", input: "Field-Tested", want: value.WearFieldTested},
		{name: "Case insensitive", input: " battle-scarred ", want: value.WearBattleScarred},
		{name: "Unknown", input: "Mint", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			got, err := value.ParseWear(tc.input)
			if tc.wantErr {
				rq.ErrorIs(err, value.ErrUnknownWear)
				return
			}

			rq.NoError(err)
			rq.Equal(tc.want, got)
		})
	}
}

func TestParseTrend(t *testing.T) {
	rq := require.New(t)

	rq.Equal(value.TrendUp, value.ParseTrend("up"))
	rq.Equal(value.TrendDown, value.ParseTrend("DOWN"))
	rq.Equal(value.TrendNone, value.ParseTrend("sideways"))
	rq.Equal(value.TrendNone, value.ParseTrend(""))
	rq.Nil(value.TrendNone.Ptr())
	rq.Equal("up", *value.TrendUp.Ptr())
}

func TestTrendBetween(t *testing.T) {
	rq := require.New(t)

	rq.Equal(value.TrendUp, value.TrendBetween(decimal.NewFromInt(10), decimal.NewFromInt(12)))
	rq.Equal(value.TrendDown, value.TrendBetween(decimal.NewFromInt(10), decimal.RequireFromString("9.99")))
	rq.Equal(value.TrendNone, value.TrendBetween(decimal.NewFromInt(10), decimal.RequireFromString("10.00")))
}

func TestParseTransactionType(t *testing.T) {
	rq := require.New(t)

	got, err := value.ParseTransactionType("price_change")
	rq.NoError(err)
	rq.Equal(value.TransactionPriceChange, got)

	_, err = value.ParseTransactionType("gift")
	rq.ErrorIs(err, value.ErrUnknownTransactionType)
}
